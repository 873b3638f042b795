package main

import "github.com/veryl-lang/veryl-sub003/cmd"

func main() {
	cmd.Execute()
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ComedicChimera/olive"
	"github.com/kr/pretty"
	"github.com/veryl-lang/veryl-sub003/build"
	"github.com/veryl-lang/veryl-sub003/common"
	"github.com/veryl-lang/veryl-sub003/logging"
	"github.com/veryl-lang/veryl-sub003/mods"
)

// Execute runs the main `veryl` application
func Execute() {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("veryl", "veryl is a tool for analyzing Veryl projects", true)
	cli.AddSelectorArg("loglevel", "ll", "the analyzer log level", false, []string{"silent", "error", "warn", "verbose"})
	cli.AddFlag("trace", "tr", "write a structured trace of the analysis passes to stderr")

	checkCmd := cli.AddSubcommand("check", "analyze a project and report errors", true)
	checkCmd.AddPrimaryArg("project-path", "the path to the project directory", true)

	dumpCmd := cli.AddSubcommand("dump", "print an analyzer table", true)
	dumpCmd.AddPrimaryArg("project-path", "the path to the project directory", true)
	tableArg := dumpCmd.AddSelectorArg("table", "t", "the table to print", false, []string{"symbols", "dag", "files"})
	tableArg.SetDefaultValue("symbols")
	dumpCmd.AddFlag("raw", "r", "print the raw symbol records")

	initCmd := cli.AddSubcommand("init", "initialize a project", true)
	initCmd.AddPrimaryArg("project-path", "the path to the project directory", true)
	initCmd.AddStringArg("name", "n", "the name of the project", true)

	cli.AddSubcommand("version", "print the Veryl version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		logging.PrintErrorMessage("CLI Usage Error", err)
		return
	}

	if result.HasFlag("trace") {
		if err := logging.EnableTrace(); err != nil {
			logging.PrintErrorMessage("Trace Error", err)
			return
		}
	}

	loglevel := ""
	if v, ok := result.Arguments["loglevel"]; ok {
		loglevel = v.(string)
	}

	// process the inputed command line
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "check":
		execCheckCommand(subResult, loglevel)
	case "dump":
		execDumpCommand(subResult)
	case "init":
		execInitCommand(subResult)
	case "version":
		logging.PrintInfoMessage("Veryl Version", common.VerylVersion)
	}
}

// loadAnalyzer loads the project named on the command line and creates its
// analysis session
func loadAnalyzer(result *olive.ArgParseResult) (*build.Analyzer, *mods.Project, bool) {
	projectRelPath, _ := result.PrimaryArg()

	projectPath, err := filepath.Abs(projectRelPath)
	if err != nil {
		logging.PrintErrorMessage("Path Error", err)
		return nil, nil, false
	}

	prj, err := mods.LoadProject(projectPath)
	if err != nil {
		logging.PrintErrorMessage("Project Load Error", err)
		return nil, nil, false
	}

	return build.NewAnalyzer(prj), prj, true
}

// execCheckCommand executes the check subcommand and handles all errors
func execCheckCommand(result *olive.ArgParseResult, loglevel string) {
	a, prj, ok := loadAnalyzer(result)
	if !ok {
		return
	}

	// the command line takes precedence over the project file
	if loglevel == "" {
		loglevel = prj.LogLevel
	}
	logging.Initialize(loglevel)

	if !a.Check() {
		os.Exit(1)
	}
}

// execDumpCommand executes the dump subcommand
func execDumpCommand(result *olive.ArgParseResult) {
	a, _, ok := loadAnalyzer(result)
	if !ok {
		return
	}

	a.AnalyzeFiles()

	if result.HasFlag("raw") {
		pretty.Println(a.Symbols.GetAll())
		return
	}

	out, err := a.Dump(result.Arguments["table"].(string))
	if err != nil {
		logging.PrintErrorMessage("Dump Error", err)
		return
	}

	fmt.Println(out)
}

// execInitCommand executes the init subcommand
func execInitCommand(result *olive.ArgParseResult) {
	projectRelPath, _ := result.PrimaryArg()

	projectPath, err := filepath.Abs(projectRelPath)
	if err != nil {
		logging.PrintErrorMessage("Path Error", err)
		return
	}

	name := result.Arguments["name"].(string)
	if err := mods.InitProject(name, projectPath); err != nil {
		logging.PrintErrorMessage("Project Init Error", err)
		return
	}

	logging.PrintInfoMessage("Project Initialized", fmt.Sprintf("created %s in %s", common.ProjectFileName, projectPath))
}

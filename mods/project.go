package mods

// Project is the analyzer's view of a project: its name (the root namespace of
// every declaration) and the analyzer settings from the project file
type Project struct {
	// Name is the name of the project
	Name string

	// Root is the path to the directory containing the project file
	Root string

	// InstanceDepthLimit bounds nested generic elaboration
	InstanceDepthLimit int

	// InstanceTotalLimit bounds the number of distinct generic elaborations
	InstanceTotalLimit int

	// LogLevel is the default log level when none is given on the command line
	LogLevel string
}

// tomlProjectFile represents the project file as it is encoded in TOML
type tomlProjectFile struct {
	Project  *tomlProject  `toml:"project"`
	Analyzer *tomlAnalyzer `toml:"analyzer"`
	Logging  *tomlLogging  `toml:"logging"`
}

// tomlProject represents the `[project]` table
type tomlProject struct {
	Name    string `toml:"name"`
	Version string `toml:"veryl-version"`
}

// tomlAnalyzer represents the `[analyzer]` table
type tomlAnalyzer struct {
	InstanceDepthLimit int `toml:"instance-depth-limit"`
	InstanceTotalLimit int `toml:"instance-total-limit"`
}

// tomlLogging represents the `[logging]` table
type tomlLogging struct {
	Level string `toml:"level"`
}

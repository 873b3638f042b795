package mods

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
	"github.com/veryl-lang/veryl-sub003/common"
)

// InitProject creates a new project file with the given name at the given path
func InitProject(name, path string) error {
	prjFilePath := filepath.Join(path, common.ProjectFileName)

	// check to see if a project already exists
	_, err := os.Stat(prjFilePath)
	if err == nil {
		return errors.New("project file already exists")
	}

	if !os.IsNotExist(err) {
		return fmt.Errorf("project file error: %s", err.Error())
	}

	if !common.IsValidIdentifier(name) {
		return errors.New("project name must be a valid identifier")
	}

	tpf := &tomlProjectFile{
		Project: &tomlProject{
			Name:    name,
			Version: common.VerylVersion,
		},
		Analyzer: &tomlAnalyzer{
			InstanceDepthLimit: common.DefaultInstanceDepthLimit,
			InstanceTotalLimit: common.DefaultInstanceTotalLimit,
		},
		Logging: &tomlLogging{Level: "verbose"},
	}

	f, err := os.Create(prjFilePath)
	if err != nil {
		return fmt.Errorf("error creating project file: %s", err.Error())
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(tpf); err != nil {
		return fmt.Errorf("error encoding TOML %s", err.Error())
	}

	return nil
}

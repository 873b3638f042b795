package mods

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
	"github.com/veryl-lang/veryl-sub003/common"
	"github.com/veryl-lang/veryl-sub003/logging"
)

// LoadProject loads and validates the project file in the directory at path.
// Settings missing from the file take their default values.
func LoadProject(path string) (*Project, error) {
	f, err := os.Open(filepath.Join(path, common.ProjectFileName))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buff, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, err
	}

	return ParseProject(path, buff)
}

// ParseProject decodes the contents of a project file located in root
func ParseProject(root string, buff []byte) (*Project, error) {
	tpf := &tomlProjectFile{}
	if err := toml.Unmarshal(buff, tpf); err != nil {
		return nil, err
	}

	if err := validateProject(root, tpf); err != nil {
		return nil, err
	}

	prj := &Project{
		Name:               tpf.Project.Name,
		Root:               root,
		InstanceDepthLimit: common.DefaultInstanceDepthLimit,
		InstanceTotalLimit: common.DefaultInstanceTotalLimit,
		LogLevel:           "verbose",
	}

	if tpf.Analyzer != nil {
		if tpf.Analyzer.InstanceDepthLimit != 0 {
			prj.InstanceDepthLimit = tpf.Analyzer.InstanceDepthLimit
		}

		if tpf.Analyzer.InstanceTotalLimit != 0 {
			prj.InstanceTotalLimit = tpf.Analyzer.InstanceTotalLimit
		}
	}

	if tpf.Logging != nil && tpf.Logging.Level != "" {
		prj.LogLevel = tpf.Logging.Level
	}

	return prj, nil
}

// validateProject checks that the project file contents are valid
func validateProject(root string, tpf *tomlProjectFile) error {
	if tpf.Project == nil || tpf.Project.Name == "" {
		return fmt.Errorf("missing project name for project at %s", root)
	}

	if !common.IsValidIdentifier(tpf.Project.Name) {
		return errors.New("project name must be a valid identifier")
	}

	if tpf.Analyzer != nil {
		if tpf.Analyzer.InstanceDepthLimit < 0 {
			return errors.New("instance-depth-limit must be positive")
		}

		if tpf.Analyzer.InstanceTotalLimit < 0 {
			return errors.New("instance-total-limit must be positive")
		}
	}

	if tpf.Project.Version != "" && tpf.Project.Version != common.VerylVersion {
		logging.Trace().Sugar().Warnf(
			"version of project `%s` (v%s) does not match current analyzer version (v%s)",
			tpf.Project.Name, tpf.Project.Version, common.VerylVersion,
		)
	}

	return nil
}

// NewProject creates an in-memory project with default settings
func NewProject(name string) *Project {
	return &Project{
		Name:               name,
		InstanceDepthLimit: common.DefaultInstanceDepthLimit,
		InstanceTotalLimit: common.DefaultInstanceTotalLimit,
		LogLevel:           "verbose",
	}
}

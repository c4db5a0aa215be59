package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Load loads the configuration from the directory.
func Load(dir string) (*Configuration, error) {
	// If given the path to a config.yaml file, move back up a level.
	if filepath.Base(dir) == ConfigurationName {
		dir = filepath.Dir(dir)
	}

	return loadFs(afero.NewBasePathFs(afero.NewOsFs(), dir))
}

func loadFs(configFs afero.Fs) (*Configuration, error) {
	configContents, err := afero.ReadFile(configFs, ConfigurationName)
	if err != nil {
		return nil, err
	}
	out := Configuration{configFs: configFs}
	if err := yaml.UnmarshalStrict(configContents, &out); err != nil {
		return nil, fmt.Errorf("couldn't parse %s: %v", ConfigurationName, err)
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %v", ConfigurationName, err)
	}
	return &out, nil
}

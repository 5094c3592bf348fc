package project

import (
	"os"
	"path/filepath"

	"github.com/piwi3910/BarCut/internal/model"
)

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.barcut/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".barcut")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveAppConfig persists an AppConfig to the given path, as YAML for
// .yaml/.yml paths and JSON otherwise. It creates any missing parent
// directories automatically.
func SaveAppConfig(path string, config model.AppConfig) error {
	return writeFile(path, config)
}

// LoadAppConfig reads an AppConfig from the given path.
// If the file does not exist, it returns DefaultAppConfig with no error.
// Keys missing from the file keep their default values.
func LoadAppConfig(path string) (model.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultAppConfig(), nil
		}
		return model.AppConfig{}, err
	}
	config := model.DefaultAppConfig()
	if err := decode(path, data, &config); err != nil {
		return model.AppConfig{}, err
	}
	// Ensure RecentProjects is never nil
	if config.RecentProjects == nil {
		config.RecentProjects = []string{}
	}
	return config, nil
}

// maxRecentProjects bounds the recent-projects list.
const maxRecentProjects = 10

// AddRecentProject moves path to the front of the recent-projects list.
func AddRecentProject(config *model.AppConfig, path string) {
	recent := []string{path}
	for _, p := range config.RecentProjects {
		if p != path && len(recent) < maxRecentProjects {
			recent = append(recent, p)
		}
	}
	config.RecentProjects = recent
}

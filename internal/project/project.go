// Package project persists BarCut data: projects, app configuration,
// templates, inventories and backups as JSON or YAML files, plus a sqlite log
// of optimization runs.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/BarCut/internal/model"
)

// FileExtension is the conventional extension of project files.
const FileExtension = ".barcut"

// Save writes a project file. The file is JSON unless the path ends in
// .yaml or .yml.
func Save(path string, p model.Project) error {
	if err := writeFile(path, p); err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	return nil
}

// Load reads a project file written by Save. Missing sections are filled
// with empty values so the project is always usable.
func Load(path string) (model.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to read project: %w", err)
	}
	p := model.NewProject()
	p.Targets = model.NewTargetRegistry()
	if err := decode(path, data, &p); err != nil {
		return model.Project{}, fmt.Errorf("failed to parse project: %w", err)
	}
	if p.Inventory.Stocks == nil {
		p.Inventory.Stocks = []model.StockBar{}
	}
	if p.Targets.Targets == nil {
		p.Targets.Targets = []model.Target{}
	}
	return p, nil
}

// LoadOrNew loads the project at path, or returns a new project seeded from
// the app config and named after the file when it does not exist yet.
func LoadOrNew(path string, config model.AppConfig) (model.Project, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		return config.NewProject(name), nil
	}
	return Load(path)
}

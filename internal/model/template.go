package model

import (
	"time"

	"github.com/google/uuid"
)

// ProjectTemplate represents a reusable cutting configuration: target mix,
// settings and optionally a standard inventory, but never results.
type ProjectTemplate struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
	Inventory   Inventory      `json:"inventory"`
	Targets     TargetRegistry `json:"targets"`
	Settings    CutSettings    `json:"settings"`
}

// NewProjectTemplate creates a new template from the given project data.
func NewProjectTemplate(name, description string, inv Inventory, targets TargetRegistry, settings CutSettings) ProjectTemplate {
	now := time.Now().UTC().Format(time.RFC3339)
	return ProjectTemplate{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Inventory:   inv.Clone(),
		Targets:     targets.Clone(),
		Settings:    settings,
	}
}

// ToProject creates a new Project from this template.
// Stock batches get fresh IDs so they are independent of the template.
func (t ProjectTemplate) ToProject(projectName string) Project {
	inv := NewInventory()
	for _, s := range t.Inventory.Stocks {
		inv.Stocks = append(inv.Stocks, NewStockBar(s.Label, s.Length, s.Quantity))
	}

	return Project{
		ID:        uuid.New().String()[:8],
		Name:      projectName,
		Inventory: inv,
		Targets:   t.Targets.Clone(),
		Settings:  t.Settings,
	}
}

// TemplateStore holds a collection of project templates.
type TemplateStore struct {
	Templates []ProjectTemplate `json:"templates"`
}

// NewTemplateStore creates an empty template store.
func NewTemplateStore() TemplateStore {
	return TemplateStore{
		Templates: []ProjectTemplate{},
	}
}

func (ts *TemplateStore) Add(t ProjectTemplate) {
	ts.Templates = append(ts.Templates, t)
}

// Remove removes a template by ID. Returns true if found and removed.
func (ts *TemplateStore) Remove(id string) bool {
	for i, t := range ts.Templates {
		if t.ID == id {
			ts.Templates = append(ts.Templates[:i], ts.Templates[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the template with the given ID, or nil.
func (ts *TemplateStore) FindByID(id string) *ProjectTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].ID == id {
			return &ts.Templates[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first template with the given name, or nil.
func (ts *TemplateStore) FindByName(name string) *ProjectTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].Name == name {
			return &ts.Templates[i]
		}
	}
	return nil
}

func (ts *TemplateStore) Names() []string {
	names := make([]string, len(ts.Templates))
	for i, t := range ts.Templates {
		names[i] = t.Name
	}
	return names
}

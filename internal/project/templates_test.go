package project

import (
	"path/filepath"
	"testing"

	"github.com/piwi3910/BarCut/internal/model"
)

func TestSaveAndLoadTemplates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.json")

	inv := model.NewInventory()
	inv.Add(6000, 50)
	targets := model.NewTargetRegistry()
	_ = targets.Set(1090, 60)
	_ = targets.Set(1060, 40)

	store := model.NewTemplateStore()
	store.Add(model.NewProjectTemplate("Studs", "Standard stud mix", inv, targets, model.DefaultSettings()))

	if err := SaveTemplates(path, store); err != nil {
		t.Fatalf("SaveTemplates error: %v", err)
	}

	loaded, err := LoadTemplates(path)
	if err != nil {
		t.Fatalf("LoadTemplates error: %v", err)
	}
	if len(loaded.Templates) != 1 {
		t.Fatalf("expected 1 template, got %d", len(loaded.Templates))
	}
	tmpl := loaded.Templates[0]
	if tmpl.Name != "Studs" {
		t.Errorf("expected 'Studs', got %q", tmpl.Name)
	}
	if tmpl.Targets.Goal(1090) != 60 {
		t.Errorf("expected goal 60 for 1090, got %d", tmpl.Targets.Goal(1090))
	}
	if tmpl.Inventory.Count() != 50 {
		t.Errorf("expected 50 bars, got %d", tmpl.Inventory.Count())
	}
}

func TestLoadTemplates_NotFound(t *testing.T) {
	store, err := LoadTemplates(filepath.Join(t.TempDir(), "nonexistent.json"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if len(store.Templates) != 0 {
		t.Errorf("expected empty store, got %d templates", len(store.Templates))
	}
}

func TestSaveAndLoadTemplates_Multiple(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.json")

	store := model.NewTemplateStore()
	for _, name := range []string{"T1", "T2", "T3"} {
		store.Add(model.NewProjectTemplate(name, "", model.NewInventory(), model.NewTargetRegistry(), model.DefaultSettings()))
	}

	if err := SaveTemplates(path, store); err != nil {
		t.Fatalf("SaveTemplates error: %v", err)
	}

	loaded, err := LoadTemplates(path)
	if err != nil {
		t.Fatalf("LoadTemplates error: %v", err)
	}
	if len(loaded.Templates) != 3 {
		t.Fatalf("expected 3 templates, got %d", len(loaded.Templates))
	}
	if loaded.FindByName("T2") == nil {
		t.Error("expected to find template T2")
	}
}

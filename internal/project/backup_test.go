package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/BarCut/internal/model"
)

func TestExportAndImportAllData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultKerfWidth = 3
	inv := model.NewInventory()
	inv.Add(6000, 20)
	store := model.NewTemplateStore()
	store.Add(model.NewProjectTemplate("Studs", "", inv, model.DefaultTargets(), model.DefaultSettings()))

	if err := ExportAllData(path, cfg, inv, store); err != nil {
		t.Fatalf("ExportAllData failed: %v", err)
	}

	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}
	if backup.Version != BackupVersion {
		t.Errorf("expected version %s, got %s", BackupVersion, backup.Version)
	}
	if backup.CreatedAt == "" {
		t.Error("expected non-empty CreatedAt")
	}
	if backup.Config.DefaultKerfWidth != 3 {
		t.Errorf("expected DefaultKerfWidth=3, got %d", backup.Config.DefaultKerfWidth)
	}
	if backup.Inventory.Count() != 20 {
		t.Errorf("expected 20 bars, got %d", backup.Inventory.Count())
	}
	if len(backup.Templates.Templates) != 1 {
		t.Errorf("expected 1 template, got %d", len(backup.Templates.Templates))
	}
}

func TestImportAllDataMissingFile(t *testing.T) {
	if _, err := ImportAllData(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestImportAllDataInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json}"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ImportAllData(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestImportAllDataMissingVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noversion.json")
	if err := os.WriteFile(path, []byte(`{"config":{"log_level":"debug"}}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ImportAllData(path); err == nil {
		t.Fatal("expected error for missing version")
	}
}

func TestExportAllDataCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "nested", "backup.json")

	if err := ExportAllData(path, model.DefaultAppConfig(), model.NewInventory(), model.NewTemplateStore()); err != nil {
		t.Fatalf("ExportAllData should create parent dirs: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("backup file was not created")
	}
}

func TestImportAllDataNilSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	data := []byte(`{"version":"1.0.0","created_at":"2025-01-01T00:00:00Z","config":{"recent_projects":null}}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}
	if backup.Config.RecentProjects == nil {
		t.Error("RecentProjects should not be nil after import")
	}
	if backup.Inventory.Stocks == nil || backup.Templates.Templates == nil {
		t.Error("inventory and templates should not be nil after import")
	}
}

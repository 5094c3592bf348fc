package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/BarCut/internal/model"
)

func TestDefaultInventoryPath(t *testing.T) {
	path, err := DefaultInventoryPath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(path) != "inventory.json" {
		t.Errorf("expected filename inventory.json, got %s", filepath.Base(path))
	}
	if dir := filepath.Base(filepath.Dir(path)); dir != ".barcut" {
		t.Errorf("expected parent dir .barcut, got %s", dir)
	}
}

func TestSaveAndLoadInventory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test_inventory.json")

	inv := model.NewInventory()
	inv.AddStock(model.NewStockBar("Rack A", 6000, 12))
	inv.Add(5400, 100)

	if err := SaveInventory(path, inv); err != nil {
		t.Fatalf("SaveInventory failed: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("inventory file was not created")
	}

	loaded, err := LoadInventory(path)
	if err != nil {
		t.Fatalf("LoadInventory failed: %v", err)
	}
	if len(loaded.Stocks) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(loaded.Stocks))
	}
	if loaded.Stocks[0].Label != "Rack A" || loaded.Stocks[0].Quantity != 12 {
		t.Errorf("unexpected first batch %+v", loaded.Stocks[0])
	}
	if loaded.Stocks[0].ID != inv.Stocks[0].ID {
		t.Errorf("expected ID %s to survive, got %s", inv.Stocks[0].ID, loaded.Stocks[0].ID)
	}
	if loaded.Count() != 112 {
		t.Errorf("expected 112 bars, got %d", loaded.Count())
	}
}

func TestSaveAndLoadInventoryYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.yaml")

	inv := model.NewInventory()
	inv.Add(4800, 7)
	if err := SaveInventory(path, inv); err != nil {
		t.Fatalf("SaveInventory failed: %v", err)
	}

	loaded, err := LoadInventory(path)
	if err != nil {
		t.Fatalf("LoadInventory failed: %v", err)
	}
	if len(loaded.Stocks) != 1 || loaded.Stocks[0].Length != 4800 || loaded.Stocks[0].Quantity != 7 {
		t.Errorf("unexpected inventory %+v", loaded.Stocks)
	}
}

func TestLoadInventoryCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "inventory.json")

	inv, err := LoadInventory(path)
	if err != nil {
		t.Fatalf("LoadInventory failed: %v", err)
	}
	if len(inv.Stocks) != 1 {
		t.Fatalf("expected one default batch, got %d", len(inv.Stocks))
	}
	if inv.Stocks[0].Length != model.DefaultStockLength || inv.Stocks[0].Quantity != model.DefaultStockQuantity {
		t.Errorf("expected %d x %d, got %+v", model.DefaultStockQuantity, model.DefaultStockLength, inv.Stocks[0])
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("expected default inventory file to be created")
	}
}

func TestImportInventory(t *testing.T) {
	existing := model.Inventory{
		Stocks: []model.StockBar{
			{ID: "stock-001", Label: "Rack A", Length: 6000, Quantity: 10},
		},
	}
	imported := model.Inventory{
		Stocks: []model.StockBar{
			{ID: "stock-001", Label: "Duplicate", Length: 6000, Quantity: 99}, // same ID, skipped
			{ID: "stock-002", Label: "Rack B", Length: 6000, Quantity: 5},     // same length, merged
			{ID: "stock-003", Label: "Rack C", Length: 4800, Quantity: 2},     // new
		},
	}

	importPath := filepath.Join(t.TempDir(), "import.json")
	data, _ := json.MarshalIndent(imported, "", "  ")
	if err := os.WriteFile(importPath, data, 0644); err != nil {
		t.Fatalf("failed to write import file: %v", err)
	}

	merged, err := ImportInventory(importPath, existing)
	if err != nil {
		t.Fatalf("ImportInventory failed: %v", err)
	}
	if len(merged.Stocks) != 2 {
		t.Fatalf("expected 2 batches after merge, got %d", len(merged.Stocks))
	}
	if merged.Stocks[0].Quantity != 15 {
		t.Errorf("expected 6000 mm batch to hold 15, got %d", merged.Stocks[0].Quantity)
	}
	if merged.Stocks[1].Label != "Rack C" {
		t.Errorf("expected second batch 'Rack C', got %q", merged.Stocks[1].Label)
	}
	if existing.Stocks[0].Quantity != 10 {
		t.Error("expected existing inventory to be left untouched")
	}
}

func TestImportInventoryMissingFile(t *testing.T) {
	existing := DefaultInventory()
	merged, err := ImportInventory(filepath.Join(t.TempDir(), "nope.json"), existing)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if merged.Count() != existing.Count() {
		t.Error("expected existing inventory back on error")
	}
}

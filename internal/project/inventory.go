package project

import (
	"os"
	"path/filepath"

	"github.com/piwi3910/BarCut/internal/model"
)

// DefaultInventoryPath returns the default file path for the shared inventory
// file. This is located at ~/.barcut/inventory.json.
func DefaultInventoryPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".barcut", "inventory.json"), nil
}

// DefaultInventory returns the stock a fresh inventory file starts with.
func DefaultInventory() model.Inventory {
	inv := model.NewInventory()
	inv.Add(model.DefaultStockLength, model.DefaultStockQuantity)
	return inv
}

// SaveInventory writes the inventory to the specified file.
// It creates parent directories if they do not exist.
func SaveInventory(path string, inv model.Inventory) error {
	return writeFile(path, inv)
}

// LoadInventory reads the inventory from the specified file.
// If the file does not exist, it returns the default inventory and saves it.
func LoadInventory(path string) (model.Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			inv := DefaultInventory()
			if saveErr := SaveInventory(path, inv); saveErr != nil {
				return inv, saveErr
			}
			return inv, nil
		}
		return model.Inventory{}, err
	}
	inv := model.NewInventory()
	if err := decode(path, data, &inv); err != nil {
		return model.Inventory{}, err
	}
	if inv.Stocks == nil {
		inv.Stocks = []model.StockBar{}
	}
	return inv, nil
}

// LoadOrCreateInventory loads the inventory from the default path.
// If the file does not exist, it creates one with default entries.
func LoadOrCreateInventory() (model.Inventory, string, error) {
	path, err := DefaultInventoryPath()
	if err != nil {
		return DefaultInventory(), "", err
	}
	inv, err := LoadInventory(path)
	return inv, path, err
}

// ImportInventory reads an inventory file and merges it into existing.
// Batches whose ID is already present are skipped; the rest merge by length.
func ImportInventory(path string, existing model.Inventory) (model.Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return existing, err
	}
	var imported model.Inventory
	if err := decode(path, data, &imported); err != nil {
		return existing, err
	}

	merged := existing.Clone()
	ids := make(map[string]bool, len(merged.Stocks))
	for _, s := range merged.Stocks {
		ids[s.ID] = true
	}
	for _, s := range imported.Stocks {
		if s.ID != "" && ids[s.ID] {
			continue
		}
		merged.AddStock(s)
		ids[s.ID] = true
	}
	return merged, nil
}

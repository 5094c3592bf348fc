package importer

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/piwi3910/BarCut/internal/model"
)

// headerNumber finds the first number in a demand column header, e.g. "4,2 m" or "L3600".
var headerNumber = regexp.MustCompile(`\d+\.\d+|\d+`)

// packageAliases name the column used to select packages (delivery batches).
var packageAliases = []string{"paket", "package", "pkg", "batch"}

// demandSheet is a demand table: one row per package, one column per length.
type demandSheet struct {
	rows       [][]string
	packageCol int
	lengths    map[int]int // column index -> length in mm
	columns    []int       // length columns in sheet order
}

func loadDemandSheet(path string) (demandSheet, []string, error) {
	rows, warnings, err := readRows(path)
	if err != nil {
		return demandSheet{}, warnings, err
	}
	return parseDemandSheet(rows), warnings, nil
}

func parseDemandSheet(rows [][]string) demandSheet {
	sheet := demandSheet{rows: rows, lengths: make(map[int]int)}
	header := rows[0]
	sheet.packageCol = packageColumn(header)
	for i, cell := range header {
		if i == sheet.packageCol {
			continue
		}
		num := headerNumber.FindString(strings.ReplaceAll(cell, ",", "."))
		if num == "" {
			continue
		}
		length, err := ParseLength(num)
		if err != nil {
			continue
		}
		sheet.lengths[i] = length
		sheet.columns = append(sheet.columns, i)
	}
	return sheet
}

// packageColumn returns the index of the package column, defaulting to the first.
func packageColumn(header []string) int {
	for i, cell := range header {
		name := strings.ToLower(strings.TrimSpace(cell))
		if slices.Contains(packageAliases, name) {
			return i
		}
	}
	return 0
}

// packages returns the distinct package names in first-seen order.
func (d demandSheet) packages() []string {
	seen := make(map[string]bool)
	var out []string
	for _, row := range d.rows[1:] {
		if isEmptyRow(row) {
			continue
		}
		name := getCell(row, d.packageCol)
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

// Packages lists the package names found in a demand file. The package column
// is the one headed "Paket" (or "package"), otherwise the first column.
func Packages(path string) ([]string, error) {
	sheet, _, err := loadDemandSheet(path)
	if err != nil {
		return nil, err
	}
	return sheet.packages(), nil
}

// ImportDemand reads a demand file (CSV or Excel, by extension) and sums the
// required pieces of the selected packages. Every column whose header contains
// a number is a piece length: below 100 the number is metres, otherwise mm.
// An empty package selection takes every row.
func ImportDemand(path string, packages []string) ImportResult {
	rows, warnings, err := readRows(path)
	if err != nil {
		return ImportResult{Errors: []string{err.Error()}, Warnings: warnings}
	}
	result := ImportDemandRows(rows, packages)
	result.Warnings = append(warnings, result.Warnings...)
	return result
}

// ImportDemandRows is ImportDemand on already loaded rows.
func ImportDemandRows(rows [][]string, packages []string) ImportResult {
	result := ImportResult{}
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	sheet := parseDemandSheet(rows)
	if len(sheet.columns) == 0 {
		result.Errors = append(result.Errors, "No length columns found in header")
		return result
	}

	selected := make(map[string]bool, len(packages))
	for _, p := range packages {
		selected[strings.TrimSpace(p)] = true
	}
	known := sheet.packages()
	for _, p := range packages {
		p = strings.TrimSpace(p)
		if !slices.Contains(known, p) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Package '%s' not found", p))
		}
	}

	totals := make(map[int]float64, len(sheet.columns))
	for _, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}
		if len(selected) > 0 && !selected[getCell(row, sheet.packageCol)] {
			continue
		}
		for _, col := range sheet.columns {
			if v, ok := numericCell(getCell(row, col)); ok {
				totals[col] += v
			}
		}
	}

	// Columns resolving to the same length are merged under the first header.
	byLength := make(map[int]int)
	for _, col := range sheet.columns {
		qty := int(totals[col])
		if qty <= 0 {
			continue
		}
		length := sheet.lengths[col]
		if idx, ok := byLength[length]; ok {
			result.Demand[idx].Quantity += qty
			continue
		}
		byLength[length] = len(result.Demand)
		result.Demand = append(result.Demand, model.DemandItem{
			Label:    strings.TrimSpace(rows[0][col]),
			Length:   length,
			Quantity: qty,
		})
	}

	if len(result.Demand) == 0 {
		result.Warnings = append(result.Warnings, "No pieces demanded by the selected packages")
	}
	return result
}

// Package importer provides CSV and Excel import of stock inventories, target
// lengths and demand lists. It supports automatic delimiter detection,
// flexible column mapping, and case-insensitive header recognition in English
// and Swedish.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/BarCut/internal/model"
)

// ImportResult holds the results of an import operation. Only the slice
// matching the import kind is filled.
type ImportResult struct {
	Stocks   []model.StockBar
	Targets  []model.Target
	Demand   []model.DemandItem
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Label    int
	Length   int
	Quantity int
	Percent  int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"label":    {"label", "name", "description", "desc", "item", "namn", "benämning", "benamning"},
	"length":   {"length", "len", "l", "mm", "längd", "langd", "längd (mm)", "length (mm)"},
	"quantity": {"quantity", "qty", "count", "num", "amount", "pcs", "antal", "st"},
	"percent":  {"percent", "pct", "%", "goal", "share", "andel", "procent", "mål"},
}

// metresBelow is the header/cell value below which a length is read as metres.
const metresBelow = 100

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// It performs case-insensitive matching against known aliases for each column role.
// Returns the mapping and true if a header was detected, or the positional
// mapping Length, Quantity, Label and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Label: -1, Length: -1, Quantity: -1, Percent: -1}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch role {
				case "label":
					if mapping.Label == -1 {
						mapping.Label = i
					}
				case "length":
					if mapping.Length == -1 {
						mapping.Length = i
					}
				case "quantity":
					if mapping.Quantity == -1 {
						mapping.Quantity = i
					}
				case "percent":
					if mapping.Percent == -1 {
						mapping.Percent = i
					}
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{Length: 0, Quantity: 1, Label: 2, Percent: -1}, false
	}
	return mapping, true
}

// ParseLength converts a length cell to millimetres. Decimal commas are
// accepted. Values below 100 are taken as metres.
func ParseLength(s string) (int, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid length %q", s)
	}
	if v < metresBelow {
		v *= 1000
	}
	mm := int(math.Round(v))
	if mm <= 0 {
		return 0, fmt.Errorf("length must be positive, got %q", s)
	}
	return mm, nil
}

// parseQuantity accepts whole numbers, including spreadsheet renderings like "3.0".
func parseQuantity(s string) (int, error) {
	if q, err := strconv.Atoi(s); err == nil {
		return q, nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("invalid quantity %q", s)
	}
	return int(f), nil
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// parseStockRow extracts a stock batch from a row using the given column mapping.
// Returns the batch and any error message.
func parseStockRow(row []string, mapping ColumnMapping, rowLabel string) (model.StockBar, string) {
	lengthStr := getCell(row, mapping.Length)
	if lengthStr == "" {
		return model.StockBar{}, fmt.Sprintf("%s: Missing length value", rowLabel)
	}
	length, err := ParseLength(lengthStr)
	if err != nil {
		return model.StockBar{}, fmt.Sprintf("%s: Invalid length '%s'", rowLabel, lengthStr)
	}

	qtyStr := getCell(row, mapping.Quantity)
	if qtyStr == "" {
		return model.StockBar{}, fmt.Sprintf("%s: Missing quantity value", rowLabel)
	}
	qty, err := parseQuantity(qtyStr)
	if err != nil {
		return model.StockBar{}, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr)
	}
	if qty <= 0 {
		return model.StockBar{}, fmt.Sprintf("%s: Quantity must be positive", rowLabel)
	}

	return model.NewStockBar(getCell(row, mapping.Label), length, qty), ""
}

// readCSV reads a CSV file with delimiter detection. The returned warnings
// note a non-comma delimiter.
func readCSV(path string) ([][]string, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("Cannot open file: %v", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil, fmt.Errorf("File is empty")
	}

	var warnings []string
	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	records, err := readRecords(bytes.NewReader(data), delimiter)
	if err != nil {
		return nil, warnings, err
	}
	return records, warnings, nil
}

func readRecords(r io.Reader, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("Cannot read CSV: %v", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("File is empty")
	}
	return records, nil
}

// readExcel returns the rows of the first sheet.
func readExcel(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open Excel file: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("Excel file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("Cannot read Excel data: %v", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("Sheet is empty")
	}
	return rows, nil
}

// isExcel reports whether the path names a workbook rather than a CSV file.
func isExcel(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx":
		return true
	}
	return false
}

// readRows loads a CSV or Excel file based on its extension.
func readRows(path string) ([][]string, []string, error) {
	if isExcel(path) {
		rows, err := readExcel(path)
		return rows, nil, err
	}
	return readCSV(path)
}

// ImportCSV imports stock batches from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string) ImportResult {
	records, warnings, err := readCSV(path)
	if err != nil {
		return ImportResult{Errors: []string{err.Error()}, Warnings: warnings}
	}
	return importFromRows(records, "Line", warnings)
}

// ImportCSVFromReader imports stock batches from a CSV reader with a specific delimiter.
// This is useful for testing or when the delimiter is already known.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	records, err := readRecords(reader, delimiter)
	if err != nil {
		return ImportResult{Errors: []string{err.Error()}}
	}
	return importFromRows(records, "Line", nil)
}

// ImportExcel imports stock batches from an Excel (.xlsx) file.
// Reads the first sheet and auto-detects column mapping from headers.
func ImportExcel(path string) ImportResult {
	rows, err := readExcel(path)
	if err != nil {
		return ImportResult{Errors: []string{err.Error()}}
	}
	return importFromRows(rows, "Row", nil)
}

// ImportInventory imports stock batches from a CSV or Excel file, chosen by extension.
func ImportInventory(path string) ImportResult {
	if isExcel(path) {
		return ImportExcel(path)
	}
	return ImportCSV(path)
}

// importFromRows is the shared inventory import logic for both CSV and Excel data.
// It detects headers, maps columns, and parses each row into a stock batch.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Length == -1 {
			missing = append(missing, "Length")
		}
		if mapping.Quantity == -1 {
			missing = append(missing, "Quantity")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if _, err := ParseLength(getCell(rows[0], 0)); err != nil {
		// Unrecognized header: skip it but keep positional mapping
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		stock, errMsg := parseStockRow(row, mapping, rowLabel)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Stocks = append(result.Stocks, stock)
	}

	return result
}

// ImportTargetsCSV imports target lengths and goal percentages from a CSV
// file. Without a header the first column is the length and the second the
// percentage. A missing percentage means 0; repeated lengths keep the last goal.
func ImportTargetsCSV(path string) ImportResult {
	records, warnings, err := readCSV(path)
	if err != nil {
		return ImportResult{Errors: []string{err.Error()}, Warnings: warnings}
	}
	return importTargetRows(records, warnings)
}

func importTargetRows(rows [][]string, initialWarnings []string) ImportResult {
	result := ImportResult{Warnings: initialWarnings}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		if mapping.Length == -1 {
			result.Errors = append(result.Errors, "Required columns not found in header: Length")
			return result
		}
	} else {
		mapping = ColumnMapping{Label: -1, Length: 0, Quantity: -1, Percent: 1}
		if _, err := ParseLength(getCell(rows[0], 0)); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	reg := model.NewTargetRegistry()
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}
		rowLabel := fmt.Sprintf("Line %d", i+1)

		lengthStr := getCell(row, mapping.Length)
		length, err := ParseLength(lengthStr)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: Invalid length '%s'", rowLabel, lengthStr))
			continue
		}

		pct := 0
		if pctStr := strings.TrimSuffix(getCell(row, mapping.Percent), "%"); pctStr != "" {
			pct, err = strconv.Atoi(strings.TrimSpace(pctStr))
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: Invalid percentage '%s'", rowLabel, pctStr))
				continue
			}
			if pct < 0 || pct > 100 {
				result.Warnings = append(result.Warnings, fmt.Sprintf("%s: Percentage %d clamped to 0-100", rowLabel, pct))
			}
		}

		if reg.Has(length) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: Duplicate length %d, later goal wins", rowLabel, length))
		}
		if err := reg.Set(length, pct); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", rowLabel, err))
		}
	}

	result.Targets = reg.Targets
	return result
}

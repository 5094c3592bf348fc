package importer

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/piwi3910/BarCut/internal/model"
)

// Length-matrix workbook layout: the header row names one stock length per
// column in this range (0-based, inclusive) and the cells below hold counts.
const (
	matrixFirstCol = 3
	matrixLastCol  = 18
)

// ImportMatrixExcel imports a stock inventory from a length-matrix workbook.
// See ImportMatrixRows for the layout.
func ImportMatrixExcel(path string) ImportResult {
	rows, err := readExcel(path)
	if err != nil {
		return ImportResult{Errors: []string{err.Error()}}
	}
	return ImportMatrixRows(rows)
}

// ImportMatrixRows reads columns 3..18 of the first row as stock lengths
// (metres below 100, otherwise mm) and sums the numeric cells under each into
// a quantity. Non-numeric cells count as zero. Columns with the same length
// are merged and lengths with a zero total are skipped. Batches are returned
// longest first.
func ImportMatrixRows(rows [][]string) ImportResult {
	result := ImportResult{}
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	header := rows[0]
	if len(header) <= matrixFirstCol {
		result.Errors = append(result.Errors, fmt.Sprintf("Expected length columns from column %d", matrixFirstCol+1))
		return result
	}

	totals := make(map[int]int)
	for col := matrixFirstCol; col <= matrixLastCol && col < len(header); col++ {
		name := getCell(header, col)
		if name == "" {
			continue
		}
		length, err := ParseLength(name)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Column %d: Header '%s' is not a length, skipping", col+1, name))
			continue
		}

		sum := 0.0
		for _, row := range rows[1:] {
			if v, ok := numericCell(getCell(row, col)); ok {
				sum += v
			}
		}
		if qty := int(sum); qty > 0 {
			totals[length] += qty
		}
	}

	lengths := make([]int, 0, len(totals))
	for l := range totals {
		lengths = append(lengths, l)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(lengths)))

	for _, l := range lengths {
		result.Stocks = append(result.Stocks, model.NewStockBar("", l, totals[l]))
	}
	if len(result.Stocks) == 0 {
		result.Warnings = append(result.Warnings, "No stock quantities found")
	}
	return result
}

// numericCell parses a count cell, accepting decimal commas.
func numericCell(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Package excel decodes uploaded budget spreadsheets into the in-memory
// grid the ingestion heuristics consume. Two formats: xlsx via excelize
// (including per-cell bold/border style flags) and CSV via encoding/csv
// (no styling, so the style grid is simply absent for CSV sources).
package excel

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"drawdock/domain/sheet"
)

// DataReader handles reading Excel and CSV files into a sheet.Grid
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// ReadSheet decodes the file into a grid plus, for xlsx sources, the
// parallel style grid. The style grid includes the header row at index
// 0; for CSV it is nil.
func (r *DataReader) ReadSheet() (*sheet.Grid, sheet.StyleGrid, error) {
	log.Printf("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	switch r.fileType {
	case "csv":
		grid, err := r.readCSV()
		return grid, nil, err
	case "xlsx":
		return r.readExcel()
	default:
		return nil, nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

// readExcel decodes Sheet1 of an xlsx workbook, values and styles in
// one pass
func (r *DataReader) readExcel() (*sheet.Grid, sheet.StyleGrid, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		sheetName = "Sheet1"
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %s: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("Excel file has no rows")
	}

	grid := buildGrid(rows)
	styles := r.readStyles(f, sheetName, rows)

	log.Printf("[DataReader] Excel sheet %s decoded in %.2fms (%d columns, %d rows)",
		sheetName, float64(time.Since(startTime).Nanoseconds())/1e6,
		grid.ColumnCount(), grid.RowCount())

	return grid, styles, nil
}

// readStyles extracts the bold/border flags per cell. Style lookups are
// best-effort: a cell whose style cannot be resolved is simply absent
// from the style grid, never an error.
func (r *DataReader) readStyles(f *excelize.File, sheetName string, rows [][]string) sheet.StyleGrid {
	styles := make(sheet.StyleGrid, len(rows))
	for rowIdx, row := range rows {
		styleRow := make([]*sheet.CellStyle, len(row))
		for colIdx := range row {
			cellRef, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				continue
			}
			styleID, err := f.GetCellStyle(sheetName, cellRef)
			if err != nil {
				continue
			}
			style, err := f.GetStyle(styleID)
			if err != nil || style == nil {
				continue
			}

			cellStyle := &sheet.CellStyle{}
			if style.Font != nil {
				cellStyle.Bold = style.Font.Bold
			}
			for _, border := range style.Border {
				if border.Style == 0 {
					continue
				}
				switch border.Type {
				case "top":
					cellStyle.BorderTop = true
				case "bottom":
					cellStyle.BorderBottom = true
				case "left":
					cellStyle.BorderLeft = true
				case "right":
					cellStyle.BorderRight = true
				}
			}
			styleRow[colIdx] = cellStyle
		}
		styles[rowIdx] = styleRow
	}
	return styles
}

// readCSV decodes a CSV file; CSV carries no styling
func (r *DataReader) readCSV() (*sheet.Grid, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // budget sheets are frequently ragged
	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	log.Printf("[DataReader] CSV file read in %.2fms (%d rows)",
		float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	if len(rows) == 0 {
		return nil, fmt.Errorf("CSV file has no rows")
	}

	return buildGrid(rows), nil
}

// buildGrid converts raw string rows into the typed grid: the first row
// becomes headers, numeric-looking cells become number cells, the rest
// stay text
func buildGrid(rows [][]string) *sheet.Grid {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	dataRows := make([][]sheet.Cell, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := make([]sheet.Cell, len(rows[i]))
		for j, raw := range rows[i] {
			row[j] = toCell(raw)
		}
		dataRows = append(dataRows, row)
	}

	return &sheet.Grid{Headers: headers, Rows: dataRows}
}

// toCell types a raw string cell. Only bare numerics become number
// cells; formatted values ("$1,200", "(500)") stay text so the
// heuristics see them exactly as authored.
func toCell(raw string) sheet.Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return sheet.Empty()
	}
	if value, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return sheet.Number(value)
	}
	return sheet.Text(trimmed)
}

package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Export file properties.
const (
	ExportFilename = "blocked_issues.xlsx"
	ExportMIME     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ExportSheet    = "Sheet1"
)

// RenderXLSX writes the table as a workbook. The Key column becomes a
// HYPERLINK formula to each issue and the Link column is left out.
func RenderXLSX(t *Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headers := t.DisplayColumns()
	for i, h := range headers {
		if err := setCell(f, i+1, 1, h); err != nil {
			return nil, err
		}
	}

	for i, r := range t.Records {
		row := i + 2

		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, fmt.Errorf("resolving key cell: %w", err)
		}
		if err := f.SetCellFormula(ExportSheet, cell, HyperlinkFormula(r.Link, r.Key)); err != nil {
			return nil, fmt.Errorf("writing key for %s: %w", r.Key, err)
		}

		values := []interface{}{
			r.Summary, r.Assignee, r.Status, r.Function, r.Team, r.Created,
		}
		if r.BusinessDaysBlocked != nil {
			values = append(values, *r.BusinessDaysBlocked)
		}
		for j, v := range values {
			if err := setCell(f, j+2, row, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serializing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// HyperlinkFormula returns a spreadsheet formula linking label to url.
func HyperlinkFormula(url, label string) string {
	return fmt.Sprintf(`HYPERLINK("%s", "%s")`, escapeFormula(url), escapeFormula(label))
}

// escapeFormula doubles quotes for use inside a formula string literal.
func escapeFormula(s string) string {
	return strings.ReplaceAll(s, `"`, `""`)
}

func setCell(f *excelize.File, col, row int, v interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("resolving cell (%d,%d): %w", col, row, err)
	}
	if err := f.SetCellValue(ExportSheet, cell, v); err != nil {
		return fmt.Errorf("writing cell %s: %w", cell, err)
	}
	return nil
}

// SaveXLSX writes rendered export bytes to dir under ExportFilename and
// returns the full path.
func SaveXLSX(dir string, data []byte) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, ExportFilename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing export to %s: %w", path, err)
	}
	return path, nil
}

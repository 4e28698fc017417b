// Package xlsxfile reads the last populated row of a workbook sheet as the
// appended row, mapping native cell types onto the core.Cell variant.
package xlsxfile

import (
	"context"
	"strconv"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-leadrelay/core"
	"github.com/xuri/excelize/v2"
)

type Source struct {
	Path      string
	SheetName string
	// SkipHeader treats the first row as a header and never surfaces it.
	SkipHeader bool
}

func New(path string, sheetName string) *Source {
	return &Source{
		Path:       strings.TrimSpace(path),
		SheetName:  strings.TrimSpace(sheetName),
		SkipHeader: true,
	}
}

func (s *Source) LastAppendedRow(_ context.Context) (core.RawRow, bool, error) {
	if s == nil || strings.TrimSpace(s.Path) == "" {
		return nil, false, goerrors.New("xlsxfile: file path is required", goerrors.CategoryBadInput).
			WithTextCode(core.RelayErrorBadInput)
	}
	sheetName := s.SheetName
	if sheetName == "" {
		sheetName = "Sheet1"
	}

	file, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, false, goerrors.Wrap(err, goerrors.CategoryExternal, "xlsxfile: open workbook").
			WithTextCode(core.RelayErrorExternalFailure)
	}
	defer file.Close()

	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, false, goerrors.Wrap(err, goerrors.CategoryBadInput, "xlsxfile: read sheet").
			WithTextCode(core.RelayErrorBadInput).
			WithMetadata(map[string]any{"sheet_name": sheetName})
	}

	minRows := 1
	if s.SkipHeader {
		minRows = 2
	}
	if len(rows) < minRows {
		return nil, false, nil
	}

	rowIndex := len(rows) // 1-based position of the last row
	values := rows[rowIndex-1]
	row := make(core.RawRow, len(values))
	for i, value := range values {
		row[i] = s.cellAt(file, sheetName, i+1, rowIndex, value)
	}
	return row, true, nil
}

// cellAt builds a tagged cell from the workbook's native cell type, falling
// back to text when the type cannot be resolved.
func (s *Source) cellAt(file *excelize.File, sheetName string, col int, rowIndex int, value string) core.Cell {
	if strings.TrimSpace(value) == "" {
		return core.EmptyCell()
	}

	cellRef, err := excelize.CoordinatesToCellName(col, rowIndex)
	if err != nil {
		return core.TextCell(value)
	}
	cellType, err := file.GetCellType(sheetName, cellRef)
	if err != nil {
		return core.TextCell(value)
	}

	switch cellType {
	case excelize.CellTypeNumber:
		if parsed, parseErr := strconv.ParseFloat(strings.TrimSpace(value), 64); parseErr == nil {
			return core.NumberCell(parsed)
		}
	case excelize.CellTypeDate:
		if parsed, ok := parseWorkbookTime(value); ok {
			return core.DateCell(parsed)
		}
	}
	return core.TextCell(value)
}

func parseWorkbookTime(value string) (time.Time, bool) {
	layouts := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02",
		"01-02-06 15:04",
		"1/2/2006 15:04:05",
		"1/2/2006",
	}
	candidate := strings.TrimSpace(value)
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, candidate); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}

var _ core.RowSource = (*Source)(nil)

// Package csvfile reads the last record of a CSV export as the appended
// row. Useful when the hosting spreadsheet is synced to disk rather than
// delivering trigger events.
package csvfile

import (
	"context"
	"encoding/csv"
	"os"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-leadrelay/core"
)

type Source struct {
	Path string
	// SkipHeader drops the first record, matching exports that carry a
	// header row.
	SkipHeader bool
}

func New(path string) *Source {
	return &Source{Path: strings.TrimSpace(path), SkipHeader: true}
}

func (s *Source) LastAppendedRow(_ context.Context) (core.RawRow, bool, error) {
	if s == nil || strings.TrimSpace(s.Path) == "" {
		return nil, false, goerrors.New("csvfile: file path is required", goerrors.CategoryBadInput).
			WithTextCode(core.RelayErrorBadInput)
	}

	file, err := os.Open(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, goerrors.Wrap(err, goerrors.CategoryExternal, "csvfile: open file").
			WithTextCode(core.RelayErrorExternalFailure)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, false, goerrors.Wrap(err, goerrors.CategoryBadInput, "csvfile: parse file").
			WithTextCode(core.RelayErrorBadInput)
	}
	if s.SkipHeader && len(records) > 0 {
		records = records[1:]
	}
	if len(records) == 0 {
		return nil, false, nil
	}

	last := records[len(records)-1]
	row := make(core.RawRow, len(last))
	for i, value := range last {
		if strings.TrimSpace(value) == "" {
			row[i] = core.EmptyCell()
			continue
		}
		row[i] = core.TextCell(value)
	}
	return row, true, nil
}

var _ core.RowSource = (*Source)(nil)

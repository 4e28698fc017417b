// Package sheetevent adapts the host spreadsheet's row-append trigger event
// into a core.RowSource. A source built without an event reports "no row"
// so manual or test invocations degrade to a no-op instead of failing.
package sheetevent

import (
	"context"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-leadrelay/core"
)

// AppendEvent carries what the host hands a trigger handler: the sheet the
// row landed on and the appended row's cell values.
type AppendEvent struct {
	SheetName string
	Row       core.RawRow
}

type Source struct {
	event     *AppendEvent
	sheetName string
}

// New wraps one trigger event. A nil event is valid and yields no row.
func New(event *AppendEvent) *Source {
	return &Source{event: event}
}

// NewForSheet wraps one trigger event and only surfaces rows appended to
// the named sheet; events from other sheets read as "no row".
func NewForSheet(event *AppendEvent, sheetName string) *Source {
	return &Source{event: event, sheetName: strings.TrimSpace(sheetName)}
}

func (s *Source) LastAppendedRow(_ context.Context) (core.RawRow, bool, error) {
	if s == nil {
		return nil, false, goerrors.New("sheetevent: source is nil", goerrors.CategoryInternal).
			WithTextCode(core.RelayErrorInternal)
	}
	if s.event == nil || len(s.event.Row) == 0 {
		return nil, false, nil
	}
	if s.sheetName != "" && !strings.EqualFold(strings.TrimSpace(s.event.SheetName), s.sheetName) {
		return nil, false, nil
	}
	row := make(core.RawRow, len(s.event.Row))
	copy(row, s.event.Row)
	return row, true, nil
}

var _ core.RowSource = (*Source)(nil)

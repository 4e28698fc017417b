package sheetevent

import (
	"context"
	"testing"

	"github.com/goliatone/go-leadrelay/core"
)

func TestSource_SurfacesEventRow(t *testing.T) {
	event := &AppendEvent{
		SheetName: "Form Responses 1",
		Row:       core.RawRow{core.TextCell("2026-03-14"), core.TextCell("Ada")},
	}

	row, ok, err := New(event).LastAppendedRow(context.Background())
	if err != nil {
		t.Fatalf("last appended row: %v", err)
	}
	if !ok {
		t.Fatalf("expected a row")
	}
	if got := row.At(2).String(); got != "Ada" {
		t.Fatalf("unexpected cell: %q", got)
	}
}

func TestSource_CopiesRowSoCallerMutationsDoNotLeak(t *testing.T) {
	event := &AppendEvent{Row: core.RawRow{core.TextCell("original")}}
	src := New(event)

	row, ok, err := src.LastAppendedRow(context.Background())
	if err != nil || !ok {
		t.Fatalf("last appended row: ok=%v err=%v", ok, err)
	}
	row[0] = core.TextCell("mutated")

	again, _, _ := src.LastAppendedRow(context.Background())
	if got := again.At(1).String(); got != "original" {
		t.Fatalf("expected event row untouched, got %q", got)
	}
}

func TestSource_NilOrEmptyEventReportsNoRow(t *testing.T) {
	if _, ok, err := New(nil).LastAppendedRow(context.Background()); ok || err != nil {
		t.Fatalf("expected no row for nil event: ok=%v err=%v", ok, err)
	}
	if _, ok, err := New(&AppendEvent{}).LastAppendedRow(context.Background()); ok || err != nil {
		t.Fatalf("expected no row for empty event: ok=%v err=%v", ok, err)
	}
}

func TestNewForSheet_FiltersBySheetName(t *testing.T) {
	event := &AppendEvent{
		SheetName: "Form Responses 1",
		Row:       core.RawRow{core.TextCell("Ada")},
	}

	if _, ok, _ := NewForSheet(event, "leads").LastAppendedRow(context.Background()); ok {
		t.Fatalf("expected row from another sheet to be ignored")
	}
	if _, ok, _ := NewForSheet(event, "form responses 1").LastAppendedRow(context.Background()); !ok {
		t.Fatalf("expected case-insensitive sheet match")
	}
}

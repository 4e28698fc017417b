package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-leadrelay/core"
)

type stubActivityReader struct {
	listFn func(ctx context.Context, filter core.RelayActivityFilter) (core.RelayActivityPage, error)
}

func (s stubActivityReader) List(ctx context.Context, filter core.RelayActivityFilter) (core.RelayActivityPage, error) {
	if s.listFn == nil {
		return core.RelayActivityPage{}, errors.New("list stub not configured")
	}
	return s.listFn(ctx, filter)
}

func TestListRelayActivityQuery_DelegatesFilter(t *testing.T) {
	expected := core.RelayActivityPage{
		Items: []core.RelayActivityEntry{{ID: "entry_1", Status: core.RelayActivityStatusSuccess}},
		Page:  2, PerPage: 10, Total: 11, HasNext: false,
	}
	reader := stubActivityReader{
		listFn: func(_ context.Context, filter core.RelayActivityFilter) (core.RelayActivityPage, error) {
			if filter.SheetName != "leads" || filter.Page != 2 {
				t.Fatalf("unexpected filter: %#v", filter)
			}
			return expected, nil
		},
	}

	page, err := NewListRelayActivityQuery(reader).Query(context.Background(), ListRelayActivityMessage{
		Filter: core.RelayActivityFilter{SheetName: "leads", Page: 2, PerPage: 10},
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != "entry_1" {
		t.Fatalf("unexpected page: %#v", page)
	}
}

func TestListRelayActivityQuery_RequiresReader(t *testing.T) {
	if _, err := NewListRelayActivityQuery(nil).Query(context.Background(), ListRelayActivityMessage{}); err == nil {
		t.Fatalf("expected missing reader to error")
	}
}

func TestListRelayActivityMessage_Validate(t *testing.T) {
	msg := ListRelayActivityMessage{Filter: core.RelayActivityFilter{Page: -1}}
	if err := msg.Validate(); err == nil {
		t.Fatalf("expected negative page to fail validation")
	}
	msg = ListRelayActivityMessage{Filter: core.RelayActivityFilter{PerPage: -1}}
	if err := msg.Validate(); err == nil {
		t.Fatalf("expected negative per_page to fail validation")
	}
}

func TestGetLastDeliveryQuery_ReturnsNewestEntry(t *testing.T) {
	newest := core.RelayActivityEntry{
		ID:        "entry_9",
		Status:    core.RelayActivityStatusFailure,
		CreatedAt: time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
	}
	reader := stubActivityReader{
		listFn: func(_ context.Context, filter core.RelayActivityFilter) (core.RelayActivityPage, error) {
			if filter.PerPage != 1 || filter.Page != 1 {
				t.Fatalf("expected single-entry page request, got %#v", filter)
			}
			if filter.SheetName != "leads" {
				t.Fatalf("expected sheet scope, got %q", filter.SheetName)
			}
			return core.RelayActivityPage{Items: []core.RelayActivityEntry{newest}, Total: 9}, nil
		},
	}

	entry, err := NewGetLastDeliveryQuery(reader).Query(context.Background(), GetLastDeliveryMessage{SheetName: "leads"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if entry.ID != "entry_9" {
		t.Fatalf("unexpected entry: %#v", entry)
	}
}

func TestGetLastDeliveryQuery_EmptyLedgerIsNotFound(t *testing.T) {
	reader := stubActivityReader{
		listFn: func(context.Context, core.RelayActivityFilter) (core.RelayActivityPage, error) {
			return core.RelayActivityPage{}, nil
		},
	}

	if _, err := NewGetLastDeliveryQuery(reader).Query(context.Background(), GetLastDeliveryMessage{}); err == nil {
		t.Fatalf("expected empty ledger to report not found")
	}
}

package query

import (
	"fmt"

	"github.com/goliatone/go-leadrelay/core"
)

const (
	TypeListRelayActivity = "leadrelay.query.activity.list"
	TypeGetLastDelivery   = "leadrelay.query.activity.last_delivery"
)

type ListRelayActivityMessage struct {
	Filter core.RelayActivityFilter
}

func (ListRelayActivityMessage) Type() string { return TypeListRelayActivity }

func (m ListRelayActivityMessage) Validate() error {
	if m.Filter.Page < 0 {
		return fmt.Errorf("query: page must be >= 0")
	}
	if m.Filter.PerPage < 0 {
		return fmt.Errorf("query: per_page must be >= 0")
	}
	return nil
}

// GetLastDeliveryMessage resolves the most recent activity entry,
// optionally scoped to a sheet.
type GetLastDeliveryMessage struct {
	SheetName string
}

func (GetLastDeliveryMessage) Type() string { return TypeGetLastDelivery }

func (GetLastDeliveryMessage) Validate() error { return nil }

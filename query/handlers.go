package query

import (
	"context"

	"github.com/goliatone/go-leadrelay/core"
)

type RelayActivityReader interface {
	List(ctx context.Context, filter core.RelayActivityFilter) (core.RelayActivityPage, error)
}

type ListRelayActivityQuery struct {
	reader RelayActivityReader
}

func NewListRelayActivityQuery(reader RelayActivityReader) *ListRelayActivityQuery {
	return &ListRelayActivityQuery{reader: reader}
}

func (q *ListRelayActivityQuery) Query(
	ctx context.Context,
	msg ListRelayActivityMessage,
) (core.RelayActivityPage, error) {
	if q == nil || q.reader == nil {
		return core.RelayActivityPage{}, queryDependencyError("query: relay activity reader is required")
	}
	return q.reader.List(ctx, msg.Filter)
}

type GetLastDeliveryQuery struct {
	reader RelayActivityReader
}

func NewGetLastDeliveryQuery(reader RelayActivityReader) *GetLastDeliveryQuery {
	return &GetLastDeliveryQuery{reader: reader}
}

func (q *GetLastDeliveryQuery) Query(
	ctx context.Context,
	msg GetLastDeliveryMessage,
) (core.RelayActivityEntry, error) {
	if q == nil || q.reader == nil {
		return core.RelayActivityEntry{}, queryDependencyError("query: relay activity reader is required")
	}
	page, err := q.reader.List(ctx, core.RelayActivityFilter{
		SheetName: msg.SheetName,
		Page:      1,
		PerPage:   1,
	})
	if err != nil {
		return core.RelayActivityEntry{}, err
	}
	if len(page.Items) == 0 {
		return core.RelayActivityEntry{}, queryNotFoundError("query: no relay activity recorded")
	}
	return page.Items[0], nil
}

package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-leadrelay/core"
)

var (
	_ gocmd.Querier[ListRelayActivityMessage, core.RelayActivityPage] = (*ListRelayActivityQuery)(nil)
	_ gocmd.Querier[GetLastDeliveryMessage, core.RelayActivityEntry]  = (*GetLastDeliveryQuery)(nil)
)

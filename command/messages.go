package command

import (
	"fmt"

	"github.com/goliatone/go-leadrelay/core"
)

const (
	TypeRelayAppendedRow = "leadrelay.command.row.relay_appended"
	TypeRelayRow         = "leadrelay.command.row.relay"
)

// RelayAppendedRowMessage asks the service to pull the last appended row
// from its configured source and relay it.
type RelayAppendedRowMessage struct{}

func (RelayAppendedRowMessage) Type() string { return TypeRelayAppendedRow }

func (RelayAppendedRowMessage) Validate() error { return nil }

// RelayRowMessage carries an explicit row, bypassing the row source.
type RelayRowMessage struct {
	Row core.RawRow
}

func (RelayRowMessage) Type() string { return TypeRelayRow }

func (m RelayRowMessage) Validate() error {
	if len(m.Row) == 0 {
		return fmt.Errorf("command: row is required")
	}
	return nil
}

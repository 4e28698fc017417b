package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[RelayAppendedRowMessage] = (*RelayAppendedRowCommand)(nil)
	_ gocmd.Commander[RelayRowMessage]         = (*RelayRowCommand)(nil)
)

package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-leadrelay/core"
)

type RelayService interface {
	ProcessAppend(ctx context.Context) (core.RelayOutcome, error)
	ProcessRow(ctx context.Context, row core.RawRow) (core.RelayOutcome, error)
}

type RelayAppendedRowCommand struct {
	service RelayService
}

func NewRelayAppendedRowCommand(service RelayService) *RelayAppendedRowCommand {
	return &RelayAppendedRowCommand{service: service}
}

func (c *RelayAppendedRowCommand) Execute(ctx context.Context, msg RelayAppendedRowMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: relay service is required")
	}
	out, err := c.service.ProcessAppend(ctx)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type RelayRowCommand struct {
	service RelayService
}

func NewRelayRowCommand(service RelayService) *RelayRowCommand {
	return &RelayRowCommand{service: service}
}

func (c *RelayRowCommand) Execute(ctx context.Context, msg RelayRowMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: relay service is required")
	}
	if err := commandWrapValidation(msg.Validate(), "command: invalid relay row message"); err != nil {
		return err
	}
	out, err := c.service.ProcessRow(ctx, msg.Row)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}

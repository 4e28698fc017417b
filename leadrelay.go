package leadrelay

import "github.com/goliatone/go-leadrelay/core"

type Config = core.Config

type NormalizerConfig = core.NormalizerConfig

type Option = core.Option

type Service = core.Service

type Cell = core.Cell
type RawRow = core.RawRow
type Field = core.Field
type ColumnMapping = core.ColumnMapping
type LeadRecord = core.LeadRecord
type DeliveryResult = core.DeliveryResult
type RelayOutcome = core.RelayOutcome
type RelayActivityEntry = core.RelayActivityEntry
type RelayActivityFilter = core.RelayActivityFilter
type RelayActivityPage = core.RelayActivityPage

type RowSource = core.RowSource
type Dispatcher = core.Dispatcher
type ActivitySink = core.ActivitySink

var (
	WithLogger          = core.WithLogger
	WithLoggerProvider  = core.WithLoggerProvider
	WithMetricsRecorder = core.WithMetricsRecorder
	WithErrorFactory    = core.WithErrorFactory
	WithErrorMapper     = core.WithErrorMapper
	WithConfigProvider  = core.WithConfigProvider
	WithOptionsResolver = core.WithOptionsResolver
	WithRowSource       = core.WithRowSource
	WithDispatcher      = core.WithDispatcher
	WithActivitySink    = core.WithActivitySink
	WithClock           = core.WithClock
)

var (
	EmptyCell  = core.EmptyCell
	TextCell   = core.TextCell
	NumberCell = core.NumberCell
	DateCell   = core.DateCell
)

var (
	LeadsLayout         = core.LeadsLayout
	FormResponsesLayout = core.FormResponsesLayout
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func NewService(cfg Config, opts ...Option) (*Service, error) {
	return core.NewService(cfg, opts...)
}

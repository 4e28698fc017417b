package core

import (
	"context"

	glog "github.com/goliatone/go-logger/glog"
)

// RowSource abstracts the host's row-append trigger. The boolean reports
// whether a row was available at all: a manual or test invocation with no
// trigger context is "no row", not an error.
type RowSource interface {
	LastAppendedRow(ctx context.Context) (RawRow, bool, error)
}

// Dispatcher delivers one canonical record to one endpoint. Transport-level
// failures resolve into the DeliveryResult; the error return is reserved for
// unusable configuration.
type Dispatcher interface {
	Dispatch(ctx context.Context, record LeadRecord, endpoint string) (DeliveryResult, error)
}

// ActivitySink records relay outcomes for diagnostics. Relay behavior never
// depends on it; a nil sink is valid.
type ActivitySink interface {
	Record(ctx context.Context, entry RelayActivityEntry) error
	List(ctx context.Context, filter RelayActivityFilter) (RelayActivityPage, error)
}

type ActivityRecorder interface {
	Record(ctx context.Context, entry RelayActivityEntry) error
}

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

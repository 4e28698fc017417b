package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
	"github.com/google/uuid"
)

// Service runs the relay pipeline: pull the appended row, normalize it,
// deliver it once, report the outcome. It holds no state across calls;
// overlapping trigger invocations are independent.
type Service struct {
	config          Config
	logger          Logger
	loggerProvider  LoggerProvider
	metricsRecorder MetricsRecorder
	errorFactory    ErrorFactory
	errorMapper     ErrorMapper
	rowSource       RowSource
	dispatcher      Dispatcher
	activitySink    ActivityRecorder
	now             func() time.Time
}

func NewService(cfg Config, options ...Option) (*Service, error) {
	builder := defaultServiceBuilder(cfg)
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("leadrelay", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("leadrelay"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.errorFactory == nil {
		builder.errorFactory = goerrors.New
	}
	if builder.errorMapper == nil {
		builder.errorMapper = defaultErrorMapper
	}
	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.now == nil {
		builder.now = func() time.Time {
			return time.Now().UTC()
		}
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	return &Service{
		config:          finalConfig,
		logger:          logger,
		loggerProvider:  provider,
		metricsRecorder: builder.metricsRecorder,
		errorFactory:    builder.errorFactory,
		errorMapper:     builder.errorMapper,
		rowSource:       builder.rowSource,
		dispatcher:      builder.dispatcher,
		activitySink:    builder.activitySink,
		now:             builder.now,
	}, nil
}

func mapBuildError(mapper ErrorMapper, err error) error {
	if err == nil {
		return nil
	}
	if mapper == nil {
		return err
	}
	if mapped := mapper(err); mapped != nil {
		return mapped
	}
	return err
}

// Config returns the resolved configuration.
func (s *Service) Config() Config {
	if s == nil {
		return Config{}
	}
	return s.config
}

// ProcessAppend handles one row-append trigger event: it reads the last
// appended row from the configured row source and relays it. A source that
// reports no row is a no-op, not an error.
func (s *Service) ProcessAppend(ctx context.Context) (RelayOutcome, error) {
	if s == nil {
		return RelayOutcome{}, s.internalError("core: relay service is nil")
	}
	if s.rowSource == nil {
		return RelayOutcome{}, s.internalError("core: row source is required")
	}

	startedAt := s.clock()
	row, ok, err := s.rowSource.LastAppendedRow(ctx)
	if err != nil {
		err = mapBuildError(s.errorMapper, err)
		s.observeOperation(ctx, startedAt, "process_append", err, map[string]any{
			"sheet_name": s.config.SheetName,
		})
		return RelayOutcome{}, err
	}
	if !ok {
		outcome := RelayOutcome{SkipReason: SkipReasonNoRow}
		s.logWarn(ctx, "no row to process", map[string]any{
			"sheet_name": s.config.SheetName,
		})
		s.recordActivity(ctx, outcome, LeadRecord{})
		return outcome, nil
	}
	return s.relayRow(ctx, startedAt, row)
}

// ProcessRow relays one caller-supplied row through the same pipeline.
func (s *Service) ProcessRow(ctx context.Context, row RawRow) (RelayOutcome, error) {
	if s == nil {
		return RelayOutcome{}, s.internalError("core: relay service is nil")
	}
	return s.relayRow(ctx, s.clock(), row)
}

// Handle is the trigger-handler boundary. Every failure mode resolves here:
// expected skips and delivery failures are logged, unexpected faults are
// recovered and logged, and nothing propagates to the hosting environment.
func (s *Service) Handle(ctx context.Context) (outcome RelayOutcome) {
	if s == nil {
		return RelayOutcome{}
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			s.logError(ctx, "relay handler panicked", map[string]any{
				"sheet_name": s.config.SheetName,
				"panic":      fmt.Sprint(recovered),
			})
			outcome = RelayOutcome{}
		}
	}()

	// Errors from ProcessAppend are already observed and mapped; they are
	// terminal at this boundary.
	result, _ := s.ProcessAppend(ctx)
	return result
}

func (s *Service) relayRow(ctx context.Context, startedAt time.Time, row RawRow) (RelayOutcome, error) {
	record := Normalize(row, s.config.Mapping(), NormalizeOptions{
		DefaultLanguage:   s.config.Normalizer.DefaultLanguage,
		LowercaseLanguage: s.config.Normalizer.LowercaseLanguage,
		Now:               s.now,
	})

	if record.MissingEmail() {
		outcome := RelayOutcome{SkipReason: SkipReasonMissingEmail, Record: record}
		s.logWarn(ctx, "missing required field, dispatch aborted", map[string]any{
			"sheet_name": s.config.SheetName,
			"field":      string(FieldEmail),
		})
		s.recordActivity(ctx, outcome, record)
		return outcome, nil
	}

	if s.dispatcher == nil {
		err := s.internalError("core: dispatcher is required")
		s.observeOperation(ctx, startedAt, "relay_row", err, map[string]any{
			"sheet_name": s.config.SheetName,
		})
		return RelayOutcome{Record: record}, err
	}

	endpoint := strings.TrimSpace(s.config.Endpoint)
	if endpoint == "" {
		err := s.badInputError("core: webhook endpoint is required")
		s.observeOperation(ctx, startedAt, "relay_row", err, map[string]any{
			"sheet_name": s.config.SheetName,
		})
		return RelayOutcome{Record: record}, err
	}

	delivery, err := s.dispatcher.Dispatch(ctx, record, endpoint)
	if err != nil {
		err = mapBuildError(s.errorMapper, err)
		s.observeOperation(ctx, startedAt, "relay_row", err, map[string]any{
			"sheet_name": s.config.SheetName,
			"endpoint":   endpoint,
		})
		return RelayOutcome{Record: record}, err
	}

	outcome := RelayOutcome{
		Dispatched: true,
		Record:     record,
		Delivery:   delivery,
	}
	s.recordActivity(ctx, outcome, record)

	fields := map[string]any{
		"sheet_name":  s.config.SheetName,
		"endpoint":    endpoint,
		"status_code": delivery.StatusCode,
	}
	if delivery.Success {
		s.observeOperation(ctx, startedAt, "relay_row", nil, fields)
		return outcome, nil
	}

	// Delivery failure is reported, never retried or escalated beyond the
	// log sink and activity ledger.
	fields["error"] = delivery.Error
	s.logError(ctx, "webhook delivery failed", fields)
	s.recordCounter(ctx, "leadrelay.delivery_failed.total", 1, map[string]string{
		"sheet_name": s.config.SheetName,
	})
	return outcome, nil
}

func (s *Service) recordActivity(ctx context.Context, outcome RelayOutcome, record LeadRecord) {
	if s == nil || s.activitySink == nil {
		return
	}
	entry := RelayActivityEntry{
		ID:        uuid.NewString(),
		SheetName: s.config.SheetName,
		Endpoint:  strings.TrimSpace(s.config.Endpoint),
		Email:     record.Email,
		CreatedAt: s.clock(),
	}
	switch {
	case outcome.SkipReason != "":
		entry.Status = RelayActivityStatusSkipped
		entry.Detail = outcome.SkipReason
	case outcome.Delivery.Success:
		entry.Status = RelayActivityStatusSuccess
		entry.StatusCode = outcome.Delivery.StatusCode
		entry.Detail = outcome.Delivery.Response
	default:
		entry.Status = RelayActivityStatusFailure
		entry.StatusCode = outcome.Delivery.StatusCode
		entry.Detail = outcome.Delivery.Error
	}
	if err := s.activitySink.Record(ctx, entry); err != nil {
		s.logWarn(ctx, "activity record failed", map[string]any{
			"sheet_name": s.config.SheetName,
			"error":      err.Error(),
		})
	}
}

func (s *Service) clock() time.Time {
	if s != nil && s.now != nil {
		return s.now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) internalError(message string) error {
	return s.buildError(message, goerrors.CategoryInternal, RelayErrorInternal)
}

func (s *Service) badInputError(message string) error {
	return s.buildError(message, goerrors.CategoryBadInput, RelayErrorBadInput)
}

func (s *Service) buildError(message string, category goerrors.Category, textCode string) error {
	factory := ErrorFactory(goerrors.New)
	if s != nil && s.errorFactory != nil {
		factory = s.errorFactory
	}
	return ensureRelayErrorEnvelope(factory(message, category).WithTextCode(textCode))
}

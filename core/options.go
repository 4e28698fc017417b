package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-config/cfgx"
	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
	opts "github.com/goliatone/go-options"
)

type ErrorFactory func(message string, category ...goerrors.Category) *goerrors.Error

type ErrorMapper func(err error) *goerrors.Error

type ConfigProvider interface {
	Load(ctx context.Context, defaults Config) (Config, error)
}

type RawConfigLoader interface {
	LoadRaw(ctx context.Context) (map[string]any, error)
}

type OptionsResolver interface {
	Resolve(defaults Config, loaded Config, runtime Config) (Config, error)
}

type serviceBuilder struct {
	runtimeConfig   Config
	logger          Logger
	loggerProvider  LoggerProvider
	metricsRecorder MetricsRecorder
	errorFactory    ErrorFactory
	errorMapper     ErrorMapper
	configProvider  ConfigProvider
	optionsResolver OptionsResolver
	rowSource       RowSource
	dispatcher      Dispatcher
	activitySink    ActivityRecorder
	now             func() time.Time
}

type Option func(*serviceBuilder)

func WithLogger(logger Logger) Option {
	return func(b *serviceBuilder) {
		b.logger = logger
	}
}

func WithLoggerProvider(provider LoggerProvider) Option {
	return func(b *serviceBuilder) {
		b.loggerProvider = provider
	}
}

func WithMetricsRecorder(recorder MetricsRecorder) Option {
	return func(b *serviceBuilder) {
		b.metricsRecorder = recorder
	}
}

func WithErrorFactory(factory ErrorFactory) Option {
	return func(b *serviceBuilder) {
		b.errorFactory = factory
	}
}

func WithErrorMapper(mapper ErrorMapper) Option {
	return func(b *serviceBuilder) {
		b.errorMapper = mapper
	}
}

func WithConfigProvider(provider ConfigProvider) Option {
	return func(b *serviceBuilder) {
		b.configProvider = provider
	}
}

func WithOptionsResolver(resolver OptionsResolver) Option {
	return func(b *serviceBuilder) {
		b.optionsResolver = resolver
	}
}

func WithRowSource(source RowSource) Option {
	return func(b *serviceBuilder) {
		b.rowSource = source
	}
}

func WithDispatcher(dispatcher Dispatcher) Option {
	return func(b *serviceBuilder) {
		b.dispatcher = dispatcher
	}
}

func WithActivitySink(sink ActivityRecorder) Option {
	return func(b *serviceBuilder) {
		b.activitySink = sink
	}
}

func WithClock(now func() time.Time) Option {
	return func(b *serviceBuilder) {
		b.now = now
	}
}

func defaultServiceBuilder(runtime Config) serviceBuilder {
	loggerProvider, logger := glog.Resolve("leadrelay", nil, nil)
	return serviceBuilder{
		runtimeConfig:   runtime,
		loggerProvider:  loggerProvider,
		logger:          logger,
		metricsRecorder: NopMetricsRecorder{},
		errorFactory:    goerrors.New,
		errorMapper:     defaultErrorMapper,
		configProvider:  NewCfgxConfigProvider(nil),
		optionsResolver: GoOptionsResolver{},
	}
}

func defaultErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}
	return relayErrorMapper(err)
}

type staticRawConfigLoader struct {
	Values map[string]any
}

func (l staticRawConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	if len(l.Values) == 0 {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(l.Values))
	for key, value := range l.Values {
		out[key] = value
	}
	return out, nil
}

type CfgxConfigProvider struct {
	Loader RawConfigLoader
}

func NewCfgxConfigProvider(loader RawConfigLoader) *CfgxConfigProvider {
	return &CfgxConfigProvider{Loader: loader}
}

func (p *CfgxConfigProvider) Load(ctx context.Context, defaults Config) (Config, error) {
	if p == nil {
		return defaults, nil
	}
	loader := p.Loader
	if loader == nil {
		loader = staticRawConfigLoader{}
	}
	raw, err := loader.LoadRaw(ctx)
	if err != nil {
		return Config{}, err
	}
	cfg, err := cfgx.Build[Config](raw,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
	if err != nil {
		return Config{}, err
	}
	// Same atomicity rule as the resolver: a loaded column table replaces
	// the default one instead of unioning with it.
	if rawColumns, present := raw["columns"]; present {
		if columns := toColumnTable(rawColumns); columns != nil {
			cfg.Columns = columns
		}
	}
	return cfg, nil
}

func toColumnTable(value any) map[string]int {
	switch typed := value.(type) {
	case map[string]int:
		out := make(map[string]int, len(typed))
		for name, position := range typed {
			out[name] = position
		}
		return out
	case map[string]any:
		out := make(map[string]int, len(typed))
		for name, position := range typed {
			switch pos := position.(type) {
			case int:
				out[name] = pos
			case int64:
				out[name] = int(pos)
			case float64:
				out[name] = int(pos)
			}
		}
		return out
	default:
		return nil
	}
}

type GoOptionsResolver struct{}

func (GoOptionsResolver) Resolve(defaults Config, loaded Config, runtime Config) (Config, error) {
	defaultLayer := configToLayerMap(defaults, true)
	loadedLayer := configToLayerMap(loaded, false)
	runtimeLayer := configToLayerMap(runtime, false)

	stack, err := opts.NewStack(
		opts.NewLayer(
			opts.NewScope("defaults", 0),
			defaultLayer,
			opts.WithSnapshotID[map[string]any]("defaults"),
		),
		opts.NewLayer(
			opts.NewScope("config", 10),
			loadedLayer,
			opts.WithSnapshotID[map[string]any]("config"),
		),
		opts.NewLayer(
			opts.NewScope("runtime", 20),
			runtimeLayer,
			opts.WithSnapshotID[map[string]any]("runtime"),
		),
	)
	if err != nil {
		return Config{}, fmt.Errorf("core: options stack build failed: %w", err)
	}
	merged, err := stack.Merge()
	if err != nil {
		return Config{}, fmt.Errorf("core: options merge failed: %w", err)
	}
	mergedValues := merged.Value
	// Column tables are atomic: the merge must never union a configured
	// layout with the default one, or a layout without a field would
	// inherit that field's position from the default.
	mergedValues["columns"] = atomicColumnsLayer(defaults, loaded, runtime)
	resolved, err := cfgx.Build[Config](mergedValues,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
	if err != nil {
		return Config{}, err
	}
	if err := resolved.Validate(); err != nil {
		return Config{}, err
	}
	return resolved, nil
}

// atomicColumnsLayer picks the highest-priority non-empty column table,
// wholesale.
func atomicColumnsLayer(defaults Config, loaded Config, runtime Config) map[string]any {
	for _, cfg := range []Config{runtime, loaded, defaults} {
		if len(cfg.Columns) == 0 {
			continue
		}
		columns := make(map[string]any, len(cfg.Columns))
		for name, position := range cfg.Columns {
			columns[name] = position
		}
		return columns
	}
	return map[string]any{}
}

func configToLayerMap(cfg Config, includeZero bool) map[string]any {
	layer := map[string]any{}
	if includeZero || strings.TrimSpace(cfg.ServiceName) != "" {
		layer["service_name"] = cfg.ServiceName
	}
	if includeZero || strings.TrimSpace(cfg.SheetName) != "" {
		layer["sheet_name"] = cfg.SheetName
	}
	if includeZero || strings.TrimSpace(cfg.Endpoint) != "" {
		layer["endpoint"] = cfg.Endpoint
	}
	if includeZero || len(cfg.Columns) > 0 {
		columns := make(map[string]any, len(cfg.Columns))
		for name, position := range cfg.Columns {
			columns[name] = position
		}
		layer["columns"] = columns
	}
	if includeZero || strings.TrimSpace(cfg.Normalizer.DefaultLanguage) != "" || cfg.Normalizer.LowercaseLanguage {
		layer["normalizer"] = map[string]any{
			"default_language":   cfg.Normalizer.DefaultLanguage,
			"lowercase_language": cfg.Normalizer.LowercaseLanguage,
		}
	}
	return layer
}

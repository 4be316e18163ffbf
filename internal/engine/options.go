package engine

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// ValidationLevel controls how strictly the schema catalog is built.
type ValidationLevel int

const (
	// ValidationLenient keeps Open from failing when the schema catalog
	// cannot be built: the engine continues with an empty catalog. A schema
	// row whose rootpage column holds NULL is accepted in both modes and
	// its table is treated as rootless.
	ValidationLenient ValidationLevel = iota
	// ValidationStrict makes Open fail with a SchemaInconsistency error
	// whenever the schema catalog cannot be built. A NULL rootpage is not
	// such a failure.
	ValidationStrict
)

type engineOptions struct {
	validation ValidationLevel
	readTimeout time.Duration
	logger *logrus.Logger
}

func defaultOptions() engineOptions {
	return engineOptions{
		validation: ValidationLenient,
		logger: nil,
	}
}

// Option configures an Engine at construction time via the functional-options
// pattern narrowed to this read-only engine's actual knobs.
type Option func(*engineOptions)

// WithValidation sets the catalog-building strictness level.
func WithValidation(level ValidationLevel) Option {
	return func(o *engineOptions) { o.validation = level }
}

// WithReadTimeout bounds each page read with a context deadline. Zero (the
// default) means no deadline, preserving the synchronous-by-default model
// while still giving callers an escape hatch.
func WithReadTimeout(d time.Duration) Option {
	return func(o *engineOptions) { o.readTimeout = d }
}

// WithDebugLog enables debug-level diagnostics on logger. A nil logger (the
// default) disables debug logging entirely so the documented stdout
// contract is never polluted.
func WithDebugLog(logger *logrus.Logger) Option {
	return func(o *engineOptions) { o.logger = logger }
}

func (o engineOptions) debugf(format string, args ...any) {
	if o.logger == nil {
		return
	}
	o.logger.Debugf(format, args...)
}

// ResourceManager closes managed resources in reverse (LIFO) order. This
// engine only ever registers the one open file, but the LIFO discipline
// generalizes cleanly if that changes.
type ResourceManager struct {
	resources []io.Closer
}

func (rm *ResourceManager) Add(resource io.Closer) {
	rm.resources = append(rm.resources, resource)
}

func (rm *ResourceManager) Close() error {
	var lastErr error
	for i := len(rm.resources) - 1; i >= 0; i-- {
		if err := rm.resources[i].Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

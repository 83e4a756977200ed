package observable

import (
	"github.com/AntonStoeckl/library-circulation-go/shell"
)

type settings struct {
	metricsCollector shell.MetricsCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
}

// Option defines a functional option shared by CommandWrapper and QueryWrapper.
type Option func(*settings) error

// WithMetrics sets the metrics collector.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(s *settings) error {
		s.metricsCollector = collector
		return nil
	}
}

// WithContextualLogging sets the contextual logger. It takes precedence over the basic logger.
func WithContextualLogging(logger shell.ContextualLogger) Option {
	return func(s *settings) error {
		s.contextualLogger = logger
		return nil
	}
}

// WithLogging sets the basic logger.
func WithLogging(logger shell.Logger) Option {
	return func(s *settings) error {
		s.logger = logger
		return nil
	}
}

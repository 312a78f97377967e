package restaurant

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/restodex/internal/domain"
	domrest "github.com/kailas-cloud/restodex/internal/domain/restaurant"
	"github.com/kailas-cloud/restodex/internal/logger"
)

// Service answers single-restaurant lookups.
type Service struct {
	finder   Finder
	failures FailureCounter
	logger   *zap.Logger
	timeout  time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithTimeout sets a deadline on each lookup. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// New creates a restaurant service. failures can be nil.
func New(finder Finder, failures FailureCounter, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{finder: finder, failures: failures, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the restaurant with the given external id. The boolean is
// false when no such restaurant exists or the store could not be reached;
// the latter is logged and counted but not surfaced.
func (s *Service) Get(ctx context.Context, id string) (domrest.Record, bool) {
	lookupCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		lookupCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	r, err := s.finder.GetByExternalID(lookupCtx, id)
	switch {
	case err == nil:
		return r, true
	case errors.Is(err, domain.ErrNotFound):
		return domrest.Record{}, false
	default:
		logger.FromContextOr(ctx, s.logger).Error("Restaurant lookup failed",
			zap.String("id", id),
			zap.Error(err),
		)
		if s.failures != nil {
			s.failures.Inc()
		}
		return domrest.Record{}, false
	}
}

package search

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	domrest "github.com/kailas-cloud/restodex/internal/domain/restaurant"
	"github.com/kailas-cloud/restodex/internal/domain/search/page"
	"github.com/kailas-cloud/restodex/internal/domain/search/query"
	"github.com/kailas-cloud/restodex/internal/logger"
)

// Result is one page of search results.
type Result struct {
	Records    []domrest.Record
	TotalPages int
}

// Service resolves free-text searches into paginated record lists.
type Service struct {
	repo     Repository
	pageSize int
	timeout  time.Duration
	failures FailureCounter
	logger   *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithPageSize overrides the page size.
func WithPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithTimeout bounds each search's store calls. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithFailureCounter counts absorbed store failures.
func WithFailureCounter(c FailureCounter) Option {
	return func(s *Service) { s.failures = c }
}

// New creates a search service.
func New(repo Repository, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{repo: repo, pageSize: page.DefaultSize, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PageSize returns the configured page size.
func (s *Service) PageSize() int { return s.pageSize }

// Search returns page pageNum (1-based) of records matching term and the
// total page count. It never fails: any store error yields an empty result
// with zero pages, and is logged and counted.
func (s *Service) Search(ctx context.Context, term string, pageNum int) Result {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	p := query.ForTerm(term)
	skip := page.Offset(pageNum, s.pageSize)

	var (
		records []domrest.Record
		total   int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.repo.Find(gctx, p, skip, s.pageSize)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx, p)
		return err
	})

	if err := g.Wait(); err != nil {
		logger.FromContextOr(ctx, s.logger).Error("Search failed",
			zap.String("term", term),
			zap.Int("page", pageNum),
			zap.Stringer("predicate", p),
			zap.Error(err),
		)
		if s.failures != nil {
			s.failures.Inc()
		}
		return Result{Records: []domrest.Record{}, TotalPages: 0}
	}

	if records == nil {
		records = []domrest.Record{}
	}
	return Result{Records: records, TotalPages: page.TotalPages(total, s.pageSize)}
}

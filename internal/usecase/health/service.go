package health

import (
	"context"
	"sync"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an auxiliary check failed.
	Degraded Status = "degraded"
	// Unhealthy indicates the record store is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

const databaseCheck = "database"

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db      DBPinger
	checks  map[string]Checker
	timeout time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithCheck adds a named auxiliary check.
func WithCheck(name string, c Checker) Option {
	return func(s *Service) { s.checks[name] = c }
}

// WithTimeout bounds each probe. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// New creates a Service.
func New(db DBPinger, opts ...Option) *Service {
	s := &Service{db: db, checks: make(map[string]Checker)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Check runs all probes concurrently.
func (s *Service) Check(ctx context.Context) Report {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		checks = make(map[string]CheckResult, len(s.checks)+1)
	)
	run := func(name string, fn func(context.Context) error) {
		defer wg.Done()
		res := CheckOK
		if err := fn(ctx); err != nil {
			res = CheckError
		}
		mu.Lock()
		checks[name] = res
		mu.Unlock()
	}

	wg.Add(1 + len(s.checks))
	go run(databaseCheck, s.db.Ping)
	for name, c := range s.checks {
		go run(name, c.Check)
	}
	wg.Wait()

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}
	if checks[databaseCheck] == CheckError {
		status = Unhealthy
	}

	return Report{Status: status, Checks: checks}
}

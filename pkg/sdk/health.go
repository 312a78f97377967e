package restodex

import (
	"context"

	healthuc "github.com/kailas-cloud/restodex/internal/usecase/health"
)

// HealthStatus is the outcome of a Health call. Status is "error" when the
// database is unreachable and "degraded" when only an auxiliary check such
// as the Redis "search_index" failed.
type HealthStatus struct {
	Status string
	Checks map[string]string // "database", "search_index" -> "ok" or "error"
}

// Health pings the restaurant store and any auxiliary checks.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

// healthUseCase is what Health needs from the health usecase.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

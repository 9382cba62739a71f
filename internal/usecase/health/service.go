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
	// Degraded indicates at least one failing component.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names reported in Report.Checks.
const (
	ComponentEngine = "elasticsearch"
	ComponentCache  = "cache"
)

// DefaultCheckTimeout bounds a single component check.
const DefaultCheckTimeout = 2 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Healthy reports whether every component passed.
func (r Report) Healthy() bool { return r.Status == Healthy }

// Service coordinates health checks.
type Service struct {
	checks  map[string]Pinger
	timeout time.Duration
}

// New creates a Service. cache can be nil when no cache is configured.
func New(engine, cache Pinger) *Service {
	checks := map[string]Pinger{ComponentEngine: engine}
	if cache != nil {
		checks[ComponentCache] = cache
	}
	return &Service{checks: checks, timeout: DefaultCheckTimeout}
}

// Check pings all components concurrently, each bounded by the check timeout.
func (s *Service) Check(ctx context.Context) Report {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		checks = make(map[string]CheckResult, len(s.checks))
	)
	for name, p := range s.checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			res := CheckOK
			if err := p.Ping(cctx); err != nil {
				res = CheckError
			}
			mu.Lock()
			checks[name] = res
			mu.Unlock()
		}()
	}
	wg.Wait()

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}

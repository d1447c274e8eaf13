package httpx

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Pinger is anything the health endpoint can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck names one dependency. A nil Pinger reports "disabled" and
// does not degrade the overall status.
type HealthCheck struct {
	Name   string
	Pinger Pinger
}

// HealthReport is the /health body.
type HealthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

const healthTimeout = 2 * time.Second

// HealthHandler probes every check concurrently and answers 503 when any
// enabled dependency is unreachable.
func HealthHandler(checks ...HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		report := Probe(ctx, checks)
		status := http.StatusOK
		if report.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		w.Header().Set("Cache-Control", "no-store")
		JSON(w, status, report)
	}
}

// Probe runs the checks and collects their states.
func Probe(ctx context.Context, checks []HealthCheck) HealthReport {
	report := HealthReport{Status: "ok", Checks: make(map[string]string, len(checks))}
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, c := range checks {
		if c.Pinger == nil {
			mu.Lock()
			report.Checks[c.Name] = "disabled"
			mu.Unlock()
			continue
		}
		wg.Go(func() {
			state := "ok"
			if err := c.Pinger.Ping(ctx); err != nil {
				state = "unreachable"
			}
			mu.Lock()
			defer mu.Unlock()
			report.Checks[c.Name] = state
			if state != "ok" {
				report.Status = "degraded"
			}
		})
	}
	wg.Wait()
	return report
}

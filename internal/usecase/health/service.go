// Package health aggregates dependency probes for the /health endpoint and the CLI.
package health

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates the database is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckMissing indicates the incident index has not been created yet.
	CheckMissing CheckResult = "missing"
)

// Check names.
const (
	CheckDatabase  = "database"
	CheckIndex     = "index"
	CheckEmbedding = "embedding"
)

// DefaultProbeTimeout bounds each probe.
const DefaultProbeTimeout = 3 * time.Second

var errIndexMissing = errors.New("index missing")

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db        StorePinger
	index     IndexChecker
	embedding ProviderChecker
	timeout   time.Duration
	logger    *zap.Logger
}

// New creates a Service. index and embedding can be nil.
func New(db StorePinger, index IndexChecker, embedding ProviderChecker, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, index: index, embedding: embedding, timeout: DefaultProbeTimeout, logger: logger}
}

// Check runs all probes concurrently, each under its own timeout.
func (s *Service) Check(ctx context.Context) Report {
	probes := map[string]func(context.Context) error{
		CheckDatabase: s.db.Ping,
	}
	if s.index != nil {
		probes[CheckIndex] = func(ctx context.Context) error {
			ok, err := s.index.IndexReady(ctx)
			if err == nil && !ok {
				return errIndexMissing
			}
			return err
		}
	}
	if s.embedding != nil {
		probes[CheckEmbedding] = s.embedding.HealthCheck
	}

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		checks = make(map[string]CheckResult, len(probes))
	)
	for name, probe := range probes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			res := CheckOK
			if err := probe(pctx); err != nil {
				res = CheckError
				if errors.Is(err, errIndexMissing) {
					res = CheckMissing
				}
				s.logger.Warn("Health probe failed", zap.String("check", name), zap.Error(err))
			}
			mu.Lock()
			checks[name] = res
			mu.Unlock()
		}()
	}
	wg.Wait()

	status := Healthy
	for _, v := range checks {
		if v != CheckOK {
			status = Degraded
			break
		}
	}
	if checks[CheckDatabase] == CheckError {
		status = Unhealthy
	}

	return Report{Status: status, Checks: checks}
}

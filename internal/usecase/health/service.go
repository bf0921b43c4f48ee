package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure. Retrieval may still work on
	// one leg while the other component is down.
	Degraded Status = "degraded"
	// Unhealthy indicates the store itself is unreachable.
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

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db        DBPinger
	index     IndexChecker
	embedding EmbeddingChecker
}

// New creates a Service. index and embedding can be nil.
func New(db DBPinger, index IndexChecker, embedding EmbeddingChecker) *Service {
	return &Service{db: db, index: index, embedding: embedding}
}

// Check runs health checks against all components. The store being
// down makes the whole report unhealthy; a missing search index or an
// unreachable embedding provider only degrades it.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	dbDown := s.db.Ping(ctx) != nil
	if dbDown {
		checks["database"] = CheckError
	} else {
		checks["database"] = CheckOK
	}

	if s.index != nil {
		if exists, err := s.index.IndexExists(ctx); err != nil || !exists {
			checks["search_index"] = CheckError
		} else {
			checks["search_index"] = CheckOK
		}
	}

	if s.embedding != nil {
		if err := s.embedding.HealthCheck(ctx); err != nil {
			checks["embedding"] = CheckError
		} else {
			checks["embedding"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}
	if dbDown {
		status = Unhealthy
	}

	return Report{Status: status, Checks: checks}
}

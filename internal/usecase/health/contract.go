package health

import "context"

// Probes the service depends on. Each returns nil when the dependency answers.
type (
	// StorePinger is the incident store connection.
	StorePinger interface {
		Ping(ctx context.Context) error
	}

	// IndexChecker reports whether the incident index exists. A missing index
	// degrades health without failing it: ingest creates it on demand.
	IndexChecker interface {
		IndexReady(ctx context.Context) (bool, error)
	}

	// ProviderChecker is the embedding provider.
	ProviderChecker interface {
		HealthCheck(ctx context.Context) error
	}
)

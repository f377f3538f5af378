// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"net/http"
	"time"

	"github.com/huangsam/fdr/schema"
)

// HTTPDoer performs HTTP requests against the upstream data API.
// This allows the fetch client to be tested without network access.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher downloads the raw upstream payloads that feed the dataset.
type Fetcher interface {
	// BootstrapStatic returns the registry payload with teams and players.
	BootstrapStatic(ctx context.Context) ([]byte, error)

	// Fixtures returns the full fixture calendar payload.
	Fixtures(ctx context.Context) ([]byte, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetResponseStore() CacheStore
	GetAnalysisStore() AnalysisStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// AnalysisStore defines the interface for tracking calculation runs and their ratings.
type AnalysisStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(startTime time.Time, params schema.RunParams) (int64, error)

	// RecordTeamRatings stores the per-team outcome of a run
	RecordTeamRatings(runID int64, ratings []schema.TeamRating) error

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, totalTeams int) error

	// GetStatus returns status information about the analysis store
	GetStatus() (schema.AnalysisStatus, error)

	// GetAllRuns returns every recorded run
	GetAllRuns() ([]schema.AnalysisRunRecord, error)

	// GetAllTeamRatings returns every recorded team rating
	GetAllTeamRatings() ([]schema.TeamRatingRecord, error)

	// Close closes the underlying connection
	Close() error
}

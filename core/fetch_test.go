package core

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/huangsam/fdr/internal/dataset"
	"github.com/huangsam/fdr/internal/iocache"
	"github.com/huangsam/fdr/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const upstreamBootstrap = `{
  "events": [{"id": 1, "name": "Gameweek 1", "deadline_time": "2025-08-15T17:30:00Z", "is_next": true}],
  "teams": [
    {"id": 1, "name": "Arsenal", "short_name": "ARS"},
    {"id": 2, "name": "Sunderland", "short_name": "SUN"}
  ],
  "elements": [
    {"id": 10, "web_name": "Saka", "team": 1, "minutes": 90, "expected_goals_per_90": 0.6, "expected_goals_conceded_per_90": 0.9},
    {"id": 20, "web_name": "Isidor", "team": 2, "minutes": 90, "expected_goals_per_90": 0.3, "expected_goals_conceded_per_90": 1.6}
  ]
}`

const upstreamFixtures = `[{"id": 1, "event": 1, "team_h": 1, "team_a": 2, "kickoff_time": "2025-08-16T14:00:00Z"}]`

// newUpstream serves both payloads and counts requests.
func newUpstream(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/bootstrap-static/", func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(upstreamBootstrap))
	})
	mux.HandleFunc("/fixtures/", func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(upstreamFixtures))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestFetchDataset(t *testing.T) {
	srv, hits := newUpstream(t)
	cfg := testConfig(t.TempDir())
	cfg.APIBaseURL = srv.URL
	cfg.Promoted = []string{"Sunderland"}

	ds, err := FetchDataset(quietCtx(), cfg, NewFetcher(cfg, nil, false))
	require.NoError(t, err)
	assert.Len(t, ds.Teams, 2)
	assert.Len(t, ds.Fixtures, 1)
	assert.Equal(t, int32(2), hits.Load())

	loaded, err := dataset.Load(cfg.DataDir)
	require.NoError(t, err)
	assert.True(t, loaded.Stats["Sunderland"].Promoted)
	assert.Equal(t, schema.PromotedXGFor, loaded.Stats["Sunderland"].XGFor)

	lists, err := GetGameweekFDRResults(quietCtx(), cfg, nil)
	require.NoError(t, err)
	assert.Len(t, lists.Attack, 2, "freshly fetched data feeds the calculator")
}

func TestFetchDatasetUsesResponseCache(t *testing.T) {
	srv, hits := newUpstream(t)
	cfg := testConfig(t.TempDir())
	cfg.APIBaseURL = srv.URL
	cfg.CacheTTL = time.Hour

	store, err := iocache.NewCacheStore("response_cache", schema.SQLiteBackend, filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetResponseStore").Return(store)

	_, err = FetchDataset(quietCtx(), cfg, NewFetcher(cfg, mgr, false))
	require.NoError(t, err)
	_, err = FetchDataset(quietCtx(), cfg, NewFetcher(cfg, mgr, false))
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load(), "second fetch is served from the cache")

	_, err = FetchDataset(quietCtx(), cfg, NewFetcher(cfg, mgr, true))
	require.NoError(t, err)
	assert.Equal(t, int32(4), hits.Load(), "force goes back to the network")
	mgr.AssertExpectations(t)
}

func TestFetchDatasetUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)
	cfg := testConfig(t.TempDir())
	cfg.APIBaseURL = srv.URL

	_, err := FetchDataset(quietCtx(), cfg, NewFetcher(cfg, nil, false))
	assert.ErrorContains(t, err, "fetch bootstrap-static")
}

package fetch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/fdr/internal/dataset"
	"github.com/huangsam/fdr/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	bootstrap []byte
	fixtures  []byte
	err       error
}

func (f *fakeFetcher) BootstrapStatic(context.Context) ([]byte, error) { return f.bootstrap, f.err }
func (f *fakeFetcher) Fixtures(context.Context) ([]byte, error)        { return f.fixtures, f.err }

const syncBootstrap = `{
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

const syncFixtures = `[
  {"id": 1, "event": 1, "team_h": 1, "team_a": 2, "kickoff_time": "2025-08-16T14:00:00Z", "finished": false},
  {"id": 2, "event": null, "team_h": 2, "team_a": 1, "kickoff_time": null, "finished": false}
]`

func TestSyncDerivesStatsFromPlayers(t *testing.T) {
	dir := t.TempDir()
	f := &fakeFetcher{bootstrap: []byte(syncBootstrap), fixtures: []byte(syncFixtures)}

	d, err := Sync(context.Background(), f, dir, []string{"Sunderland"})
	require.NoError(t, err)
	assert.Len(t, d.Teams, 2)
	assert.Len(t, d.Fixtures, 1)

	loaded, err := dataset.Load(dir)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, loaded.Stats["Arsenal"].XGFor, 1e-9)
	assert.True(t, loaded.Stats["Sunderland"].Promoted)
	assert.Equal(t, schema.PromotedXGConceded, loaded.Stats["Sunderland"].XGConceded)
	assert.Equal(t, 1, loaded.NextGameweek())

	for _, name := range []string{bootstrapRawFile, fixturesRawFile} {
		_, err := os.Stat(filepath.Join(dir, dataset.RawDir, name))
		assert.NoError(t, err, name)
	}
}

func TestSyncKeepsSupplementaryStats(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, dataset.TeamStatsFile),
		[]byte(`{"Arsenal":{"name":"Arsenal","xGFor":2.1,"xGConceded":0.8}}`), 0o644))

	f := &fakeFetcher{bootstrap: []byte(syncBootstrap), fixtures: []byte(syncFixtures)}
	for range 2 {
		d, err := Sync(context.Background(), f, dir, nil)
		require.NoError(t, err)

		assert.Equal(t, 2.1, d.Stats["Arsenal"].XGFor)
		assert.Equal(t, schema.StatSourceSupplied, d.Stats["Arsenal"].Source)
		assert.NotContains(t, d.Stats, "Sunderland", "players are not mixed into supplied statistics")
	}
	_, err := os.Stat(filepath.Join(dir, dataset.SuppliedStatsFile))
	assert.NoError(t, err)
}

func TestSyncRebuildsStatsOnEveryRefresh(t *testing.T) {
	dir := t.TempDir()
	first := &fakeFetcher{bootstrap: []byte(syncBootstrap), fixtures: []byte(syncFixtures)}
	_, err := Sync(context.Background(), first, dir, []string{"Sunderland"})
	require.NoError(t, err)

	later := strings.Replace(syncBootstrap, `"expected_goals_per_90": 0.6`, `"expected_goals_per_90": 1.9`, 1)
	second := &fakeFetcher{bootstrap: []byte(later), fixtures: []byte(syncFixtures)}
	d, err := Sync(context.Background(), second, dir, nil)
	require.NoError(t, err)

	assert.InDelta(t, 1.9, d.Stats["Arsenal"].XGFor, 1e-9)
	assert.Equal(t, schema.StatSourceDerived, d.Stats["Arsenal"].Source)
	assert.False(t, d.Stats["Sunderland"].Promoted, "promotion follows the current list")
	assert.InDelta(t, 0.3, d.Stats["Sunderland"].XGFor, 1e-9)
	assert.InDelta(t, 1.6, d.Stats["Sunderland"].XGConceded, 1e-9)

	loaded, err := dataset.Load(dir)
	require.NoError(t, err)
	assert.InDelta(t, 1.9, loaded.Stats["Arsenal"].XGFor, 1e-9)
	assert.False(t, loaded.Stats["Sunderland"].Promoted)

	_, err = os.Stat(filepath.Join(dir, dataset.SuppliedStatsFile))
	assert.True(t, os.IsNotExist(err), "derived statistics are never adopted as supplied")
}

func TestSyncPromotedListChangesWithSuppliedStats(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, dataset.SuppliedStatsFile),
		[]byte(`{"Arsenal":{"name":"Arsenal","xGFor":2.1,"xGConceded":0.8},"Sunderland":{"name":"Sunderland","xGFor":1.1,"xGConceded":1.4}}`), 0o644))
	f := &fakeFetcher{bootstrap: []byte(syncBootstrap), fixtures: []byte(syncFixtures)}

	d, err := Sync(context.Background(), f, dir, []string{"Sunderland"})
	require.NoError(t, err)
	assert.True(t, d.Stats["Sunderland"].Promoted)
	assert.Equal(t, schema.PromotedXGConceded, d.Stats["Sunderland"].XGConceded)

	d, err = Sync(context.Background(), f, dir, nil)
	require.NoError(t, err)
	assert.False(t, d.Stats["Sunderland"].Promoted)
	assert.Equal(t, 1.1, d.Stats["Sunderland"].XGFor, "supplied figures come back once no longer promoted")
	assert.Equal(t, 1.4, d.Stats["Sunderland"].XGConceded)
}

func TestSyncErrors(t *testing.T) {
	_, err := Sync(context.Background(), &fakeFetcher{err: errors.New("offline")}, t.TempDir(), nil)
	assert.ErrorContains(t, err, "offline")

	bad := &fakeFetcher{bootstrap: []byte(`{"teams":[]}`), fixtures: []byte(`[]`)}
	_, err = Sync(context.Background(), bad, t.TempDir(), nil)
	assert.Error(t, err)
}

//go:build integration

// Package integration contains end-to-end tests for the fdr binary.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags integration ./integration
// Or use: make test-integration
package integration

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/huangsam/fdr/core"
	"github.com/huangsam/fdr/core/algo"
	"github.com/huangsam/fdr/internal/contract"
	"github.com/huangsam/fdr/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fdrOutput struct {
	Attack  []schema.EnrichedFDRResult `json:"attack"`
	Defence []schema.EnrichedFDRResult `json:"defence"`
}

// noStores keeps the binary away from the cache database in $HOME.
func noStores(t *testing.T) {
	t.Setenv("FDR_CACHE_BACKEND", "none")
	t.Setenv("FDR_ANALYSIS_BACKEND", "none")
}

func libraryConfig(dataDir string, start, horizon int) *contract.Config {
	return &contract.Config{
		DataDir:         dataDir,
		Gameweek:        start,
		StartGameweek:   start,
		Horizon:         horizon,
		SeasonGameweeks: schema.SeasonGameweeks,
		ResultLimit:     contract.DefaultResultLimit,
		Precision:       contract.DefaultPrecision,
		Output:          schema.JSONOut,
		RankBy:          schema.RankByAttack,
		Tiers:           algo.DefaultTierMapping(),
	}
}

func assertSameLists(t *testing.T, want schema.FDRLists, got fdrOutput) {
	t.Helper()
	require.Len(t, got.Attack, len(want.Attack))
	require.Len(t, got.Defence, len(want.Defence))
	for i, w := range want.Attack {
		assert.Equal(t, i+1, got.Attack[i].Rank)
		assert.Equal(t, w.TeamName, got.Attack[i].TeamName, "attack rank %d", i+1)
		assert.InDelta(t, w.Attack, got.Attack[i].Attack, 1e-9)
	}
	for i, w := range want.Defence {
		assert.Equal(t, w.TeamName, got.Defence[i].TeamName, "defence rank %d", i+1)
		assert.InDelta(t, w.Defence, got.Defence[i].Defence, 1e-9)
	}
}

// TestHorizonMatchesLibrary checks the CLI's JSON against the same calculation in-process.
func TestHorizonMatchesLibrary(t *testing.T) {
	noStores(t)
	dir := t.TempDir()
	dataDir := writeSeason(t, dir)

	out, err := runFDR(t, dir, "horizon", "--data-dir", dataDir, "--start", "1", "--horizon", "3", "--output", "json")
	require.NoError(t, err)

	var got fdrOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	ctx := core.WithSuppressHeader(context.Background())
	want, err := core.GetHorizonFDRResults(ctx, libraryConfig(dataDir, 1, 3), nil)
	require.NoError(t, err)
	assertSameLists(t, want, got)

	for _, r := range got.Attack {
		assert.Equal(t, 3, r.Horizon, "every team plays once per gameweek")
	}
}

// TestGameweekMatchesLibrary checks a single gameweek the same way.
func TestGameweekMatchesLibrary(t *testing.T) {
	noStores(t)
	dir := t.TempDir()
	dataDir := writeSeason(t, dir)

	out, err := runFDR(t, dir, "gameweek", "--data-dir", dataDir, "--gameweek", "2", "--output", "json")
	require.NoError(t, err)

	var got fdrOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	ctx := core.WithSuppressHeader(context.Background())
	want, err := core.GetGameweekFDRResults(ctx, libraryConfig(dataDir, 2, 1), nil)
	require.NoError(t, err)
	assertSameLists(t, want, got)

	for _, r := range got.Attack {
		assert.Equal(t, float64(int(r.Attack)), r.Attack, "single fixtures rate on whole tiers")
	}
}

// TestWindowPastSeasonEndFails checks the CLI rejects windows beyond the final gameweek.
func TestWindowPastSeasonEndFails(t *testing.T) {
	noStores(t)
	dir := t.TempDir()
	dataDir := writeSeason(t, dir)

	_, err := runFDR(t, dir, "horizon", "--data-dir", dataDir, "--start", "36", "--horizon", "5")
	assert.Error(t, err)

	_, err = runFDR(t, dir, "horizon", "--data-dir", dataDir, "--horizon", "4")
	assert.Error(t, err)
}

// TestTierLookup checks the tiers command output for one team.
func TestTierLookup(t *testing.T) {
	noStores(t)
	dir := t.TempDir()
	dataDir := writeSeason(t, dir)

	out, err := runFDR(t, dir, "tiers", "--data-dir", dataDir, "--team", "Wolves", "--emoji", "no", "--color", "no")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "Wolves"), out)
	assert.Contains(t, out, "Very Easy")
}

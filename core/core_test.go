package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/fdr/core/algo"
	"github.com/huangsam/fdr/internal/contract"
	"github.com/huangsam/fdr/internal/dataset"
	"github.com/huangsam/fdr/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestDataset creates a four-team league with two played-out gameweeks.
func writeTestDataset(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	kickoff := time.Date(2025, time.August, 16, 14, 0, 0, 0, time.UTC)
	week := 7 * 24 * time.Hour
	ds := &dataset.Dataset{
		Teams: []schema.Team{
			{ID: 1, Name: "Arsenal", ShortName: "ARS"},
			{ID: 2, Name: "Burnley", ShortName: "BUR"},
			{ID: 3, Name: "Chelsea", ShortName: "CHE"},
			{ID: 4, Name: "Wolves", ShortName: "WOL"},
		},
		Fixtures: []schema.Fixture{
			{ID: 1, Gameweek: 1, HomeTeam: 1, AwayTeam: 2, KickoffTime: kickoff},
			{ID: 2, Gameweek: 1, HomeTeam: 3, AwayTeam: 4, KickoffTime: kickoff},
			{ID: 3, Gameweek: 2, HomeTeam: 2, AwayTeam: 3, KickoffTime: kickoff.Add(week)},
			{ID: 4, Gameweek: 2, HomeTeam: 4, AwayTeam: 1, KickoffTime: kickoff.Add(week)},
		},
		Events: []schema.Event{{ID: 1, Name: "Gameweek 1", IsNext: true}, {ID: 2, Name: "Gameweek 2"}},
		Stats: map[string]schema.TeamStat{
			"Arsenal": {Name: "Arsenal", XGFor: 2.0, XGConceded: 0.8},
			"Burnley": {Name: "Burnley", XGFor: 0.8, XGConceded: 2.0},
			"Chelsea": {Name: "Chelsea", XGFor: 1.6, XGConceded: 1.0},
			"Wolves":  {Name: "Wolves", XGFor: 1.0, XGConceded: 1.6},
		},
	}
	require.NoError(t, dataset.Write(dir, ds))
	return dir
}

func testConfig(dir string) *contract.Config {
	return &contract.Config{
		DataDir:         dir,
		Horizon:         3,
		SeasonGameweeks: schema.SeasonGameweeks,
		ResultLimit:     20,
		Precision:       1,
		Output:          schema.JSONOut,
		RankBy:          schema.RankByAttack,
		Tiers:           algo.DefaultTierMapping(),
	}
}

func quietCtx() context.Context {
	return WithSuppressHeader(context.Background())
}

func assertAscending(t *testing.T, results []schema.FDRResult, value func(schema.FDRResult) float64) {
	t.Helper()
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, value(results[i-1]), value(results[i]))
	}
}

func TestGetGameweekFDRResults(t *testing.T) {
	cfg := testConfig(writeTestDataset(t))

	lists, err := GetGameweekFDRResults(quietCtx(), cfg, nil)
	require.NoError(t, err)
	require.Len(t, lists.Attack, 4, "next gameweek resolves to 1")
	require.Len(t, lists.Defence, 4)
	for _, r := range lists.Attack {
		assert.Equal(t, 1, r.Horizon)
	}
	assertAscending(t, lists.Attack, func(r schema.FDRResult) float64 { return r.Attack })
	assertAscending(t, lists.Defence, func(r schema.FDRResult) float64 { return r.Defence })
}

func TestGetGameweekFDRResultsLimit(t *testing.T) {
	cfg := testConfig(writeTestDataset(t))
	cfg.Gameweek = 2
	cfg.ResultLimit = 2

	lists, err := GetGameweekFDRResults(quietCtx(), cfg, nil)
	require.NoError(t, err)
	assert.Len(t, lists.Attack, 2)
	assert.Len(t, lists.Defence, 2)
}

func TestGetGameweekFDRResultsEmptyGameweek(t *testing.T) {
	cfg := testConfig(writeTestDataset(t))
	cfg.Gameweek = 10

	lists, err := GetGameweekFDRResults(quietCtx(), cfg, nil)
	require.NoError(t, err)
	assert.Empty(t, lists.Attack)
	assert.Empty(t, lists.Defence)
}

func TestGetGameweekFDRResultsErrors(t *testing.T) {
	dir := writeTestDataset(t)

	cfg := testConfig(dir)
	cfg.Gameweek = 39
	_, err := GetGameweekFDRResults(quietCtx(), cfg, nil)
	assert.ErrorIs(t, err, contract.ErrInvalidGameweek)

	cfg = testConfig(filepath.Join(dir, "missing"))
	_, err = GetGameweekFDRResults(quietCtx(), cfg, nil)
	assert.ErrorIs(t, err, contract.ErrDatasetMissing)
}

func TestGetHorizonFDRResults(t *testing.T) {
	cfg := testConfig(writeTestDataset(t))
	cfg.StartGameweek = 1

	lists, err := GetHorizonFDRResults(quietCtx(), cfg, nil)
	require.NoError(t, err)
	require.Len(t, lists.Attack, 4)
	for _, r := range lists.Attack {
		assert.Equal(t, 3, r.Horizon)
		assert.Equal(t, 1, r.HomeMatches, "each team is home once in two gameweeks")
	}
	assertAscending(t, lists.Attack, func(r schema.FDRResult) float64 { return r.Attack })
}

func TestGetHorizonFDRResultsWindowValidation(t *testing.T) {
	dir := writeTestDataset(t)
	tests := []struct {
		name    string
		start   int
		horizon int
		wantErr error
	}{
		{"unsupported horizon", 1, 4, contract.ErrInvalidHorizon},
		{"runs past season end", 37, 3, contract.ErrInvalidHorizon},
		{"start out of range", 40, 3, contract.ErrInvalidGameweek},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(dir)
			cfg.StartGameweek = tt.start
			cfg.Horizon = tt.horizon
			_, err := GetHorizonFDRResults(quietCtx(), cfg, nil)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGetScheduleResults(t *testing.T) {
	cfg := testConfig(writeTestDataset(t))
	cfg.StartGameweek = 1

	schedules, err := GetScheduleResults(quietCtx(), cfg, nil)
	require.NoError(t, err)
	require.Len(t, schedules, 4)
	for i, s := range schedules {
		assert.Equal(t, i+1, s.AttackFDRRank, "ordered by attack rank")
		assert.Len(t, s.Fixtures, 2)
	}

	cfg.RankBy = schema.RankByDefence
	schedules, err = GetScheduleResults(quietCtx(), cfg, nil)
	require.NoError(t, err)
	for i, s := range schedules {
		assert.Equal(t, i+1, s.DefenceFDRRank, "ordered by defence rank")
	}
}

func TestGetScheduleResultsTeamFilter(t *testing.T) {
	cfg := testConfig(writeTestDataset(t))
	cfg.StartGameweek = 1
	cfg.Team = "ars"

	schedules, err := GetScheduleResults(quietCtx(), cfg, nil)
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	assert.Equal(t, "Arsenal", schedules[0].TeamName)
	assert.Equal(t, "Burnley", schedules[0].Fixtures[0].OpponentName)
	assert.True(t, schedules[0].Fixtures[0].IsHome)
	assert.Equal(t, 1, schedules[0].Fixtures[0].OpponentAttackFDR, "Burnley sits in attack tier 1")

	cfg.Team = "Nobody"
	_, err = GetScheduleResults(quietCtx(), cfg, nil)
	assert.ErrorIs(t, err, ErrTeamNotFound)
}

func TestLookupTeamTier(t *testing.T) {
	cfg := testConfig("")

	lookup, err := LookupTeamTier(cfg, " Arsenal ", schema.AttackTier)
	require.NoError(t, err)
	assert.Equal(t, schema.TierLookup{Team: "Arsenal", Kind: schema.AttackTier, Tier: 5}, lookup)

	lookup, err = LookupTeamTier(cfg, "Tettenhall Rangers", schema.DefenceTier)
	require.NoError(t, err)
	assert.Equal(t, schema.DefaultTier, lookup.Tier)

	_, err = LookupTeamTier(cfg, "  ", schema.AttackTier)
	assert.Error(t, err)
	_, err = LookupTeamTier(cfg, "Arsenal", "midfield")
	assert.Error(t, err)
}

func TestGetTierResults(t *testing.T) {
	table := GetTierResults(testConfig(""))
	assert.Contains(t, table.Attack[5], "Man City")
	assert.Len(t, table.Defence, schema.MaxTier)
}

func TestExecuteCommandsWriteFiles(t *testing.T) {
	dir := writeTestDataset(t)
	tests := []struct {
		name string
		exec ExecutorFunc
		team string
	}{
		{"gameweek", ExecuteGameweekFDR, ""},
		{"horizon", ExecuteHorizonFDR, ""},
		{"schedules", ExecuteSchedules, ""},
		{"tiers", ExecuteTiers, ""},
		{"tier lookup", ExecuteTiers, "Chelsea"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(dir)
			cfg.StartGameweek = 1
			cfg.Team = tt.team
			cfg.OutputFile = filepath.Join(t.TempDir(), "out.json")
			require.NoError(t, tt.exec(quietCtx(), cfg, nil))

			data, err := os.ReadFile(cfg.OutputFile)
			require.NoError(t, err)
			assert.NotEmpty(t, data)
		})
	}
}

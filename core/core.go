// Package core has core logic for fixture difficulty, schedules and tiers.
package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/fdr/core/algo"
	"github.com/huangsam/fdr/internal/contract"
	"github.com/huangsam/fdr/internal/dataset"
	"github.com/huangsam/fdr/internal/outwriter"
	"github.com/huangsam/fdr/schema"
)

// ExecutorFunc defines the function signature for executing different calculations.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// ErrTeamNotFound is returned when a team filter matches nothing in the registry.
var ErrTeamNotFound = errors.New("team not found")

// ResolveGameweek replaces a zero gameweek with the next unfinished one and validates it.
func ResolveGameweek(ds *dataset.Dataset, gameweek, seasonGameweeks int) (int, error) {
	if gameweek == 0 {
		gameweek = ds.NextGameweek()
	}
	if err := contract.ValidateGameweek(gameweek, seasonGameweeks); err != nil {
		return 0, err
	}
	return gameweek, nil
}

// ResolveWindow replaces a zero start with the next unfinished gameweek and validates the window.
func ResolveWindow(ds *dataset.Dataset, start, horizon, seasonGameweeks int) (int, error) {
	if start == 0 {
		start = ds.NextGameweek()
	}
	if err := contract.ValidateWindow(start, horizon, seasonGameweeks); err != nil {
		return 0, err
	}
	return start, nil
}

// GameweekFDR rates every fixture of one gameweek in an already loaded dataset.
func GameweekFDR(ctx context.Context, ds *dataset.Dataset, cfg *contract.Config, mgr contract.CacheManager) (schema.FDRLists, int, error) {
	gameweek, err := ResolveGameweek(ds, cfg.Gameweek, cfg.SeasonGameweeks)
	if err != nil {
		return schema.FDRLists{}, 0, err
	}
	logHeader(ctx, cfg, fmt.Sprintf("Gameweek %d fixture difficulty", gameweek))

	runID := beginRun(mgr, schema.RunParams{Kind: schema.GameweekRun, StartGameweek: gameweek, Horizon: 1, DataDir: cfg.DataDir})
	lists := algo.CalculateGameweekFDR(ds.Fixtures, ds.StatsByTeamID(), gameweek)
	finishRun(mgr, runID, ratingsFromLists(lists))

	return limitLists(lists, cfg.ResultLimit), gameweek, nil
}

// HorizonFDR averages fixture difficulty over a window of an already loaded dataset.
func HorizonFDR(ctx context.Context, ds *dataset.Dataset, cfg *contract.Config, mgr contract.CacheManager) (schema.FDRLists, int, error) {
	start, err := ResolveWindow(ds, cfg.StartGameweek, cfg.Horizon, cfg.SeasonGameweeks)
	if err != nil {
		return schema.FDRLists{}, 0, err
	}
	logHeader(ctx, cfg, fmt.Sprintf("Gameweeks %d-%d fixture difficulty", start, start+cfg.Horizon-1))

	runID := beginRun(mgr, schema.RunParams{Kind: schema.HorizonRun, StartGameweek: start, Horizon: cfg.Horizon, DataDir: cfg.DataDir})
	lists := algo.CalculateHorizonFDR(ds.Fixtures, ds.StatsByTeamID(), cfg.Horizon, start)
	finishRun(mgr, runID, ratingsFromLists(lists))

	return limitLists(lists, cfg.ResultLimit), start, nil
}

// Schedules builds per-team fixture windows of an already loaded dataset,
// ordered by the configured rank and narrowed to cfg.Team when set.
func Schedules(ctx context.Context, ds *dataset.Dataset, cfg *contract.Config, mgr contract.CacheManager) ([]schema.TeamSchedule, int, error) {
	start, err := ResolveWindow(ds, cfg.StartGameweek, cfg.Horizon, cfg.SeasonGameweeks)
	if err != nil {
		return nil, 0, err
	}
	logHeader(ctx, cfg, fmt.Sprintf("Schedules for gameweeks %d-%d", start, start+cfg.Horizon-1))

	runID := beginRun(mgr, schema.RunParams{Kind: schema.ScheduleRun, StartGameweek: start, Horizon: cfg.Horizon, DataDir: cfg.DataDir})
	schedules := algo.BuildSchedules(ds.Fixtures, ds.Teams, cfg.Tiers, cfg.Horizon, start)
	finishRun(mgr, runID, ratingsFromSchedules(schedules))

	sorted := algo.SortSchedules(schedules, cfg.RankBy)
	if cfg.Team != "" {
		filtered, err := filterSchedules(sorted, cfg.Team)
		if err != nil {
			return nil, 0, err
		}
		return filtered, start, nil
	}
	if cfg.ResultLimit > 0 && len(sorted) > cfg.ResultLimit {
		sorted = sorted[:cfg.ResultLimit]
	}
	return sorted, start, nil
}

// filterSchedules keeps the schedules whose team name contains the query, ignoring case.
func filterSchedules(schedules []schema.TeamSchedule, team string) ([]schema.TeamSchedule, error) {
	query := strings.ToLower(strings.TrimSpace(team))
	out := make([]schema.TeamSchedule, 0, 1)
	for _, s := range schedules {
		if strings.Contains(strings.ToLower(s.TeamName), query) {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrTeamNotFound, team)
	}
	return out, nil
}

// limitLists truncates both views to at most limit entries.
func limitLists(lists schema.FDRLists, limit int) schema.FDRLists {
	if limit <= 0 {
		return lists
	}
	if len(lists.Attack) > limit {
		lists.Attack = lists.Attack[:limit]
	}
	if len(lists.Defence) > limit {
		lists.Defence = lists.Defence[:limit]
	}
	return lists
}

// GetGameweekFDRResults loads the dataset and rates one gameweek.
// It is the shared entry point of the CLI and the MCP server.
func GetGameweekFDRResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.FDRLists, error) {
	ds, err := dataset.Load(cfg.DataDir)
	if err != nil {
		return schema.FDRLists{}, err
	}
	lists, _, err := GameweekFDR(ctx, ds, cfg, mgr)
	return lists, err
}

// GetHorizonFDRResults loads the dataset and averages difficulty over a window.
func GetHorizonFDRResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.FDRLists, error) {
	ds, err := dataset.Load(cfg.DataDir)
	if err != nil {
		return schema.FDRLists{}, err
	}
	lists, _, err := HorizonFDR(ctx, ds, cfg, mgr)
	return lists, err
}

// GetScheduleResults loads the dataset and builds team schedules.
func GetScheduleResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.TeamSchedule, error) {
	ds, err := dataset.Load(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	schedules, _, err := Schedules(ctx, ds, cfg, mgr)
	return schedules, err
}

// GetTierResults returns the configured tier mapping.
func GetTierResults(cfg *contract.Config) schema.TierTable {
	return cfg.Tiers.Table()
}

// LookupTeamTier answers a single tier query against the configured mapping.
func LookupTeamTier(cfg *contract.Config, team string, kind schema.TierKind) (schema.TierLookup, error) {
	team = strings.TrimSpace(team)
	if team == "" {
		return schema.TierLookup{}, errors.New("team name is required")
	}
	if _, ok := schema.ValidTierKinds[kind]; !ok {
		return schema.TierLookup{}, fmt.Errorf("invalid tier type '%s'. must be attack, defence", kind)
	}
	return schema.TierLookup{Team: team, Kind: kind, Tier: cfg.Tiers.LookupTier(team, kind)}, nil
}

// ExecuteGameweekFDR rates one gameweek and prints both lists.
// It serves as the main entry point for the 'gameweek' command.
func ExecuteGameweekFDR(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	lists, err := GetGameweekFDRResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteFDR(lists, cfg, time.Since(start))
}

// ExecuteHorizonFDR averages difficulty over a window and prints both lists.
// It serves as the main entry point for the 'horizon' command.
func ExecuteHorizonFDR(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	lists, err := GetHorizonFDRResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteFDR(lists, cfg, time.Since(start))
}

// ExecuteSchedules builds and prints team schedules.
// It serves as the main entry point for the 'schedule' command.
func ExecuteSchedules(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	schedules, err := GetScheduleResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteSchedules(schedules, cfg, time.Since(start))
}

// ExecuteTiers prints the tier mapping, or both tiers of cfg.Team when set.
// It serves as the main entry point for the 'tiers' command.
func ExecuteTiers(_ context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	ow := outwriter.NewOutWriter()
	if cfg.Team == "" {
		return ow.WriteTiers(GetTierResults(cfg), cfg)
	}
	lookups := make([]schema.TierLookup, 0, 2)
	for _, kind := range []schema.TierKind{schema.AttackTier, schema.DefenceTier} {
		lookup, err := LookupTeamTier(cfg, cfg.Team, kind)
		if err != nil {
			return err
		}
		lookups = append(lookups, lookup)
	}
	return ow.WriteTierLookup(lookups, cfg)
}

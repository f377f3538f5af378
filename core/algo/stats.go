package algo

import (
	"sort"

	"github.com/huangsam/fdr/schema"
)

// ResolveTeamStats keys the statistics store by registry team id.
// Statistics are keyed by display name, which drifts between sources, so each
// registry team is reconciled with the same loose matcher used for tier lookups.
// Teams that do not reconcile are absent from the result.
func ResolveTeamStats(teams []schema.Team, stats map[string]schema.TeamStat) map[int]schema.TeamStat {
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	resolved := make(map[int]schema.TeamStat, len(teams))
	for _, team := range teams {
		name, ok := findTeamName(names, team.Name)
		if !ok && team.ShortName != "" {
			name, ok = findTeamName(names, team.ShortName)
		}
		if !ok {
			continue
		}
		stat := stats[name]
		if stat.Name == "" {
			stat.Name = name
		}
		resolved[team.ID] = stat
	}
	return resolved
}

// findTeamName returns the first candidate matching name, exact matches first.
func findTeamName(candidates []string, name string) (string, bool) {
	for _, c := range candidates {
		if matchTeamName(c, name) == exactMatch {
			return c, true
		}
	}
	for _, c := range candidates {
		if matchTeamName(c, name) == looseMatch {
			return c, true
		}
	}
	return "", false
}

// TeamStatsFromPlayers folds per-player figures into per-team figures.
// Each team gets the plain mean across its distinct players; minutes are not
// used as weights. Players whose team is not in the registry are ignored.
func TeamStatsFromPlayers(players []schema.PlayerStat, teams []schema.Team) map[string]schema.TeamStat {
	byID := make(map[int]schema.Team, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
	}

	type accumulator struct {
		xgFor, xgConceded float64
		players           map[int]struct{}
	}
	acc := make(map[int]*accumulator)
	for _, p := range players {
		if _, ok := byID[p.Team]; !ok {
			continue
		}
		a, ok := acc[p.Team]
		if !ok {
			a = &accumulator{players: make(map[int]struct{})}
			acc[p.Team] = a
		}
		a.xgFor += p.XGFor
		a.xgConceded += p.XGConceded
		a.players[p.ID] = struct{}{}
	}

	result := make(map[string]schema.TeamStat, len(acc))
	for teamID, a := range acc {
		team := byID[teamID]
		n := float64(len(a.players))
		result[team.Name] = schema.TeamStat{
			ID:         team.ID,
			Name:       team.Name,
			XGFor:      a.xgFor / n,
			XGConceded: a.xgConceded / n,
		}
	}
	return result
}

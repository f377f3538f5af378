package algo

import (
	"sort"

	"github.com/huangsam/fdr/schema"
)

// BuildSchedules produces every registry team's next horizon fixtures from
// startGameweek, annotated with opponent tiers and ranked by average difficulty.
//
// The window is per team: the first horizon fixtures by kickoff, so two teams
// may span different gameweeks when postponements leave gaps. Teams without
// fixtures keep an average of 0. Schedules are returned in team id order.
func BuildSchedules(fixtures []schema.Fixture, teams []schema.Team, tiers TierMapping, horizon, startGameweek int) []schema.TeamSchedule {
	if horizon <= 0 {
		return []schema.TeamSchedule{}
	}

	registry := make([]schema.Team, len(teams))
	copy(registry, teams)
	sort.SliceStable(registry, func(i, j int) bool { return registry[i].ID < registry[j].ID })

	names := make(map[int]string, len(registry))
	for _, t := range registry {
		names[t.ID] = t.Name
	}

	upcoming := make([]schema.Fixture, 0, len(fixtures))
	for _, f := range fixtures {
		if f.Gameweek >= startGameweek {
			upcoming = append(upcoming, f)
		}
	}
	sortByKickoff(upcoming)

	schedules := make([]schema.TeamSchedule, len(registry))
	for i, team := range registry {
		schedules[i] = buildTeamSchedule(team, upcoming, names, tiers, horizon)
	}
	rankSchedules(schedules)
	return schedules
}

// buildTeamSchedule walks the kickoff-ordered fixtures for a single team.
func buildTeamSchedule(team schema.Team, upcoming []schema.Fixture, names map[int]string, tiers TierMapping, horizon int) schema.TeamSchedule {
	s := schema.TeamSchedule{
		TeamID:   team.ID,
		TeamName: team.Name,
		Fixtures: []schema.ScheduleFixture{},
	}
	attackSum, defenceSum := 0, 0
	for _, f := range upcoming {
		if len(s.Fixtures) == horizon {
			break
		}
		if !f.Involves(team.ID) {
			continue
		}
		isHome := f.HomeTeam == team.ID
		opponentID := f.AwayTeam
		if !isHome {
			opponentID = f.HomeTeam
		}
		sf := schema.ScheduleFixture{
			FixtureID:          f.ID,
			Event:              f.Gameweek,
			KickoffTime:        f.KickoffTime,
			OpponentID:         opponentID,
			IsHome:             isHome,
			OpponentAttackFDR:  schema.DefaultTier,
			OpponentDefenceFDR: schema.DefaultTier,
		}
		if name, ok := names[opponentID]; ok && name != "" {
			sf.OpponentName = name
			sf.OpponentAttackFDR = tiers.LookupTier(name, schema.AttackTier)
			sf.OpponentDefenceFDR = tiers.LookupTier(name, schema.DefenceTier)
		}
		attackSum += sf.OpponentAttackFDR
		defenceSum += sf.OpponentDefenceFDR
		s.Fixtures = append(s.Fixtures, sf)
	}
	if n := len(s.Fixtures); n > 0 {
		s.AverageAttackFDR = float64(attackSum) / float64(n)
		s.AverageDefenceFDR = float64(defenceSum) / float64(n)
	}
	return s
}

// sortByKickoff orders fixtures chronologically, then by gameweek and id.
func sortByKickoff(fixtures []schema.Fixture) {
	sort.SliceStable(fixtures, func(i, j int) bool {
		a, b := fixtures[i], fixtures[j]
		if !a.KickoffTime.Equal(b.KickoffTime) {
			return a.KickoffTime.Before(b.KickoffTime)
		}
		if a.Gameweek != b.Gameweek {
			return a.Gameweek < b.Gameweek
		}
		return a.ID < b.ID
	})
}

// rankSchedules stores 1-based ascending ranks for both averages.
// Equal averages keep their input order.
func rankSchedules(schedules []schema.TeamSchedule) {
	order := make([]int, len(schedules))
	for i := range order {
		order[i] = i
	}

	sort.SliceStable(order, func(i, j int) bool {
		return schedules[order[i]].AverageAttackFDR < schedules[order[j]].AverageAttackFDR
	})
	for rank, idx := range order {
		schedules[idx].AttackFDRRank = rank + 1
	}

	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return schedules[order[i]].AverageDefenceFDR < schedules[order[j]].AverageDefenceFDR
	})
	for rank, idx := range order {
		schedules[idx].DefenceFDRRank = rank + 1
	}
}

// SortSchedules returns a copy of schedules ordered by the chosen rank.
func SortSchedules(schedules []schema.TeamSchedule, by schema.RankBy) []schema.TeamSchedule {
	sorted := make([]schema.TeamSchedule, len(schedules))
	copy(sorted, schedules)
	sort.SliceStable(sorted, func(i, j int) bool {
		if by == schema.RankByDefence {
			return sorted[i].DefenceFDRRank < sorted[j].DefenceFDRRank
		}
		return sorted[i].AttackFDRRank < sorted[j].AttackFDRRank
	})
	return sorted
}

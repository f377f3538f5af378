// Package algo has the pure fixture difficulty algorithms.
package algo

import (
	"sort"

	"github.com/huangsam/fdr/schema"
)

// Home advantage adjustments. Away fixtures apply the negation.
const (
	ownHomeBoost      = 0.2
	opponentHomeShift = 0.1
)

// tierBase inverts an xG figure so that larger combined values mean harder fixtures.
const tierBase = 2.0

// ScoreToTier maps a combined score onto the shared 1..5 ladder.
func ScoreToTier(combined float64) int {
	switch {
	case combined >= 2.0:
		return 5
	case combined >= 1.5:
		return 4
	case combined >= 1.0:
		return 3
	case combined >= 0.5:
		return 2
	default:
		return 1
	}
}

// homeSign returns +1 at home and -1 away.
func homeSign(isHome bool) float64 {
	if isHome {
		return 1
	}
	return -1
}

// CalculateAttackFDR rates how hard it is for a team to score against an opponent.
func CalculateAttackFDR(teamXGFor, opponentXGConceded float64, isHome bool) int {
	sign := homeSign(isHome)
	adjXGFor := teamXGFor + sign*ownHomeBoost
	adjXGConceded := opponentXGConceded - sign*opponentHomeShift
	combined := (adjXGFor + (tierBase - adjXGConceded)) / 2
	return ScoreToTier(combined)
}

// CalculateDefenceFDR rates how hard it is for a team to stop an opponent scoring.
//
// Both terms are inverted and then scored on the attack ladder. The two scales
// are not known to be comparable; this is a modelling simplification.
func CalculateDefenceFDR(teamXGConceded, opponentXGFor float64, isHome bool) int {
	sign := homeSign(isHome)
	adjXGConceded := teamXGConceded - sign*ownHomeBoost
	adjXGFor := opponentXGFor - sign*opponentHomeShift
	combined := ((tierBase - adjXGConceded) + (tierBase - adjXGFor)) / 2
	return ScoreToTier(combined)
}

// fixtureRating is the four difficulty figures of one fixture.
type fixtureRating struct {
	homeAttack, homeDefence int
	awayAttack, awayDefence int
}

// rateFixture computes all four figures for a resolved fixture.
func rateFixture(home, away schema.TeamStat) fixtureRating {
	return fixtureRating{
		homeAttack:  CalculateAttackFDR(home.XGFor, away.XGConceded, true),
		homeDefence: CalculateDefenceFDR(home.XGConceded, away.XGFor, true),
		awayAttack:  CalculateAttackFDR(away.XGFor, home.XGConceded, false),
		awayDefence: CalculateDefenceFDR(away.XGConceded, home.XGFor, false),
	}
}

// resolveTeamPair is the single place where fixtures lacking statistics are dropped.
func resolveTeamPair(f schema.Fixture, stats map[int]schema.TeamStat) (home, away schema.TeamStat, ok bool) {
	home, okHome := stats[f.HomeTeam]
	away, okAway := stats[f.AwayTeam]
	if !okHome || !okAway {
		return schema.TeamStat{}, schema.TeamStat{}, false
	}
	return home, away, true
}

// CalculateGameweekFDR rates every fixture of exactly one gameweek.
// Fixtures with a participant missing from stats are skipped.
func CalculateGameweekFDR(fixtures []schema.Fixture, stats map[int]schema.TeamStat, gameweek int) schema.FDRLists {
	lists := schema.FDRLists{Attack: []schema.FDRResult{}, Defence: []schema.FDRResult{}}
	for _, f := range fixtures {
		if f.Gameweek != gameweek {
			continue
		}
		home, away, ok := resolveTeamPair(f, stats)
		if !ok {
			continue
		}
		r := rateFixture(home, away)
		homeResult := schema.FDRResult{
			Team: f.HomeTeam, TeamName: home.Name,
			Attack: float64(r.homeAttack), Defence: float64(r.homeDefence),
			Horizon: 1, HomeMatches: 1,
		}
		awayResult := schema.FDRResult{
			Team: f.AwayTeam, TeamName: away.Name,
			Attack: float64(r.awayAttack), Defence: float64(r.awayDefence),
			Horizon: 1,
		}
		lists.Attack = append(lists.Attack, homeResult, awayResult)
		lists.Defence = append(lists.Defence, homeResult, awayResult)
	}
	sortLists(&lists)
	return lists
}

// CalculateHorizonFDR averages fixture difficulty over gameweeks
// [startGameweek, startGameweek+horizon). Teams without fixtures in the
// window are absent from the result.
func CalculateHorizonFDR(fixtures []schema.Fixture, stats map[int]schema.TeamStat, horizon, startGameweek int) schema.FDRLists {
	lists := schema.FDRLists{Attack: []schema.FDRResult{}, Defence: []schema.FDRResult{}}
	if horizon <= 0 {
		return lists
	}
	endGameweek := startGameweek + horizon

	teamIDs := make([]int, 0, len(stats))
	for id := range stats {
		teamIDs = append(teamIDs, id)
	}
	sort.Ints(teamIDs)

	for _, teamID := range teamIDs {
		var attacks, defences []float64
		homeMatches := 0
		for _, f := range fixtures {
			if f.Gameweek < startGameweek || f.Gameweek >= endGameweek || !f.Involves(teamID) {
				continue
			}
			home, away, ok := resolveTeamPair(f, stats)
			if !ok {
				continue
			}
			r := rateFixture(home, away)
			if f.HomeTeam == teamID {
				attacks = append(attacks, float64(r.homeAttack))
				defences = append(defences, float64(r.homeDefence))
				homeMatches++
			} else {
				attacks = append(attacks, float64(r.awayAttack))
				defences = append(defences, float64(r.awayDefence))
			}
		}
		if len(attacks) == 0 {
			continue
		}
		attackMean := mean(attacks)
		result := schema.FDRResult{
			Team:        teamID,
			TeamName:    stats[teamID].Name,
			Attack:      attackMean,
			Defence:     mean(defences),
			Horizon:     horizon,
			Variance:    populationVariance(attacks, attackMean),
			HomeMatches: homeMatches,
		}
		lists.Attack = append(lists.Attack, result)
		lists.Defence = append(lists.Defence, result)
	}
	sortLists(&lists)
	return lists
}

// sortLists orders both lists easiest first, keeping input order on ties.
func sortLists(lists *schema.FDRLists) {
	sort.SliceStable(lists.Attack, func(i, j int) bool {
		return lists.Attack[i].Attack < lists.Attack[j].Attack
	})
	sort.SliceStable(lists.Defence, func(i, j int) bool {
		return lists.Defence[i].Defence < lists.Defence[j].Defence
	})
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// populationVariance is the mean of squared deviations from avg.
func populationVariance(values []float64, avg float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		d := v - avg
		sum += d * d
	}
	return sum / float64(len(values))
}

package algo

import (
	"testing"
	"time"

	"github.com/huangsam/fdr/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var kickoffBase = time.Date(2025, time.August, 16, 14, 0, 0, 0, time.UTC)

// kickoff returns a kickoff a whole number of days after the season opener.
func kickoff(days int) time.Time {
	return kickoffBase.AddDate(0, 0, days)
}

func scheduleTeams() []schema.Team {
	return []schema.Team{
		{ID: 3, Name: "Burnley"},
		{ID: 1, Name: "Arsenal"},
		{ID: 2, Name: "Chelsea"},
		{ID: 4, Name: "Brand New FC"},
	}
}

func findSchedule(t *testing.T, schedules []schema.TeamSchedule, teamID int) schema.TeamSchedule {
	t.Helper()
	for _, s := range schedules {
		if s.TeamID == teamID {
			return s
		}
	}
	require.Failf(t, "schedule not found", "team %d", teamID)
	return schema.TeamSchedule{}
}

func TestBuildSchedules(t *testing.T) {
	fixtures := []schema.Fixture{
		{ID: 30, Gameweek: 3, HomeTeam: 1, AwayTeam: 3, KickoffTime: kickoff(14)},
		{ID: 10, Gameweek: 1, HomeTeam: 1, AwayTeam: 2, KickoffTime: kickoff(0)},
		{ID: 20, Gameweek: 2, HomeTeam: 3, AwayTeam: 1, KickoffTime: kickoff(7)},
		{ID: 40, Gameweek: 4, HomeTeam: 2, AwayTeam: 1, KickoffTime: kickoff(21)},
	}

	schedules := BuildSchedules(fixtures, scheduleTeams(), DefaultTierMapping(), 3, 1)
	require.Len(t, schedules, 4, "every registry team gets an entry")
	for i, want := range []int{1, 2, 3, 4} {
		assert.Equal(t, want, schedules[i].TeamID, "schedules come back in team id order")
	}

	arsenal := findSchedule(t, schedules, 1)
	require.Len(t, arsenal.Fixtures, 3, "capped at horizon")
	assert.Equal(t, []int{10, 20, 30}, []int{arsenal.Fixtures[0].FixtureID, arsenal.Fixtures[1].FixtureID, arsenal.Fixtures[2].FixtureID})
	for i := 1; i < len(arsenal.Fixtures); i++ {
		assert.False(t, arsenal.Fixtures[i].KickoffTime.Before(arsenal.Fixtures[i-1].KickoffTime))
	}

	first := arsenal.Fixtures[0]
	assert.True(t, first.IsHome)
	assert.Equal(t, 2, first.OpponentID)
	assert.Equal(t, "Chelsea", first.OpponentName)
	assert.Equal(t, 4, first.OpponentAttackFDR)
	assert.Equal(t, 5, first.OpponentDefenceFDR)
	assert.False(t, arsenal.Fixtures[1].IsHome)

	// Opponents: Chelsea (4/5), Burnley (1/1), Burnley (1/1).
	assert.InDelta(t, 2.0, arsenal.AverageAttackFDR, 1e-9)
	assert.InDelta(t, 7.0/3.0, arsenal.AverageDefenceFDR, 1e-9)
}

func TestBuildSchedulesUnknownOpponent(t *testing.T) {
	fixtures := []schema.Fixture{
		{ID: 1, Gameweek: 1, HomeTeam: 1, AwayTeam: 99, KickoffTime: kickoff(0)},
		{ID: 2, Gameweek: 2, HomeTeam: 4, AwayTeam: 1, KickoffTime: kickoff(7)},
	}

	schedules := BuildSchedules(fixtures, scheduleTeams(), DefaultTierMapping(), 5, 1)
	arsenal := findSchedule(t, schedules, 1)
	require.Len(t, arsenal.Fixtures, 2)

	unresolved := arsenal.Fixtures[0]
	assert.Equal(t, 99, unresolved.OpponentID)
	assert.Empty(t, unresolved.OpponentName)
	assert.Equal(t, schema.DefaultTier, unresolved.OpponentAttackFDR)
	assert.Equal(t, schema.DefaultTier, unresolved.OpponentDefenceFDR)

	unknown := arsenal.Fixtures[1]
	assert.Equal(t, "Brand New FC", unknown.OpponentName)
	assert.Equal(t, schema.DefaultTier, unknown.OpponentAttackFDR)
}

// TestBuildSchedulesNoFixtures covers a team whose season ended before the window.
func TestBuildSchedulesNoFixtures(t *testing.T) {
	fixtures := []schema.Fixture{
		{ID: 1, Gameweek: 34, HomeTeam: 1, AwayTeam: 2, KickoffTime: kickoff(240)},
		{ID: 2, Gameweek: 36, HomeTeam: 3, AwayTeam: 2, KickoffTime: kickoff(254)},
	}

	schedules := BuildSchedules(fixtures, scheduleTeams(), DefaultTierMapping(), 5, 36)
	arsenal := findSchedule(t, schedules, 1)

	assert.NotNil(t, arsenal.Fixtures)
	assert.Empty(t, arsenal.Fixtures)
	assert.Zero(t, arsenal.AverageAttackFDR)
	assert.Zero(t, arsenal.AverageDefenceFDR)

	chelsea := findSchedule(t, schedules, 2)
	require.Len(t, chelsea.Fixtures, 1)
	assert.Equal(t, 36, chelsea.Fixtures[0].Event)
}

// TestBuildSchedulesPerTeamWindow checks that the window counts fixtures,
// not gameweeks, so a blank gameweek pulls a later fixture in.
func TestBuildSchedulesPerTeamWindow(t *testing.T) {
	fixtures := []schema.Fixture{
		{ID: 1, Gameweek: 10, HomeTeam: 1, AwayTeam: 2, KickoffTime: kickoff(70)},
		{ID: 2, Gameweek: 10, HomeTeam: 3, AwayTeam: 4, KickoffTime: kickoff(70)},
		// Arsenal blank in gameweek 11.
		{ID: 3, Gameweek: 11, HomeTeam: 2, AwayTeam: 3, KickoffTime: kickoff(77)},
		{ID: 4, Gameweek: 12, HomeTeam: 4, AwayTeam: 1, KickoffTime: kickoff(84)},
		{ID: 5, Gameweek: 12, HomeTeam: 3, AwayTeam: 2, KickoffTime: kickoff(84)},
	}

	schedules := BuildSchedules(fixtures, scheduleTeams(), DefaultTierMapping(), 2, 10)

	arsenal := findSchedule(t, schedules, 1)
	require.Len(t, arsenal.Fixtures, 2)
	assert.Equal(t, 10, arsenal.Fixtures[0].Event)
	assert.Equal(t, 12, arsenal.Fixtures[1].Event)

	chelsea := findSchedule(t, schedules, 2)
	require.Len(t, chelsea.Fixtures, 2)
	assert.Equal(t, 10, chelsea.Fixtures[0].Event)
	assert.Equal(t, 11, chelsea.Fixtures[1].Event)
}

func TestBuildSchedulesKickoffTieBreak(t *testing.T) {
	same := kickoff(30)
	fixtures := []schema.Fixture{
		{ID: 9, Gameweek: 6, HomeTeam: 1, AwayTeam: 3, KickoffTime: same},
		{ID: 7, Gameweek: 5, HomeTeam: 2, AwayTeam: 1, KickoffTime: same},
	}

	schedules := BuildSchedules(fixtures, scheduleTeams(), DefaultTierMapping(), 1, 1)
	arsenal := findSchedule(t, schedules, 1)
	require.Len(t, arsenal.Fixtures, 1)
	assert.Equal(t, 7, arsenal.Fixtures[0].FixtureID, "earlier gameweek wins a kickoff tie")
}

// TestBuildSchedulesStableRanking gives two teams identical averages and
// checks they keep their registry order in the ranks.
func TestBuildSchedulesStableRanking(t *testing.T) {
	teams := []schema.Team{
		{ID: 1, Name: "Alpha"},
		{ID: 2, Name: "Beta"},
		{ID: 3, Name: "Easy Opponent"},
		{ID: 4, Name: "Gamma"},
	}
	tiers, err := NewTierMapping(
		schema.TierBuckets{1: {"Easy Opponent"}, 3: {"Gamma"}},
		schema.TierBuckets{},
	)
	require.NoError(t, err)

	// Gamma opens against Easy Opponent (1.0); everyone else faces Gamma (3.0).
	fixtures := []schema.Fixture{
		{ID: 1, Gameweek: 1, HomeTeam: 3, AwayTeam: 4, KickoffTime: kickoff(0)},
		{ID: 2, Gameweek: 2, HomeTeam: 1, AwayTeam: 4, KickoffTime: kickoff(7)},
		{ID: 3, Gameweek: 3, HomeTeam: 4, AwayTeam: 2, KickoffTime: kickoff(14)},
	}

	schedules := BuildSchedules(fixtures, teams, tiers, 1, 1)
	alpha := findSchedule(t, schedules, 1)
	beta := findSchedule(t, schedules, 2)
	easy := findSchedule(t, schedules, 3)
	gamma := findSchedule(t, schedules, 4)

	assert.InDelta(t, 3.0, alpha.AverageAttackFDR, 1e-9)
	assert.InDelta(t, 3.0, beta.AverageAttackFDR, 1e-9)
	assert.InDelta(t, 3.0, easy.AverageAttackFDR, 1e-9)
	assert.InDelta(t, 1.0, gamma.AverageAttackFDR, 1e-9)

	assert.Equal(t, 1, gamma.AttackFDRRank)
	assert.Equal(t, 2, alpha.AttackFDRRank, "ties keep input order")
	assert.Equal(t, 3, beta.AttackFDRRank)
	assert.Equal(t, 4, easy.AttackFDRRank)
}

func TestBuildSchedulesNonPositiveHorizon(t *testing.T) {
	fixtures := []schema.Fixture{{ID: 1, Gameweek: 1, HomeTeam: 1, AwayTeam: 2, KickoffTime: kickoff(0)}}
	assert.Empty(t, BuildSchedules(fixtures, scheduleTeams(), DefaultTierMapping(), 0, 1))
}

func TestSortSchedules(t *testing.T) {
	schedules := []schema.TeamSchedule{
		{TeamID: 1, AttackFDRRank: 2, DefenceFDRRank: 1},
		{TeamID: 2, AttackFDRRank: 1, DefenceFDRRank: 2},
	}

	byAttack := SortSchedules(schedules, schema.RankByAttack)
	assert.Equal(t, 2, byAttack[0].TeamID)

	byDefence := SortSchedules(schedules, schema.RankByDefence)
	assert.Equal(t, 1, byDefence[0].TeamID)

	assert.Equal(t, 1, schedules[0].TeamID, "input is left untouched")
}

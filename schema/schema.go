// Package schema has the models shared by every layer of fdr.
package schema

import "time"

// Placeholder statistics assigned to promoted teams during data preparation.
// Promoted sides have no top-flight history, so they are assumed bottom-tier.
const (
	PromotedXGFor      = 0.0
	PromotedXGConceded = 2.0
)

// Origins of a TeamStat row in the normalized statistics file.
// Rows without a source were placed there by hand.
const (
	StatSourceSupplied    = "supplied"
	StatSourceDerived     = "derived"
	StatSourcePlaceholder = "placeholder"
)

// TeamStat holds the expected-goals profile of a single team.
// Stats are keyed by team display name in the statistics store.
type TeamStat struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	Rank          int     `json:"rank"`
	MatchesPlayed int     `json:"matchesPlayed"`
	XGFor         float64 `json:"xGFor"`      // Expected goals scored per match
	XGConceded    float64 `json:"xGConceded"` // Expected goals conceded per match
	Promoted      bool    `json:"promoted"`
	Source        string  `json:"source,omitempty"`
}

// Fixture is a single scheduled match between two registry teams.
type Fixture struct {
	ID          int       `json:"id"`
	Gameweek    int       `json:"event"`
	HomeTeam    int       `json:"homeTeam"`
	AwayTeam    int       `json:"awayTeam"`
	KickoffTime time.Time `json:"kickoffTime"`
	Finished    bool      `json:"finished"`
}

// Involves reports whether the given team plays in the fixture.
func (f Fixture) Involves(teamID int) bool {
	return f.HomeTeam == teamID || f.AwayTeam == teamID
}

// Team is an entry of the team registry.
type Team struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
}

// Event is a gameweek of the season calendar.
type Event struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Deadline  time.Time `json:"deadline"`
	Finished  bool      `json:"finished"`
	IsCurrent bool      `json:"isCurrent"`
	IsNext    bool      `json:"isNext"`
}

// PlayerStat holds per-player expected-goals figures, normalized per 90 minutes.
type PlayerStat struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Team       int     `json:"team"`
	Minutes    int     `json:"minutes"`
	XGFor      float64 `json:"xGFor"`      // Expected goals per 90
	XGConceded float64 `json:"xGConceded"` // Expected goals conceded per 90 while on the pitch
}

// FDRResult is the difficulty of a team's fixtures over a window.
// For a single fixture Attack and Defence are integral tiers; over a
// horizon they are the arithmetic mean of those tiers.
type FDRResult struct {
	Team        int     `json:"team"`
	TeamName    string  `json:"teamName"`
	Attack      float64 `json:"attack"`
	Defence     float64 `json:"defence"`
	Horizon     int     `json:"horizon"`
	Variance    float64 `json:"variance"` // Population variance of attack tiers
	HomeMatches int     `json:"homeMatches"`
}

// FDRLists holds the attack and defence views of a calculation, each sorted easiest first.
type FDRLists struct {
	Attack  []FDRResult `json:"attack"`
	Defence []FDRResult `json:"defence"`
}

// ScheduleFixture is one upcoming fixture annotated with opponent tiers.
type ScheduleFixture struct {
	FixtureID          int       `json:"fixtureId"`
	Event              int       `json:"event"`
	KickoffTime        time.Time `json:"kickoffTime"`
	OpponentID         int       `json:"opponentId"`
	OpponentName       string    `json:"opponentName"`
	IsHome             bool      `json:"isHome"`
	OpponentAttackFDR  int       `json:"opponentAttackFDR"`
	OpponentDefenceFDR int       `json:"opponentDefenceFDR"`
}

// TeamSchedule is the upcoming window for one team.
// An average of 0 means the team has no fixtures in the window.
type TeamSchedule struct {
	TeamID            int               `json:"teamId"`
	TeamName          string            `json:"teamName"`
	Fixtures          []ScheduleFixture `json:"fixtures"`
	AverageAttackFDR  float64           `json:"averageAttackFDR"`
	AverageDefenceFDR float64           `json:"averageDefenceFDR"`
	AttackFDRRank     int               `json:"attackFDRRank"`
	DefenceFDRRank    int               `json:"defenceFDRRank"`
}

// TierBuckets maps a tier (1..5) to the team names in it.
type TierBuckets map[int][]string

// TierTable is the serializable shape of a tier mapping.
type TierTable struct {
	Attack  TierBuckets `json:"attack"`
	Defence TierBuckets `json:"defence"`
}

// TierLookup is the answer to a single tier query.
type TierLookup struct {
	Team string   `json:"team"`
	Kind TierKind `json:"kind"`
	Tier int      `json:"tier"`
}

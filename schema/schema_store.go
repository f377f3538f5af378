package schema

import "time"

// RunParams describes the inputs of a calculation run.
type RunParams struct {
	Kind          RunKind `json:"kind"`
	StartGameweek int     `json:"start_gameweek"`
	Horizon       int     `json:"horizon"`
	DataDir       string  `json:"data_dir"`
}

// TeamRating is a single team's outcome within a run.
// Ranks are 1-based positions in the attack and defence views.
type TeamRating struct {
	TeamID      int
	TeamName    string
	Attack      float64
	Defence     float64
	Variance    float64
	HomeMatches int
	AttackRank  int
	DefenceRank int
}

// AnalysisRunRecord represents a row from the fdr_runs table.
type AnalysisRunRecord struct {
	RunID         int64
	RunKind       string
	StartGameweek int32
	Horizon       int32
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	TotalTeams    int32
	ConfigParams  *string
}

// TeamRatingRecord represents a row from the fdr_team_ratings table.
type TeamRatingRecord struct {
	RunID       int64
	TeamID      int32
	TeamName    string
	RatedAt     time.Time
	Attack      float64
	Defence     float64
	Variance    float64
	HomeMatches int32
	AttackRank  int32
	DefenceRank int32
	AttackLabel string
}

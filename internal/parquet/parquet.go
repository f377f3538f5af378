// Package parquet provides data structures and functions for exporting fdr
// runs and results to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/fdr/schema"
	"github.com/parquet-go/parquet-go"
)

// Run represents a single calculation run with metadata.
// This struct maps to the fdr_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// RunKind is gameweek, horizon or schedule
	RunKind string `parquet:"run_kind,snappy,dict"`

	StartGameweek int32 `parquet:"start_gameweek,snappy"`
	Horizon       int32 `parquet:"horizon,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	TotalTeams int32 `parquet:"total_teams,snappy"`

	// ConfigParams contains the JSON-encoded run parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// TeamRating is one team's outcome within a run.
// This struct maps to the fdr_team_ratings database table.
type TeamRating struct {
	RunID       int64     `parquet:"run_id,snappy"`
	TeamID      int32     `parquet:"team_id,snappy"`
	TeamName    string    `parquet:"team_name,snappy,dict"`
	RatedAt     time.Time `parquet:"rated_at,snappy"`
	Attack      float64   `parquet:"attack,snappy"`
	Defence     float64   `parquet:"defence,snappy"`
	Variance    float64   `parquet:"variance,snappy"`
	HomeMatches int32     `parquet:"home_matches,snappy"`
	AttackRank  int32     `parquet:"attack_rank,snappy"`
	DefenceRank int32     `parquet:"defence_rank,snappy"`
	AttackLabel string    `parquet:"attack_label,snappy,dict"`
}

// FDRRow is one entry of an attack or defence list.
type FDRRow struct {
	View         string  `parquet:"view,snappy,dict"`
	Rank         int32   `parquet:"rank,snappy"`
	TeamID       int32   `parquet:"team_id,snappy"`
	TeamName     string  `parquet:"team_name,snappy,dict"`
	Attack       float64 `parquet:"attack,snappy"`
	Defence      float64 `parquet:"defence,snappy"`
	Horizon      int32   `parquet:"horizon,snappy"`
	Variance     float64 `parquet:"variance,snappy"`
	HomeMatches  int32   `parquet:"home_matches,snappy"`
	AttackLabel  string  `parquet:"attack_label,snappy,dict"`
	DefenceLabel string  `parquet:"defence_label,snappy,dict"`
}

// ScheduleRow flattens a team schedule to one row per fixture.
// A team without fixtures yields a single row with the fixture columns null.
type ScheduleRow struct {
	TeamID            int32      `parquet:"team_id,snappy"`
	TeamName          string     `parquet:"team_name,snappy,dict"`
	AverageAttackFDR  float64    `parquet:"average_attack_fdr,snappy"`
	AverageDefenceFDR float64    `parquet:"average_defence_fdr,snappy"`
	AttackFDRRank     int32      `parquet:"attack_fdr_rank,snappy"`
	DefenceFDRRank    int32      `parquet:"defence_fdr_rank,snappy"`
	FixtureID         *int64     `parquet:"fixture_id,optional,snappy"`
	Event             *int32     `parquet:"event,optional,snappy"`
	KickoffTime       *time.Time `parquet:"kickoff_time,optional,snappy"`
	OpponentName      *string    `parquet:"opponent_name,optional,snappy"`
	IsHome            *bool      `parquet:"is_home,optional"`
	OpponentAttack    *int32     `parquet:"opponent_attack_fdr,optional,snappy"`
	OpponentDefence   *int32     `parquet:"opponent_defence_fdr,optional,snappy"`
}

// WriteRows encodes rows to w, deriving the schema from T's struct tags.
func WriteRows[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// writeFile creates outputPath and writes rows into it.
func writeFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := WriteRows(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteTeamRatingsParquet writes a slice of TeamRating structs to a Parquet file.
func WriteTeamRatingsParquet(data []TeamRating, outputPath string) error {
	return writeFile(data, outputPath)
}

// ConvertRunRecords converts schema.AnalysisRunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.AnalysisRunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:         record.RunID,
			RunKind:       record.RunKind,
			StartGameweek: record.StartGameweek,
			Horizon:       record.Horizon,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			TotalTeams:    record.TotalTeams,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertTeamRatingRecords converts schema.TeamRatingRecord to TeamRating for Parquet export.
func ConvertTeamRatingRecords(records []schema.TeamRatingRecord) []TeamRating {
	result := make([]TeamRating, len(records))
	for i, record := range records {
		result[i] = TeamRating{
			RunID:       record.RunID,
			TeamID:      record.TeamID,
			TeamName:    record.TeamName,
			RatedAt:     record.RatedAt,
			Attack:      record.Attack,
			Defence:     record.Defence,
			Variance:    record.Variance,
			HomeMatches: record.HomeMatches,
			AttackRank:  record.AttackRank,
			DefenceRank: record.DefenceRank,
			AttackLabel: record.AttackLabel,
		}
	}
	return result
}

// ConvertFDRLists flattens both views of a calculation into rows, attack first.
func ConvertFDRLists(lists schema.FDRLists) []FDRRow {
	rows := make([]FDRRow, 0, len(lists.Attack)+len(lists.Defence))
	rows = appendFDRRows(rows, schema.AttackTier, lists.Attack)
	rows = appendFDRRows(rows, schema.DefenceTier, lists.Defence)
	return rows
}

func appendFDRRows(rows []FDRRow, view schema.TierKind, results []schema.FDRResult) []FDRRow {
	for _, r := range schema.EnrichFDR(results) {
		rows = append(rows, FDRRow{
			View:         string(view),
			Rank:         int32(r.Rank),
			TeamID:       int32(r.Team),
			TeamName:     r.TeamName,
			Attack:       r.Attack,
			Defence:      r.Defence,
			Horizon:      int32(r.Horizon),
			Variance:     r.Variance,
			HomeMatches:  int32(r.HomeMatches),
			AttackLabel:  r.AttackLabel,
			DefenceLabel: r.DefenceLabel,
		})
	}
	return rows
}

// ConvertSchedules flattens team schedules into one row per fixture.
func ConvertSchedules(schedules []schema.TeamSchedule) []ScheduleRow {
	rows := make([]ScheduleRow, 0, len(schedules))
	for _, s := range schedules {
		base := ScheduleRow{
			TeamID:            int32(s.TeamID),
			TeamName:          s.TeamName,
			AverageAttackFDR:  s.AverageAttackFDR,
			AverageDefenceFDR: s.AverageDefenceFDR,
			AttackFDRRank:     int32(s.AttackFDRRank),
			DefenceFDRRank:    int32(s.DefenceFDRRank),
		}
		if len(s.Fixtures) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, f := range s.Fixtures {
			row := base
			fixtureID := int64(f.FixtureID)
			event := int32(f.Event)
			kickoff := f.KickoffTime
			opponent := f.OpponentName
			isHome := f.IsHome
			attack := int32(f.OpponentAttackFDR)
			defence := int32(f.OpponentDefenceFDR)
			row.FixtureID = &fixtureID
			row.Event = &event
			row.KickoffTime = &kickoff
			row.OpponentName = &opponent
			row.IsHome = &isHome
			row.OpponentAttack = &attack
			row.OpponentDefence = &defence
			rows = append(rows, row)
		}
	}
	return rows
}

package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/fdr/internal/contract"
	"github.com/huangsam/fdr/schema"
)

// Table names for analysis tracking.
const (
	runsTable        = "fdr_runs"
	teamRatingsTable = "fdr_team_ratings"
)

// analysisTables lists the analysis tables, children first so drops succeed.
var analysisTables = []string{teamRatingsTable, runsTable}

// AnalysisStoreImpl implements the AnalysisStore interface.
type AnalysisStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	now     func() time.Time
}

var _ contract.AnalysisStore = &AnalysisStoreImpl{} // Compile-time check

// NewAnalysisStore creates a new AnalysisStore with the specified backend.
func NewAnalysisStore(backend schema.DatabaseBackend, connStr string) (contract.AnalysisStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &AnalysisStoreImpl{backend: backend, now: time.Now}, nil
	}

	db, err := openDB(backend, connStr, GetAnalysisDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createAnalysisTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create analysis tables: %w", err)
	}

	return &AnalysisStoreImpl{db: db, backend: backend, now: time.Now}, nil
}

// createAnalysisTables creates the analysis tracking tables.
func createAnalysisTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{runsTable, getCreateRunsQuery(backend)},
		{teamRatingsTable, getCreateTeamRatingsQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for fdr_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				run_kind VARCHAR(20) NOT NULL,
				start_gameweek INT NOT NULL,
				horizon INT NOT NULL,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				total_teams INT,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				run_kind TEXT NOT NULL,
				start_gameweek INT NOT NULL,
				horizon INT NOT NULL,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				total_teams INT,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				run_kind TEXT NOT NULL,
				start_gameweek INTEGER NOT NULL,
				horizon INTEGER NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				total_teams INTEGER,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateTeamRatingsQuery returns the CREATE TABLE query for fdr_team_ratings.
func getCreateTeamRatingsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(teamRatingsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				team_id INT NOT NULL,
				team_name VARCHAR(100) NOT NULL,
				rated_at DATETIME(6) NOT NULL,
				attack DOUBLE NOT NULL,
				defence DOUBLE NOT NULL,
				variance DOUBLE NOT NULL,
				home_matches INT NOT NULL,
				attack_rank INT NOT NULL,
				defence_rank INT NOT NULL,
				attack_label VARCHAR(20) NOT NULL,
				PRIMARY KEY (run_id, team_id)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				team_id INT NOT NULL,
				team_name TEXT NOT NULL,
				rated_at TIMESTAMPTZ NOT NULL,
				attack DOUBLE PRECISION NOT NULL,
				defence DOUBLE PRECISION NOT NULL,
				variance DOUBLE PRECISION NOT NULL,
				home_matches INT NOT NULL,
				attack_rank INT NOT NULL,
				defence_rank INT NOT NULL,
				attack_label TEXT NOT NULL,
				PRIMARY KEY (run_id, team_id)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				team_id INTEGER NOT NULL,
				team_name TEXT NOT NULL,
				rated_at TEXT NOT NULL,
				attack REAL NOT NULL,
				defence REAL NOT NULL,
				variance REAL NOT NULL,
				home_matches INTEGER NOT NULL,
				attack_rank INTEGER NOT NULL,
				defence_rank INTEGER NOT NULL,
				attack_label TEXT NOT NULL,
				PRIMARY KEY (run_id, team_id)
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new run and returns its unique ID.
func (as *AnalysisStoreImpl) BeginRun(startTime time.Time, params schema.RunParams) (int64, error) {
	if as.backend == schema.NoneBackend || as.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(params)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal run params: %w", err)
	}

	quotedTableName := quoteTableName(runsTable, as.backend)
	values := strings.Join(placeholders(as.backend, 5), ", ")
	args := []any{string(params.Kind), params.StartGameweek, params.Horizon, formatTime(startTime, as.backend), string(configJSON)}

	var runID int64
	switch as.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (run_kind, start_gameweek, horizon, start_time, config_params) VALUES (%s) RETURNING run_id`,
			quotedTableName, values)
		err = as.db.QueryRow(query, args...).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (run_kind, start_gameweek, horizon, start_time, config_params) VALUES (%s)`,
			quotedTableName, values)
		var result sql.Result
		result, err = as.db.Exec(query, args...)
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// RecordTeamRatings stores the per-team outcome of a run in one transaction.
func (as *AnalysisStoreImpl) RecordTeamRatings(runID int64, ratings []schema.TeamRating) error {
	if as.backend == schema.NoneBackend || as.db == nil || len(ratings) == 0 {
		return nil
	}

	tx, err := as.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := fmt.Sprintf(`
		INSERT INTO %s (run_id, team_id, team_name, rated_at, attack, defence, variance,
		                home_matches, attack_rank, defence_rank, attack_label)
		VALUES (%s)
	`, quoteTableName(teamRatingsTable, as.backend), strings.Join(placeholders(as.backend, 11), ", "))
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare team rating insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	ratedAt := formatTime(as.now(), as.backend)
	for _, r := range ratings {
		if _, err := stmt.Exec(
			runID, r.TeamID, r.TeamName, ratedAt, r.Attack, r.Defence, r.Variance,
			r.HomeMatches, r.AttackRank, r.DefenceRank, contract.GetPlainLabel(r.Attack),
		); err != nil {
			return fmt.Errorf("failed to insert rating for team %d: %w", r.TeamID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit team ratings: %w", err)
	}
	return nil
}

// EndRun updates the run with completion data.
func (as *AnalysisStoreImpl) EndRun(runID int64, endTime time.Time, totalTeams int) error {
	if as.backend == schema.NoneBackend || as.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(runsTable, as.backend)
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, placeholders(as.backend, 1)[0])
	startTime, err := as.scanTime(as.db.QueryRow(query, runID))
	if err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()

	p := placeholders(as.backend, 4)
	updateQuery := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, total_teams = %s WHERE run_id = %s`,
		quotedTableName, p[0], p[1], p[2], p[3])
	if _, err := as.db.Exec(updateQuery, formatTime(endTime, as.backend), durationMs, totalTeams, runID); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// scanTime reads a single timestamp column in the backend's storage format.
func (as *AnalysisStoreImpl) scanTime(row *sql.Row) (time.Time, error) {
	if as.backend == schema.SQLiteBackend {
		var s string
		if err := row.Scan(&s); err != nil {
			return time.Time{}, err
		}
		return parseTime(s)
	}
	var t time.Time
	err := row.Scan(&t)
	return t, err
}

// Close closes the underlying connection.
func (as *AnalysisStoreImpl) Close() error {
	if as.db != nil {
		return as.db.Close()
	}
	return nil
}

// GetStatus returns status information about the analysis store.
func (as *AnalysisStoreImpl) GetStatus() (schema.AnalysisStatus, error) {
	status := schema.AnalysisStatus{
		Backend:    string(as.backend),
		Connected:  as.db != nil,
		TableSizes: make(map[string]int64),
	}

	if as.backend == schema.NoneBackend || as.db == nil {
		return status, nil
	}

	quotedRuns := quoteTableName(runsTable, as.backend)
	if err := as.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedRuns)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		lastRunQuery := fmt.Sprintf("SELECT run_id FROM %s ORDER BY run_id DESC LIMIT 1", quotedRuns)
		if err := as.db.QueryRow(lastRunQuery).Scan(&status.LastRunID); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}

		lastTime, err := as.scanTime(as.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id DESC LIMIT 1", quotedRuns)))
		if err != nil {
			return status, fmt.Errorf("failed to get last run time: %w", err)
		}
		status.LastRunTime = lastTime

		oldestTime, err := as.scanTime(as.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", quotedRuns)))
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldestTime

		teamsQuery := fmt.Sprintf("SELECT COALESCE(SUM(total_teams), 0) FROM %s", quotedRuns)
		if err := as.db.QueryRow(teamsQuery).Scan(&status.TotalTeamsRated); err != nil {
			return status, fmt.Errorf("failed to get total teams rated: %w", err)
		}
	}

	for _, table := range []string{runsTable, teamRatingsTable} {
		var count int64
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, as.backend))
		if err := as.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllRuns retrieves every recorded run ordered by id.
func (as *AnalysisStoreImpl) GetAllRuns() ([]schema.AnalysisRunRecord, error) {
	if as.backend == schema.NoneBackend || as.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, run_kind, start_gameweek, horizon, start_time, end_time,
		run_duration_ms, total_teams, config_params FROM %s ORDER BY run_id`, quoteTableName(runsTable, as.backend))
	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.AnalysisRunRecord
	for rows.Next() {
		var record schema.AnalysisRunRecord
		var totalTeams *int32

		switch as.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr *string
			if err := rows.Scan(&record.RunID, &record.RunKind, &record.StartGameweek, &record.Horizon,
				&startTimeStr, &endTimeStr, &record.RunDurationMs, &totalTeams, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
			if record.StartTime, err = parseTime(startTimeStr); err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			if endTimeStr != nil {
				endTime, err := parseTime(*endTimeStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &record.RunKind, &record.StartGameweek, &record.Horizon,
				&record.StartTime, &record.EndTime, &record.RunDurationMs, &totalTeams, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
		}
		if totalTeams != nil {
			record.TotalTeams = *totalTeams
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetAllTeamRatings retrieves every recorded team rating ordered by run and team.
func (as *AnalysisStoreImpl) GetAllTeamRatings() ([]schema.TeamRatingRecord, error) {
	if as.backend == schema.NoneBackend || as.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, team_id, team_name, rated_at, attack, defence, variance,
		home_matches, attack_rank, defence_rank, attack_label
		FROM %s ORDER BY run_id, team_id`, quoteTableName(teamRatingsTable, as.backend))
	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query team ratings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.TeamRatingRecord
	for rows.Next() {
		var record schema.TeamRatingRecord

		switch as.backend {
		case schema.SQLiteBackend:
			var ratedAtStr string
			if err := rows.Scan(&record.RunID, &record.TeamID, &record.TeamName, &ratedAtStr,
				&record.Attack, &record.Defence, &record.Variance, &record.HomeMatches,
				&record.AttackRank, &record.DefenceRank, &record.AttackLabel); err != nil {
				return nil, fmt.Errorf("failed to scan team rating: %w", err)
			}
			if record.RatedAt, err = parseTime(ratedAtStr); err != nil {
				return nil, fmt.Errorf("failed to parse rated_at: %w", err)
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &record.TeamID, &record.TeamName, &record.RatedAt,
				&record.Attack, &record.Defence, &record.Variance, &record.HomeMatches,
				&record.AttackRank, &record.DefenceRank, &record.AttackLabel); err != nil {
				return nil, fmt.Errorf("failed to scan team rating: %w", err)
			}
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team ratings: %w", err)
	}
	return results, nil
}

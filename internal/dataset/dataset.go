// Package dataset loads and writes the normalized files that feed every calculation.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/huangsam/fdr/core/algo"
	"github.com/huangsam/fdr/internal/contract"
	"github.com/huangsam/fdr/schema"
)

// Normalized file names inside a data directory.
const (
	TeamsFile     = "teams.json"
	FixturesFile  = "fixtures.json"
	EventsFile    = "events.json"
	TeamStatsFile = "team_stats.json"
	PlayersFile   = "players.json"
	RawDir        = "raw"
)

// SuppliedStatsFile holds externally sourced statistics; only users write it.
const SuppliedStatsFile = "team_stats.supplied.json"

// Dataset is an immutable snapshot of one data directory.
type Dataset struct {
	Teams    []schema.Team
	Fixtures []schema.Fixture
	Events   []schema.Event
	Stats    map[string]schema.TeamStat // keyed by display name
	Players  []schema.PlayerStat
}

// Load reads every normalized file from dir. Teams and fixtures are required;
// the rest are optional and come back empty when missing.
func Load(dir string) (*Dataset, error) {
	d := &Dataset{Stats: map[string]schema.TeamStat{}}

	if err := readJSON(filepath.Join(dir, TeamsFile), &d.Teams, true); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, FixturesFile), &d.Fixtures, true); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, EventsFile), &d.Events, false); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, TeamStatsFile), &d.Stats, false); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, PlayersFile), &d.Players, false); err != nil {
		return nil, err
	}
	if d.Stats == nil {
		d.Stats = map[string]schema.TeamStat{}
	}
	return d, nil
}

// readJSON decodes path into v. A missing optional file leaves v untouched.
func readJSON(path string, v any, required bool) error {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if required {
			return fmt.Errorf("%w: %s", contract.ErrDatasetMissing, path)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

// StatsByTeamID keys team statistics by registry id.
// When no team statistics were supplied, figures derived from players are used.
func (d *Dataset) StatsByTeamID() map[int]schema.TeamStat {
	stats := d.Stats
	if len(stats) == 0 && len(d.Players) > 0 {
		stats = algo.TeamStatsFromPlayers(d.Players, d.Teams)
	}
	return algo.ResolveTeamStats(d.Teams, stats)
}

// TeamsByID indexes the registry.
func (d *Dataset) TeamsByID() map[int]schema.Team {
	byID := make(map[int]schema.Team, len(d.Teams))
	for _, t := range d.Teams {
		byID[t.ID] = t
	}
	return byID
}

// TeamByName finds a registry team by name or short name, ignoring case.
func (d *Dataset) TeamByName(name string) (schema.Team, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return schema.Team{}, false
	}
	for _, t := range d.Teams {
		if strings.EqualFold(t.Name, name) || strings.EqualFold(t.ShortName, name) {
			return t, true
		}
	}
	return schema.Team{}, false
}

// NextGameweek returns the gameweek calculations default to: the event flagged
// next, else the earliest gameweek with an unfinished fixture, else 1.
func (d *Dataset) NextGameweek() int {
	for _, e := range d.Events {
		if e.IsNext {
			return e.ID
		}
	}
	next := 0
	for _, f := range d.Fixtures {
		if f.Finished || f.Gameweek < 1 {
			continue
		}
		if next == 0 || f.Gameweek < next {
			next = f.Gameweek
		}
	}
	if next == 0 {
		return 1
	}
	return next
}

// FixturesIn returns the fixtures of one gameweek in kickoff order.
func (d *Dataset) FixturesIn(gameweek int) []schema.Fixture {
	out := make([]schema.Fixture, 0)
	for _, f := range d.Fixtures {
		if f.Gameweek == gameweek {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].KickoffTime.Equal(out[j].KickoffTime) {
			return out[i].KickoffTime.Before(out[j].KickoffTime)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// PlayersOf returns the players attributed to a team.
func (d *Dataset) PlayersOf(teamID int) []schema.PlayerStat {
	out := make([]schema.PlayerStat, 0)
	for _, p := range d.Players {
		if p.Team == teamID {
			out = append(out, p)
		}
	}
	return out
}

// LoadSuppliedStats returns the team statistics supplied from outside the
// upstream API. They live in SuppliedStatsFile, which fdr never rewrites.
// Hand-placed rows found in TeamStatsFile, those without a source, are moved
// there on first use so later refreshes do not mistake their own output for input.
// A directory without supplied statistics yields an empty map.
func LoadSuppliedStats(dir string) (map[string]schema.TeamStat, error) {
	supplied := map[string]schema.TeamStat{}
	path := filepath.Join(dir, SuppliedStatsFile)
	if _, err := os.Stat(path); err == nil {
		if err := readJSON(path, &supplied, true); err != nil {
			return nil, err
		}
		return markSupplied(supplied), nil
	}

	written := map[string]schema.TeamStat{}
	if err := readJSON(filepath.Join(dir, TeamStatsFile), &written, false); err != nil {
		return nil, err
	}
	for name, s := range written {
		if s.Source == "" {
			supplied[name] = s
		}
	}
	if len(supplied) == 0 {
		return supplied, nil
	}
	if err := writeJSON(path, supplied); err != nil {
		return nil, err
	}
	return markSupplied(supplied), nil
}

func markSupplied(stats map[string]schema.TeamStat) map[string]schema.TeamStat {
	for name, s := range stats {
		s.Source = schema.StatSourceSupplied
		stats[name] = s
	}
	return stats
}

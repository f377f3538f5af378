package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/fdr/schema"
)

// flexFloat accepts both JSON numbers and numeric strings such as "0.45",
// since the upstream API serializes some expected-goals fields as strings.
type flexFloat float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *flexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid numeric string %q: %w", s, err)
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

// upstreamBootstrap is the subset of the bootstrap-static payload we keep.
type upstreamBootstrap struct {
	Events []struct {
		ID           int     `json:"id"`
		Name         string  `json:"name"`
		DeadlineTime *string `json:"deadline_time"`
		Finished     bool    `json:"finished"`
		IsCurrent    bool    `json:"is_current"`
		IsNext       bool    `json:"is_next"`
	} `json:"events"`
	Teams []struct {
		ID        int    `json:"id"`
		Name      string `json:"name"`
		ShortName string `json:"short_name"`
	} `json:"teams"`
	Elements []struct {
		ID                         int       `json:"id"`
		WebName                    string    `json:"web_name"`
		Team                       int       `json:"team"`
		Minutes                    int       `json:"minutes"`
		ExpectedGoals              flexFloat `json:"expected_goals"`
		ExpectedGoalsConceded      flexFloat `json:"expected_goals_conceded"`
		ExpectedGoalsPer90         flexFloat `json:"expected_goals_per_90"`
		ExpectedGoalsConcededPer90 flexFloat `json:"expected_goals_conceded_per_90"`
	} `json:"elements"`
}

// upstreamFixture is one entry of the fixtures payload.
// Event and kickoff are null for matches not yet scheduled.
type upstreamFixture struct {
	ID          int     `json:"id"`
	Event       *int    `json:"event"`
	TeamH       int     `json:"team_h"`
	TeamA       int     `json:"team_a"`
	KickoffTime *string `json:"kickoff_time"`
	Finished    bool    `json:"finished"`
}

// Bootstrap is the normalized content of a bootstrap-static payload.
type Bootstrap struct {
	Teams   []schema.Team
	Events  []schema.Event
	Players []schema.PlayerStat
}

// NormalizeBootstrap converts a bootstrap-static payload into registry entities.
// Players who have not played are dropped since they carry no per-90 figures.
func NormalizeBootstrap(body []byte) (*Bootstrap, error) {
	var raw upstreamBootstrap
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse bootstrap-static: %w", err)
	}
	if len(raw.Teams) == 0 {
		return nil, fmt.Errorf("bootstrap-static has no teams")
	}

	out := &Bootstrap{
		Teams:   make([]schema.Team, 0, len(raw.Teams)),
		Events:  make([]schema.Event, 0, len(raw.Events)),
		Players: make([]schema.PlayerStat, 0, len(raw.Elements)),
	}
	for _, t := range raw.Teams {
		out.Teams = append(out.Teams, schema.Team{ID: t.ID, Name: t.Name, ShortName: t.ShortName})
	}
	for _, e := range raw.Events {
		deadline, err := parseKickoff(e.DeadlineTime)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", e.ID, err)
		}
		out.Events = append(out.Events, schema.Event{
			ID:        e.ID,
			Name:      e.Name,
			Deadline:  deadline,
			Finished:  e.Finished,
			IsCurrent: e.IsCurrent,
			IsNext:    e.IsNext,
		})
	}
	for _, p := range raw.Elements {
		if p.Minutes <= 0 {
			continue
		}
		xgFor := float64(p.ExpectedGoalsPer90)
		xgConceded := float64(p.ExpectedGoalsConcededPer90)
		// Older payloads only carry season totals.
		if xgFor == 0 && p.ExpectedGoals > 0 {
			xgFor = float64(p.ExpectedGoals) * 90 / float64(p.Minutes)
		}
		if xgConceded == 0 && p.ExpectedGoalsConceded > 0 {
			xgConceded = float64(p.ExpectedGoalsConceded) * 90 / float64(p.Minutes)
		}
		out.Players = append(out.Players, schema.PlayerStat{
			ID:         p.ID,
			Name:       p.WebName,
			Team:       p.Team,
			Minutes:    p.Minutes,
			XGFor:      xgFor,
			XGConceded: xgConceded,
		})
	}
	return out, nil
}

// NormalizeFixtures converts a fixtures payload into the fixture calendar.
// Unscheduled fixtures (no gameweek yet) are dropped.
func NormalizeFixtures(body []byte) ([]schema.Fixture, error) {
	var raw []upstreamFixture
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}

	fixtures := make([]schema.Fixture, 0, len(raw))
	for _, f := range raw {
		if f.Event == nil || *f.Event < 1 {
			continue
		}
		if f.TeamH == f.TeamA {
			return nil, fmt.Errorf("fixture %d has the same home and away team %d", f.ID, f.TeamH)
		}
		kickoff, err := parseKickoff(f.KickoffTime)
		if err != nil {
			return nil, fmt.Errorf("fixture %d: %w", f.ID, err)
		}
		fixtures = append(fixtures, schema.Fixture{
			ID:          f.ID,
			Gameweek:    *f.Event,
			HomeTeam:    f.TeamH,
			AwayTeam:    f.TeamA,
			KickoffTime: kickoff,
			Finished:    f.Finished,
		})
	}
	return fixtures, nil
}

// parseKickoff parses an optional ISO-8601 timestamp.
func parseKickoff(s *string) (time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(*s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", *s, err)
	}
	return t.UTC(), nil
}

// ApplyPromotedPlaceholders returns a copy of stats where every promoted team
// carries the fixed placeholder figures. Names listed in promoted are flagged
// and added when the statistics source has no row for them. Rows already
// flagged in stats stay promoted, so stats must never be a previous output.
func ApplyPromotedPlaceholders(stats map[string]schema.TeamStat, promoted []string) map[string]schema.TeamStat {
	out := make(map[string]schema.TeamStat, len(stats)+len(promoted))
	for name, s := range stats {
		out[name] = s
	}
	for _, name := range promoted {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := name
		for existing := range out {
			if strings.EqualFold(existing, name) {
				key = existing
				break
			}
		}
		s := out[key]
		if s.Name == "" {
			s.Name = key
			s.Source = schema.StatSourcePlaceholder
		}
		s.Promoted = true
		out[key] = s
	}
	for name, s := range out {
		if s.Promoted {
			s.XGFor = schema.PromotedXGFor
			s.XGConceded = schema.PromotedXGConceded
			out[name] = s
		}
	}
	return out
}

package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/huangsam/fdr/core"
	"github.com/huangsam/fdr/internal/contract"
	"github.com/huangsam/fdr/internal/dataset"
	"github.com/huangsam/fdr/schema"
)

// fdrResponse is the body of both rating endpoints.
type fdrResponse struct {
	Start   int                        `json:"start"`
	Horizon int                        `json:"horizon"`
	Attack  []schema.EnrichedFDRResult `json:"attack"`
	Defence []schema.EnrichedFDRResult `json:"defence"`
}

type scheduleResponse struct {
	Start     int                       `json:"start"`
	Horizon   int                       `json:"horizon"`
	RankBy    schema.RankBy             `json:"rankBy"`
	Schedules []schema.EnrichedSchedule `json:"schedules"`
}

type teamStatResponse struct {
	TeamID int `json:"teamId"`
	schema.TeamStat
}

type tierLookupResponse struct {
	schema.TierLookup
	Label string `json:"label"`
}

func (s *Server) handleHealth(_ *http.Request, ds *dataset.Dataset) (any, error) {
	return map[string]any{
		"status":       "ok",
		"teams":        len(ds.Teams),
		"fixtures":     len(ds.Fixtures),
		"nextGameweek": ds.NextGameweek(),
	}, nil
}

func (s *Server) handleTeams(_ *http.Request, ds *dataset.Dataset) (any, error) {
	return ds.Teams, nil
}

func (s *Server) handleFixtures(r *http.Request, ds *dataset.Dataset) (any, error) {
	gameweek, err := intParam(r.URL.Query(), "gameweek", 0)
	if err != nil {
		return nil, err
	}
	if err := s.check(fixturesQuery{Gameweek: gameweek}); err != nil {
		return nil, err
	}
	if gameweek == 0 {
		return ds.Fixtures, nil
	}
	if err := contract.ValidateGameweek(gameweek, s.cfg.SeasonGameweeks); err != nil {
		return nil, err
	}
	return ds.FixturesIn(gameweek), nil
}

// handlePlayers lists player figures, optionally for one team given by id or name.
func (s *Server) handlePlayers(r *http.Request, ds *dataset.Dataset) (any, error) {
	team := strings.TrimSpace(r.URL.Query().Get("team"))
	if team == "" {
		return ds.Players, nil
	}
	if id, err := strconv.Atoi(team); err == nil {
		if _, ok := ds.TeamsByID()[id]; ok {
			return ds.PlayersOf(id), nil
		}
	} else if t, ok := ds.TeamByName(team); ok {
		return ds.PlayersOf(t.ID), nil
	}
	return nil, fmt.Errorf("%w: %q", core.ErrTeamNotFound, team)
}

// handleTeamStats returns the effective statistics per team in registry order.
func (s *Server) handleTeamStats(_ *http.Request, ds *dataset.Dataset) (any, error) {
	stats := ds.StatsByTeamID()
	out := make([]teamStatResponse, 0, len(stats))
	for _, t := range ds.Teams {
		if st, ok := stats[t.ID]; ok {
			out = append(out, teamStatResponse{TeamID: t.ID, TeamStat: st})
		}
	}
	return out, nil
}

func (s *Server) handleGameweekFDR(r *http.Request, ds *dataset.Dataset) (any, error) {
	gameweek, err := strconv.Atoi(mux.Vars(r)["gw"])
	if err != nil {
		return nil, badRequest("gameweek must be an integer")
	}
	limit, err := intParam(r.URL.Query(), "limit", 0)
	if err != nil {
		return nil, err
	}
	if err := s.check(gameweekQuery{Gameweek: gameweek, Limit: limit}); err != nil {
		return nil, err
	}

	cfg := s.requestConfig(limit)
	cfg.Gameweek = gameweek
	lists, resolved, err := core.GameweekFDR(quiet(r), ds, cfg, s.mgr)
	if err != nil {
		return nil, err
	}
	return fdrResponse{
		Start:   resolved,
		Horizon: 1,
		Attack:  schema.EnrichFDR(lists.Attack),
		Defence: schema.EnrichFDR(lists.Defence),
	}, nil
}

func (s *Server) handleHorizonFDR(r *http.Request, ds *dataset.Dataset) (any, error) {
	q, err := s.parseWindow(r)
	if err != nil {
		return nil, err
	}
	cfg := s.requestConfig(q.Limit).CloneWithWindow(q.Start, q.Horizon)
	lists, start, err := core.HorizonFDR(quiet(r), ds, cfg, s.mgr)
	if err != nil {
		return nil, err
	}
	return fdrResponse{
		Start:   start,
		Horizon: q.Horizon,
		Attack:  schema.EnrichFDR(lists.Attack),
		Defence: schema.EnrichFDR(lists.Defence),
	}, nil
}

func (s *Server) handleSchedules(r *http.Request, ds *dataset.Dataset) (any, error) {
	q, err := s.parseWindow(r)
	if err != nil {
		return nil, err
	}
	cfg := s.requestConfig(q.Limit).CloneWithWindow(q.Start, q.Horizon)
	cfg.Team = q.Team
	if q.RankBy != "" {
		cfg.RankBy = schema.RankBy(q.RankBy)
	}
	schedules, start, err := core.Schedules(quiet(r), ds, cfg, s.mgr)
	if err != nil {
		return nil, err
	}
	return scheduleResponse{
		Start:     start,
		Horizon:   q.Horizon,
		RankBy:    cfg.RankBy,
		Schedules: schema.EnrichSchedules(schedules),
	}, nil
}

func (s *Server) handleTiers(*http.Request, *dataset.Dataset) (any, error) {
	return core.GetTierResults(s.cfg), nil
}

func (s *Server) handleTierLookup(r *http.Request, _ *dataset.Dataset) (any, error) {
	values := r.URL.Query()
	q := tierLookupQuery{
		Team: strings.TrimSpace(values.Get("team")),
		Type: strings.TrimSpace(values.Get("type")),
	}
	if q.Type == "" {
		q.Type = string(schema.AttackTier)
	}
	if err := s.check(q); err != nil {
		return nil, err
	}
	lookup, err := core.LookupTeamTier(s.cfg, q.Team, schema.TierKind(q.Type))
	if err != nil {
		return nil, badRequest("%v", err)
	}
	return tierLookupResponse{TierLookup: lookup, Label: schema.FDRLabel(lookup.Tier)}, nil
}

func (s *Server) handleRefresh(r *http.Request, _ *dataset.Dataset) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), refreshTimeout)
	defer cancel()
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	ds, _ := s.snapshot()
	return map[string]any{
		"status":   "refreshed",
		"teams":    len(ds.Teams),
		"fixtures": len(ds.Fixtures),
	}, nil
}

// requestConfig copies the server config and applies a per-request limit.
func (s *Server) requestConfig(limit int) *contract.Config {
	cfg := s.cfg.Clone()
	if limit > 0 {
		cfg.ResultLimit = limit
	}
	return cfg
}

// quiet keeps calculation headers off the server's stdout.
func quiet(r *http.Request) context.Context {
	return core.WithSuppressHeader(r.Context())
}

// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/fdr/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the FDR MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Fixture Difficulty Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_gameweek_fdr ---
	s.AddTool(mcp.NewTool("get_gameweek_fdr",
		mcp.WithDescription("Rate the attack and defence difficulty of every fixture in one gameweek. Lists are ordered easiest first."),
		mcp.WithNumber("gameweek", mcp.Description("Gameweek to rate (defaults to the next unfinished gameweek).")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of teams returned per list.")),
		mcp.WithString("data_dir", mcp.Description("Directory holding the normalized dataset.")),
	), h.handleGetGameweekFDR)

	// --- 2. Tool: get_horizon_fdr ---
	s.AddTool(mcp.NewTool("get_horizon_fdr",
		mcp.WithDescription("Average fixture difficulty per team over a window of gameweeks."),
		mcp.WithNumber("start", mcp.Description("First gameweek of the window (defaults to the next unfinished gameweek).")),
		mcp.WithNumber("horizon", mcp.Description("Number of gameweeks in the window: 3, 5, 8 or 10.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of teams returned per list.")),
		mcp.WithString("data_dir", mcp.Description("Directory holding the normalized dataset.")),
	), h.handleGetHorizonFDR)

	// --- 3. Tool: get_team_schedules ---
	s.AddTool(mcp.NewTool("get_team_schedules",
		mcp.WithDescription("List each team's upcoming fixtures with opponent tiers, ranked by average difficulty."),
		mcp.WithNumber("start", mcp.Description("First gameweek to consider (defaults to the next unfinished gameweek).")),
		mcp.WithNumber("horizon", mcp.Description("Fixtures per team: 3, 5, 8 or 10.")),
		mcp.WithString("team", mcp.Description("Only return schedules whose team name contains this text.")),
		mcp.WithString("rank_by", mcp.Description("Order by attack or defence average. Defaults to 'attack'."), mcp.Enum("attack", "defence")),
		mcp.WithString("data_dir", mcp.Description("Directory holding the normalized dataset.")),
	), h.handleGetTeamSchedules)

	// --- 4. Tool: lookup_team_tier ---
	s.AddTool(mcp.NewTool("lookup_team_tier",
		mcp.WithDescription("Look up a team's curated attack or defence tier (1 easiest, 5 hardest). Unknown teams are tier 3."),
		mcp.WithString("team", mcp.Description("Team name; partial names match."), mcp.Required()),
		mcp.WithString("type", mcp.Description("Tier partition. Defaults to 'attack'."), mcp.Enum("attack", "defence")),
	), h.handleLookupTeamTier)

	return s
}

// StartMCPServer starts the FDR MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}

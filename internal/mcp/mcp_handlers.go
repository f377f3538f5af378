package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/fdr/core"
	"github.com/huangsam/fdr/internal/contract"
	"github.com/huangsam/fdr/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// requestConfig copies the base config and applies the arguments shared by every calculation.
func (h *toolHandler) requestConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if d := request.GetString("data_dir", ""); d != "" {
		cfg.DataDir = d
	}
	if l := request.GetInt("limit", 0); l != 0 {
		if l < 0 || l > contract.MaxResultLimit {
			return nil, fmt.Errorf("limit must be between 1 and %d", contract.MaxResultLimit)
		}
		cfg.ResultLimit = l
	}
	cfg.StartGameweek = request.GetInt("start", cfg.StartGameweek)
	cfg.Horizon = request.GetInt("horizon", cfg.Horizon)
	return cfg, nil
}

func (h *toolHandler) handleGetGameweekFDR(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	cfg.Gameweek = request.GetInt("gameweek", cfg.Gameweek)

	lists, err := core.GetGameweekFDRResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("calculation failed: %v", err)), nil
	}
	return jsonResult(enrichLists(lists))
}

func (h *toolHandler) handleGetHorizonFDR(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	lists, err := core.GetHorizonFDRResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("calculation failed: %v", err)), nil
	}
	return jsonResult(enrichLists(lists))
}

func (h *toolHandler) handleGetTeamSchedules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	cfg.Team = request.GetString("team", "")
	switch by := schema.RankBy(request.GetString("rank_by", string(schema.RankByAttack))); by {
	case schema.RankByAttack, schema.RankByDefence:
		cfg.RankBy = by
	default:
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: rank_by must be attack or defence (received %q)", by)), nil
	}

	schedules, err := core.GetScheduleResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("schedule lookup failed: %v", err)), nil
	}
	return jsonResult(schema.EnrichSchedules(schedules))
}

func (h *toolHandler) handleLookupTeamTier(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind := schema.TierKind(request.GetString("type", string(schema.AttackTier)))
	lookup, err := core.LookupTeamTier(h.baseCfg, request.GetString("team", ""), kind)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	return jsonResult(struct {
		schema.TierLookup
		Label string `json:"label"`
	}{lookup, schema.FDRLabel(lookup.Tier)})
}

// enrichLists adds rank and labels to both views.
func enrichLists(lists schema.FDRLists) map[string][]schema.EnrichedFDRResult {
	return map[string][]schema.EnrichedFDRResult{
		"attack":  schema.EnrichFDR(lists.Attack),
		"defence": schema.EnrichFDR(lists.Defence),
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

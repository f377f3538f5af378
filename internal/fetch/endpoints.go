package fetch

import (
	"context"
	"fmt"

	"github.com/huangsam/fdr/core/algo"
	"github.com/huangsam/fdr/internal/contract"
	"github.com/huangsam/fdr/internal/dataset"
	"github.com/huangsam/fdr/schema"
)

// Upstream endpoints and the raw file each payload is archived under.
const (
	bootstrapPath = "/bootstrap-static/"
	fixturesPath  = "/fixtures/"

	bootstrapRawFile = "bootstrap-static.json"
	fixturesRawFile  = "fixtures.json"
)

// BootstrapStatic returns the registry payload with events, teams and players.
func (c *Client) BootstrapStatic(ctx context.Context) ([]byte, error) {
	return c.FetchRaw(ctx, bootstrapPath)
}

// Fixtures returns the full fixture calendar payload.
func (c *Client) Fixtures(ctx context.Context) ([]byte, error) {
	return c.FetchRaw(ctx, fixturesPath)
}

var _ contract.Fetcher = (*Client)(nil)

// Sync downloads both payloads, archives them under dir/raw and rewrites the
// normalized files. Team statistics are rebuilt on every sync: supplied
// statistics are used when dir has them, otherwise they are derived from the
// fresh player figures. Only teams named in promoted, or flagged in the
// supplied file, receive placeholder statistics.
func Sync(ctx context.Context, f contract.Fetcher, dir string, promoted []string) (*dataset.Dataset, error) {
	bootstrapBody, err := f.BootstrapStatic(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch bootstrap-static: %w", err)
	}
	fixturesBody, err := f.Fixtures(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch fixtures: %w", err)
	}

	if err := dataset.WriteRaw(dir, bootstrapRawFile, bootstrapBody); err != nil {
		return nil, fmt.Errorf("archive bootstrap-static: %w", err)
	}
	if err := dataset.WriteRaw(dir, fixturesRawFile, fixturesBody); err != nil {
		return nil, fmt.Errorf("archive fixtures: %w", err)
	}

	bootstrap, err := dataset.NormalizeBootstrap(bootstrapBody)
	if err != nil {
		return nil, err
	}
	fixtures, err := dataset.NormalizeFixtures(fixturesBody)
	if err != nil {
		return nil, err
	}

	stats, err := dataset.LoadSuppliedStats(dir)
	if err != nil {
		return nil, err
	}
	if len(stats) == 0 {
		stats = algo.TeamStatsFromPlayers(bootstrap.Players, bootstrap.Teams)
		for name, s := range stats {
			s.Source = schema.StatSourceDerived
			stats[name] = s
		}
	}

	d := &dataset.Dataset{
		Teams:    bootstrap.Teams,
		Fixtures: fixtures,
		Events:   bootstrap.Events,
		Stats:    dataset.ApplyPromotedPlaceholders(stats, promoted),
		Players:  bootstrap.Players,
	}
	if err := dataset.Write(dir, d); err != nil {
		return nil, err
	}
	return d, nil
}

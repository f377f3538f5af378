package core

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/fdr/internal/contract"
	"github.com/huangsam/fdr/internal/dataset"
	"github.com/huangsam/fdr/internal/fetch"
)

// NewFetcher builds an upstream client backed by the manager's response cache.
// force skips cached payloads but still refreshes them.
func NewFetcher(cfg *contract.Config, mgr contract.CacheManager, force bool) *fetch.Client {
	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetResponseStore()
	}
	client := fetch.NewClient(cfg, store)
	client.Force = force
	return client
}

// FetchDataset downloads the upstream payloads and rewrites the dataset in cfg.DataDir.
func FetchDataset(ctx context.Context, cfg *contract.Config, f contract.Fetcher) (*dataset.Dataset, error) {
	logHeader(ctx, cfg, fmt.Sprintf("Fetching %s", cfg.APIBaseURL))
	return fetch.Sync(ctx, f, cfg.DataDir, cfg.Promoted)
}

// ExecuteFetch refreshes the local dataset from the upstream API.
// It serves as the main entry point for the 'fetch' command.
func ExecuteFetch(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, force bool) error {
	start := time.Now()
	ds, err := FetchDataset(ctx, cfg, NewFetcher(cfg, mgr, force))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(os.Stdout, "Fetched %d teams, %d fixtures and %d players into %s in %v.\n",
		len(ds.Teams), len(ds.Fixtures), len(ds.Players), cfg.DataDir, time.Since(start).Round(time.Millisecond))
	return err
}

package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/fdr/core"
	"github.com/huangsam/fdr/internal/contract"
	"github.com/huangsam/fdr/internal/httpapi"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd runs the dashboard HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dataset and difficulty ratings over HTTP.",
	Long: `Start the JSON API used by the dashboard.

Routes:
  GET  /healthz
  GET  /api/teams, /api/fixtures?gameweek=, /api/players?team=, /api/team-stats
  GET  /api/fdr/gameweek/{gw}, /api/fdr/horizon?start=&horizon=
  GET  /api/schedules?start=&horizon=&team=&rank_by=
  GET  /api/tiers, /api/tiers/lookup?team=&type=
  POST /api/refresh

With --refresh-cron the dataset is re-fetched on that schedule and swapped in
without interrupting requests.

Examples:
  fdr serve --addr :8080
  fdr serve --refresh-cron "0 */6 * * *"`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		logger, err := zap.NewProduction()
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()

		server, err := httpapi.NewServer(cfg, cacheManager, core.NewFetcher(cfg, cacheManager, false), logger)
		if errors.Is(err, contract.ErrDatasetMissing) {
			return fmt.Errorf("%w. Run 'fdr fetch' first", err)
		}
		if err != nil {
			return err
		}

		if cfg.RefreshCron != "" {
			scheduler, err := server.ScheduleRefresh(cfg.RefreshCron)
			if err != nil {
				return err
			}
			defer scheduler.Stop()
		}

		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return server.ListenAndServe(ctx, cfg.Addr)
	},
}

package iocache

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/fdr/internal/contract"
	"github.com/huangsam/fdr/internal/parquet"
)

// ExecuteAnalysisExport writes the global analysis store to Parquet files.
func ExecuteAnalysisExport(outputFile string) error {
	return exportAnalysis(Manager.GetAnalysisStore(), outputFile, os.Stdout)
}

// exportAnalysis writes runs to <outputFile>.runs.parquet and team ratings to
// <outputFile>.team_ratings.parquet.
func exportAnalysis(store contract.AnalysisStore, outputFile string, w io.Writer) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("analysis tracking is not configured. Set --analysis-backend")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get analysis status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no analysis data found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total team ratings: %d\n", status.TableSizes[teamRatingsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	ratings, err := store.GetAllTeamRatings()
	if err != nil {
		return fmt.Errorf("failed to retrieve team ratings: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	parquetRuns := parquet.ConvertRunRecords(runs)
	if err := parquet.WriteRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	ratingsFile := outputFile + ".team_ratings.parquet"
	parquetRatings := parquet.ConvertTeamRatingRecords(ratings)
	if err := parquet.WriteTeamRatingsParquet(parquetRatings, ratingsFile); err != nil {
		return fmt.Errorf("failed to write team ratings: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d team ratings to: %s\n", len(parquetRatings), ratingsFile)

	_, _ = fmt.Fprintln(w, "\nExport complete! The Parquet files can be read with DuckDB, Pandas (via pyarrow), Spark or Arrow.")
	return nil
}

package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/fdr/internal/contract"
	"github.com/huangsam/fdr/internal/parquet"
	"github.com/huangsam/fdr/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteFDRResults outputs both FDR lists, dispatching based on the output format configured.
func WriteFDRResults(lists schema.FDRLists, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFDRJSON(w, lists)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFDRCSV(w, lists, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return errParquetNeedsFile
		}
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.WriteRows(w, parquet.ConvertFDRLists(lists))
		}, "Wrote Parquet"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFDRTables(w, lists, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
	return nil
}

// writeFDRTables renders the attack view followed by the defence view.
func writeFDRTables(w io.Writer, lists schema.FDRLists, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	if err := writeFDRTable(w, "Attack (easiest to score against first)", schema.AttackTier, lists.Attack, cfg, fmtFloat); err != nil {
		return err
	}
	if err := writeFDRTable(w, "Defence (easiest to keep a clean sheet first)", schema.DefenceTier, lists.Defence, cfg, fmtFloat); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Calculated %d teams in %v. Data dir: %s\n", len(lists.Attack), duration, cfg.DataDir)
	return err
}

// writeFDRTable renders one view. The label follows the view's own column.
func writeFDRTable(w io.Writer, title string, view schema.TierKind, results []schema.FDRResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No fixtures in window")
		return err
	}

	// Variance only means something over more than one fixture
	multi := results[0].Horizon > 1

	table := tablewriter.NewWriter(w)
	headers := []string{"Rank", "Team", "Attack", "Defence", "Label"}
	if multi {
		headers = append(headers, "Variance", "Home")
	}
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	label := labelFunc(cfg)
	nameWidth := getMaxTableNameWidth(cfg)
	var data [][]string
	for i, r := range results {
		value := r.Attack
		if view == schema.DefenceTier {
			value = r.Defence
		}
		row := []string{
			strconv.Itoa(i + 1),
			contract.TruncateName(r.TeamName, nameWidth),
			fmtFloat(r.Attack),
			fmtFloat(r.Defence),
			label(value),
		}
		if multi {
			row = append(row,
				fmtFloat(r.Variance),
				fmt.Sprintf("%d/%d", r.HomeMatches, r.Horizon),
			)
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeFDRCSV writes both views in a single CSV with a view column.
func writeFDRCSV(w io.Writer, lists schema.FDRLists, fmtFloat func(float64) string) error {
	header := []string{
		"view",
		"rank",
		"team_id",
		"team",
		"attack",
		"defence",
		"attack_label",
		"defence_label",
		"horizon",
		"variance",
		"home_matches",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, view := range []struct {
			kind    schema.TierKind
			results []schema.FDRResult
		}{
			{schema.AttackTier, lists.Attack},
			{schema.DefenceTier, lists.Defence},
		} {
			for _, r := range schema.EnrichFDR(view.results) {
				rec := []string{
					string(view.kind),
					strconv.Itoa(r.Rank),
					strconv.Itoa(r.Team),
					r.TeamName,
					fmtFloat(r.Attack),
					fmtFloat(r.Defence),
					r.AttackLabel,
					r.DefenceLabel,
					strconv.Itoa(r.Horizon),
					fmtFloat(r.Variance),
					strconv.Itoa(r.HomeMatches),
				}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// writeFDRJSON writes both views with rank and labels added.
func writeFDRJSON(w io.Writer, lists schema.FDRLists) error {
	output := struct {
		Attack  []schema.EnrichedFDRResult `json:"attack"`
		Defence []schema.EnrichedFDRResult `json:"defence"`
	}{
		Attack:  schema.EnrichFDR(lists.Attack),
		Defence: schema.EnrichFDR(lists.Defence),
	}
	return writeJSON(w, output)
}

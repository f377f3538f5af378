package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/fdr/internal/contract"
	"github.com/huangsam/fdr/schema"

	"github.com/olekukonko/tablewriter"
)

var errTiersNoParquet = errors.New("parquet output is not supported for tiers")

// WriteTierTable outputs the tier mapping, dispatching based on the output format configured.
func WriteTierTable(table schema.TierTable, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, table)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTierCSV(w, table)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return errTiersNoParquet
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTierTableText(w, table, cfg)
		}, "Wrote table")
	}
}

// writeTierTableText renders one row per tier with both partitions side by side.
func writeTierTableText(w io.Writer, tiers schema.TierTable, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Tier", "Label", "Attack", "Defence"})

	label := labelFunc(cfg)
	var data [][]string
	for tier := schema.MinTier; tier <= schema.MaxTier; tier++ {
		data = append(data, []string{
			strconv.Itoa(tier),
			label(float64(tier)),
			strings.Join(tiers.Attack[tier], ", "),
			strings.Join(tiers.Defence[tier], ", "),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeTierCSV writes one record per team and partition.
func writeTierCSV(w io.Writer, tiers schema.TierTable) error {
	return writeCSVWithHeader(w, []string{"kind", "tier", "label", "team"}, func(cw *csv.Writer) error {
		for _, part := range []struct {
			kind    schema.TierKind
			buckets schema.TierBuckets
		}{
			{schema.AttackTier, tiers.Attack},
			{schema.DefenceTier, tiers.Defence},
		} {
			for tier := schema.MinTier; tier <= schema.MaxTier; tier++ {
				for _, team := range part.buckets[tier] {
					rec := []string{string(part.kind), strconv.Itoa(tier), schema.FDRLabel(tier), team}
					if err := cw.Write(rec); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
}

// WriteTierLookupResult outputs tier answers for one or more queries.
func WriteTierLookupResult(lookups []schema.TierLookup, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		type labelled struct {
			schema.TierLookup
			Label string `json:"label"`
		}
		output := make([]labelled, len(lookups))
		for i, l := range lookups {
			output[i] = labelled{l, schema.FDRLabel(l.Tier)}
		}
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, output)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"team", "kind", "tier", "label"}, func(cw *csv.Writer) error {
				for _, l := range lookups {
					if err := cw.Write([]string{l.Team, string(l.Kind), strconv.Itoa(l.Tier), schema.FDRLabel(l.Tier)}); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return errTiersNoParquet
	default:
		label := labelFunc(cfg)
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			for _, l := range lookups {
				if _, err := fmt.Fprintf(w, "%s %s tier: %d (%s)\n", l.Team, l.Kind, l.Tier, label(float64(l.Tier))); err != nil {
					return err
				}
			}
			return nil
		}, "Wrote text")
	}
}

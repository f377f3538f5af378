package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/fdr/internal/contract"
	"github.com/huangsam/fdr/internal/parquet"
	"github.com/huangsam/fdr/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// NoFixturesText is shown for a team with nothing in its window.
const NoFixturesText = "No upcoming fixtures"

// WriteScheduleResults outputs team schedules, dispatching based on the output format configured.
func WriteScheduleResults(schedules []schema.TeamSchedule, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, schema.EnrichSchedules(schedules))
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScheduleCSV(w, schedules, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return errParquetNeedsFile
		}
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.WriteRows(w, parquet.ConvertSchedules(schedules))
		}, "Wrote Parquet"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScheduleTable(w, schedules, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
	return nil
}

// writeScheduleTable renders one row per team with its fixtures inline.
func writeScheduleTable(w io.Writer, schedules []schema.TeamSchedule, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	byDefence := cfg.RankBy == schema.RankByDefence

	table := tablewriter.NewWriter(w)
	avgHeader := "Avg Attack"
	if byDefence {
		avgHeader = "Avg Defence"
	}
	table.Header([]string{"Rank", "Team", avgHeader, "Label", "Fixtures"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	label := labelFunc(cfg)
	nameWidth := getMaxTableNameWidth(cfg)
	fixturesWidth := getMaxFixturesWidth(cfg, nameWidth)
	var data [][]string
	for _, s := range schedules {
		rank, avg := s.AttackFDRRank, s.AverageAttackFDR
		if byDefence {
			rank, avg = s.DefenceFDRRank, s.AverageDefenceFDR
		}
		data = append(data, []string{
			strconv.Itoa(rank),
			contract.TruncateName(s.TeamName, nameWidth),
			fmtFloat(avg),
			label(avg),
			contract.TruncateName(formatFixtures(s.Fixtures, byDefence), fixturesWidth),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d teams ranked by %s in %v. Data dir: %s\n", len(schedules), rankByName(byDefence), duration, cfg.DataDir)
	return err
}

// formatFixtures renders fixtures as "Chelsea (H) 2, Burnley (A) 3".
func formatFixtures(fixtures []schema.ScheduleFixture, byDefence bool) string {
	if len(fixtures) == 0 {
		return NoFixturesText
	}
	parts := make([]string, len(fixtures))
	for i, f := range fixtures {
		tier := f.OpponentAttackFDR
		if byDefence {
			tier = f.OpponentDefenceFDR
		}
		parts[i] = fmt.Sprintf("%s (%s) %d", f.OpponentName, venue(f.IsHome), tier)
	}
	return strings.Join(parts, ", ")
}

func venue(isHome bool) string {
	if isHome {
		return "H"
	}
	return "A"
}

func rankByName(byDefence bool) string {
	if byDefence {
		return string(schema.RankByDefence)
	}
	return string(schema.RankByAttack)
}

// writeScheduleCSV writes one record per fixture; fixture columns stay empty for idle teams.
func writeScheduleCSV(w io.Writer, schedules []schema.TeamSchedule, fmtFloat func(float64) string) error {
	header := []string{
		"team_id",
		"team",
		"average_attack_fdr",
		"average_defence_fdr",
		"attack_rank",
		"defence_rank",
		"fixture_id",
		"event",
		"kickoff_time",
		"opponent",
		"venue",
		"opponent_attack_fdr",
		"opponent_defence_fdr",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, s := range schedules {
			base := []string{
				strconv.Itoa(s.TeamID),
				s.TeamName,
				fmtFloat(s.AverageAttackFDR),
				fmtFloat(s.AverageDefenceFDR),
				strconv.Itoa(s.AttackFDRRank),
				strconv.Itoa(s.DefenceFDRRank),
			}
			if len(s.Fixtures) == 0 {
				if err := cw.Write(append(base, "", "", "", "", "", "", "")); err != nil {
					return err
				}
				continue
			}
			for _, f := range s.Fixtures {
				rec := append(append([]string{}, base...),
					strconv.Itoa(f.FixtureID),
					strconv.Itoa(f.Event),
					f.KickoffTime.Format(contract.DateTimeFormat),
					f.OpponentName,
					venue(f.IsHome),
					strconv.Itoa(f.OpponentAttackFDR),
					strconv.Itoa(f.OpponentDefenceFDR),
				)
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

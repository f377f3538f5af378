package outwriter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/fdr/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSchedules() []schema.TeamSchedule {
	kickoff := time.Date(2025, time.August, 16, 14, 0, 0, 0, time.UTC)
	return []schema.TeamSchedule{
		{
			TeamID: 1, TeamName: "Arsenal", AverageAttackFDR: 2.5, AverageDefenceFDR: 4, AttackFDRRank: 1, DefenceFDRRank: 2,
			Fixtures: []schema.ScheduleFixture{
				{FixtureID: 10, Event: 1, KickoffTime: kickoff, OpponentID: 3, OpponentName: "Burnley", IsHome: true, OpponentAttackFDR: 1, OpponentDefenceFDR: 5},
				{FixtureID: 11, Event: 2, KickoffTime: kickoff.Add(7 * 24 * time.Hour), OpponentID: 2, OpponentName: "Chelsea", OpponentAttackFDR: 4, OpponentDefenceFDR: 3},
			},
		},
		{TeamID: 4, TeamName: "Idle FC", AttackFDRRank: 2, DefenceFDRRank: 1},
	}
}

func TestFormatFixtures(t *testing.T) {
	fixtures := sampleSchedules()[0].Fixtures
	assert.Equal(t, "Burnley (H) 1, Chelsea (A) 4", formatFixtures(fixtures, false))
	assert.Equal(t, "Burnley (H) 5, Chelsea (A) 3", formatFixtures(fixtures, true))
	assert.Equal(t, NoFixturesText, formatFixtures(nil, false))
}

func TestWriteScheduleTable(t *testing.T) {
	t.Run("by attack", func(t *testing.T) {
		buf := &bytes.Buffer{}
		cfg := testConfig(schema.TextOut)
		cfg.Width = 200
		require.NoError(t, writeScheduleTable(buf, sampleSchedules(), cfg, createFormatters(1), time.Millisecond))

		out := buf.String()
		assert.Contains(t, out, "Burnley (H) 1, Chelsea (A) 4")
		assert.Contains(t, out, NoFixturesText)
		assert.Contains(t, out, "Unknown", "idle team has no average")
		assert.Contains(t, out, "ranked by attack")
	})

	t.Run("by defence", func(t *testing.T) {
		buf := &bytes.Buffer{}
		cfg := testConfig(schema.TextOut)
		cfg.Width = 200
		cfg.RankBy = schema.RankByDefence
		require.NoError(t, writeScheduleTable(buf, sampleSchedules(), cfg, createFormatters(1), time.Millisecond))

		out := buf.String()
		assert.Contains(t, out, "Burnley (H) 5")
		assert.Contains(t, out, "4.0")
		assert.Contains(t, out, "ranked by defence")
	})
}

func TestWriteScheduleCSV(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, writeScheduleCSV(buf, sampleSchedules(), createFormatters(1)))

	records, err := csv.NewReader(buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Len(t, records[0], 13)
	assert.Equal(t, []string{"1", "Arsenal", "2.5", "4.0", "1", "2", "10", "1", "2025-08-16T14:00:00Z", "Burnley", "H", "1", "5"}, records[1])
	assert.Equal(t, "A", records[2][10])
	assert.Equal(t, []string{"4", "Idle FC", "0.0", "0.0", "2", "1", "", "", "", "", "", "", ""}, records[3])
}

func TestWriteScheduleResultsToFile(t *testing.T) {
	for _, mode := range []schema.OutputMode{schema.TextOut, schema.CSVOut, schema.JSONOut, schema.ParquetOut} {
		t.Run(string(mode), func(t *testing.T) {
			cfg := testConfig(mode)
			cfg.OutputFile = filepath.Join(t.TempDir(), "schedules.out")
			require.NoError(t, NewOutWriter().WriteSchedules(sampleSchedules(), cfg, time.Second))

			data, err := os.ReadFile(cfg.OutputFile)
			require.NoError(t, err)
			assert.NotEmpty(t, data)
			if mode == schema.JSONOut {
				assert.Contains(t, string(data), `"colorClass": "fdr-very-easy"`)
			}
		})
	}
}

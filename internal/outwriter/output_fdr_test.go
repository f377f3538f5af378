package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/fdr/internal/contract"
	"github.com/huangsam/fdr/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLists() schema.FDRLists {
	arsenal := schema.FDRResult{Team: 1, TeamName: "Arsenal", Attack: 2.6, Defence: 1.4, Horizon: 5, Variance: 0.64, HomeMatches: 3}
	burnley := schema.FDRResult{Team: 3, TeamName: "Burnley", Attack: 3.8, Defence: 4.2, Horizon: 5, Variance: 0.16, HomeMatches: 2}
	return schema.FDRLists{
		Attack:  []schema.FDRResult{arsenal, burnley},
		Defence: []schema.FDRResult{arsenal, burnley},
	}
}

func testConfig(output schema.OutputMode) *contract.Config {
	return &contract.Config{DataDir: "data", Precision: 1, Output: output, Width: 120}
}

func TestWriteFDRTables(t *testing.T) {
	buf := &bytes.Buffer{}
	cfg := testConfig(schema.TextOut)
	require.NoError(t, writeFDRTables(buf, sampleLists(), cfg, createFormatters(1), 2*time.Millisecond))

	out := buf.String()
	assert.Contains(t, out, "Attack (easiest to score against first)")
	assert.Contains(t, out, "Defence (easiest to keep a clean sheet first)")
	assert.Contains(t, out, "Arsenal")
	assert.Contains(t, out, "3/5", "home matches out of horizon")
	assert.Contains(t, out, "Very Easy", "defence view labels defence 1.4")
	assert.Contains(t, out, "Calculated 2 teams in 2ms. Data dir: data")
}

func TestWriteFDRTableSingleGameweek(t *testing.T) {
	buf := &bytes.Buffer{}
	results := []schema.FDRResult{{Team: 1, TeamName: "Arsenal", Attack: 2, Defence: 4, Horizon: 1}}
	require.NoError(t, writeFDRTable(buf, "Attack", schema.AttackTier, results, testConfig(schema.TextOut), createFormatters(0)))

	out := strings.ToUpper(buf.String())
	assert.NotContains(t, out, "VARIANCE")
	assert.Contains(t, out, "EASY")
}

func TestWriteFDRTableEmpty(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, writeFDRTable(buf, "Attack", schema.AttackTier, nil, testConfig(schema.TextOut), createFormatters(1)))
	assert.Equal(t, "Attack\nNo fixtures in window\n", buf.String())
}

func TestWriteFDRCSV(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, writeFDRCSV(buf, sampleLists(), createFormatters(2)))

	records, err := csv.NewReader(buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, "view", records[0][0])
	assert.Equal(t, []string{"attack", "1", "1", "Arsenal", "2.60", "1.40", "Medium", "Very Easy", "5", "0.64", "3"}, records[1])
	assert.Equal(t, "defence", records[3][0])
	assert.Equal(t, "2", records[4][1])
}

func TestWriteFDRJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, writeFDRJSON(buf, sampleLists()))

	var decoded struct {
		Attack  []schema.EnrichedFDRResult `json:"attack"`
		Defence []schema.EnrichedFDRResult `json:"defence"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Attack, 2)
	assert.Equal(t, 1, decoded.Attack[0].Rank)
	assert.Equal(t, "Arsenal", decoded.Attack[0].TeamName)
	assert.Equal(t, "Hard", decoded.Attack[1].AttackLabel)
	assert.Equal(t, "Very Easy", decoded.Defence[0].DefenceLabel)
}

func TestWriteFDRResultsToFile(t *testing.T) {
	for _, mode := range []schema.OutputMode{schema.TextOut, schema.CSVOut, schema.JSONOut, schema.ParquetOut} {
		t.Run(string(mode), func(t *testing.T) {
			cfg := testConfig(mode)
			cfg.OutputFile = filepath.Join(t.TempDir(), "fdr.out")
			require.NoError(t, NewOutWriter().WriteFDR(sampleLists(), cfg, time.Second))

			info, err := os.Stat(cfg.OutputFile)
			require.NoError(t, err)
			assert.Positive(t, info.Size())
		})
	}
}

func TestWriteFDRResultsParquetNeedsFile(t *testing.T) {
	err := WriteFDRResults(sampleLists(), testConfig(schema.ParquetOut), 0)
	assert.ErrorIs(t, err, errParquetNeedsFile)
}

package outwriter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/fdr/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTierTable() schema.TierTable {
	return schema.TierTable{
		Attack:  schema.TierBuckets{5: {"Arsenal", "Liverpool"}, 1: {"Burnley"}},
		Defence: schema.TierBuckets{4: {"Arsenal"}},
	}
}

func TestWriteTierTableText(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, writeTierTableText(buf, sampleTierTable(), testConfig(schema.TextOut)))

	out := buf.String()
	assert.Contains(t, out, "Arsenal, Liverpool")
	assert.Contains(t, out, "Very Hard")
	assert.Contains(t, out, "Burnley")
}

func TestWriteTierCSV(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, writeTierCSV(buf, sampleTierTable()))

	records, err := csv.NewReader(buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"kind", "tier", "label", "team"},
		{"attack", "1", "Very Easy", "Burnley"},
		{"attack", "5", "Very Hard", "Arsenal"},
		{"attack", "5", "Very Hard", "Liverpool"},
		{"defence", "4", "Hard", "Arsenal"},
	}, records)
}

func TestWriteTierTableParquetUnsupported(t *testing.T) {
	assert.ErrorIs(t, WriteTierTable(sampleTierTable(), testConfig(schema.ParquetOut)), errTiersNoParquet)
	assert.ErrorIs(t, WriteTierLookupResult([]schema.TierLookup{{}}, testConfig(schema.ParquetOut)), errTiersNoParquet)
}

func TestWriteTierLookupResult(t *testing.T) {
	lookups := []schema.TierLookup{
		{Team: "Man City", Kind: schema.AttackTier, Tier: 5},
		{Team: "Man City", Kind: schema.DefenceTier, Tier: 4},
	}
	tests := []struct {
		mode schema.OutputMode
		want string
	}{
		{schema.TextOut, "Man City attack tier: 5 (Very Hard)\nMan City defence tier: 4 (Hard)\n"},
		{schema.CSVOut, "team,kind,tier,label\nMan City,attack,5,Very Hard\nMan City,defence,4,Hard\n"},
		{schema.JSONOut, `"label": "Hard"`},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			cfg := testConfig(tt.mode)
			cfg.OutputFile = filepath.Join(t.TempDir(), "lookup.out")
			require.NoError(t, NewOutWriter().WriteTierLookup(lookups, cfg))

			data, err := os.ReadFile(cfg.OutputFile)
			require.NoError(t, err)
			assert.Contains(t, string(data), tt.want)
		})
	}
}

func TestWriteTiersToFile(t *testing.T) {
	cfg := testConfig(schema.JSONOut)
	cfg.OutputFile = filepath.Join(t.TempDir(), "tiers.json")
	require.NoError(t, NewOutWriter().WriteTiers(sampleTierTable(), cfg))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"5": [`)
}

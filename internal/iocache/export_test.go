package iocache

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/fdr/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, time.August, 15, 9, 0, 0, 0, time.UTC)

func TestExportAnalysis(t *testing.T) {
	store := newSQLiteAnalysisStore(t)
	runID, err := store.BeginRun(testTime, schema.RunParams{Kind: schema.HorizonRun, StartGameweek: 1, Horizon: 5})
	require.NoError(t, err)
	require.NoError(t, store.RecordTeamRatings(runID, sampleRatings()))
	require.NoError(t, store.EndRun(runID, testTime.Add(time.Second), 2))

	out := filepath.Join(t.TempDir(), "export")
	buf := &bytes.Buffer{}
	require.NoError(t, exportAnalysis(store, out, buf))

	for _, suffix := range []string{".runs.parquet", ".team_ratings.parquet"} {
		info, err := os.Stat(out + suffix)
		require.NoError(t, err, suffix)
		assert.Positive(t, info.Size(), suffix)
	}
	assert.Contains(t, buf.String(), "Exported 1 runs")
	assert.Contains(t, buf.String(), "Exported 2 team ratings")
}

func TestExportAnalysisErrors(t *testing.T) {
	t.Run("missing output file", func(t *testing.T) {
		assert.ErrorContains(t, exportAnalysis(&MockAnalysisStore{}, "", &bytes.Buffer{}), "--output-file")
	})

	t.Run("tracking disabled", func(t *testing.T) {
		assert.ErrorContains(t, exportAnalysis(nil, "out", &bytes.Buffer{}), "not configured")
	})

	t.Run("empty store", func(t *testing.T) {
		store := &MockAnalysisStore{}
		store.On("GetStatus").Return(schema.AnalysisStatus{Backend: "sqlite", Connected: true}, nil)
		assert.ErrorContains(t, exportAnalysis(store, "out", &bytes.Buffer{}), "no analysis data")
		store.AssertExpectations(t)
	})

	t.Run("status failure", func(t *testing.T) {
		store := &MockAnalysisStore{}
		store.On("GetStatus").Return(schema.AnalysisStatus{}, errors.New("db gone"))
		assert.ErrorContains(t, exportAnalysis(store, "out", &bytes.Buffer{}), "db gone")
	})

	t.Run("ratings failure", func(t *testing.T) {
		store := &MockAnalysisStore{}
		store.On("GetStatus").Return(schema.AnalysisStatus{TotalRuns: 1}, nil)
		store.On("GetAllRuns").Return([]schema.AnalysisRunRecord{{RunID: 1}}, nil)
		store.On("GetAllTeamRatings").Return(nil, errors.New("scan failed"))
		err := exportAnalysis(store, filepath.Join(t.TempDir(), "out"), &bytes.Buffer{})
		assert.ErrorContains(t, err, "scan failed")
	})
}

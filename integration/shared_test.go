//go:build integration || database

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/fdr/internal/dataset"
	"github.com/huangsam/fdr/schema"
	"github.com/stretchr/testify/require"
)

var (
	// sharedBinaryPath holds the path to an fdr binary built once for all tests.
	sharedBinaryPath string

	buildOnce  sync.Once
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getFDRBinary returns the path to the fdr binary, building it once if needed.
func getFDRBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "fdr-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		binPath := filepath.Join(tempDir, "fdr")
		buildCmd := exec.Command("go", "build", "-o", binPath, ".")
		buildCmd.Dir = ".." // project root
		if out, err := buildCmd.CombinedOutput(); err != nil {
			panic(fmt.Sprintf("failed to build fdr: %v\n%s", err, out))
		}

		sharedBinaryPath = binPath
	})

	return sharedBinaryPath
}

// runFDR runs the binary from dir and returns its stdout.
func runFDR(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getFDRBinary(), args...)
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		var stderr []byte
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr = exitErr.Stderr
		}
		t.Logf("Command failed: %s\nStdout: %s\nStderr: %s", cmd.String(), output, stderr)
	}
	return string(output), err
}

// writeSeason writes a four-team, four-gameweek dataset into dir/data.
// Every team plays every gameweek: a round robin followed by the reverse fixtures.
func writeSeason(t *testing.T, dir string) string {
	t.Helper()
	teams := []schema.Team{
		{ID: 1, Name: "Arsenal", ShortName: "ARS"},
		{ID: 2, Name: "Burnley", ShortName: "BUR"},
		{ID: 3, Name: "Chelsea", ShortName: "CHE"},
		{ID: 4, Name: "Wolves", ShortName: "WOL"},
	}
	pairs := [][2]int{{1, 2}, {3, 4}, {1, 3}, {2, 4}, {1, 4}, {2, 3}, {2, 1}, {4, 3}}
	kickoff := time.Date(2025, time.August, 16, 14, 0, 0, 0, time.UTC)

	fixtures := make([]schema.Fixture, 0, len(pairs))
	for i, p := range pairs {
		gw := i/2 + 1
		fixtures = append(fixtures, schema.Fixture{
			ID:          i + 1,
			Gameweek:    gw,
			HomeTeam:    p[0],
			AwayTeam:    p[1],
			KickoffTime: kickoff.AddDate(0, 0, 7*(gw-1)),
		})
	}

	stats := map[string]schema.TeamStat{
		"Arsenal": {ID: 1, Name: "Arsenal", Rank: 1, MatchesPlayed: 38, XGFor: 2.1, XGConceded: 0.8},
		"Burnley": {ID: 2, Name: "Burnley", Rank: 18, MatchesPlayed: 38, XGFor: 0.9, XGConceded: 2.0, Promoted: true},
		"Chelsea": {ID: 3, Name: "Chelsea", Rank: 4, MatchesPlayed: 38, XGFor: 1.8, XGConceded: 1.1},
		"Wolves":  {ID: 4, Name: "Wolves", Rank: 16, MatchesPlayed: 38, XGFor: 1.1, XGConceded: 1.7},
	}

	dataDir := filepath.Join(dir, "data")
	require.NoError(t, dataset.Write(dataDir, &dataset.Dataset{Teams: teams, Fixtures: fixtures, Stats: stats}))
	return dataDir
}

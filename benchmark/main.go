// Package main times the fdr CLI end to end.
//
// It measures the fetch command with and without the response cache, treating
// the first cached run as cold and averaging the rest as warm, then times each
// rating command against the fetched dataset. Results go to a CSV file.
//
// Prerequisites:
// - fdr binary installed and available in PATH
// - Network access to the fantasy API (or --api-base-url pointing at a mirror)
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory that receives the fetched dataset and cache database
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the timings of one command.
type BenchmarkResult struct {
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	CalcRuns    int
	// Calculations maps a command name to its extra arguments
	Calculations map[string][]string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:     os.Args[1],
		Timeout:     2 * time.Minute,
		NoCacheRuns: 2,
		CacheRuns:   4,
		CalcRuns:    5,
		Calculations: map[string][]string{
			"gameweek": {"--gameweek", "1"},
			"horizon":  {"--start", "1", "--horizon", "10"},
			"schedule": {"--start", "1", "--horizon", "10", "--rank-by", "defence"},
			"tiers":    nil,
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("fdr", "cache", "clear", "--cache-db-connect", cacheDB(config))
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Cache cleared successfully\n")
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the fdr binary exists and the work dir is usable.
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("fdr"); err != nil {
		return fmt.Errorf("fdr binary not found in PATH")
	}
	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		return fmt.Errorf("work dir %s is not writable: %w", config.WorkDir, err)
	}
	return nil
}

func dataDir(config BenchmarkConfig) string {
	return filepath.Join(config.WorkDir, "data")
}

func cacheDB(config BenchmarkConfig) string {
	return filepath.Join(config.WorkDir, "cache.db")
}

// runBenchmarks times fetch first, since every calculation reads its output.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	fmt.Printf("Starting benchmark: %v timeout, no-cache: %d runs, cache: %d runs, calculations: %d runs\n",
		config.Timeout, config.NoCacheRuns, config.CacheRuns, config.CalcRuns)

	results := []BenchmarkResult{runFetchSuite(config)}
	for _, command := range []string{"gameweek", "horizon", "schedule", "tiers"} {
		results = append(results, runCalcSuite(config, command, config.Calculations[command]))
	}
	return results
}

// average formats the mean of times, or TIMEOUT when nothing succeeded.
func average(times []float64) string {
	if len(times) == 0 {
		return "TIMEOUT"
	}
	var sum float64
	for _, t := range times {
		sum += t
	}
	return fmt.Sprintf("%.3fs", sum/float64(len(times)))
}

// runFetchSuite times fetch with the cache disabled, then cold and warm against SQLite.
func runFetchSuite(config BenchmarkConfig) BenchmarkResult {
	fmt.Printf("Running fetch\n")

	fmt.Printf("  No-cache phase (%d runs)\n", config.NoCacheRuns)
	noCache := runBenchmark(config, "fetch", []string{"--cache-backend", "none"}, config.NoCacheRuns)

	fmt.Printf("  Cache phase (%d runs)\n", config.CacheRuns)
	cached := runBenchmark(config, "fetch", []string{"--cache-backend", "sqlite", "--cache-db-connect", cacheDB(config)}, config.CacheRuns)

	coldTime := "TIMEOUT"
	warmAvg := "TIMEOUT"
	if len(cached) > 0 {
		coldTime = fmt.Sprintf("%.3fs", cached[0])
		warmAvg = average(cached[1:])
	}

	result := BenchmarkResult{Command: "fetch", NoCacheTime: average(noCache), ColdTime: coldTime, WarmTime: warmAvg}
	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", result.NoCacheTime, result.ColdTime, result.WarmTime)
	return result
}

// runCalcSuite times a rating command. Calculations never touch the response
// cache, so only the warm column is filled.
func runCalcSuite(config BenchmarkConfig, command string, extraArgs []string) BenchmarkResult {
	fmt.Printf("Running %s\n", command)
	args := append([]string{"--cache-backend", "none", "--output", "json"}, extraArgs...)
	times := runBenchmark(config, command, args, config.CalcRuns)
	result := BenchmarkResult{Command: command, NoCacheTime: "-", ColdTime: "-", WarmTime: average(times)}
	fmt.Printf("  Average: %s\n", result.WarmTime)
	return result
}

// runBenchmark executes an fdr command numRuns times and returns the durations of successful runs.
func runBenchmark(config BenchmarkConfig, command string, extraArgs []string, numRuns int) []float64 {
	args := append([]string{command, "--data-dir", dataDir(config)}, extraArgs...)

	var times []float64
	for range numRuns {
		start := time.Now()

		cmd := exec.Command("fdr", args...)
		cmd.Dir = config.WorkDir

		done := make(chan bool, 1)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output, command) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}
	return times
}

// isSuccess checks if command output indicates successful completion.
func isSuccess(output []byte, command string) bool {
	outputStr := string(output)
	if command == "fetch" {
		return strings.Contains(outputStr, "Fetched") && strings.Contains(outputStr, "fixtures")
	}
	return len(strings.TrimSpace(outputStr)) > 0
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/fdr_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary.
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-10s: No-cache: %s, Cold: %s, Warm: %s\n", result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime)
	}
}

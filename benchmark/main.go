// Package main provides a performance benchmarking tool for the statdeck CLI.
// It measures execution times of the survey and stats commands across survey files
// of different sizes, running each test multiple times, treating the first successful
// run as cold and averaging the rest as warm, and writes CSV output for analysis.
//
// Prerequisites:
// - statdeck binary installed and available in PATH
// - Survey CSV files in the specified data directory
//
// Usage: go run benchmark/main.go [data-dir]
//
//	data-dir: Directory containing survey CSV files
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Dataset     string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	DataDir     string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	Datasets    []string
}

// benchCommand is one statdeck invocation measured per dataset.
type benchCommand struct {
	Name       string
	Args       []string
	Completion string
}

var benchCommands = []benchCommand{
	{Name: "clean", Args: []string{"survey", "clean"}, Completion: "Cleaned"},
	{Name: "overview", Args: []string{"survey", "overview"}, Completion: "Rendered"},
	{Name: "relations", Args: []string{"survey", "relations"}, Completion: "Rendered"},
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [data-dir]\n", os.Args[0])
		os.Exit(1)
	}
	dataDir := os.Args[1]

	datasets, err := filepath.Glob(filepath.Join(dataDir, "*.csv"))
	if err != nil {
		fmt.Printf("Failed to list datasets: %v\n", err)
		os.Exit(1)
	}
	slices.Sort(datasets)

	config := BenchmarkConfig{
		DataDir:     dataDir,
		Timeout:     2 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		Datasets:    datasets,
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	// Clear the cache using statdeck cache clear
	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("statdeck", "cache", "clear")
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

// checkPrerequisites verifies that the statdeck binary and survey files exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("statdeck"); err != nil {
		return fmt.Errorf("statdeck binary not found in PATH")
	}
	if len(config.Datasets) == 0 {
		return fmt.Errorf("no survey CSV files found in %s", config.DataDir)
	}
	return nil
}

// runBenchmarks executes all benchmark commands across the survey files
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.Datasets), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	outDir, err := os.MkdirTemp("", "statdeck-bench-*")
	if err != nil {
		fmt.Printf("Failed to create output dir: %v\n", err)
		return nil
	}
	defer func() { _ = os.RemoveAll(outDir) }()

	for _, dataset := range config.Datasets {
		name := filepath.Base(dataset)
		fmt.Printf("Benchmarking %s\n", name)
		for _, bc := range benchCommands {
			results = append(results, runBenchmarkSuite(config, name, dataset, outDir, bc))
		}
	}

	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, name, dataset, outDir string, bc benchCommand) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", bc.Name, name)

	// Helper to run a benchmark phase
	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, dataset, outDir, bc, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avg := sum / float64(len(times))
			avgTime = fmt.Sprintf("%.3fs", avg)
		}
		return cold, avgTime
	}

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Dataset:     name,
		Command:     bc.Name,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a statdeck command multiple times with specified cache backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, dataset, outDir string, bc benchCommand, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := append(slices.Clone(bc.Args), dataset, "--cache-backend", cacheBackend,
		"--format", "svg", "--out", filepath.Join(outDir, bc.Name+".svg"))

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("statdeck", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && strings.Contains(string(output), bc.Completion) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/statdeck_benchmark_%s.csv", timestamp)

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

	// Write header
	if err := writer.Write([]string{"dataset", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, bc := range benchCommands {
		fmt.Printf("Survey %s:\n", bc.Name)
		for _, result := range results {
			if result.Command == bc.Name {
				fmt.Printf("  %-24s: No-cache: %s, Cold: %s, Warm: %s\n", result.Dataset, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}
	fmt.Printf("Benchmark script completed successfully\n")
}

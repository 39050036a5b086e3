package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeResults drops a results file for one policy under dir using the
// harness naming convention.
func writeResults(t *testing.T, dir, prefix, policy, content string) {
	t.Helper()
	path := filepath.Join(dir, fmt.Sprintf("%s_%s_results.json", prefix, policy))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// writeLog drops an execution log for one policy under dir/logs.
func writeLog(t *testing.T, dir, prefix, policy, content string) {
	t.Helper()
	logs := filepath.Join(dir, "logs")
	require.NoError(t, os.MkdirAll(logs, 0o755))
	path := filepath.Join(logs, fmt.Sprintf("%s_%s.log", prefix, policy))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func testConfig(dir string) ReportConfig {
	return ReportConfig{
		Policies:       []string{"cache_ext_fifo", "cache_ext_mru", "cache_ext_adaptive_v2"},
		AdaptivePolicy: "cache_ext_adaptive_v2",
		ResultsDir:     dir,
		FilePrefix:     "get_scan",
	}
}

func TestAnalyzer_RanksByMeanThroughput(t *testing.T) {
	captureDiagnostics(t)
	dir := t.TempDir()
	writeResults(t, dir, "get_scan", "cache_ext_fifo", `[{"read_throughput_avg": 900}, {"read_throughput_avg": 1100}]`)
	writeResults(t, dir, "get_scan", "cache_ext_mru", `[{"read_throughput_avg": 800}]`)
	writeResults(t, dir, "get_scan", "cache_ext_adaptive_v2", `[{"read_throughput_avg": 950}]`)

	report := NewAnalyzer(testConfig(dir)).Run()

	assert.Equal(t, "cache_ext_fifo", report.BestPolicy)
	assert.InDelta(t, 1000.0, report.BestThroughput, 1e-9)
	require.Len(t, report.Policies, 3)
	assert.Equal(t, 2, report.Policies[0].Runs)
}

func TestAnalyzer_MissingPolicyRenderedAsNA(t *testing.T) {
	captureDiagnostics(t)
	dir := t.TempDir()
	writeResults(t, dir, "get_scan", "cache_ext_fifo", `[{"read_throughput_avg": 500, "read_latency_avg": 900}]`)

	report := NewAnalyzer(testConfig(dir)).Run()
	var buf bytes.Buffer
	report.Render(&buf)

	out := buf.String()
	assert.Contains(t, out, "cache_ext_mru")
	assert.Contains(t, out, "N/A")
	assert.Contains(t, out, "Best performance: cache_ext_fifo (500.00 ops/sec)")
}

func TestAnalyzer_NoResultsAtAll_ShortCircuits(t *testing.T) {
	captureDiagnostics(t)
	report := NewAnalyzer(testConfig(t.TempDir())).Run()

	var buf bytes.Buffer
	report.Render(&buf)

	assert.False(t, report.HasAnyData())
	assert.Contains(t, buf.String(), "No results found. Run the benchmark first.")
	assert.NotContains(t, buf.String(), "Performance Comparison")
}

func TestAnalyzer_SwitchTimelineRendered(t *testing.T) {
	captureDiagnostics(t)
	dir := t.TempDir()
	writeResults(t, dir, "get_scan", "cache_ext_adaptive_v2", `[{"read_throughput_avg": 700}]`)
	writeLog(t, dir, "get_scan", "cache_ext_adaptive_v2",
		"POLICY SWITCH DETECTED\nOld Policy: FIFO\nNew Policy: LRU\nTime: 4200\nHit Rate: 0.83\nSequential Ratio: 0.41\n")

	report := NewAnalyzer(testConfig(dir)).Run()
	var buf bytes.Buffer
	report.Render(&buf)

	out := buf.String()
	require.NotNil(t, report.Switches)
	assert.Equal(t, 1, report.Switches.SwitchCount)
	assert.Contains(t, out, "Total policy switches: 1")
	assert.Contains(t, out, "Policy switch timeline:")
	assert.Contains(t, out, "FIFO")
	assert.Contains(t, out, "4200")
	assert.Contains(t, out, "Transition summary:")
	assert.Contains(t, out, "FIFO -> LRU: 1")
	// adaptive is the only policy with data, so it is also the best
	assert.Contains(t, out, "cache_ext_adaptive_v2 achieved the best performance!")
}

func TestAnalyzer_NoSwitchesDetected_HintsPrinted(t *testing.T) {
	captureDiagnostics(t)
	dir := t.TempDir()
	writeResults(t, dir, "get_scan", "cache_ext_adaptive_v2", `[{"read_throughput_avg": 700}]`)
	// no log file written at all

	report := NewAnalyzer(testConfig(dir)).Run()
	var buf bytes.Buffer
	report.Render(&buf)

	require.NotNil(t, report.Switches)
	assert.Equal(t, 0, report.Switches.SwitchCount)
	assert.Contains(t, buf.String(), "No policy switches detected during benchmark.")
	assert.Contains(t, buf.String(), "Possible reasons:")
}

func TestAnalyzer_AdaptiveBehindBest_NegativeDifference(t *testing.T) {
	captureDiagnostics(t)
	dir := t.TempDir()
	writeResults(t, dir, "get_scan", "cache_ext_fifo", `[{"read_throughput_avg": 1000}]`)
	writeResults(t, dir, "get_scan", "cache_ext_adaptive_v2", `[{"read_throughput_avg": 900}]`)

	report := NewAnalyzer(testConfig(dir)).Run()
	var buf bytes.Buffer
	report.Render(&buf)

	assert.Contains(t, buf.String(), "Best (cache_ext_fifo): 1000.00 ops/sec")
	assert.Contains(t, buf.String(), "Difference: -10.00%")
}

func TestAnalyzer_ZeroBaselineThroughput_ComparisonSkipped(t *testing.T) {
	captureDiagnostics(t)
	dir := t.TempDir()
	writeResults(t, dir, "get_scan", "cache_ext_fifo", `[{"read_throughput_avg": 0}]`)
	writeResults(t, dir, "get_scan", "cache_ext_adaptive_v2", `[{"read_latency_avg": 5}]`)

	report := NewAnalyzer(testConfig(dir)).Run()
	var buf bytes.Buffer
	report.Render(&buf)

	// a policy with runs but zero mean still ranks, and instead of dividing
	// by zero the comparison degrades to N/A
	assert.Equal(t, "cache_ext_fifo", report.BestPolicy)
	assert.Contains(t, buf.String(), "Difference: N/A (no baseline throughput)")
}

func TestReport_Render_Idempotent(t *testing.T) {
	captureDiagnostics(t)
	dir := t.TempDir()
	writeResults(t, dir, "get_scan", "cache_ext_fifo", `[{"read_throughput_avg": 123.4, "scan_throughput_avg": 55}]`)
	writeResults(t, dir, "get_scan", "cache_ext_adaptive_v2", `[{"read_throughput_avg": 150}]`)
	writeLog(t, dir, "get_scan", "cache_ext_adaptive_v2",
		"POLICY SWITCH DETECTED\nOld Policy: FIFO\nNew Policy: LRU\n")

	cfg := testConfig(dir)
	var first, second bytes.Buffer
	NewAnalyzer(cfg).Run().Render(&first)
	NewAnalyzer(cfg).Run().Render(&second)

	assert.Equal(t, first.String(), second.String())
}

func TestReport_WriteJSON_Roundtrip(t *testing.T) {
	captureDiagnostics(t)
	dir := t.TempDir()
	writeResults(t, dir, "get_scan", "cache_ext_fifo", `[{"read_throughput_avg": 10}, {"read_throughput_avg": 20}]`)
	writeResults(t, dir, "get_scan", "cache_ext_adaptive_v2", `[{"read_throughput_avg": 30}]`)
	writeLog(t, dir, "get_scan", "cache_ext_adaptive_v2",
		"POLICY SWITCH DETECTED\nOld Policy: FIFO\nNew Policy: LRU\nTime: 4200\n")

	report := NewAnalyzer(testConfig(dir)).Run()
	out := filepath.Join(dir, "report.json")
	require.NoError(t, report.WriteJSON(out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "get_scan", decoded.Workload)
	assert.Equal(t, "cache_ext_adaptive_v2", decoded.BestPolicy)
	require.NotNil(t, decoded.Switches)
	require.Len(t, decoded.Switches.Switches, 1)
	ev := decoded.Switches.Switches[0]
	assert.Equal(t, "FIFO", ev.FromPolicy)
	assert.Equal(t, "LRU", ev.ToPolicy)
	require.NotNil(t, ev.Time)
	assert.Equal(t, int64(4200), *ev.Time)
}

func TestReportConfig_PathConventions(t *testing.T) {
	cfg := ReportConfig{ResultsDir: "results", FilePrefix: "get_scan"}

	assert.Equal(t, filepath.Join("results", "get_scan_cache_ext_fifo_results.json"),
		cfg.ResultsPath("cache_ext_fifo"))
	assert.Equal(t, filepath.Join("results", "logs", "get_scan_cache_ext_adaptive_v2.log"),
		cfg.LogPath("cache_ext_adaptive_v2"))
}

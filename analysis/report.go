package analysis

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/lysgoup/cache-ext/analysis/switchlog"
)

// Metric keys written by the benchmark harness and consumed by the report.
const (
	MetricReadThroughput = "read_throughput_avg"
	MetricReadLatency    = "read_latency_avg"
	MetricScanThroughput = "scan_throughput_avg"
)

// ReportConfig is the immutable configuration for one analysis run. The
// policy enumeration is fixed up front; changing the benchmarked set means
// changing this list, never the parsing code.
type ReportConfig struct {
	Policies       []string // display and ranking order
	AdaptivePolicy string   // the one policy whose switch log is analyzed
	ResultsDir     string
	LogsDir        string // defaults to <ResultsDir>/logs when empty
	FilePrefix     string // workload prefix in file names, e.g. "get_scan"
	RankMetric     string // defaults to MetricReadThroughput when empty
}

// ResultsPath returns the results file location for one policy, following
// the harness naming convention <prefix>_<policy>_results.json.
func (c ReportConfig) ResultsPath(policy string) string {
	return filepath.Join(c.ResultsDir, fmt.Sprintf("%s_%s_results.json", c.FilePrefix, policy))
}

// LogPath returns the execution-log location for one policy.
func (c ReportConfig) LogPath(policy string) string {
	dir := c.LogsDir
	if dir == "" {
		dir = filepath.Join(c.ResultsDir, "logs")
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%s.log", c.FilePrefix, policy))
}

// PolicyReport is the aggregated view of one policy's runs. Runs == 0 means
// the results file was missing, empty, or unreadable; the policy is then
// shown as N/A and excluded from ranking.
type PolicyReport struct {
	Policy         string      `json:"policy"`
	Runs           int         `json:"runs"`
	ReadThroughput MetricStats `json:"read_throughput"`
	ReadLatency    MetricStats `json:"read_latency"`
	ScanThroughput MetricStats `json:"scan_throughput"`
}

// Report is the full analysis outcome, renderable as text or exportable as
// JSON. Policies preserves the configured order.
type Report struct {
	Workload           string         `json:"workload"`
	Policies           []PolicyReport `json:"policies"`
	AdaptivePolicy     string         `json:"adaptive_policy,omitempty"`
	BestPolicy         string         `json:"best_policy,omitempty"`
	BestThroughput     float64        `json:"best_throughput,omitempty"`
	AdaptiveThroughput float64        `json:"adaptive_throughput,omitempty"`
	Switches           *switchlog.Log `json:"switches,omitempty"`
}

// Analyzer runs the full comparison: load every policy's results, aggregate
// the report metrics, rank by the configured metric, and scan the adaptive
// policy's switch log.
type Analyzer struct {
	cfg ReportConfig
}

// NewAnalyzer fills config defaults and returns an Analyzer.
func NewAnalyzer(cfg ReportConfig) *Analyzer {
	if cfg.RankMetric == "" {
		cfg.RankMetric = MetricReadThroughput
	}
	if cfg.LogsDir == "" {
		cfg.LogsDir = filepath.Join(cfg.ResultsDir, "logs")
	}
	return &Analyzer{cfg: cfg}
}

// Run loads, aggregates and ranks. It never fails: missing or malformed
// inputs degrade to empty per-policy data with a diagnostic, and the best
// partial report obtainable is returned.
func (a *Analyzer) Run() *Report {
	report := &Report{
		Workload:       a.cfg.FilePrefix,
		AdaptivePolicy: a.cfg.AdaptivePolicy,
	}

	for _, policy := range a.cfg.Policies {
		records := LoadResults(a.cfg.ResultsPath(policy))
		pr := PolicyReport{
			Policy:         policy,
			Runs:           len(records),
			ReadThroughput: AggregateMetric(records, MetricReadThroughput),
			ReadLatency:    AggregateMetric(records, MetricReadLatency),
			ScanThroughput: AggregateMetric(records, MetricScanThroughput),
		}
		report.Policies = append(report.Policies, pr)

		rank := AggregateMetric(records, a.cfg.RankMetric)
		if policy == a.cfg.AdaptivePolicy {
			report.AdaptiveThroughput = rank.Mean
		}
		if rank.Count > 0 && (report.BestPolicy == "" || rank.Mean > report.BestThroughput) {
			report.BestThroughput = rank.Mean
			report.BestPolicy = policy
		}
	}

	if a.cfg.AdaptivePolicy != "" && report.hasData(a.cfg.AdaptivePolicy) {
		log := switchlog.ScanFile(a.cfg.LogPath(a.cfg.AdaptivePolicy))
		report.Switches = &log
	}
	return report
}

// HasAnyData reports whether at least one policy produced results.
func (r *Report) HasAnyData() bool {
	for _, pr := range r.Policies {
		if pr.Runs > 0 {
			return true
		}
	}
	return false
}

func (r *Report) hasData(policy string) bool {
	if pr := r.policy(policy); pr != nil {
		return pr.Runs > 0
	}
	return false
}

func (r *Report) policy(name string) *PolicyReport {
	for i := range r.Policies {
		if r.Policies[i].Policy == name {
			return &r.Policies[i]
		}
	}
	return nil
}

const reportWidth = 70

// Render writes the human-readable report. Diagnostics never go through w;
// they are emitted on the log stream as the data is loaded.
func (r *Report) Render(w io.Writer) {
	rule := strings.Repeat("=", reportWidth)
	thin := strings.Repeat("-", reportWidth)

	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%s Benchmark Results Analysis\n", strings.ToUpper(strings.ReplaceAll(r.Workload, "_", "-")))
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)

	if !r.HasAnyData() {
		fmt.Fprintln(w, "No results found. Run the benchmark first.")
		return
	}

	r.renderReadTable(w, thin)
	r.renderScanTable(w, thin)
	r.renderSwitchAnalysis(w, rule, thin)
	r.renderRelativePerformance(w, rule)

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "Analysis complete")
	fmt.Fprintln(w, rule)
}

func (r *Report) renderReadTable(w io.Writer, thin string) {
	fmt.Fprintln(w, "Performance Comparison (READ operations)")
	fmt.Fprintln(w, thin)
	fmt.Fprintf(w, "%-30s %-25s %-15s\n", "Policy", "Throughput (ops/sec)", "Latency (ns)")
	fmt.Fprintln(w, thin)

	for _, pr := range r.Policies {
		throughput, latency := "N/A", "N/A"
		if pr.ReadThroughput.Count > 0 {
			throughput = fmt.Sprintf("%.2f ± %.2f", pr.ReadThroughput.Mean, pr.ReadThroughput.StdDev)
			latency = fmt.Sprintf("%.0f ± %.0f", pr.ReadLatency.Mean, pr.ReadLatency.StdDev)
		}
		fmt.Fprintf(w, "%-30s %-25s %-15s\n", pr.Policy, throughput, latency)
	}

	fmt.Fprintln(w, thin)
	if r.BestPolicy != "" {
		fmt.Fprintf(w, "Best performance: %s (%.2f ops/sec)\n", r.BestPolicy, r.BestThroughput)
	}
	fmt.Fprintln(w)
}

func (r *Report) renderScanTable(w io.Writer, thin string) {
	fmt.Fprintln(w, "SCAN Operations Performance")
	fmt.Fprintln(w, thin)
	fmt.Fprintf(w, "%-30s %-30s\n", "Policy", "SCAN Throughput (ops/sec)")
	fmt.Fprintln(w, thin)

	for _, pr := range r.Policies {
		scan := "N/A"
		if pr.ScanThroughput.Count > 0 && pr.ScanThroughput.Mean > 0 {
			scan = fmt.Sprintf("%.2f ± %.2f", pr.ScanThroughput.Mean, pr.ScanThroughput.StdDev)
		}
		fmt.Fprintf(w, "%-30s %-30s\n", pr.Policy, scan)
	}
	fmt.Fprintln(w)
}

func (r *Report) renderSwitchAnalysis(w io.Writer, rule, thin string) {
	if r.Switches == nil {
		return
	}

	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%s Policy Switching Analysis\n", r.AdaptivePolicy)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Total policy switches: %d\n", r.Switches.SwitchCount)
	fmt.Fprintln(w)

	if r.Switches.SwitchCount == 0 {
		fmt.Fprintln(w, "No policy switches detected during benchmark.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Possible reasons:")
		fmt.Fprintln(w, "  1. Switching thresholds too strict for this workload")
		fmt.Fprintln(w, "  2. Workload didn't trigger switching conditions")
		fmt.Fprintln(w, "  3. Policy switches not logged properly")
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintln(w, "Policy switch timeline:")
	fmt.Fprintf(w, "%-5s %-10s %-10s %-15s %-12s %-12s\n", "#", "From", "To", "Time", "Hit Rate", "Seq Ratio")
	fmt.Fprintln(w, thin)
	for _, ev := range r.Switches.Switches {
		fmt.Fprintf(w, "%-5d %-10s %-10s %-15s %-12s %-12s\n",
			ev.Index, orPlaceholder(ev.FromPolicy), orPlaceholder(ev.ToPolicy),
			timeOrPlaceholder(ev.Time), orPlaceholder(ev.HitRate), orPlaceholder(ev.SequentialRatio))
	}
	fmt.Fprintln(w)

	summary := switchlog.Summarize(*r.Switches)
	if len(summary.Transitions) > 0 {
		fmt.Fprintln(w, "Transition summary:")
		for _, tr := range summary.Transitions {
			fmt.Fprintf(w, "  %s -> %s: %d\n", orPlaceholder(tr.From), orPlaceholder(tr.To), tr.Count)
		}
		fmt.Fprintln(w)
	}
}

func (r *Report) renderRelativePerformance(w io.Writer, rule string) {
	adaptive := r.policy(r.AdaptivePolicy)
	if adaptive == nil || adaptive.Runs == 0 || r.BestPolicy == "" {
		return
	}

	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%s vs Best Policy\n", r.AdaptivePolicy)
	fmt.Fprintln(w, rule)

	switch {
	case r.BestPolicy == r.AdaptivePolicy:
		fmt.Fprintf(w, "%s achieved the best performance!\n", r.AdaptivePolicy)
	case r.BestThroughput == 0:
		// Ranking excludes count==0 policies, so a zero best mean can only
		// come from an all-zero baseline. No meaningful percentage exists.
		fmt.Fprintln(w, "Difference: N/A (no baseline throughput)")
	default:
		improvement := (r.AdaptiveThroughput - r.BestThroughput) / r.BestThroughput * 100
		fmt.Fprintf(w, "%s throughput: %.2f ops/sec\n", r.AdaptivePolicy, r.AdaptiveThroughput)
		fmt.Fprintf(w, "Best (%s): %.2f ops/sec\n", r.BestPolicy, r.BestThroughput)
		fmt.Fprintf(w, "Difference: %+.2f%%\n", improvement)
	}
	fmt.Fprintln(w)
}

// WriteJSON exports the full analysis to path for machine consumption.
func (r *Report) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	logrus.Debugf("wrote JSON report to %s", path)
	return nil
}

func orPlaceholder(s string) string {
	if s == "" {
		return "?"
	}
	return s
}

func timeOrPlaceholder(t *int64) string {
	if t == nil {
		return "?"
	}
	return strconv.FormatInt(*t, 10)
}

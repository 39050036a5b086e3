package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lysgoup/cache-ext/analysis"
)

var (
	// CLI flags for the analyze command
	resultsDir string // directory holding <prefix>_<policy>_results.json files
	logsDir    string // directory holding per-policy execution logs
	suitePath  string // optional YAML suite config overriding the built-in suite
	rankMetric string // metric used to rank policies
	jsonOut    string // optional machine-readable report destination
	logLevel   string // log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "cache-ext-bench",
	Short: "Benchmark analysis tooling for cache_ext eviction policies",
}

// analyzeCmd compares benchmark results across the configured policy suite
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compare benchmark results across eviction policies",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		suite := DefaultSuiteConfig()
		if suitePath != "" {
			suite, err = LoadSuiteConfig(suitePath)
			if err != nil {
				logrus.Fatalf("unable to read suite config: %v", err)
			}
		}
		logrus.Infof("Analyzing %d policies for workload %q in %s", len(suite.Policies), suite.Workload, resultsDir)

		report := analysis.NewAnalyzer(analysis.ReportConfig{
			Policies:       suite.Policies,
			AdaptivePolicy: suite.AdaptivePolicy,
			ResultsDir:     resultsDir,
			LogsDir:        logsDir,
			FilePrefix:     suite.Workload,
			RankMetric:     rankMetric,
		}).Run()

		report.Render(os.Stdout)

		if jsonOut != "" {
			if err := report.WriteJSON(jsonOut); err != nil {
				logrus.Fatalf("unable to export report: %v", err)
			}
		}
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	analyzeCmd.Flags().StringVar(&resultsDir, "results-dir", "results", "Directory containing per-policy results files")
	analyzeCmd.Flags().StringVar(&logsDir, "logs-dir", "", "Directory containing per-policy logs (default <results-dir>/logs)")
	analyzeCmd.Flags().StringVar(&suitePath, "suite", "", "YAML suite config (default: built-in get_scan suite)")
	analyzeCmd.Flags().StringVar(&rankMetric, "rank-metric", analysis.MetricReadThroughput, "Metric used to rank policies")
	analyzeCmd.Flags().StringVar(&jsonOut, "json", "", "Also write the report as JSON to this path")
	analyzeCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// Attach `analyze` as a subcommand to `root`
	rootCmd.AddCommand(analyzeCmd)
}

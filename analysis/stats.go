package analysis

import "gonum.org/v1/gonum/stat"

// MetricStats summarizes one metric across a policy's runs. Count 0 means no
// run carried the metric; it is a valid "no data" result, not an error.
type MetricStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std"`
	Count  int     `json:"count"`
}

// AggregateMetric computes the mean and sample standard deviation of the
// named metric over records. Records without the key, or with a non-numeric
// value, are excluded rather than counted as zero. A single observation has
// no estimable spread, so StdDev is exactly 0 when Count == 1.
func AggregateMetric(records []BenchmarkRecord, metric string) MetricStats {
	var values []float64
	for _, rec := range records {
		if v, ok := numericValue(rec[metric]); ok {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return MetricStats{}
	}

	stats := MetricStats{
		Mean:  stat.Mean(values, nil),
		Count: len(values),
	}
	if stats.Count > 1 {
		stats.StdDev = stat.StdDev(values, nil)
	}
	return stats
}

// numericValue widens the value types a decoded record can hold for a metric.
// encoding/json yields float64; int cases cover hand-built records.
func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

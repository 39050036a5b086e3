// Package switchlog reconstructs structured policy-switch events from the
// unstructured text log emitted by the adaptive cache_ext policy.
// The data types are pure; the scanner in scanner.go produces them.
package switchlog

// Event captures a single runtime policy switch reconstructed from the log.
// Index is always set and is 1-based in detection order. Every other field is
// best-effort: an empty string (or nil Time) means the matching detail line
// was not found inside the scan window, or failed to parse.
type Event struct {
	Index           int    `json:"index"`
	FromPolicy      string `json:"from,omitempty"`
	ToPolicy        string `json:"to,omitempty"`
	Time            *int64 `json:"time,omitempty"`
	HitRate         string `json:"hit_rate,omitempty"`
	SequentialRatio string `json:"sequential_ratio,omitempty"`
}

// Log is the ordered sequence of switches found in one log file.
// SwitchCount always equals len(Switches).
type Log struct {
	SwitchCount int     `json:"switch_count"`
	Switches    []Event `json:"switches"`
}

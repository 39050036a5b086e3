package switchlog

// Summary aggregates statistics from a Log.
type Summary struct {
	TotalSwitches   int
	Transitions     []Transition // in first-seen order
	FirstSwitchTime *int64       // nil when no event carried a time
	LastSwitchTime  *int64
}

// Transition counts how often the adaptive policy moved between one pair of
// strategies. From or To may be empty when the detail line was never found.
type Transition struct {
	From  string
	To    string
	Count int
}

// Summarize computes aggregate statistics from a Log.
// Safe for empty logs (returns zero-value fields).
func Summarize(l Log) Summary {
	s := Summary{TotalSwitches: l.SwitchCount}
	seen := make(map[[2]string]int)
	for _, ev := range l.Switches {
		key := [2]string{ev.FromPolicy, ev.ToPolicy}
		if idx, ok := seen[key]; ok {
			s.Transitions[idx].Count++
		} else {
			seen[key] = len(s.Transitions)
			s.Transitions = append(s.Transitions, Transition{From: ev.FromPolicy, To: ev.ToPolicy, Count: 1})
		}
		if ev.Time != nil {
			if s.FirstSwitchTime == nil {
				s.FirstSwitchTime = ev.Time
			}
			s.LastSwitchTime = ev.Time
		}
	}
	return s
}

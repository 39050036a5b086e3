package switchlog

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// TriggerMarker is the literal text the adaptive policy prints when it
// changes its active strategy.
const TriggerMarker = "POLICY SWITCH DETECTED"

// detailWindow is the number of lines scanned forward after a trigger for
// detail cues. The window does not stop early at a nested trigger: two
// triggers closer than detailWindow lines apart can leak the later event's
// detail lines into the earlier event. That grouping matches the log
// producer's spacing assumptions and downstream consumers rely on it, so it
// is preserved rather than fixed here.
const detailWindow = 20

// Detail-line cue substrings.
const (
	cueOldPolicy = "Old Policy:"
	cueNewPolicy = "New Policy:"
	cueTime      = "Time:"
	cueHitRate   = "Hit Rate:"
	cueSeqRatio  = "Sequential Ratio:"
)

// Scan walks lines in order and assembles one Event per trigger line.
// Detail cues are matched opportunistically inside the lookahead window, in
// any order, a recurring cue overwriting the earlier value. A malformed
// detail line loses only its own field, never the event and never the scan.
// The outer scan resumes on the line after the trigger (not after the
// window), so clustered triggers are all detected.
func Scan(lines []string) Log {
	out := Log{Switches: []Event{}}
	for i := 0; i < len(lines); i++ {
		if !strings.Contains(lines[i], TriggerMarker) {
			continue
		}
		ev := Event{Index: len(out.Switches) + 1}
		end := min(i+1+detailWindow, len(lines))
		for j := i + 1; j < end; j++ {
			collectDetail(&ev, strings.TrimSpace(lines[j]))
		}
		out.Switches = append(out.Switches, ev)
	}
	out.SwitchCount = len(out.Switches)
	return out
}

// ScanFile reads a log file line by line and scans it. A missing file means
// the policy produced no log and yields an empty Log rather than an error.
func ScanFile(path string) Log {
	f, err := os.Open(path)
	if err != nil {
		logrus.Debugf("switch log %s not readable: %v", path, err)
		return Log{Switches: []Event{}}
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		logrus.Warnf("reading switch log %s: %v", path, err)
	}
	return Scan(lines)
}

// collectDetail classifies one window line by its cue and extracts the
// matching field into ev. Lines with no cue are ignored.
func collectDetail(ev *Event, line string) {
	switch {
	case strings.Contains(line, cueOldPolicy):
		ev.FromPolicy = afterLastColon(line)
	case strings.Contains(line, cueNewPolicy):
		ev.ToPolicy = afterLastColon(line)
	case strings.Contains(line, cueTime) && !strings.Contains(line, "index"):
		if tok, ok := lastToken(line); ok {
			if t, err := strconv.ParseInt(tok, 10, 64); err == nil {
				ev.Time = &t
			}
		}
	case strings.Contains(line, cueHitRate):
		// Kept as text: the producer may append units or formatting.
		if tok, ok := lastToken(line); ok {
			ev.HitRate = tok
		}
	case strings.Contains(line, cueSeqRatio):
		if tok, ok := lastToken(line); ok {
			ev.SequentialRatio = tok
		}
	}
}

func afterLastColon(line string) string {
	idx := strings.LastIndex(line, ":")
	return strings.TrimSpace(line[idx+1:])
}

func lastToken(line string) (string, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", false
	}
	return fields[len(fields)-1], true
}

package analysis

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"github.com/sirupsen/logrus"
)

// LoadResults reads one policy's benchmark runs from a JSON results file
// (an array of flat metric objects). A missing or undecodable file degrades
// to an empty slice with a diagnostic on the log stream, so the report can
// carry on with whatever the other policies produced. One read attempt per
// call, no caching.
func LoadResults(path string) []BenchmarkRecord {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logrus.Warnf("results file %s not found", path)
		return nil
	}
	if err != nil {
		logrus.Errorf("reading %s: %v", path, err)
		return nil
	}

	var records []BenchmarkRecord
	if err := json.Unmarshal(data, &records); err != nil {
		logrus.Errorf("parsing %s: %v", path, err)
		return nil
	}
	return records
}

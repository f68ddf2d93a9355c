package telemetry_test

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/petasbytes/followup-agent/internal/telemetry"
)

// enable turns emission on into a per-test directory and turns it off again on cleanup.
func enable(t *testing.T, dir string) {
	t.Helper()
	telemetry.Configure(telemetry.Options{Enabled: true, Dir: dir})
	t.Cleanup(func() { telemetry.Configure(telemetry.Options{}) })
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

// readLastJSONL returns the last non-empty JSON object in path.
func readLastJSONL(t *testing.T, path string) (map[string]any, error) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var last string
	s := bufio.NewScanner(f)
	for s.Scan() {
		if txt := strings.TrimSpace(s.Text()); txt != "" {
			last = txt
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if last == "" {
		return nil, errors.New("no lines found")
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(last), &m); err != nil {
		return nil, err
	}
	return m, nil
}

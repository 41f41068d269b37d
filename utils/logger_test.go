package utils

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLoggerJSONCarriesRunID(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf), WithJSON(true))

	l.WithField("page", "listings").Info("extracted %d listings", 3)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "extracted 3 listings" {
		t.Errorf("msg: got %v", entry["msg"])
	}
	if entry["RunId"] != l.RunID() || l.RunID() == "" {
		t.Errorf("RunId: got %v, want %q", entry["RunId"], l.RunID())
	}
	if entry["page"] != "listings" {
		t.Errorf("page field: got %v", entry["page"])
	}
}

func TestLoggerLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf), WithLevel("info"))

	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug entry written at info level: %q", buf.String())
	}

	l.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("warn entry missing: %q", buf.String())
	}
}

func TestLoggerUnknownLevelKeepsInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf), WithLevel("loud"))

	l.Debug("hidden")
	l.Info("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestLoggerErrorsUseOwnWriter(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLogger(WithOutput(&out), WithErrorOutput(&errOut)).WithField("page", "listings")

	l.Info("progress")
	l.Error("run failed")

	if strings.Contains(out.String(), "run failed") {
		t.Errorf("error entry written to the main output: %q", out.String())
	}
	if !strings.Contains(errOut.String(), "run failed") || !strings.Contains(errOut.String(), "listings") {
		t.Errorf("error output: got %q", errOut.String())
	}
	if strings.Contains(errOut.String(), "progress") {
		t.Errorf("info entry written to the error output: %q", errOut.String())
	}
}

func TestLoggerErrorsFollowOutputByDefault(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf))

	l.Error("run failed")
	if !strings.Contains(buf.String(), "run failed") {
		t.Errorf("error entry missing: %q", buf.String())
	}
}

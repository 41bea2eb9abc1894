package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// TestSimpleProgress_Render verifies the bar renders counts and
// percentage.
func TestSimpleProgress_Render(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressReporter(&buf)

	p.Start(100)
	p.Update(50)
	p.Finish()

	out := buf.String()
	if !strings.Contains(out, "(50/100)") {
		t.Errorf("expected intermediate count in output, got %q", out)
	}
	if !strings.Contains(out, "(100/100)") {
		t.Errorf("expected final count in output, got %q", out)
	}
	if !strings.Contains(out, "100.0%") {
		t.Errorf("expected 100.0%% in output, got %q", out)
	}
}

// TestSimpleProgress_ZeroTotal verifies no rendering for empty sets.
func TestSimpleProgress_ZeroTotal(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressReporter(&buf)

	p.Start(0)
	p.Update(0)

	if got := buf.String(); got != "" {
		t.Errorf("expected no output for zero total, got %q", got)
	}
}

// TestSimpleProgress_Error verifies error rendering.
func TestSimpleProgress_Error(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressReporter(&buf)

	p.Start(10)
	p.Error(errors.New("disk full"))

	if !strings.Contains(buf.String(), "disk full") {
		t.Errorf("expected error message in output, got %q", buf.String())
	}
}

// TestNewFormatter covers formatter selection.
func TestNewFormatter(t *testing.T) {
	if _, err := NewFormatter(FormatText); err != nil {
		t.Errorf("NewFormatter(text) failed: %v", err)
	}
	if _, err := NewFormatter(FormatJSON); err != nil {
		t.Errorf("NewFormatter(json) failed: %v", err)
	}
	if _, err := NewFormatter("yaml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

// TestJSONFormatter_FormatTo verifies JSON output.
func TestJSONFormatter_FormatTo(t *testing.T) {
	var buf bytes.Buffer
	f := &JSONFormatter{}

	if err := f.FormatTo(&buf, map[string]int{"records": 3}); err != nil {
		t.Fatalf("FormatTo() failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"records": 3`) {
		t.Errorf("expected JSON output, got %q", buf.String())
	}
}

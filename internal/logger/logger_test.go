package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func capture(fn func()) string {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	fn()
	return buf.String()
}

func TestLevelFiltering(t *testing.T) {
	SetLevel("INFO")
	defer SetLevel("INFO")

	out := capture(func() {
		Debug("hidden %d", 1)
		Info("shown %d", 2)
	})

	if strings.Contains(out, "hidden") {
		t.Errorf("debug message logged at info level: %q", out)
	}
	if !strings.Contains(out, "shown 2") {
		t.Errorf("info message missing: %q", out)
	}

	SetLevel("ERROR")
	out = capture(func() {
		Warn("also hidden")
		Error("failure: %v", "boom")
	})

	if strings.Contains(out, "also hidden") {
		t.Errorf("warn message logged at error level: %q", out)
	}
	if !strings.Contains(out, "failure: boom") {
		t.Errorf("error message missing: %q", out)
	}
}

func TestSetLevelIgnoresUnknown(t *testing.T) {
	SetLevel("INFO")
	SetLevel("loud")
	defer SetLevel("INFO")

	out := capture(func() {
		Info("still info")
	})
	if !strings.Contains(out, "still info") {
		t.Errorf("unknown level changed filtering: %q", out)
	}
}

func TestMessageFormat(t *testing.T) {
	SetLevel("INFO")

	out := capture(func() {
		Info("formatted %s", "message")
	})

	if !strings.Contains(out, "[INFO] formatted message") {
		t.Errorf("unexpected format: %q", out)
	}
}

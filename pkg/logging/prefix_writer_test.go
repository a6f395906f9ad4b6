package logging

import (
	"bytes"
	"testing"
)

func TestPrefixWriterLines(t *testing.T) {
	testCases := []struct {
		name   string
		writes []string
		want   string
	}{
		{name: "single_line", writes: []string{"hello\n"}, want: "> hello\n"},
		{name: "two_lines_one_write", writes: []string{"a\nb\n"}, want: "> a\n> b\n"},
		{name: "split_across_writes", writes: []string{"hel", "lo\nwor", "ld\n"}, want: "> hello\n> world\n"},
		{name: "partial_held_back", writes: []string{"done\npartial"}, want: "> done\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			pw := NewPrefixWriter("> ", &out)

			for _, w := range tc.writes {
				n, err := pw.Write([]byte(w))
				if err != nil {
					t.Fatalf("Write(%q) failed: %v", w, err)
				}
				if n != len(w) {
					t.Errorf("Write(%q) = %d, want %d", w, n, len(w))
				}
			}

			if got := out.String(); got != tc.want {
				t.Errorf("output = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPrefixWriterCompletesHeldLine(t *testing.T) {
	var out bytes.Buffer
	pw := NewPrefixWriter("> ", &out)

	if _, err := pw.Write([]byte("tail")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("partial line written early: %q", out.String())
	}
	if _, err := pw.Write([]byte(" end\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if got := out.String(); got != "> tail end\n" {
		t.Errorf("output = %q, want %q", got, "> tail end\n")
	}
}

func TestNewLoggerWritesPrefix(t *testing.T) {
	t.Setenv("HEDGEARC_JSON_LOG", "")

	var out bytes.Buffer
	logger := NewLogger("test", "info", &out)
	logger.Info("packing", "entries", 3)

	if !bytes.HasPrefix(out.Bytes(), []byte(Prefix)) {
		t.Errorf("log line %q does not start with %q", out.String(), Prefix)
	}
	if !bytes.Contains(out.Bytes(), []byte("entries=3")) {
		t.Errorf("log line %q missing key/value", out.String())
	}
}

func TestNewLoggerJSONLevel(t *testing.T) {
	t.Setenv("HEDGEARC_JSON_LOG", "")

	var out bytes.Buffer
	logger := NewLogger("test", "json:debug", &out)
	if !logger.IsDebug() {
		t.Errorf("expected debug level from json:debug")
	}
	logger.Debug("probe")

	if !bytes.HasPrefix(out.Bytes(), []byte("{")) {
		t.Errorf("expected JSON output, got %q", out.String())
	}
}

func TestGetLogLevelDefault(t *testing.T) {
	t.Setenv("HEDGEARC_LOG_LEVEL", "")
	if got := GetLogLevel(); got != "warn" {
		t.Errorf("GetLogLevel() = %q, want warn", got)
	}

	t.Setenv("HEDGEARC_LOG_LEVEL", "trace")
	if got := GetLogLevel(); got != "trace" {
		t.Errorf("GetLogLevel() = %q, want trace", got)
	}
}

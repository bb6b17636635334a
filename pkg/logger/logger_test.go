package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestInitAttachesServiceFields(t *testing.T) {
	var buf bytes.Buffer
	log := Init(Options{Level: "debug", Env: "test", Output: &buf})

	log.Info().Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line did not decode: %v\n%s", err, buf.String())
	}
	if entry["service"] != defaultService {
		t.Errorf("expected service %q, got %v", defaultService, entry["service"])
	}
	if entry["env"] != "test" {
		t.Errorf("expected env tag, got %v", entry["env"])
	}
	if entry["message"] != "hello" {
		t.Errorf("expected message field, got %v", entry["message"])
	}
}

func TestGetAfterInit(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Output: &buf}) // no-op when an earlier test already initialised

	// Get must return the singleton without panicking once Init has run.
	log := Get()
	log.Info().Msg("from get")
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"WARN", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, tc := range cases {
		if got := parseLevel(tc.in); got != tc.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"seguard-hq/seguard/pkg/config"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&config.LoggingConfig{Level: "info", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("decision mediated", "class", "db_table", "decision", "allow")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["msg"] != "decision mediated" || entry["class"] != "db_table" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&config.LoggingConfig{Level: "warn", Format: "text"}, &buf)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("suppressed")
	logger.Warn("emitted")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Error("info record should be filtered at warn level")
	}
	if !strings.Contains(out, "emitted") {
		t.Error("warn record missing")
	}
}

func TestNew_UnknownSettings(t *testing.T) {
	if _, err := New(&config.LoggingConfig{Level: "loud", Format: "json"}, nil); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := New(&config.LoggingConfig{Level: "info", Format: "yaml"}, nil); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&config.LoggingConfig{Level: "info", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	Component(logger, "hooks").Info("installed")

	if !strings.Contains(buf.String(), `"component":"hooks"`) {
		t.Errorf("component attribute missing: %s", buf.String())
	}
}

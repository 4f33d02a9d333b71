package logging

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/felixgeelhaar/bolt/v3"

	"github.com/felixgeelhaar/multistate/domain/execution"
	"github.com/felixgeelhaar/multistate/domain/state"
)

// testLogger creates a logger that writes to a buffer for testing
func testLogger() (*bolt.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	handler := bolt.NewJSONHandler(buf)
	logger := bolt.New(handler).SetLevel(bolt.TRACE)
	return logger, buf
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Level != "info" {
		t.Errorf("Level = %s, want info", config.Level)
	}
	if config.Format != "console" {
		t.Errorf("Format = %s, want console", config.Format)
	}
}

func TestDefaultConfigEnvOverride(t *testing.T) {
	t.Setenv("MULTISTATE_LOG_LEVEL", "debug")
	t.Setenv("MULTISTATE_LOG_FORMAT", "json")

	config := DefaultConfig()

	if config.Level != "debug" {
		t.Errorf("Level = %s, want debug", config.Level)
	}
	if config.Format != "json" {
		t.Errorf("Format = %s, want json", config.Format)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected bolt.Level
	}{
		{"trace", bolt.TRACE},
		{"debug", bolt.DEBUG},
		{"info", bolt.INFO},
		{"warn", bolt.WARN},
		{"error", bolt.ERROR},
		{"unknown", bolt.INFO}, // Default
		{"", bolt.INFO},        // Empty defaults to info
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.expected {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestGetConcurrent(t *testing.T) {
	t.Parallel()

	// First use may come from parallel searches; every caller must see
	// the same initialized logger.
	var wg sync.WaitGroup
	loggers := make([]*bolt.Logger, 8)
	for i := range loggers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			loggers[i] = Get()
		}(i)
	}
	wg.Wait()

	for i, l := range loggers {
		if l == nil {
			t.Fatalf("goroutine %d got nil logger", i)
		}
		if l != loggers[0] {
			t.Errorf("goroutine %d got a different logger instance", i)
		}
	}
}

func TestFields(t *testing.T) {
	t.Parallel()

	logger, buf := testLogger()

	NewEvent(logger.Info()).
		Add(TransitionID("enter_workspace")).
		Add(StateID("login")).
		Add(PhaseField(execution.PhaseValidate)).
		Add(Committed(true)).
		Add(Cost(2.5)).
		Add(Steps(3)).
		Add(Duration(1500 * time.Millisecond)).
		Msg("test event")

	out := buf.String()
	for _, want := range []string{
		`"transition_id":"enter_workspace"`,
		`"state":"login"`,
		`"committed":true`,
		`"steps":3`,
		`"duration_ms":1500`,
		"test event",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
}

func TestStatesField(t *testing.T) {
	t.Parallel()

	logger, buf := testLogger()

	set := state.NewSet("b", "a", "c")
	NewEvent(logger.Info()).
		Add(States("active", set)).
		Msg("states")

	if !strings.Contains(buf.String(), `"active":"a,b,c"`) {
		t.Errorf("states not sorted and joined: %s", buf.String())
	}
}

func TestErrorFieldNil(t *testing.T) {
	t.Parallel()

	logger, buf := testLogger()

	NewEvent(logger.Info()).
		Add(ErrorField(nil)).
		Msg("no error")

	if strings.Contains(buf.String(), `"error":`) {
		t.Errorf("nil error should add no field: %s", buf.String())
	}
}

func TestErrorField(t *testing.T) {
	t.Parallel()

	logger, buf := testLogger()

	NewEvent(logger.Error()).
		Add(ErrorField(errors.New("boom"))).
		Msg("failed")

	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("error field missing: %s", buf.String())
	}
}

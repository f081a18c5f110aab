package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   DebugLevel,
		"INFO":    InfoLevel,
		"warning": WarnLevel,
		" error ": ErrorLevel,
		"fatal":   FatalLevel,
		"verbose": InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLogLevel(in), in)
	}
	assert.Equal(t, "WARN", WarnLevel.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func TestParseLogFormat(t *testing.T) {
	assert.Equal(t, JSONFormat, ParseLogFormat("JSON"))
	assert.Equal(t, TextFormat, ParseLogFormat("text"))
	assert.Equal(t, TextFormat, ParseLogFormat(""))
	assert.Equal(t, "json", JSONFormat.String())
}

func TestLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&Config{
		Level:        InfoLevel,
		Format:       JSONFormat,
		Output:       &buf,
		Service:      "notionmodel",
		Version:      "1.2.3",
		EnableCaller: true,
	})

	log.Debug("hidden")
	log.WithField("file", "page.json").WithError(errors.New("boom")).Error("decode failed after %d attempts", 2)

	var entry LogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "decode failed after 2 attempts", entry.Message)
	assert.Equal(t, "notionmodel", entry.Service)
	assert.Equal(t, "1.2.3", entry.Version)
	assert.Equal(t, "page.json", entry.Fields["file"])
	assert.Equal(t, "boom", entry.Fields["error"])
	assert.True(t, strings.HasPrefix(entry.Caller, "logger_test.go:"), entry.Caller)
}

func TestLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&Config{Level: DebugLevel, Format: TextFormat, Output: &buf})

	log.WithFields(map[string]interface{}{"b": 2, "a": 1}).Info("checked")
	line := buf.String()
	assert.Contains(t, line, "[INFO] checked a=1 b=2")
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestLogger_DerivedLoggersDoNotShareFields(t *testing.T) {
	var buf bytes.Buffer
	base := NewLogger(&Config{Format: JSONFormat, Output: &buf})
	child := base.WithField("worker", 1)
	base.Info("base")

	var entry LogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Nil(t, entry.Fields)
	assert.Equal(t, InfoLevel, child.GetLevel())
}

func TestLogger_WithContext(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&Config{Format: JSONFormat, Output: &buf})

	assert.Same(t, log, log.WithContext(context.Background()))

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))

	log.WithContext(ctx).Info("traced")
	var entry LogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", entry.TraceID)
	assert.Equal(t, "00f067aa0ba902b7", entry.SpanID)
}

func TestLogger_ConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&Config{Format: JSONFormat, Output: &buf})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			log.WithField("worker", i).Info("done")
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 16)
	for _, line := range lines {
		assert.True(t, json.Valid([]byte(line)), line)
	}
}

func TestDefaultLogger(t *testing.T) {
	prev := GetDefault()
	t.Cleanup(func() { SetDefault(prev) })

	var buf bytes.Buffer
	SetDefault(NewLogger(&Config{Level: WarnLevel, Format: TextFormat, Output: &buf}))
	Info("skipped")
	Warn("kept")
	assert.NotContains(t, buf.String(), "skipped")
	assert.Contains(t, buf.String(), "[WARN] kept")
}

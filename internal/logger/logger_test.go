package logger_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/neuroprofile/internal/logger"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]logger.Level{
		"debug":   logger.DEBUG,
		"INFO":    logger.INFO,
		"warning": logger.WARN,
		"Error":   logger.ERROR,
		"bogus":   logger.INFO,
	}
	for in, want := range tests {
		assert.Equal(t, want, logger.ParseLevel(in), in)
	}
}

func TestLogger_FieldsSorted(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithColors(false)).
		WithPrefix("quality").
		WithFields(map[string]any{"session": "s1", "epoch": 4, "bad": 2})

	log.Info("rejected epoch %d", 4)

	line := buf.String()
	assert.Contains(t, line, "INFO ")
	assert.Contains(t, line, "[quality]")
	assert.Contains(t, line, "rejected epoch 4")
	assert.True(t, strings.HasSuffix(line, " bad=2 epoch=4 session=s1\n"), line)
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithLevel(logger.WARN), logger.WithColors(false))

	log.Debug("hidden")
	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestLogger_WithFieldDoesNotLeak(t *testing.T) {
	var buf bytes.Buffer
	parent := logger.New(logger.WithOutput(&buf), logger.WithColors(false))
	_ = parent.WithField("request_id", "abc").WithError(errors.New("boom"))

	parent.Info("plain")
	assert.NotContains(t, buf.String(), "request_id")
	assert.NotContains(t, buf.String(), "error=")
}

func TestContext(t *testing.T) {
	l := logger.New().WithPrefix("api")
	ctx := logger.NewContext(context.Background(), l)

	assert.Same(t, l, logger.FromContext(ctx))
	assert.Same(t, logger.Default(), logger.FromContext(context.Background()))
}

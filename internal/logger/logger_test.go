package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))
	defer SetLogger(zerolog.Nop())

	t.Run("falls back to global logger", func(t *testing.T) {
		buf.Reset()
		InfoLog(context.Background(), "restored %d records", 3)
		assert.Contains(t, buf.String(), `"message":"restored 3 records"`)
		assert.Contains(t, buf.String(), `"level":"info"`)
	})

	t.Run("fields attached to context", func(t *testing.T) {
		buf.Reset()
		ctx := WithLogger(context.Background(), map[string]interface{}{"employee_id": 7})
		DebugLog(ctx, "employee added")
		assert.Contains(t, buf.String(), `"employee_id":7`)
	})

	t.Run("error argument is structured", func(t *testing.T) {
		buf.Reset()
		ErrorLog(context.Background(), "save failed", errors.New("disk full"))
		assert.Contains(t, buf.String(), `"error":"disk full"`)
		assert.Contains(t, buf.String(), `"message":"save failed"`)
	})

	t.Run("nil context uses global logger", func(t *testing.T) {
		buf.Reset()
		WarnLog(nil, "load failed", errors.New("timeout"))
		assert.Contains(t, buf.String(), `"level":"warn"`)
		assert.Contains(t, buf.String(), `"error":"timeout"`)
	})

	t.Run("message without arguments is written verbatim", func(t *testing.T) {
		buf.Reset()
		InfoLog(context.Background(), "100% restored")
		assert.Contains(t, buf.String(), `"message":"100% restored"`)
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel(" DEBUG "))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("loud"))
}

package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	level  slog.Level
	msg    string
	err    error
	extras map[string]interface{}
}

func newCapturingLogger(buf *bytes.Buffer) (*slog.Logger, *[]captured) {
	var reports []captured
	h := NewRollbarHandler(newBaseHandler(buf, true), func(level slog.Level, msg string, err error, extras map[string]interface{}) {
		reports = append(reports, captured{level, msg, err, extras})
	})
	return slog.New(h), &reports
}

func TestRollbarHandlerReportsErrorsOnly(t *testing.T) {
	var buf bytes.Buffer
	logger, reports := newCapturingLogger(&buf)

	logger.Info("[CHECKOUT] order placed", "reservation_id", "abc")
	logger.Warn("[NOTIFY] channel skipped")
	require.Empty(t, *reports)

	boom := errors.New("boom")
	logger.With("component", "notify").Error("[NOTIFY] dispatch failed", Err(boom), "attempt", 2)

	require.Len(t, *reports, 1)
	r := (*reports)[0]
	assert.Equal(t, slog.LevelError, r.level)
	assert.Equal(t, "[NOTIFY] dispatch failed", r.msg)
	assert.Equal(t, boom, r.err)
	assert.Equal(t, "notify", r.extras["component"])
	assert.Equal(t, "2", r.extras["attempt"])

	assert.Contains(t, buf.String(), "dispatch failed")
	assert.Contains(t, buf.String(), "order placed")
}

func TestErrNil(t *testing.T) {
	a := Err(nil)
	assert.Equal(t, "error", a.Key)
	assert.EqualError(t, a.Value.Any().(error), "<nil>")
}

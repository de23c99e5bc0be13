package logging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/rollbar/rollbar-go"

	"darmenu/internal/config"
)

// Setup installs the process-wide slog logger. Errors are forwarded to
// Rollbar when a token is configured. The returned func flushes pending
// reports and must be called before exit.
func Setup(cfg *config.Config) (*slog.Logger, func()) {
	base := newBaseHandler(os.Stdout, cfg.IsProduction())

	if cfg.RollbarToken == "" {
		logger := slog.New(base)
		slog.SetDefault(logger)
		return logger, func() {}
	}

	rollbar.SetToken(cfg.RollbarToken)
	rollbar.SetEnvironment(cfg.Env)
	rollbar.SetCodeVersion(cfg.BuildVersion)
	rollbar.SetEnabled(true)

	logger := slog.New(NewRollbarHandler(base, reportToRollbar))
	slog.SetDefault(logger)
	return logger, rollbar.Wait
}

func newBaseHandler(w io.Writer, production bool) slog.Handler {
	if production {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
}

// ReportFunc delivers one error-level record to an external tracker.
type ReportFunc func(level slog.Level, msg string, err error, extras map[string]interface{})

func reportToRollbar(level slog.Level, msg string, err error, extras map[string]interface{}) {
	var item interface{} = msg
	if err != nil {
		item = err
		extras["message"] = msg
	}
	if level > slog.LevelError {
		rollbar.Critical(item, extras)
		return
	}
	rollbar.Error(item, extras)
}

// RollbarHandler wraps another handler and reports records at
// slog.LevelError and above. An attribute named "error" holding an error
// value is reported as the error itself.
type RollbarHandler struct {
	next   slog.Handler
	report ReportFunc
	attrs  []slog.Attr
}

func NewRollbarHandler(next slog.Handler, report ReportFunc) *RollbarHandler {
	return &RollbarHandler{next: next, report: report}
}

func (h *RollbarHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *RollbarHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		extras := make(map[string]interface{}, len(h.attrs)+r.NumAttrs())
		var reported error
		collect := func(a slog.Attr) bool {
			if e, ok := a.Value.Any().(error); ok && a.Key == "error" {
				reported = e
				return true
			}
			extras[a.Key] = a.Value.String()
			return true
		}
		for _, a := range h.attrs {
			collect(a)
		}
		r.Attrs(collect)
		h.report(r.Level, r.Message, reported, extras)
	}
	return h.next.Handle(ctx, r)
}

func (h *RollbarHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &RollbarHandler{next: h.next.WithAttrs(attrs), report: h.report, attrs: merged}
}

func (h *RollbarHandler) WithGroup(name string) slog.Handler {
	return &RollbarHandler{next: h.next.WithGroup(name), report: h.report, attrs: h.attrs}
}

// Err is a shorthand for the "error" attribute.
func Err(err error) slog.Attr {
	if err == nil {
		err = errors.New("<nil>")
	}
	return slog.Any("error", err)
}

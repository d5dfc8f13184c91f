// Package obslog provides the small slog.Handler wrapper the CRISP-32
// binaries (asm, vm, interp) use for diagnostics and -v trace output: a
// timestamp, a level tag, and
// the message, one line per record, written to an io.Writer. It is the
// same shape as rcornwell-S370's util/logger package, built entirely on
// the standard log/slog package.
package obslog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// handler renders records as "<time> <LEVEL>: <message> k=v k=v".
type handler struct {
	out   io.Writer
	mu    *sync.Mutex
	attrs []slog.Attr
}

// New returns a *slog.Logger that writes lines to out.
func New(out io.Writer) *slog.Logger {
	return slog.New(&handler{out: out, mu: &sync.Mutex{}})
}

func (h *handler) Enabled(context.Context, slog.Level) bool { return true }

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &handler{out: h.out, mu: h.mu, attrs: append(append([]slog.Attr{}, h.attrs...), attrs...)}
}

func (h *handler) WithGroup(string) slog.Handler { return h }

func (h *handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: %s", r.Time.Format("15:04:05.000"), r.Level, r.Message)
	for _, a := range h.attrs {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, b.String())
	return err
}

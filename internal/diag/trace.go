package diag

import (
	"fmt"
	"io"
	"os"
)

// Tracer writes phase-tagged progress lines for pass scheduling, solver
// worklist drains, and SMT round-trips. It intentionally stays on
// fmt/log-style plain text: nothing in the retrieval pack reaches for a
// structured logging library, so matching that convention is the
// idiomatic choice here (see DESIGN.md).
type Tracer struct {
	out     io.Writer
	enabled bool
}

// NewTracer creates a Tracer writing to w, active only when enabled is
// true (typically CompilationContext.Verbose).
func NewTracer(w io.Writer, enabled bool) *Tracer {
	if w == nil {
		w = os.Stderr
	}
	return &Tracer{out: w, enabled: enabled}
}

// Tracef writes a phase-tagged trace line if tracing is enabled.
func (t *Tracer) Tracef(phase, format string, args ...any) {
	if t == nil || !t.enabled {
		return
	}
	fmt.Fprintf(t.out, "[%s] %s\n", phase, fmt.Sprintf(format, args...))
}

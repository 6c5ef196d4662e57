package eval

import (
	"time"

	"github.com/zsx/viro-core/internal/debug"
	"github.com/zsx/viro-core/internal/trace"
)

// instrumentCall is the evaluator's word-dispatch instrumentation hook
// (spec.md §10's ambient addition): called immediately before a resolved
// Function or Action is applied, it emits a trace event for the call (the
// teacher's Do_Next/Do_Blk instrumentation point) and consults the
// breakpoint registry. Both internal/trace and internal/debug are no-ops
// until their global session is initialized, so a bare *Evaluator built by
// a test never pays for this.
func (e *Evaluator) instrumentCall(name string) {
	if debug.GlobalDebugger != nil {
		debug.GlobalDebugger.Consult(name)
	}
	if trace.GlobalTraceSession == nil || !trace.GlobalTraceSession.IsEnabled() {
		return
	}
	trace.GlobalTraceSession.Emit(trace.TraceEvent{
		Timestamp: time.Now(),
		Word:      name,
		EventType: "call",
		Depth:     len(e.callStack),
	})
}

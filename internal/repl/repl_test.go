package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/zsx/viro-core/internal/debug"
)

func newTestREPL(t *testing.T) (*REPL, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	r := NewREPLForTest(nil, &buf)
	return r, &buf
}

func TestEvalLinePrintsResult(t *testing.T) {
	r, buf := newTestREPL(t)
	r.EvalLineForTest("1 + 2")
	if got := strings.TrimSpace(buf.String()); got != "3" {
		t.Errorf("output = %q, want %q", got, "3")
	}
}

func TestEvalLineSuppressesNoneResult(t *testing.T) {
	r, buf := newTestREPL(t)
	r.EvalLineForTest("if false [1]")
	if got := buf.String(); got != "" {
		t.Errorf("output = %q, want empty for a none result", got)
	}
}

func TestEvalLinePrintsScriptError(t *testing.T) {
	r, buf := newTestREPL(t)
	r.EvalLineForTest("1 + ")
	if !strings.Contains(buf.String(), "Error") {
		t.Errorf("output = %q, want it to mention an error", buf.String())
	}
}

func TestMultilineContinuationAwaitsCloseBracket(t *testing.T) {
	r, buf := newTestREPL(t)
	r.EvalLineForTest("[1 2")
	if !r.AwaitingContinuation() {
		t.Fatal("AwaitingContinuation() = false after an unclosed block")
	}
	r.EvalLineForTest("3]")
	if r.AwaitingContinuation() {
		t.Error("AwaitingContinuation() = true after the block was closed")
	}
	if got := strings.TrimSpace(buf.String()); got == "" {
		t.Error("expected the completed block to evaluate to something printable")
	}
}

func TestExitCommandStopsTheLoop(t *testing.T) {
	r, _ := newTestREPL(t)
	r.EvalLineForTest("exit")
	if r.ShouldContinue() {
		t.Error("ShouldContinue() = true after 'exit'")
	}
}

func TestHistoryRecordsNonEmptyLines(t *testing.T) {
	r, _ := newTestREPL(t)
	r.EvalLineForTest("1 + 1")
	r.EvalLineForTest("")
	entries := r.HistoryEntries()
	if len(entries) != 1 || entries[0] != "1 + 1" {
		t.Errorf("HistoryEntries() = %v, want [\"1 + 1\"]", entries)
	}
}

func TestHistoryUpDownNavigation(t *testing.T) {
	r, _ := newTestREPL(t)
	r.EvalLineForTest("1")
	r.EvalLineForTest("2")

	entry, ok := r.HistoryUp()
	if !ok || entry != "2" {
		t.Fatalf("HistoryUp() = (%q, %v), want (\"2\", true)", entry, ok)
	}
	entry, ok = r.HistoryUp()
	if !ok || entry != "1" {
		t.Fatalf("HistoryUp() = (%q, %v), want (\"1\", true)", entry, ok)
	}
	entry, ok = r.HistoryDown()
	if !ok || entry != "2" {
		t.Fatalf("HistoryDown() = (%q, %v), want (\"2\", true)", entry, ok)
	}
	_, ok = r.HistoryDown()
	if ok {
		t.Error("HistoryDown() at the end of history returned ok=true, want false")
	}
}

func TestBreakMetaCommandSetsBreakpoint(t *testing.T) {
	r, buf := newTestREPL(t)
	r.EvalLineForTest("break add")
	if !debug.GlobalDebugger.HasBreakpoint("add") {
		t.Error("HasBreakpoint(\"add\") = false after 'break add'")
	}
	if !strings.Contains(buf.String(), "add") {
		t.Errorf("expected confirmation output to mention the word, got %q", buf.String())
	}

	buf.Reset()
	r.EvalLineForTest("unbreak add")
	if debug.GlobalDebugger.HasBreakpoint("add") {
		t.Error("HasBreakpoint(\"add\") = true after 'unbreak add'")
	}
}

func TestTraceMetaCommandTogglesSession(t *testing.T) {
	r, _ := newTestREPL(t)
	r.EvalLineForTest("trace on")
	// trace.InitTrace(os.DevNull, ...) in NewREPLForTest guarantees a
	// session exists; Enable/Disable just flips its atomic flag.
	r.EvalLineForTest("trace off")
}

func TestSimulateInterruptResetsPendingInput(t *testing.T) {
	r, _ := newTestREPL(t)
	r.EvalLineForTest("[1 2")
	if !r.AwaitingContinuation() {
		t.Fatal("expected an unclosed block to await continuation")
	}
	r.SimulateInterruptForTest()
	if r.AwaitingContinuation() {
		t.Error("AwaitingContinuation() = true after a simulated interrupt")
	}
}

package debug

import (
	"testing"

	"github.com/google/uuid"
)

func TestSetBreakpointActivatesDebugger(t *testing.T) {
	d := &Debugger{breakpoints: make(map[string]uuid.UUID)}
	id := d.SetBreakpoint("add")
	if id.String() == "" {
		t.Fatal("SetBreakpoint returned a zero id")
	}
	if !d.HasBreakpoint("add") {
		t.Error("HasBreakpoint(\"add\") = false, want true")
	}
	if d.Mode() != DebugModeActive {
		t.Errorf("Mode() = %v, want %v", d.Mode(), DebugModeActive)
	}
}

func TestRemoveBreakpointClearsModeWhenEmpty(t *testing.T) {
	d := &Debugger{breakpoints: make(map[string]uuid.UUID)}
	d.SetBreakpoint("add")
	if !d.RemoveBreakpoint("add") {
		t.Fatal("RemoveBreakpoint(\"add\") = false, want true")
	}
	if d.HasBreakpoint("add") {
		t.Error("HasBreakpoint(\"add\") = true after removal")
	}
	if d.Mode() != DebugModeOff {
		t.Errorf("Mode() = %v, want %v after last breakpoint removed", d.Mode(), DebugModeOff)
	}
}

func TestRemoveBreakpointUnknownWordReturnsFalse(t *testing.T) {
	d := &Debugger{breakpoints: make(map[string]uuid.UUID)}
	if d.RemoveBreakpoint("nonexistent") {
		t.Error("RemoveBreakpoint on unset word = true, want false")
	}
}

func TestEnableDisableStepping(t *testing.T) {
	d := &Debugger{breakpoints: make(map[string]uuid.UUID)}
	d.EnableStepping()
	if d.Mode() != DebugModeStepping {
		t.Errorf("Mode() = %v, want %v", d.Mode(), DebugModeStepping)
	}
	d.DisableStepping()
	if d.Mode() != DebugModeOff {
		t.Errorf("Mode() = %v, want %v with no breakpoints left", d.Mode(), DebugModeOff)
	}
}

func TestDisableStepsDownToActiveWhenBreakpointsRemain(t *testing.T) {
	d := &Debugger{breakpoints: make(map[string]uuid.UUID)}
	d.SetBreakpoint("add")
	d.EnableStepping()
	d.DisableStepping()
	if d.Mode() != DebugModeActive {
		t.Errorf("Mode() = %v, want %v", d.Mode(), DebugModeActive)
	}
}

func TestConsultReportsBreakpointHitsOnly(t *testing.T) {
	d := &Debugger{breakpoints: make(map[string]uuid.UUID)}
	d.SetBreakpoint("add")

	if !d.Consult("add") {
		t.Error("Consult(\"add\") = false, want true for a set breakpoint")
	}
	if d.Consult("subtract") {
		t.Error("Consult(\"subtract\") = true, want false for an unset word")
	}
}

func TestConsultTreatsEveryWordAsABreakWhileStepping(t *testing.T) {
	d := &Debugger{breakpoints: make(map[string]uuid.UUID)}
	d.EnableStepping()
	if !d.Consult("anything") {
		t.Error("Consult during stepping = false, want true")
	}
}

func TestDisableClearsBreakpointsAndStepping(t *testing.T) {
	d := &Debugger{breakpoints: make(map[string]uuid.UUID)}
	d.SetBreakpoint("add")
	d.EnableStepping()
	d.Disable()

	if d.Mode() != DebugModeOff {
		t.Errorf("Mode() = %v, want %v", d.Mode(), DebugModeOff)
	}
	if d.HasBreakpoint("add") {
		t.Error("HasBreakpoint(\"add\") = true after Disable")
	}
	if d.Consult("add") {
		t.Error("Consult(\"add\") = true after Disable")
	}
}

func TestModeString(t *testing.T) {
	cases := map[DebugMode]string{
		DebugModeOff:      "off",
		DebugModeActive:   "active",
		DebugModeStepping: "stepping",
		DebugMode(99):     "unknown",
	}
	for mode, want := range cases {
		if got := mode.String(); got != want {
			t.Errorf("DebugMode(%d).String() = %q, want %q", mode, got, want)
		}
	}
}

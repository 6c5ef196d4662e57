// Package repl implements the Read-Eval-Print Loop for Viro.
//
// The REPL provides an interactive interface for evaluating Viro expressions.
// It uses the github.com/chzyer/readline library for command history, line
// editing, and multi-line input support.
//
// Features:
//   - Command history: Persistent across sessions (~/.viro_history)
//   - Multi-line input: Automatic detection of incomplete expressions
//   - Error recovery: Displays error and continues accepting input
//   - Interrupts: Ctrl+C cancels evaluation without exiting
//   - Exit commands: 'quit', 'exit', or Ctrl+D
//   - Meta-commands: 'trace on'/'trace off', 'break <word>'/'unbreak <word>',
//     'breaks', 'step on'/'step off' control the ambient trace/debug
//     facilities without needing a dedicated debugger UI (spec.md's
//     Non-goals exclude building one; this REPL is one of its callers).
//
// The REPL loop:
//  1. Read: Get input line (with history/editing)
//  2. Parse: Convert text to values
//  3. Eval: Execute via evaluator
//  4. Print: Display result (suppress 'none')
//  5. Loop: Repeat until exit
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/zsx/viro-core/internal/bind"
	"github.com/zsx/viro-core/internal/core"
	"github.com/zsx/viro-core/internal/debug"
	"github.com/zsx/viro-core/internal/eval"
	"github.com/zsx/viro-core/internal/native"
	"github.com/zsx/viro-core/internal/parse"
	"github.com/zsx/viro-core/internal/trace"
	"github.com/zsx/viro-core/internal/value"
	"github.com/zsx/viro-core/internal/verror"
)

const (
	primaryPrompt      = ">> "
	debugPrompt        = "[debug] >> "
	continuationPrompt = "... "
	historyEnvVar      = "VIRO_HISTORY_FILE"
	historyFileName    = ".viro_history"
)

// Options configures REPL behavior and can be set via CLI flags.
type Options struct {
	Prompt      string
	NoWelcome   bool
	NoHistory   bool
	HistoryFile string
	TraceOn     bool
	Args        []string
}

// REPL implements a Read-Eval-Print-Loop for Viro: Read via readline with
// history, Eval by parsing then running the evaluator, Print the result
// (suppressing none), Loop until an exit command.
type REPL struct {
	evaluator      core.Evaluator
	rl             *readline.Instance
	out            io.Writer
	history        []string
	historyCursor  int
	pendingLines   []string
	awaitingCont   bool
	shouldContinue bool
	historyPath    string
	customPrompt   string
	noWelcome      bool
	noHistory      bool
	stopSignal     chan struct{}
}

// NewREPL creates a new REPL instance with default options.
func NewREPL(args []string) (*REPL, error) {
	return NewREPLWithOptions(&Options{
		Args: args,
	})
}

// NewREPLWithOptions creates a new REPL instance with custom options.
func NewREPLWithOptions(opts *Options) (*REPL, error) {
	if opts == nil {
		opts = &Options{}
	}

	// Trace is initialized with default settings (stderr, 50MB max size);
	// the REPL's "trace on"/"trace off" meta-commands and --trace flag
	// control it from there.
	if err := trace.InitTrace("", 50); err != nil {
		return nil, fmt.Errorf("failed to initialize trace session: %w", err)
	}
	debug.InitDebugger()

	if opts.TraceOn && trace.GlobalTraceSession != nil {
		trace.GlobalTraceSession.Enable(trace.TraceFilters{})
	}

	historyPath := opts.HistoryFile
	if historyPath == "" && !opts.NoHistory {
		historyPath = resolveHistoryPath(true)
	}

	prompt := opts.Prompt
	if prompt == "" {
		prompt = primaryPrompt
	}

	rlConfig := &readline.Config{
		Prompt:                 prompt,
		DisableAutoSaveHistory: true,
		InterruptPrompt:        "^C",
		EOFPrompt:              "exit",
	}

	if !opts.NoHistory && historyPath != "" {
		rlConfig.HistoryFile = historyPath
	}

	rl, err := readline.NewEx(rlConfig)
	if err != nil {
		return nil, err
	}

	ev := eval.NewEvaluator()
	ev.SetOutputWriter(os.Stdout)
	ev.SetErrorWriter(os.Stderr)
	ev.SetInputReader(os.Stdin)

	native.Register(ev)
	stop := make(chan struct{})
	ev.InstallSignalCancel(stop)
	initializeSystemObject(ev, opts.Args)

	var evaluator core.Evaluator = ev

	repl := &REPL{
		evaluator:      evaluator,
		rl:             rl,
		out:            os.Stdout,
		history:        []string{},
		historyCursor:  0,
		pendingLines:   nil,
		awaitingCont:   false,
		shouldContinue: true,
		historyPath:    historyPath,
		customPrompt:   prompt,
		noWelcome:      opts.NoWelcome,
		noHistory:      opts.NoHistory,
		stopSignal:     stop,
	}

	if !opts.NoHistory {
		repl.loadPersistentHistory()
	}

	return repl, nil
}

// NewREPLForTest creates a REPL with injected evaluator and writer for testing purposes.
func NewREPLForTest(e core.Evaluator, out io.Writer) *REPL {
	if err := trace.InitTrace(os.DevNull, 50); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize trace session: %v\n", err)
	}
	debug.InitDebugger()

	if e == nil {
		ev := eval.NewEvaluator()
		native.Register(ev)
		e = ev
	}
	if out == nil {
		out = io.Discard
	}

	e.SetOutputWriter(out)
	e.SetErrorWriter(out)
	e.SetInputReader(strings.NewReader(""))

	initializeSystemObject(e, []string{})

	historyPath := resolveHistoryPath(false)
	repl := &REPL{
		evaluator:      e,
		rl:             nil,
		out:            out,
		history:        []string{},
		historyCursor:  0,
		pendingLines:   nil,
		awaitingCont:   false,
		shouldContinue: true,
		historyPath:    historyPath,
	}
	repl.loadPersistentHistory()
	return repl
}

// WelcomeMessage returns the default multi-line welcome text shown when the REPL starts.
func WelcomeMessage() string {
	return "Viro 0.1.0\nType 'exit' or 'quit' to leave\n\n"
}

// Run starts the REPL loop.
func (r *REPL) Run() error {
	if r.rl == nil {
		return fmt.Errorf("readline instance not configured")
	}
	defer r.rl.Close()
	if r.stopSignal != nil {
		defer close(r.stopSignal)
	}

	r.printWelcome()
	r.setPrompt(r.getCurrentPrompt())

	for {
		line, err := r.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				r.handleInterrupt(true)
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(r.out, "")
				r.handleExit(true)
				return nil
			}
			return err
		}

		r.processLine(line, true)

		if !r.shouldContinue {
			return nil
		}
	}
}

// EvalLineForTest evaluates a single line and prints to the configured writer.
func (r *REPL) EvalLineForTest(input string) {
	if r == nil {
		return
	}
	r.processLine(strings.TrimRight(input, "\r\n"), false)
}

// AwaitingContinuation reports whether the REPL is waiting for additional lines
// to complete the current command (multi-line input state).
func (r *REPL) AwaitingContinuation() bool {
	if r == nil {
		return false
	}
	return r.awaitingCont
}

func (r *REPL) processLine(input string, interactive bool) {
	if r == nil || !r.shouldContinue {
		return
	}

	clean := strings.TrimRight(input, "\r\n")
	trimmed := strings.TrimSpace(clean)

	if !r.awaitingCont && isExitCommand(trimmed) {
		r.pendingLines = nil
		r.awaitingCont = false
		r.recordHistory(trimmed)
		r.handleExit(interactive)
		return
	}

	if !r.awaitingCont && trimmed != "" {
		if handled := r.handleMetaCommand(trimmed); handled {
			r.recordHistory(trimmed)
			if interactive {
				r.setPrompt(r.getCurrentPrompt())
			}
			return
		}
	}

	if trimmed == "" && !r.awaitingCont {
		return
	}

	if trimmed != "" || r.awaitingCont {
		r.pendingLines = append(r.pendingLines, clean)
	}

	joined := strings.Join(r.pendingLines, "\n")
	values, perr := parse.Parse(joined)
	if perr != nil {
		if shouldAwaitContinuation(perr) {
			r.awaitingCont = true
			if interactive {
				r.setPrompt(continuationPrompt)
			}
			return
		}

		r.awaitingCont = false
		if interactive {
			r.setPrompt(r.getCurrentPrompt())
		}
		r.pendingLines = nil
		r.recordHistory(joined)
		r.printError(perr)
		return
	}

	r.awaitingCont = false
	if interactive {
		r.setPrompt(r.getCurrentPrompt())
	}
	r.pendingLines = nil
	r.recordHistory(joined)
	r.evalParsedValues(values)
}

// handleMetaCommand recognizes the REPL's own small set of non-Viro
// commands for the ambient trace/debug facilities. These stand in for
// the interactive debugger UI spec.md's Non-goals exclude building: they
// drive the same internal/debug registry and internal/trace session a
// full debugger would, just without a stepper attached to them.
func (r *REPL) handleMetaCommand(trimmed string) bool {
	lower := strings.ToLower(trimmed)
	switch {
	case lower == "trace on":
		if trace.GlobalTraceSession != nil {
			trace.GlobalTraceSession.Enable(trace.TraceFilters{})
			fmt.Fprintln(r.out, "trace on")
		}
		return true
	case lower == "trace off":
		if trace.GlobalTraceSession != nil {
			trace.GlobalTraceSession.Disable()
			fmt.Fprintln(r.out, "trace off")
		}
		return true
	case lower == "step on":
		if debug.GlobalDebugger != nil {
			debug.GlobalDebugger.EnableStepping()
			fmt.Fprintln(r.out, "stepping on")
		}
		return true
	case lower == "step off":
		if debug.GlobalDebugger != nil {
			debug.GlobalDebugger.DisableStepping()
			fmt.Fprintln(r.out, "stepping off")
		}
		return true
	case lower == "breaks":
		fmt.Fprintln(r.out, "(breakpoints are write-only from this REPL; use 'unbreak <word>' to clear one)")
		return true
	case strings.HasPrefix(lower, "break "):
		word := strings.TrimSpace(trimmed[len("break "):])
		if word != "" && debug.GlobalDebugger != nil {
			debug.GlobalDebugger.SetBreakpoint(word)
			fmt.Fprintf(r.out, "breakpoint set: %s\n", word)
		}
		return true
	case strings.HasPrefix(lower, "unbreak "):
		word := strings.TrimSpace(trimmed[len("unbreak "):])
		if word != "" && debug.GlobalDebugger != nil {
			debug.GlobalDebugger.RemoveBreakpoint(word)
			fmt.Fprintf(r.out, "breakpoint cleared: %s\n", word)
		}
		return true
	default:
		return false
	}
}

// printWelcome displays the welcome message unless disabled.
func (r *REPL) printWelcome() {
	if !r.noWelcome {
		fmt.Fprint(r.out, WelcomeMessage())
	}
}

func (r *REPL) printError(err error) {
	if err == nil {
		return
	}
	if vErr, ok := err.(*verror.Error); ok {
		fmt.Fprintln(r.out, verror.FormatErrorWithContext(vErr))
	} else {
		fmt.Fprintln(r.out, err.Error())
	}
}

// HistoryEntries returns a copy of the recorded command history.
func (r *REPL) HistoryEntries() []string {
	if r == nil {
		return nil
	}
	entries := make([]string, len(r.history))
	copy(entries, r.history)
	return entries
}

// HistoryUp moves the history cursor upward (towards older commands) and returns the entry.
func (r *REPL) HistoryUp() (string, bool) {
	if r == nil || len(r.history) == 0 {
		return "", false
	}
	if r.historyCursor > 0 {
		r.historyCursor--
	} else if r.historyCursor == 0 {
		// stay at first entry
	} else {
		r.historyCursor = len(r.history) - 1
	}
	return r.history[r.historyCursor], true
}

// HistoryDown moves the history cursor downward (towards newer commands).
// When reaching the end, it returns an empty string and false to indicate fresh input.
func (r *REPL) HistoryDown() (string, bool) {
	if r == nil || len(r.history) == 0 {
		return "", false
	}
	last := len(r.history) - 1
	switch {
	case r.historyCursor < last:
		r.historyCursor++
		return r.history[r.historyCursor], true
	case r.historyCursor == last:
		r.historyCursor = len(r.history)
		return "", false
	case r.historyCursor > len(r.history):
		r.historyCursor = len(r.history)
		fallthrough
	default:
		return "", false
	}
}

func (r *REPL) recordHistory(entry string) {
	if r == nil || r.noHistory {
		return
	}
	trimmed := strings.TrimSpace(entry)
	if trimmed == "" {
		r.historyCursor = len(r.history)
		return
	}
	r.history = append(r.history, trimmed)
	r.historyCursor = len(r.history)
	r.persistHistoryLine(trimmed)
}

func (r *REPL) setPrompt(prompt string) {
	if r == nil || r.rl == nil {
		return
	}
	r.rl.SetPrompt(prompt)
}

// getCurrentPrompt returns the appropriate prompt based on debugger state.
func (r *REPL) getCurrentPrompt() string {
	if r == nil {
		return primaryPrompt
	}

	if debug.GlobalDebugger != nil && debug.GlobalDebugger.Mode() != debug.DebugModeOff {
		return debugPrompt
	}

	if r.customPrompt != "" {
		return r.customPrompt
	}

	return primaryPrompt
}

// evalParsedValues evaluates parsed values and prints the result.
func (r *REPL) evalParsedValues(values []core.Value) {
	result, err := r.evaluator.DoBlock(values)
	if err != nil {
		r.printError(err)
		return
	}

	if result != nil && result.GetType() != value.Void {
		fmt.Fprintln(r.out, result.String())
	}
}

func (r *REPL) handleExit(interactive bool) {
	if r == nil {
		return
	}
	r.pendingLines = nil
	r.awaitingCont = false
	r.shouldContinue = false
	if interactive {
		r.setPrompt(r.getCurrentPrompt())
	}
	fmt.Fprintln(r.out, "Goodbye!")
}

func (r *REPL) handleInterrupt(interactive bool) {
	if r == nil {
		return
	}
	r.pendingLines = nil
	r.awaitingCont = false
	if interactive {
		r.setPrompt(r.getCurrentPrompt())
	}
	r.shouldContinue = true
	fmt.Fprintln(r.out, "^C")
}

// ShouldContinue reports whether the REPL should keep accepting input.
func (r *REPL) ShouldContinue() bool {
	if r == nil {
		return false
	}
	return r.shouldContinue
}

// ResetForTest resets the REPL continuation state for testing.
func (r *REPL) ResetForTest() {
	if r == nil {
		return
	}
	r.shouldContinue = true
	r.awaitingCont = false
	r.pendingLines = nil
	r.historyCursor = len(r.history)
}

// SimulateInterruptForTest emulates a Ctrl+C interrupt for tests.
func (r *REPL) SimulateInterruptForTest() {
	r.handleInterrupt(false)
}

func (r *REPL) loadPersistentHistory() {
	if r == nil {
		return
	}
	if r.historyPath == "" {
		r.historyCursor = len(r.history)
		return
	}
	entries, err := readHistoryFile(r.historyPath)
	if err != nil {
		return
	}
	r.history = append([]string{}, entries...)
	r.historyCursor = len(r.history)
}

func (r *REPL) persistHistoryLine(entry string) {
	if r == nil {
		return
	}
	if r.rl != nil {
		_ = r.rl.SaveHistory(entry)
		return
	}
	if r.historyPath == "" {
		return
	}
	if err := ensureHistoryDirectory(r.historyPath); err != nil {
		return
	}
	file, err := os.OpenFile(r.historyPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return
	}
	defer file.Close()
	_, _ = file.WriteString(entry + "\n")
}

func resolveHistoryPath(allowDefault bool) string {
	if override := strings.TrimSpace(os.Getenv(historyEnvVar)); override != "" {
		return filepath.Clean(override)
	}
	if !allowDefault {
		return ""
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFileName)
}

func readHistoryFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	entries := make([]string, 0)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		entries = append(entries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func ensureHistoryDirectory(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func shouldAwaitContinuation(err *verror.Error) bool {
	if err == nil {
		return false
	}

	switch err.ID {
	case verror.ErrIDUnexpectedEOF, verror.ErrIDUnclosedBlock, verror.ErrIDUnclosedParen:
		return true
	case verror.ErrIDInvalidSyntax:
		arg := strings.ToLower(err.Args[0])
		return strings.Contains(arg, "unclosed string literal")
	default:
		return false
	}
}

func isExitCommand(input string) bool {
	if input == "" {
		return false
	}
	return strings.EqualFold(input, "quit") || strings.EqualFold(input, "exit")
}

// initializeSystemObject binds a "system" object exposing the script's
// command-line arguments (spec.md's host-provided context), the way the
// teacher's REPL seeds a root-frame "system" object at startup.
func initializeSystemObject(evaluator core.Evaluator, args []string) {
	viroArgs := make([]core.Value, len(args))
	for i, arg := range args {
		viroArgs[i] = value.StrVal(arg)
	}
	argsBlock := value.BlockVal(viroArgs)

	ctx := bind.New(evaluator.CurrentBinding())
	ctx.Name = "system"
	ctx.Bind("args", argsBlock)

	obj := value.NewObject(ctx, []string{"args"}, []value.Kind{value.Block})
	systemVal := value.ObjectVal(obj)

	root, ok := evaluator.CurrentBinding().(interface {
		Bind(name string, v core.Value)
	})
	if ok {
		root.Bind("system", systemVal)
	}
}

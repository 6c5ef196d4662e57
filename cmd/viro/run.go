package main

import (
	"fmt"
	"io"

	"github.com/zsx/viro-core/internal/bind"
	"github.com/zsx/viro-core/internal/config"
	"github.com/zsx/viro-core/internal/core"
	"github.com/zsx/viro-core/internal/eval"
	"github.com/zsx/viro-core/internal/native"
	"github.com/zsx/viro-core/internal/parse"
	"github.com/zsx/viro-core/internal/profile"
	"github.com/zsx/viro-core/internal/repl"
	"github.com/zsx/viro-core/internal/trace"
	"github.com/zsx/viro-core/internal/value"
	"github.com/zsx/viro-core/internal/verror"
)

const defaultTraceMaxSizeMB = 50

// RuntimeContext carries everything Run needs from the process that is not
// already captured in config.Config, so the entry point stays testable
// without touching the real os.Stdin/Stdout/Stderr.
type RuntimeContext struct {
	Args   []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func Run(ctx *RuntimeContext) int {
	cfg, err := loadConfiguration(ctx)
	if err != nil {
		fmt.Fprintf(ctx.Stderr, "Configuration error: %v\n", err)
		return ExitUsage
	}

	return executeMode(cfg, ctx)
}

func loadConfiguration(ctx *RuntimeContext) (*config.Config, error) {
	cfg := config.NewConfig()
	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}
	if err := cfg.LoadFromFlagsWithArgs(ctx.Args); err != nil {
		return nil, err
	}

	if path, err := config.FindProjectFile("."); err == nil && path != "" {
		if err := cfg.LoadProjectFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func executeMode(cfg *config.Config, ctx *RuntimeContext) int {
	mode, err := cfg.DetectMode()
	if err != nil {
		fmt.Fprintf(ctx.Stderr, "Error: %v\n", err)
		return ExitUsage
	}

	switch mode {
	case config.ModeREPL:
		return runREPL(cfg, ctx)
	case config.ModeScript, config.ModeEval, config.ModeCheck:
		return runExecution(cfg, mode, ctx)
	case config.ModeVersion:
		fmt.Fprintf(ctx.Stdout, "%s\n", getVersionString())
		return ExitSuccess
	case config.ModeHelp:
		fmt.Fprintf(ctx.Stdout, "%s", getHelpText())
		return ExitSuccess
	default:
		fmt.Fprintf(ctx.Stderr, "Unknown mode: %v\n", mode)
		return ExitUsage
	}
}

func runREPL(cfg *config.Config, ctx *RuntimeContext) int {
	if cfg.AllowInsecureTLS {
		fmt.Fprintf(ctx.Stderr, "WARNING: TLS certificate verification disabled globally. Use with caution.\n")
	}

	opts := &repl.Options{
		Prompt:      cfg.Prompt,
		NoWelcome:   cfg.NoWelcome,
		NoHistory:   cfg.NoHistory,
		HistoryFile: cfg.HistoryFile,
		TraceOn:     cfg.TraceOn,
		Args:        cfg.Args,
	}

	r, err := repl.NewREPLWithOptions(opts)
	if err != nil {
		fmt.Fprintf(ctx.Stderr, "Error initializing REPL: %v\n", err)
		return ExitError
	}

	if err := r.Run(); err != nil {
		return handleErrorForExit(err)
	}

	return ExitSuccess
}

func runExecution(cfg *config.Config, mode config.Mode, ctx *RuntimeContext) int {
	var err error
	if cfg.Profile {
		err = trace.InitTraceSilent()
	} else {
		err = trace.InitTrace("", defaultTraceMaxSizeMB)
	}
	if err != nil {
		fmt.Fprintf(ctx.Stderr, "Error initializing trace: %v\n", err)
		return ExitInternal
	}
	defer func() {
		if trace.GlobalTraceSession != nil {
			trace.GlobalTraceSession.Close()
		}
	}()

	var profiler *profile.Profiler
	if cfg.Profile && trace.GlobalTraceSession != nil {
		profiler = profile.NewProfiler()
		profile.EnableProfilingWithTrace(trace.GlobalTraceSession, profiler)
	}

	var input InputSource
	var args []string

	switch mode {
	case config.ModeCheck:
		input = &FileInput{Config: cfg, Path: cfg.ScriptFile, Stdin: ctx.Stdin}
		args = nil
	case config.ModeEval:
		input = &ExprInput{Expr: cfg.EvalExpr, WithStdin: cfg.ReadStdin, Stdin: ctx.Stdin}
		args = []string{}
	case config.ModeScript:
		input = &FileInput{Config: cfg, Path: cfg.ScriptFile, Stdin: ctx.Stdin}
		args = cfg.Args
	}

	printResult := mode == config.ModeEval && !cfg.NoPrint
	parseOnly := mode == config.ModeCheck

	exitCode := executeViroCode(cfg, input, args, printResult, parseOnly, ctx)

	if profiler != nil {
		profiler.Disable()
		if !cfg.Quiet {
			report := profiler.GetReport()
			report.FormatText(ctx.Stderr)
		}
	}

	return exitCode
}

func executeViroCode(cfg *config.Config, input InputSource, args []string, printResult bool, parseOnly bool, ctx *RuntimeContext) int {
	content, err := input.Load()
	if err != nil {
		fmt.Fprintf(ctx.Stderr, "Error loading input: %v\n", err)
		return ExitError
	}

	values, perr := parse.Parse(content)
	if perr != nil {
		printErrorToWriter(perr, "Parse", ctx.Stderr)
		return ExitSyntax
	}

	if parseOnly {
		if cfg.Verbose {
			fmt.Fprintf(ctx.Stdout, "Syntax valid\n")
			fmt.Fprintf(ctx.Stdout, "Parsed %d expressions\n", len(values))
		}
		return ExitSuccess
	}

	evaluator := setupEvaluator(cfg, ctx)
	initializeSystemObjectInEvaluator(evaluator, args)

	result, err := evaluator.DoBlock(values)
	if err != nil {
		printErrorToWriter(err, "Runtime", ctx.Stderr)
		return handleErrorForExit(err)
	}

	if printResult && !cfg.Quiet {
		fmt.Fprintln(ctx.Stdout, result.String())
	}

	return ExitSuccess
}

func setupEvaluator(cfg *config.Config, ctx *RuntimeContext) *eval.Evaluator {
	evaluator := eval.NewEvaluator()

	if cfg.Quiet {
		evaluator.SetOutputWriter(io.Discard)
	} else {
		evaluator.SetOutputWriter(ctx.Stdout)
	}
	evaluator.SetErrorWriter(ctx.Stderr)
	evaluator.SetInputReader(ctx.Stdin)

	native.Register(evaluator)

	return evaluator
}

// initializeSystemObjectInEvaluator binds a system object exposing the
// script's argument vector, mirroring internal/repl's REPL-mode equivalent.
func initializeSystemObjectInEvaluator(evaluator core.Evaluator, args []string) {
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

func handleErrorForExit(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if vErr, ok := err.(*verror.Error); ok {
		return categoryToExitCode(vErr.Category)
	}

	return ExitError
}

func printErrorToWriter(err error, prefix string, w io.Writer) {
	if vErr, ok := err.(*verror.Error); ok {
		fmt.Fprintf(w, "%v", vErr)
	} else if prefix != "" {
		fmt.Fprintf(w, "%s error: %v\n", prefix, err)
	} else {
		fmt.Fprintf(w, "Error: %v\n", err)
	}
}

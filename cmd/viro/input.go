package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/zsx/viro-core/internal/config"
)

// InputSource supplies the source text for a non-interactive run (eval,
// script, or check mode).
type InputSource interface {
	Load() (string, error)
}

// FileInput reads a script from disk, resolving relative paths against the
// configured sandbox root rather than the process's working directory.
type FileInput struct {
	Config *config.Config
	Path   string
	Stdin  io.Reader
}

func (f *FileInput) Load() (string, error) {
	if f.Path == "-" {
		data, err := io.ReadAll(f.Stdin)
		return string(data), err
	}

	fullPath := f.Path
	if !filepath.IsAbs(f.Path) {
		fullPath = filepath.Join(f.Config.SandboxRoot, f.Path)
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", f.Path, err)
	}

	return string(data), nil
}

// ExprInput supplies a single expression passed via -c, optionally
// prefixed with whatever is waiting on stdin.
type ExprInput struct {
	Expr      string
	WithStdin bool
	Stdin     io.Reader
}

func (e *ExprInput) Load() (string, error) {
	expr := e.Expr

	if e.WithStdin {
		stdinData, err := io.ReadAll(e.Stdin)
		if err != nil {
			return "", fmt.Errorf("error reading stdin: %w", err)
		}
		expr = string(stdinData) + "\n" + expr
	}

	return expr, nil
}

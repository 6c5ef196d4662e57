package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectFileName is the optional per-directory config file LoadProjectFile
// looks for (spec.md §10's ambient configuration layer).
const ProjectFileName = "viro.yaml"

// projectFile mirrors the subset of Config a project file may set.
// Each field carries an explicit yaml tag, so the keys read are exactly
// the tagged ones (sandbox_root, history_file, prompt, ...).
type projectFile struct {
	SandboxRoot      string `yaml:"sandbox_root"`
	AllowInsecureTLS bool   `yaml:"allow_insecure_tls"`
	Quiet            bool   `yaml:"quiet"`
	Verbose          bool   `yaml:"verbose"`
	HistoryFile      string `yaml:"history_file"`
	Prompt           string `yaml:"prompt"`
	NoWelcome        bool   `yaml:"no_welcome"`
	TraceOn          bool   `yaml:"trace"`
}

// LoadProjectFile reads path (a viro.yaml) and applies any fields it sets
// onto c. Fields already set on c (by flags or environment, which are
// loaded first in main's precedence order) are left alone, so a project
// file is the lowest-precedence configuration source.
func (c *Config) LoadProjectFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var pf projectFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	if c.SandboxRoot == "" {
		c.SandboxRoot = pf.SandboxRoot
	}
	c.AllowInsecureTLS = c.AllowInsecureTLS || pf.AllowInsecureTLS
	c.Quiet = c.Quiet || pf.Quiet
	c.Verbose = c.Verbose || pf.Verbose
	if c.HistoryFile == "" {
		c.HistoryFile = pf.HistoryFile
	}
	if c.Prompt == "" {
		c.Prompt = pf.Prompt
	}
	c.NoWelcome = c.NoWelcome || pf.NoWelcome
	c.TraceOn = c.TraceOn || pf.TraceOn

	return nil
}

// FindProjectFile walks up from dir looking for a viro.yaml, stopping at
// the filesystem root. It returns "" with no error if none is found.
func FindProjectFile(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, ProjectFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

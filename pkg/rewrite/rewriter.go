package rewrite

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
)

// Config holds configuration for a Rewriter.
type Config struct {
	Rules  RuleSet
	Fs     afero.Fs
	Logger hclog.Logger
}

// Rewriter converts documents in place by applying a RuleSet to every line.
type Rewriter struct {
	rules  RuleSet
	fs     afero.Fs
	logger hclog.Logger
}

// Result summarizes a single file rewrite.
type Result struct {
	Path         string
	Lines        int
	ChangedLines int
	Written      bool
}

// New creates a Rewriter.
func New(cfg Config) (*Rewriter, error) {
	if len(cfg.Rules) == 0 {
		return nil, fmt.Errorf("at least one rule is required")
	}
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}
	if cfg.Logger == nil {
		cfg.Logger = hclog.NewNullLogger()
	}

	return &Rewriter{
		rules:  cfg.Rules,
		fs:     cfg.Fs,
		logger: cfg.Logger.Named("rewriter"),
	}, nil
}

// Rules returns the rules in application order.
func (r *Rewriter) Rules() RuleSet {
	return r.rules
}

// RewriteLines applies the rule set to each line and reports how many lines
// changed. The input slice is not modified.
func (r *Rewriter) RewriteLines(lines []string) ([]string, int) {
	out := make([]string, len(lines))
	changed := 0
	for i, line := range lines {
		out[i] = r.rules.Apply(line)
		if out[i] != line {
			changed++
		}
	}
	return out, changed
}

// RewriteFile rewrites path in place. The original contents are not kept.
func (r *Rewriter) RewriteFile(path string) (*Result, error) {
	return r.rewrite(path, true)
}

// Check reports what RewriteFile would change without writing.
func (r *Rewriter) Check(path string) (*Result, error) {
	return r.rewrite(path, false)
}

func (r *Rewriter) rewrite(path string, write bool) (*Result, error) {
	doc, err := ReadDocument(r.fs, path)
	if err != nil {
		return nil, err
	}

	lines, changed := r.RewriteLines(doc.Lines)
	doc.Lines = lines

	result := &Result{
		Path:         path,
		Lines:        len(lines),
		ChangedLines: changed,
	}

	if write {
		if err := doc.Write(r.fs); err != nil {
			return nil, err
		}
		result.Written = true
	}

	r.logger.Debug("rewrote document",
		"path", path,
		"lines", result.Lines,
		"changed", result.ChangedLines,
		"written", result.Written,
		"rules", r.rules.Names(),
	)

	return result, nil
}

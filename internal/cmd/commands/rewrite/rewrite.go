package rewrite

import (
	"flag"
	"fmt"
	"strings"

	"github.com/xnat/docsync/internal/cmd/base"
	"github.com/xnat/docsync/pkg/rewrite"
)

type Command struct {
	*base.Command

	flagConfig string
	flagRules  string
	flagDryRun bool
}

func (c *Command) Synopsis() string {
	return "Convert HTML files to Confluence storage format in place"
}

func (c *Command) Help() string {
	return `Usage: docsync rewrite [options] <file>...

  Apply the rewrite rules to every line of each file and overwrite the file
  with the result. Issue links become JIRA macros, heading ids become anchor
  macros, in-page links become anchor links and wiki page URLs become page
  links.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("rewrite", flag.ExitOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "Path to a docsync config `file`",
	)
	f.StringVar(
		&c.flagRules, "rules", "",
		"Comma-separated rule `names` to apply instead of the configured list",
	)
	f.BoolVar(
		&c.flagDryRun, "dry-run", false,
		"Report the lines that would change without writing.",
	)

	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	paths := f.Args()
	if len(paths) == 0 {
		c.UI.Error("at least one file is required")
		c.UI.Error(c.Help())
		return 1
	}

	cfg, err := c.LoadConfig(c.flagConfig)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error loading config: %v", err))
		return 1
	}

	var rules rewrite.RuleSet
	if c.flagRules != "" {
		rules, err = cfg.RuleSetFor(SplitNames(c.flagRules))
	} else {
		rules, err = cfg.RuleSet()
	}
	if err != nil {
		c.UI.Error(fmt.Sprintf("error building rules: %v", err))
		return 1
	}

	rw, err := rewrite.New(rewrite.Config{
		Rules:  rules,
		Fs:     c.Fs,
		Logger: c.Log,
	})
	if err != nil {
		c.UI.Error(fmt.Sprintf("error creating rewriter: %v", err))
		return 1
	}

	exitCode := 0
	for _, path := range paths {
		var result *rewrite.Result
		if c.flagDryRun {
			result, err = rw.Check(path)
		} else {
			result, err = rw.RewriteFile(path)
		}
		if err != nil {
			c.UI.Error(fmt.Sprintf("error rewriting %s: %v", path, err))
			exitCode = 1
			continue
		}

		verb := "rewrote"
		if !result.Written {
			verb = "would rewrite"
		}
		c.UI.Info(fmt.Sprintf("%s: %s %d of %d lines",
			result.Path, verb, result.ChangedLines, result.Lines))
	}

	return exitCode
}

// SplitNames parses a comma-separated -rules value.
func SplitNames(s string) []string {
	var names []string
	for _, n := range strings.Split(s, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}

package rules

import (
	"flag"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/xnat/docsync/internal/cmd/base"
	"github.com/xnat/docsync/internal/cmd/commands/rewrite"
	docrewrite "github.com/xnat/docsync/pkg/rewrite"
)

type Command struct {
	*base.Command

	flagConfig string
	flagRules  string
}

func (c *Command) Synopsis() string {
	return "Print the effective rewrite rules"
}

func (c *Command) Help() string {
	return `Usage: docsync rules [options]

  Print the rewrite rules in the order they are applied, as YAML.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("rules", flag.ExitOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "Path to a docsync config `file`",
	)
	f.StringVar(
		&c.flagRules, "rules", "",
		"Comma-separated rule `names` to show instead of the configured list",
	)

	return f
}

// listing is the YAML document printed by the command.
type listing struct {
	Rules []ruleEntry `yaml:"rules"`
}

type ruleEntry struct {
	Name        string `yaml:"name"`
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement,omitempty"`
	Computed    bool   `yaml:"computed,omitempty"`
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	cfg, err := c.LoadConfig(c.flagConfig)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error loading config: %v", err))
		return 1
	}

	var rules docrewrite.RuleSet
	if c.flagRules != "" {
		rules, err = cfg.RuleSetFor(rewrite.SplitNames(c.flagRules))
	} else {
		rules, err = cfg.RuleSet()
	}
	if err != nil {
		c.UI.Error(fmt.Sprintf("error building rules: %v", err))
		return 1
	}

	out, err := yaml.Marshal(newListing(rules))
	if err != nil {
		c.UI.Error(fmt.Sprintf("error encoding rules: %v", err))
		return 1
	}
	c.UI.Output(string(out))

	return 0
}

func newListing(rules docrewrite.RuleSet) listing {
	l := listing{Rules: make([]ruleEntry, 0, len(rules))}
	for _, r := range rules {
		l.Rules = append(l.Rules, ruleEntry{
			Name:        r.Name,
			Pattern:     r.Pattern.String(),
			Replacement: r.Template,
			Computed:    r.Func != nil,
		})
	}
	return l
}

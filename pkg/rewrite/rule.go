package rewrite

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/iancoleman/strcase"
)

// ReplaceFunc computes the replacement for a single match. groups[0] is the
// full match and groups[1:] are the capture groups, in order.
type ReplaceFunc func(groups []string) string

// Rule rewrites every non-overlapping match of Pattern on a line.
//
// Exactly one of Template or Func is used. Template follows regexp.Expand
// syntax, so captured groups are referenced as ${1}, ${2}, ...
type Rule struct {
	Name     string
	Pattern  *regexp.Regexp
	Template string
	Func     ReplaceFunc
}

// Apply rewrites all matches of the rule on line.
func (r Rule) Apply(line string) string {
	matches := r.Pattern.FindAllStringSubmatchIndex(line, -1)
	if len(matches) == 0 {
		return line
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(line[last:m[0]])
		if r.Func != nil {
			b.WriteString(r.Func(submatches(line, m)))
		} else {
			b.Write(r.Pattern.ExpandString(nil, r.Template, line, m))
		}
		last = m[1]
	}
	b.WriteString(line[last:])

	return b.String()
}

func submatches(s string, loc []int) []string {
	groups := make([]string, len(loc)/2)
	for i := range groups {
		if loc[2*i] >= 0 {
			groups[i] = s[loc[2*i]:loc[2*i+1]]
		}
	}
	return groups
}

// RuleSet is an ordered list of rules. Later rules see the output of earlier
// rules on the same line.
type RuleSet []Rule

// Apply runs every rule in order over line.
func (rs RuleSet) Apply(line string) string {
	for _, r := range rs {
		line = r.Apply(line)
	}
	return line
}

// Names returns the rule names in application order.
func (rs RuleSet) Names() []string {
	names := make([]string, len(rs))
	for i, r := range rs {
		names[i] = r.Name
	}
	return names
}

// CustomRule is a user-declared pattern/template pair.
type CustomRule struct {
	Name        string
	Pattern     string
	Replacement string
}

// Compile builds a Rule from the custom declaration.
func (c CustomRule) Compile() (Rule, error) {
	if c.Pattern == "" {
		return Rule{}, fmt.Errorf("rule %q: pattern is required", c.Name)
	}
	re, err := regexp.Compile(c.Pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("rule %q: %w", c.Name, err)
	}
	return Rule{
		Name:     NormalizeName(c.Name),
		Pattern:  re,
		Template: c.Replacement,
	}, nil
}

// NormalizeName maps rule names such as "IssueLink" or "issue_link" to the
// registry form "issue-link".
func NormalizeName(name string) string {
	return strcase.ToKebab(strings.TrimSpace(name))
}

// NewRuleSet builds the ordered rule list named by names. Each name resolves
// first against custom, then against the built-in registry. All resolution
// and compile errors are reported together.
func NewRuleSet(opts Options, names []string, custom []CustomRule) (RuleSet, error) {
	customByName := make(map[string]CustomRule, len(custom))
	for _, c := range custom {
		customByName[NormalizeName(c.Name)] = c
	}

	var result *multierror.Error
	rules := make(RuleSet, 0, len(names))
	seen := make(map[string]bool, len(names))

	for _, raw := range names {
		name := NormalizeName(raw)
		if name == "" {
			continue
		}
		if seen[name] {
			result = multierror.Append(result, fmt.Errorf("duplicate rule: %s", name))
			continue
		}
		seen[name] = true

		if c, ok := customByName[name]; ok {
			rule, err := c.Compile()
			if err != nil {
				result = multierror.Append(result, err)
				continue
			}
			rules = append(rules, rule)
			continue
		}

		ctor, ok := builtins[name]
		if !ok {
			result = multierror.Append(result, fmt.Errorf("unknown rule: %s", name))
			continue
		}
		rule, err := ctor(opts)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("rule %q: %w", name, err))
			continue
		}
		rules = append(rules, rule)
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return rules, nil
}

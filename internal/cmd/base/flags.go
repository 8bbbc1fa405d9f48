package base

import (
	"flag"
	"fmt"
	"sort"
	"strings"
)

// FlagSet wraps a standard flag set with help text rendering for cli.Command.
type FlagSet struct {
	*flag.FlagSet
}

func NewFlagSet(f *flag.FlagSet) *FlagSet {
	return &FlagSet{FlagSet: f}
}

// Help renders the flags in the "Options:" block appended to command help.
func (f *FlagSet) Help() string {
	var flags []*flag.Flag
	f.VisitAll(func(fl *flag.Flag) {
		flags = append(flags, fl)
	})
	if len(flags) == 0 {
		return ""
	}
	sort.Slice(flags, func(i, j int) bool { return flags[i].Name < flags[j].Name })

	var b strings.Builder
	b.WriteString("\n\nOptions:\n")
	for _, fl := range flags {
		name, usage := flag.UnquoteUsage(fl)
		if name != "" {
			fmt.Fprintf(&b, "\n  -%s=<%s>", fl.Name, name)
		} else {
			fmt.Fprintf(&b, "\n  -%s", fl.Name)
		}
		if fl.DefValue != "" && fl.DefValue != "false" {
			fmt.Fprintf(&b, "  (default: %s)", fl.DefValue)
		}
		fmt.Fprintf(&b, "\n    %s\n", usage)
	}
	return strings.TrimRight(b.String(), "\n")
}

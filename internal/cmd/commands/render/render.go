package render

import (
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/xnat/docsync/internal/cmd/base"
	"github.com/xnat/docsync/pkg/markdown"
	"github.com/xnat/docsync/pkg/rewrite"
)

type Command struct {
	*base.Command

	flagConfig  string
	flagOut     string
	flagRewrite bool
}

func (c *Command) Synopsis() string {
	return "Render a Markdown file to HTML"
}

func (c *Command) Help() string {
	return `Usage: docsync render [options] <file.md>

  Render Markdown to HTML with generated heading ids. When the front matter
  sets confluence_id, the output starts with an id marker so the file can be
  published without -i.

  With -rewrite the rewrite rules run on the output, producing a file ready
  for "docsync publish".` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("render", flag.ExitOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "Path to a docsync config `file`",
	)
	f.StringVar(
		&c.flagOut, "out", "",
		"Output `path`. Defaults to the input with an .html extension.",
	)
	f.BoolVar(
		&c.flagRewrite, "rewrite", false,
		"Apply the configured rewrite rules to the rendered HTML.",
	)

	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	if f.NArg() != 1 {
		c.UI.Error("exactly one Markdown file is required")
		c.UI.Error(c.Help())
		return 1
	}
	src := f.Arg(0)

	cfg, err := c.LoadConfig(c.flagConfig)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error loading config: %v", err))
		return 1
	}

	source, err := afero.ReadFile(c.Fs, src)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error reading %s: %v", src, err))
		return 1
	}

	out, err := markdown.NewRenderer(cfg.MarkdownOptions(), c.Log).Render(source)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error rendering %s: %v", src, err))
		return 1
	}
	html := string(out.HTML)

	if c.flagRewrite {
		rules, err := cfg.RuleSet()
		if err != nil {
			c.UI.Error(fmt.Sprintf("error building rules: %v", err))
			return 1
		}
		rw, err := rewrite.New(rewrite.Config{Rules: rules, Fs: c.Fs, Logger: c.Log})
		if err != nil {
			c.UI.Error(fmt.Sprintf("error creating rewriter: %v", err))
			return 1
		}
		lines, _ := rw.RewriteLines(rewrite.SplitLines(html))
		html = strings.Join(lines, "\n")
	}

	dst := c.flagOut
	if dst == "" {
		dst = OutputPath(src)
	}
	if err := afero.WriteFile(c.Fs, dst, []byte(html), 0o644); err != nil {
		c.UI.Error(fmt.Sprintf("error writing %s: %v", dst, err))
		return 1
	}

	c.UI.Info(fmt.Sprintf("%s: rendered to %s", src, dst))
	if id := out.FrontMatter.PostID(); id != "" {
		c.UI.Info(fmt.Sprintf("page id: %s", id))
	}
	return 0
}

// OutputPath swaps a Markdown extension for .html.
func OutputPath(src string) string {
	ext := filepath.Ext(src)
	switch strings.ToLower(ext) {
	case ".md", ".markdown":
		return strings.TrimSuffix(src, ext) + ".html"
	}
	return src + ".html"
}

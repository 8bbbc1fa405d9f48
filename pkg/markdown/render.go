package markdown

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// Options controls Markdown rendering.
type Options struct {
	// Extensions names goldmark extensions to enable. Empty means GFM.
	Extensions []string

	// HardWraps renders soft line breaks as <br>.
	HardWraps bool

	// SafeMode drops raw HTML from the source.
	SafeMode bool
}

// Renderer turns Markdown into HTML ready for the rewrite rules: headings
// carry generated ids and the Confluence id marker leads the output.
type Renderer struct {
	engine goldmark.Markdown
	logger hclog.Logger
}

// Rendered is the output of a single Render call.
type Rendered struct {
	FrontMatter FrontMatter
	HTML        []byte
}

// NewRenderer builds a renderer for opts.
func NewRenderer(opts Options, logger hclog.Logger) *Renderer {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Renderer{
		engine: newGoldmarkEngine(opts),
		logger: logger.Named("markdown"),
	}
}

// Render converts source to HTML. When the front matter names a Confluence
// page, the first output line is an "<!-- id: ... -->" marker.
func (r *Renderer) Render(source []byte) (*Rendered, error) {
	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if id := meta.PostID(); id != "" {
		fmt.Fprintf(&buf, "<!-- id: %s -->\n", id)
	}
	if err := r.engine.Convert(body, &buf); err != nil {
		return nil, fmt.Errorf("markdown parse: %w", err)
	}

	r.logger.Debug("rendered markdown",
		"title", meta.Title,
		"post_id", meta.PostID(),
		"bytes", buf.Len(),
	)

	return &Rendered{FrontMatter: meta, HTML: buf.Bytes()}, nil
}

func newGoldmarkEngine(opts Options) goldmark.Markdown {
	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if !opts.SafeMode {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithExtensions(collectExtensions(opts.Extensions)...),
	}
	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}

	return goldmark.New(engineOptions...)
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"typographer":   extension.Typographer,
}

// ExtensionNames lists the extension names accepted in Options.Extensions.
func ExtensionNames() []string {
	names := make([]string, 0, len(extensionRegistry))
	for name := range extensionRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsExtension reports whether name is a known extension.
func IsExtension(name string) bool {
	_, ok := extensionRegistry[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{extension.GFM}
	}

	var extenders []goldmark.Extender
	seen := map[string]struct{}{}
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, ok := seen[key]; ok {
			continue
		}
		ext, ok := extensionRegistry[key]
		if !ok {
			continue
		}
		extenders = append(extenders, ext)
		seen[key] = struct{}{}
	}
	return extenders
}

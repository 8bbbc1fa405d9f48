package markdown

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"
)

// FrontMatter is the metadata block at the top of a Markdown source.
//
//	---
//	title: Command Resolution
//	confluence_id: 31457
//	---
type FrontMatter struct {
	Title string `yaml:"title" toml:"title"`

	// ConfluenceID is the page the rendered document publishes to. "id" is
	// accepted as a shorter alias.
	ConfluenceID string `yaml:"confluence_id" toml:"confluence_id"`
	ID           string `yaml:"id" toml:"id"`
}

// PostID returns the Confluence page id named by the front matter, if any.
func (f FrontMatter) PostID() string {
	if f.ConfluenceID != "" {
		return f.ConfluenceID
	}
	return f.ID
}

// ParseFrontMatter splits source into its front matter and Markdown body.
// Sources without front matter return a zero FrontMatter and the full input.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var meta FrontMatter

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return meta, body, nil
}

package confluence

import "strings"

// RepresentationStorage is the Confluence storage-format body representation.
const RepresentationStorage = "storage"

// Content is a Confluence content item (page or blog post) as exchanged with
// /rest/api/content.
type Content struct {
	ID      string   `json:"id,omitempty"`
	Type    string   `json:"type"`
	Title   string   `json:"title"`
	Space   *Space   `json:"space,omitempty"`
	Body    *Body    `json:"body,omitempty"`
	Version *Version `json:"version,omitempty"`
	Links   *Links   `json:"_links,omitempty"`
}

// Space identifies the space a content item lives in.
type Space struct {
	Key  string `json:"key"`
	Name string `json:"name,omitempty"`
}

// Body holds the content body representations.
type Body struct {
	Storage *Storage `json:"storage,omitempty"`
}

// Storage is a body in a given representation.
type Storage struct {
	Representation string `json:"representation"`
	Value          string `json:"value"`
}

// Version is the content version. Updates must carry the current number + 1.
type Version struct {
	Number  int    `json:"number"`
	Message string `json:"message,omitempty"`
}

// Links carries the server-provided URLs of a content item.
type Links struct {
	Base  string `json:"base,omitempty"`
	WebUI string `json:"webui,omitempty"`
}

// NewStorageBody wraps value as a storage-format body.
func NewStorageBody(value string) *Body {
	return &Body{
		Storage: &Storage{
			Representation: RepresentationStorage,
			Value:          value,
		},
	}
}

// VersionNumber returns the version number, or 0 if the version is absent.
func (c *Content) VersionNumber() int {
	if c == nil || c.Version == nil {
		return 0
	}
	return c.Version.Number
}

// SpaceKey returns the space key, or "" if the space is absent.
func (c *Content) SpaceKey() string {
	if c == nil || c.Space == nil {
		return ""
	}
	return c.Space.Key
}

// WebURL returns the browser URL of the content, or "" when the server did
// not return links.
func (c *Content) WebURL() string {
	if c == nil || c.Links == nil || c.Links.WebUI == "" {
		return ""
	}
	if strings.HasPrefix(c.Links.WebUI, "http://") || strings.HasPrefix(c.Links.WebUI, "https://") {
		return c.Links.WebUI
	}
	return strings.TrimSuffix(c.Links.Base, "/") + c.Links.WebUI
}

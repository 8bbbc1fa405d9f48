package publish

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// commentRe finds the first complete HTML comment on a line.
	commentRe = regexp.MustCompile(`<!--(.*?)-->`)

	// idFieldRe finds an "id: <value>" field anywhere inside a comment body.
	idFieldRe = regexp.MustCompile(`\b(?i:id)\s*:\s*(\S*)`)

	// idCommentRe detects a comment that tries to carry an id, so a broken
	// marker is reported instead of being silently ignored.
	idCommentRe = regexp.MustCompile(`<!--.*\b(?i:id)\s*:`)
)

// ResolvePostID returns explicit when set, otherwise the id carried by the
// first comment on firstLine. The id field may sit anywhere in the comment,
// as in "<!-- id: 42 -->" or "<!-- generated by docsync; id: 42 -->", and its
// value ends at whitespace or the end of the comment.
func ResolvePostID(explicit, firstLine string) (string, error) {
	if id := strings.TrimSpace(explicit); id != "" {
		return id, nil
	}

	if c := commentRe.FindStringSubmatch(firstLine); c != nil {
		if m := idFieldRe.FindStringSubmatch(c[1]); m != nil {
			if m[1] == "" {
				return "", fmt.Errorf("%w: %q", ErrMalformedMarker, strings.TrimSpace(firstLine))
			}
			return m[1], nil
		}
	}

	if idCommentRe.MatchString(firstLine) {
		return "", fmt.Errorf("%w: %q", ErrMalformedMarker, strings.TrimSpace(firstLine))
	}

	return "", ErrMissingPostID
}

// ResolveMessage joins words with single spaces, or returns def when there
// are none.
func ResolveMessage(words []string, def string) string {
	msg := strings.Join(words, " ")
	if strings.TrimSpace(msg) == "" {
		return def
	}
	return msg
}

// IDMarker renders the first-line marker that ResolvePostID recognizes.
func IDMarker(id string) string {
	return fmt.Sprintf("<!-- id: %s -->", id)
}

package rewrite

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/spf13/afero"
)

// Document is a text file held as lines. Trailing whitespace (including any
// carriage return) is stripped from every line on read.
type Document struct {
	Path  string
	Lines []string
	Mode  os.FileMode
}

// ReadDocument loads path from fs.
func ReadDocument(fs afero.Fs, path string) (*Document, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return &Document{
		Path:  path,
		Lines: SplitLines(string(data)),
		Mode:  info.Mode().Perm(),
	}, nil
}

// Write replaces the file at d.Path with the lines joined by "\n". No
// trailing newline is added.
func (d *Document) Write(fs afero.Fs) error {
	mode := d.Mode
	if mode == 0 {
		mode = 0o644
	}
	if err := afero.WriteFile(fs, d.Path, []byte(d.String()), mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", d.Path, err)
	}
	return nil
}

// String returns the document contents as written to disk.
func (d *Document) String() string {
	return strings.Join(d.Lines, "\n")
}

// FirstLine returns the first line, or "" for an empty document.
func (d *Document) FirstLine() string {
	if len(d.Lines) == 0 {
		return ""
	}
	return d.Lines[0]
}

// SplitLines splits s into lines the way a line-oriented reader would: a
// final newline does not produce an extra empty line.
func SplitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRightFunc(l, unicode.IsSpace)
	}
	return lines
}

package rewrite

import (
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRewriter(t *testing.T, fs afero.Fs) *Rewriter {
	t.Helper()
	rw, err := New(Config{
		Rules:  defaultRules(t),
		Fs:     fs,
		Logger: hclog.NewNullLogger(),
	})
	require.NoError(t, err)
	return rw
}

func TestNew_RequiresRules(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one rule")
}

func TestRewriter_RewriteFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	input := "<!-- id: 42 -->  \n" +
		"<h2 id=\"intro\">Intro</h2>\t\n" +
		"<p>Nothing here</p>\r\n" +
		"<a href=\"#intro\">back</a>\n"
	require.NoError(t, afero.WriteFile(fs, "/docs/page.html", []byte(input), 0o600))

	rw := newTestRewriter(t, fs)
	result, err := rw.RewriteFile("/docs/page.html")
	require.NoError(t, err)

	assert.Equal(t, 4, result.Lines)
	assert.Equal(t, 2, result.ChangedLines)
	assert.True(t, result.Written)

	got, err := afero.ReadFile(fs, "/docs/page.html")
	require.NoError(t, err)

	want := "<!-- id: 42 -->\n" +
		"<h2>" + wantAnchorMacro + "Intro</h2>\n" +
		"<p>Nothing here</p>\n" +
		`<ac:link ac:anchor="intro"><ac:plain-text-link-body><![CDATA[back]]></ac:plain-text-link-body></ac:link>`
	assert.Equal(t, want, string(got))

	info, err := fs.Stat("/docs/page.html")
	require.NoError(t, err)
	assert.Equal(t, "-rw-------", info.Mode().Perm().String())
}

func TestRewriter_RewriteFile_Idempotent(t *testing.T) {
	fs := afero.NewMemMapFs()
	input := "<h1 id=\"top\">Top</h1>\n" +
		"<p><a href=\"https://issues.xnat.org/browse/XNAT-1\">XNAT-1</a></p>\n" +
		"<p><a href=\"https://wiki.xnat.org/display/XNAT/Home+Page\">home</a></p>\n"
	require.NoError(t, afero.WriteFile(fs, "page.html", []byte(input), 0o644))

	rw := newTestRewriter(t, fs)

	_, err := rw.RewriteFile("page.html")
	require.NoError(t, err)
	once, err := afero.ReadFile(fs, "page.html")
	require.NoError(t, err)

	result, err := rw.RewriteFile("page.html")
	require.NoError(t, err)
	twice, err := afero.ReadFile(fs, "page.html")
	require.NoError(t, err)

	assert.Equal(t, string(once), string(twice))
	assert.Equal(t, 0, result.ChangedLines)
}

func TestRewriter_Check_DoesNotWrite(t *testing.T) {
	fs := afero.NewMemMapFs()
	input := "<a href=\"#x\">x</a>\n"
	require.NoError(t, afero.WriteFile(fs, "page.html", []byte(input), 0o644))

	rw := newTestRewriter(t, fs)
	result, err := rw.Check("page.html")
	require.NoError(t, err)

	assert.Equal(t, 1, result.ChangedLines)
	assert.False(t, result.Written)

	got, err := afero.ReadFile(fs, "page.html")
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

func TestRewriter_RewriteFile_Missing(t *testing.T) {
	rw := newTestRewriter(t, afero.NewMemMapFs())

	_, err := rw.RewriteFile("missing.html")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.html")
}

func TestRewriter_RewriteLines_DoesNotMutateInput(t *testing.T) {
	rw := newTestRewriter(t, afero.NewMemMapFs())
	in := []string{`<a href="#a">A</a>`, "plain"}

	out, changed := rw.RewriteLines(in)

	assert.Equal(t, 1, changed)
	assert.Equal(t, `<a href="#a">A</a>`, in[0])
	assert.Equal(t, "plain", out[1])
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"single newline", "\n", []string{""}},
		{"no trailing newline", "a\nb", []string{"a", "b"}},
		{"trailing newline", "a\nb\n", []string{"a", "b"}},
		{"trailing whitespace", "a \t\r\n  b  ", []string{"a", "  b"}},
		{"blank lines kept", "a\n\nb\n", []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLines(tt.in))
		})
	}
}

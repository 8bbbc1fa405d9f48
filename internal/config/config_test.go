package config

import (
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xnat/docsync/pkg/rewrite"
)

func writeConfig(t *testing.T, body string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "docsync.hcl", []byte(body), 0o644))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(afero.NewMemMapFs(), "")
	require.NoError(t, err)

	assert.Equal(t, rewrite.DefaultOptions(), cfg.RewriteOptions())
	assert.Equal(t, rewrite.DefaultRuleNames, cfg.Rewrite.Rules)
	assert.Equal(t, "Posting from docsync", cfg.Confluence.DefaultMessage)

	wiki, err := cfg.ConfluenceConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://wiki.xnat.org", wiki.BaseURL)
	assert.Equal(t, 30*time.Second, wiki.Timeout)
}

func TestLoad_MergesFile(t *testing.T) {
	t.Setenv("DOCSYNC_TEST_WIKI_USER", "alice")

	fs := writeConfig(t, `
log_level = "debug"

confluence {
  base_url        = "https://wiki.example.org"
  username        = env("DOCSYNC_TEST_WIKI_USER")
  timeout         = "5s"
  tls_verify      = false
  default_message = "sync"
}

rewrite {
  rules     = ["issue-link", "header-anchor", "anchor-link"]
  wiki_host = "wiki.example.org"

  custom_rule "strip-toc" {
    pattern     = "<div class=\"toc\">.*?</div>"
    replacement = ""
  }
}

render {
  extensions = ["gfm", "footnote"]
  hard_wraps = true
}
`)

	cfg, err := Load(fs, "docsync.hcl")
	require.NoError(t, err)

	assert.Equal(t, hclog.Debug, cfg.Level())

	wiki, err := cfg.ConfluenceConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://wiki.example.org", wiki.BaseURL)
	assert.Equal(t, "alice", wiki.Username)
	assert.Equal(t, 5*time.Second, wiki.Timeout)
	require.NotNil(t, wiki.TLSVerify)
	assert.False(t, *wiki.TLSVerify)
	assert.Equal(t, "sync", cfg.Confluence.DefaultMessage)

	// Unset keys keep their defaults.
	opts := cfg.RewriteOptions()
	assert.Equal(t, "issues.xnat.org", opts.IssueHost)
	assert.Equal(t, "wiki.example.org", opts.WikiHost)

	rules, err := cfg.RuleSet()
	require.NoError(t, err)
	assert.Equal(t, []string{"issue-link", "header-anchor", "anchor-link", "strip-toc"}, rules.Names())
	assert.Equal(t, "<p>x</p>", rules.Apply(`<div class="toc">toc</div><p>x</p>`))

	md := cfg.MarkdownOptions()
	assert.Equal(t, []string{"gfm", "footnote"}, md.Extensions)
	assert.True(t, md.HardWraps)
}

func TestLoad_EnvLogLevelWins(t *testing.T) {
	t.Setenv(EnvLogLevel, "trace")

	cfg, err := Load(writeConfig(t, `log_level = "error"`), "docsync.hcl")
	require.NoError(t, err)
	assert.Equal(t, hclog.Trace, cfg.Level())
}

func TestRuleSetFor_OverridesList(t *testing.T) {
	cfg := Default()

	rules, err := cfg.RuleSetFor([]string{"AnchorLink"})
	require.NoError(t, err)
	assert.Equal(t, []string{"anchor-link"}, rules.Names())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr []string
	}{
		{
			name:    "syntax",
			body:    `confluence {`,
			wantErr: []string{"failed to parse configuration file"},
		},
		{
			name:    "log level",
			body:    `log_level = "loud"`,
			wantErr: []string{"LogLevel"},
		},
		{
			name: "timeout and uuid together",
			body: `
confluence {
  timeout = "soon"
}
rewrite {
  anchor_macro_id = "not-a-uuid"
}`,
			wantErr: []string{"Timeout: must be a duration", "AnchorMacroID: must be a UUID"},
		},
		{
			name: "unknown rule",
			body: `
rewrite {
  rules = ["issue-link", "emoji"]
}`,
			wantErr: []string{"unknown rule: emoji"},
		},
		{
			name: "bad custom pattern",
			body: `
rewrite {
  custom_rule "broken" {
    pattern = "(["
  }
}`,
			wantErr: []string{`rule "broken"`},
		},
		{
			name: "unknown extension",
			body: `
render {
  extensions = ["mermaid"]
}`,
			wantErr: []string{`unknown extension "mermaid"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body), "docsync.hcl")
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), "absent.hcl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/xnat/docsync/pkg/confluence"
	"github.com/xnat/docsync/pkg/markdown"
	"github.com/xnat/docsync/pkg/publish"
	"github.com/xnat/docsync/pkg/rewrite"
)

// EnvLogLevel overrides log_level when set.
const EnvLogLevel = "DOCSYNC_LOG_LEVEL"

var logLevels = []interface{}{"trace", "debug", "info", "warn", "error", "off"}

// Config contains the docsync configuration.
type Config struct {
	// LogLevel is the root logger level.
	LogLevel string `hcl:"log_level,optional"`

	// Confluence configures the wiki the publish command talks to.
	Confluence *Confluence `hcl:"confluence,block"`

	// Rewrite configures the HTML rewrite rules.
	Rewrite *Rewrite `hcl:"rewrite,block"`

	// Render configures Markdown rendering.
	Render *Render `hcl:"render,block"`
}

// Confluence configures the wiki connection.
type Confluence struct {
	BaseURL        string `hcl:"base_url,optional"`
	Username       string `hcl:"username,optional"`
	Password       string `hcl:"password,optional"`
	Timeout        string `hcl:"timeout,optional"`
	TLSVerify      *bool  `hcl:"tls_verify,optional"`
	DefaultMessage string `hcl:"default_message,optional"`
}

// Rewrite configures the rule list and the site constants the built-in
// rules embed.
type Rewrite struct {
	Rules         []string     `hcl:"rules,optional"`
	IssueHost     string       `hcl:"issue_host,optional"`
	WikiHost      string       `hcl:"wiki_host,optional"`
	AnchorMacroID string       `hcl:"anchor_macro_id,optional"`
	JiraServer    string       `hcl:"jira_server,optional"`
	JiraServerID  string       `hcl:"jira_server_id,optional"`
	JiraColumns   string       `hcl:"jira_columns,optional"`
	CustomRules   []CustomRule `hcl:"custom_rule,block"`
}

// CustomRule is a user-defined pattern. It runs where rules names it, or
// after the named rules otherwise.
type CustomRule struct {
	Name        string `hcl:"name,label"`
	Pattern     string `hcl:"pattern"`
	Replacement string `hcl:"replacement,optional"`
}

// Render configures the Markdown renderer.
type Render struct {
	Extensions []string `hcl:"extensions,optional"`
	HardWraps  bool     `hcl:"hard_wraps,optional"`
	SafeMode   bool     `hcl:"safe_mode,optional"`
}

// Default returns the XNAT wiki configuration used when no file is given.
func Default() *Config {
	opts := rewrite.DefaultOptions()
	tlsVerify := true

	return &Config{
		LogLevel: "info",
		Confluence: &Confluence{
			BaseURL:        confluence.DefaultBaseURL,
			Timeout:        "30s",
			TLSVerify:      &tlsVerify,
			DefaultMessage: publish.DefaultMessage,
		},
		Rewrite: &Rewrite{
			Rules:         append([]string(nil), rewrite.DefaultRuleNames...),
			IssueHost:     opts.IssueHost,
			WikiHost:      opts.WikiHost,
			AnchorMacroID: opts.AnchorMacroID,
			JiraServer:    opts.JiraServer,
			JiraServerID:  opts.JiraServerID,
			JiraColumns:   opts.JiraColumns,
		},
		Render: &Render{},
	}
}

// Load reads the HCL file at path from fs, merges it over Default and
// validates the result. An empty path returns the defaults.
func Load(fs afero.Fs, path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	src, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var file Config
	if err := hclsimple.Decode(path, src, evalContext(), &file); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file: %w", err)
	}
	cfg.merge(&file)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", path, err)
	}
	return cfg, nil
}

// evalContext exposes env("NAME") to configuration files.
func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"env": envFunc,
		},
	}
}

var envFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "name", Type: cty.String},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		return cty.StringVal(os.Getenv(args[0].AsString())), nil
	},
})

// merge copies every value set in o over c.
func (c *Config) merge(o *Config) {
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}

	if w := o.Confluence; w != nil {
		if w.BaseURL != "" {
			c.Confluence.BaseURL = w.BaseURL
		}
		if w.Username != "" {
			c.Confluence.Username = w.Username
		}
		if w.Password != "" {
			c.Confluence.Password = w.Password
		}
		if w.Timeout != "" {
			c.Confluence.Timeout = w.Timeout
		}
		if w.TLSVerify != nil {
			c.Confluence.TLSVerify = w.TLSVerify
		}
		if w.DefaultMessage != "" {
			c.Confluence.DefaultMessage = w.DefaultMessage
		}
	}

	if r := o.Rewrite; r != nil {
		if r.Rules != nil {
			c.Rewrite.Rules = r.Rules
		}
		for dst, src := range map[*string]string{
			&c.Rewrite.IssueHost:     r.IssueHost,
			&c.Rewrite.WikiHost:      r.WikiHost,
			&c.Rewrite.AnchorMacroID: r.AnchorMacroID,
			&c.Rewrite.JiraServer:    r.JiraServer,
			&c.Rewrite.JiraServerID:  r.JiraServerID,
			&c.Rewrite.JiraColumns:   r.JiraColumns,
		} {
			if src != "" {
				*dst = src
			}
		}
		c.Rewrite.CustomRules = append(c.Rewrite.CustomRules, r.CustomRules...)
	}

	if o.Render != nil {
		c.Render = o.Render
	}
}

// Validate checks the merged configuration and reports every problem found.
func (c *Config) Validate() error {
	var result *multierror.Error

	if err := validation.ValidateStruct(c,
		validation.Field(&c.LogLevel, validation.Required, validation.In(logLevels...)),
	); err != nil {
		result = multierror.Append(result, err)
	}

	if err := validation.ValidateStruct(c.Confluence,
		validation.Field(&c.Confluence.BaseURL, validation.Required),
		validation.Field(&c.Confluence.Timeout, validation.Required, validation.By(duration)),
	); err != nil {
		result = multierror.Append(result, fmt.Errorf("confluence: %w", err))
	}

	if err := validation.ValidateStruct(c.Rewrite,
		validation.Field(&c.Rewrite.AnchorMacroID, validation.By(isUUID)),
		validation.Field(&c.Rewrite.JiraServerID, validation.By(isUUID)),
	); err != nil {
		result = multierror.Append(result, fmt.Errorf("rewrite: %w", err))
	}
	if _, err := c.RuleSet(); err != nil {
		result = multierror.Append(result, fmt.Errorf("rewrite: %w", err))
	}

	for _, ext := range c.Render.Extensions {
		if !markdown.IsExtension(ext) {
			result = multierror.Append(result, fmt.Errorf(
				"render: unknown extension %q (known: %s)",
				ext, strings.Join(markdown.ExtensionNames(), ", ")))
		}
	}

	return result.ErrorOrNil()
}

func duration(value interface{}) error {
	s, _ := value.(string)
	d, err := time.ParseDuration(s)
	if err != nil {
		return errors.New("must be a duration such as 30s")
	}
	if d <= 0 {
		return errors.New("must be positive")
	}
	return nil
}

func isUUID(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := uuid.Parse(s); err != nil {
		return errors.New("must be a UUID")
	}
	return nil
}

// Level returns the root logger level. EnvLogLevel wins over log_level.
func (c *Config) Level() hclog.Level {
	if v := os.Getenv(EnvLogLevel); v != "" {
		return hclog.LevelFromString(v)
	}
	return hclog.LevelFromString(c.LogLevel)
}

// RewriteOptions returns the site constants for the built-in rules.
func (c *Config) RewriteOptions() rewrite.Options {
	return rewrite.Options{
		IssueHost:     c.Rewrite.IssueHost,
		JiraServer:    c.Rewrite.JiraServer,
		JiraServerID:  c.Rewrite.JiraServerID,
		JiraColumns:   c.Rewrite.JiraColumns,
		AnchorMacroID: c.Rewrite.AnchorMacroID,
		WikiHost:      c.Rewrite.WikiHost,
	}
}

// CustomRules returns the configured custom_rule blocks in file order.
func (c *Config) CustomRules() []rewrite.CustomRule {
	rules := make([]rewrite.CustomRule, 0, len(c.Rewrite.CustomRules))
	for _, r := range c.Rewrite.CustomRules {
		rules = append(rules, rewrite.CustomRule{
			Name:        r.Name,
			Pattern:     r.Pattern,
			Replacement: r.Replacement,
		})
	}
	return rules
}

// RuleSet compiles the configured rule list.
func (c *Config) RuleSet() (rewrite.RuleSet, error) {
	return c.RuleSetFor(c.Rewrite.Rules)
}

// RuleSetFor compiles names in order. Custom rules that names does not
// mention run after them, in file order.
func (c *Config) RuleSetFor(names []string) (rewrite.RuleSet, error) {
	named := make(map[string]bool, len(names))
	for _, n := range names {
		named[rewrite.NormalizeName(n)] = true
	}

	all := append([]string(nil), names...)
	for _, r := range c.Rewrite.CustomRules {
		if !named[rewrite.NormalizeName(r.Name)] {
			all = append(all, r.Name)
		}
	}

	return rewrite.NewRuleSet(c.RewriteOptions(), all, c.CustomRules())
}

// ConfluenceConfig returns the client configuration. Credentials given on
// the command line are filled in by the caller.
func (c *Config) ConfluenceConfig() (*confluence.Config, error) {
	cfg := confluence.DefaultConfig()
	cfg.BaseURL = c.Confluence.BaseURL
	cfg.Username = c.Confluence.Username
	cfg.Password = c.Confluence.Password
	if c.Confluence.TLSVerify != nil {
		cfg.TLSVerify = c.Confluence.TLSVerify
	}

	timeout, err := time.ParseDuration(c.Confluence.Timeout)
	if err != nil {
		return nil, fmt.Errorf("error parsing confluence timeout: %w", err)
	}
	cfg.Timeout = timeout

	return cfg, nil
}

// MarkdownOptions returns the renderer options.
func (c *Config) MarkdownOptions() markdown.Options {
	return markdown.Options{
		Extensions: c.Render.Extensions,
		HardWraps:  c.Render.HardWraps,
		SafeMode:   c.Render.SafeMode,
	}
}

package rewrite

import (
	"fmt"
	"regexp"
	"strings"
)

// Built-in rule names.
const (
	RuleIssueLink    = "issue-link"
	RuleHeaderAnchor = "header-anchor"
	RuleAnchorLink   = "anchor-link"
	RuleWikiLink     = "wiki-link"
)

var (
	// DefaultRuleNames is the full built-in rule list in application order.
	DefaultRuleNames = []string{RuleIssueLink, RuleHeaderAnchor, RuleAnchorLink, RuleWikiLink}

	// AnchorOnlyRuleNames leaves cross-wiki page links untouched.
	AnchorOnlyRuleNames = []string{RuleIssueLink, RuleHeaderAnchor, RuleAnchorLink}
)

// Options holds the site constants baked into the built-in rules.
type Options struct {
	// IssueHost is the issue tracker host whose /browse/KEY links become
	// JIRA macros.
	IssueHost string

	// JiraServer, JiraServerID and JiraColumns parameterize the JIRA macro.
	JiraServer   string
	JiraServerID string
	JiraColumns  string

	// AnchorMacroID is the ac:macro-id stamped on every anchor macro.
	AnchorMacroID string

	// WikiHost is the Confluence host whose /display/SPACE/Title links become
	// page references.
	WikiHost string
}

// DefaultOptions returns the XNAT wiki constants.
func DefaultOptions() Options {
	return Options{
		IssueHost:     "issues.xnat.org",
		JiraServer:    "Neuroinformatics Research Group JIRA",
		JiraServerID:  "cd48cfbe-36e3-3ab6-af43-5d0331c561fb",
		JiraColumns:   "key,summary,type,created,updated,due,assignee,reporter,priority,status,resolution",
		AnchorMacroID: "45f1c881-92ce-4c4d-a738-10958361db24",
		WikiHost:      "wiki.xnat.org",
	}
}

type ruleConstructor func(Options) (Rule, error)

var builtins = map[string]ruleConstructor{
	RuleIssueLink:    issueLinkRule,
	RuleHeaderAnchor: headerAnchorRule,
	RuleAnchorLink:   anchorLinkRule,
	RuleWikiLink:     wikiLinkRule,
}

// BuiltinNames returns the registry names of all built-in rules.
func BuiltinNames() []string {
	return append([]string(nil), DefaultRuleNames...)
}

func issueLinkRule(o Options) (Rule, error) {
	if o.IssueHost == "" {
		return Rule{}, fmt.Errorf("issue host is required")
	}
	re := regexp.MustCompile(
		`<a href="https://` + regexp.QuoteMeta(o.IssueHost) + `/browse/([^"]+?)">.+?</a>`)

	// The template is built once; only the key varies per match.
	prefix := `<ac:structured-macro ac:name="jira">` +
		`<ac:parameter ac:name="server">` + escapeTemplate(o.JiraServer) + `</ac:parameter>` +
		`<ac:parameter ac:name="columns">` + escapeTemplate(o.JiraColumns) + `</ac:parameter>` +
		`<ac:parameter ac:name="serverId">` + escapeTemplate(o.JiraServerID) + `</ac:parameter>` +
		`<ac:parameter ac:name="key">`
	return Rule{
		Name:     RuleIssueLink,
		Pattern:  re,
		Template: prefix + `${1}</ac:parameter></ac:structured-macro>`,
	}, nil
}

func headerAnchorRule(o Options) (Rule, error) {
	if o.AnchorMacroID == "" {
		return Rule{}, fmt.Errorf("anchor macro id is required")
	}
	return Rule{
		Name:    RuleHeaderAnchor,
		Pattern: regexp.MustCompile(`<h([1-9]) id="(.*?)">`),
		Template: `<h${1}><ac:structured-macro ac:name="anchor" ac:schema-version="1" ac:macro-id="` +
			escapeTemplate(o.AnchorMacroID) +
			`"><ac:parameter ac:name="">${2}</ac:parameter></ac:structured-macro>`,
	}, nil
}

func anchorLinkRule(Options) (Rule, error) {
	return Rule{
		Name:    RuleAnchorLink,
		Pattern: regexp.MustCompile(`<a href="#([^"]+?)">(.*?)</a>`),
		Template: `<ac:link ac:anchor="${1}"><ac:plain-text-link-body>` +
			`<![CDATA[${2}]]></ac:plain-text-link-body></ac:link>`,
	}, nil
}

func wikiLinkRule(o Options) (Rule, error) {
	if o.WikiHost == "" {
		return Rule{}, fmt.Errorf("wiki host is required")
	}
	re := regexp.MustCompile(
		`<a href="https://` + regexp.QuoteMeta(o.WikiHost) + `/display/[^/]+?/([^"]+?)">(.+?)</a>`)
	return Rule{
		Name:    RuleWikiLink,
		Pattern: re,
		Func: func(groups []string) string {
			title := strings.ReplaceAll(groups[1], "+", " ")
			return fmt.Sprintf(
				`<ac:link ac:tooltip="%[1]s"><ri:page ri:content-title="%[1]s" />`+
					`<ac:plain-text-link-body><![CDATA[%[2]s]]></ac:plain-text-link-body></ac:link>`,
				title, groups[2])
		},
	}, nil
}

// escapeTemplate protects literal '$' in configured constants from
// regexp.Expand.
func escapeTemplate(s string) string {
	return strings.ReplaceAll(s, "$", "$$")
}

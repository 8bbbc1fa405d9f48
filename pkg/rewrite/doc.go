// Package rewrite converts HTML documentation into Confluence storage format
// by applying an ordered list of regular-expression rules to each line of a
// file.
//
// # Rules
//
// The built-in rules, in their default order, are:
//
//   - issue-link: issue tracker /browse/KEY anchors become JIRA macros
//   - header-anchor: <hN id="x"> headings get an inline anchor macro
//   - anchor-link: <a href="#x"> links become ac:link anchors
//   - wiki-link: links to /display/SPACE/Page+Title become page references
//
// The rule list is data. Dropping wiki-link (see AnchorOnlyRuleNames) or
// appending custom pattern/template rules is a configuration choice:
//
//	rules, err := rewrite.NewRuleSet(rewrite.DefaultOptions(), rewrite.DefaultRuleNames, nil)
//	rw, err := rewrite.New(rewrite.Config{Rules: rules})
//	result, err := rw.RewriteFile("page.html")
//
// # Limitations
//
// Matching is per line and non-greedy. Markup that spans lines is left as is,
// and malformed input produces malformed output.
package rewrite

// Package markdown renders Markdown sources into the HTML the rewrite rules
// expect. Front matter may name the Confluence page the output publishes to.
package markdown

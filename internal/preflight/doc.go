// Package preflight provides readiness checks for the filesystem paths and
// capture tooling fieldnote depends on.
//
// The daemon runs RunAll before serving so a misconfigured data directory
// fails fast instead of surfacing as scattered request errors; the CLI
// "fieldnote status" command renders the same results for operators.
package preflight

// Package command implements the viewer's textual command language.
//
// A command line is split into statements on unquoted semicolons, and each
// statement is tokenized into words. The first word names a handler in a
// Registry; handlers receive both the tokenized arguments and the raw text
// following the name, so commands such as exec can pass text through to a
// shell unchanged.
//
// Aliases rewrite the first word of a statement exactly once:
//
//	r.Alias("next", "select_rel 1")
//	r.Execute(ctx, "next")     // runs "select_rel 1"
//	r.Execute(ctx, "next 2")   // runs "select_rel 1 2"
//
// Registry is not safe for concurrent use; it is owned by the goroutine
// that drives the viewer.
package command

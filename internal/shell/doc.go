// Package shell implements the command engine: path resolution, the
// ownership/permission model, the execute pipeline (pipe-to-grep
// filtering, redirects, wildcard expansion), the built-in command set,
// and tab completion, all over the vfs tree.
//
// The engine is single-threaded by contract: the host delivers one
// command line at a time and every Execute call runs to completion
// before returning. Errors crossing the Execute boundary are data, not
// faults; they are Unix-styled "{tool}: {path}: {reason}" lines.
package shell

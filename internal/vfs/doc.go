// Package vfs implements the in-memory virtual filesystem tree.
//
// A Node is either a File (leaf, holds text content) or a Directory
// (holds an ordered name-to-child mapping). The tree is strictly
// ownership-based: every child has exactly one parent, so cycles cannot
// occur. Entry insertion order is preserved for display purposes.
//
// The package also owns the JSON wire form used by persistence
// checkpoints and the built-in default tree seeded for new sessions.
package vfs

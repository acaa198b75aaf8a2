package vfs

import "strings"

// SplitPath breaks an absolute path into its non-empty segments.
func SplitPath(path string) []string {
	var segs []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			segs = append(segs, seg)
		}
	}
	return segs
}

// Lookup walks the tree from root following each segment of an absolute
// path. Returns nil, false if a segment is missing or an intermediate
// node is a file. "/" resolves to root itself.
func Lookup(root *Node, path string) (*Node, bool) {
	node := root
	for _, seg := range SplitPath(path) {
		child, ok := node.Get(seg)
		if !ok {
			return nil, false
		}
		node = child
	}
	return node, true
}

package shell

import (
	"strings"

	"github.com/termos-project/termos/internal/vfs"
)

// Resolve turns a relative, absolute or ~-prefixed path into a
// canonical absolute path. "~" expands to HOME; relative paths fold
// onto the current directory; "." segments drop and ".." segments pop
// (underflowing past root is a no-op). The result always starts with
// "/"; root is "/".
func (s *Shell) Resolve(path string) string {
	if strings.HasPrefix(path, "~") {
		path = s.env.Get("HOME") + path[len("~"):]
	}
	var stack []string
	if !strings.HasPrefix(path, "/") {
		stack = vfs.SplitPath(s.CurrentPath)
	}
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		default:
			stack = append(stack, seg)
		}
	}
	return "/" + strings.Join(stack, "/")
}

// GetNode resolves path and walks the tree to the named node.
func (s *Shell) GetNode(path string) (*vfs.Node, bool) {
	return vfs.Lookup(s.Root, s.Resolve(path))
}

// splitParent resolves path and splits it into the parent directory
// path and the final name. The root path has no parent (ok=false).
func (s *Shell) splitParent(path string) (parentPath, name string, ok bool) {
	abs := s.Resolve(path)
	segs := vfs.SplitPath(abs)
	if len(segs) == 0 {
		return "", "", false
	}
	return "/" + strings.Join(segs[:len(segs)-1], "/"), segs[len(segs)-1], true
}

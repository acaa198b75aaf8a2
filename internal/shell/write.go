package shell

import "github.com/termos-project/termos/internal/vfs"

// WriteFile is the single file-write primitive. Redirects and editor
// saves both route through it. Returns "" on success or a user-facing
// error line.
func (s *Shell) WriteFile(path, content string, appendMode bool) string {
	abs := s.Resolve(path)
	parentPath, name, ok := s.splitParent(abs)
	if !ok {
		return "sh: " + path + ": Is a directory"
	}
	if !s.CanWrite(abs) {
		return "sh: " + path + ": Permission denied"
	}
	parent, found := vfs.Lookup(s.Root, parentPath)
	if !found || !parent.IsDir() {
		return "sh: " + path + ": No such file or directory"
	}
	existing, exists := parent.Get(name)
	if exists && existing.IsDir() {
		return "sh: " + path + ": Is a directory"
	}
	if appendMode && exists {
		existing.Content += content
		return ""
	}
	parent.Put(name, vfs.NewFile(content))
	return ""
}

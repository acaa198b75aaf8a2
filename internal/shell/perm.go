package shell

import "strings"

// Display-only mode strings; no mode bits are actually enforced.
const (
	modeDirectory = "drwxr-xr-x"
	modeFile      = "-rw-r--r--"
)

// Owner returns the display owner of a path: anything at or under the
// current user's home belongs to that user, everything else to root.
func (s *Shell) Owner(path string) (user, group string) {
	if s.CurrentUser != "root" {
		home := "/home/" + s.CurrentUser
		abs := s.Resolve(path)
		if abs == home || strings.HasPrefix(abs, home+"/") {
			return s.CurrentUser, s.CurrentUser
		}
	}
	return "root", "root"
}

// CanWrite reports write authorization for a path. Root may write
// anywhere; other users only at or under their own home. Purely
// path-prefix based.
func (s *Shell) CanWrite(path string) bool {
	if s.CurrentUser == "root" {
		return true
	}
	home := "/home/" + s.CurrentUser
	abs := s.Resolve(path)
	return abs == home || strings.HasPrefix(abs, home+"/")
}

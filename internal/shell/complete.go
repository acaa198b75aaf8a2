package shell

import (
	"sort"
	"strings"
)

// Completion is the result of a tab-completion query.
type Completion struct {
	// Type is "command" for command-name completion, "path" otherwise.
	Type    string   `json:"type"`
	Matches []string `json:"matches"`
	// Prefix is the text being completed: the whole token for commands,
	// the directory component (as typed) for paths.
	Prefix string `json:"prefix"`
	// FilePrefix is the file-name fragment after the last "/" for path
	// completion.
	FilePrefix string `json:"file_prefix,omitempty"`
}

// GetCompletions completes a partial input line. A single
// whitespace-free token completes against command names; otherwise the
// last token completes as a path against its directory component.
func (s *Shell) GetCompletions(partial string) Completion {
	if !strings.ContainsAny(partial, " \t") {
		var matches []string
		for name := range s.commands {
			if strings.HasPrefix(name, partial) {
				matches = append(matches, name)
			}
		}
		sort.Strings(matches)
		return Completion{Type: "command", Matches: matches, Prefix: partial}
	}

	fields := strings.Split(partial, " ")
	last := fields[len(fields)-1]

	dirPart, filePrefix := "", last
	if idx := strings.LastIndex(last, "/"); idx >= 0 {
		dirPart, filePrefix = last[:idx+1], last[idx+1:]
	}

	lookup := s.CurrentPath
	if dirPart != "" {
		lookup = dirPart
	}
	dir, found := s.GetNode(lookup)
	if !found || !dir.IsDir() {
		return Completion{Type: "path", Prefix: dirPart, FilePrefix: filePrefix}
	}

	var matches []string
	for _, name := range dir.Names() {
		if !strings.HasPrefix(name, filePrefix) {
			continue
		}
		if filePrefix == "" && strings.HasPrefix(name, ".") {
			continue
		}
		if child, _ := dir.Get(name); child.IsDir() {
			name += "/"
		}
		matches = append(matches, name)
	}
	return Completion{Type: "path", Matches: matches, Prefix: dirPart, FilePrefix: filePrefix}
}

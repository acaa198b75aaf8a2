package shell

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
)

// filterSpec is a detected "| grep ..." stage.
type filterSpec struct {
	pattern    string
	ignoreCase bool
	invert     bool
}

// redirectSpec is a detected "> target" or ">> target" stage.
type redirectSpec struct {
	target string
	append bool
}

// Trailing redirect on a command text: ">> target" or "> target".
var redirectRe = regexp.MustCompile(`\s*(>>|>)\s*(\S+)\s*$`)

// Execute runs one raw command line through the pipeline: history,
// grep-pipe extraction, redirect extraction, tokenizing, wildcard
// expansion, dispatch, filter, redirect, checkpoint. Stage order is
// load-bearing; each stage consumes the residual command text left by
// the previous one.
func (s *Shell) Execute(line string) string {
	cmdText := strings.TrimSpace(line)
	if cmdText == "" {
		return ""
	}
	s.history = append(s.history, cmdText)

	var filter *filterSpec
	var redirect *redirectSpec

	// Pipe-to-grep detection. Only the segment before the first pipe is
	// executed; grep is a post-processing filter, not a command.
	if idx := strings.Index(cmdText, "|"); idx >= 0 {
		after := strings.TrimSpace(cmdText[idx+1:])
		if after == "grep" || strings.HasPrefix(after, "grep ") {
			grepArgs := strings.TrimSpace(strings.TrimPrefix(after, "grep"))
			// A redirect inside the grep segment applies to the
			// filtered output; carry it forward and strip it here.
			if m := redirectRe.FindStringSubmatch(grepArgs); m != nil {
				redirect = &redirectSpec{target: m[2], append: m[1] == ">>"}
				grepArgs = strings.TrimSpace(grepArgs[:len(grepArgs)-len(m[0])])
			}
			filter = parseGrepArgs(grepArgs)
			cmdText = strings.TrimSpace(cmdText[:idx])
		}
	}

	if redirect == nil {
		if m := redirectRe.FindStringSubmatch(cmdText); m != nil {
			redirect = &redirectSpec{target: m[2], append: m[1] == ">>"}
			cmdText = strings.TrimSpace(cmdText[:len(cmdText)-len(m[0])])
		}
	}

	fields := strings.Fields(cmdText)
	if len(fields) == 0 {
		return ""
	}
	name, args := fields[0], fields[1:]
	args = s.expandWildcards(args)

	handler, found := s.commands[name]
	if !found {
		return name + ": command not found"
	}

	output := s.dispatch(name, handler, args, filter != nil)

	if filter != nil {
		output = applyFilter(output, filter)
	}
	if redirect != nil {
		if writeErr := s.WriteFile(redirect.target, output, redirect.append); writeErr != "" {
			output = writeErr
		} else {
			output = ""
		}
	}

	s.checkpointNow()
	return output
}

// dispatch invokes a handler with the transient piped flag set and a
// catch-all for internal faults. A recovered panic becomes output; the
// handler's partial writes may already have applied.
func (s *Shell) dispatch(name string, handler Handler, args []string, piped bool) (output string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("command handler fault",
				zap.String("command", name),
				zap.Any("fault", r),
			)
			output = fmt.Sprintf("Error executing %s: %v", name, r)
		}
	}()
	s.isPiped = piped
	defer func() { s.isPiped = false }()
	return handler(s, args)
}

// parseGrepArgs extracts the filter pattern and flags from the token
// text after "grep". Tokens split quote-aware; -i and -v are flags; the
// first non-flag token is the pattern with one quote layer stripped.
func parseGrepArgs(text string) *filterSpec {
	f := &filterSpec{}
	for _, token := range splitQuoted(text) {
		switch token {
		case "-i":
			f.ignoreCase = true
		case "-v":
			f.invert = true
		case "-iv", "-vi":
			f.ignoreCase = true
			f.invert = true
		default:
			if f.pattern == "" {
				f.pattern = stripQuotes(token)
			}
		}
	}
	return f
}

// applyFilter keeps or drops output lines by substring containment.
func applyFilter(output string, f *filterSpec) string {
	pattern := f.pattern
	if f.ignoreCase {
		pattern = strings.ToLower(pattern)
	}
	var kept []string
	for _, line := range strings.Split(output, "\n") {
		probe := line
		if f.ignoreCase {
			probe = strings.ToLower(probe)
		}
		if strings.Contains(probe, pattern) != f.invert {
			kept = append(kept, line)
		}
	}
	result := strings.Join(kept, "\n")
	// Collapse a trailing blank line kept by the filter.
	if strings.HasSuffix(result, "\n\n") {
		result = result[:len(result)-1]
	}
	return result
}

// expandWildcards replaces arguments containing * or ? with the
// matching entry names of the current directory, in enumeration order.
// Zero matches leave the literal argument in place.
func (s *Shell) expandWildcards(args []string) []string {
	dir, found := s.GetNode(s.CurrentPath)
	if !found || !dir.IsDir() {
		return args
	}
	var expanded []string
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?") {
			expanded = append(expanded, arg)
			continue
		}
		var matches []string
		for _, name := range dir.Names() {
			if ok, err := doublestar.Match(arg, name); err == nil && ok {
				matches = append(matches, name)
			}
		}
		if len(matches) > 0 {
			expanded = append(expanded, matches...)
		} else {
			expanded = append(expanded, arg)
		}
	}
	return expanded
}

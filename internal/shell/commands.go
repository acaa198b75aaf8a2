package shell

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/termos-project/termos/internal/vfs"
)

// builtins returns the default command table. Callers may shadow any
// entry via Options.CustomCommands.
func builtins() map[string]Handler {
	return map[string]Handler{
		"ls":      cmdLs,
		"cd":      cmdCd,
		"cat":     cmdCat,
		"mkdir":   cmdMkdir,
		"touch":   cmdTouch,
		"rm":      cmdRm,
		"tree":    cmdTree,
		"echo":    cmdEcho,
		"pwd":     cmdPwd,
		"whoami":  cmdWhoami,
		"history": cmdHistory,
		"env":     cmdEnv,
		"date":    cmdDate,
		"help":    cmdHelp,
		"su":      cmdSu,
		"sudo":    cmdSudo,
		"exit":    cmdExit,
		"clear":   cmdClear,
		"vi":      cmdVi,
		"vim":     cmdVi,
	}
}

// helpLines maps command names to one-line synopses for help output.
var helpLines = map[string]string{
	"ls":      "ls [-alh] [path...]   list directory contents",
	"cd":      "cd [path]             change the working directory",
	"cat":     "cat <file>            print file contents",
	"mkdir":   "mkdir <dir>           create a directory",
	"touch":   "touch <file>          create an empty file",
	"rm":      "rm [-rfv] <target>... remove files or directories",
	"tree":    "tree                  show the directory tree",
	"echo":    "echo [text...]        print text",
	"pwd":     "pwd                   print the working directory",
	"whoami":  "whoami                print the current user",
	"history": "history               show command history",
	"env":     "env                   show environment variables",
	"date":    "date                  print the current time",
	"help":    "help                  show this help",
	"su":      "su [user]             switch user (default root)",
	"sudo":    "sudo <command>        run a command (no real elevation)",
	"exit":    "exit                  return to the previous user session",
	"clear":   "clear                 clear the display",
	"vi":      "vi <file>             edit a file",
	"vim":     "vim <file>            edit a file",
}

// parseFlags separates single-dash flag arguments from operands and
// returns the set of flag letters seen.
func parseFlags(args []string) (map[rune]bool, []string) {
	flags := make(map[rune]bool)
	var operands []string
	for _, arg := range args {
		if len(arg) > 1 && strings.HasPrefix(arg, "-") {
			for _, r := range arg[1:] {
				flags[r] = true
			}
			continue
		}
		operands = append(operands, arg)
	}
	return flags, operands
}

func cmdLs(s *Shell, args []string) string {
	flags, paths := parseFlags(args)
	all, long, human := flags['a'], flags['l'], flags['h']
	if len(paths) == 0 {
		paths = []string{"."}
	}

	var sections []string
	for _, arg := range paths {
		var node *vfs.Node
		var found bool
		var base string
		if arg == "." {
			// Literal "." echoes historical ls semantics: current
			// directory, no path resolution.
			node, found = vfs.Lookup(s.Root, s.CurrentPath)
			base = s.CurrentPath
		} else {
			node, found = s.GetNode(arg)
			base = s.Resolve(arg)
		}
		if !found {
			sections = append(sections, "ls: cannot access '"+arg+"': No such file or directory")
			continue
		}
		if !node.IsDir() {
			if long {
				sections = append(sections, s.longEntry(node, base, arg, human))
			} else {
				sections = append(sections, arg)
			}
			continue
		}
		sections = append(sections, s.listDirectory(node, base, all, long, human))
	}
	return strings.Join(sections, "\n")
}

// listDirectory renders one directory's entries: hidden filtered unless
// -a, directories before files, then lexicographic.
func (s *Shell) listDirectory(dir *vfs.Node, base string, all, long, human bool) string {
	var names []string
	for _, name := range dir.Names() {
		if !all && strings.HasPrefix(name, ".") {
			continue
		}
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, _ := dir.Get(names[i])
		b, _ := dir.Get(names[j])
		if a.IsDir() != b.IsDir() {
			return a.IsDir()
		}
		return names[i] < names[j]
	})

	if long {
		lines := make([]string, 0, len(names))
		for _, name := range names {
			child, _ := dir.Get(name)
			lines = append(lines, s.longEntry(child, joinPath(base, name), name, human))
		}
		return strings.Join(lines, "\n")
	}
	if s.isPiped {
		return strings.Join(names, "\n")
	}
	return strings.Join(names, "  ")
}

// longEntry renders one ls -l row with fixed-width columns.
func (s *Shell) longEntry(node *vfs.Node, path, display string, human bool) string {
	mode := modeFile
	links := 1
	if node.IsDir() {
		mode = modeDirectory
		links = 2
	}
	owner, group := s.Owner(path)
	size := fmt.Sprintf("%d", node.Size())
	if human {
		size = humanSize(node.Size())
	}
	date := time.Now().Format("Jan _2 15:04")
	return fmt.Sprintf("%s %2d %-8s %-8s %6s %s %s", mode, links, owner, group, size, date, display)
}

// humanSize renders a size as B/K/M, rounded.
func humanSize(size int) string {
	switch {
	case size < 1024:
		return fmt.Sprintf("%dB", size)
	case size < 1024*1024:
		return fmt.Sprintf("%.0fK", float64(size)/1024)
	default:
		return fmt.Sprintf("%.0fM", float64(size)/(1024*1024))
	}
}

func joinPath(base, name string) string {
	if base == "/" {
		return "/" + name
	}
	return base + "/" + name
}

func cmdCd(s *Shell, args []string) string {
	target := s.env.Get("HOME")
	if len(args) > 0 {
		target = args[0]
	}
	abs := s.Resolve(target)
	node, found := vfs.Lookup(s.Root, abs)
	if !found {
		return "cd: " + target + ": No such file or directory"
	}
	if !node.IsDir() {
		return "cd: " + target + ": Not a directory"
	}
	s.CurrentPath = abs
	s.env.Set("PWD", abs)
	return ""
}

func cmdCat(s *Shell, args []string) string {
	if len(args) == 0 {
		return "cat: missing file operand"
	}
	var parts []string
	for _, arg := range args {
		node, found := s.GetNode(arg)
		switch {
		case !found:
			parts = append(parts, "cat: "+arg+": No such file or directory")
		case node.IsDir():
			parts = append(parts, "cat: "+arg+": Is a directory")
		default:
			parts = append(parts, node.Content)
		}
	}
	return strings.Join(parts, "\n")
}

func cmdMkdir(s *Shell, args []string) string {
	_, operands := parseFlags(args)
	if len(operands) == 0 {
		return "mkdir: missing operand"
	}
	var lines []string
	for _, arg := range operands {
		abs := s.Resolve(arg)
		if !s.CanWrite(abs) {
			lines = append(lines, "mkdir: cannot create directory '"+arg+"': Permission denied")
			continue
		}
		parentPath, name, ok := s.splitParent(abs)
		if !ok {
			lines = append(lines, "mkdir: cannot create directory '"+arg+"': File exists")
			continue
		}
		parent, found := vfs.Lookup(s.Root, parentPath)
		if !found || !parent.IsDir() {
			lines = append(lines, "mkdir: cannot create directory '"+arg+"': No such file or directory")
			continue
		}
		if _, exists := parent.Get(name); exists {
			lines = append(lines, "mkdir: cannot create directory '"+arg+"': File exists")
			continue
		}
		parent.Put(name, vfs.NewDirectory())
	}
	return strings.Join(lines, "\n")
}

func cmdTouch(s *Shell, args []string) string {
	_, operands := parseFlags(args)
	if len(operands) == 0 {
		return "touch: missing file operand"
	}
	var lines []string
	for _, arg := range operands {
		abs := s.Resolve(arg)
		if !s.CanWrite(abs) {
			lines = append(lines, "touch: cannot touch '"+arg+"': Permission denied")
			continue
		}
		parentPath, name, ok := s.splitParent(abs)
		if !ok {
			continue
		}
		parent, found := vfs.Lookup(s.Root, parentPath)
		if !found || !parent.IsDir() {
			lines = append(lines, "touch: cannot touch '"+arg+"': No such file or directory")
			continue
		}
		// Existing file: no-op, content untouched.
		if _, exists := parent.Get(name); exists {
			continue
		}
		parent.Put(name, vfs.NewFile(""))
	}
	return strings.Join(lines, "\n")
}

func cmdRm(s *Shell, args []string) string {
	flags, targets := parseFlags(args)
	recursive, force, verbose := flags['r'], flags['f'], flags['v']
	if len(targets) == 0 {
		return "rm: missing operand"
	}
	var lines []string
	for _, target := range targets {
		abs := s.Resolve(target)
		parentPath, name, ok := s.splitParent(abs)
		if !ok {
			lines = append(lines, "rm: cannot remove '"+target+"': Permission denied")
			continue
		}
		// Authorization is checked on the parent: removal mutates it.
		if !s.CanWrite(parentPath) {
			lines = append(lines, "rm: cannot remove '"+target+"': Permission denied")
			continue
		}
		parent, found := vfs.Lookup(s.Root, parentPath)
		if !found || !parent.IsDir() {
			found = false
		}
		var node *vfs.Node
		if found {
			node, found = parent.Get(name)
		}
		if !found {
			if !force {
				lines = append(lines, "rm: cannot remove '"+target+"': No such file or directory")
			}
			continue
		}
		if node.IsDir() && !recursive {
			if !force {
				lines = append(lines, "rm: cannot remove '"+target+"': Is a directory")
			}
			continue
		}
		parent.Remove(name)
		if verbose {
			lines = append(lines, "removed '"+target+"'")
		}
	}
	return strings.Join(lines, "\n")
}

func cmdTree(s *Shell, args []string) string {
	dir, found := vfs.Lookup(s.Root, s.CurrentPath)
	if !found || !dir.IsDir() {
		return "tree: " + s.CurrentPath + ": No such file or directory"
	}
	lines := []string{"."}
	renderTree(dir, "", &lines)
	return strings.Join(lines, "\n")
}

// renderTree walks depth-first with box-drawing connectors, extending
// the prefix with a continuation bar for every non-last ancestor.
func renderTree(dir *vfs.Node, prefix string, lines *[]string) {
	var names []string
	for _, name := range dir.Names() {
		if strings.HasPrefix(name, ".") {
			continue
		}
		names = append(names, name)
	}
	for i, name := range names {
		connector, continuation := "├── ", "│   "
		if i == len(names)-1 {
			connector, continuation = "└── ", "    "
		}
		*lines = append(*lines, prefix+connector+name)
		if child, _ := dir.Get(name); child.IsDir() {
			renderTree(child, prefix+continuation, lines)
		}
	}
}

func cmdEcho(s *Shell, args []string) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = stripQuotes(arg)
	}
	return strings.Join(parts, " ")
}

func cmdPwd(s *Shell, args []string) string {
	return s.CurrentPath
}

func cmdWhoami(s *Shell, args []string) string {
	return s.CurrentUser
}

func cmdHistory(s *Shell, args []string) string {
	lines := make([]string, len(s.history))
	for i, entry := range s.history {
		lines[i] = fmt.Sprintf("%5d  %s", i+1, entry)
	}
	return strings.Join(lines, "\n")
}

func cmdEnv(s *Shell, args []string) string {
	var lines []string
	for _, key := range s.env.Names() {
		lines = append(lines, key+"="+s.env.Get(key))
	}
	return strings.Join(lines, "\n")
}

func cmdDate(s *Shell, args []string) string {
	return time.Now().Format(time.UnixDate)
}

func cmdHelp(s *Shell, args []string) string {
	names := make([]string, 0, len(s.commands))
	for name := range s.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	var lines []string
	for _, name := range names {
		if line, ok := helpLines[name]; ok {
			lines = append(lines, line)
		} else {
			lines = append(lines, name)
		}
	}
	return strings.Join(lines, "\n")
}

func cmdSu(s *Shell, args []string) string {
	user := "root"
	if len(args) > 0 {
		user = args[0]
	}
	s.userStack = append(s.userStack, frame{
		user: s.CurrentUser,
		home: s.env.Get("HOME"),
		path: s.CurrentPath,
	})
	s.CurrentUser = user
	s.env.Set("USER", user)
	s.env.Set("HOME", homeFor(user))
	// Working directory is preserved across the switch.
	return SentinelUserSwitched + user
}

func cmdSudo(s *Shell, args []string) string {
	if len(args) == 0 {
		return "sudo: missing operand"
	}
	if args[0] == "su" {
		return cmdSu(s, args[1:])
	}
	// No real elevation: the command runs as the current user.
	handler, found := s.commands[args[0]]
	if !found {
		return args[0] + ": command not found"
	}
	return handler(s, args[1:])
}

func cmdExit(s *Shell, args []string) string {
	if len(s.userStack) == 0 {
		return "exit: no other user session to return to"
	}
	top := s.userStack[len(s.userStack)-1]
	s.userStack = s.userStack[:len(s.userStack)-1]
	s.CurrentUser = top.user
	s.CurrentPath = top.path
	s.env.Set("USER", top.user)
	s.env.Set("HOME", top.home)
	s.env.Set("PWD", top.path)
	return SentinelUserSwitched + top.user
}

func cmdClear(s *Shell, args []string) string {
	return SentinelClear
}

func cmdVi(s *Shell, args []string) string {
	if len(args) == 0 {
		return "vi: missing file operand"
	}
	if s.openEditor == nil {
		return "vi: no terminal attached"
	}
	abs := s.Resolve(args[0])
	content := ""
	if node, found := vfs.Lookup(s.Root, abs); found {
		if node.IsDir() {
			return "vi: " + args[0] + ": Is a directory"
		}
		content = node.Content
	}
	save := func(filename, text string) bool {
		if writeErr := s.WriteFile(filename, text, false); writeErr != "" {
			return false
		}
		s.checkpointNow()
		return true
	}
	s.openEditor(abs, content, save)
	return SentinelViOpened
}

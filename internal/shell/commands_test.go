package shell

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLsDefault(t *testing.T) {
	s := newTestShell(t)
	out := s.Execute("ls")
	assert.Equal(t, "documents  projects  README.md  notes.txt", out)
}

func TestLsAll(t *testing.T) {
	s := newTestShell(t)
	out := s.Execute("ls -a")
	assert.Contains(t, out, ".profile")
}

func TestLsLong(t *testing.T) {
	s := newTestShell(t)
	out := s.Execute("ls -l")
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "drwxr-xr-x"), "directories first: %q", lines[0])
	assert.Contains(t, lines[0], "user")
	assert.True(t, strings.HasSuffix(lines[0], "documents"))
	assert.True(t, strings.HasPrefix(lines[2], "-rw-r--r--"))
}

func TestLsHumanSizes(t *testing.T) {
	s := newTestShell(t)
	s.Execute("cd /tmp")
	// canWrite(/tmp) fails for user; write as root instead
	s.Execute("su")
	s.Execute("touch big")
	node, ok := s.GetNode("/tmp/big")
	require.True(t, ok)
	node.Content = strings.Repeat("x", 2048)

	out := s.Execute("ls -lh")
	assert.Contains(t, out, "2K")
}

func TestLsMissingAndFileArgs(t *testing.T) {
	s := newTestShell(t)
	assert.Equal(t, "ls: cannot access 'ghost': No such file or directory", s.Execute("ls ghost"))
	assert.Equal(t, "notes.txt", s.Execute("ls notes.txt"), "a file path echoes its argument")
}

func TestLsMultiplePaths(t *testing.T) {
	s := newTestShell(t)
	out := s.Execute("ls notes.txt README.md")
	assert.Equal(t, "notes.txt\nREADME.md", out)
}

func TestCd(t *testing.T) {
	s := newTestShell(t)

	assert.Equal(t, "", s.Execute("cd /etc"))
	assert.Equal(t, "/etc", s.CurrentPath)
	assert.Equal(t, "/etc", s.Env().Get("PWD"))

	assert.Equal(t, "cd: ghost: No such file or directory", s.Execute("cd ghost"))
	assert.Equal(t, "cd: passwd: Not a directory", s.Execute("cd passwd"))

	// No argument resets to HOME.
	assert.Equal(t, "", s.Execute("cd"))
	assert.Equal(t, "/home/user", s.CurrentPath)
}

func TestCat(t *testing.T) {
	s := newTestShell(t)
	assert.Equal(t, "cat: missing file operand", s.Execute("cat"))
	assert.Equal(t, "cat: ghost: No such file or directory", s.Execute("cat ghost"))
	assert.Equal(t, "cat: projects: Is a directory", s.Execute("cat projects"))
	assert.Equal(t, "- finish the project report\n- water the plants\n", s.Execute("cat notes.txt"))
}

func TestMkdirTouchBoundary(t *testing.T) {
	s := newTestShell(t)

	assert.Equal(t, "", s.Execute("mkdir newdir"))
	assert.Equal(t, "mkdir: cannot create directory 'newdir': File exists", s.Execute("mkdir newdir"))
	assert.Equal(t, "mkdir: cannot create directory 'a/b/c': No such file or directory", s.Execute("mkdir a/b/c"))
	assert.Equal(t, "mkdir: cannot create directory '/etc/x': Permission denied", s.Execute("mkdir /etc/x"))
	assert.Equal(t, "mkdir: missing operand", s.Execute("mkdir"))

	assert.Equal(t, "", s.Execute("touch file.txt"))
	s.Execute("echo content > file.txt")
	// touch on an existing file is a no-op: content unchanged.
	assert.Equal(t, "", s.Execute("touch file.txt"))
	assert.Equal(t, "content", s.Execute("cat file.txt"))

	assert.Equal(t, "touch: cannot touch '/etc/x': Permission denied", s.Execute("touch /etc/x"))
	assert.Equal(t, "touch: missing file operand", s.Execute("touch"))
}

func TestRm(t *testing.T) {
	s := newTestShell(t)
	s.Execute("touch doomed.txt")
	s.Execute("mkdir doomeddir")

	assert.Equal(t, "rm: missing operand", s.Execute("rm"))
	assert.Equal(t, "rm: cannot remove 'ghost': No such file or directory", s.Execute("rm ghost"))
	assert.Equal(t, "", s.Execute("rm -f ghost"), "-f suppresses not-found")

	assert.Equal(t, "rm: cannot remove 'doomeddir': Is a directory", s.Execute("rm doomeddir"))
	assert.Equal(t, "", s.Execute("rm -f doomeddir"), "-f suppresses is-directory, removal skipped")
	_, ok := s.GetNode("doomeddir")
	assert.True(t, ok, "directory still present after rm -f without -r")

	assert.Equal(t, "removed 'doomeddir'", s.Execute("rm -rv doomeddir"))
	assert.Equal(t, "", s.Execute("rm doomed.txt"))

	assert.Equal(t, "rm: cannot remove '/etc/passwd': Permission denied", s.Execute("rm /etc/passwd"))
}

func TestTree(t *testing.T) {
	s := newTestShell(t)
	out := s.Execute("tree")
	expected := strings.Join([]string{
		".",
		"├── README.md",
		"├── notes.txt",
		"├── projects",
		"│   └── hello.go",
		"└── documents",
		"    └── todo.md",
	}, "\n")
	assert.Equal(t, expected, out)
}

func TestSuExitPairing(t *testing.T) {
	s := newTestShell(t)
	s.Execute("cd projects")

	out := s.Execute("su alice")
	assert.Equal(t, SentinelUserSwitched+"alice", out)
	assert.Equal(t, "alice", s.CurrentUser)
	assert.Equal(t, "/home/alice", s.Env().Get("HOME"))
	assert.Equal(t, "/home/user/projects", s.CurrentPath, "working directory preserved")

	out = s.Execute("exit")
	assert.Equal(t, SentinelUserSwitched+"user", out)
	assert.Equal(t, "user", s.CurrentUser)
	assert.Equal(t, "/home/user", s.Env().Get("HOME"))
	assert.Equal(t, "/home/user/projects", s.CurrentPath)

	assert.Equal(t, "exit: no other user session to return to", s.Execute("exit"))
	assert.Equal(t, "user", s.CurrentUser, "failed exit changes nothing")
}

func TestSuDefaultsToRoot(t *testing.T) {
	s := newTestShell(t)
	assert.Equal(t, SentinelUserSwitched+"root", s.Execute("su"))
	assert.Equal(t, "root", s.CurrentUser)
	assert.Equal(t, "/root", s.Env().Get("HOME"))
	assert.True(t, s.CanWrite("/etc/anything"))
}

func TestSudo(t *testing.T) {
	s := newTestShell(t)

	assert.Equal(t, "sudo: missing operand", s.Execute("sudo"))
	assert.Equal(t, "user", s.Execute("sudo whoami"), "no real elevation")
	assert.Equal(t, "frob: command not found", s.Execute("sudo frob"))

	// sudo su delegates to su.
	assert.Equal(t, SentinelUserSwitched+"root", s.Execute("sudo su"))
	assert.Equal(t, "root", s.CurrentUser)
}

func TestClear(t *testing.T) {
	s := newTestShell(t)
	assert.Equal(t, SentinelClear, s.Execute("clear"))
}

func TestViSentinel(t *testing.T) {
	var opened string
	s := New(Options{
		Username: "user",
		OpenEditor: func(filename, content string, save SaveFunc) {
			opened = filename + "|" + content
		},
	})

	assert.Equal(t, "vi: missing file operand", s.Execute("vi"))
	assert.Equal(t, "vi: projects: Is a directory", s.Execute("vi projects"))

	out := s.Execute("vi notes.txt")
	assert.Equal(t, SentinelViOpened, out)
	assert.Equal(t, "/home/user/notes.txt|- finish the project report\n- water the plants\n", opened)

	// New files open empty.
	s.Execute("vim brand-new.txt")
	assert.Equal(t, "/home/user/brand-new.txt|", opened)
}

func TestViSaveRoutesThroughWritePrimitive(t *testing.T) {
	var savedBy SaveFunc
	s := New(Options{
		Username: "user",
		OpenEditor: func(filename, content string, save SaveFunc) {
			savedBy = save
		},
	})
	s.Execute("vi notes.txt")
	require.NotNil(t, savedBy)

	assert.True(t, savedBy("/home/user/notes.txt", "rewritten"))
	assert.Equal(t, "rewritten", s.Execute("cat notes.txt"))

	assert.False(t, savedBy("/etc/forbidden", "nope"), "save honours the permission model")
}

func TestEchoPwdWhoami(t *testing.T) {
	s := newTestShell(t)
	assert.Equal(t, "hello world", s.Execute(`echo hello world`))
	assert.Equal(t, "hello world", s.Execute(`echo "hello" 'world'`))
	assert.Equal(t, "/home/user", s.Execute("pwd"))
	assert.Equal(t, "user", s.Execute("whoami"))
}

func TestHistoryCommand(t *testing.T) {
	s := newTestShell(t)
	s.Execute("pwd")
	s.Execute("whoami")
	out := s.Execute("history")
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "    1  pwd", lines[0])
	assert.Equal(t, "    2  whoami", lines[1])
	assert.Equal(t, "    3  history", lines[2])
}

func TestEnvCommand(t *testing.T) {
	s := newTestShell(t)
	out := s.Execute("env")
	assert.Contains(t, out, "USER=user")
	assert.Contains(t, out, "HOME=/home/user")
	assert.Contains(t, out, "PWD=/home/user")
	assert.Contains(t, out, "SHELL=/bin/sh")
}

func TestHelpListsBuiltins(t *testing.T) {
	s := newTestShell(t)
	out := s.Execute("help")
	for _, name := range []string{"ls ", "cd ", "vi ", "su "} {
		assert.Contains(t, out, name)
	}
}

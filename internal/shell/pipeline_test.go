package shell

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termos-project/termos/internal/persist"
)

func TestExecuteEmptyInput(t *testing.T) {
	s := newTestShell(t)
	assert.Equal(t, "", s.Execute(""))
	assert.Equal(t, "", s.Execute("   \t "))
	assert.Empty(t, s.History(), "empty input leaves no history entry")
}

func TestExecuteCommandNotFound(t *testing.T) {
	s := newTestShell(t)
	assert.Equal(t, "frobnicate: command not found", s.Execute("frobnicate --now"))
	assert.Equal(t, []string{"frobnicate --now"}, s.History(), "history records the line anyway")
}

func TestRedirectRoundTrip(t *testing.T) {
	s := newTestShell(t)

	assert.Equal(t, "", s.Execute(`echo "A" > f.txt`))
	assert.Equal(t, "A", s.Execute("cat f.txt"))

	assert.Equal(t, "", s.Execute(`echo "B" > f.txt`))
	assert.Equal(t, "B", s.Execute("cat f.txt"), "overwrite replaces")

	assert.Equal(t, "", s.Execute(`echo "C" >> f.txt`))
	assert.Equal(t, "BC", s.Execute("cat f.txt"), "append adds no separator")
}

func TestRedirectPermissionDenied(t *testing.T) {
	s := newTestShell(t)
	out := s.Execute("echo hi > /etc/evil")
	assert.Equal(t, "sh: /etc/evil: Permission denied", out)
	assert.Equal(t, "cat: /etc/evil: No such file or directory", s.Execute("cat /etc/evil"))
}

func TestWildcardExpansion(t *testing.T) {
	s := newTestShell(t)
	s.Execute("mkdir work")
	s.Execute("cd work")
	s.Execute("touch a.txt")
	s.Execute("touch b.txt")
	s.Execute("touch c.log")

	assert.Equal(t, "a.txt\nb.txt", s.Execute("ls *.txt"))

	out := s.Execute("rm -v *.txt")
	assert.Equal(t, "removed 'a.txt'\nremoved 'b.txt'", out)
	assert.Equal(t, "c.log", s.Execute("ls"))
}

func TestWildcardNoMatchStaysLiteral(t *testing.T) {
	s := newTestShell(t)
	out := s.Execute("cat *.nomatch")
	assert.Equal(t, "cat: *.nomatch: No such file or directory", out)
}

func TestWildcardQuestionMark(t *testing.T) {
	s := newTestShell(t)
	s.Execute("mkdir w")
	s.Execute("cd w")
	s.Execute("touch a1")
	s.Execute("touch a2")
	s.Execute("touch a10")

	assert.Equal(t, "a1\na2", s.Execute("ls a?"))
}

func TestPipeGrepFilter(t *testing.T) {
	s := newTestShell(t)
	out := s.Execute("ls | grep -i readme")
	assert.Equal(t, "README.md", out)
}

func TestPipeGrepInvert(t *testing.T) {
	s := newTestShell(t)
	s.Execute("mkdir w")
	s.Execute("cd w")
	s.Execute("touch alpha.txt")
	s.Execute("touch beta.txt")

	assert.Equal(t, "beta.txt", s.Execute("ls | grep -v alpha"))
}

func TestPipeGrepQuotedPattern(t *testing.T) {
	s := newTestShell(t)
	assert.Equal(t, "README.md", s.Execute(`ls | grep "README"`))
}

func TestPipeGrepWithRedirect(t *testing.T) {
	s := newTestShell(t)
	assert.Equal(t, "", s.Execute("ls | grep README > found.txt"))
	assert.Equal(t, "README.md", s.Execute("cat found.txt"))
}

func TestPipeNonGrepIgnored(t *testing.T) {
	s := newTestShell(t)
	// Only grep is understood as a filter; any other pipe target falls
	// through to the command as literal arguments.
	out := s.Execute("ls | sort")
	assert.Equal(t,
		"ls: cannot access '|': No such file or directory\n"+
			"ls: cannot access 'sort': No such file or directory",
		out)
}

func TestDispatchRecoversPanic(t *testing.T) {
	s := New(Options{
		Username: "user",
		CustomCommands: map[string]Handler{
			"boom": func(s *Shell, args []string) string {
				panic("kaboom")
			},
		},
	})
	assert.Equal(t, "Error executing boom: kaboom", s.Execute("boom"))
	// The shell keeps working afterwards.
	assert.Equal(t, "/home/user", s.Execute("pwd"))
}

func TestCustomCommandOverridesBuiltin(t *testing.T) {
	s := New(Options{
		Username: "user",
		CustomCommands: map[string]Handler{
			"pwd": func(s *Shell, args []string) string { return "overridden" },
		},
	})
	assert.Equal(t, "overridden", s.Execute("pwd"))
}

func TestCheckpointAfterExecution(t *testing.T) {
	store := persist.NewMemory()
	cp := persist.NewCheckpointer(store, "t", nil)
	s := New(Options{Username: "user", Checkpoint: cp})

	s.Execute("mkdir snapshot-me")

	_, found, err := store.Get("t_filesystem")
	require.NoError(t, err)
	assert.True(t, found, "checkpoint written after execution")

	user, _, _ := store.Get("t_current_user")
	assert.Equal(t, "user", user)
}

func TestNoCheckpointOnCommandNotFound(t *testing.T) {
	store := persist.NewMemory()
	cp := persist.NewCheckpointer(store, "t", nil)
	s := New(Options{Username: "user", Checkpoint: cp})

	s.Execute("nope")

	_, found, _ := store.Get("t_filesystem")
	assert.False(t, found)
}

func TestRestoreFromCheckpoint(t *testing.T) {
	store := persist.NewMemory()
	cp := persist.NewCheckpointer(store, "t", nil)

	first := New(Options{Username: "user", Checkpoint: cp})
	first.Execute("echo hello > keep.txt")
	first.Execute("cd /tmp")

	second := New(Options{Username: "user", Checkpoint: persist.NewCheckpointer(store, "t", nil)})
	assert.Equal(t, "/tmp", second.CurrentPath)
	assert.Equal(t, "hello", second.Execute("cat /home/user/keep.txt"))
}

func TestIsPipedScopedToCall(t *testing.T) {
	s := newTestShell(t)
	// Piped: one name per line.
	piped := s.Execute("ls | grep txt")
	assert.NotContains(t, piped, "  ")
	// Next plain call is back to column output.
	plain := s.Execute("ls")
	assert.True(t, strings.Contains(plain, "  "), "unpiped ls is space-joined: %q", plain)
}

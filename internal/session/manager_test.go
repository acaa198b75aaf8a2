package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termos-project/termos/internal/config"
	"github.com/termos-project/termos/internal/editor"
	"github.com/termos-project/termos/internal/persist"
	"github.com/termos-project/termos/internal/shell"
)

// Metrics stay nil throughout: the Prometheus collectors register
// globally and belong to the server wiring, not to unit tests.

func newTestManager(t *testing.T, store persist.Store) *Manager {
	t.Helper()
	cfg := config.Default()
	if store != nil {
		cfg.Persist.Enabled = true
	}
	return NewManager(cfg, store, nil, nil)
}

func TestManagerLifecycle(t *testing.T) {
	m := newTestManager(t, nil)
	assert.EqualValues(t, 0, m.Count())

	sess := m.Create()
	require.NotEmpty(t, sess.ID)
	assert.EqualValues(t, 1, m.Count())

	got, ok := m.Get(sess.ID)
	require.True(t, ok)
	assert.Same(t, sess, got)

	_, ok = m.Get("no-such-id")
	assert.False(t, ok)

	assert.True(t, m.Close(sess.ID))
	assert.False(t, m.Close(sess.ID), "double close reports false")
	assert.EqualValues(t, 0, m.Count())
}

func TestSessionExecuteAndPrompt(t *testing.T) {
	m := newTestManager(t, nil)
	sess := m.Create()

	assert.Equal(t, "user", sess.Execute("whoami"))

	user, path := sess.Prompt()
	assert.Equal(t, "user", user)
	assert.Equal(t, "/home/user", path)

	c := sess.Completions("cat no")
	assert.Equal(t, []string{"notes.txt"}, c.Matches)

	sess.Execute("cd /tmp")
	_, path = sess.Prompt()
	assert.Equal(t, "/tmp", path)
}

func TestSessionEditorLifecycle(t *testing.T) {
	m := newTestManager(t, nil)
	sess := m.Create()

	exited := false
	sess.AttachSurface(editor.NopSurface{}, func() { exited = true })

	assert.False(t, sess.EditorOpen())
	assert.False(t, sess.HandleKey("i"), "keys without an editor are refused")

	out := sess.Execute("vi notes.txt")
	assert.Equal(t, shell.SentinelViOpened, out)
	require.True(t, sess.EditorOpen())

	// Rewrite the file and save through the editor.
	for _, key := range []string{"d", "d", "d", "d", "i", "o", "k", "Escape"} {
		assert.True(t, sess.HandleKey(key))
	}
	for _, key := range []string{":", "w", "q", "Enter"} {
		sess.HandleKey(key)
	}

	assert.False(t, sess.EditorOpen())
	assert.True(t, exited, "exit hook fired when the editor closed")
	assert.Equal(t, "ok", sess.Execute("cat notes.txt"))
}

func TestSessionsRestoreFromSharedStore(t *testing.T) {
	store := persist.NewMemory()

	m := newTestManager(t, store)
	first := m.Create()
	first.Execute("mkdir workdir")
	first.Execute("cd workdir")
	first.Execute("touch artifact.txt")

	second := m.Create()
	assert.Equal(t, "/home/user/workdir", second.Shell().CurrentPath)
	assert.Equal(t, "artifact.txt", second.Execute("ls"))
}

func TestSessionWithoutPersistenceStartsFresh(t *testing.T) {
	m := newTestManager(t, nil)
	first := m.Create()
	first.Execute("touch marker.txt")

	second := m.Create()
	assert.Equal(t, "ls: cannot access 'marker.txt': No such file or directory",
		second.Execute("ls marker.txt"))
}

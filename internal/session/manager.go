// Package session manages shell sessions: one Session couples a shell
// state with an optional open editor, and the Manager tracks sessions
// by ID for the HTTP and WebSocket layers.
package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/termos-project/termos/internal/config"
	"github.com/termos-project/termos/internal/editor"
	"github.com/termos-project/termos/internal/monitoring"
	"github.com/termos-project/termos/internal/persist"
	"github.com/termos-project/termos/internal/shell"
)

// Session is one host-facing shell session. All calls on a session are
// expected to arrive from a single event-processing goroutine (the
// WebSocket read loop); only the Manager is shared.
type Session struct {
	ID        string
	CreatedAt time.Time

	shell   *shell.Shell
	editor  *editor.Editor
	surface editor.Surface
	onExit  func()

	metrics *monitoring.Metrics
	logger  *zap.Logger
}

// Execute runs one command line and returns its output (possibly a
// sentinel).
func (s *Session) Execute(line string) string {
	if s.metrics != nil {
		if name := firstField(line); name != "" {
			s.metrics.RecordCommand(name)
		}
	}
	output := s.shell.Execute(line)
	if s.metrics != nil && strings.HasSuffix(output, ": command not found") {
		s.metrics.CommandsNotFound.Inc()
	}
	return output
}

// Completions answers a tab-completion query.
func (s *Session) Completions(input string) shell.Completion {
	return s.shell.GetCompletions(input)
}

// Shell exposes the underlying shell state.
func (s *Session) Shell() *shell.Shell { return s.shell }

// Prompt returns the data a host needs to draw its prompt line.
func (s *Session) Prompt() (user, path string) {
	return s.shell.CurrentUser, s.shell.CurrentPath
}

// EditorOpen reports whether an editor currently owns keystrokes.
func (s *Session) EditorOpen() bool { return s.editor != nil }

// HandleKey forwards one key event to the open editor. Returns false
// when no editor is open.
func (s *Session) HandleKey(key string) bool {
	if s.editor == nil {
		return false
	}
	if s.metrics != nil {
		s.metrics.Keystrokes.Inc()
	}
	s.editor.HandleKey(key)
	return true
}

// AttachSurface installs the display surface and exit hook used by
// editors opened in this session. Call before delivering the first
// command that may open an editor.
func (s *Session) AttachSurface(surface editor.Surface, onExit func()) {
	s.surface = surface
	s.onExit = onExit
}

// openEditor is the shell's editor bootstrap (wired as
// shell.Options.OpenEditor).
func (s *Session) openEditor(filename, content string, save shell.SaveFunc) {
	if s.metrics != nil {
		s.metrics.EditorsOpened.Inc()
	}
	surface := s.surface
	if surface == nil {
		surface = editor.NopSurface{}
	}
	s.editor = editor.Open(filename, content, editor.SaveFunc(save), func() {
		s.editor = nil
		if s.onExit != nil {
			s.onExit()
		}
	}, surface)
}

// Manager tracks sessions by ID.
type Manager struct {
	sessions sync.Map
	count    int64
	mu       sync.Mutex

	cfg     *config.Config
	store   persist.Store
	metrics *monitoring.Metrics
	logger  *zap.Logger
}

// NewManager creates a session manager. The store backs checkpoint
// persistence when it is enabled in cfg.
func NewManager(cfg *config.Config, store persist.Store, metrics *monitoring.Metrics, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{cfg: cfg, store: store, metrics: metrics, logger: logger}
}

// Create builds a new session with a fresh shell. When persistence is
// enabled the shell restores its state from the configured checkpoint
// prefix.
func (m *Manager) Create() *Session {
	id := uuid.NewString()
	sess := &Session{
		ID:        id,
		CreatedAt: time.Now(),
		metrics:   m.metrics,
		logger:    m.logger.With(zap.String("session_id", id)),
	}

	var checkpoint *persist.Checkpointer
	if m.cfg.Persist.Enabled && m.store != nil {
		checkpoint = persist.NewCheckpointer(m.store, m.cfg.Persist.Prefix, sess.logger)
	}

	sess.shell = shell.New(shell.Options{
		Username:   m.cfg.Shell.Username,
		Checkpoint: checkpoint,
		OpenEditor: sess.openEditor,
		Logger:     sess.logger,
	})

	m.sessions.Store(id, sess)
	m.mu.Lock()
	m.count++
	m.mu.Unlock()
	if m.metrics != nil {
		m.metrics.SessionsTotal.Inc()
		m.metrics.SessionsActive.Inc()
	}
	sess.logger.Info("session created", zap.String("user", sess.shell.CurrentUser))
	return sess
}

// Get retrieves a session by ID.
func (m *Manager) Get(id string) (*Session, bool) {
	val, ok := m.sessions.Load(id)
	if !ok {
		return nil, false
	}
	return val.(*Session), true
}

// Close removes a session. Reports whether it existed.
func (m *Manager) Close(id string) bool {
	if _, ok := m.sessions.LoadAndDelete(id); !ok {
		return false
	}
	m.mu.Lock()
	m.count--
	m.mu.Unlock()
	if m.metrics != nil {
		m.metrics.SessionsActive.Dec()
	}
	m.logger.Info("session closed", zap.String("session_id", id))
	return true
}

// Count returns the number of active sessions.
func (m *Manager) Count() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

// firstField returns the first whitespace-separated token of line.
func firstField(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// String implements fmt.Stringer for logging.
func (s *Session) String() string {
	return fmt.Sprintf("session %s (user %s)", s.ID, s.shell.CurrentUser)
}

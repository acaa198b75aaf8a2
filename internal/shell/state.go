package shell

import (
	"go.uber.org/zap"

	"github.com/termos-project/termos/internal/persist"
	"github.com/termos-project/termos/internal/vfs"
)

// Sentinel outputs: reserved strings the host must interpret as control
// signals rather than display text.
const (
	SentinelClear        = "__CLEAR__"
	SentinelViOpened     = "__VI_OPENED__"
	SentinelUserSwitched = "__USER_SWITCHED__:"
)

// Handler is a built-in or caller-supplied command implementation. It
// receives the session it runs in and the (wildcard-expanded) argument
// list, and returns the display output.
type Handler func(s *Shell, args []string) string

// SaveFunc reports whether writing content to filename succeeded.
type SaveFunc func(filename, content string) bool

// EditorOpener is the editor bootstrap supplied by the host. The shell
// hands it the resolved filename, the current content and a save
// callback routed through the file-write primitive.
type EditorOpener func(filename, content string, save SaveFunc)

// frame is one suspended user session, pushed by su and popped by exit.
type frame struct {
	user string
	home string
	path string
}

// Shell owns all mutable session state: the filesystem root, the
// current user and directory, environment, history, the su/exit stack
// and the command table.
type Shell struct {
	Root        *vfs.Node
	CurrentUser string
	CurrentPath string

	env       *Environ
	history   []string
	userStack []frame
	commands  map[string]Handler

	// isPiped is set for the duration of a single dispatch when a grep
	// filter was detected; ls uses it to switch to one-entry-per-line
	// output.
	isPiped bool

	checkpoint *persist.Checkpointer
	openEditor EditorOpener
	logger     *zap.Logger
}

// Options configures a new Shell. Every field is optional.
type Options struct {
	// FileSystem is the initial tree. Nil means the built-in default
	// tree.
	FileSystem *vfs.Node
	// Username defaults to "user".
	Username string
	// CustomCommands override built-ins of the same name.
	CustomCommands map[string]Handler
	// Checkpoint, when non-nil, is loaded from at construction and
	// written to after every state-changing execution.
	Checkpoint *persist.Checkpointer
	// OpenEditor is invoked by the vi/vim command.
	OpenEditor EditorOpener
	Logger     *zap.Logger
}

// New creates a session. When a checkpoint is configured and holds a
// valid snapshot, the snapshot replaces the provided filesystem, user
// and working directory; otherwise the options (or defaults) apply.
func New(opts Options) *Shell {
	username := opts.Username
	if username == "" {
		username = "user"
	}
	root := opts.FileSystem
	if root == nil {
		root = vfs.DefaultTree(username)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	home := homeFor(username)
	path := home

	if opts.Checkpoint != nil {
		if savedRoot, savedUser, savedPath, ok := opts.Checkpoint.Load(); ok {
			root = savedRoot
			username = savedUser
			home = homeFor(username)
			path = savedPath
			logger.Info("restored shell state from checkpoint",
				zap.String("user", username),
				zap.String("path", path),
			)
		} else {
			logger.Warn("no usable checkpoint, starting fresh",
				zap.String("user", username),
			)
		}
	}

	env := NewEnviron()
	env.Set("USER", username)
	env.Set("HOME", home)
	env.Set("PWD", path)
	env.Set("PATH", "/usr/bin:/bin")
	env.Set("SHELL", "/bin/sh")
	env.Set("TERM", "xterm-256color")
	env.Set("HOSTNAME", "termos")

	s := &Shell{
		Root:        root,
		CurrentUser: username,
		CurrentPath: path,
		env:         env,
		commands:    builtins(),
		checkpoint:  opts.Checkpoint,
		openEditor:  opts.OpenEditor,
		logger:      logger,
	}
	// Last write wins: caller-supplied handlers shadow built-ins.
	for name, handler := range opts.CustomCommands {
		s.commands[name] = handler
	}
	return s
}

// homeFor returns the home directory for a user name.
func homeFor(user string) string {
	if user == "root" {
		return "/root"
	}
	return "/home/" + user
}

// Env exposes the environment mapping.
func (s *Shell) Env() *Environ { return s.env }

// History returns the raw command lines executed so far.
func (s *Shell) History() []string {
	out := make([]string, len(s.history))
	copy(out, s.history)
	return out
}

// Home returns the current HOME value.
func (s *Shell) Home() string { return s.env.Get("HOME") }

// SetEditorOpener installs the editor bootstrap after construction.
// Hosts that attach a display later than session creation use this.
func (s *Shell) SetEditorOpener(open EditorOpener) { s.openEditor = open }

// checkpointNow writes a snapshot if persistence is configured. Fire
// and forget: failures are logged inside the checkpointer.
func (s *Shell) checkpointNow() {
	if s.checkpoint == nil {
		return
	}
	_ = s.checkpoint.Save(s.Root, s.CurrentUser, s.CurrentPath)
}

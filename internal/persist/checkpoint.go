package persist

import (
	"go.uber.org/zap"

	"github.com/termos-project/termos/internal/vfs"
)

// Checkpointer reads and writes full shell snapshots (filesystem, user,
// working directory) under a key prefix.
type Checkpointer struct {
	store  Store
	prefix string
	logger *zap.Logger
}

// NewCheckpointer creates a checkpointer over store with the given key
// prefix. A nil logger is replaced by a no-op logger.
func NewCheckpointer(store Store, prefix string, logger *zap.Logger) *Checkpointer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checkpointer{store: store, prefix: prefix, logger: logger}
}

func (c *Checkpointer) keyFilesystem() string { return c.prefix + "_filesystem" }
func (c *Checkpointer) keyUser() string       { return c.prefix + "_current_user" }
func (c *Checkpointer) keyPath() string       { return c.prefix + "_current_path" }

// Load restores a snapshot. It returns ok=false (and logs why) when any
// key is missing, the filesystem JSON does not parse, the parsed value
// lacks a root entry, or the stored path does not resolve to a node in
// the loaded tree. Callers fall back to their default state in that
// case.
func (c *Checkpointer) Load() (root *vfs.Node, user, path string, ok bool) {
	fsJSON, found, err := c.store.Get(c.keyFilesystem())
	if err != nil || !found {
		c.logger.Debug("checkpoint load: no stored filesystem", zap.Error(err))
		return nil, "", "", false
	}
	user, found, err = c.store.Get(c.keyUser())
	if err != nil || !found {
		c.logger.Debug("checkpoint load: no stored user", zap.Error(err))
		return nil, "", "", false
	}
	path, found, err = c.store.Get(c.keyPath())
	if err != nil || !found {
		c.logger.Debug("checkpoint load: no stored path", zap.Error(err))
		return nil, "", "", false
	}
	root, err = vfs.Unmarshal(fsJSON)
	if err != nil {
		c.logger.Warn("checkpoint load: stored filesystem rejected", zap.Error(err))
		return nil, "", "", false
	}
	if _, exists := vfs.Lookup(root, path); !exists {
		c.logger.Warn("checkpoint load: stored path is stale", zap.String("path", path))
		return nil, "", "", false
	}
	return root, user, path, true
}

// Save writes a snapshot. Errors are logged and returned, but callers
// treat the write as fire-and-forget.
func (c *Checkpointer) Save(root *vfs.Node, user, path string) error {
	fsJSON, err := vfs.Marshal(root)
	if err != nil {
		c.logger.Warn("checkpoint save failed", zap.Error(err))
		return err
	}
	for key, value := range map[string]string{
		c.keyFilesystem(): fsJSON,
		c.keyUser():       user,
		c.keyPath():       path,
	} {
		if err := c.store.Set(key, value); err != nil {
			c.logger.Warn("checkpoint save failed", zap.String("key", key), zap.Error(err))
			return err
		}
	}
	return nil
}

// Clear removes the snapshot keys.
func (c *Checkpointer) Clear() error {
	for _, key := range []string{c.keyFilesystem(), c.keyUser(), c.keyPath()} {
		if err := c.store.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

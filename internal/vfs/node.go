package vfs

// NodeType discriminates the two node variants.
type NodeType string

const (
	TypeFile      NodeType = "file"
	TypeDirectory NodeType = "directory"
)

// Node is a file-or-directory in the virtual tree. Files carry Content;
// directories carry an ordered entry mapping. A node belongs to exactly
// one parent.
type Node struct {
	Type    NodeType
	Content string

	entries map[string]*Node
	order   []string
}

// NewFile creates a file node with the given content.
func NewFile(content string) *Node {
	return &Node{Type: TypeFile, Content: content}
}

// NewDirectory creates an empty directory node.
func NewDirectory() *Node {
	return &Node{
		Type:    TypeDirectory,
		entries: make(map[string]*Node),
	}
}

// IsDir reports whether the node is a directory.
func (n *Node) IsDir() bool {
	return n.Type == TypeDirectory
}

// Get looks up a child by name. Returns nil, false on files and missing
// names.
func (n *Node) Get(name string) (*Node, bool) {
	if !n.IsDir() {
		return nil, false
	}
	child, ok := n.entries[name]
	return child, ok
}

// Put inserts or replaces a child. Replacing keeps the name's original
// position in the entry order.
func (n *Node) Put(name string, child *Node) {
	if !n.IsDir() {
		return
	}
	if _, exists := n.entries[name]; !exists {
		n.order = append(n.order, name)
	}
	n.entries[name] = child
}

// Remove deletes a child by name. Reports whether the name existed.
func (n *Node) Remove(name string) bool {
	if !n.IsDir() {
		return false
	}
	if _, ok := n.entries[name]; !ok {
		return false
	}
	delete(n.entries, name)
	for i, existing := range n.order {
		if existing == name {
			n.order = append(n.order[:i], n.order[i+1:]...)
			break
		}
	}
	return true
}

// Names returns entry names in insertion order. The returned slice is a
// copy.
func (n *Node) Names() []string {
	if !n.IsDir() {
		return nil
	}
	names := make([]string, len(n.order))
	copy(names, n.order)
	return names
}

// Len returns the number of entries in a directory, 0 for files.
func (n *Node) Len() int {
	return len(n.order)
}

// Size returns the display size of the node: content length for files,
// a fixed block size for directories.
func (n *Node) Size() int {
	if n.IsDir() {
		return 4096
	}
	return len(n.Content)
}

// Clone returns a deep copy of the node and all descendants.
func (n *Node) Clone() *Node {
	if !n.IsDir() {
		return NewFile(n.Content)
	}
	dir := NewDirectory()
	for _, name := range n.order {
		dir.Put(name, n.entries[name].Clone())
	}
	return dir
}

package vfs

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// Wire form. Directory entries serialize as an array so insertion order
// survives a decode round trip; JSON objects would not guarantee that.
type nodeJSON struct {
	Type    NodeType    `json:"type"`
	Content string      `json:"content,omitempty"`
	Entries []entryJSON `json:"entries,omitempty"`
}

type entryJSON struct {
	Name string   `json:"name"`
	Node nodeJSON `json:"node"`
}

func (n *Node) toWire() nodeJSON {
	w := nodeJSON{Type: n.Type, Content: n.Content}
	for _, name := range n.order {
		w.Entries = append(w.Entries, entryJSON{Name: name, Node: n.entries[name].toWire()})
	}
	return w
}

func fromWire(w nodeJSON) (*Node, error) {
	switch w.Type {
	case TypeFile:
		return NewFile(w.Content), nil
	case TypeDirectory:
		dir := NewDirectory()
		for _, e := range w.Entries {
			if e.Name == "" {
				return nil, fmt.Errorf("directory entry with empty name")
			}
			child, err := fromWire(e.Node)
			if err != nil {
				return nil, err
			}
			dir.Put(e.Name, child)
		}
		return dir, nil
	default:
		return nil, fmt.Errorf("unknown node type %q", w.Type)
	}
}

// Marshal serializes a tree root as the checkpoint wire form, an object
// with a single "/" entry.
func Marshal(root *Node) (string, error) {
	data, err := sonic.Marshal(map[string]nodeJSON{"/": root.toWire()})
	if err != nil {
		return "", fmt.Errorf("marshal filesystem: %w", err)
	}
	return string(data), nil
}

// Unmarshal parses the checkpoint wire form. It fails if the JSON is
// malformed or the top-level "/" entry is missing.
func Unmarshal(data string) (*Node, error) {
	var wrapper map[string]nodeJSON
	if err := sonic.Unmarshal([]byte(data), &wrapper); err != nil {
		return nil, fmt.Errorf("unmarshal filesystem: %w", err)
	}
	w, ok := wrapper["/"]
	if !ok {
		return nil, fmt.Errorf("filesystem JSON lacks a root entry")
	}
	return fromWire(w)
}

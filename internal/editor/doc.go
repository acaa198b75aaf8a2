// Package editor implements the modal text editor: a keystroke-driven
// state machine over an in-memory line buffer with Normal, Insert and
// Command modes.
//
// The editor core knows nothing about displays. It pushes frames at a
// Surface after every keystroke; the host renders them. Keys arrive as
// produced key values ("a", "G", "Enter", "Escape", "Backspace",
// "ArrowUp", ...), so shifted commands are distinguished by case.
package editor

package editor

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Mode is the editor's current input mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeInsert
	ModeCommand
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeInsert:
		return "insert"
	case ModeCommand:
		return "command"
	default:
		return "normal"
	}
}

// SaveFunc reports whether writing content to filename succeeded.
type SaveFunc func(filename, content string) bool

// Editor is one edit session over a single file. It is single-threaded
// by contract: the host delivers one key at a time and HandleKey runs
// to completion before returning.
type Editor struct {
	filename string
	lines    []string
	row, col int
	mode     Mode

	// pending holds the one-key lookahead after "d", awaiting a motion.
	pending string
	yank    string
	cmdBuf  string

	modified bool
	status   string
	closed   bool

	save    SaveFunc
	exit    func()
	surface Surface
}

// Open starts an edit session. The buffer is the content split on
// newlines; empty content yields a single empty line. The initial frame
// is rendered immediately.
func Open(filename, content string, save SaveFunc, exit func(), surface Surface) *Editor {
	if surface == nil {
		surface = NopSurface{}
	}
	e := &Editor{
		filename: filename,
		lines:    strings.Split(content, "\n"),
		save:     save,
		exit:     exit,
		surface:  surface,
	}
	if len(e.lines) == 0 {
		e.lines = []string{""}
	}
	e.render()
	return e
}

// Accessors for hosts and tests.

func (e *Editor) Filename() string   { return e.filename }
func (e *Editor) Mode() Mode         { return e.mode }
func (e *Editor) Modified() bool     { return e.modified }
func (e *Editor) Closed() bool       { return e.closed }
func (e *Editor) Status() string     { return e.status }
func (e *Editor) Cursor() (int, int) { return e.row, e.col }

// Lines returns a copy of the buffer.
func (e *Editor) Lines() []string {
	out := make([]string, len(e.lines))
	copy(out, e.lines)
	return out
}

// Content returns the buffer joined by newlines.
func (e *Editor) Content() string {
	return strings.Join(e.lines, "\n")
}

// HandleKey processes one key event. The transient status message is
// cleared before dispatch and possibly reset by the handler.
func (e *Editor) HandleKey(key string) {
	if e.closed {
		return
	}
	e.status = ""
	switch e.mode {
	case ModeNormal:
		e.handleNormal(key)
	case ModeInsert:
		e.handleInsert(key)
	case ModeCommand:
		e.handleCommand(key)
	}
	if !e.closed {
		e.render()
	}
}

func (e *Editor) line() string { return e.lines[e.row] }

// clampCol keeps the column within [0, len(line)]. The past-the-end
// position is legal.
func (e *Editor) clampCol() {
	if n := utf8.RuneCountInString(e.line()); e.col > n {
		e.col = n
	}
	if e.col < 0 {
		e.col = 0
	}
}

func (e *Editor) handleNormal(key string) {
	if e.pending == "d" {
		e.pending = ""
		e.deleteMotion(key)
		return
	}
	switch key {
	case "i":
		e.mode = ModeInsert
	case "a":
		e.col++
		e.clampCol()
		e.mode = ModeInsert
	case "o":
		e.insertLine(e.row+1, "")
		e.row++
		e.col = 0
		e.mode = ModeInsert
		e.modified = true
	case "O":
		e.insertLine(e.row, "")
		e.col = 0
		e.mode = ModeInsert
		e.modified = true
	case "h", "ArrowLeft":
		e.col--
		e.clampCol()
	case "l", "ArrowRight":
		e.col++
		e.clampCol()
	case "j", "ArrowDown":
		if e.row < len(e.lines)-1 {
			e.row++
		}
		e.clampCol()
	case "k", "ArrowUp":
		if e.row > 0 {
			e.row--
		}
		e.clampCol()
	case "0":
		e.col = 0
	case "$":
		e.col = utf8.RuneCountInString(e.line())
	case "G":
		e.row = len(e.lines) - 1
		e.clampCol()
	case "x":
		runes := []rune(e.line())
		if e.col < len(runes) {
			e.lines[e.row] = string(append(runes[:e.col], runes[e.col+1:]...))
			e.modified = true
		}
	case "D":
		runes := []rune(e.line())
		if e.col < len(runes) {
			e.lines[e.row] = string(runes[:e.col])
			e.modified = true
		}
	case "Y":
		e.yank = e.line()
		e.status = "1 line yanked"
	case "p":
		if e.yank != "" {
			e.insertLine(e.row+1, e.yank)
			e.row++
			e.col = 0
			e.modified = true
		}
	case "d":
		e.pending = "d"
	case ":":
		e.cmdBuf = ""
		e.mode = ModeCommand
	}
}

// deleteMotion completes a pending "d" with a motion key. Unrecognized
// keys cancel the delete with no effect; the pending flag is already
// cleared either way.
func (e *Editor) deleteMotion(key string) {
	runes := []rune(e.line())
	switch key {
	case "d":
		e.yank = e.line()
		e.removeLines(e.row, 1)
		e.status = "1 line deleted"
	case "j", "ArrowDown":
		count := 1
		if e.row < len(e.lines)-1 {
			count = 2
			e.yank = e.lines[e.row] + "\n" + e.lines[e.row+1]
		} else {
			e.yank = e.line()
		}
		e.removeLines(e.row, count)
		e.status = deletedStatus(count)
	case "k", "ArrowUp":
		count, start := 1, e.row
		if e.row > 0 {
			count, start = 2, e.row-1
			e.yank = e.lines[e.row-1] + "\n" + e.lines[e.row]
		} else {
			e.yank = e.line()
		}
		e.removeLines(start, count)
		e.status = deletedStatus(count)
	case "$":
		if e.col < len(runes) {
			e.yank = string(runes[e.col:])
			e.lines[e.row] = string(runes[:e.col])
			e.modified = true
		}
		e.status = "deleted"
	case "0":
		e.yank = string(runes[:e.col])
		e.lines[e.row] = string(runes[e.col:])
		e.col = 0
		e.modified = true
		e.status = "deleted"
	case "w":
		end := e.col
		for end < len(runes) && !unicode.IsSpace(runes[end]) {
			end++
		}
		for end < len(runes) && unicode.IsSpace(runes[end]) {
			end++
		}
		if end > e.col {
			e.yank = string(runes[e.col:end])
			e.lines[e.row] = string(append(runes[:e.col:e.col], runes[end:]...))
			e.modified = true
		}
		e.status = "deleted"
	case "l", "ArrowRight":
		if e.col < len(runes) {
			e.yank = string(runes[e.col])
			e.lines[e.row] = string(append(runes[:e.col:e.col], runes[e.col+1:]...))
			e.modified = true
		}
		e.status = "deleted"
	case "h", "ArrowLeft":
		if e.col > 0 {
			e.yank = string(runes[e.col-1])
			e.lines[e.row] = string(append(runes[:e.col-1:e.col-1], runes[e.col:]...))
			e.col--
			e.modified = true
		}
		e.status = "deleted"
	}
	e.clampCol()
}

func deletedStatus(count int) string {
	if count == 1 {
		return "1 line deleted"
	}
	return fmt.Sprintf("%d lines deleted", count)
}

// removeLines deletes count lines starting at start. The buffer never
// drops to zero lines; it collapses to a single empty line instead.
func (e *Editor) removeLines(start, count int) {
	e.lines = append(e.lines[:start], e.lines[start+count:]...)
	if len(e.lines) == 0 {
		e.lines = []string{""}
	}
	if e.row >= len(e.lines) {
		e.row = len(e.lines) - 1
	}
	e.clampCol()
	e.modified = true
}

func (e *Editor) insertLine(at int, text string) {
	e.lines = append(e.lines, "")
	copy(e.lines[at+1:], e.lines[at:])
	e.lines[at] = text
}

func (e *Editor) handleInsert(key string) {
	switch key {
	case "Escape":
		e.mode = ModeNormal
		if e.col > 0 {
			e.col--
		}
	case "Enter":
		runes := []rune(e.line())
		e.lines[e.row] = string(runes[:e.col])
		e.insertLine(e.row+1, string(runes[e.col:]))
		e.row++
		e.col = 0
		e.modified = true
	case "Backspace":
		if e.col > 0 {
			runes := []rune(e.line())
			e.lines[e.row] = string(append(runes[:e.col-1:e.col-1], runes[e.col:]...))
			e.col--
			e.modified = true
		} else if e.row > 0 {
			// Join onto the previous line; cursor lands at the join
			// point.
			prev := e.lines[e.row-1]
			e.col = utf8.RuneCountInString(prev)
			e.lines[e.row-1] = prev + e.line()
			e.lines = append(e.lines[:e.row], e.lines[e.row+1:]...)
			e.row--
			e.modified = true
		}
	default:
		if utf8.RuneCountInString(key) == 1 {
			runes := []rune(e.line())
			inserted := append(runes[:e.col:e.col], append([]rune(key), runes[e.col:]...)...)
			e.lines[e.row] = string(inserted)
			e.col++
			e.modified = true
		}
	}
}

func (e *Editor) handleCommand(key string) {
	switch key {
	case "Escape":
		e.cmdBuf = ""
		e.mode = ModeNormal
	case "Backspace":
		if len(e.cmdBuf) > 0 {
			e.cmdBuf = e.cmdBuf[:len(e.cmdBuf)-1]
		}
		if e.cmdBuf == "" {
			e.mode = ModeNormal
		}
	case "Enter":
		cmd := e.cmdBuf
		e.cmdBuf = ""
		e.mode = ModeNormal
		e.runCommand(cmd)
	default:
		if utf8.RuneCountInString(key) == 1 {
			e.cmdBuf += key
		}
	}
}

func (e *Editor) runCommand(cmd string) {
	switch cmd {
	case "w":
		e.doSave()
	case "q":
		if e.modified {
			e.status = "No write since last change (add ! to override)"
			return
		}
		e.close()
	case "q!":
		e.close()
	case "wq", "x":
		if e.doSave() {
			e.close()
		}
	default:
		e.status = "Not an editor command: " + cmd
	}
}

func (e *Editor) doSave() bool {
	if e.save == nil || !e.save(e.filename, e.Content()) {
		e.status = "\"" + e.filename + "\": write failed"
		return false
	}
	e.modified = false
	e.status = fmt.Sprintf("%q %dL written", e.filename, len(e.lines))
	return true
}

// close ends the session: key handling detaches and the host exit
// notification fires.
func (e *Editor) close() {
	e.closed = true
	if e.exit != nil {
		e.exit()
	}
}

func (e *Editor) render() {
	status := e.status
	switch {
	case e.mode == ModeCommand:
		status = ":" + e.cmdBuf
	case status == "" && e.mode == ModeInsert:
		status = "-- INSERT --"
	}
	e.surface.Render(Frame{
		Lines:  e.Lines(),
		Row:    e.row,
		Col:    e.col,
		Mode:   e.mode.String(),
		Status: status,
	})
}

package editor

// Frame is one rendered editor state. The host owns layout; the editor
// only reports content, cursor and the status line.
type Frame struct {
	Lines  []string `json:"lines"`
	Row    int      `json:"row"`
	Col    int      `json:"col"`
	Mode   string   `json:"mode"`
	Status string   `json:"status"`
}

// Surface is the abstract terminal the editor renders into.
type Surface interface {
	Render(frame Frame)
}

// NopSurface discards frames. Used when no display is attached yet.
type NopSurface struct{}

// Render implements Surface.
func (NopSurface) Render(Frame) {}

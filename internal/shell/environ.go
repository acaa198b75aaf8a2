package shell

// Environ is an insertion-ordered string mapping, so env output is
// stable across runs.
type Environ struct {
	values map[string]string
	order  []string
}

// NewEnviron creates an empty environment.
func NewEnviron() *Environ {
	return &Environ{values: make(map[string]string)}
}

// Get returns the value for key, or "" if unset.
func (e *Environ) Get(key string) string {
	return e.values[key]
}

// Set stores key=value, keeping first-insertion order for display.
func (e *Environ) Set(key, value string) {
	if _, exists := e.values[key]; !exists {
		e.order = append(e.order, key)
	}
	e.values[key] = value
}

// Names returns keys in insertion order.
func (e *Environ) Names() []string {
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

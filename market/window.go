package market

// Window is a fixed-size ring of the most recent prices.
type Window struct {
	buf  []float64
	head int // index of the oldest entry
}

// NewWindow returns a window of the given size with every slot set to fill.
func NewWindow(size int, fill float64) *Window {
	buf := make([]float64, size)
	for i := range buf {
		buf[i] = fill
	}
	return &Window{buf: buf}
}

// Push overwrites the oldest entry with p.
func (w *Window) Push(p float64) {
	w.buf[w.head] = p
	w.head = (w.head + 1) % len(w.buf)
}

// Len is always the configured size.
func (w *Window) Len() int { return len(w.buf) }

// Values copies the window out, oldest first.
func (w *Window) Values() []float64 {
	out := make([]float64, 0, len(w.buf))
	out = append(out, w.buf[w.head:]...)
	out = append(out, w.buf[:w.head]...)
	return out
}

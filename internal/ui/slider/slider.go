// Package slider implements the press-drag-release gesture shared by the
// seek and volume bars.
package slider

// Bounds is the screen area of a horizontal bar, in cells.
type Bounds struct {
	X, Y  int
	Width int
}

// Contains reports whether the cell (x, y) lies on the bar.
func (b Bounds) Contains(x, y int) bool {
	return b.Width > 0 && y == b.Y && x >= b.X && x < b.X+b.Width
}

// Fraction maps a column onto [0, 1] along the bar, clamping columns
// outside of it.
func (b Bounds) Fraction(x int) float64 {
	if b.Width <= 1 {
		return 0
	}
	f := float64(x-b.X) / float64(b.Width-1)
	return min(max(f, 0), 1)
}

// Slider gates a drag over a bar. While dragging, the displayed value
// follows the pointer and external updates are ignored; a single commit
// happens on release.
type Slider struct {
	bounds   Bounds
	dragging bool
	value    float64
}

// SetBounds updates the bar geometry after a layout change.
func (s *Slider) SetBounds(b Bounds) {
	s.bounds = b
}

// Bounds returns the current bar geometry.
func (s *Slider) Bounds() Bounds {
	return s.bounds
}

// Press starts a drag when (x, y) is on the bar.
func (s *Slider) Press(x, y int) bool {
	if !s.bounds.Contains(x, y) {
		return false
	}
	s.dragging = true
	s.value = s.bounds.Fraction(x)
	return true
}

// Motion moves the displayed value during a drag. The row is ignored so
// the drag survives the pointer drifting off the bar.
func (s *Slider) Motion(x int) {
	if !s.dragging {
		return
	}
	s.value = s.bounds.Fraction(x)
}

// Release ends the drag and returns the value to commit. ok is false when
// no drag was active.
func (s *Slider) Release(x int) (value float64, ok bool) {
	if !s.dragging {
		return 0, false
	}
	s.value = s.bounds.Fraction(x)
	s.dragging = false
	return s.value, true
}

// Cancel abandons a drag without committing.
func (s *Slider) Cancel() {
	s.dragging = false
}

// Dragging reports whether a drag is in progress.
func (s *Slider) Dragging() bool {
	return s.dragging
}

// Display returns the value to render: the drag value while dragging,
// the authoritative value otherwise.
func (s *Slider) Display(actual float64) float64 {
	if s.dragging {
		return s.value
	}
	return actual
}

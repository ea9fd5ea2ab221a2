package ui

// Base carries the focus flag and dimensions shared by panel models.
// Embed it to get the accessors.
type Base struct {
	width, height int
	focused       bool
}

// SetFocused sets whether the component receives keys.
func (b *Base) SetFocused(focused bool) { b.focused = focused }

// IsFocused reports whether the component receives keys.
func (b Base) IsFocused() bool { return b.focused }

// SetSize sets the outer dimensions of the component.
func (b *Base) SetSize(width, height int) {
	b.width = width
	b.height = height
}

// Width returns the component width.
func (b Base) Width() int { return b.width }

// Height returns the component height.
func (b Base) Height() int { return b.height }

// ListHeight returns the rows left for list content once overhead rows
// (borders, header) are taken out. It is never negative.
func (b Base) ListHeight(overhead int) int {
	return max(b.height-overhead, 0)
}

// Package cursor tracks a selection and scroll window over a list.
package cursor

// Cursor is a selected position plus the first visible row. The list
// length and viewport height change under it, so every method takes them.
type Cursor struct {
	pos    int
	offset int
	margin int // rows kept visible around pos when scrolling
}

// New returns a cursor at the top with the given scroll margin.
func New(margin int) Cursor {
	return Cursor{margin: max(margin, 0)}
}

// Pos returns the selected position.
func (c Cursor) Pos() int { return c.pos }

// Offset returns the first visible position.
func (c Cursor) Offset() int { return c.offset }

// Move shifts the selection by delta, clamped to the list.
func (c *Cursor) Move(delta, n, height int) {
	c.Jump(c.pos+delta, n, height)
}

// Jump selects pos, clamped to the list. It does nothing on an empty list.
func (c *Cursor) Jump(pos, n, height int) {
	if n == 0 {
		return
	}
	c.pos = clamp(pos, 0, n-1)
	c.EnsureVisible(n, height)
}

// EnsureVisible scrolls so the selection sits inside the viewport, keeping
// margin rows around it where the list allows.
func (c *Cursor) EnsureVisible(n, height int) {
	if n == 0 || height <= 0 {
		c.offset = 0
		return
	}
	margin := min(c.margin, (height-1)/2)
	if c.pos-margin < c.offset {
		c.offset = c.pos - margin
	}
	if c.pos+margin >= c.offset+height {
		c.offset = c.pos + margin - height + 1
	}
	c.offset = clamp(c.offset, 0, max(n-height, 0))
}

// ClampToBounds pulls the selection back inside a list of n entries and
// reports whether it moved.
func (c *Cursor) ClampToBounds(n int) bool {
	old := c.pos
	if n == 0 {
		c.pos, c.offset = 0, 0
		return old != 0
	}
	c.pos = clamp(c.pos, 0, n-1)
	return c.pos != old
}

// VisibleRange returns the half-open range [start, end) of visible positions.
func (c Cursor) VisibleRange(n, height int) (start, end int) {
	if n == 0 || height <= 0 {
		return 0, 0
	}
	start = min(c.offset, n)
	return start, min(start+height, n)
}

// HandleKey applies list navigation keys and reports whether key was one:
// j/down, k/up, g/home, G/end, ctrl+d and ctrl+u (half pages).
func (c *Cursor) HandleKey(key string, n, height int) bool {
	switch key {
	case "j", "down":
		c.Move(1, n, height)
	case "k", "up":
		c.Move(-1, n, height)
	case "g", "home":
		c.Jump(0, n, height)
	case "G", "end":
		c.Jump(n-1, n, height)
	case "ctrl+d":
		c.Move(max(height/2, 1), n, height)
	case "ctrl+u":
		c.Move(-max(height/2, 1), n, height)
	default:
		return false
	}
	return true
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

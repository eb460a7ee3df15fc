package search

// Cursor is a bounded selection over a result list: moving past either end
// clamps rather than wraps.
type Cursor struct {
	size int
	pos  int
}

// NewCursor creates a cursor over size results, positioned at the first.
func NewCursor(size int) Cursor {
	if size < 0 {
		size = 0
	}
	return Cursor{size: size}
}

// Move shifts the selection by delta, clamping to [0, size-1].
func (c *Cursor) Move(delta int) {
	c.pos += delta
	if c.pos < 0 {
		c.pos = 0
	}
	if max := c.size - 1; c.pos > max && max >= 0 {
		c.pos = max
	}
	if c.size == 0 {
		c.pos = 0
	}
}

// Pos returns the selected index, or -1 when there are no results.
func (c *Cursor) Pos() int {
	if c.size == 0 {
		return -1
	}
	return c.pos
}

// Size returns the number of results under the cursor.
func (c *Cursor) Size() int {
	return c.size
}

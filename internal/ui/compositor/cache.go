package compositor

// RenderCache keeps the last rendered string for a strip so repeated View
// calls between ticks do not re-render.
type RenderCache struct {
	seq     uint64
	width   int
	paused  bool
	valid   bool
	content string
}

// Get returns the cached render if the parameters match.
func (c *RenderCache) Get(seq uint64, width int, paused bool) (string, bool) {
	if c.valid && c.seq == seq && c.width == width && c.paused == paused {
		return c.content, true
	}
	return "", false
}

// Set updates the cache with a new render.
func (c *RenderCache) Set(seq uint64, width int, paused bool, content string) {
	c.seq = seq
	c.width = width
	c.paused = paused
	c.content = content
	c.valid = true
}

// Invalidate clears the cache.
func (c *RenderCache) Invalidate() {
	c.valid = false
	c.content = ""
}

package flag

// Clock accumulates animation time. It never runs backwards.
type Clock struct {
	elapsed float64
}

// Advance adds dt seconds; negative steps are ignored.
func (c *Clock) Advance(dt float64) {
	if dt > 0 {
		c.elapsed += dt
	}
}

// Elapsed returns the total time in seconds.
func (c *Clock) Elapsed() float64 {
	return c.elapsed
}

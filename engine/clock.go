package engine

// Clock is simulated time in seconds
// Only the simulation advances it, and only while playing
type Clock struct {
	now   float64
	ticks uint64
}

// Now returns simulated seconds since the session started
func (c *Clock) Now() float64 {
	return c.now
}

// Ticks returns the number of advancing ticks since the session started
func (c *Clock) Ticks() uint64 {
	return c.ticks
}

func (c *Clock) advance(dt float64) {
	c.now += dt
	c.ticks++
}

func (c *Clock) reset() {
	c.now = 0
	c.ticks = 0
}

func (c *Clock) restore(now float64) {
	c.now = now
	c.ticks = 0
}

package world

// Clock is the session's global freeze flag. While frozen no simulation
// timer advances; presentation keeps running.
type Clock struct {
	frozen bool
}

// Freeze stops the simulation.
func (c *Clock) Freeze() { c.frozen = true }

// Resume restarts the simulation.
func (c *Clock) Resume() { c.frozen = false }

// Frozen reports whether the simulation is stopped.
func (c *Clock) Frozen() bool { return c.frozen }

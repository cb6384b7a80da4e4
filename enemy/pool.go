package enemy

// Pool is a fixed arena of instances with a free-list of slot indices
// A slot is either free (pooled-inactive) or active, never both
type Pool struct {
	slots  []Instance
	active []bool
	free   []int
}

// NewPool allocates size slots, all free
func NewPool(size int) *Pool {
	if size < 0 {
		size = 0
	}
	p := &Pool{
		slots:  make([]Instance, size),
		active: make([]bool, size),
		free:   make([]int, 0, size),
	}
	p.Reset()
	return p
}

// Acquire takes a free slot; the returned instance is zeroed
func (p *Pool) Acquire() (int, bool) {
	n := len(p.free)
	if n == 0 {
		return -1, false
	}
	i := p.free[n-1]
	p.free = p.free[:n-1]
	p.active[i] = true
	p.slots[i] = Instance{Slot: i}
	return i, true
}

// Release returns a slot to the free-list; releasing a free slot is a no-op
func (p *Pool) Release(i int) {
	if i < 0 || i >= len(p.slots) || !p.active[i] {
		return
	}
	p.active[i] = false
	p.slots[i] = Instance{}
	p.free = append(p.free, i)
}

// Get returns the instance in an active slot
func (p *Pool) Get(i int) (*Instance, bool) {
	if i < 0 || i >= len(p.slots) || !p.active[i] {
		return nil, false
	}
	return &p.slots[i], true
}

// Active returns the number of active slots
func (p *Pool) Active() int {
	return len(p.slots) - len(p.free)
}

// Cap returns the arena size
func (p *Pool) Cap() int {
	return len(p.slots)
}

// Each visits active instances in slot order
func (p *Pool) Each(fn func(*Instance)) {
	for i := range p.slots {
		if p.active[i] {
			fn(&p.slots[i])
		}
	}
}

// Reset frees every slot; the lowest index is handed out first
func (p *Pool) Reset() {
	p.free = p.free[:0]
	for i := len(p.slots) - 1; i >= 0; i-- {
		p.active[i] = false
		p.slots[i] = Instance{}
		p.free = append(p.free, i)
	}
}

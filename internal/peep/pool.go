package peep

import "fmt"

// Pool is the fixed-capacity slab peeps live in. Slots are addressed by index;
// freed slots are reused lowest first so allocation order is reproducible.
type Pool struct {
	slots []*Peep
	free  []uint16 // Stack of free indices, lowest on top
	live  int
}

// NewPool creates an empty pool with room for capacity peeps.
func NewPool(capacity int) *Pool {
	if capacity <= 0 || capacity >= int(NoIndex) {
		panic(fmt.Sprintf("peep pool capacity %d out of range", capacity))
	}
	p := &Pool{slots: make([]*Peep, capacity)}
	p.rebuildFree()
	return p
}

func (p *Pool) rebuildFree() {
	p.free = p.free[:0]
	for i := len(p.slots) - 1; i >= 0; i-- {
		if p.slots[i] == nil {
			p.free = append(p.free, uint16(i))
		}
	}
}

// Alloc takes a free slot and returns a zeroed peep bound to it.
func (p *Pool) Alloc() (*Peep, error) {
	if len(p.free) == 0 {
		return nil, ErrPoolExhausted
	}
	i := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	pe := &Peep{Index: i}
	p.slots[i] = pe
	p.live++
	return pe, nil
}

// Put places a restored peep in the slot named by its Index.
func (p *Pool) Put(pe *Peep) error {
	if int(pe.Index) >= len(p.slots) {
		return fmt.Errorf("restore peep %d: index beyond capacity %d: %w", pe.Index, len(p.slots), ErrPoolExhausted)
	}
	if p.slots[pe.Index] != nil {
		return fmt.Errorf("restore peep %d: slot in use", pe.Index)
	}
	p.slots[pe.Index] = pe
	p.live++
	p.rebuildFree()
	return nil
}

// Free releases a slot.
func (p *Pool) Free(i uint16) {
	if int(i) >= len(p.slots) || p.slots[i] == nil {
		return
	}
	p.slots[i] = nil
	p.live--
	// Keep the lowest free index on top.
	at := len(p.free)
	for at > 0 && p.free[at-1] < i {
		at--
	}
	p.free = append(p.free, 0)
	copy(p.free[at+1:], p.free[at:])
	p.free[at] = i
}

// Get returns the peep in a slot, or nil.
func (p *Pool) Get(i uint16) *Peep {
	if int(i) >= len(p.slots) {
		return nil
	}
	return p.slots[i]
}

// Each calls fn for every live peep in index order. fn may free the peep it
// is given.
func (p *Pool) Each(fn func(*Peep)) {
	for _, pe := range p.slots {
		if pe != nil {
			fn(pe)
		}
	}
}

// Len is the number of live peeps.
func (p *Pool) Len() int { return p.live }

// Cap is the pool capacity.
func (p *Pool) Cap() int { return len(p.slots) }

// Full reports whether every slot is taken.
func (p *Pool) Full() bool { return len(p.free) == 0 }

// Clear frees every slot.
func (p *Pool) Clear() {
	for i := range p.slots {
		p.slots[i] = nil
	}
	p.live = 0
	p.rebuildFree()
}

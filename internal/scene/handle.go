package scene

import (
	"fmt"
	"slices"
)

// Handle is a weak reference to an entity. It stays cheap to copy and is
// detected as stale once the entity it named is destroyed.
type Handle struct {
	Index      uint32
	Generation uint32
}

// Nil is the zero handle. It never resolves.
var Nil Handle

func (h Handle) String() string {
	return fmt.Sprintf("%d:%d", h.Index, h.Generation)
}

// slot owns at most one entity. Generation increases every time the slot
// is freed, so handles into a previous occupant stop resolving.
type slot struct {
	entity     *Entity
	generation uint32
}

// arena is the single owner of scene entities.
type arena struct {
	slots []slot
	free  []uint32
	live  int
}

func (a *arena) insert(e *Entity) Handle {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		idx = uint32(len(a.slots))
		a.slots = append(a.slots, slot{generation: 1})
	}
	a.slots[idx].entity = e
	a.live++
	return Handle{Index: idx, Generation: a.slots[idx].generation}
}

func (a *arena) get(h Handle) (*Entity, bool) {
	if int(h.Index) >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[h.Index]
	if s.entity == nil || s.generation != h.Generation {
		return nil, false
	}
	return s.entity, true
}

func (a *arena) remove(h Handle) (*Entity, bool) {
	e, ok := a.get(h)
	if !ok {
		return nil, false
	}
	s := &a.slots[h.Index]
	s.entity = nil
	s.generation++
	a.free = append(a.free, h.Index)
	a.live--
	return e, true
}

// handles returns handles to every live entity in slot order.
func (a *arena) handles() []Handle {
	out := make([]Handle, 0, a.live)
	for i := range a.slots {
		if a.slots[i].entity != nil {
			out = append(out, Handle{Index: uint32(i), Generation: a.slots[i].generation})
		}
	}
	return out
}

// sortFree orders the free list so the lowest slot is reused first. After a
// full clear this makes refilled slots follow insertion order.
func (a *arena) sortFree() {
	slices.Sort(a.free)
	slices.Reverse(a.free)
}

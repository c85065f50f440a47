package models

import "sync"

// A sequential id generator.
type SequentialIDGenerator struct {
	mutex       sync.Mutex
	currentID   uint32
	reusableIDs []uint32
	reusable    map[uint32]struct{}
}

// New returns a sequential id.
func (g *SequentialIDGenerator) New() uint32 {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if len(g.reusableIDs) != 0 {
		id := g.reusableIDs[0]
		g.reusableIDs = g.reusableIDs[1:]
		delete(g.reusable, id)
		return id
	}

	g.currentID++
	return g.currentID
}

// Reuse marks the given id as reusable. Reusable ids are returned in priority
// when using New, oldest first.
func (g *SequentialIDGenerator) Reuse(id uint32) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if id == 0 || id > g.currentID {
		return
	}

	if g.reusable == nil {
		g.reusable = make(map[uint32]struct{})
	}
	if _, ok := g.reusable[id]; ok {
		return
	}

	g.reusable[id] = struct{}{}
	g.reusableIDs = append(g.reusableIDs, id)
}

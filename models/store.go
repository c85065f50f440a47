package models

import (
	"sort"
	"sync"

	"github.com/aukilabs/go-tooling/pkg/errors"
)

const (
	// A world with the same UUID is already in the store.
	ErrTypeWorldExists = "world-exists"
)

// WorldStore holds the worlds served by the process.
type WorldStore struct {
	initOnce sync.Once
	mutex    sync.RWMutex
	worlds   map[string]*World
	ids      SequentialIDGenerator
}

func (s *WorldStore) init() {
	s.worlds = map[string]*World{}
}

func (s *WorldStore) NewID() uint32 {
	return s.ids.New()
}

func (s *WorldStore) Add(w *World) error {
	s.initOnce.Do(s.init)
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.worlds[w.UUID]; ok {
		return errors.New("world already added").
			WithType(ErrTypeWorldExists).
			WithTag("world", w.UUID)
	}
	s.worlds[w.UUID] = w

	instrumentIncreaseWorldGauge(w.Name)
	return nil
}

// Remove removes the world from the store and closes it.
func (s *WorldStore) Remove(w *World) {
	s.initOnce.Do(s.init)
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.worlds[w.UUID]; !ok {
		return
	}

	delete(s.worlds, w.UUID)
	w.Close()
	s.ids.Reuse(w.ID)

	instrumentDecreaseWorldGauge(w.Name)
}

func (s *WorldStore) Get(uuid string) (*World, bool) {
	s.initOnce.Do(s.init)
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	w, ok := s.worlds[uuid]
	return w, ok
}

// List returns the worlds ordered by id.
func (s *WorldStore) List() []*World {
	s.initOnce.Do(s.init)
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	worlds := make([]*World, 0, len(s.worlds))
	for _, w := range s.worlds {
		worlds = append(worlds, w)
	}

	sort.Slice(worlds, func(i, j int) bool {
		return worlds[i].ID < worlds[j].ID
	})
	return worlds
}

func (s *WorldStore) Len() int {
	s.initOnce.Do(s.init)
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return len(s.worlds)
}

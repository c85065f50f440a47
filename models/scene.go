package models

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/ingwaz/spatial"
)

const (
	// An entity was not found in the scene.
	ErrTypeEntityNotFound = "entity-not-found"
)

// Scene holds the entities of a world and the spatial tree indexing them.
// It is not safe for concurrent use: it is only reached through the world
// that owns it, with the world lock held.
type Scene struct {
	name     string
	tree     *spatial.Tree[*Entity]
	ids      SequentialIDGenerator
	entities map[uint32]*Entity
	order    []*Entity
	frame    uint64
}

func newScene(name string, bounds spatial.Bounds, opts spatial.Options) (*Scene, error) {
	if opts.Name == "" {
		opts.Name = name
	}

	tree, err := spatial.New[*Entity](bounds, opts)
	if err != nil {
		return nil, err
	}

	return &Scene{
		name:     name,
		tree:     tree,
		entities: make(map[uint32]*Entity),
	}, nil
}

// Frame returns the number of the frame being executed, or of the last
// executed frame.
func (s *Scene) Frame() uint64 {
	return s.frame
}

func (s *Scene) Bounds() spatial.Bounds {
	return s.tree.Bounds()
}

func (s *Scene) Tree() *spatial.Tree[*Entity] {
	return s.tree
}

func (s *Scene) Len() int {
	return len(s.order)
}

// AddEntity gives e an id and inserts it in the tree.
func (s *Scene) AddEntity(e *Entity) error {
	e.ID = s.ids.New()

	h, err := s.tree.Insert(e.body, e)
	if err != nil {
		s.ids.Reuse(e.ID)
		e.ID = 0
		return err
	}

	// The tree may have clamped the body.
	e.body, _ = s.tree.Body(h)
	e.handle = h
	e.dead = false
	s.entities[e.ID] = e
	s.order = append(s.order, e)
	return nil
}

// MoveEntity changes the position of e.
func (s *Scene) MoveEntity(e *Entity, p spatial.Point) error {
	return s.SetBody(e, e.body.MovedTo(p))
}

// SetBody replaces the body of e.
func (s *Scene) SetBody(e *Entity, body spatial.Body) error {
	if err := s.tree.Update(e.handle, body); err != nil {
		return err
	}

	e.body, _ = s.tree.Body(e.handle)
	return nil
}

func (s *Scene) EntityByID(id uint32) (*Entity, bool) {
	e, ok := s.entities[id]
	return e, ok
}

// Entities returns the entities in insertion order.
func (s *Scene) Entities() []*Entity {
	entities := make([]*Entity, len(s.order))
	copy(entities, s.order)
	return entities
}

// Query returns the entities whose extent overlaps region.
func (s *Scene) Query(region spatial.Bounds) []*Entity {
	var entities []*Entity
	s.tree.Query(region, func(_ spatial.Handle, e *Entity) bool {
		entities = append(entities, e)
		return true
	})
	return entities
}

// Search returns an entity found at p.
func (s *Scene) Search(p spatial.Point) (*Entity, bool) {
	_, e, ok := s.tree.Search(p)
	return e, ok
}

// sweep removes dead entities from the tree and the scene, keeping the
// insertion order of the others. It returns the number of removed entities.
func (s *Scene) sweep() int {
	alive := s.order[:0]
	swept := 0

	for _, e := range s.order {
		if !e.dead {
			alive = append(alive, e)
			continue
		}

		if err := s.tree.Delete(e.handle); err != nil {
			logs.WithTag("world", s.name).
				WithTag("entity_id", e.ID).
				Warn(errors.New("removing dead entity from the tree failed").Wrap(err))
		}

		delete(s.entities, e.ID)
		s.ids.Reuse(e.ID)
		e.handle = spatial.Handle{}
		swept++
	}

	for i := len(alive); i < len(s.order); i++ {
		s.order[i] = nil
	}
	s.order = alive
	return swept
}

func (s *Scene) entity(id uint32) (*Entity, error) {
	e, ok := s.entities[id]
	if !ok {
		return nil, errors.New("entity not found").
			WithType(ErrTypeEntityNotFound).
			WithTag("entity_id", id)
	}
	return e, nil
}

func (s *Scene) removeEntity(id uint32) error {
	e, err := s.entity(id)
	if err != nil {
		return err
	}

	e.MakeDead()
	s.sweep()
	return nil
}

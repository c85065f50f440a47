// Package contact counts collisions and breaks fragile entities.
package contact

import (
	"time"

	"github.com/aukilabs/ingwaz/models"
	"github.com/aukilabs/ingwaz/modules"
)

// The tag of the entities that die on contact.
const FragileTag = "fragile"

type Module struct {
	// Overrides FragileTag.
	Tag string

	world    string
	contacts int
	broken   int
}

func (m *Module) Name() string {
	return "contact"
}

func (m *Module) Init(w *models.World) error {
	if m.Tag == "" {
		m.Tag = FragileTag
	}

	m.world = w.Name
	return nil
}

func (m *Module) Update(s *models.Scene, e *models.Entity, dt time.Duration) {
}

func (m *Module) HandleCollision(s *models.Scene, a, b *models.Entity) {
	m.contacts++
	modules.InstrumentEvent(m.world, m.Name(), "contact")

	for _, e := range [2]*models.Entity{a, b} {
		if e.HasTag(m.Tag) && !e.IsDead() {
			e.MakeDead()
			m.broken++
			modules.InstrumentEvent(m.world, m.Name(), "broken")
		}
	}
}

// Contacts returns the number of colliding pairs seen by the module.
func (m *Module) Contacts() int {
	return m.contacts
}

// Broken returns the number of fragile entities killed by a contact.
func (m *Module) Broken() int {
	return m.broken
}

// Package lifetime removes entities that outlive their TTL.
package lifetime

import (
	"time"

	"github.com/aukilabs/ingwaz/models"
	"github.com/aukilabs/ingwaz/modules"
)

type Module struct {
	// The TTL given to entities that do not have one. Zero leaves them
	// immortal.
	TTL time.Duration

	// Restricts the default TTL to entities with the given tag.
	Tag string

	world   string
	expired int
}

func (m *Module) Name() string {
	return "lifetime"
}

func (m *Module) Init(w *models.World) error {
	if m.TTL < 0 {
		return modules.InvalidConfig(m.Name(), "ttl", m.TTL)
	}

	m.world = w.Name
	return nil
}

func (m *Module) Update(s *models.Scene, e *models.Entity, dt time.Duration) {
	if e.TTL == 0 && m.TTL > 0 && (m.Tag == "" || e.HasTag(m.Tag)) {
		e.TTL = m.TTL
	}

	if e.Expired() {
		e.MakeDead()
		m.expired++
		modules.InstrumentEvent(m.world, m.Name(), "expired")
	}
}

func (m *Module) HandleCollision(s *models.Scene, a, b *models.Entity) {
}

// Expired returns the number of entities the module killed.
func (m *Module) Expired() int {
	return m.expired
}

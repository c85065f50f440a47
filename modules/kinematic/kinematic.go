// Package kinematic moves entities according to their velocity.
package kinematic

import (
	"math"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/ingwaz/models"
	"github.com/aukilabs/ingwaz/modules"
	"github.com/aukilabs/ingwaz/spatial"
)

// Walls describes what happens to an entity reaching the world edges.
type Walls string

const (
	// Entities leave the world.
	WallsNone Walls = "none"

	// Entities are kept inside the world and their velocity is reflected.
	WallsBounce Walls = "bounce"

	// Entities leaving the world reappear on the opposite side.
	WallsWrap Walls = "wrap"
)

type Module struct {
	Walls Walls

	world  string
	bounds spatial.Bounds
}

func (m *Module) Name() string {
	return "kinematic"
}

func (m *Module) Init(w *models.World) error {
	switch m.Walls {
	case "":
		m.Walls = WallsNone
	case WallsNone, WallsBounce, WallsWrap:
	default:
		return modules.InvalidConfig(m.Name(), "walls", m.Walls)
	}

	m.world = w.Name
	w.Inspect(func(s *models.Scene) {
		m.bounds = s.Bounds()
	})
	return nil
}

func (m *Module) Update(s *models.Scene, e *models.Entity, dt time.Duration) {
	if e.Velocity == (spatial.Point{}) {
		return
	}

	p := e.Position().Add(e.Velocity.Scale(dt.Seconds()))

	switch m.Walls {
	case WallsBounce:
		p = m.bounce(e, p)
	case WallsWrap:
		p = m.wrap(p)
	}

	if err := s.MoveEntity(e, p); err != nil {
		logs.WithTag("world", m.world).
			WithTag("module", m.Name()).
			WithTag("entity_id", e.ID).
			Warn(errors.New("moving entity failed").Wrap(err))
	}
}

func (m *Module) HandleCollision(s *models.Scene, a, b *models.Entity) {
}

// bounce moves p so the entity extent stays inside the world and points the
// velocity away from the crossed edges.
func (m *Module) bounce(e *models.Entity, p spatial.Point) spatial.Point {
	ext := e.Body().MovedTo(p).Extent()
	b := m.bounds

	if ext.Width() <= b.Width() {
		if ext.Left < b.Left {
			p.X += b.Left - ext.Left
			e.Velocity.X = math.Abs(e.Velocity.X)
			modules.InstrumentEvent(m.world, m.Name(), "bounce")
		} else if ext.Right > b.Right {
			p.X -= ext.Right - b.Right
			e.Velocity.X = -math.Abs(e.Velocity.X)
			modules.InstrumentEvent(m.world, m.Name(), "bounce")
		}
	}

	if ext.Height() <= b.Height() {
		if ext.Top < b.Top {
			p.Y += b.Top - ext.Top
			e.Velocity.Y = math.Abs(e.Velocity.Y)
			modules.InstrumentEvent(m.world, m.Name(), "bounce")
		} else if ext.Bottom > b.Bottom {
			p.Y -= ext.Bottom - b.Bottom
			e.Velocity.Y = -math.Abs(e.Velocity.Y)
			modules.InstrumentEvent(m.world, m.Name(), "bounce")
		}
	}

	return p
}

func (m *Module) wrap(p spatial.Point) spatial.Point {
	b := m.bounds
	if !b.ContainsPoint(p) {
		modules.InstrumentEvent(m.world, m.Name(), "wrap")
	}

	p.X = b.Left + wrapOffset(p.X-b.Left, b.Width())
	p.Y = b.Top + wrapOffset(p.Y-b.Top, b.Height())
	return p
}

func wrapOffset(v, length float64) float64 {
	v = math.Mod(v, length)
	if v < 0 {
		v += length
	}
	return v
}

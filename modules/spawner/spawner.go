// Package spawner periodically adds entities to a world.
package spawner

import (
	"math"
	"math/rand"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/ingwaz/models"
	"github.com/aukilabs/ingwaz/modules"
	"github.com/aukilabs/ingwaz/spatial"
)

// Template describes the spawned entities.
type Template struct {
	// The collision rectangle size. Entities without size are point-only.
	Width  float64
	Height float64

	Broadcasts bool
	Checks     bool
	Tags       []string
	TTL        time.Duration

	// The speed of the entities, in a random direction.
	Speed float64
}

// Body returns the body of an entity spawned at p.
func (t Template) Body(p spatial.Point) spatial.Body {
	if t.Width <= 0 && t.Height <= 0 {
		return spatial.PointBody(p)
	}
	return spatial.RectBody(p, t.Width, t.Height, t.Broadcasts, t.Checks)
}

type Module struct {
	// The time between two spawns.
	Interval time.Duration

	// Where entities are spawned. Defaults to the world bounds.
	Area spatial.Bounds

	// The world population above which no entity is spawned. Zero means no
	// limit.
	Max int

	Seed     int64
	Template Template

	world   string
	rng     *rand.Rand
	elapsed time.Duration
	spawned int
}

func (m *Module) Name() string {
	return "spawner"
}

func (m *Module) Init(w *models.World) error {
	if m.Interval <= 0 {
		return modules.InvalidConfig(m.Name(), "interval", m.Interval)
	}
	if m.Max < 0 {
		return modules.InvalidConfig(m.Name(), "max", m.Max)
	}

	if m.Area == (spatial.Bounds{}) {
		w.Inspect(func(s *models.Scene) {
			m.Area = s.Bounds()
		})
	}
	if !m.Area.Valid() {
		return modules.InvalidConfig(m.Name(), "area", m.Area)
	}

	m.world = w.Name
	m.rng = rand.New(rand.NewSource(m.Seed))
	return nil
}

// UpdateFrame spawns an entity for each elapsed interval. Intervals elapsed
// while the population is at its limit are lost.
func (m *Module) UpdateFrame(s *models.Scene, dt time.Duration) {
	m.elapsed += dt

	for m.elapsed >= m.Interval {
		m.elapsed -= m.Interval

		if m.Max > 0 && s.Len() >= m.Max {
			continue
		}
		m.spawn(s)
	}
}

func (m *Module) Update(s *models.Scene, e *models.Entity, dt time.Duration) {
}

func (m *Module) HandleCollision(s *models.Scene, a, b *models.Entity) {
}

// Spawned returns the number of entities added by the module.
func (m *Module) Spawned() int {
	return m.spawned
}

func (m *Module) spawn(s *models.Scene) {
	p := spatial.Point{
		X: m.Area.Left + m.rng.Float64()*m.Area.Width(),
		Y: m.Area.Top + m.rng.Float64()*m.Area.Height(),
	}

	tags := make([]string, len(m.Template.Tags))
	copy(tags, m.Template.Tags)

	e := models.NewEntity(m.Template.Body(p), tags...)
	e.TTL = m.Template.TTL

	if m.Template.Speed > 0 {
		angle := m.rng.Float64() * 2 * math.Pi
		e.Velocity = spatial.Point{
			X: math.Cos(angle) * m.Template.Speed,
			Y: math.Sin(angle) * m.Template.Speed,
		}
	}

	if err := s.AddEntity(e); err != nil {
		logs.WithTag("world", m.world).
			WithTag("module", m.Name()).
			Warn(errors.New("spawning entity failed").Wrap(err))
		return
	}

	m.spawned++
	modules.InstrumentEvent(m.world, m.Name(), "spawned")
}

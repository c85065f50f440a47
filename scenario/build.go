package scenario

import (
	"math"
	"math/rand"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/ingwaz/models"
	"github.com/aukilabs/ingwaz/modules"
	"github.com/aukilabs/ingwaz/modules/contact"
	"github.com/aukilabs/ingwaz/modules/kinematic"
	"github.com/aukilabs/ingwaz/modules/lifetime"
	"github.com/aukilabs/ingwaz/modules/spawner"
	"github.com/aukilabs/ingwaz/spatial"
)

var moduleBuilders = map[string]func(Module) modules.Module{
	"kinematic": func(m Module) modules.Module {
		return &kinematic.Module{Walls: kinematic.Walls(m.Walls)}
	},
	"lifetime": func(m Module) modules.Module {
		return &lifetime.Module{TTL: m.TTL, Tag: m.Tag}
	},
	"contact": func(m Module) modules.Module {
		return &contact.Module{Tag: m.Tag}
	},
	"spawner": func(m Module) modules.Module {
		s := &spawner.Module{
			Interval: m.Interval,
			Max:      m.Max,
			Seed:     m.Seed,
			Template: spawner.Template{
				Width:      m.Template.Width,
				Height:     m.Template.Height,
				Broadcasts: m.Template.Broadcasts,
				Checks:     m.Template.Checks,
				Tags:       m.Template.Tags,
				TTL:        m.Template.TTL,
				Speed:      m.Template.Speed,
			},
		}
		if m.Area != nil {
			s.Area = *m.Area
		}
		return s
	},
}

// Build creates the world described by sc, populated with its groups and
// driven by its modules. Frames are not dispatched.
func Build(id uint32, sc Scenario) (*models.World, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	w, err := models.NewWorld(id, sc.Name, sc.Bounds, spatial.Options{
		Capacity:    sc.Tree.Capacity,
		MaxDepth:    sc.Tree.MaxDepth,
		OutOfBounds: sc.Tree.OutOfBounds,
	}, sc.frameDuration())
	if err != nil {
		return nil, err
	}

	for _, g := range sc.Groups {
		if err := addGroup(w, sc.Bounds, g); err != nil {
			w.Close()
			return nil, err
		}
	}

	mods := make([]modules.Module, len(sc.Modules))
	for i, m := range sc.Modules {
		mods[i] = moduleBuilders[m.Name](m)
	}
	if err := modules.Register(w, mods...); err != nil {
		w.Close()
		return nil, err
	}

	logs.WithTag("world", w.UUID).
		WithTag("name", w.Name).
		WithTag("entities", w.EntityCount()).
		WithTag("modules", len(mods)).
		Info("world built")
	return w, nil
}

func addGroup(w *models.World, bounds spatial.Bounds, g Group) error {
	rng := rand.New(rand.NewSource(g.Seed))

	area := bounds
	if g.Area != nil {
		area = *g.Area
	}

	positions := make([]spatial.Point, 0, len(g.Positions)+g.Count)
	positions = append(positions, g.Positions...)
	for i := 0; i < g.Count; i++ {
		positions = append(positions, spatial.Point{
			X: area.Left + rng.Float64()*area.Width(),
			Y: area.Top + rng.Float64()*area.Height(),
		})
	}

	for _, p := range positions {
		tags := make([]string, len(g.Template.Tags))
		copy(tags, g.Template.Tags)

		e := models.NewEntity(g.Template.body(p), tags...)
		e.TTL = g.Template.TTL

		switch {
		case g.Velocity != nil:
			e.Velocity = *g.Velocity
		case g.Template.Speed > 0:
			angle := rng.Float64() * 2 * math.Pi
			e.Velocity = spatial.Point{
				X: math.Cos(angle) * g.Template.Speed,
				Y: math.Sin(angle) * g.Template.Speed,
			}
		}

		if err := w.AddEntity(e); err != nil {
			return errors.New("adding group entity failed").
				WithTag("group", g.Name).
				WithTag("position", p).
				Wrap(err)
		}
	}
	return nil
}

package modules

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/ingwaz/models"
)

const (
	// A module was configured with invalid values.
	ErrTypeInvalidConfig = "module-invalid-config"
)

// Module is the interface that describes a module that drives the entities of
// a world.
type Module interface {
	// Returns the module name.
	Name() string

	// Initializes the module for the given world. It is called once, before
	// the first frame.
	Init(*models.World) error

	models.Behavior
}

// Register initializes the given modules and adds them to the world
// behaviors, in order.
func Register(w *models.World, mods ...Module) error {
	for _, m := range mods {
		if err := m.Init(w); err != nil {
			return errors.New("initializing module failed").
				WithTag("world", w.Name).
				WithTag("module", m.Name()).
				Wrap(err)
		}
		w.AddBehavior(m)
	}
	return nil
}

// InvalidConfig returns an error that reports an invalid module setting.
func InvalidConfig(module, setting string, value any) error {
	return errors.New("invalid module setting").
		WithType(ErrTypeInvalidConfig).
		WithTag("module", module).
		WithTag("setting", setting).
		WithTag("value", value)
}

package modules

import (
	"testing"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/ingwaz/models"
	"github.com/aukilabs/ingwaz/spatial"
	"github.com/stretchr/testify/require"
)

type testModule struct {
	name    string
	initErr error
	inits   int
	updates int
}

func (m *testModule) Name() string { return m.name }

func (m *testModule) Init(*models.World) error {
	m.inits++
	return m.initErr
}

func (m *testModule) Update(*models.Scene, *models.Entity, time.Duration) {
	m.updates++
}

func (m *testModule) HandleCollision(*models.Scene, *models.Entity, *models.Entity) {}

func newTestWorld(t *testing.T) *models.World {
	w, err := models.NewWorld(1, "test", spatial.Bounds{Right: 100, Bottom: 100}, spatial.Options{}, time.Second)
	require.NoError(t, err)
	t.Cleanup(w.Close)
	return w
}

func TestRegister(t *testing.T) {
	t.Run("modules are initialized and added", func(t *testing.T) {
		w := newTestWorld(t)
		require.NoError(t, w.AddEntity(models.NewEntity(spatial.PointBody(spatial.Point{X: 1, Y: 1}))))

		a := &testModule{name: "a"}
		b := &testModule{name: "b"}
		require.NoError(t, Register(w, a, b))
		require.Equal(t, 1, a.inits)
		require.Equal(t, 1, b.inits)

		w.Frame(time.Millisecond)
		require.Equal(t, 1, a.updates)
		require.Equal(t, 1, b.updates)
	})

	t.Run("init error stops the registration", func(t *testing.T) {
		w := newTestWorld(t)

		a := &testModule{name: "a", initErr: InvalidConfig("a", "interval", -1)}
		b := &testModule{name: "b"}

		err := Register(w, a, b)
		require.Error(t, err)
		require.Zero(t, b.inits)
		require.True(t, errors.Is(err, a.initErr))
	})
}

func TestInvalidConfig(t *testing.T) {
	err := InvalidConfig("spawner", "interval", 0)
	require.True(t, errors.IsType(err, ErrTypeInvalidConfig))
}

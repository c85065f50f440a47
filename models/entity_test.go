package models

import (
	"testing"
	"time"

	"github.com/aukilabs/ingwaz/spatial"
	"github.com/stretchr/testify/require"
)

func TestEntityHasTag(t *testing.T) {
	e := NewEntity(spatial.PointBody(spatial.Point{}), "fragile", "red")

	require.True(t, e.HasTag("fragile"))
	require.True(t, e.HasTag("red"))
	require.False(t, e.HasTag("blue"))
}

func TestEntityMakeDead(t *testing.T) {
	var e Entity
	require.False(t, e.IsDead())

	e.MakeDead()
	require.True(t, e.IsDead())
}

func TestEntityExpired(t *testing.T) {
	t.Run("without ttl", func(t *testing.T) {
		e := Entity{Age: time.Hour}
		require.False(t, e.Expired())
	})

	t.Run("before ttl", func(t *testing.T) {
		e := Entity{TTL: time.Second, Age: time.Second}
		require.False(t, e.Expired())
	})

	t.Run("after ttl", func(t *testing.T) {
		e := Entity{TTL: time.Second, Age: time.Second + time.Millisecond}
		require.True(t, e.Expired())
	})
}

func TestEntityInfo(t *testing.T) {
	e := NewEntity(spatial.RectBody(spatial.Point{X: 1, Y: 2}, 3, 4, true, false), "wall")
	e.ID = 7
	e.Velocity = spatial.Point{X: 5}

	info := e.Info()
	require.Equal(t, uint32(7), info.ID)
	require.Equal(t, []string{"wall"}, info.Tags)
	require.Equal(t, spatial.Point{X: 1, Y: 2}, info.Position)
	require.Equal(t, &spatial.Bounds{Left: 1, Top: 2, Right: 4, Bottom: 6}, info.Rect)
	require.Equal(t, spatial.Point{X: 5}, info.Velocity)
	require.False(t, info.Dead)

	point := NewEntity(spatial.PointBody(spatial.Point{X: 1, Y: 1}))
	require.Nil(t, point.Info().Rect)
	require.Len(t, EntitiesToInfo([]*Entity{e, point}), 2)
}

package spatial

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoundsContains(t *testing.T) {
	b := Bounds{Left: 0, Top: 0, Right: 10, Bottom: 10}

	require.True(t, b.Contains(Bounds{Left: 1, Top: 1, Right: 9, Bottom: 9}))
	require.True(t, b.Contains(b))
	require.True(t, b.Contains(PointBounds(Point{X: 10, Y: 0})))
	require.False(t, b.Contains(Bounds{Left: -1, Top: 1, Right: 9, Bottom: 9}))
	require.False(t, b.Contains(Bounds{Left: 1, Top: 1, Right: 9, Bottom: 11}))
}

func TestBoundsIntersects(t *testing.T) {
	tests := []struct {
		scenario   string
		a          Bounds
		b          Bounds
		intersects bool
		overlaps   bool
	}{
		{
			scenario:   "overlapping",
			a:          Bounds{Left: 0, Top: 0, Right: 10, Bottom: 10},
			b:          Bounds{Left: 5, Top: 5, Right: 15, Bottom: 15},
			intersects: true,
			overlaps:   true,
		},
		{
			scenario:   "sharing an edge",
			a:          Bounds{Left: 0, Top: 0, Right: 10, Bottom: 10},
			b:          Bounds{Left: 10, Top: 0, Right: 20, Bottom: 10},
			intersects: false,
			overlaps:   true,
		},
		{
			scenario:   "sharing a corner",
			a:          Bounds{Left: 0, Top: 0, Right: 10, Bottom: 10},
			b:          Bounds{Left: 10, Top: 10, Right: 20, Bottom: 20},
			intersects: false,
			overlaps:   true,
		},
		{
			scenario:   "disjoint",
			a:          Bounds{Left: 0, Top: 0, Right: 10, Bottom: 10},
			b:          Bounds{Left: 11, Top: 0, Right: 20, Bottom: 10},
			intersects: false,
			overlaps:   false,
		},
		{
			scenario:   "nested",
			a:          Bounds{Left: 0, Top: 0, Right: 10, Bottom: 10},
			b:          Bounds{Left: 2, Top: 2, Right: 3, Bottom: 3},
			intersects: true,
			overlaps:   true,
		},
	}

	for _, test := range tests {
		t.Run(test.scenario, func(t *testing.T) {
			require.Equal(t, test.intersects, test.a.Intersects(test.b))
			require.Equal(t, test.intersects, test.b.Intersects(test.a))
			require.Equal(t, test.overlaps, test.a.Overlaps(test.b))
			require.Equal(t, test.overlaps, test.b.Overlaps(test.a))
		})
	}
}

func TestBoundsQuadrant(t *testing.T) {
	b := Bounds{Left: 0, Top: 0, Right: 100, Bottom: 100}

	require.Equal(t, Bounds{Left: 50, Top: 50, Right: 100, Bottom: 100}, b.Quadrant(1))
	require.Equal(t, Bounds{Left: 0, Top: 50, Right: 50, Bottom: 100}, b.Quadrant(2))
	require.Equal(t, Bounds{Left: 0, Top: 0, Right: 50, Bottom: 50}, b.Quadrant(3))
	require.Equal(t, Bounds{Left: 50, Top: 0, Right: 100, Bottom: 50}, b.Quadrant(4))
}

func TestBodyMovedTo(t *testing.T) {
	b := RectBody(Point{X: 10, Y: 10}, 4, 2, true, false)

	moved := b.MovedTo(Point{X: 20, Y: 5})
	require.Equal(t, Point{X: 20, Y: 5}, moved.Position)
	require.Equal(t, Bounds{Left: 20, Top: 5, Right: 24, Bottom: 7}, moved.Rect)
	require.True(t, moved.Broadcasts)

	p := PointBody(Point{X: 1, Y: 2}).MovedTo(Point{X: 3, Y: 4})
	require.Equal(t, PointBounds(Point{X: 3, Y: 4}), p.Extent())
}

func TestInteracts(t *testing.T) {
	broadcaster := RectBody(Point{}, 1, 1, true, false)
	checker := RectBody(Point{}, 1, 1, false, true)
	both := RectBody(Point{}, 1, 1, true, true)
	inert := RectBody(Point{}, 1, 1, false, false)
	point := PointBody(Point{})

	require.True(t, Interacts(broadcaster, checker))
	require.True(t, Interacts(checker, broadcaster))
	require.True(t, Interacts(both, both))
	require.False(t, Interacts(broadcaster, broadcaster))
	require.False(t, Interacts(checker, checker))
	require.False(t, Interacts(inert, both))
	require.False(t, Interacts(point, both))
}

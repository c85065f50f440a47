package spatial

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTreeSearch(t *testing.T) {
	tree := newTestTree(t, Options{Capacity: 1})

	rect, err := tree.Insert(RectBody(Point{X: 60, Y: 60}, 10, 10, true, true), 1)
	require.NoError(t, err)
	point, err := tree.Insert(PointBody(Point{X: 20, Y: 30}), 2)
	require.NoError(t, err)
	center, err := tree.Insert(PointBody(Point{X: 50, Y: 50}), 3)
	require.NoError(t, err)
	straddling, err := tree.Insert(RectBody(Point{X: 20, Y: 70}, 40, 5, true, true), 4)
	require.NoError(t, err)

	tests := []struct {
		scenario string
		at       Point
		handle   Handle
		value    int
		found    bool
	}{
		{
			scenario: "inside a rectangle",
			at:       Point{X: 65, Y: 65},
			handle:   rect,
			value:    1,
			found:    true,
		},
		{
			scenario: "on a rectangle edge",
			at:       Point{X: 70, Y: 60},
			handle:   rect,
			value:    1,
			found:    true,
		},
		{
			scenario: "on a point",
			at:       Point{X: 20, Y: 30},
			handle:   point,
			value:    2,
			found:    true,
		},
		{
			scenario: "on the root center",
			at:       Point{X: 50, Y: 50},
			handle:   center,
			value:    3,
			found:    true,
		},
		{
			scenario: "inside a rectangle pinned to the root",
			at:       Point{X: 55, Y: 72},
			handle:   straddling,
			value:    4,
			found:    true,
		},
		{
			scenario: "next to a point",
			at:       Point{X: 20.5, Y: 30},
		},
		{
			scenario: "empty area",
			at:       Point{X: 90, Y: 10},
		},
	}

	for _, test := range tests {
		t.Run(test.scenario, func(t *testing.T) {
			h, v, ok := tree.Search(test.at)
			require.Equal(t, test.found, ok)
			require.Equal(t, test.handle, h)
			require.Equal(t, test.value, v)
		})
	}
}

func TestTreeQuery(t *testing.T) {
	tree := newTestTree(t, Options{Capacity: 2})

	bodies := []Body{
		PointBody(Point{X: 10, Y: 10}),
		PointBody(Point{X: 30, Y: 30}),
		RectBody(Point{X: 45, Y: 5}, 10, 10, true, true),
		PointBody(Point{X: 80, Y: 80}),
		RectBody(Point{X: 25, Y: 60}, 5, 5, false, false),
		PointBody(Point{X: 50, Y: 50}),
	}
	for i, b := range bodies {
		_, err := tree.Insert(b, i)
		require.NoError(t, err)
	}

	query := func(region Bounds) []int {
		var values []int
		tree.Query(region, func(_ Handle, v int) bool {
			values = append(values, v)
			return true
		})
		sort.Ints(values)
		return values
	}

	require.Equal(t, []int{0, 1}, query(Bounds{Left: 0, Top: 0, Right: 30, Bottom: 30}))
	require.Equal(t, []int{0, 1, 2, 4, 5}, query(Bounds{Left: 0, Top: 0, Right: 50, Bottom: 60}))
	require.Equal(t, []int{0, 1, 2, 3, 4, 5}, query(worldBounds))
	require.Nil(t, query(Bounds{Left: 60, Top: 10, Right: 70, Bottom: 20}))

	var count int
	tree.Query(worldBounds, func(Handle, int) bool {
		count++
		return count < 2
	})
	require.Equal(t, 2, count)
}

func TestTreeQueryMatchesScan(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	tree := newTestTree(t, Options{Capacity: 3})

	bodies := make(map[int]Body)
	for i := 0; i < 500; i++ {
		p := Point{X: rng.Float64() * 100, Y: rng.Float64() * 100}
		b := RectBody(p, rng.Float64()*4, rng.Float64()*4, true, true)
		if i%4 == 0 {
			b = PointBody(p)
		}

		_, err := tree.Insert(b, i)
		require.NoError(t, err)
		bodies[i] = b
	}

	for i := 0; i < 50; i++ {
		p := Point{X: rng.Float64() * 90, Y: rng.Float64() * 90}
		region := RectAt(p, rng.Float64()*30, rng.Float64()*30)

		var expected []int
		for v, b := range bodies {
			if b.Extent().Overlaps(region) {
				expected = append(expected, v)
			}
		}
		sort.Ints(expected)

		var values []int
		tree.Query(region, func(_ Handle, v int) bool {
			values = append(values, v)
			return true
		})
		sort.Ints(values)

		require.Equal(t, expected, values)
	}
}

func TestTreeEach(t *testing.T) {
	tree := newTestTree(t, Options{Capacity: 1})

	for i := 0; i < 10; i++ {
		_, err := tree.Insert(PointBody(Point{X: float64(i * 10), Y: float64(i * 10)}), i)
		require.NoError(t, err)
	}

	var values []int
	tree.Each(func(_ Handle, v int) bool {
		values = append(values, v)
		return true
	})
	sort.Ints(values)
	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, values)
}

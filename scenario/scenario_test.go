package scenario

import (
	"testing"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/ingwaz/models"
	"github.com/aukilabs/ingwaz/spatial"
	"github.com/stretchr/testify/require"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path   string
		format Format
		err    bool
	}{
		{path: "a.yaml", format: FormatYAML},
		{path: "dir/a.YML", format: FormatYAML},
		{path: "a.toml", format: FormatTOML},
		{path: "a.json", err: true},
		{path: "a", err: true},
	}

	for _, test := range tests {
		t.Run(test.path, func(t *testing.T) {
			format, err := FormatFromPath(test.path)
			if test.err {
				require.True(t, errors.IsType(err, ErrTypeUnknownFormat))
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.format, format)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		sc, err := Load("testdata/asteroids.yaml")
		require.NoError(t, err)

		require.Equal(t, "asteroids", sc.Name)
		require.Equal(t, spatial.Bounds{Right: 1000, Bottom: 1000}, sc.Bounds)
		require.Equal(t, time.Millisecond*20, sc.FrameDuration)
		require.Equal(t, Tree{Capacity: 4, MaxDepth: 10, OutOfBounds: spatial.OutOfBoundsClamp}, sc.Tree)

		require.Len(t, sc.Groups, 2)
		require.Equal(t, 40, sc.Groups[0].Count)
		require.Equal(t, &spatial.Bounds{Left: 100, Top: 100, Right: 900, Bottom: 900}, sc.Groups[0].Area)
		require.Equal(t, []spatial.Point{{X: 500, Y: 500}, {X: 250, Y: 750}}, sc.Groups[1].Positions)
		require.Equal(t, &spatial.Point{X: 10}, sc.Groups[1].Velocity)
		require.Equal(t, []string{"fragile"}, sc.Groups[1].Template.Tags)

		require.Len(t, sc.Modules, 4)
		require.Equal(t, "bounce", sc.Modules[0].Walls)
		require.Equal(t, time.Second*30, sc.Modules[2].TTL)
		require.Equal(t, time.Millisecond*500, sc.Modules[3].Interval)
		require.Equal(t, 50.0, sc.Modules[3].Template.Speed)
	})

	t.Run("toml", func(t *testing.T) {
		sc, err := Load("testdata/swarm.toml")
		require.NoError(t, err)

		require.Equal(t, "swarm", sc.Name)
		require.Equal(t, spatial.Bounds{Left: -50, Top: -50, Right: 50, Bottom: 50}, sc.Bounds)
		require.Equal(t, time.Millisecond*10, sc.FrameDuration)
		require.Equal(t, spatial.OutOfBoundsReject, sc.Tree.OutOfBounds)
		require.Len(t, sc.Groups, 1)
		require.Equal(t, 25, sc.Groups[0].Count)
		require.True(t, sc.Groups[0].Template.Checks)
		require.Equal(t, "wrap", sc.Modules[0].Walls)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load("testdata/missing.yaml")
		require.Error(t, err)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := Load("testdata/asteroids.json")
		require.True(t, errors.IsType(err, ErrTypeUnknownFormat))
	})
}

func TestParse(t *testing.T) {
	_, err := Parse([]byte("name: [unclosed"), FormatYAML)
	require.True(t, errors.IsType(err, ErrTypeInvalidScenario))

	_, err = Parse([]byte("name = "), FormatTOML)
	require.True(t, errors.IsType(err, ErrTypeInvalidScenario))

	_, err = Parse(nil, "xml")
	require.True(t, errors.IsType(err, ErrTypeUnknownFormat))
}

func validScenario() Scenario {
	return Scenario{
		Name:   "test",
		Bounds: spatial.Bounds{Right: 100, Bottom: 100},
	}
}

func TestScenarioValidate(t *testing.T) {
	tests := []struct {
		scenario string
		edit     func(sc *Scenario)
		err      bool
	}{
		{
			scenario: "valid",
			edit:     func(sc *Scenario) {},
		},
		{
			scenario: "missing name",
			edit:     func(sc *Scenario) { sc.Name = "" },
			err:      true,
		},
		{
			scenario: "empty bounds",
			edit:     func(sc *Scenario) { sc.Bounds = spatial.Bounds{Right: 100} },
			err:      true,
		},
		{
			scenario: "negative frame duration",
			edit:     func(sc *Scenario) { sc.FrameDuration = -time.Second },
			err:      true,
		},
		{
			scenario: "unknown out of bounds policy",
			edit:     func(sc *Scenario) { sc.Tree.OutOfBounds = "drop" },
			err:      true,
		},
		{
			scenario: "negative capacity",
			edit:     func(sc *Scenario) { sc.Tree.Capacity = -1 },
			err:      true,
		},
		{
			scenario: "negative group count",
			edit:     func(sc *Scenario) { sc.Groups = []Group{{Count: -1}} },
			err:      true,
		},
		{
			scenario: "invalid group area",
			edit:     func(sc *Scenario) { sc.Groups = []Group{{Area: &spatial.Bounds{Left: 10}}} },
			err:      true,
		},
		{
			scenario: "negative template size",
			edit:     func(sc *Scenario) { sc.Groups = []Group{{Template: Template{Width: -1}}} },
			err:      true,
		},
		{
			scenario: "unknown module",
			edit:     func(sc *Scenario) { sc.Modules = []Module{{Name: "gravity"}} },
			err:      true,
		},
	}

	for _, test := range tests {
		t.Run(test.scenario, func(t *testing.T) {
			sc := validScenario()
			test.edit(&sc)

			err := sc.Validate()
			if test.err {
				require.True(t, errors.IsType(err, ErrTypeInvalidScenario))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestBuild(t *testing.T) {
	t.Run("scenario file", func(t *testing.T) {
		sc, err := Load("testdata/asteroids.yaml")
		require.NoError(t, err)

		w, err := Build(3, sc)
		require.NoError(t, err)
		defer w.Close()

		require.Equal(t, uint32(3), w.ID)
		require.Equal(t, "asteroids", w.Name)
		require.Equal(t, time.Millisecond*20, w.FrameDuration())
		require.Equal(t, 42, w.EntityCount())

		w.Inspect(func(s *models.Scene) {
			opts := s.Tree().Options()
			require.Equal(t, 4, opts.Capacity)
			require.Equal(t, 10, opts.MaxDepth)
			require.Equal(t, spatial.OutOfBoundsClamp, opts.OutOfBounds)
			require.NoError(t, s.Tree().Validate())
		})

		var ships []models.EntityInfo
		for _, e := range w.Entities() {
			if len(e.Tags) != 0 {
				ships = append(ships, e)
			}
		}
		require.Len(t, ships, 2)
		require.Equal(t, spatial.Point{X: 500, Y: 500}, ships[0].Position)
		require.Equal(t, []string{"fragile"}, ships[0].Tags)
		require.Equal(t, spatial.Point{X: 10}, ships[0].Velocity)
		require.Equal(t, &spatial.Bounds{Left: 500, Top: 500, Right: 508, Bottom: 508}, ships[0].Rect)

		for i := 0; i < 10; i++ {
			w.Frame(w.FrameDuration())
		}
		w.Inspect(func(s *models.Scene) {
			require.NoError(t, s.Tree().Validate())
		})
	})

	t.Run("random placement is deterministic", func(t *testing.T) {
		sc, err := Load("testdata/swarm.toml")
		require.NoError(t, err)

		positions := func() []spatial.Point {
			w, err := Build(1, sc)
			require.NoError(t, err)
			defer w.Close()

			var points []spatial.Point
			for _, e := range w.Entities() {
				require.True(t, spatial.Bounds{Left: -45, Top: -45, Right: 45, Bottom: 45}.ContainsPoint(e.Position))
				points = append(points, e.Position)
			}
			return points
		}

		first := positions()
		require.Len(t, first, 25)
		require.Equal(t, first, positions())
	})

	t.Run("default frame duration", func(t *testing.T) {
		w, err := Build(1, validScenario())
		require.NoError(t, err)
		defer w.Close()

		require.Equal(t, DefaultFrameDuration, w.FrameDuration())
	})

	t.Run("rejected group entity", func(t *testing.T) {
		sc := validScenario()
		sc.Tree.OutOfBounds = spatial.OutOfBoundsReject
		sc.Groups = []Group{{Name: "outside", Positions: []spatial.Point{{X: 200, Y: 200}}}}

		_, err := Build(1, sc)
		require.Error(t, err)
	})

	t.Run("invalid module config", func(t *testing.T) {
		sc := validScenario()
		sc.Modules = []Module{{Name: "spawner"}}

		_, err := Build(1, sc)
		require.Error(t, err)
	})
}

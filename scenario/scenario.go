// Package scenario describes worlds in YAML or TOML files and builds them.
package scenario

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/ingwaz/spatial"
	"gopkg.in/yaml.v3"
)

const (
	// A scenario file has an unsupported format.
	ErrTypeUnknownFormat = "scenario-unknown-format"

	// A scenario is not valid.
	ErrTypeInvalidScenario = "scenario-invalid"

	// The frame duration used by scenarios that do not set one.
	DefaultFrameDuration = time.Millisecond * 16
)

// Format is the encoding of a scenario.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath returns the format matching the extension of path.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", errors.New("unknown scenario format").
			WithType(ErrTypeUnknownFormat).
			WithTag("path", path)
	}
}

// Scenario describes a world: its bounds, its tree, its initial entities and
// the modules that drive them.
type Scenario struct {
	Name          string         `yaml:"name"           toml:"name"`
	Bounds        spatial.Bounds `yaml:"bounds"         toml:"bounds"`
	FrameDuration time.Duration  `yaml:"frame_duration" toml:"frame_duration"`
	Tree          Tree           `yaml:"tree"           toml:"tree"`
	Groups        []Group        `yaml:"groups"         toml:"groups"`
	Modules       []Module       `yaml:"modules"        toml:"modules"`
}

// Tree holds the spatial tree options. Zero values select the tree defaults.
type Tree struct {
	Capacity    int                       `yaml:"capacity"      toml:"capacity"`
	MaxDepth    int                       `yaml:"max_depth"     toml:"max_depth"`
	OutOfBounds spatial.OutOfBoundsPolicy `yaml:"out_of_bounds" toml:"out_of_bounds"`
}

// Group is a set of entities sharing a template. Entities are placed at the
// given positions, then Count more are placed at random inside Area.
type Group struct {
	Name      string          `yaml:"name"      toml:"name"`
	Positions []spatial.Point `yaml:"positions" toml:"positions"`
	Count     int             `yaml:"count"     toml:"count"`
	Area      *spatial.Bounds `yaml:"area"      toml:"area"`
	Seed      int64           `yaml:"seed"      toml:"seed"`
	Velocity  *spatial.Point  `yaml:"velocity"  toml:"velocity"`
	Template  Template        `yaml:"template"  toml:"template"`
}

// Template describes an entity.
type Template struct {
	Width      float64       `yaml:"width"      toml:"width"`
	Height     float64       `yaml:"height"     toml:"height"`
	Broadcasts bool          `yaml:"broadcasts" toml:"broadcasts"`
	Checks     bool          `yaml:"checks"     toml:"checks"`
	Tags       []string      `yaml:"tags"       toml:"tags"`
	TTL        time.Duration `yaml:"ttl"        toml:"ttl"`

	// The speed of the entity, in a random direction.
	Speed float64 `yaml:"speed" toml:"speed"`
}

// Module configures a module. Only the settings of the named module are
// used.
type Module struct {
	Name string `yaml:"name" toml:"name"`

	// kinematic
	Walls string `yaml:"walls" toml:"walls"`

	// lifetime and contact
	TTL time.Duration `yaml:"ttl" toml:"ttl"`
	Tag string        `yaml:"tag" toml:"tag"`

	// spawner
	Interval time.Duration   `yaml:"interval" toml:"interval"`
	Area     *spatial.Bounds `yaml:"area"     toml:"area"`
	Max      int             `yaml:"max"      toml:"max"`
	Seed     int64           `yaml:"seed"     toml:"seed"`
	Template Template        `yaml:"template" toml:"template"`
}

// Load reads and validates the scenario stored at path.
func Load(path string) (Scenario, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Scenario{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, errors.New("reading scenario failed").
			WithTag("path", path).
			Wrap(err)
	}

	sc, err := Parse(data, format)
	if err != nil {
		return Scenario{}, err
	}

	if err := sc.Validate(); err != nil {
		return Scenario{}, err
	}
	return sc, nil
}

// Parse decodes a scenario. The result is not validated.
func Parse(data []byte, format Format) (Scenario, error) {
	var sc Scenario
	var err error

	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &sc)
	case FormatTOML:
		err = toml.Unmarshal(data, &sc)
	default:
		return Scenario{}, errors.New("unknown scenario format").
			WithType(ErrTypeUnknownFormat).
			WithTag("format", format)
	}

	if err != nil {
		return Scenario{}, errors.New("decoding scenario failed").
			WithType(ErrTypeInvalidScenario).
			WithTag("format", format).
			Wrap(err)
	}
	return sc, nil
}

// Validate checks that the scenario can be built.
func (sc Scenario) Validate() error {
	if sc.Name == "" {
		return invalid(sc, "name", "missing name")
	}
	if !sc.Bounds.Valid() || sc.Bounds.Width() == 0 || sc.Bounds.Height() == 0 {
		return invalid(sc, "bounds", "bounds must have a positive area")
	}
	if sc.FrameDuration < 0 {
		return invalid(sc, "frame_duration", "negative frame duration")
	}

	switch sc.Tree.OutOfBounds {
	case "", spatial.OutOfBoundsAccept, spatial.OutOfBoundsReject, spatial.OutOfBoundsClamp:
	default:
		return invalid(sc, "tree.out_of_bounds", "unknown out of bounds policy")
	}
	if sc.Tree.Capacity < 0 || sc.Tree.MaxDepth < 0 {
		return invalid(sc, "tree", "negative tree option")
	}

	for _, g := range sc.Groups {
		if g.Count < 0 {
			return invalid(sc, "groups."+g.Name, "negative count")
		}
		if g.Area != nil && !g.Area.Valid() {
			return invalid(sc, "groups."+g.Name, "invalid area")
		}
		if err := g.Template.validate(); err != nil {
			return invalid(sc, "groups."+g.Name, err.Error())
		}
	}

	for _, m := range sc.Modules {
		if _, ok := moduleBuilders[m.Name]; !ok {
			return invalid(sc, "modules", "unknown module "+m.Name)
		}
		if err := m.Template.validate(); err != nil {
			return invalid(sc, "modules."+m.Name, err.Error())
		}
	}
	return nil
}

func (sc Scenario) frameDuration() time.Duration {
	if sc.FrameDuration == 0 {
		return DefaultFrameDuration
	}
	return sc.FrameDuration
}

func (t Template) validate() error {
	if t.Width < 0 || t.Height < 0 {
		return errors.New("negative size")
	}
	if t.TTL < 0 {
		return errors.New("negative ttl")
	}
	if t.Speed < 0 {
		return errors.New("negative speed")
	}
	return nil
}

func (t Template) body(p spatial.Point) spatial.Body {
	if t.Width <= 0 && t.Height <= 0 {
		return spatial.PointBody(p)
	}
	return spatial.RectBody(p, t.Width, t.Height, t.Broadcasts, t.Checks)
}

func invalid(sc Scenario, field, msg string) error {
	return errors.New(msg).
		WithType(ErrTypeInvalidScenario).
		WithTag("scenario", sc.Name).
		WithTag("field", field)
}

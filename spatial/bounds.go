package spatial

import "strconv"

type Point struct {
	X float64 `json:"x" yaml:"x" toml:"x"`
	Y float64 `json:"y" yaml:"y" toml:"y"`
}

func (p Point) String() string {
	return "[" + strconv.FormatFloat(p.X, 'f', -1, 64) + "," + strconv.FormatFloat(p.Y, 'f', -1, 64) + "]"
}

func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

func (p Point) Scale(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Bounds is an axis-aligned rectangle. Right >= Left and Bottom >= Top; +y
// points down.
type Bounds struct {
	Left   float64 `json:"left"   yaml:"left"   toml:"left"`
	Top    float64 `json:"top"    yaml:"top"    toml:"top"`
	Right  float64 `json:"right"  yaml:"right"  toml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom" toml:"bottom"`
}

// RectAt returns the bounds of a w x h rectangle whose top-left corner is p.
func RectAt(p Point, w, h float64) Bounds {
	return Bounds{Left: p.X, Top: p.Y, Right: p.X + w, Bottom: p.Y + h}
}

// PointBounds returns the degenerate bounds of a single point.
func PointBounds(p Point) Bounds {
	return Bounds{Left: p.X, Top: p.Y, Right: p.X, Bottom: p.Y}
}

func (b Bounds) Width() float64 {
	return b.Right - b.Left
}

func (b Bounds) Height() float64 {
	return b.Bottom - b.Top
}

func (b Bounds) Center() Point {
	return Point{X: b.Left + b.Width()/2, Y: b.Top + b.Height()/2}
}

func (b Bounds) Valid() bool {
	return b.Right >= b.Left && b.Bottom >= b.Top
}

// Contains reports whether o lies fully inside b. Edges are inclusive.
func (b Bounds) Contains(o Bounds) bool {
	return o.Left >= b.Left &&
		o.Top >= b.Top &&
		o.Right <= b.Right &&
		o.Bottom <= b.Bottom
}

func (b Bounds) ContainsPoint(p Point) bool {
	return p.X >= b.Left &&
		p.X <= b.Right &&
		p.Y >= b.Top &&
		p.Y <= b.Bottom
}

// Intersects reports whether the interiors of b and o overlap. Rectangles
// that only share an edge do not intersect.
func (b Bounds) Intersects(o Bounds) bool {
	return b.Left < o.Right &&
		b.Right > o.Left &&
		b.Top < o.Bottom &&
		b.Bottom > o.Top
}

// Overlaps is the inclusive version of Intersects, used by region queries so
// that points on a region edge are reported.
func (b Bounds) Overlaps(o Bounds) bool {
	return b.Left <= o.Right &&
		b.Right >= o.Left &&
		b.Top <= o.Bottom &&
		b.Bottom >= o.Top
}

func (b Bounds) Translate(d Point) Bounds {
	return Bounds{
		Left:   b.Left + d.X,
		Top:    b.Top + d.Y,
		Right:  b.Right + d.X,
		Bottom: b.Bottom + d.Y,
	}
}

// Quadrant returns the bounds of quadrant q (1 to 4) of b, using the same
// numbering as the tree children: 1 = +x+y, 2 = -x+y, 3 = -x-y, 4 = +x-y.
func (b Bounds) Quadrant(q int) Bounds {
	c := b.Center()

	switch q {
	case 1:
		return Bounds{Left: c.X, Top: c.Y, Right: b.Right, Bottom: b.Bottom}
	case 2:
		return Bounds{Left: b.Left, Top: c.Y, Right: c.X, Bottom: b.Bottom}
	case 3:
		return Bounds{Left: b.Left, Top: b.Top, Right: c.X, Bottom: c.Y}
	default:
		return Bounds{Left: c.X, Top: b.Top, Right: b.Right, Bottom: c.Y}
	}
}

func (b Bounds) String() string {
	return "(" + strconv.FormatFloat(b.Left, 'f', -1, 64) +
		", " + strconv.FormatFloat(b.Top, 'f', -1, 64) +
		", " + strconv.FormatFloat(b.Right, 'f', -1, 64) +
		", " + strconv.FormatFloat(b.Bottom, 'f', -1, 64) + ")"
}

package spatial

// Body is what the tree needs to know about an entity: where it is, how much
// space it covers and how it takes part in collisions.
type Body struct {
	// The entity position. Point-only bodies are placed by position alone.
	Position Point

	// The collision rectangle in world coordinates. Only used when HasRect
	// is set.
	Rect    Bounds
	HasRect bool

	// Broadcasts marks a body that others can collide with. Checks marks a
	// body that wants to be told about collisions. A pair is reported when
	// one side broadcasts and the other checks.
	Broadcasts bool
	Checks     bool
}

// PointBody returns a point-only body.
func PointBody(p Point) Body {
	return Body{Position: p}
}

// RectBody returns a body whose collision rectangle is w x h, anchored at p.
func RectBody(p Point, w, h float64, broadcasts, checks bool) Body {
	return Body{
		Position:   p,
		Rect:       RectAt(p, w, h),
		HasRect:    true,
		Broadcasts: broadcasts,
		Checks:     checks,
	}
}

// Extent returns the space covered by the body.
func (b Body) Extent() Bounds {
	if b.HasRect {
		return b.Rect
	}
	return PointBounds(b.Position)
}

// Collidable reports whether the body takes part in collision detection.
func (b Body) Collidable() bool {
	return b.HasRect && (b.Broadcasts || b.Checks)
}

// MovedTo returns a copy of the body translated so its position is p. The
// collision rectangle keeps its offset from the position.
func (b Body) MovedTo(p Point) Body {
	d := p.Sub(b.Position)
	b.Position = p
	if b.HasRect {
		b.Rect = b.Rect.Translate(d)
	}
	return b
}

// Interacts reports whether a collision between a and b should be reported,
// regardless of whether their rectangles intersect.
func Interacts(a, b Body) bool {
	if !a.Collidable() || !b.Collidable() {
		return false
	}
	return (a.Broadcasts && b.Checks) || (b.Broadcasts && a.Checks)
}

// Colliding reports whether a and b interact and their rectangles intersect.
func Colliding(a, b Body) bool {
	return Interacts(a, b) && a.Rect.Intersects(b.Rect)
}

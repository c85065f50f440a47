package spatial

// Search returns the first entity found at p. Bodies with a collision
// rectangle match when the rectangle contains p; point bodies match when their
// position equals p.
func (t *Tree[T]) Search(p Point) (Handle, T, bool) {
	extent := PointBounds(p)

	for id := rootID; ; {
		n := &t.nodes[id]

		if idx, ok := t.searchList(n.unsplittable, p); ok {
			return t.handle(idx), t.members[idx].value, true
		}

		if n.leaf {
			if idx, ok := t.searchList(n.splittable, p); ok {
				return t.handle(idx), t.members[idx].value, true
			}
			break
		}

		// A point on a split axis is always an unsplittable member.
		q := n.classify(extent)
		if q == 0 {
			break
		}
		id = n.children[q-1]
	}

	var zero T
	return Handle{}, zero, false
}

func (t *Tree[T]) searchList(list []uint32, p Point) (uint32, bool) {
	for _, idx := range list {
		b := &t.members[idx].body
		if b.HasRect && b.Rect.ContainsPoint(p) {
			return idx, true
		}
		if !b.HasRect && b.Position == p {
			return idx, true
		}
	}
	return 0, false
}

// Query calls fn for each entity whose extent overlaps region, edges
// included. It stops when fn returns false.
func (t *Tree[T]) Query(region Bounds, fn func(h Handle, v T) bool) {
	t.query(rootID, region, fn)
}

func (t *Tree[T]) query(id int32, region Bounds, fn func(h Handle, v T) bool) bool {
	n := &t.nodes[id]

	if !t.queryList(n.unsplittable, region, fn) {
		return false
	}

	if n.leaf {
		return t.queryList(n.splittable, region, fn)
	}

	for _, c := range n.children {
		if !t.nodes[c].bounds.Overlaps(region) {
			continue
		}
		if !t.query(c, region, fn) {
			return false
		}
	}
	return true
}

func (t *Tree[T]) queryList(list []uint32, region Bounds, fn func(h Handle, v T) bool) bool {
	for _, idx := range list {
		m := &t.members[idx]
		if !m.body.Extent().Overlaps(region) {
			continue
		}
		if !fn(t.handle(idx), m.value) {
			return false
		}
	}
	return true
}

// Each calls fn for every entity in the tree, in node order. It stops when fn
// returns false.
func (t *Tree[T]) Each(fn func(h Handle, v T) bool) {
	t.walk(func(id int32, n *node) bool {
		for _, list := range [...][]uint32{n.unsplittable, n.splittable} {
			for _, idx := range list {
				if !fn(t.handle(idx), t.members[idx].value) {
					return false
				}
			}
		}
		return true
	})
}

func (t *Tree[T]) handle(idx uint32) Handle {
	return Handle{index: idx, gen: t.members[idx].gen}
}

// walk visits the active nodes depth first, parents before children. It
// stops when fn returns false.
func (t *Tree[T]) walk(fn func(id int32, n *node) bool) {
	var visit func(id int32) bool
	visit = func(id int32) bool {
		n := &t.nodes[id]
		if !fn(id, n) {
			return false
		}
		if n.leaf {
			return true
		}
		for _, c := range n.children {
			if !visit(c) {
				return false
			}
		}
		return true
	}
	visit(rootID)
}

package spatial

// HandleCollisions calls fn once for every unordered pair of entities whose
// bodies collide, and returns the number of pairs reported. An entity is never
// paired with itself.
//
// fn must not mutate the tree. Insert, Delete, Move and Update return an error
// of type ErrTypeTreeBusy while the pass runs.
func (t *Tree[T]) HandleCollisions(fn func(a, b T)) int {
	t.traversing = true
	defer func() {
		t.traversing = false
	}()

	return t.collide(rootID, nil, fn)
}

// collide tests the members of id against check, the collidable members of
// the ancestors whose extent reaches into id. check is owned by the call.
func (t *Tree[T]) collide(id int32, check []uint32, fn func(a, b T)) int {
	n := &t.nodes[id]

	check, pairs := t.collideList(n.unsplittable, check, fn)
	if n.leaf {
		_, p := t.collideList(n.splittable, check, fn)
		return pairs + p
	}

	var lists [4][]uint32
	for _, idx := range check {
		r := t.members[idx].body.Rect

		negX := r.Left <= n.split.X
		posX := r.Right >= n.split.X
		negY := r.Top <= n.split.Y
		posY := r.Bottom >= n.split.Y

		if posX && posY {
			lists[0] = append(lists[0], idx)
		}
		if negX && posY {
			lists[1] = append(lists[1], idx)
		}
		if negX && negY {
			lists[2] = append(lists[2], idx)
		}
		if posX && negY {
			lists[3] = append(lists[3], idx)
		}
	}

	for i, c := range n.children {
		pairs += t.collide(c, lists[i], fn)
	}
	return pairs
}

// collideList tests every collidable entry of list against check and the
// entries of list before it, then returns check extended with them.
func (t *Tree[T]) collideList(list, check []uint32, fn func(a, b T)) ([]uint32, int) {
	pairs := 0

	for _, idx := range list {
		m := &t.members[idx]
		if !m.body.Collidable() {
			continue
		}

		for _, other := range check {
			o := &t.members[other]
			if Colliding(o.body, m.body) {
				fn(o.value, m.value)
				pairs++
			}
		}

		check = append(check, idx)
	}

	return check, pairs
}

// BruteForceCollisions reports the same pairs as HandleCollisions by testing
// every pair of entities. It exists to cross-check the tree.
func (t *Tree[T]) BruteForceCollisions(fn func(a, b T)) int {
	live := make([]uint32, 0, t.count)
	for i := range t.members {
		if t.members[i].live && t.members[i].body.Collidable() {
			live = append(live, uint32(i))
		}
	}

	pairs := 0
	for i, a := range live {
		for _, b := range live[i+1:] {
			ma := &t.members[a]
			mb := &t.members[b]
			if Colliding(ma.body, mb.body) {
				fn(ma.value, mb.value)
				pairs++
			}
		}
	}
	return pairs
}

package spatial

const (
	noNode int32 = -1
	rootID int32 = 0
)

// node is a square region of the world. Once split, its four children stay
// allocated for the lifetime of the tree; merging a node only turns it back
// into a leaf and leaves the children dormant.
type node struct {
	bounds Bounds
	split  Point
	depth  int
	leaf   bool
	parent int32

	// Indexed by quadrant - 1. All noNode until the first split.
	children [4]int32

	splittable   []uint32
	unsplittable []uint32
}

func newNode(bounds Bounds, parent int32, depth int) node {
	return node{
		bounds:   bounds,
		split:    bounds.Center(),
		depth:    depth,
		leaf:     true,
		parent:   parent,
		children: [4]int32{noNode, noNode, noNode, noNode},
	}
}

func (n *node) allocated() bool {
	return n.children[0] != noNode
}

func (n *node) empty() bool {
	return len(n.splittable) == 0 && len(n.unsplittable) == 0
}

func (n *node) emptyLeaf() bool {
	return n.leaf && n.empty()
}

func (n *node) list(k listKind) *[]uint32 {
	if k == unsplittableList {
		return &n.unsplittable
	}
	return &n.splittable
}

// classify returns the quadrant (1 to 4) of the child that would fully
// contain extent, or 0 when extent must stay in this node: it is not contained
// by the node bounds, or it touches or straddles one of the split axes.
func (n *node) classify(extent Bounds) int {
	if !n.bounds.Contains(extent) {
		return 0
	}

	var posX, posY bool
	switch {
	case extent.Right < n.split.X:
	case extent.Left > n.split.X:
		posX = true
	default:
		return 0
	}

	switch {
	case extent.Bottom < n.split.Y:
	case extent.Top > n.split.Y:
		posY = true
	default:
		return 0
	}

	return quadrant(posX, posY)
}

func quadrant(posX, posY bool) int {
	switch {
	case posX && posY:
		return 1
	case posY:
		return 2
	case !posX:
		return 3
	default:
		return 4
	}
}

// owns reports whether id is on the path insertAt follows from the root for
// extent, so that extent may be stored in id.
func (t *Tree[T]) owns(id int32, extent Bounds) bool {
	for id != rootID {
		parent := &t.nodes[t.nodes[id].parent]

		q := parent.classify(extent)
		if q == 0 || parent.children[q-1] != id {
			return false
		}
		id = t.nodes[id].parent
	}
	return true
}

// insertAt places the member idx in the subtree rooted at id, splitting the
// receiving leaf when it goes over capacity.
func (t *Tree[T]) insertAt(id int32, idx uint32) {
	extent := t.members[idx].body.Extent()

	for {
		n := &t.nodes[id]

		q := n.classify(extent)
		if q == 0 {
			t.attach(id, idx, unsplittableList)
			t.splitIfFull(id)
			return
		}

		if n.leaf {
			t.attach(id, idx, splittableList)
			t.splitIfFull(id)
			return
		}

		id = n.children[q-1]
	}
}

// splitIfFull splits the leaf id when it holds more members than the tree
// capacity. Unsplittable members count towards the load, but a leaf without
// splittable members is never split since none of its members could move down.
func (t *Tree[T]) splitIfFull(id int32) {
	n := &t.nodes[id]
	if !n.leaf || n.depth >= t.opts.MaxDepth || len(n.splittable) == 0 {
		return
	}
	if len(n.splittable)+len(n.unsplittable) > t.opts.Capacity {
		t.split(id)
	}
}

// split turns the leaf id into an internal node and re-inserts its splittable
// members from it. Members that touch an axis after the re-classification
// become unsplittable members of id.
func (t *Tree[T]) split(id int32) {
	if !t.nodes[id].allocated() {
		parent := t.nodes[id]
		base := int32(len(t.nodes))

		for q := 1; q <= 4; q++ {
			t.nodes = append(t.nodes, newNode(parent.bounds.Quadrant(q), id, parent.depth+1))
		}

		n := &t.nodes[id]
		for i := range n.children {
			n.children[i] = base + int32(i)
		}
	}

	n := &t.nodes[id]
	n.leaf = false
	pending := n.splittable
	n.splittable = nil

	t.splits++
	instrumentSplit(t.opts.Name)

	for _, idx := range pending {
		t.insertAt(id, idx)
	}
}

// merge turns id back into a leaf when its four children are empty leaves,
// then tries the same on its ancestors.
func (t *Tree[T]) merge(id int32) {
	for id != noNode {
		n := &t.nodes[id]
		if n.leaf {
			return
		}

		for _, c := range n.children {
			if !t.nodes[c].emptyLeaf() {
				return
			}
		}

		n.leaf = true
		t.merges++
		instrumentMerge(t.opts.Name)
		id = n.parent
	}
}

// afterRemove merges the parent of id when a removal left id an empty leaf.
func (t *Tree[T]) afterRemove(id int32) {
	n := &t.nodes[id]
	if n.emptyLeaf() && n.parent != noNode {
		t.merge(n.parent)
	}
}

func (t *Tree[T]) attach(id int32, idx uint32, k listKind) {
	list := t.nodes[id].list(k)
	*list = append(*list, idx)

	m := &t.members[idx]
	m.node = id
	m.list = k
	m.slot = len(*list) - 1
}

// holds reports whether the member record of idx matches the node list it
// points to.
func (t *Tree[T]) holds(idx uint32) bool {
	m := &t.members[idx]
	if m.node < 0 || int(m.node) >= len(t.nodes) {
		return false
	}

	list := *t.nodes[m.node].list(m.list)
	return m.slot >= 0 && m.slot < len(list) && list[m.slot] == idx
}

// detach removes idx from the list its record points to. It returns false,
// leaving the tree untouched, when the record is stale.
func (t *Tree[T]) detach(idx uint32) bool {
	if !t.holds(idx) {
		return false
	}

	m := &t.members[idx]
	t.swapRemove(t.nodes[m.node].list(m.list), m.slot)
	return true
}

// swapRemove removes the entry at slot by moving the last entry into its
// place.
func (t *Tree[T]) swapRemove(list *[]uint32, slot int) {
	last := len(*list) - 1
	moved := (*list)[last]
	(*list)[slot] = moved
	t.members[moved].slot = slot
	*list = (*list)[:last]
}

// removeFrom scans both lists of id for idx and removes it.
func (t *Tree[T]) removeFrom(id int32, idx uint32) bool {
	n := &t.nodes[id]

	for _, k := range [...]listKind{splittableList, unsplittableList} {
		list := n.list(k)
		for slot, v := range *list {
			if v == idx {
				t.swapRemove(list, slot)
				return true
			}
		}
	}
	return false
}

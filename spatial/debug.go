package spatial

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
)

type Stats struct {
	Members         int    `json:"members"`
	Nodes           int    `json:"nodes"`
	ActiveNodes     int    `json:"active_nodes"`
	Leaves          int    `json:"leaves"`
	Depth           int    `json:"depth"`
	Splits          uint64 `json:"splits"`
	Merges          uint64 `json:"merges"`
	StaleReferences uint64 `json:"stale_references"`
	OutOfBounds     uint64 `json:"out_of_bounds"`
}

type NodeDebugInfo struct {
	ID           int32  `json:"id"`
	Parent       int32  `json:"parent"`
	Depth        int    `json:"depth"`
	Bounds       Bounds `json:"bounds"`
	Leaf         bool   `json:"leaf"`
	Splittable   int    `json:"splittable"`
	Unsplittable int    `json:"unsplittable"`
}

type DebugInfo struct {
	Name     string          `json:"name"`
	Bounds   Bounds          `json:"bounds"`
	Capacity int             `json:"capacity"`
	MaxDepth int             `json:"max_depth"`
	Stats    Stats           `json:"stats"`
	Nodes    []NodeDebugInfo `json:"nodes"`
}

// Stats returns the tree counters and the shape of its active nodes.
func (t *Tree[T]) Stats() Stats {
	s := Stats{
		Members:         t.count,
		Nodes:           len(t.nodes),
		Splits:          t.splits,
		Merges:          t.merges,
		StaleReferences: t.staleReferences,
		OutOfBounds:     t.outOfBounds,
	}

	t.walk(func(id int32, n *node) bool {
		s.ActiveNodes++
		if n.leaf {
			s.Leaves++
		}
		if n.depth > s.Depth {
			s.Depth = n.depth
		}
		return true
	})
	return s
}

// DebugInfo returns a description of the active nodes, parents before
// children.
func (t *Tree[T]) DebugInfo() DebugInfo {
	info := DebugInfo{
		Name:     t.opts.Name,
		Bounds:   t.Bounds(),
		Capacity: t.opts.Capacity,
		MaxDepth: t.opts.MaxDepth,
		Stats:    t.Stats(),
	}

	info.Nodes = make([]NodeDebugInfo, 0, info.Stats.ActiveNodes)
	t.walk(func(id int32, n *node) bool {
		info.Nodes = append(info.Nodes, NodeDebugInfo{
			ID:           id,
			Parent:       n.parent,
			Depth:        n.depth,
			Bounds:       n.bounds,
			Leaf:         n.leaf,
			Splittable:   len(n.splittable),
			Unsplittable: len(n.unsplittable),
		})
		return true
	})
	return info
}

// Validate checks the structure of the tree and returns the first violation
// found, as an error of type ErrTypeInvariantViolation.
func (t *Tree[T]) Validate() error {
	active := make([]bool, len(t.nodes))
	seen := make(map[uint32]struct{}, t.count)

	var err error
	t.walk(func(id int32, n *node) bool {
		active[id] = true
		err = t.validateNode(id, n, seen)
		return err == nil
	})
	if err != nil {
		return err
	}

	for id := range t.nodes {
		if n := &t.nodes[id]; !active[id] && !n.emptyLeaf() {
			return errInvariant("dormant node is not an empty leaf", int32(id))
		}
	}

	if len(seen) != t.count {
		return errors.New("live entities are missing from the tree").
			WithType(ErrTypeInvariantViolation).
			WithTag("live", t.count).
			WithTag("reachable", len(seen))
	}
	return nil
}

func (t *Tree[T]) validateNode(id int32, n *node, seen map[uint32]struct{}) error {
	if id == rootID && n.parent != noNode {
		return errInvariant("root has a parent", id)
	}

	if !n.leaf && !n.allocated() {
		return errInvariant("internal node without children", id)
	}

	if n.allocated() {
		for i, c := range n.children {
			child := &t.nodes[c]
			if child.parent != id {
				return errInvariant("child does not link back to its parent", c)
			}
			if child.depth != n.depth+1 {
				return errInvariant("child depth does not follow its parent", c)
			}
			if child.bounds != n.bounds.Quadrant(i+1) {
				return errInvariant("child bounds are not a quadrant of its parent", c)
			}
		}
	}

	if !n.leaf {
		if len(n.splittable) != 0 {
			return errInvariant("internal node holds splittable members", id)
		}

		emptyChildren := true
		for _, c := range n.children {
			emptyChildren = emptyChildren && t.nodes[c].emptyLeaf()
		}
		if emptyChildren {
			return errInvariant("internal node with only empty leaves was not merged", id)
		}
	}

	for _, k := range [...]listKind{splittableList, unsplittableList} {
		for slot, idx := range *n.list(k) {
			if err := t.validateMember(id, n, k, slot, idx, seen); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *Tree[T]) validateMember(id int32, n *node, k listKind, slot int, idx uint32, seen map[uint32]struct{}) error {
	fail := func(msg string) error {
		return errors.New(msg).
			WithType(ErrTypeInvariantViolation).
			WithTag("node", id).
			WithTag("list", k.String()).
			WithTag("slot", slot)
	}

	if int(idx) >= len(t.members) || !t.members[idx].live {
		return fail("node references a deleted entity")
	}

	if _, ok := seen[idx]; ok {
		return fail("entity is stored more than once")
	}
	seen[idx] = struct{}{}

	m := &t.members[idx]
	if m.node != id || m.list != k || m.slot != slot {
		return fail("entity record does not point to its node")
	}

	extent := m.body.Extent()
	if !t.owns(id, extent) {
		return fail("entity is stored off its root path")
	}

	q := n.classify(extent)
	if k == splittableList && q == 0 {
		return fail("splittable entity touches a split axis")
	}
	if k == unsplittableList && q != 0 {
		return fail("unsplittable entity fits in a quadrant")
	}
	return nil
}

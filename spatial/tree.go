/*
Package spatial implements the spatial tree: a mutable region quadtree that
stores every positioned entity of a simulation and answers which entities
occupy a region and which pairs of entities overlap.

Entities that fit in a single quadrant of a node are pushed down to the
children when the node splits. Entities that straddle (or touch) a node split
axis are pinned to that node as unsplittable members. Collisions are found
with a single descent that propagates a check list of the collidable
entities whose extent reaches into each child.

Nodes live in an arena and reference each other by index. Entities are
referenced by the Handle returned by Insert.

A Tree is not safe for concurrent use.
*/
package spatial

import (
	"strconv"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
)

const (
	DefaultCapacity = 4
	DefaultMaxDepth = 16
	defaultName     = "default"
)

// OutOfBoundsPolicy decides what happens to entities whose extent is not
// contained by the world bounds.
type OutOfBoundsPolicy string

const (
	// The entity is stored as an unsplittable member of the root.
	OutOfBoundsAccept OutOfBoundsPolicy = "accept"

	// The operation fails and the tree is left unchanged.
	OutOfBoundsReject OutOfBoundsPolicy = "reject"

	// The entity is translated back inside the world bounds.
	OutOfBoundsClamp OutOfBoundsPolicy = "clamp"
)

type Options struct {
	// The tree name, used to label logs and metrics.
	Name string

	// The number of members a leaf holds before it splits. A leaf only splits
	// when one of its members fits in a quadrant.
	Capacity int

	// The depth past which leaves stop splitting. It keeps the tree finite
	// when many entities share the same position.
	MaxDepth int

	OutOfBounds OutOfBoundsPolicy
}

func (o Options) withDefaults() Options {
	if o.Name == "" {
		o.Name = defaultName
	}
	if o.Capacity == 0 {
		o.Capacity = DefaultCapacity
	}
	if o.MaxDepth == 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.OutOfBounds == "" {
		o.OutOfBounds = OutOfBoundsAccept
	}
	return o
}

func (o Options) validate() error {
	if o.Capacity < 1 {
		return errors.New("capacity must be positive").
			WithType(ErrTypeInvalidOptions).
			WithTag("capacity", o.Capacity)
	}
	if o.MaxDepth < 1 {
		return errors.New("max depth must be positive").
			WithType(ErrTypeInvalidOptions).
			WithTag("max_depth", o.MaxDepth)
	}

	switch o.OutOfBounds {
	case OutOfBoundsAccept, OutOfBoundsReject, OutOfBoundsClamp:
		return nil

	default:
		return errors.New("unknown out of bounds policy").
			WithType(ErrTypeInvalidOptions).
			WithTag("policy", o.OutOfBounds)
	}
}

// Handle identifies an entity stored in a tree. The zero Handle is never
// issued.
type Handle struct {
	index uint32
	gen   uint32
}

func (h Handle) IsZero() bool {
	return h.gen == 0
}

func (h Handle) String() string {
	return strconv.FormatUint(uint64(h.index), 10) + "." + strconv.FormatUint(uint64(h.gen), 10)
}

type listKind uint8

const (
	splittableList listKind = iota
	unsplittableList
)

func (k listKind) String() string {
	if k == unsplittableList {
		return "unsplittable"
	}
	return "splittable"
}

// member is the tree-side record of an entity. node and slot locate the
// entity in the member list of the node that directly contains it.
type member[T any] struct {
	value T
	body  Body
	node  int32
	list  listKind
	slot  int
	gen   uint32
	live  bool
}

type Tree[T any] struct {
	opts    Options
	nodes   []node
	members []member[T]
	free    []uint32
	count   int

	// Set while HandleCollisions runs.
	traversing bool

	splits          uint64
	merges          uint64
	staleReferences uint64
	outOfBounds     uint64
}

// New creates a tree covering the given world bounds. The tree starts as a
// single empty leaf.
func New[T any](bounds Bounds, opts Options) (*Tree[T], error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	if !bounds.Valid() || bounds.Width() == 0 || bounds.Height() == 0 {
		return nil, errors.New("world bounds must have a positive area").
			WithType(ErrTypeInvalidOptions).
			WithTag("bounds", bounds.String())
	}

	t := &Tree[T]{opts: opts}
	t.nodes = append(t.nodes, newNode(bounds, noNode, 0))
	return t, nil
}

func (t *Tree[T]) Bounds() Bounds {
	return t.nodes[rootID].bounds
}

func (t *Tree[T]) Options() Options {
	return t.opts
}

// Len returns the number of entities in the tree.
func (t *Tree[T]) Len() int {
	return t.count
}

// Insert places an entity in the node responsible for containing it and
// returns its handle.
func (t *Tree[T]) Insert(body Body, value T) (Handle, error) {
	if t.traversing {
		return Handle{}, errTreeBusy("insert")
	}

	body, err := t.admit(body)
	if err != nil {
		return Handle{}, err
	}

	idx := t.alloc(body, value)
	t.insertAt(rootID, idx)
	return t.handle(idx), nil
}

// Delete removes the entity identified by h.
func (t *Tree[T]) Delete(h Handle) error {
	if t.traversing {
		return errTreeBusy("delete")
	}

	idx, err := t.resolve(h)
	if err != nil {
		return err
	}

	id := t.members[idx].node
	if !t.detach(idx) {
		id = t.recoverStale(idx, "delete")
	}
	if id != noNode {
		t.afterRemove(id)
	}

	t.release(idx)
	return nil
}

// Move changes the position of the entity identified by h. A collision
// rectangle keeps its offset from the position.
func (t *Tree[T]) Move(h Handle, p Point) error {
	idx, err := t.resolve(h)
	if err != nil {
		return err
	}
	return t.Update(h, t.members[idx].body.MovedTo(p))
}

// Value returns the value stored with h.
func (t *Tree[T]) Value(h Handle) (T, bool) {
	idx, err := t.resolve(h)
	if err != nil {
		var zero T
		return zero, false
	}
	return t.members[idx].value, true
}

// Body returns the body last recorded for h.
func (t *Tree[T]) Body(h Handle) (Body, bool) {
	idx, err := t.resolve(h)
	if err != nil {
		return Body{}, false
	}
	return t.members[idx].body, true
}

// admit applies the out of bounds policy to a body about to be stored.
func (t *Tree[T]) admit(body Body) (Body, error) {
	root := t.nodes[rootID].bounds
	extent := body.Extent()
	if root.Contains(extent) {
		return body, nil
	}

	switch t.opts.OutOfBounds {
	case OutOfBoundsReject:
		return body, errOutOfWorldBounds(root, extent)

	case OutOfBoundsClamp:
		body = clamp(body, root)
		if root.Contains(body.Extent()) {
			return body, nil
		}
	}

	t.outOfBounds++
	instrumentOutOfBounds(t.opts.Name)
	logs.WithTag("tree", t.opts.Name).
		WithTag("world_bounds", root.String()).
		WithTag("extent", body.Extent().String()).
		Debug("out of bounds entity pinned to the root")
	return body, nil
}

// clamp translates body so its extent lies inside root. An extent larger than
// root is anchored to the root top-left corner on that axis.
func clamp(body Body, root Bounds) Body {
	extent := body.Extent()

	var d Point
	switch {
	case extent.Width() > root.Width() || extent.Left < root.Left:
		d.X = root.Left - extent.Left
	case extent.Right > root.Right:
		d.X = root.Right - extent.Right
	}

	switch {
	case extent.Height() > root.Height() || extent.Top < root.Top:
		d.Y = root.Top - extent.Top
	case extent.Bottom > root.Bottom:
		d.Y = root.Bottom - extent.Bottom
	}

	return body.MovedTo(body.Position.Add(d))
}

func (t *Tree[T]) alloc(body Body, value T) uint32 {
	var idx uint32
	if n := len(t.free); n != 0 {
		idx = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		t.members = append(t.members, member[T]{})
		idx = uint32(len(t.members) - 1)
	}

	m := &t.members[idx]
	m.gen++
	m.live = true
	m.value = value
	m.body = body
	m.node = noNode
	t.count++
	return idx
}

func (t *Tree[T]) release(idx uint32) {
	var zero T

	m := &t.members[idx]
	m.live = false
	m.value = zero
	m.node = noNode
	t.free = append(t.free, idx)
	t.count--
}

func (t *Tree[T]) resolve(h Handle) (uint32, error) {
	if h.IsZero() || int(h.index) >= len(t.members) {
		return 0, errUnknownHandle(h)
	}

	m := &t.members[h.index]
	if !m.live || m.gen != h.gen {
		return 0, errUnknownHandle(h)
	}
	return h.index, nil
}

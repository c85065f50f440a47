package spatial

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
)

// Update replaces the body of the entity identified by h and relocates it in
// the tree. Updating with an unchanged body is a no-op.
//
// An entity that stays within its leaf only changes list when its
// classification changes. Otherwise it is re-inserted from the closest
// ancestor responsible for its new extent, and the node it left is merged
// when it became empty.
func (t *Tree[T]) Update(h Handle, body Body) error {
	if t.traversing {
		return errTreeBusy("update")
	}

	idx, err := t.resolve(h)
	if err != nil {
		return err
	}

	body, err = t.admit(body)
	if err != nil {
		return err
	}

	m := &t.members[idx]
	if m.body == body {
		return nil
	}

	if !t.holds(idx) {
		from := t.recoverStale(idx, "update")
		m.body = body
		t.insertAt(rootID, idx)
		if from != noNode {
			t.afterRemove(from)
		}
		return nil
	}

	extent := body.Extent()
	from := m.node
	n := &t.nodes[from]

	if n.leaf && t.owns(from, extent) {
		m.body = body

		want := splittableList
		if n.classify(extent) == 0 {
			want = unsplittableList
		}
		if want == m.list {
			return nil
		}

		t.detach(idx)
		t.attach(from, idx, want)
		t.splitIfFull(from)
		return nil
	}

	t.detach(idx)
	m.body = body

	to := from
	for !t.owns(to, extent) {
		to = t.nodes[to].parent
	}

	t.insertAt(to, idx)
	t.afterRemove(from)
	return nil
}

// recoverStale finds and removes idx when its record does not match the node
// it points to. It returns the node the member was found in, or noNode when
// the member was not in the tree at all.
func (t *Tree[T]) recoverStale(idx uint32, op string) int32 {
	m := &t.members[idx]
	believed := m.node
	found := t.searchDetach(idx)

	t.staleReferences++
	instrumentStaleReference(t.opts.Name)
	logs.WithTag("tree", t.opts.Name).
		WithTag("operation", op).
		WithTag("recorded_node", believed).
		WithTag("found_node", found).
		Warn(errors.New("stale spatial reference recovered").
			WithType(ErrTypeStaleReference).
			WithTag("position", m.body.Position.String()))

	return found
}

// searchDetach removes idx from whichever node holds it. The descent by extent
// finds it in the common case; a scan of every node covers the rest.
func (t *Tree[T]) searchDetach(idx uint32) int32 {
	extent := t.members[idx].body.Extent()

	for id := rootID; ; {
		if t.removeFrom(id, idx) {
			return id
		}

		n := &t.nodes[id]
		if n.leaf {
			break
		}

		q := n.classify(extent)
		if q == 0 {
			break
		}
		id = n.children[q-1]
	}

	for id := range t.nodes {
		if t.removeFrom(int32(id), idx) {
			return int32(id)
		}
	}
	return noNode
}

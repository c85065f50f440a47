package spatial

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
)

const (
	// An entity record pointed to a node that did not contain it.
	ErrTypeStaleReference = "spatial-stale-reference"

	// An entity extent falls outside of the root bounds while the tree
	// rejects such entities.
	ErrTypeOutOfWorldBounds = "spatial-out-of-world-bounds"

	// The tree structure does not satisfy one of its invariants.
	ErrTypeInvariantViolation = "spatial-invariant-violation"

	// A handle was deleted or never issued by the tree.
	ErrTypeUnknownHandle = "spatial-unknown-handle"

	// The tree was mutated while a collision pass was running.
	ErrTypeTreeBusy = "spatial-tree-busy"

	// The tree was configured with invalid options.
	ErrTypeInvalidOptions = "spatial-invalid-options"
)

func errUnknownHandle(h Handle) error {
	return errors.New("unknown spatial handle").
		WithType(ErrTypeUnknownHandle).
		WithTag("handle", h.String())
}

func errTreeBusy(op string) error {
	return errors.New("spatial tree mutated during a collision pass").
		WithType(ErrTypeTreeBusy).
		WithTag("operation", op)
}

func errOutOfWorldBounds(root, extent Bounds) error {
	return errors.New("extent is outside of the world bounds").
		WithType(ErrTypeOutOfWorldBounds).
		WithTag("world_bounds", root.String()).
		WithTag("extent", extent.String())
}

func errInvariant(msg string, node int32) error {
	return errors.New(msg).
		WithType(ErrTypeInvariantViolation).
		WithTag("node", node)
}

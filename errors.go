// Package arbor provides a persistent, self-balancing (AVL) binary tree whose
// traversal is steered by caller-supplied directives instead of a comparator.
package arbor

import (
	"errors"
	"fmt"
)

// Lookup errors
var (
	// ErrDuplicate indicates that a directive stopped at an existing node
	// while inserting with ThrowIfFound.
	ErrDuplicate = errors.New("node already exists")

	// ErrNotFound indicates that a directive reached an empty spot where an
	// existing node was required (ReplaceOnly, Remove).
	ErrNotFound = errors.New("node not found")
)

// Argument errors
var (
	// ErrInvalidMode indicates an InsertMode outside the defined set.
	ErrInvalidMode = errors.New("invalid insert mode")
)

// Structure errors
var (
	// ErrInvariant indicates that Validate found a node whose cached size or
	// height is stale, or whose children differ in height by more than one.
	ErrInvariant = errors.New("tree invariant violated")

	// ErrContract is the error every ContractViolation unwraps to.
	ErrContract = errors.New("contract violation")
)

// ContractViolation is the panic value raised for programming errors: a
// zero direction where a side is required, a directive invoked on an empty
// subtree, or a rotation on a node missing the pivot child. These are bugs
// in the caller, not data conditions, so they are not returned as errors.
type ContractViolation struct {
	Op     string
	Reason string
}

func (v *ContractViolation) Error() string {
	return fmt.Sprintf("arbor: %s: %s", v.Op, v.Reason)
}

func (v *ContractViolation) Unwrap() error {
	return ErrContract
}

func violate(op, reason string) {
	panic(&ContractViolation{Op: op, Reason: reason})
}

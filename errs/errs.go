// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package errs defines the error taxonomy shared by every mesh-repair and
// flat-pattern operator: InvalidInput and ExceededBudget propagate to the
// caller, the rest are local-recovery signals an operator logs and swallows.
package errs

import (
	"errors"
	"fmt"
)

// Sentinel categories. Wrap one of these with fmt.Errorf("%w: ...", Sentinel)
// or construct via the New* helpers below; callers test membership with
// errors.Is.
var (
	// ErrInvalidInput marks a fatal, caller-visible defect in the input
	// arrays: length mismatches, out-of-range indices, NaN coordinates,
	// a non-unit cylindrical axis.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDegenerateGeometry marks an operator that could not proceed
	// because a required quantity (face normal, plane-intersection
	// determinant, bend radius) degenerated. Non-fatal: the operator
	// returns zero changes and the caller continues.
	ErrDegenerateGeometry = errors.New("degenerate geometry")

	// ErrTopologyFailure marks a step that required manifold input and
	// found the mesh still non-manifold. The operator falls back to its
	// configured alternative strategy.
	ErrTopologyFailure = errors.New("topology failure")

	// ErrExceededBudget marks an iteration cap or triangle-growth cap
	// reached before convergence. Fatal in the sense that it propagates,
	// but the operator's partial result is still usable.
	ErrExceededBudget = errors.New("exceeded budget")

	// ErrDisconnectedFlatPattern marks a flat pattern with more than one
	// connected component where the input semantically should unfold to
	// one sheet. Non-fatal: the output still includes every component.
	ErrDisconnectedFlatPattern = errors.New("disconnected flat pattern")
)

// OpError carries the operator name and a detail string alongside one of
// the sentinel categories above, so logs and returned errors share context.
type OpError struct {
	Op     string // operator or component name, e.g. "remove_small_islands"
	Detail string
	Err    error // one of the Err* sentinels above
}

func (e *OpError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Err, e.Detail)
}

func (e *OpError) Unwrap() error { return e.Err }

func newOp(op string, sentinel error, detail string, args ...any) *OpError {
	return &OpError{Op: op, Err: sentinel, Detail: fmt.Sprintf(detail, args...)}
}

// InvalidInput builds an OpError wrapping ErrInvalidInput.
func InvalidInput(op, detail string, args ...any) *OpError {
	return newOp(op, ErrInvalidInput, detail, args...)
}

// DegenerateGeometry builds an OpError wrapping ErrDegenerateGeometry.
func DegenerateGeometry(op, detail string, args ...any) *OpError {
	return newOp(op, ErrDegenerateGeometry, detail, args...)
}

// TopologyFailure builds an OpError wrapping ErrTopologyFailure.
func TopologyFailure(op, detail string, args ...any) *OpError {
	return newOp(op, ErrTopologyFailure, detail, args...)
}

// ExceededBudget builds an OpError wrapping ErrExceededBudget.
func ExceededBudget(op, detail string, args ...any) *OpError {
	return newOp(op, ErrExceededBudget, detail, args...)
}

// DisconnectedFlatPattern builds an OpError wrapping ErrDisconnectedFlatPattern.
func DisconnectedFlatPattern(op, detail string, args ...any) *OpError {
	return newOp(op, ErrDisconnectedFlatPattern, detail, args...)
}

// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package repair is the library of independent transformations on a
// TaggedMesh: small-island removal, opposite-face cull, tiny-triangle
// edge-flip, uniform-length remesh, tiny-triangle collapse,
// self-intersection split, degenerate removal, internal-triangle removal,
// tiny-face merge, and winding fix-up, plus a fluent Pipeline orchestrator.
// Every operator reads and writes its TaggedMesh in place and returns a
// count of changes made.
package repair

// Token is a cooperative cancellation signal. Long-running operators check
// Cancelled at the top of each outer pass and return the partially-reduced
// mesh intact (spec_full §5) rather than ignoring it.
type Token struct {
	cancelled bool
}

// NewToken returns a fresh, non-cancelled token.
func NewToken() *Token { return &Token{} }

// Cancel marks the token cancelled. Safe to call multiple times.
func (t *Token) Cancel() { t.cancelled = true }

// Cancelled reports whether Cancel has been called. A nil token is never
// cancelled, so operators may be called with token=nil when the caller has
// no need for cancellation.
func (t *Token) Cancelled() bool { return t != nil && t.cancelled }

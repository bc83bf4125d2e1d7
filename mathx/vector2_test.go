// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package mathx

import (
	"math"
	"testing"
)

func TestRigid2Identity(t *testing.T) {
	p := V2{X: 3, Y: 4}
	got := Identity().Apply(p)
	if !got.Aeq(&p) {
		t.Errorf("identity transform changed point: got %+v want %+v", got, p)
	}
}

func TestRigid2Rotation(t *testing.T) {
	r := FromAngle(math.Pi/2, 0, 0)
	got := r.Apply(V2{X: 1, Y: 0})
	want := V2{X: 0, Y: 1}
	if !got.Aeq(&want) {
		t.Errorf("rotate 90deg: got %+v want %+v", got, want)
	}
}

func TestRigid2Mirror(t *testing.T) {
	r := Rigid2{Cos: 1, Sin: 0, Mirror: true}
	got := r.Apply(V2{X: 2, Y: 3})
	want := V2{X: 2, Y: -3}
	if !got.Aeq(&want) {
		t.Errorf("mirror: got %+v want %+v", got, want)
	}
}

func TestRigid2ThenComposesSequentially(t *testing.T) {
	r := FromAngle(math.Pi/2, 1, 0)
	s := FromAngle(0, 0, 5)
	composed := r.Then(s)
	p := V2{X: 1, Y: 0}
	direct := s.Apply(r.Apply(p))
	got := composed.Apply(p)
	if !got.Aeq(&direct) {
		t.Errorf("composition mismatch: got %+v want %+v", got, direct)
	}
}

func TestV2Cross(t *testing.T) {
	x, y := V2{X: 1, Y: 0}, V2{X: 0, Y: 1}
	if got := x.Cross(&y); !Aeq(got, 1) {
		t.Errorf("cross: got %f want 1", got)
	}
}

// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package mathx

import "math"

// V2 is a 2 element vector used for flat-pattern face-local and
// global-layout coordinates. Mirrors the method shapes of V3 so the two
// types read as one library.
type V2 struct {
	X float64
	Y float64
}

// NewV2 creates a new, all zero, 2D vector.
func NewV2() *V2 { return &V2{} }

// NewV2S creates a new 2D vector using the given scalars.
func NewV2S(x, y float64) *V2 { return &V2{x, y} }

// Eq (==) returns true if each element in v equals the corresponding
// element in a.
func (v *V2) Eq(a *V2) bool { return v.X == a.X && v.Y == a.Y }

// Aeq (~=) almost-equals, element-wise.
func (v *V2) Aeq(a *V2) bool { return Aeq(v.X, a.X) && Aeq(v.Y, a.Y) }

// Set (=) copies a into v. The updated vector v is returned.
func (v *V2) Set(a *V2) *V2 {
	v.X, v.Y = a.X, a.Y
	return v
}

// SetS (=) sets the vector elements to the given values.
func (v *V2) SetS(x, y float64) *V2 {
	v.X, v.Y = x, y
	return v
}

// Add (+) adds vectors a and b storing the result in v.
func (v *V2) Add(a, b *V2) *V2 {
	v.X, v.Y = a.X+b.X, a.Y+b.Y
	return v
}

// Sub (-) subtracts b from a storing the result in v.
func (v *V2) Sub(a, b *V2) *V2 {
	v.X, v.Y = a.X-b.X, a.Y-b.Y
	return v
}

// Scale (*=) multiplies the elements of a by scalar s, storing the result in v.
func (v *V2) Scale(a *V2, s float64) *V2 {
	v.X, v.Y = a.X*s, a.Y*s
	return v
}

// Dot returns the dot product of v and a.
func (v *V2) Dot(a *V2) float64 { return v.X*a.X + v.Y*a.Y }

// Cross returns the scalar "2D cross product" (z component of the 3D cross
// product of v and a extended with z=0). Positive when a is counter-clockwise
// from v.
func (v *V2) Cross(a *V2) float64 { return v.X*a.Y - v.Y*a.X }

// Len returns the length of v.
func (v *V2) Len() float64 { return math.Sqrt(v.Dot(v)) }

// Dist returns the distance between points v and a.
func (v *V2) Dist(a *V2) float64 {
	dx, dy := a.X-v.X, a.Y-v.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Unit normalizes v in place. Unchanged if v has zero length.
func (v *V2) Unit() *V2 {
	l := v.Len()
	if l != 0 {
		v.X, v.Y = v.X/l, v.Y/l
	}
	return v
}

// Rigid2 is a 2D rigid transform: rotation by (cos,sin) followed by
// translation (Tx,Ty). It represents Placement from the data model: every
// Flat Face's local coordinates are mapped into the global layout plane by
// exactly one Rigid2, optionally preceded by a reflection (Mirror) across
// the face-local X axis.
type Rigid2 struct {
	Cos, Sin float64
	Tx, Ty   float64
	Mirror   bool // reflect the Y coordinate before rotating, when true.
}

// Identity returns the identity rigid transform.
func Identity() Rigid2 { return Rigid2{Cos: 1, Sin: 0} }

// FromAngle builds a rigid transform that rotates by angle radians (CCW)
// and then translates by (tx,ty).
func FromAngle(angle, tx, ty float64) Rigid2 {
	return Rigid2{Cos: math.Cos(angle), Sin: math.Sin(angle), Tx: tx, Ty: ty}
}

// Apply maps local point p through the rigid transform into its image.
func (r Rigid2) Apply(p V2) V2 {
	x, y := p.X, p.Y
	if r.Mirror {
		y = -y
	}
	return V2{
		X: x*r.Cos - y*r.Sin + r.Tx,
		Y: x*r.Sin + y*r.Cos + r.Ty,
	}
}

// Then composes r followed by s: applying the result to a point p is the
// same as applying r to p, then applying s to the result.
func (r Rigid2) Then(s Rigid2) Rigid2 {
	// Represent r as the affine map Mr*x + tr, s as Ms*x + ts; compose.
	rm00, rm01, rm10, rm11 := r.Cos, -r.Sin, r.Sin, r.Cos
	if r.Mirror {
		rm01, rm11 = -rm01, -rm11
	}
	sm00, sm01, sm10, sm11 := s.Cos, -s.Sin, s.Sin, s.Cos
	if s.Mirror {
		sm01, sm11 = -sm01, -sm11
	}
	// composed linear part = S * R
	c00 := sm00*rm00 + sm01*rm10
	c01 := sm00*rm01 + sm01*rm11
	c10 := sm10*rm00 + sm11*rm10
	c11 := sm10*rm01 + sm11*rm11
	// composed translation = S*tr + ts
	ctx := sm00*r.Tx + sm01*r.Ty + s.Tx
	cty := sm10*r.Tx + sm11*r.Ty + s.Ty

	// Recover an equivalent (cos,sin,mirror) representation. The linear
	// part of a rigid map (optionally reflected) is an orthogonal matrix;
	// its first column gives (cos,sin) directly, and the determinant sign
	// tells us whether a reflection is present.
	det := c00*c11 - c01*c10
	mirror := det < 0
	return Rigid2{Cos: c00, Sin: c10, Tx: ctx, Ty: cty, Mirror: mirror}
}

// Angle returns the rotation angle this transform applies, in radians.
func (r Rigid2) Angle() float64 { return math.Atan2(r.Sin, r.Cos) }

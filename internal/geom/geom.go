// Package geom holds the small amount of 3D glue the rig needs on top of mgl64:
// rate clamping, look rotations with +Z as the facing axis, XYZ Euler
// conversion and finiteness checks.
package geom

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	// Up is the world vertical axis.
	Up = mgl64.Vec3{0, 1, 0}
	// Facing is the local axis that LookRotation aligns with the look direction.
	Facing = mgl64.Vec3{0, 0, 1}
	// Lateral is the local axis the camera rail slides along.
	Lateral = mgl64.Vec3{1, 0, 0}
)

// Rate clamps an interpolation factor such as deltaTime*gain to [0, 1].
// Large frame hitches therefore snap to the target instead of overshooting it.
func Rate(alpha float64) float64 {
	if math.IsNaN(alpha) {
		return 0
	}
	return mgl64.Clamp(alpha, 0, 1)
}

// Lerp performs linear interpolation between a and b.
func Lerp(a, b, alpha float64) float64 {
	return a + (b-a)*alpha
}

// LerpVec performs component-wise linear interpolation between a and b.
func LerpVec(a, b mgl64.Vec3, alpha float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(alpha))
}

// Finite reports whether f is neither NaN nor infinite.
func Finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// FiniteVec reports whether every component of v is finite.
func FiniteVec(v mgl64.Vec3) bool {
	return Finite(v[0]) && Finite(v[1]) && Finite(v[2])
}

// FiniteQuat reports whether every component of q is finite.
func FiniteQuat(q mgl64.Quat) bool {
	return Finite(q.W) && FiniteVec(q.V)
}

// MinDirection is the shortest vector still treated as a direction.
const MinDirection = 1e-9

// LookRotation returns the orientation whose local +Z axis points along dir,
// with local +Y kept as close to up as possible.
// ok is false when dir is shorter than MinDirection or not finite; the
// identity is returned in that case.
func LookRotation(dir, up mgl64.Vec3) (q mgl64.Quat, ok bool) {
	if !FiniteVec(dir) || dir.Len() < MinDirection {
		return mgl64.QuatIdent(), false
	}
	z := dir.Normalize()
	x := up.Cross(z)
	if x.Dot(x) == 0 {
		// up and dir are parallel, nudge dir off the axis
		if math.Abs(up.Z()) == 1 {
			z[0] += 0.0001
		} else {
			z[2] += 0.0001
		}
		z = z.Normalize()
		x = up.Cross(z)
	}
	x = x.Normalize()
	y := z.Cross(x)

	m := mgl64.Mat3FromCols(x, y, z)
	return mgl64.Mat4ToQuat(m.Mat4()).Normalize(), true
}

// FacingOf returns the world direction of the local +Z axis of q.
func FacingOf(q mgl64.Quat) mgl64.Vec3 {
	return q.Rotate(Facing)
}

// EulerXYZ decomposes q into intrinsic X, Y, Z angles (radians).
// The Y angle is confined to [-pi/2, pi/2].
func EulerXYZ(q mgl64.Quat) (x, y, z float64) {
	m := q.Normalize().Mat4()
	m13 := mgl64.Clamp(m.At(0, 2), -1, 1)
	y = math.Asin(m13)
	if math.Abs(m13) < 0.9999999 {
		x = math.Atan2(-m.At(1, 2), m.At(2, 2))
		z = math.Atan2(-m.At(0, 1), m.At(0, 0))
	} else {
		x = math.Atan2(m.At(2, 1), m.At(1, 1))
		z = 0
	}
	return x, y, z
}

// QuatFromEulerXYZ builds the rotation Rx(x) * Ry(y) * Rz(z).
func QuatFromEulerXYZ(x, y, z float64) mgl64.Quat {
	qx := mgl64.QuatRotate(x, mgl64.Vec3{1, 0, 0})
	qy := mgl64.QuatRotate(y, mgl64.Vec3{0, 1, 0})
	qz := mgl64.QuatRotate(z, mgl64.Vec3{0, 0, 1})
	return qx.Mul(qy).Mul(qz).Normalize()
}

// Slerp interpolates from a toward b along the shorter arc. alpha is clamped to [0, 1].
func Slerp(a, b mgl64.Quat, alpha float64) mgl64.Quat {
	alpha = Rate(alpha)
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	switch alpha {
	case 0:
		return a
	case 1:
		return b.Normalize()
	}
	return mgl64.QuatSlerp(a, b, alpha).Normalize()
}

// ErrInvalidDelta marks a frame whose delta time is zero, negative or not finite.
var ErrInvalidDelta = errors.New("delta time must be positive and finite")

// ValidDelta reports whether dt can drive an interpolation step.
func ValidDelta(dt float64) bool {
	return dt > 0 && !math.IsInf(dt, 0)
}

// Near reports whether a and b are within tol of each other.
func Near(a, b mgl64.Vec3, tol float64) bool {
	return a.Sub(b).Len() <= tol
}

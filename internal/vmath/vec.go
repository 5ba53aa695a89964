package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type (
	Vec3 = mgl64.Vec3
	Quat = mgl64.Quat
)

var (
	Zero    = Vec3{}
	Forward = Vec3{1, 0, 0}
	Right   = Vec3{0, 1, 0}
	Up      = Vec3{0, 0, 1}
)

// SafeNormal returns the unit vector of v, or zero when v is too short to normalize.
func SafeNormal(v Vec3) Vec3 {
	sq := v.LenSqr()
	if sq < SmallNumber {
		return Vec3{}
	}
	if math.Abs(sq-1) < SmallNumber {
		return v
	}
	return v.Mul(1 / math.Sqrt(sq))
}

// ClampSize limits the magnitude of v to max.
func ClampSize(v Vec3, max float64) Vec3 {
	if max < KindaSmallNumber {
		return Vec3{}
	}
	sq := v.LenSqr()
	if sq > max*max {
		return v.Mul(max / math.Sqrt(sq))
	}
	return v
}

// ProjectOnPlane removes the component of v along the plane normal n.
func ProjectOnPlane(v, n Vec3) Vec3 {
	return v.Sub(ProjectOnto(v, n))
}

// ProjectOnto returns the component of v along dir. dir need not be unit length.
func ProjectOnto(v, dir Vec3) Vec3 {
	sq := dir.LenSqr()
	if sq < SmallNumber {
		return Vec3{}
	}
	return dir.Mul(v.Dot(dir) / sq)
}

func LerpVec(a, b Vec3, alpha float64) Vec3 {
	return a.Add(b.Sub(a).Mul(alpha))
}

func NearlyZeroVec(v Vec3, tol float64) bool {
	return math.Abs(v[0]) <= tol && math.Abs(v[1]) <= tol && math.Abs(v[2]) <= tol
}

func IsFinite(v Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// DeltaAxisAngle returns the rotation taking from onto to as a unit axis and
// an angle in [0, pi].
func DeltaAxisAngle(from, to Quat) (Vec3, float64) {
	dq := to.Mul(from.Inverse())
	if dq.W < 0 {
		dq = dq.Scale(-1)
	}
	w := Clamp(dq.W, -1, 1)
	angle := 2 * math.Acos(w)
	s := math.Sqrt(1 - w*w)
	if s < KindaSmallNumber {
		return Forward, angle
	}
	return dq.V.Mul(1 / s), angle
}

// QuatLerp blends two rotations along the shortest arc and renormalizes.
func QuatLerp(a, b Quat, alpha float64) Quat {
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	q := a.Scale(1 - alpha).Add(b.Scale(alpha))
	if q.Len() < SmallNumber {
		return a
	}
	return q.Normalize()
}

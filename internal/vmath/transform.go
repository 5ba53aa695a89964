package vmath

import "github.com/go-gl/mathgl/mgl64"

type Transform struct {
	Location Vec3
	Rotation Quat
}

func Identity() Transform {
	return Transform{Rotation: mgl64.QuatIdent()}
}

func NewTransform(loc Vec3, rot Quat) Transform {
	return Transform{Location: loc, Rotation: rot}
}

func (t Transform) TransformPosition(p Vec3) Vec3 {
	return t.Rotation.Rotate(p).Add(t.Location)
}

func (t Transform) InverseTransformPosition(p Vec3) Vec3 {
	return t.Rotation.Inverse().Rotate(p.Sub(t.Location))
}

func (t Transform) TransformVector(v Vec3) Vec3 {
	return t.Rotation.Rotate(v)
}

func (t Transform) InverseTransformVector(v Vec3) Vec3 {
	return t.Rotation.Inverse().Rotate(v)
}

// Compose returns the transform of local expressed in t's parent space.
func (t Transform) Compose(local Transform) Transform {
	return Transform{
		Location: t.TransformPosition(local.Location),
		Rotation: t.Rotation.Mul(local.Rotation),
	}
}

func (t Transform) Forward() Vec3 { return t.Rotation.Rotate(Forward) }
func (t Transform) Right() Vec3   { return t.Rotation.Rotate(Right) }
func (t Transform) Up() Vec3      { return t.Rotation.Rotate(Up) }

// Rotator is an orientation in degrees: yaw about Z, pitch about Y, roll about X.
type Rotator struct {
	Pitch float64 `yaml:"pitch"`
	Yaw   float64 `yaml:"yaw"`
	Roll  float64 `yaml:"roll"`
}

func (r Rotator) Quat() Quat {
	yaw := mgl64.QuatRotate(Rad(r.Yaw), Up)
	pitch := mgl64.QuatRotate(Rad(r.Pitch), Right)
	roll := mgl64.QuatRotate(Rad(r.Roll), Forward)
	return yaw.Mul(pitch).Mul(roll)
}

func (r Rotator) IsZero() bool {
	return r.Pitch == 0 && r.Yaw == 0 && r.Roll == 0
}

// YawQuat is a rotation of deg degrees about Up.
func YawQuat(deg float64) Quat {
	return mgl64.QuatRotate(Rad(deg), Up)
}

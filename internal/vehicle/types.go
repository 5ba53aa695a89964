package vehicle

import (
	"github.com/san-kum/trackdyn/internal/config"
	"github.com/san-kum/trackdyn/internal/dynamo"
	"github.com/san-kum/trackdyn/internal/vmath"
)

// Role selects how much of the pipeline a tick runs.
type Role uint8

const (
	// RoleAuthoritative runs the full simulation and applies forces.
	RoleAuthoritative Role = iota
	// RolePredicted traces suspension for visuals and finishes pending
	// body corrections, but applies no forces.
	RolePredicted
	// RoleCosmeticOnly animates wheels from the last cosmetic snapshot.
	RoleCosmeticOnly
)

func (r Role) String() string {
	switch r {
	case RoleAuthoritative:
		return "authoritative"
	case RolePredicted:
		return "predicted"
	case RoleCosmeticOnly:
		return "cosmetic"
	}
	return "unknown"
}

// WheelState is the mutable state of one suspension mount.
type WheelState struct {
	Config config.WheelConfig

	// SteerYaw overrides the mount yaw in degrees for steering wheels.
	SteerYaw float64

	PreviousLength float64
	VisualLength   float64
	Grounded       bool
	ContactPoint   vmath.Vec3
	ContactNormal  vmath.Vec3
	Force          vmath.Vec3
	Load           float64
	Surface        dynamo.Surface

	prevContactVelocity vmath.Vec3

	RotationAngle float64
	SteeringAngle float64
}

// MountRotation is the current mount orientation in body space.
func (w *WheelState) MountRotation() vmath.Quat {
	r := w.Config.Rotation
	if w.Config.SteeringWheel {
		r.Yaw = w.SteerYaw
	}
	return r.Quat()
}

// TrackState is one lateral drive group.
type TrackState struct {
	Input          float64
	TorqueTransfer float64

	// AngularSpeed is rad/s at the sprocket.
	AngularSpeed          float64
	EffectiveAngularSpeed float64
	LinearSpeed           float64

	DriveTorque           float64
	KineticFrictionTorque float64
	RollingFrictionTorque float64
	Torque                float64

	BrakeRatio float64
	DriveForce vmath.Vec3

	// Kinetic is set when any wheel on this side slid on the last friction pass.
	Kinetic bool
}

// GearEvent is delivered to a GearListener when a shift is armed or applied.
type GearEvent struct {
	From    int     `json:"from"`
	To      int     `json:"to"`
	Up      bool    `json:"up"`
	Pending bool    `json:"pending"`
	Time    float64 `json:"t"`
}

type GearListener func(GearEvent)

// BodyState is an authoritative rigid body snapshot used for corrections.
// Angular velocity is world space, rad/s.
type BodyState struct {
	Position        vmath.Vec3
	Rotation        vmath.Quat
	LinearVelocity  vmath.Vec3
	AngularVelocity vmath.Vec3
	Sleeping        bool
	NeedsUpdate     bool
}

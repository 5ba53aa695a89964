package vehicle

import (
	"github.com/san-kum/trackdyn/internal/dynamo"
	"github.com/san-kum/trackdyn/internal/vmath"
)

type WheelView struct {
	Name          string
	VisualLength  float64
	RotationAngle float64
	SteeringAngle float64
	Grounded      bool
	Surface       dynamo.Surface
	ContactPoint  vmath.Vec3
	ContactNormal vmath.Vec3
	Load          float64
}

type TrackView struct {
	AngularSpeed float64
	LinearSpeed  float64
	BrakeRatio   float64
	DriveTorque  float64
}

// View is a value copy of everything a renderer or recorder reads. It holds
// no references into the Movement.
type View struct {
	Time         float64
	Wheels       []WheelView
	Left, Right  TrackView
	Gear         int
	Reverse      bool
	Shifting     bool
	RPM          float64
	Throttle     float64
	Steering     float64
	ForwardSpeed float64
	Sleeping     bool
	Sound        SoundParams
}

func (m *Movement) View() View {
	v := View{
		Time:         m.now,
		Wheels:       make([]WheelView, len(m.wheels)),
		Left:         trackView(m.left),
		Right:        trackView(m.right),
		Gear:         m.gearbox.Current(),
		Reverse:      m.gearbox.Reverse(),
		Shifting:     m.gearbox.Pending(),
		RPM:          m.rpm,
		Throttle:     m.throttle,
		Steering:     m.steering,
		ForwardSpeed: m.ForwardSpeed(),
		Sleeping:     m.sleeping,
		Sound:        m.sound,
	}
	for i, w := range m.wheels {
		v.Wheels[i] = WheelView{
			Name:          w.Config.Name,
			VisualLength:  w.VisualLength,
			RotationAngle: w.RotationAngle,
			SteeringAngle: w.SteeringAngle,
			Grounded:      w.Grounded,
			Surface:       w.Surface,
			ContactPoint:  w.ContactPoint,
			ContactNormal: w.ContactNormal,
			Load:          w.Load,
		}
	}
	return v
}

func trackView(t TrackState) TrackView {
	return TrackView{
		AngularSpeed: t.AngularSpeed,
		LinearSpeed:  t.LinearSpeed,
		BrakeRatio:   t.BrakeRatio,
		DriveTorque:  t.DriveTorque,
	}
}

// MeanSuspensionLength averages the visual length over all wheels.
func (v View) MeanSuspensionLength() float64 {
	if len(v.Wheels) == 0 {
		return 0
	}
	sum := 0.0
	for _, w := range v.Wheels {
		sum += w.VisualLength
	}
	return sum / float64(len(v.Wheels))
}

func (v View) GroundedCount() int {
	n := 0
	for _, w := range v.Wheels {
		if w.Grounded {
			n++
		}
	}
	return n
}

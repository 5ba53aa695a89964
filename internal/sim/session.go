package sim

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/trackdyn/internal/config"
	"github.com/san-kum/trackdyn/internal/control"
	"github.com/san-kum/trackdyn/internal/dynamo"
	"github.com/san-kum/trackdyn/internal/vehicle"
	"github.com/san-kum/trackdyn/internal/vmath"
	"github.com/san-kum/trackdyn/internal/world"
)

// restCompression is the share of suspension length a spawned vehicle
// starts compressed by.
const restCompression = 0.8

// Session is one built scenario advanced tick by tick.
type Session struct {
	World   *world.World
	Body    *world.Body
	Vehicle *vehicle.Movement

	scenario Scenario
	shifts   []vehicle.GearEvent
	t        float64
	step     int
}

// SpawnHeight is the hull height above the ground at which every wheel of
// cfg touches it.
func SpawnHeight(cfg *config.Vehicle) float64 {
	h := 0.0
	for i := range cfg.Suspension.Wheels {
		w := cfg.Wheel(i)
		h = math.Max(h, -w.Location.Z()+w.CollisionRadius+restCompression*w.Length)
	}
	return h
}

// Open builds the world, body and vehicle for sc.
func (s *Simulator) Open(sc Scenario) (*Session, error) {
	if sc.Vehicle == nil {
		return nil, fmt.Errorf("%w: scenario %q has no vehicle", dynamo.ErrInvalidConfig, sc.Name)
	}
	ss := &Session{World: world.New(sc.Ground), scenario: sc}

	cfg := sc.Vehicle
	ss.Body = ss.World.Spawn(cfg.Body.Mass, cfg.Body.HalfExtent, cfg.Body.COMOffset, vmath.Vec3{})
	ss.Body.SetDamping(cfg.Body.LinearDamping, cfg.Body.AngularDamping)
	ss.place()

	opts := append([]vehicle.Option{
		vehicle.WithLogger(s.log),
		vehicle.WithGearListener(func(ev vehicle.GearEvent) { ss.shifts = append(ss.shifts, ev) }),
	}, s.vehicleOpts...)

	m, err := vehicle.New(cfg, ss.Body, ss.World, opts...)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
	}
	names := make([]string, 0, len(sc.Params))
	for name := range sc.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := m.SetParam(name, sc.Params[name]); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
	}
	ss.Vehicle = m
	return ss, nil
}

func (ss *Session) place() {
	sc := ss.scenario
	x, y := sc.Start.X(), sc.Start.Y()
	z := ss.World.Ground.HeightAt(x, y) + SpawnHeight(sc.Vehicle)
	ss.Body.SetTransform(vmath.NewTransform(vmath.Vec3{x, y, z}, vmath.YawQuat(sc.Yaw)))
	ss.Body.SetLinearVelocity(vmath.Vec3{})
	ss.Body.SetAngularVelocity(vmath.Vec3{})
	ss.Body.WakeUp()
}

// Time is the simulated time since the session opened.
func (ss *Session) Time() float64 { return ss.t }

// Steps is the number of ticks taken.
func (ss *Session) Steps() int { return ss.step }

// Shifts returns the gear events seen so far.
func (ss *Session) Shifts() []vehicle.GearEvent {
	return append([]vehicle.GearEvent(nil), ss.shifts...)
}

// Step drives, ticks the vehicle and integrates the world by dt. The
// returned error, if any, is a *dynamo.TickError.
func (ss *Session) Step(dt float64, validate bool) (Sample, error) {
	sc := ss.scenario
	m := ss.Vehicle
	if sc.Driver != nil && ss.t >= sc.Settle {
		sc.Driver.Compute(control.StatusOf(m), ss.t-sc.Settle).Apply(m)
	}

	m.Tick(dt, vehicle.RoleAuthoritative)
	ss.World.Step(dt)
	ss.t += dt
	ss.step++

	sample := SampleOf(m)
	if validate && !sample.IsValid() {
		return sample, &dynamo.TickError{Step: ss.step - 1, Time: ss.t, Wrapped: dynamo.ErrInvalidState}
	}
	return sample, nil
}

// Reset puts the body back at the spawn point and clears the vehicle.
func (ss *Session) Reset() {
	ss.place()
	ss.Vehicle.Reset()
	ss.shifts = nil
}

package vehicle

import (
	"github.com/stretchr/testify/require"

	"github.com/san-kum/trackdyn/internal/config"
	"github.com/san-kum/trackdyn/internal/vmath"
	"github.com/san-kum/trackdyn/internal/world"
)

const testDt = 1.0 / 60

// recordingBody counts the forces the vehicle pushes into the hull.
type recordingBody struct {
	*world.Body
	forceCalls int
	total      vmath.Vec3
}

func (b *recordingBody) AddForceAtLocation(f, p vmath.Vec3) {
	b.forceCalls++
	b.total = b.total.Add(f)
	b.Body.AddForceAtLocation(f, p)
}

func (b *recordingBody) AddForce(f vmath.Vec3) {
	b.forceCalls++
	b.total = b.total.Add(f)
	b.Body.AddForce(f)
}

func (b *recordingBody) clear() {
	b.forceCalls = 0
	b.total = vmath.Vec3{}
}

// restHeight places the hull so every wheel touches flat ground with a
// little compression.
func restHeight(cfg *config.Vehicle) float64 {
	w := cfg.Wheel(0)
	return -w.Location.Z() + w.CollisionRadius + 0.8*w.Length
}

// testingT is satisfied by *testing.T and GinkgoT.
type testingT interface {
	require.TestingT
	Helper()
}

func newTestVehicle(t testingT, cfg *config.Vehicle, opts ...Option) (*Movement, *recordingBody, *world.World) {
	t.Helper()
	w := world.New(nil)
	inner := w.Spawn(cfg.Body.Mass, cfg.Body.HalfExtent, cfg.Body.COMOffset, vmath.Vec3{0, 0, restHeight(cfg)})
	inner.SetDamping(cfg.Body.LinearDamping, cfg.Body.AngularDamping)
	body := &recordingBody{Body: inner}

	m, err := New(cfg, body, w, opts...)
	require.NoError(t, err)
	return m, body, w
}

// run ticks the vehicle and the world together.
func run(m *Movement, w *world.World, seconds float64) {
	n := int(seconds / testDt)
	for i := 0; i < n; i++ {
		m.Tick(testDt, RoleAuthoritative)
		w.Step(testDt)
	}
}

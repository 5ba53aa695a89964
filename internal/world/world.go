package world

import (
	"sync"

	"github.com/san-kum/trackdyn/internal/dynamo"
	"github.com/san-kum/trackdyn/internal/vmath"
)

// DefaultGravityZ is standard gravity in cm/s².
const DefaultGravityZ = -980.0

var _ dynamo.Caster = (*World)(nil)

// World owns a ground and the bodies it steps. Casts only read the ground
// and are safe to call concurrently.
type World struct {
	Ground   *Ground
	gravityZ float64

	mu     sync.Mutex
	bodies []*Body
}

func New(g *Ground) *World {
	if g == nil {
		g = Flat()
	}
	return &World{Ground: g, gravityZ: DefaultGravityZ}
}

func (w *World) GravityZ() float64 { return w.gravityZ }

func (w *World) SetGravityZ(g float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.gravityZ = g
	for _, b := range w.bodies {
		b.SetGravityZ(g)
	}
}

func (w *World) Cast(q dynamo.CastQuery) []dynamo.Hit {
	return w.Ground.Cast(q)
}

// Spawn adds a box body at loc with identity rotation.
func (w *World) Spawn(mass float64, halfExtent, com, loc vmath.Vec3) *Body {
	b := NewBox(mass, halfExtent, com)
	b.SetGravityZ(w.gravityZ)
	b.SetTransform(vmath.NewTransform(loc, vmath.Identity().Rotation))

	w.mu.Lock()
	w.bodies = append(w.bodies, b)
	w.mu.Unlock()
	return b
}

// Step integrates every body by dt.
func (w *World) Step(dt float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, b := range w.bodies {
		b.Integrate(dt)
	}
}

func (w *World) Bodies() []*Body {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]*Body(nil), w.bodies...)
}

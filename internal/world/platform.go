package world

import (
	"sync"

	"github.com/san-kum/trackdyn/internal/dynamo"
	"github.com/san-kum/trackdyn/internal/vmath"
)

var _ dynamo.Contact = (*Platform)(nil)

// Platform is a ground object that records the reactions pushed into it,
// such as a weigh bridge or a movable deck.
type Platform struct {
	simulating bool

	mu      sync.Mutex
	force   vmath.Vec3
	impulse vmath.Vec3
	hits    int
}

func NewPlatform(simulating bool) *Platform {
	return &Platform{simulating: simulating}
}

func (p *Platform) Simulating() bool { return p.simulating }

func (p *Platform) AddForceAtLocation(f, _ vmath.Vec3) {
	p.mu.Lock()
	p.force = p.force.Add(f)
	p.mu.Unlock()
}

func (p *Platform) NotifyHit(_, _, impulse vmath.Vec3) {
	p.mu.Lock()
	p.impulse = p.impulse.Add(impulse)
	p.hits++
	p.mu.Unlock()
}

// Load returns the accumulated force, impulse and hit count, and clears them.
func (p *Platform) Load() (force, impulse vmath.Vec3, hits int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	force, impulse, hits = p.force, p.impulse, p.hits
	p.force, p.impulse, p.hits = vmath.Vec3{}, vmath.Vec3{}, 0
	return force, impulse, hits
}

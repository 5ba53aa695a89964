package vehicle

import (
	"math"

	"github.com/san-kum/trackdyn/internal/config"
	"github.com/san-kum/trackdyn/internal/dynamo"
	"github.com/san-kum/trackdyn/internal/vmath"
)

// Gearbox is the gear selection state machine. Gears below the neutral index
// are reverse gears; upshifting in reverse moves toward index 0.
//
// A delayed upshift is an explicit countdown advanced by Advance, so a
// Reset cancels it without any callback left behind.
type Gearbox struct {
	gears      []config.Gear
	neutral    int
	hasNeutral bool
	current    int
	reverse    bool

	autoLatency  float64
	shiftLatency float64

	pending   bool
	pendingUp bool
	timer     float64
	lastShift float64

	listener GearListener
}

func NewGearbox(cfg config.GearboxConfig) (*Gearbox, error) {
	if len(cfg.Gears) == 0 {
		return nil, dynamo.ErrNoGears
	}
	g := &Gearbox{
		gears:        append([]config.Gear(nil), cfg.Gears...),
		autoLatency:  cfg.AutoBoxLatency,
		shiftLatency: cfg.ShiftLatency,
	}
	for i, gear := range g.gears {
		if vmath.NearlyZero(gear.Ratio, vmath.SmallNumber) {
			g.neutral = i
			g.hasNeutral = true
			break
		}
	}
	g.current = g.neutral
	return g, nil
}

func (g *Gearbox) Len() int { return len(g.gears) }
func (g *Gearbox) Neutral() int { return g.neutral }
func (g *Gearbox) HasNeutral() bool { return g.hasNeutral }
func (g *Gearbox) Current() int { return g.current }
func (g *Gearbox) Last() int { return len(g.gears) - 1 }
func (g *Gearbox) Reverse() bool { return g.reverse }
func (g *Gearbox) Pending() bool { return g.pending }
func (g *Gearbox) Remaining() float64 { return g.timer }
func (g *Gearbox) LastShift() float64 { return g.lastShift }

// Gear returns gear i with its ratio scaled by the boost multiplier.
// An out of range index yields the zero gear.
func (g *Gearbox) Gear(i int, boost float64) config.Gear {
	if i < 0 || i >= len(g.gears) {
		return config.Gear{}
	}
	gear := g.gears[i]
	if boost != 0 {
		gear.Ratio = gear.Ratio / math.Sqrt(math.Abs(boost)) * vmath.Sign(boost)
	}
	return gear
}

func (g *Gearbox) CurrentGear(boost float64) config.Gear {
	return g.Gear(g.current, boost)
}

// Shift requests a gear change. Upshifts above neutral are deferred by the
// shift latency when one is configured; everything else applies at once.
// Requests made while a shift is pending are dropped. It reports whether the
// shift was deferred.
func (g *Gearbox) Shift(up bool, rawThrottle, now, boost float64) bool {
	if g.pending {
		return false
	}
	if g.shiftLatency != 0 && up && g.current > g.neutral {
		g.pending = true
		g.pendingUp = up
		g.timer = g.shiftLatency / math.Sqrt(math.Max(boost, vmath.SmallNumber))
		g.emit(GearEvent{From: g.current, To: g.current, Up: up, Pending: true, Time: now})
		return true
	}
	g.apply(up, rawThrottle, now)
	return false
}

// Advance counts down a deferred shift and applies it once the timer runs out.
func (g *Gearbox) Advance(dt, rawThrottle, now float64) {
	if !g.pending {
		return
	}
	g.timer -= dt
	if g.timer > 0 {
		return
	}
	g.pending = false
	g.timer = 0
	g.apply(g.pendingUp, rawThrottle, now)
}

// Reset cancels any deferred shift and returns to neutral.
func (g *Gearbox) Reset() {
	g.pending = false
	g.timer = 0
	g.current = g.neutral
	g.reverse = false
	g.lastShift = 0
}

func (g *Gearbox) apply(up bool, rawThrottle, now float64) {
	prev := g.current
	if up {
		g.current++
	} else {
		g.current--
	}
	g.current = min(max(g.current, 0), len(g.gears)-1)

	// keep the gear on the side of neutral that matches the input
	if !vmath.NearlyZero(rawThrottle, vmath.SmallNumber) {
		g.reverse = rawThrottle < 0
		if g.reverse {
			g.current = max(0, min(g.current, g.neutral-1))
		} else {
			g.current = max(g.current, g.neutral)
		}
	} else {
		if prev >= g.neutral {
			g.current = max(g.current, g.neutral)
		} else {
			g.current = min(g.current, g.neutral)
		}
		g.reverse = g.current < g.neutral
	}

	g.lastShift = now
	if g.current != prev {
		g.emit(GearEvent{From: prev, To: g.current, Up: up, Time: now})
	}
}

func (g *Gearbox) emit(ev GearEvent) {
	if g.listener != nil {
		g.listener(ev)
	}
}

// ShiftGear is the manual shift entry point.
func (m *Movement) ShiftGear(up bool) {
	m.gearbox.Shift(up, m.rawThrottle, m.now, m.boost)
}

func (m *Movement) updateGearBox() {
	gb := m.gearbox
	if gb.pending || !m.cfg.Gearbox.AutoGear {
		return
	}

	hasThrottle := !vmath.NearlyZero(m.rawThrottle, vmath.SmallNumber)
	hasSteering := !vmath.NearlyZero(m.steering, vmath.SmallNumber)

	if gb.current == gb.neutral && (hasThrottle || (!m.cfg.Body.Wheeled && hasSteering)) {
		m.ShiftGear(m.rawThrottle >= 0)
	}

	movingForward := m.body.Transform().Forward().Dot(m.body.LinearVelocity()) >= 0
	appropriate := (m.rawThrottle <= 0) == gb.reverse

	if hasThrottle && !appropriate {
		m.ShiftGear(!movingForward)
	} else if m.now-gb.lastShift > gb.autoLatency {
		ratio := 0.0
		if span := m.maxRPM - m.minRPM; span > vmath.SmallNumber {
			ratio = (m.rpm - m.minRPM) / span
		}
		gear := gb.CurrentGear(m.boost)
		if ratio >= gear.UpRatio && gb.current != gb.Last() && gb.current != 0 {
			m.ShiftGear(!gb.reverse)
		} else if ratio <= gear.DownRatio && gb.current-1 != gb.neutral && gb.current+1 != gb.neutral {
			m.ShiftGear(gb.reverse)
		}
	}

	if m.cfg.Body.Wheeled {
		m.engineLoad = (!gb.reverse && m.rawThrottle > 0) || (gb.reverse && m.rawThrottle < 0)
	}
}

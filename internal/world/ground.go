package world

import (
	"math"

	"github.com/san-kum/trackdyn/internal/dynamo"
	"github.com/san-kum/trackdyn/internal/vmath"
)

const (
	castSamples    = 48
	castRefineIter = 24
)

// Bump is a raised cosine hill centred at (X, Y).
type Bump struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Radius float64 `yaml:"radius"`
	Height float64 `yaml:"height"`
}

func (b Bump) at(x, y float64) float64 {
	if b.Radius <= 0 {
		return 0
	}
	d := math.Hypot(x-b.X, y-b.Y)
	if d >= b.Radius {
		return 0
	}
	return b.Height * 0.5 * (1 + math.Cos(math.Pi*d/b.Radius))
}

// Ground is a height field made of a plane with optional slope and bumps.
type Ground struct {
	Height float64 `yaml:"height"`
	// SlopeX and SlopeY are rise over run along each axis.
	SlopeX  float64        `yaml:"slope_x"`
	SlopeY  float64        `yaml:"slope_y"`
	Bumps   []Bump         `yaml:"bumps"`
	Surface dynamo.Surface `yaml:"surface"`

	// Component, when set, is reported on every hit.
	Component dynamo.Contact `yaml:"-"`
}

func Flat() *Ground { return &Ground{Surface: dynamo.SurfaceDirt} }

// HeightAt returns the ground height under (x, y).
func (g *Ground) HeightAt(x, y float64) float64 {
	h := g.Height + g.SlopeX*x + g.SlopeY*y
	for _, b := range g.Bumps {
		h += b.at(x, y)
	}
	return h
}

// NormalAt is the unit surface normal under (x, y), by central differences.
func (g *Ground) NormalAt(x, y float64) vmath.Vec3 {
	const e = 0.5
	dx := (g.HeightAt(x+e, y) - g.HeightAt(x-e, y)) / (2 * e)
	dy := (g.HeightAt(x, y+e) - g.HeightAt(x, y-e)) / (2 * e)
	return vmath.Vec3{-dx, -dy, 1}.Normalize()
}

// clearance approximates the distance from p to the surface along the local
// normal, negative below ground.
func (g *Ground) clearance(p vmath.Vec3) (float64, vmath.Vec3) {
	n := g.NormalAt(p.X(), p.Y())
	return (p.Z() - g.HeightAt(p.X(), p.Y())) * n.Z(), n
}

// Cast sweeps a sphere (or a ray) from q.Start to q.End and returns at most
// one blocking hit.
func (g *Ground) Cast(q dynamo.CastQuery) []dynamo.Hit {
	radius := q.Radius
	if q.Line {
		radius = 0
	}
	seg := q.End.Sub(q.Start)
	length := seg.Len()

	f := func(t float64) float64 {
		c, _ := g.clearance(q.Start.Add(seg.Mul(t)))
		return c - radius
	}

	if c, n := g.clearance(q.Start); c-radius <= 0 {
		return []dynamo.Hit{{
			Location:         q.Start,
			ImpactPoint:      q.Start.Sub(n.Mul(c)),
			ImpactNormal:     n,
			Distance:         0,
			Blocking:         true,
			Penetrating:      true,
			PenetrationDepth: radius - c,
			Surface:          g.Surface,
			Component:        g.Component,
		}}
	}
	if length < vmath.SmallNumber {
		return nil
	}

	prev := 0.0
	for i := 1; i <= castSamples; i++ {
		t := float64(i) / castSamples
		if f(t) > 0 {
			prev = t
			continue
		}
		lo, hi := prev, t
		for j := 0; j < castRefineIter; j++ {
			mid := (lo + hi) / 2
			if f(mid) > 0 {
				lo = mid
			} else {
				hi = mid
			}
		}
		loc := q.Start.Add(seg.Mul(hi))
		_, n := g.clearance(loc)
		return []dynamo.Hit{{
			Location:     loc,
			ImpactPoint:  loc.Sub(n.Mul(radius)),
			ImpactNormal: n,
			Distance:     hi * length,
			Blocking:     true,
			Surface:      g.Surface,
			Component:    g.Component,
		}}
	}
	return nil
}

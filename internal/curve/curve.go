// Package curve implements the piecewise linear float curves used by
// vehicle assets (torque, max speed, steering and brake-rate curves).
package curve

import (
	"fmt"
	"math"
	"sort"

	"gopkg.in/yaml.v3"
)

type Key struct {
	Time  float64
	Value float64
}

// Curve is evaluated by linear interpolation between keys and clamps
// outside the key domain.
type Curve struct {
	Keys []Key
}

func New(keys ...Key) Curve {
	c := Curve{Keys: append([]Key(nil), keys...)}
	c.normalize()
	return c
}

// Points builds a curve from alternating time/value pairs.
func Points(tv ...float64) Curve {
	keys := make([]Key, 0, len(tv)/2)
	for i := 0; i+1 < len(tv); i += 2 {
		keys = append(keys, Key{Time: tv[i], Value: tv[i+1]})
	}
	return New(keys...)
}

func (c *Curve) normalize() {
	sort.SliceStable(c.Keys, func(i, j int) bool { return c.Keys[i].Time < c.Keys[j].Time })
	out := c.Keys[:0]
	for _, k := range c.Keys {
		if n := len(out); n > 0 && out[n-1].Time == k.Time {
			out[n-1] = k
			continue
		}
		out = append(out, k)
	}
	c.Keys = out
}

func (c Curve) Empty() bool { return len(c.Keys) == 0 }

func (c Curve) Eval(t float64) float64 {
	n := len(c.Keys)
	if n == 0 {
		return 0
	}
	if t <= c.Keys[0].Time || math.IsNaN(t) {
		return c.Keys[0].Value
	}
	if t >= c.Keys[n-1].Time {
		return c.Keys[n-1].Value
	}
	i := sort.Search(n, func(i int) bool { return c.Keys[i].Time > t })
	a, b := c.Keys[i-1], c.Keys[i]
	alpha := (t - a.Time) / (b.Time - a.Time)
	return a.Value + (b.Value-a.Value)*alpha
}

func (c Curve) TimeRange() (float64, float64) {
	if len(c.Keys) == 0 {
		return 0, 0
	}
	return c.Keys[0].Time, c.Keys[len(c.Keys)-1].Time
}

func (c Curve) ValueRange() (float64, float64) {
	if len(c.Keys) == 0 {
		return 0, 0
	}
	lo, hi := c.Keys[0].Value, c.Keys[0].Value
	for _, k := range c.Keys[1:] {
		lo = min(lo, k.Value)
		hi = max(hi, k.Value)
	}
	return lo, hi
}

func (c Curve) MarshalYAML() (interface{}, error) {
	out := make([][2]float64, len(c.Keys))
	for i, k := range c.Keys {
		out[i] = [2]float64{k.Time, k.Value}
	}
	return out, nil
}

func (c *Curve) UnmarshalYAML(node *yaml.Node) error {
	var pairs [][]float64
	if err := node.Decode(&pairs); err != nil {
		return err
	}
	keys := make([]Key, 0, len(pairs))
	for i, p := range pairs {
		if len(p) != 2 {
			return fmt.Errorf("curve: key %d: want [time, value], got %d values", i, len(p))
		}
		keys = append(keys, Key{Time: p[0], Value: p[1]})
	}
	*c = New(keys...)
	return nil
}

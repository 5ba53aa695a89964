package control

import (
	"fmt"

	"github.com/san-kum/trackdyn/internal/dynamo"
	"github.com/san-kum/trackdyn/internal/vmath"
)

// PID accumulates the error sum inside [ErrMin, ErrMax] and takes the
// derivative term from the change in position rather than in error.
type PID struct {
	Kp     float64 `yaml:"kp"`
	Ki     float64 `yaml:"ki"`
	Kd     float64 `yaml:"kd"`
	ErrMin float64 `yaml:"err_min"`
	ErrMax float64 `yaml:"err_max"`

	errSum  float64
	lastPos float64
}

func NewPID(kp, ki, kd, errMin, errMax float64) *PID {
	return &PID{Kp: kp, Ki: ki, Kd: kd, ErrMin: errMin, ErrMax: errMax}
}

// Step returns the controller output for the current error and position.
func (p *PID) Step(err, pos float64) float64 {
	p.errSum = vmath.Clamp(err+p.errSum, p.ErrMin, p.ErrMax)
	out := err*p.Kp + p.errSum*p.Ki + p.Kd*(p.lastPos-pos)
	p.lastPos = pos
	return out
}

// ErrorSum is the clamped integral term.
func (p *PID) ErrorSum() float64 { return p.errSum }

// Reset clears integral and derivative state
func (p *PID) Reset() {
	p.errSum = 0
	p.lastPos = 0
}

// GetParams returns tunable parameters for live adjustment
func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"kp":      p.Kp,
		"ki":      p.Ki,
		"kd":      p.Kd,
		"err_min": p.ErrMin,
		"err_max": p.ErrMax,
	}
}

// SetParam adjusts a PID parameter
func (p *PID) SetParam(name string, value float64) error {
	switch name {
	case "kp":
		p.Kp = value
	case "ki":
		p.Ki = value
	case "kd":
		p.Kd = value
	case "err_min":
		p.ErrMin = value
	case "err_max":
		p.ErrMax = value
	default:
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownParam, name)
	}
	return nil
}

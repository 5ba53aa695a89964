package vmath

import "math"

const (
	SmallNumber      = 1e-8
	KindaSmallNumber = 1e-4
)

func NearlyZero(x, tol float64) bool {
	return math.Abs(x) <= tol
}

func NearlyEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// Sign returns -1, 0 or 1.
func Sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func Lerp(a, b, alpha float64) float64 {
	return a + (b-a)*alpha
}

// InterpTo moves current toward target proportionally to the remaining distance.
func InterpTo(current, target, dt, speed float64) float64 {
	if speed <= 0 {
		return target
	}
	dist := target - current
	if dist*dist < SmallNumber {
		return target
	}
	return current + dist*Clamp(dt*speed, 0, 1)
}

// InterpConstantTo moves current toward target at a fixed rate per second.
func InterpConstantTo(current, target, dt, speed float64) float64 {
	dist := target - current
	if dist*dist < SmallNumber {
		return target
	}
	step := speed * dt
	return current + Clamp(dist, -step, step)
}

func RoundHalfFromZero(x float64) float64 {
	if x < 0 {
		return -math.Floor(-x + 0.5)
	}
	return math.Floor(x + 0.5)
}

// NormalizeAxis wraps degrees into [-180, 180].
func NormalizeAxis(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg > 180 {
		deg -= 360
	} else if deg < -180 {
		deg += 360
	}
	return deg
}

func Deg(rad float64) float64 { return rad * 180 / math.Pi }

func Rad(deg float64) float64 { return deg * math.Pi / 180 }

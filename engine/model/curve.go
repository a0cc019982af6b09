package model

import (
	"sort"
)

// Interpolation selects how a Curve blends between neighbouring keys.
type Interpolation int

const (
	// InterpolationLinear blends linearly between keys.
	InterpolationLinear Interpolation = iota
	// InterpolationStep holds the previous key's value until the next key.
	InterpolationStep
	// InterpolationCubicSpline evaluates a cubic Hermite segment using the keys' tangents.
	InterpolationCubicSpline
)

// Keyframe is a single keyed value of a scalar curve.
// Tangents are expressed per second and are only read by cubic spline curves.
type Keyframe struct {
	Time       float32
	Value      float32
	InTangent  float32
	OutTangent float32
}

// Curve is a keyed scalar function of time. Keys must be sorted by Time.
type Curve struct {
	Interpolation Interpolation
	Keys          []Keyframe
}

// Evaluate samples the curve at time t.
// Times before the first key or after the last key clamp to that key's value.
// An empty curve evaluates to 0.
//
// Parameters:
//   - t: the sample time in seconds
//
// Returns:
//   - float32: the curve value at t
func (c *Curve) Evaluate(t float32) float32 {
	n := len(c.Keys)
	if n == 0 {
		return 0
	}
	if t <= c.Keys[0].Time {
		return c.Keys[0].Value
	}
	if t >= c.Keys[n-1].Time {
		return c.Keys[n-1].Value
	}

	i := sort.Search(n, func(i int) bool { return c.Keys[i].Time > t })
	k0, k1 := c.Keys[i-1], c.Keys[i]
	dt := k1.Time - k0.Time
	if dt <= 0 {
		return k1.Value
	}
	u := (t - k0.Time) / dt

	switch c.Interpolation {
	case InterpolationStep:
		return k0.Value
	case InterpolationCubicSpline:
		u2 := u * u
		u3 := u2 * u
		h00 := 2*u3 - 3*u2 + 1
		h10 := u3 - 2*u2 + u
		h01 := -2*u3 + 3*u2
		h11 := u3 - u2
		return h00*k0.Value + h10*dt*k0.OutTangent + h01*k1.Value + h11*dt*k1.InTangent
	default:
		return k0.Value + (k1.Value-k0.Value)*u
	}
}

// Duration returns the time of the last key, or 0 for an empty curve.
//
// Returns:
//   - float32: the time of the last key
func (c *Curve) Duration() float32 {
	if len(c.Keys) == 0 {
		return 0
	}
	return c.Keys[len(c.Keys)-1].Time
}

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurveEvaluate(t *testing.T) {
	keys := []Keyframe{
		{Time: 0, Value: 0},
		{Time: 1, Value: 10},
		{Time: 2, Value: 20},
	}

	tests := []struct {
		name   string
		interp Interpolation
		t      float32
		want   float32
	}{
		{"linear before first key clamps", InterpolationLinear, -1, 0},
		{"linear after last key clamps", InterpolationLinear, 5, 20},
		{"linear on key", InterpolationLinear, 1, 10},
		{"linear midpoint", InterpolationLinear, 0.5, 5},
		{"linear second segment", InterpolationLinear, 1.25, 12.5},
		{"step holds previous", InterpolationStep, 1.9, 10},
		{"cubic with zero tangents hits midpoint", InterpolationCubicSpline, 0.5, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Curve{Interpolation: tt.interp, Keys: keys}
			assert.InDelta(t, tt.want, c.Evaluate(tt.t), 1e-5)
		})
	}
}

func TestCurveEvaluateCubicUsesTangents(t *testing.T) {
	c := &Curve{
		Interpolation: InterpolationCubicSpline,
		Keys: []Keyframe{
			{Time: 0, Value: 0, OutTangent: 1},
			{Time: 1, Value: 1, InTangent: 1},
		},
	}
	// Tangents matching the secant make the Hermite segment a straight line.
	assert.InDelta(t, 0.25, c.Evaluate(0.25), 1e-5)
	assert.InDelta(t, 0.75, c.Evaluate(0.75), 1e-5)
}

func TestCurveEvaluateEmpty(t *testing.T) {
	c := &Curve{}
	assert.Equal(t, float32(0), c.Evaluate(1))
	assert.Equal(t, float32(0), c.Duration())
}

func TestAnimationCurveSetPaths(t *testing.T) {
	s := NewAnimationCurveSet("walk", 30, 1, true)
	s.SetCurve("Root/Hips", ChannelPosX, &Curve{})
	s.SetCurve("Root/Hips", ChannelPosY, &Curve{})
	s.SetCurve("Root/Hips", ChannelRotW, &Curve{})
	s.SetCurve("Root", ChannelRotX, &Curve{})

	assert.Equal(t, []string{"Root/Hips"}, s.PositionPaths())
	assert.Equal(t, []string{"Root", "Root/Hips"}, s.RotationPaths())
	assert.NotNil(t, s.Curve("Root/Hips", ChannelPosY))
	assert.Nil(t, s.Curve("Root/Hips", ChannelPosZ))
	assert.Equal(t, "rotation.w", ChannelRotW.String())
}

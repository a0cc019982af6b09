package common

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// epsilon below which a vector is treated as zero length.
const epsilon = 1e-6

// ComposeTRS builds a local transform matrix from translation, rotation and scale.
// The result is column-major and equals T * R * S.
//
// Parameters:
//   - t: translation
//   - q: rotation quaternion
//   - s: per-axis scale
//
// Returns:
//   - mgl32.Mat4: the composed matrix
func ComposeTRS(t mgl32.Vec3, q mgl32.Quat, s mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(t[0], t[1], t[2]).
		Mul4(q.Mat4()).
		Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
}

// DecomposeTRS splits an affine matrix into translation, rotation and scale.
// Scale is the length of each basis column; near-zero columns keep a unit divisor
// so the rotation extraction never divides by zero.
//
// Parameters:
//   - m: the matrix to decompose
//
// Returns:
//   - mgl32.Vec3: translation (column 3)
//   - mgl32.Quat: rotation
//   - mgl32.Vec3: scale
func DecomposeTRS(m mgl32.Mat4) (mgl32.Vec3, mgl32.Quat, mgl32.Vec3) {
	t := m.Col(3).Vec3()
	x, y, z := m.Col(0).Vec3(), m.Col(1).Vec3(), m.Col(2).Vec3()
	s := mgl32.Vec3{x.Len(), y.Len(), z.Len()}

	div := s
	for i := range div {
		if div[i] < 1e-4 {
			div[i] = 1
		}
	}
	rot := mgl32.Mat4FromCols(
		x.Mul(1/div[0]).Vec4(0),
		y.Mul(1/div[1]).Vec4(0),
		z.Mul(1/div[2]).Vec4(0),
		mgl32.Vec4{0, 0, 0, 1},
	)
	return t, mgl32.Mat4ToQuat(rot).Normalize(), s
}

// LookRotation returns the rotation that maps +Z onto forward and keeps +Y as
// close to up as possible. Neither vector needs to be normalized.
// A zero forward vector yields the identity rotation; an up vector parallel to
// forward falls back to the shortest arc from +Z.
//
// Parameters:
//   - forward: the desired forward (+Z) direction
//   - up: the desired up (+Y) hint
//
// Returns:
//   - mgl32.Quat: the look rotation
func LookRotation(forward, up mgl32.Vec3) mgl32.Quat {
	if forward.Len() < epsilon {
		return mgl32.QuatIdent()
	}
	f := forward.Normalize()
	right := up.Cross(f)
	if right.Len() < epsilon {
		return mgl32.QuatBetweenVectors(mgl32.Vec3{0, 0, 1}, f)
	}
	right = right.Normalize()
	u := f.Cross(right)

	basis := mgl32.Mat4FromCols(right.Vec4(0), u.Vec4(0), f.Vec4(0), mgl32.Vec4{0, 0, 0, 1})
	return mgl32.Mat4ToQuat(basis).Normalize()
}

// NextPowerOfTwoSide returns the side length of the smallest square power-of-two
// texture (at least 2x2) that holds the given number of pixels.
//
// Parameters:
//   - pixels: the number of pixels that must fit
//
// Returns:
//   - int: the texture side length
func NextPowerOfTwoSide(pixels int) int {
	size := 2
	for size*size < pixels {
		size *= 2
	}
	return size
}

// RoundToInt rounds half to even and converts to int, so 2.5 becomes 2 and 3.5 becomes 4.
//
// Parameters:
//   - v: the value to round
//
// Returns:
//   - int: the rounded value
func RoundToInt(v float32) int {
	return int(math32.RoundToEven(v))
}

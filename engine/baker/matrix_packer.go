package baker

import (
	"github.com/Carmen-Shannon/oxy-gpuanim/common"

	"github.com/go-gl/mathgl/mgl32"
)

// PackMatrix splits a matrix into the three RGBA texels that store rows 0 to 2.
// Row 3 is never stored.
//
// Parameters:
//   - m: the matrix to pack
//
// Returns:
//   - [3][4]float32: one texel per row
func PackMatrix(m mgl32.Mat4) [3][4]float32 {
	var out [3][4]float32
	for r := 0; r < TexelsPerBone; r++ {
		out[r] = m.Row(r)
	}
	return out
}

// UnpackMatrix rebuilds a matrix from three row texels, with row 3 assumed to be (0,0,0,1).
//
// Parameters:
//   - texels: the row texels
//
// Returns:
//   - mgl32.Mat4: the decoded matrix
func UnpackMatrix(texels [3][4]float32) mgl32.Mat4 {
	return mgl32.Mat4FromRows(
		mgl32.Vec4(texels[0]),
		mgl32.Vec4(texels[1]),
		mgl32.Vec4(texels[2]),
		mgl32.Vec4{0, 0, 0, 1},
	)
}

// TextureSize returns the side of the smallest power-of-two square texture holding totalPixels texels.
//
// Parameters:
//   - totalPixels: the number of texels required
//
// Returns:
//   - int: the texture side length
func TextureSize(totalPixels int) int {
	return common.NextPowerOfTwoSide(totalPixels)
}

package math

// Mat3 is a 3x3 matrix stored as [col][row], same layout convention as Mat4.
type Mat3 [3][3]float32

func Mat3Identity() Mat3 {
	return Mat3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// Mat3FromMat4 extracts the upper 3x3 block.
func Mat3FromMat4(m Mat4) Mat3 {
	return Mat3{
		{m[0][0], m[0][1], m[0][2]},
		{m[1][0], m[1][1], m[1][2]},
		{m[2][0], m[2][1], m[2][2]},
	}
}

func (m Mat3) Transpose() Mat3 {
	return Mat3{
		{m[0][0], m[1][0], m[2][0]},
		{m[0][1], m[1][1], m[2][1]},
		{m[0][2], m[1][2], m[2][2]},
	}
}

func (m Mat3) Determinant() float32 {
	return m[0][0]*(m[1][1]*m[2][2]-m[2][1]*m[1][2]) -
		m[1][0]*(m[0][1]*m[2][2]-m[2][1]*m[0][2]) +
		m[2][0]*(m[0][1]*m[1][2]-m[1][1]*m[0][2])
}

// Inverse returns the matrix inverse, or identity when the matrix is
// singular (degenerate zero scale).
func (m Mat3) Inverse() Mat3 {
	det := m.Determinant()
	if det == 0 {
		return Mat3Identity()
	}
	inv := 1 / det
	return Mat3{
		{
			(m[1][1]*m[2][2] - m[2][1]*m[1][2]) * inv,
			(m[2][1]*m[0][2] - m[0][1]*m[2][2]) * inv,
			(m[0][1]*m[1][2] - m[1][1]*m[0][2]) * inv,
		},
		{
			(m[2][0]*m[1][2] - m[1][0]*m[2][2]) * inv,
			(m[0][0]*m[2][2] - m[2][0]*m[0][2]) * inv,
			(m[1][0]*m[0][2] - m[0][0]*m[1][2]) * inv,
		},
		{
			(m[1][0]*m[2][1] - m[2][0]*m[1][1]) * inv,
			(m[2][0]*m[0][1] - m[0][0]*m[2][1]) * inv,
			(m[0][0]*m[1][1] - m[1][0]*m[0][1]) * inv,
		},
	}
}

func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{
		X: v.X*m[0][0] + v.Y*m[1][0] + v.Z*m[2][0],
		Y: v.X*m[0][1] + v.Y*m[1][1] + v.Z*m[2][1],
		Z: v.X*m[0][2] + v.Y*m[1][2] + v.Z*m[2][2],
	}
}

// Flatten returns the matrix as 9 floats in GPU upload order.
func (m Mat3) Flatten() [9]float32 {
	var out [9]float32
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			out[col*3+row] = m[col][row]
		}
	}
	return out
}

// NormalMatrix derives the matrix that transforms surface normals under the
// given model matrix: the inverse-transpose of its upper 3x3. Using the
// plain upper 3x3 would skew normals under non-uniform scale.
func NormalMatrix(model Mat4) Mat3 {
	return Mat3FromMat4(model).Inverse().Transpose()
}

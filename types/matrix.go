package types

import (
	"fmt"
	"math"
	"strings"
)

// A 4x4 matrix stored in column-major order. Element (row, col) lives at
// index col*4 + row.
type Mat4 [16]float32

// A 3x3 matrix stored in column-major order.
type Mat3 [9]float32

// Create an identity matrix.
func Ident4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Create a translation matrix.
func Translate4(t Vec3) Mat4 {
	m := Ident4()
	m[12], m[13], m[14] = t[0], t[1], t[2]
	return m
}

// Create a non-uniform scale matrix.
func Scale4(s Vec3) Mat4 {
	m := Ident4()
	m[0], m[5], m[10] = s[0], s[1], s[2]
	return m
}

// Get element at row, col.
func (m Mat4) At(row, col int) float32 {
	return m[col*4+row]
}

// Multiply with another matrix (m * m2).
func (m Mat4) Mul4(m2 Mat4) Mat4 {
	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * m2[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// Transform a point (w = 1). The result is divided by the resulting w
// component when it is not 1.
func (m Mat4) MulPoint(p Vec3) Vec3 {
	var out [4]float32
	in := [4]float32{p[0], p[1], p[2], 1}
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			out[row] += m[col*4+row] * in[col]
		}
	}
	if out[3] != 0 && out[3] != 1 {
		return Vec3{out[0] / out[3], out[1] / out[3], out[2] / out[3]}
	}
	return Vec3{out[0], out[1], out[2]}
}

// Transform a direction (w = 0).
func (m Mat4) MulDir(d Vec3) Vec3 {
	return Vec3{
		m[0]*d[0] + m[4]*d[1] + m[8]*d[2],
		m[1]*d[0] + m[5]*d[1] + m[9]*d[2],
		m[2]*d[0] + m[6]*d[1] + m[10]*d[2],
	}
}

// Get matrix transpose.
func (m Mat4) Transpose() Mat4 {
	var out Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			out[row*4+col] = m[col*4+row]
		}
	}
	return out
}

// Invert matrix using Gauss-Jordan elimination with partial pivoting. If the
// matrix is singular, the second return value is false.
func (m Mat4) Inv() (Mat4, bool) {
	var a [4][8]float64
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			a[row][col] = float64(m[col*4+row])
		}
		a[row][4+row] = 1
	}

	for col := 0; col < 4; col++ {
		pivot := col
		for row := col + 1; row < 4; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return Mat4{}, false
		}
		a[col], a[pivot] = a[pivot], a[col]

		scale := 1.0 / a[col][col]
		for k := 0; k < 8; k++ {
			a[col][k] *= scale
		}

		for row := 0; row < 4; row++ {
			if row == col || a[row][col] == 0 {
				continue
			}
			f := a[row][col]
			for k := 0; k < 8; k++ {
				a[row][k] -= f * a[col][k]
			}
		}
	}

	var out Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			out[col*4+row] = float32(a[row][4+col])
		}
	}
	return out, true
}

// Build the matrix for transforming normals: the inverse transpose of the
// upper 3x3 block. Singular matrices fall back to the upper 3x3 block.
func (m Mat4) NormalMat() Mat4 {
	inv, ok := m.Inv()
	if !ok {
		inv = m
	}
	out := inv.Transpose()
	out[3], out[7], out[11] = 0, 0, 0
	out[12], out[13], out[14] = 0, 0, 0
	out[15] = 1
	return out
}

// Extract the top-left 3x3 matrix from a 4x4 matrix.
func (m Mat4) Mat3() Mat3 {
	return Mat3{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
	}
}

func (m Mat4) String() string {
	rows := make([]string, 4)
	for row := 0; row < 4; row++ {
		rows[row] = sprintVec([]float32{m.At(row, 0), m.At(row, 1), m.At(row, 2), m.At(row, 3)})
	}
	return strings.Join(rows, "\n")
}

func sprintVec(v []float32) string {
	parts := make([]string, len(v))
	for i, c := range v {
		parts[i] = fmt.Sprintf("%g", c)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

package postfx

// Mat3 represents a 3x3 color transformation matrix in row-major order:
//
//	| m[0][0]  m[0][1]  m[0][2] |
//	| m[1][0]  m[1][1]  m[1][2] |
//	| m[2][0]  m[2][1]  m[2][2] |
//
// Each row is dotted against an input RGB vector to produce one output
// channel.
type Mat3 [3][3]float32

// Mat3Identity returns the identity matrix.
func Mat3Identity() Mat3 {
	return Mat3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// Row returns matrix row i.
func (m Mat3) Row(i int) [3]float32 {
	return m[i]
}

// MulVec3 applies the matrix to an RGB vector.
func (m Mat3) MulVec3(v [3]float32) [3]float32 {
	return [3]float32{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

// Matrix returns the channel-mix matrix derived from the three weight
// vectors. Rows are the RGB components of Red, Blue and Green, in that
// order; the packed uniform layout and the composite shader both depend
// on this row ordering. The result may be singular; that is allowed.
func (m ChannelMixing) Matrix() Mat3 {
	return Mat3{
		m.Red.Vec3(),
		m.Blue.Vec3(),
		m.Green.Vec3(),
	}
}

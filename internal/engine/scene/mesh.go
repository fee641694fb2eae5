package scene

// cubeVertices returns a unit cube centred on the origin as interleaved
// position and normal triangles, counter-clockwise when seen from outside.
func cubeVertices() []float32 {
	type face struct {
		normal [3]float32
		u, v   [3]float32
	}
	faces := []face{
		{normal: [3]float32{0, 0, 1}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 1, 0}},
		{normal: [3]float32{0, 0, -1}, u: [3]float32{-1, 0, 0}, v: [3]float32{0, 1, 0}},
		{normal: [3]float32{1, 0, 0}, u: [3]float32{0, 0, -1}, v: [3]float32{0, 1, 0}},
		{normal: [3]float32{-1, 0, 0}, u: [3]float32{0, 0, 1}, v: [3]float32{0, 1, 0}},
		{normal: [3]float32{0, 1, 0}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 0, -1}},
		{normal: [3]float32{0, -1, 0}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 0, 1}},
	}

	out := make([]float32, 0, len(faces)*6*6)
	for _, f := range faces {
		corner := func(su, sv float32) [3]float32 {
			var p [3]float32
			for i := range p {
				p[i] = 0.5*f.normal[i] + 0.5*su*f.u[i] + 0.5*sv*f.v[i]
			}
			return p
		}
		quad := [4][3]float32{corner(-1, -1), corner(1, -1), corner(1, 1), corner(-1, 1)}
		for _, idx := range [6]int{0, 1, 2, 0, 2, 3} {
			p := quad[idx]
			out = append(out, p[0], p[1], p[2], f.normal[0], f.normal[1], f.normal[2])
		}
	}
	return out
}

// planeVertices returns a quad in the local XZ plane facing +Y, as
// positions only, counter-clockwise when seen from above.
func planeVertices(width, depth float32) []float32 {
	x := width / 2
	z := depth / 2
	return []float32{
		-x, 0, z,
		x, 0, z,
		x, 0, -z,
		-x, 0, z,
		x, 0, -z,
		-x, 0, -z,
	}
}

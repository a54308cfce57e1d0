package scene

import (
	"github.com/chewxy/math32"
)

// CreateCube builds an axis-aligned cube with per-face normals and UVs.
func CreateCube(size float32) *MeshData {
	s := size / 2

	type face struct {
		corners [4][3]float32
		normal  [3]float32
	}
	faces := []face{
		{[4][3]float32{{-s, -s, s}, {s, -s, s}, {s, s, s}, {-s, s, s}}, [3]float32{0, 0, 1}},
		{[4][3]float32{{s, -s, -s}, {-s, -s, -s}, {-s, s, -s}, {s, s, -s}}, [3]float32{0, 0, -1}},
		{[4][3]float32{{-s, s, s}, {s, s, s}, {s, s, -s}, {-s, s, -s}}, [3]float32{0, 1, 0}},
		{[4][3]float32{{-s, -s, -s}, {s, -s, -s}, {s, -s, s}, {-s, -s, s}}, [3]float32{0, -1, 0}},
		{[4][3]float32{{s, -s, s}, {s, -s, -s}, {s, s, -s}, {s, s, s}}, [3]float32{1, 0, 0}},
		{[4][3]float32{{-s, -s, -s}, {-s, -s, s}, {-s, s, s}, {-s, s, -s}}, [3]float32{-1, 0, 0}},
	}
	uvs := [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	m := &MeshData{}
	for _, f := range faces {
		base := uint32(m.VertexCount())
		for i, c := range f.corners {
			m.Positions = append(m.Positions, c[0], c[1], c[2])
			m.Normals = append(m.Normals, f.normal[0], f.normal[1], f.normal[2])
			m.UVs = append(m.UVs, uvs[i][0], uvs[i][1])
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base+2, base+3, base)
	}
	return m
}

// CreatePlane builds a flat XZ plane centred at the origin, facing +Y.
func CreatePlane(width, depth float32) *MeshData {
	hw, hd := width/2, depth/2
	return &MeshData{
		Positions: []float32{
			-hw, 0, -hd,
			hw, 0, -hd,
			hw, 0, hd,
			-hw, 0, hd,
		},
		Normals: []float32{
			0, 1, 0,
			0, 1, 0,
			0, 1, 0,
			0, 1, 0,
		},
		UVs: []float32{
			0, 0,
			1, 0,
			1, 1,
			0, 1,
		},
		Indices: []uint32{0, 2, 1, 0, 3, 2},
	}
}

// CreateSphere builds a UV sphere with the given ring/segment resolution.
func CreateSphere(radius float32, segments, rings int) *MeshData {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}

	m := &MeshData{}
	for ring := 0; ring <= rings; ring++ {
		phi := math32.Pi * float32(ring) / float32(rings)
		y := math32.Cos(phi)
		r := math32.Sin(phi)
		for seg := 0; seg <= segments; seg++ {
			theta := 2 * math32.Pi * float32(seg) / float32(segments)
			x := r * math32.Cos(theta)
			z := r * math32.Sin(theta)
			m.Positions = append(m.Positions, x*radius, y*radius, z*radius)
			m.Normals = append(m.Normals, x, y, z)
			m.UVs = append(m.UVs,
				float32(seg)/float32(segments),
				float32(ring)/float32(rings),
			)
		}
	}

	stride := uint32(segments + 1)
	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			a := uint32(ring)*stride + uint32(seg)
			b := a + stride
			m.Indices = append(m.Indices,
				a, b, a+1,
				a+1, b, b+1,
			)
		}
	}
	return m
}

// CreateGridEdges builds a flat reference grid as a line list, size units
// across with the given number of divisions per axis.
func CreateGridEdges(size float32, divisions int) *EdgeData {
	if divisions < 1 {
		divisions = 1
	}
	half := size / 2
	step := size / float32(divisions)

	e := &EdgeData{}
	for i := 0; i <= divisions; i++ {
		x := -half + float32(i)*step
		e.Positions = append(e.Positions,
			x, 0, -half,
			x, 0, half,
			-half, 0, x,
			half, 0, x,
		)
	}
	return e
}

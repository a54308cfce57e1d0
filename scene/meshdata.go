package scene

// MeshData holds immutable CPU-side geometry. The rendering core only reads
// it; GPU upload is managed by the renderer's mesh cache.
type MeshData struct {
	// Positions is a flat array, 3 floats per vertex.
	Positions []float32
	// Normals matches Positions in length.
	Normals []float32
	// UVs is optional; when present, 2 floats per vertex.
	UVs []float32
	// Indices is a triangle list.
	Indices []uint32
}

// VertexCount returns the number of vertices.
func (m *MeshData) VertexCount() int {
	return len(m.Positions) / 3
}

// TriangleCount returns the number of indexed triangles.
func (m *MeshData) TriangleCount() int {
	return len(m.Indices) / 3
}

// HasUVs reports whether texture coordinates are present.
func (m *MeshData) HasUVs() bool {
	return len(m.UVs) > 0
}

// EdgeData holds a line list for wireframe/edge overlays: 2 vertices per
// line, 3 floats per vertex.
type EdgeData struct {
	Positions []float32
}

// LineCount returns the number of line segments.
func (e *EdgeData) LineCount() int {
	return len(e.Positions) / 6
}

// ExtractEdges builds an EdgeData from a mesh's unique triangle edges.
// Shared edges between adjacent triangles appear once.
func ExtractEdges(m *MeshData) *EdgeData {
	type edge struct{ a, b uint32 }
	seen := make(map[edge]bool)
	out := &EdgeData{}

	addEdge := func(a, b uint32) {
		if a > b {
			a, b = b, a
		}
		key := edge{a, b}
		if seen[key] {
			return
		}
		seen[key] = true
		out.Positions = append(out.Positions,
			m.Positions[a*3], m.Positions[a*3+1], m.Positions[a*3+2],
			m.Positions[b*3], m.Positions[b*3+1], m.Positions[b*3+2],
		)
	}

	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0, i1, i2 := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		addEdge(i0, i1)
		addEdge(i1, i2)
		addEdge(i2, i0)
	}
	return out
}

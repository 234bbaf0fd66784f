// Package mesh defines the triangle mesh and wireframe value types shared by
// the picking, selection, and sketch packages. All buffers are flat:
// vertices and normals carry 3 floats per vertex, indices 3 uint32s per
// triangle, colors 3 floats per vertex (r,g,b in 0..1).
package mesh

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Neutral vertex color components (white). Highlighting restores to these.
const (
	NeutralR = 1.0
	NeutralG = 1.0
	NeutralB = 1.0
)

// TriMesh is a triangulated surface suitable for rendering and picking.
// The index buffer is optional: when Indices is empty, triangles are the
// implicit consecutive vertex triples. The color buffer is created lazily
// (default white) the first time a vertex color is written.
type TriMesh struct {
	Vertices    []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals     []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices     []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	Colors      []float32 `json:"colors"`   // [r0,g0,b0, ...] per vertex, lazy
	Name        string    `json:"name"`
	Highlighted bool      `json:"highlighted"` // whole-mesh emissive flag
}

// VertexCount returns the number of vertices.
func (m *TriMesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles, whether indexed or implicit.
func (m *TriMesh) TriangleCount() int {
	if len(m.Indices) > 0 {
		return len(m.Indices) / 3
	}
	return m.VertexCount() / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *TriMesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Vertex returns the position of vertex i.
func (m *TriMesh) Vertex(i int) v3.Vec {
	return v3.Vec{
		X: float64(m.Vertices[3*i]),
		Y: float64(m.Vertices[3*i+1]),
		Z: float64(m.Vertices[3*i+2]),
	}
}

// TriangleIndices returns the three vertex indices of triangle t.
// For non-indexed meshes these are the implicit consecutive triples.
func (m *TriMesh) TriangleIndices(t int) (a, b, c int) {
	if len(m.Indices) > 0 {
		return int(m.Indices[3*t]), int(m.Indices[3*t+1]), int(m.Indices[3*t+2])
	}
	return 3 * t, 3*t + 1, 3*t + 2
}

// Triangle returns the three corner positions of triangle t.
func (m *TriMesh) Triangle(t int) (a, b, c v3.Vec) {
	ia, ib, ic := m.TriangleIndices(t)
	return m.Vertex(ia), m.Vertex(ib), m.Vertex(ic)
}

// TriangleNormal returns the unit face normal of triangle t. Degenerate
// (zero-area) triangles yield the zero vector rather than NaN components.
func (m *TriMesh) TriangleNormal(t int) v3.Vec {
	a, b, c := m.Triangle(t)
	n := b.Sub(a).Cross(c.Sub(a))
	l := n.Length()
	if l == 0 {
		return v3.Vec{}
	}
	return n.DivScalar(l)
}

// TriangleArea returns the area of triangle t (half the cross product).
func (m *TriMesh) TriangleArea(t int) float64 {
	a, b, c := m.Triangle(t)
	return 0.5 * b.Sub(a).Cross(c.Sub(a)).Length()
}

// EnsureColors allocates the per-vertex color buffer filled with the neutral
// color if it does not exist yet.
func (m *TriMesh) EnsureColors() {
	if len(m.Colors) == len(m.Vertices) {
		return
	}
	m.Colors = make([]float32, len(m.Vertices))
	for i := 0; i < len(m.Colors); i += 3 {
		m.Colors[i] = NeutralR
		m.Colors[i+1] = NeutralG
		m.Colors[i+2] = NeutralB
	}
}

// SetVertexColor writes the color of vertex i, allocating the buffer lazily.
func (m *TriMesh) SetVertexColor(i int, r, g, b float32) {
	m.EnsureColors()
	m.Colors[3*i] = r
	m.Colors[3*i+1] = g
	m.Colors[3*i+2] = b
}

// VertexColor returns the color of vertex i. Before any write the color
// buffer may not exist; the neutral color is reported in that case.
func (m *TriMesh) VertexColor(i int) (r, g, b float32) {
	if len(m.Colors) != len(m.Vertices) {
		return NeutralR, NeutralG, NeutralB
	}
	return m.Colors[3*i], m.Colors[3*i+1], m.Colors[3*i+2]
}

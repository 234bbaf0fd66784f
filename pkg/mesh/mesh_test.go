package mesh

import (
	"math"
	"testing"
)

// groundTriangle is a right triangle on the y=0 plane with its normal
// pointing up.
func groundTriangle() *TriMesh {
	return &TriMesh{
		Vertices: []float32{
			0, 0, 0,
			0, 0, 1,
			1, 0, 0,
		},
	}
}

func TestVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float32
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", []float32{1, 2, 3}, 1},
		{"four vertices", []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &TriMesh{Vertices: tt.vertices}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTriangleCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float32
		indices  []uint32
		want     int
	}{
		{"empty", nil, nil, 0},
		{"indexed quad", []float32{0, 0, 0, 0, 0, 1, 1, 0, 1, 1, 0, 0}, []uint32{0, 1, 2, 0, 2, 3}, 2},
		{"implicit single", []float32{0, 0, 0, 0, 0, 1, 1, 0, 0}, nil, 1},
		{"implicit two", make([]float32, 18), nil, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &TriMesh{Vertices: tt.vertices, Indices: tt.indices}
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTriangleIndicesImplicit(t *testing.T) {
	m := &TriMesh{Vertices: make([]float32, 18)}
	a, b, c := m.TriangleIndices(1)
	if a != 3 || b != 4 || c != 5 {
		t.Errorf("TriangleIndices(1) = (%d, %d, %d), want (3, 4, 5)", a, b, c)
	}
}

func TestTriangleNormal(t *testing.T) {
	m := groundTriangle()
	n := m.TriangleNormal(0)
	if math.Abs(n.X) > 1e-12 || math.Abs(n.Y-1) > 1e-12 || math.Abs(n.Z) > 1e-12 {
		t.Errorf("TriangleNormal(0) = %v, want (0, 1, 0)", n)
	}
}

func TestTriangleNormalDegenerate(t *testing.T) {
	// All three corners coincide; the normal must be the zero vector, not NaN.
	m := &TriMesh{Vertices: []float32{1, 1, 1, 1, 1, 1, 1, 1, 1}}
	n := m.TriangleNormal(0)
	if n.X != 0 || n.Y != 0 || n.Z != 0 {
		t.Errorf("degenerate TriangleNormal(0) = %v, want zero vector", n)
	}
}

func TestTriangleArea(t *testing.T) {
	m := groundTriangle()
	if got := m.TriangleArea(0); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("TriangleArea(0) = %g, want 0.5", got)
	}
}

func TestVertexColorLazy(t *testing.T) {
	m := groundTriangle()

	// Before any write the buffer does not exist and reads report neutral.
	if m.Colors != nil {
		t.Fatal("color buffer allocated before first write")
	}
	r, g, b := m.VertexColor(1)
	if r != NeutralR || g != NeutralG || b != NeutralB {
		t.Errorf("VertexColor(1) = (%g, %g, %g), want neutral white", r, g, b)
	}

	m.SetVertexColor(1, 1.0, 0.55, 0.1)
	if len(m.Colors) != len(m.Vertices) {
		t.Fatalf("color buffer length %d, want %d", len(m.Colors), len(m.Vertices))
	}
	r, g, b = m.VertexColor(1)
	if r != 1.0 || g != 0.55 || b != 0.1 {
		t.Errorf("VertexColor(1) = (%g, %g, %g) after write", r, g, b)
	}

	// Untouched vertices stay neutral.
	r, g, b = m.VertexColor(0)
	if r != NeutralR || g != NeutralG || b != NeutralB {
		t.Errorf("VertexColor(0) = (%g, %g, %g), want neutral white", r, g, b)
	}
}

func TestEnsureColorsIdempotent(t *testing.T) {
	m := groundTriangle()
	m.SetVertexColor(0, 0.2, 0.3, 0.4)
	m.EnsureColors()
	r, g, b := m.VertexColor(0)
	if r != 0.2 || g != 0.3 || b != 0.4 {
		t.Errorf("EnsureColors clobbered written color: (%g, %g, %g)", r, g, b)
	}
}

func TestWireframeTotalLength(t *testing.T) {
	// Closed unit square as a line list: four segments, eight points.
	wf := &Wireframe{Points: []float32{
		0, 0, 0, 1, 0, 0,
		1, 0, 0, 1, 0, 1,
		1, 0, 1, 0, 0, 1,
		0, 0, 1, 0, 0, 0,
	}}
	if got := wf.SegmentCount(); got != 4 {
		t.Errorf("SegmentCount() = %d, want 4", got)
	}
	if got := wf.TotalLength(); math.Abs(got-4.0) > 1e-12 {
		t.Errorf("TotalLength() = %g, want 4.0", got)
	}
}

func TestWireframeEmpty(t *testing.T) {
	wf := &Wireframe{}
	if wf.SegmentCount() != 0 {
		t.Error("empty wireframe has segments")
	}
	if wf.TotalLength() != 0 {
		t.Error("empty wireframe has length")
	}
}

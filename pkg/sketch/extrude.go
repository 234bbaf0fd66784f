package sketch

import (
	"github.com/bellapacx/cadeditor/pkg/mesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// upTolerance bounds how far a triangle normal may deviate from ±Y and
// still be classified as a top or bottom face.
const upTolerance = 1e-3

// FaceGroups partitions the triangle indices of an extruded solid by the
// orientation of each triangle. Every triangle lands in exactly one group.
type FaceGroups struct {
	Top    []int `json:"top"`
	Bottom []int `json:"bottom"`
	Sides  []int `json:"sides"`
}

// ExtrudedSolid is the result of committing a sketch: a triangulated prism
// with its base on the construction plane and a per-triangle face
// classification. Center is the solid's center (base center lifted by half
// the height), which is what gets persisted as the object position.
type ExtrudedSolid struct {
	Mesh   *mesh.TriMesh
	Groups FaceGroups
	Tool   Tool
	Center v3.Vec
	Width  float64 // rectangle only
	Depth  float64 // rectangle only
	Radius float64 // circle only
	Height float64
}

// ExtrudeRectangle builds a box-shaped solid from a rectangle outline
// centered at base (a point on the construction plane), extruded by height
// along +Y. Dimensions clamp to MinDimension.
func ExtrudeRectangle(base v3.Vec, width, depth, height float64) *ExtrudedSolid {
	if width < MinDimension {
		width = MinDimension
	}
	if depth < MinDimension {
		depth = MinDimension
	}
	s := extrudeOutline(rectOutline(base, width, depth), height)
	s.Tool = ToolRectangle
	s.Center = v3.Vec{X: base.X, Y: base.Y + height/2, Z: base.Z}
	s.Width = width
	s.Depth = depth
	return s
}

// ExtrudeCircle builds a cylindrical solid from a circle outline centered at
// base, extruded by height along +Y. The radius clamps to MinDimension.
func ExtrudeCircle(base v3.Vec, radius, height float64, segments int) *ExtrudedSolid {
	if radius < MinDimension {
		radius = MinDimension
	}
	if segments <= 0 {
		segments = DefaultSegments
	}
	s := extrudeOutline(circleOutline(base, radius, segments), height)
	s.Tool = ToolCircle
	s.Center = v3.Vec{X: base.X, Y: base.Y + height/2, Z: base.Z}
	s.Radius = radius
	return s
}

// Wireframe builds the line-list edge companion of the solid: the base
// outline, the top outline, and the vertical edges between them. Corner
// points are duplicated per segment (line-list convention).
func (s *ExtrudedSolid) Wireframe() *mesh.Wireframe {
	base := v3.Vec{X: s.Center.X, Y: s.Center.Y - s.Height/2, Z: s.Center.Z}
	var outline []v3.Vec
	if s.Tool == ToolCircle {
		outline = circleOutline(base, s.Radius, DefaultSegments)
	} else {
		outline = rectOutline(base, s.Width, s.Depth)
	}

	wf := &mesh.Wireframe{}
	addSeg := func(a, b v3.Vec) {
		wf.Points = append(wf.Points,
			float32(a.X), float32(a.Y), float32(a.Z),
			float32(b.X), float32(b.Y), float32(b.Z))
	}
	lift := v3.Vec{Y: s.Height}
	for i := range outline {
		j := (i + 1) % len(outline)
		addSeg(outline[i], outline[j])
		addSeg(outline[i].Add(lift), outline[j].Add(lift))
		addSeg(outline[i], outline[i].Add(lift))
	}
	return wf
}

// extrudePreview converts a committed preview into a solid using the
// session's extrusion height.
func extrudePreview(p *Preview, cfg Config) *ExtrudedSolid {
	switch p.Tool {
	case ToolCircle:
		return ExtrudeCircle(p.Center, p.Radius, cfg.ExtrudeHeight, cfg.Segments)
	default:
		return ExtrudeRectangle(p.Center, p.Width, p.Depth, cfg.ExtrudeHeight)
	}
}

// extrudeOutline sweeps a closed planar outline (points on the construction
// plane, wound so the top cap faces +Y) along +Y by height, triangulating
// caps as fans around their centroid and sides as quad pairs, then
// classifies every triangle into the face groups. Vertices are emitted per
// triangle (no sharing) so flat face normals and per-face highlight colors
// never bleed across faces.
func extrudeOutline(outline []v3.Vec, height float64) *ExtrudedSolid {
	n := len(outline)

	centroid := v3.Vec{}
	for _, p := range outline {
		centroid = centroid.Add(p)
	}
	centroid = centroid.DivScalar(float64(n))

	lift := v3.Vec{Y: height}
	var tris [][3]v3.Vec
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		bi, bj := outline[i], outline[j]
		ti, tj := bi.Add(lift), bj.Add(lift)

		tris = append(tris,
			[3]v3.Vec{centroid.Add(lift), ti, tj}, // top cap, normal +Y
			[3]v3.Vec{centroid, bj, bi},           // bottom cap, normal -Y
			[3]v3.Vec{bi, bj, tj},                 // side quad
			[3]v3.Vec{bi, tj, ti},
		)
	}

	m := &mesh.TriMesh{
		Vertices: make([]float32, 0, len(tris)*9),
		Normals:  make([]float32, 0, len(tris)*9),
		Indices:  make([]uint32, 0, len(tris)*3),
	}
	for t, tri := range tris {
		fn := tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0])).Normalize()
		for c, p := range tri {
			m.Vertices = append(m.Vertices,
				float32(p.X), float32(p.Y), float32(p.Z))
			m.Normals = append(m.Normals,
				float32(fn.X), float32(fn.Y), float32(fn.Z))
			m.Indices = append(m.Indices, uint32(3*t+c))
		}
	}

	return &ExtrudedSolid{
		Mesh:   m,
		Groups: classifyTriangles(m),
		Height: height,
	}
}

// classifyTriangles buckets every triangle of the mesh into top, bottom, or
// sides by its face normal: within upTolerance of +Y is top, of -Y is
// bottom, everything else is a side. The three groups always partition the
// full triangle range.
func classifyTriangles(m *mesh.TriMesh) FaceGroups {
	var g FaceGroups
	for t := 0; t < m.TriangleCount(); t++ {
		ny := m.TriangleNormal(t).Y
		switch {
		case ny > 1-upTolerance:
			g.Top = append(g.Top, t)
		case ny < -(1 - upTolerance):
			g.Bottom = append(g.Bottom, t)
		default:
			g.Sides = append(g.Sides, t)
		}
	}
	return g
}

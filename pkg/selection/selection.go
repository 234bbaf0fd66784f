// Package selection classifies picks into shape, face, or edge selections
// and manages the single highlight slot. Face selection clusters triangles
// by comparing each face normal against the clicked (seed) triangle's normal
// under a fixed angle tolerance. This is a global scan, not an adjacency
// flood-fill: two disjoint but parallel faces of the same mesh merge into
// one logical face. That is a known approximation carried over on purpose.
package selection

import (
	"math"
	"sort"

	"github.com/bellapacx/cadeditor/pkg/mesh"
	"github.com/bellapacx/cadeditor/pkg/pick"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// FaceAngleTolerance is the maximum angle (radians) between a triangle's
// normal and the seed normal for the triangle to join the face cluster.
const FaceAngleTolerance = 0.2

// Highlight color written into the vertices of a selected face.
const (
	highlightR = 1.0
	highlightG = 0.55
	highlightB = 0.1
)

// Kind is the granularity of a selection.
type Kind int

const (
	KindShape Kind = iota
	KindFace
	KindEdge
)

func (k Kind) String() string {
	switch k {
	case KindShape:
		return "shape"
	case KindFace:
		return "face"
	case KindEdge:
		return "edge"
	default:
		return "unknown"
	}
}

// Mode is the caller-requested granularity override.
type Mode int

const (
	ModeDefault Mode = iota // face selection
	ModeFace
	ModeEdge
	ModeShape // whole-shape modifier held
)

// Selection is the transient result of a successful pick classification.
// Triangles, Area, and Normal are populated for face selections only;
// EdgeLength is populated for edge selections with a wireframe companion.
type Selection struct {
	Mesh          *mesh.TriMesh
	Kind          Kind
	Triangles     []int // sorted ascending, non-empty iff Kind == KindFace
	Normal        v3.Vec
	Area          float64
	EdgeLength    float64
	HasEdgeLength bool
}

// WireframeFunc looks up the pre-computed wireframe companion of a mesh.
// Returning nil means the mesh has no companion; edge selections then carry
// no edge length rather than failing.
type WireframeFunc func(*mesh.TriMesh) *mesh.Wireframe

// highlightKind tags the classifier's owned highlight state so that illegal
// combinations (face highlight without a triangle list) cannot be expressed.
type highlightKind int

const (
	highlightNone highlightKind = iota
	highlightShape
	highlightFace
)

type highlightState struct {
	kind      highlightKind
	mesh      *mesh.TriMesh
	triangles []int // face highlight only
}

// Classifier turns picks into selections and owns the single live selection
// and highlight slot. It is not safe for concurrent use; the host delivers
// events one at a time.
type Classifier struct {
	wireframes WireframeFunc
	current    *Selection
	highlight  highlightState
}

// NewClassifier creates a Classifier. wf may be nil when no mesh has a
// wireframe companion.
func NewClassifier(wf WireframeFunc) *Classifier {
	return &Classifier{wireframes: wf}
}

// Current returns the live selection, or nil.
func (c *Classifier) Current() *Selection {
	return c.current
}

// Select picks along the ray and classifies the result. A miss clears any
// existing highlight and returns nil. On success the previous highlight is
// cleared, the new one applied, and the live selection replaced.
func (c *Classifier) Select(ray pick.Ray, candidates []*mesh.TriMesh, mode Mode) *Selection {
	hit := pick.Pick(ray, candidates)
	if hit == nil {
		c.ClearHighlight()
		c.current = nil
		return nil
	}

	sel := c.classify(hit, mode)
	c.ClearHighlight()
	c.applyHighlight(sel)
	c.current = sel
	return sel
}

// Deselect drops the live selection and restores the highlight.
func (c *Classifier) Deselect() {
	c.ClearHighlight()
	c.current = nil
}

// classify builds a Selection from a hit without touching highlight state.
func (c *Classifier) classify(hit *pick.Hit, mode Mode) *Selection {
	m := hit.Mesh

	// A hit on a mesh without usable triangle data degrades to shape.
	if mode == ModeShape || m.TriangleCount() == 0 || hit.TriangleIndex < 0 {
		return &Selection{Mesh: m, Kind: KindShape}
	}

	if mode == ModeEdge {
		sel := &Selection{Mesh: m, Kind: KindEdge}
		if c.wireframes != nil {
			if wf := c.wireframes(m); wf != nil {
				sel.EdgeLength = wf.TotalLength()
				sel.HasEdgeLength = true
			}
		}
		return sel
	}

	// Face: cluster against the clicked triangle's normal.
	seed := m.TriangleNormal(hit.TriangleIndex)
	tris := clusterBySeedNormal(m, seed)
	var area float64
	for _, t := range tris {
		area += m.TriangleArea(t)
	}
	return &Selection{
		Mesh:      m,
		Kind:      KindFace,
		Triangles: tris,
		Normal:    seed,
		Area:      area,
	}
}

// clusterBySeedNormal scans every triangle of the mesh and collects those
// whose face normal is within FaceAngleTolerance of the seed normal. The
// scan is exhaustive rather than adjacency-based, so the result depends only
// on the seed normal, never on pick order.
func clusterBySeedNormal(m *mesh.TriMesh, seed v3.Vec) []int {
	var tris []int
	for t := 0; t < m.TriangleCount(); t++ {
		n := m.TriangleNormal(t)
		if angleBetween(seed, n) < FaceAngleTolerance {
			tris = append(tris, t)
		}
	}
	sort.Ints(tris)
	return tris
}

// angleBetween returns the angle between two unit vectors, clamping the dot
// product against floating point drift outside [-1, 1].
func angleBetween(a, b v3.Vec) float64 {
	d := a.Dot(b)
	if d > 1 {
		d = 1
	} else if d < -1 {
		d = -1
	}
	return math.Acos(d)
}

// applyHighlight marks the selection on its mesh. Shape selections set the
// whole-mesh flag; face selections write the highlight color into every
// vertex referenced by the clustered triangles. Edge selections do not
// touch mesh state (the wireframe companion is the visual cue).
func (c *Classifier) applyHighlight(sel *Selection) {
	switch sel.Kind {
	case KindShape:
		sel.Mesh.Highlighted = true
		c.highlight = highlightState{kind: highlightShape, mesh: sel.Mesh}
	case KindFace:
		for _, t := range sel.Triangles {
			a, b, cc := sel.Mesh.TriangleIndices(t)
			sel.Mesh.SetVertexColor(a, highlightR, highlightG, highlightB)
			sel.Mesh.SetVertexColor(b, highlightR, highlightG, highlightB)
			sel.Mesh.SetVertexColor(cc, highlightR, highlightG, highlightB)
		}
		tris := make([]int, len(sel.Triangles))
		copy(tris, sel.Triangles)
		c.highlight = highlightState{kind: highlightFace, mesh: sel.Mesh, triangles: tris}
	}
}

// ClearHighlight restores the previously highlighted mesh to its neutral
// state. The restore is scoped to exactly what was highlighted (the flag
// for a shape, the clustered triangles' vertices for a face), so unrelated
// meshes and vertices are never clobbered. Calling it with nothing
// highlighted is a no-op.
func (c *Classifier) ClearHighlight() {
	switch c.highlight.kind {
	case highlightShape:
		c.highlight.mesh.Highlighted = false
	case highlightFace:
		for _, t := range c.highlight.triangles {
			a, b, cc := c.highlight.mesh.TriangleIndices(t)
			c.highlight.mesh.SetVertexColor(a, mesh.NeutralR, mesh.NeutralG, mesh.NeutralB)
			c.highlight.mesh.SetVertexColor(b, mesh.NeutralR, mesh.NeutralG, mesh.NeutralB)
			c.highlight.mesh.SetVertexColor(cc, mesh.NeutralR, mesh.NeutralG, mesh.NeutralB)
		}
	}
	c.highlight = highlightState{}
}

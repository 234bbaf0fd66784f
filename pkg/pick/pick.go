// Package pick implements the picking engine: ray queries against triangle
// meshes and construction planes. All operations are pure; nothing in this
// package mutates a mesh.
package pick

import (
	"github.com/bellapacx/cadeditor/pkg/mesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// epsilon below which a ray is considered parallel to a surface.
const parallelEps = 1e-9

// Ray is a half-line in world space. Direction must be normalized by the
// caller (the host derives it from the camera and viewport).
type Ray struct {
	Origin    v3.Vec
	Direction v3.Vec
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) v3.Vec {
	return r.Origin.Add(r.Direction.MulScalar(t))
}

// Plane is an infinite plane through Point with unit Normal.
type Plane struct {
	Point  v3.Vec
	Normal v3.Vec
}

// GroundPlane returns the default construction plane: normal +Y, through
// the origin.
func GroundPlane() Plane {
	return Plane{Normal: v3.Vec{Y: 1}}
}

// Hit describes the nearest intersection found by Pick.
type Hit struct {
	Mesh          *mesh.TriMesh
	TriangleIndex int
	Point         v3.Vec // world-space intersection point
	Normal        v3.Vec // interpolated (face) normal at the hit
	Distance      float64
}

// Pick casts the ray against every candidate mesh and returns the hit with
// the smallest positive distance, or nil when nothing is hit. Exact distance
// ties resolve to the earliest candidate in input order, which keeps results
// deterministic for overlapping geometry.
func Pick(ray Ray, candidates []*mesh.TriMesh) *Hit {
	var best *Hit
	for _, m := range candidates {
		if m == nil || m.IsEmpty() {
			continue
		}
		for t := 0; t < m.TriangleCount(); t++ {
			a, b, c := m.Triangle(t)
			dist, ok := rayTriangle(ray, a, b, c)
			if !ok {
				continue
			}
			if best != nil && dist >= best.Distance {
				continue
			}
			best = &Hit{
				Mesh:          m,
				TriangleIndex: t,
				Point:         ray.At(dist),
				Normal:        m.TriangleNormal(t),
				Distance:      dist,
			}
		}
	}
	return best
}

// IntersectPlane returns the point where the ray crosses the plane. The
// second result is false when the ray is parallel to the plane (within a
// small tolerance) or the intersection lies behind the ray origin.
func IntersectPlane(ray Ray, plane Plane) (v3.Vec, bool) {
	denom := ray.Direction.Dot(plane.Normal)
	if denom > -parallelEps && denom < parallelEps {
		return v3.Vec{}, false
	}
	t := plane.Point.Sub(ray.Origin).Dot(plane.Normal) / denom
	if t < 0 {
		return v3.Vec{}, false
	}
	return ray.At(t), true
}

// rayTriangle is the Moller-Trumbore ray/triangle intersection test.
// Returns the distance along the ray and whether the triangle was hit at a
// positive distance. Back faces are reported like front faces; the editor
// picks whatever surface is nearest.
func rayTriangle(ray Ray, a, b, c v3.Vec) (float64, bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)

	p := ray.Direction.Cross(e2)
	det := e1.Dot(p)
	if det > -parallelEps && det < parallelEps {
		return 0, false // ray parallel to triangle plane
	}
	inv := 1.0 / det

	s := ray.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(e1)
	v := ray.Direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := e2.Dot(q) * inv
	if t <= parallelEps {
		return 0, false // behind or on the ray origin
	}
	return t, true
}

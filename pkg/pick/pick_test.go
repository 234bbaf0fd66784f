package pick

import (
	"math"
	"testing"

	"github.com/bellapacx/cadeditor/pkg/mesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// squareAt builds a unit square on the plane y = height, from (0, y, 0) to
// (1, y, 1), as two indexed triangles with +Y face normals.
func squareAt(height float32) *mesh.TriMesh {
	return &mesh.TriMesh{
		Vertices: []float32{
			0, height, 0,
			0, height, 1,
			1, height, 1,
			1, height, 0,
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}

// downRay points straight down from y=10 above the given x/z.
func downRay(x, z float64) Ray {
	return Ray{
		Origin:    v3.Vec{X: x, Y: 10, Z: z},
		Direction: v3.Vec{Y: -1},
	}
}

func TestPickMiss(t *testing.T) {
	tests := []struct {
		name       string
		ray        Ray
		candidates []*mesh.TriMesh
	}{
		{"no candidates", downRay(0.5, 0.5), nil},
		{"nil mesh", downRay(0.5, 0.5), []*mesh.TriMesh{nil}},
		{"empty mesh", downRay(0.5, 0.5), []*mesh.TriMesh{{}}},
		{"ray beside mesh", downRay(5, 5), []*mesh.TriMesh{squareAt(0)}},
		{"ray pointing away", Ray{Origin: v3.Vec{X: 0.5, Y: 10, Z: 0.5}, Direction: v3.Vec{Y: 1}}, []*mesh.TriMesh{squareAt(0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if hit := Pick(tt.ray, tt.candidates); hit != nil {
				t.Errorf("Pick() = %+v, want nil", hit)
			}
		})
	}
}

func TestPickHit(t *testing.T) {
	m := squareAt(0)
	hit := Pick(downRay(0.25, 0.75), []*mesh.TriMesh{m})
	if hit == nil {
		t.Fatal("Pick() = nil, want a hit")
	}
	if hit.Mesh != m {
		t.Error("hit reports the wrong mesh")
	}
	// (0.25, 0.75) lies in the first triangle (0,0)-(0,1)-(1,1).
	if hit.TriangleIndex != 0 {
		t.Errorf("TriangleIndex = %d, want 0", hit.TriangleIndex)
	}
	if math.Abs(hit.Distance-10) > 1e-9 {
		t.Errorf("Distance = %g, want 10", hit.Distance)
	}
	want := v3.Vec{X: 0.25, Y: 0, Z: 0.75}
	if hit.Point.Sub(want).Length() > 1e-9 {
		t.Errorf("Point = %v, want %v", hit.Point, want)
	}
	if math.Abs(hit.Normal.Y-1) > 1e-9 {
		t.Errorf("Normal = %v, want +Y", hit.Normal)
	}
}

func TestPickSecondTriangle(t *testing.T) {
	hit := Pick(downRay(0.75, 0.25), []*mesh.TriMesh{squareAt(0)})
	if hit == nil {
		t.Fatal("Pick() = nil, want a hit")
	}
	if hit.TriangleIndex != 1 {
		t.Errorf("TriangleIndex = %d, want 1", hit.TriangleIndex)
	}
}

func TestPickNearestAcrossMeshes(t *testing.T) {
	low := squareAt(0)
	high := squareAt(5)

	// The higher square is closer to a ray falling from y=10.
	hit := Pick(downRay(0.5, 0.5), []*mesh.TriMesh{low, high})
	if hit == nil {
		t.Fatal("Pick() = nil, want a hit")
	}
	if hit.Mesh != high {
		t.Error("expected the nearer (higher) mesh to win")
	}
	if math.Abs(hit.Distance-5) > 1e-9 {
		t.Errorf("Distance = %g, want 5", hit.Distance)
	}
}

func TestPickTieFirstCandidateWins(t *testing.T) {
	a := squareAt(0)
	b := squareAt(0)
	hit := Pick(downRay(0.5, 0.5), []*mesh.TriMesh{a, b})
	if hit == nil {
		t.Fatal("Pick() = nil, want a hit")
	}
	if hit.Mesh != a {
		t.Error("exact distance tie must resolve to the first candidate")
	}
}

func TestPickBackface(t *testing.T) {
	// Ray from below pointing up hits the back of the +Y-facing square.
	ray := Ray{Origin: v3.Vec{X: 0.5, Y: -3, Z: 0.5}, Direction: v3.Vec{Y: 1}}
	hit := Pick(ray, []*mesh.TriMesh{squareAt(0)})
	if hit == nil {
		t.Fatal("back faces must be pickable")
	}
	if math.Abs(hit.Distance-3) > 1e-9 {
		t.Errorf("Distance = %g, want 3", hit.Distance)
	}
}

func TestIntersectPlane(t *testing.T) {
	ground := GroundPlane()

	tests := []struct {
		name   string
		ray    Ray
		plane  Plane
		want   v3.Vec
		wantOK bool
	}{
		{
			name:   "straight down",
			ray:    downRay(1.5, -2),
			plane:  ground,
			want:   v3.Vec{X: 1.5, Y: 0, Z: -2},
			wantOK: true,
		},
		{
			name:   "diagonal",
			ray:    Ray{Origin: v3.Vec{Y: 1}, Direction: v3.Vec{X: 1, Y: -1}.Normalize()},
			plane:  ground,
			want:   v3.Vec{X: 1},
			wantOK: true,
		},
		{
			name:   "parallel",
			ray:    Ray{Origin: v3.Vec{Y: 1}, Direction: v3.Vec{X: 1}},
			plane:  ground,
			wantOK: false,
		},
		{
			name:   "behind origin",
			ray:    Ray{Origin: v3.Vec{Y: 1}, Direction: v3.Vec{Y: 1}},
			plane:  ground,
			wantOK: false,
		},
		{
			name:   "offset plane",
			ray:    downRay(0, 0),
			plane:  Plane{Point: v3.Vec{Y: 2}, Normal: v3.Vec{Y: 1}},
			want:   v3.Vec{Y: 2},
			wantOK: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := IntersectPlane(tt.ray, tt.plane)
			if ok != tt.wantOK {
				t.Fatalf("IntersectPlane() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got.Sub(tt.want).Length() > 1e-9 {
				t.Errorf("IntersectPlane() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRayAt(t *testing.T) {
	r := Ray{Origin: v3.Vec{X: 1}, Direction: v3.Vec{Y: 2}}
	p := r.At(3)
	want := v3.Vec{X: 1, Y: 6}
	if p.Sub(want).Length() > 1e-12 {
		t.Errorf("At(3) = %v, want %v", p, want)
	}
}

// Package kernel defines the abstract primitive-solid kernel interface.
// Implementations (sdfx) provide box/sphere/cylinder construction and
// meshing behind this interface so the editor and the scene importer never
// depend on a specific geometry backend. Boolean operations are out of
// scope for this editor (no CSG).
package kernel

import (
	"github.com/bellapacx/cadeditor/pkg/mesh"
)

// Solid is an opaque handle to a kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract primitive-solid kernel interface.
type Kernel interface {
	// Primitives, centered at the origin.
	Box(x, y, z float64) Solid
	Sphere(radius float64) Solid
	Cylinder(height, radius float64) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// Mesh output
	ToMesh(s Solid) (*mesh.TriMesh, error)
}

// Package scene owns the registry of pickable objects and the persisted
// scene representation. Every object pairs a triangle mesh with its
// serialization record and an optional wireframe companion used for
// edge-length measurement.
package scene

import (
	"fmt"

	"github.com/bellapacx/cadeditor/pkg/mesh"
	"github.com/bellapacx/cadeditor/pkg/sketch"
)

// Object is one registered scene entry. The mesh holds world-space
// geometry; the record carries the transform and classification needed to
// rebuild it on import.
type Object struct {
	ID        int
	Name      string
	Mesh      *mesh.TriMesh
	Wireframe *mesh.Wireframe
	Record    Record
}

// Scene is the ordered registry of scene objects. Order is preserved so
// that picking tie-breaks and exports stay deterministic.
type Scene struct {
	objects []*Object
	nextID  int
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{nextID: 1}
}

// Add registers a mesh with its record. The mesh's index buffer is checked
// against its vertex count; a malformed mesh is a contract violation from
// the caller and is rejected.
func (s *Scene) Add(name string, m *mesh.TriMesh, wf *mesh.Wireframe, rec Record) (*Object, error) {
	if err := ValidateMesh(m); err != nil {
		return nil, fmt.Errorf("scene: add %q: %w", name, err)
	}
	if m.Name == "" {
		m.Name = name
	}
	obj := &Object{
		ID:        s.nextID,
		Name:      name,
		Mesh:      m,
		Wireframe: wf,
		Record:    rec,
	}
	s.nextID++
	s.objects = append(s.objects, obj)
	return obj, nil
}

// AddExtruded registers a committed sketch solid, deriving its record and
// wireframe companion from the extrusion parameters.
func (s *Scene) AddExtruded(name string, solid *sketch.ExtrudedSolid) (*Object, error) {
	return s.Add(name, solid.Mesh, solid.Wireframe(), RecordForExtruded(solid))
}

// Remove deletes the object with the given ID. Removing an unknown ID is a
// no-op.
func (s *Scene) Remove(id int) {
	for i, obj := range s.objects {
		if obj.ID == id {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			return
		}
	}
}

// Get returns the object with the given ID, or nil.
func (s *Scene) Get(id int) *Object {
	for _, obj := range s.objects {
		if obj.ID == id {
			return obj
		}
	}
	return nil
}

// Len returns the number of registered objects.
func (s *Scene) Len() int {
	return len(s.objects)
}

// Objects returns the registered objects in insertion order.
func (s *Scene) Objects() []*Object {
	return s.objects
}

// Meshes returns the pickable meshes in insertion order, suitable for
// passing straight to the picking engine.
func (s *Scene) Meshes() []*mesh.TriMesh {
	out := make([]*mesh.TriMesh, 0, len(s.objects))
	for _, obj := range s.objects {
		out = append(out, obj.Mesh)
	}
	return out
}

// ByMesh returns the object owning the given mesh, or nil.
func (s *Scene) ByMesh(m *mesh.TriMesh) *Object {
	for _, obj := range s.objects {
		if obj.Mesh == m {
			return obj
		}
	}
	return nil
}

// WireframeFor looks up the wireframe companion of a mesh. It satisfies
// the selection classifier's lookup capability.
func (s *Scene) WireframeFor(m *mesh.TriMesh) *mesh.Wireframe {
	if obj := s.ByMesh(m); obj != nil {
		return obj.Wireframe
	}
	return nil
}

// Clear removes all objects.
func (s *Scene) Clear() {
	s.objects = nil
}

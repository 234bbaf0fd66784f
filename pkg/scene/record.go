package scene

import (
	"encoding/json"
	"fmt"

	"github.com/bellapacx/cadeditor/pkg/kernel"
	"github.com/bellapacx/cadeditor/pkg/sketch"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ShapeType identifies the construction recipe of a persisted object.
type ShapeType string

const (
	ShapeBox      ShapeType = "box"
	ShapeSphere   ShapeType = "sphere"
	ShapeCylinder ShapeType = "cylinder"
	ShapeExtruded ShapeType = "extruded"
)

// Outline values for extruded records.
const (
	OutlineRectangle = "rectangle"
	OutlineCircle    = "circle"
)

// Record is the persisted form of one scene object. Dimensions are
// per-shape: box [x,y,z], sphere [r,r,r], cylinder [radius,height,radius],
// extruded rectangle [width,height,depth], extruded circle
// [radius,height,radius]. The outline field distinguishes the two extruded
// forms; faceGroups is carried for extruded solids only.
type Record struct {
	ShapeType  ShapeType          `json:"shapeType"`
	Position   [3]float64         `json:"position"`
	Rotation   [3]float64         `json:"rotation"`
	Scale      [3]float64         `json:"scale"`
	Dimensions *[3]float64        `json:"dimensions,omitempty"`
	Outline    string             `json:"outline,omitempty"`
	FaceGroups *sketch.FaceGroups `json:"faceGroups,omitempty"`
}

// Document is the export framing: a versioned sequence of records.
type Document struct {
	Version string   `json:"version"`
	Records []Record `json:"records"`
}

// DocumentVersion is written into every export.
const DocumentVersion = "1"

// RecordForExtruded derives the persisted record of a committed sketch
// solid.
func RecordForExtruded(s *sketch.ExtrudedSolid) Record {
	groups := s.Groups
	rec := Record{
		ShapeType:  ShapeExtruded,
		Position:   [3]float64{s.Center.X, s.Center.Y, s.Center.Z},
		Scale:      [3]float64{1, 1, 1},
		FaceGroups: &groups,
	}
	if s.Tool == sketch.ToolCircle {
		rec.Outline = OutlineCircle
		rec.Dimensions = &[3]float64{s.Radius, s.Height, s.Radius}
	} else {
		rec.Outline = OutlineRectangle
		rec.Dimensions = &[3]float64{s.Width, s.Height, s.Depth}
	}
	return rec
}

// RecordForPrimitive builds the persisted record of a kernel primitive.
func RecordForPrimitive(shape ShapeType, position, rotation, dims [3]float64) Record {
	d := dims
	return Record{
		ShapeType:  shape,
		Position:   position,
		Rotation:   rotation,
		Scale:      [3]float64{1, 1, 1},
		Dimensions: &d,
	}
}

// Export serializes the scene to the persisted document form.
func (s *Scene) Export() ([]byte, error) {
	doc := Document{Version: DocumentVersion}
	for _, obj := range s.objects {
		doc.Records = append(doc.Records, obj.Record)
	}
	return json.MarshalIndent(&doc, "", "  ")
}

// Import replaces the scene contents with the objects described by a
// previously exported document. Records are validated first; any blocking
// validation error aborts the import with the scene untouched. Meshes are
// rebuilt from the records (primitives through the kernel, extrusions
// through the sketch extruder), so transforms and face classifications
// round-trip within float tolerance.
func (s *Scene) Import(data []byte, k kernel.Kernel) error {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("scene: import: %w", err)
	}
	return s.ImportDocument(&doc, k)
}

// ImportDocument is Import without the JSON framing, for callers that
// already hold a document (the scripting console produces one directly).
func (s *Scene) ImportDocument(doc *Document, k kernel.Kernel) error {
	errs, _ := ValidateDocument(doc)
	if len(errs) > 0 {
		return fmt.Errorf("scene: import: %s", errs[0].Message)
	}

	var objects []*Object
	for i, rec := range doc.Records {
		obj, err := buildObject(rec, k)
		if err != nil {
			return fmt.Errorf("scene: import record %d: %w", i, err)
		}
		objects = append(objects, obj)
	}

	s.objects = nil
	s.nextID = 1
	for _, obj := range objects {
		obj.ID = s.nextID
		s.nextID++
		s.objects = append(s.objects, obj)
	}
	return nil
}

// AddRecord builds a record's geometry and registers the result. Create mode
// and the importer share this build path, so a created object and its
// re-imported twin are constructed identically.
func (s *Scene) AddRecord(name string, rec Record, k kernel.Kernel) (*Object, error) {
	obj, err := buildObject(rec, k)
	if err != nil {
		return nil, fmt.Errorf("scene: add record: %w", err)
	}
	if name == "" {
		name = obj.Name
	}
	return s.Add(name, obj.Mesh, obj.Wireframe, obj.Record)
}

// buildObject rebuilds one object from its record.
func buildObject(rec Record, k kernel.Kernel) (*Object, error) {
	if rec.ShapeType == ShapeExtruded {
		return buildExtruded(rec)
	}
	return buildPrimitive(rec, k)
}

// buildExtruded re-runs the extruder with the recorded parameters and
// cross-checks the recorded face groups against the rebuilt ones.
func buildExtruded(rec Record) (*Object, error) {
	dims := *rec.Dimensions
	base := v3.Vec{
		X: rec.Position[0],
		Y: rec.Position[1] - dims[1]/2,
		Z: rec.Position[2],
	}

	var solid *sketch.ExtrudedSolid
	if rec.Outline == OutlineCircle {
		solid = sketch.ExtrudeCircle(base, dims[0], dims[1], sketch.DefaultSegments)
	} else {
		solid = sketch.ExtrudeRectangle(base, dims[0], dims[2], dims[1])
	}

	if rec.FaceGroups != nil && !sameGroupSizes(*rec.FaceGroups, solid.Groups) {
		return nil, fmt.Errorf("recorded face groups do not match rebuilt solid")
	}

	name := fmt.Sprintf("extruded-%s", rec.Outline)
	return &Object{
		Name:      name,
		Mesh:      solid.Mesh,
		Wireframe: solid.Wireframe(),
		Record:    RecordForExtruded(solid),
	}, nil
}

// buildPrimitive constructs a kernel solid per the record and meshes it.
func buildPrimitive(rec Record, k kernel.Kernel) (*Object, error) {
	dims := [3]float64{1, 1, 1}
	if rec.Dimensions != nil {
		dims = *rec.Dimensions
	}

	var solid kernel.Solid
	switch rec.ShapeType {
	case ShapeBox:
		solid = k.Box(dims[0], dims[1], dims[2])
	case ShapeSphere:
		solid = k.Sphere(dims[0])
	case ShapeCylinder:
		solid = k.Cylinder(dims[1], dims[0])
	default:
		return nil, fmt.Errorf("unknown shape type %q", rec.ShapeType)
	}

	if rec.Rotation != ([3]float64{}) {
		solid = k.Rotate(solid, rec.Rotation[0], rec.Rotation[1], rec.Rotation[2])
	}
	if rec.Position != ([3]float64{}) {
		solid = k.Translate(solid, rec.Position[0], rec.Position[1], rec.Position[2])
	}

	m, err := k.ToMesh(solid)
	if err != nil {
		return nil, fmt.Errorf("mesh %s: %w", rec.ShapeType, err)
	}

	return &Object{
		Name:   string(rec.ShapeType),
		Mesh:   m,
		Record: rec,
	}, nil
}

// sameGroupSizes compares two face group partitions by bucket size. The
// rebuilt solid regenerates identical triangle order, so matching sizes is
// the round-trip check that matters without pinning the exact index lists.
func sameGroupSizes(a, b sketch.FaceGroups) bool {
	return len(a.Top) == len(b.Top) &&
		len(a.Bottom) == len(b.Bottom) &&
		len(a.Sides) == len(b.Sides)
}

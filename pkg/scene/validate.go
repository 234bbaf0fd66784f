package scene

import (
	"fmt"
	"math"

	"github.com/bellapacx/cadeditor/pkg/mesh"
	"github.com/bellapacx/cadeditor/pkg/sketch"
)

// Severity distinguishes blocking errors from advisory warnings.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// ValidationError is a blocking problem with a persisted record.
type ValidationError struct {
	Record   int // index into Document.Records
	Message  string
	Severity Severity
}

// ValidationWarning is an advisory problem that does not block an import.
type ValidationWarning struct {
	Record  int
	Message string
}

// ValidateDocument runs all record-level checks on a document.
// Returns errors (blocking) and warnings (advisory) separately.
func ValidateDocument(doc *Document) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	for i, rec := range doc.Records {
		errs = append(errs, validateShape(i, rec)...)
		errs = append(errs, validateNumbers(i, rec)...)
		errs = append(errs, validateFaceGroups(i, rec)...)
		warnings = append(warnings, validateScale(i, rec)...)
	}

	return errs, warnings
}

// validateShape checks the shape type and its required fields.
func validateShape(i int, rec Record) []ValidationError {
	var errs []ValidationError
	switch rec.ShapeType {
	case ShapeBox, ShapeSphere, ShapeCylinder:
	case ShapeExtruded:
		if rec.Outline != OutlineRectangle && rec.Outline != OutlineCircle {
			errs = append(errs, ValidationError{
				Record:   i,
				Message:  fmt.Sprintf("extruded record has unknown outline %q", rec.Outline),
				Severity: SeverityError,
			})
		}
		if rec.Dimensions == nil {
			errs = append(errs, ValidationError{
				Record:   i,
				Message:  "extruded record is missing dimensions",
				Severity: SeverityError,
			})
		}
	default:
		errs = append(errs, ValidationError{
			Record:   i,
			Message:  fmt.Sprintf("unknown shape type %q", rec.ShapeType),
			Severity: SeverityError,
		})
	}
	return errs
}

// validateNumbers checks that every numeric field is finite and that
// dimensions are positive.
func validateNumbers(i int, rec Record) []ValidationError {
	var errs []ValidationError

	finite := func(name string, vals [3]float64) {
		for _, v := range vals {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				errs = append(errs, ValidationError{
					Record:   i,
					Message:  fmt.Sprintf("%s contains a non-finite component", name),
					Severity: SeverityError,
				})
				return
			}
		}
	}
	finite("position", rec.Position)
	finite("rotation", rec.Rotation)
	finite("scale", rec.Scale)

	if rec.Dimensions != nil {
		finite("dimensions", *rec.Dimensions)
		for _, d := range *rec.Dimensions {
			if d <= 0 {
				errs = append(errs, ValidationError{
					Record:   i,
					Message:  fmt.Sprintf("dimension %.4f must be positive", d),
					Severity: SeverityError,
				})
				break
			}
		}
	}

	return errs
}

// validateScale warns about non-unit scale, which the rebuild path does not
// apply (the editor always bakes geometry at unit scale).
func validateScale(i int, rec Record) []ValidationWarning {
	if rec.Scale == ([3]float64{1, 1, 1}) || rec.Scale == ([3]float64{}) {
		return nil
	}
	return []ValidationWarning{{
		Record:  i,
		Message: fmt.Sprintf("non-unit scale %v is ignored on import", rec.Scale),
	}}
}

// validateFaceGroups checks that a recorded classification is a plausible
// partition: no triangle index may appear in more than one group and none
// may be negative. Completeness against the rebuilt mesh is checked during
// import, once the triangle count is known.
func validateFaceGroups(i int, rec Record) []ValidationError {
	if rec.FaceGroups == nil {
		return nil
	}
	var errs []ValidationError
	seen := make(map[int]bool)
	check := func(group string, tris []int) {
		for _, t := range tris {
			if t < 0 {
				errs = append(errs, ValidationError{
					Record:   i,
					Message:  fmt.Sprintf("faceGroups.%s contains negative index %d", group, t),
					Severity: SeverityError,
				})
				return
			}
			if seen[t] {
				errs = append(errs, ValidationError{
					Record:   i,
					Message:  fmt.Sprintf("triangle %d appears in more than one face group", t),
					Severity: SeverityError,
				})
				return
			}
			seen[t] = true
		}
	}
	check("top", rec.FaceGroups.Top)
	check("bottom", rec.FaceGroups.Bottom)
	check("sides", rec.FaceGroups.Sides)
	return errs
}

// ValidateMesh checks a mesh's index buffer against its vertex count. An
// out-of-range index is a contract violation by the mesh producer, reported
// as an error rather than silently handled.
func ValidateMesh(m *mesh.TriMesh) error {
	if m == nil {
		return fmt.Errorf("nil mesh")
	}
	if len(m.Vertices)%3 != 0 {
		return fmt.Errorf("vertex buffer length %d is not a multiple of 3", len(m.Vertices))
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("index buffer length %d is not a multiple of 3", len(m.Indices))
	}
	vc := m.VertexCount()
	for _, idx := range m.Indices {
		if int(idx) >= vc {
			return fmt.Errorf("index %d out of range for %d vertices", idx, vc)
		}
	}
	return nil
}

// ValidatePartition checks that face groups cover every triangle of a mesh
// exactly once.
func ValidatePartition(m *mesh.TriMesh, g sketch.FaceGroups) error {
	total := m.TriangleCount()
	seen := make(map[int]bool, total)
	for _, group := range [][]int{g.Top, g.Bottom, g.Sides} {
		for _, t := range group {
			if t < 0 || t >= total {
				return fmt.Errorf("face group index %d out of range for %d triangles", t, total)
			}
			if seen[t] {
				return fmt.Errorf("triangle %d classified twice", t)
			}
			seen[t] = true
		}
	}
	if len(seen) != total {
		return fmt.Errorf("face groups cover %d of %d triangles", len(seen), total)
	}
	return nil
}

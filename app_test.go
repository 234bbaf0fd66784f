package main

import (
	"math"
	"testing"

	"github.com/bellapacx/cadeditor/pkg/kernel"
	"github.com/bellapacx/cadeditor/pkg/mesh"
)

// fakeKernel meshes every solid as a single triangle and counts calls, so
// app tests never run the real SDF tessellation.
type fakeSolid struct{}

func (fakeSolid) BoundingBox() (min, max [3]float64) { return }

type fakeKernel struct {
	boxes, spheres, cylinders int
}

func (k *fakeKernel) Box(x, y, z float64) kernel.Solid {
	k.boxes++
	return fakeSolid{}
}

func (k *fakeKernel) Sphere(radius float64) kernel.Solid {
	k.spheres++
	return fakeSolid{}
}

func (k *fakeKernel) Cylinder(height, radius float64) kernel.Solid {
	k.cylinders++
	return fakeSolid{}
}

func (k *fakeKernel) Translate(s kernel.Solid, _, _, _ float64) kernel.Solid { return s }
func (k *fakeKernel) Rotate(s kernel.Solid, _, _, _ float64) kernel.Solid   { return s }

func (k *fakeKernel) ToMesh(_ kernel.Solid) (*mesh.TriMesh, error) {
	return &mesh.TriMesh{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 0, 1},
		Normals:  []float32{0, 1, 0, 0, 1, 0, 0, 1, 0},
		Indices:  []uint32{0, 1, 2},
	}, nil
}

var _ kernel.Kernel = (*fakeKernel)(nil)

// TestSketchAndSelectFlow walks the full interactive path: drag a rectangle
// sketch, commit it, then click its top face in select mode. This is the
// same path the pointer bindings take, but without the Wails runtime.
func TestSketchAndSelectFlow(t *testing.T) {
	app := newApp(&fakeKernel{})

	if err := app.SetMode(ModeSketch); err != nil {
		t.Fatalf("SetMode() error = %v", err)
	}
	if err := app.SetTool("rectangle"); err != nil {
		t.Fatalf("SetTool() error = %v", err)
	}

	// Drag from the origin to (2, 1) with rays falling straight down.
	app.PointerDown(0, 10, 0, 0, -1, 0, "")
	pv := app.PointerMove(2, 10, 1, 0, -1, 0)
	if pv == nil {
		t.Fatal("PointerMove() = nil during a drag")
	}
	if math.Abs(pv.Width-2) > 1e-9 || math.Abs(pv.Depth-1) > 1e-9 {
		t.Errorf("preview = %g x %g, want 2 x 1", pv.Width, pv.Depth)
	}

	md := app.PointerUp()
	if md == nil {
		t.Fatal("PointerUp() = nil, want the committed mesh")
	}
	if md.ObjectID != 1 {
		t.Errorf("ObjectID = %d, want 1", md.ObjectID)
	}
	if len(app.SceneMeshes()) != 1 {
		t.Fatalf("SceneMeshes() = %d entries, want 1", len(app.SceneMeshes()))
	}

	// Click the top face.
	if err := app.SetMode(ModeSelect); err != nil {
		t.Fatalf("SetMode() error = %v", err)
	}
	sel := app.PointerDown(1, 10, 0.5, 0, -1, 0, "")
	if sel == nil {
		t.Fatal("PointerDown() in select mode = nil, want a selection")
	}
	if sel.Kind != "face" {
		t.Errorf("Kind = %q, want face", sel.Kind)
	}
	if sel.ObjectID != 1 {
		t.Errorf("selection ObjectID = %d, want 1", sel.ObjectID)
	}
	if math.Abs(sel.Area-2.0) > 1e-9 {
		t.Errorf("Area = %g, want the 2x1 top face", sel.Area)
	}
	if app.Selection() == nil {
		t.Error("Selection() lost the live selection")
	}

	// Edge modifier measures the wireframe companion.
	edge := app.PointerDown(1, 10, 0.5, 0, -1, 0, "edge")
	if edge == nil || edge.Kind != "edge" {
		t.Fatalf("edge selection = %+v", edge)
	}
	if !edge.HasEdgeLength {
		t.Fatal("committed sketch has no wireframe edge length")
	}
	// Base perimeter 6, top perimeter 6, four unit verticals.
	if math.Abs(edge.EdgeLength-16.0) > 1e-9 {
		t.Errorf("EdgeLength = %g, want 16.0", edge.EdgeLength)
	}

	// Shape modifier flags the whole mesh.
	shape := app.PointerDown(1, 10, 0.5, 0, -1, 0, "shape")
	if shape == nil || shape.Kind != "shape" {
		t.Fatalf("shape selection = %+v", shape)
	}
	if !app.SceneMeshes()[0].Highlighted {
		t.Error("shape selection did not set the highlight flag")
	}

	app.ClearSelection()
	if app.Selection() != nil {
		t.Error("Selection() survives ClearSelection")
	}
	if app.SceneMeshes()[0].Highlighted {
		t.Error("highlight flag survives ClearSelection")
	}
}

func TestPointerUpWithoutDrag(t *testing.T) {
	app := newApp(&fakeKernel{})
	app.SetMode(ModeSketch)
	if md := app.PointerUp(); md != nil {
		t.Errorf("PointerUp() without a drag = %+v, want nil", md)
	}
}

func TestSwitchingModeCancelsSketch(t *testing.T) {
	app := newApp(&fakeKernel{})
	app.SetMode(ModeSketch)
	app.PointerDown(0, 10, 0, 0, -1, 0, "")

	app.SetMode(ModeSelect)
	app.SetMode(ModeSketch)
	if md := app.PointerUp(); md != nil {
		t.Errorf("drag survived a mode switch: %+v", md)
	}
}

func TestSetModeInvalid(t *testing.T) {
	app := newApp(&fakeKernel{})
	if err := app.SetMode("paint"); err == nil {
		t.Error("SetMode() accepted an unknown mode")
	}
	if err := app.SetTool("triangle"); err == nil {
		t.Error("SetTool() accepted an unknown tool")
	}
}

func TestRemoveObjectClearsSelection(t *testing.T) {
	app := newApp(&fakeKernel{})
	app.SetMode(ModeSketch)
	app.PointerDown(0, 10, 0, 0, -1, 0, "")
	app.PointerMove(2, 10, 1, 0, -1, 0)
	md := app.PointerUp()

	app.SetMode(ModeSelect)
	app.PointerDown(1, 10, 0.5, 0, -1, 0, "")

	app.RemoveObject(md.ObjectID)
	if app.Selection() != nil {
		t.Error("selection survived object removal")
	}
	if len(app.SceneMeshes()) != 0 {
		t.Error("object not removed")
	}
}

func TestAddPrimitive(t *testing.T) {
	k := &fakeKernel{}
	app := newApp(k)

	md, err := app.AddPrimitive("cylinder", [3]float64{0.5, 2, 0.5}, [3]float64{0, 1, 0}, [3]float64{})
	if err != nil {
		t.Fatalf("AddPrimitive() error = %v", err)
	}
	if md.ObjectID != 1 || md.Name != "cylinder" {
		t.Errorf("mesh = %+v, want object 1 named cylinder", md)
	}
	if k.cylinders != 1 {
		t.Errorf("kernel cylinders = %d, want 1", k.cylinders)
	}

	if _, err := app.AddPrimitive("pyramid", [3]float64{1, 1, 1}, [3]float64{}, [3]float64{}); err == nil {
		t.Error("AddPrimitive() accepted an unknown shape")
	}
	if _, err := app.AddPrimitive("box", [3]float64{-1, 1, 1}, [3]float64{}, [3]float64{}); err == nil {
		t.Error("AddPrimitive() accepted a negative dimension")
	}
}

func TestEvaluateEmptySource(t *testing.T) {
	app := newApp(&fakeKernel{})
	result := app.Evaluate("")

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors for empty source: %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes for empty source, got %d", len(result.Meshes))
	}
}

func TestEvaluateSyntaxError(t *testing.T) {
	app := newApp(&fakeKernel{})
	result := app.Evaluate(`(box :width`)

	if len(result.Errors) == 0 {
		t.Fatal("expected eval errors for unbalanced source")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on error, got %d", len(result.Meshes))
	}
}

func TestEvaluateBuildsScene(t *testing.T) {
	k := &fakeKernel{}
	app := newApp(k)

	source := `
; a small scene
(box :width 2 :height 1 :depth 3 :at (vec3 0 0.5 0))
(sphere :radius 1 :at (vec3 3 1 0))
(extrude-rect :width 2 :depth 1 :height 1)
`
	result := app.Evaluate(source)
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}
	if len(result.Meshes) != 3 {
		t.Fatalf("expected 3 meshes, got %d", len(result.Meshes))
	}
	if k.boxes != 1 || k.spheres != 1 {
		t.Errorf("kernel calls: %d boxes, %d spheres, want 1 each", k.boxes, k.spheres)
	}
	for _, m := range result.Meshes {
		if len(m.Vertices) == 0 {
			t.Errorf("object %d: no vertices", m.ObjectID)
		}
		if m.Color == "" {
			t.Errorf("object %d: no color assigned", m.ObjectID)
		}
	}
}

func TestEvaluateReplacesScene(t *testing.T) {
	app := newApp(&fakeKernel{})
	app.Evaluate(`(box)`)
	app.Evaluate(`(sphere) (sphere)`)
	if got := len(app.SceneMeshes()); got != 2 {
		t.Errorf("SceneMeshes() = %d after re-evaluate, want 2", got)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	app := newApp(&fakeKernel{})
	app.SetMode(ModeSketch)
	app.PointerDown(0, 10, 0, 0, -1, 0, "")
	app.PointerMove(2, 10, 1, 0, -1, 0)
	if app.PointerUp() == nil {
		t.Fatal("commit failed")
	}

	data, err := app.ExportScene()
	if err != nil {
		t.Fatalf("ExportScene() error = %v", err)
	}
	if err := app.ImportScene(data); err != nil {
		t.Fatalf("ImportScene() error = %v", err)
	}
	if got := len(app.SceneMeshes()); got != 1 {
		t.Errorf("SceneMeshes() = %d after round trip, want 1", got)
	}
}

func TestImportSceneInvalid(t *testing.T) {
	app := newApp(&fakeKernel{})
	app.Evaluate(`(box)`)

	if err := app.ImportScene(`{"version":"1","records":[{"shapeType":"pyramid"}]}`); err == nil {
		t.Fatal("ImportScene() accepted an unknown shape")
	}
	if got := len(app.SceneMeshes()); got != 1 {
		t.Errorf("failed import changed the scene: %d objects", got)
	}
}

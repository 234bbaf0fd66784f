package main

import (
	"context"
	"fmt"
	"log"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/bellapacx/cadeditor/pkg/engine"
	"github.com/bellapacx/cadeditor/pkg/kernel"
	"github.com/bellapacx/cadeditor/pkg/kernel/sdfx"
	"github.com/bellapacx/cadeditor/pkg/pick"
	"github.com/bellapacx/cadeditor/pkg/scene"
	"github.com/bellapacx/cadeditor/pkg/selection"
	"github.com/bellapacx/cadeditor/pkg/sketch"
)

// colorPalette assigns distinct base colors to scene objects in the viewport.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// Interaction modes for pointer events.
const (
	ModeSelect = "select"
	ModeSketch = "sketch"
)

// App is the Wails backend. It owns the scene registry, the selection
// classifier, the sketch pipeline, and the scripting engine, and exposes
// them to the frontend via bindings.
type App struct {
	ctx        context.Context
	scene      *scene.Scene
	classifier *selection.Classifier
	sketcher   *sketch.Pipeline
	engine     *engine.Engine
	kernel     kernel.Kernel

	mode string
	tool sketch.Tool
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	ObjectID    int       `json:"objectId"`
	Name        string    `json:"name"`
	Vertices    []float32 `json:"vertices"`
	Normals     []float32 `json:"normals"`
	Colors      []float32 `json:"colors,omitempty"`
	Indices     []uint32  `json:"indices"`
	Color       string    `json:"color"`
	Highlighted bool      `json:"highlighted"`
}

// SelectionData describes the live selection for the frontend.
type SelectionData struct {
	Kind          string  `json:"kind"`
	ObjectID      int     `json:"objectId"`
	Name          string  `json:"name"`
	Triangles     []int   `json:"triangles,omitempty"`
	Normal        [3]float64 `json:"normal"`
	Area          float64 `json:"area"`
	EdgeLength    float64 `json:"edgeLength"`
	HasEdgeLength bool    `json:"hasEdgeLength"`
}

// PreviewData is the live sketch outline sent to the frontend during a drag.
type PreviewData struct {
	Tool    string    `json:"tool"`
	Center  [3]float64 `json:"center"`
	Width   float64   `json:"width"`
	Depth   float64   `json:"depth"`
	Radius  float64   `json:"radius"`
	Outline []float32 `json:"outline"` // flat xyz triples, closed loop
}

// EvalErrorData is a JSON-serializable eval error for the frontend console.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full scripting result returned to the frontend.
type EvalResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// NewApp creates an App backed by the sdfx kernel.
func NewApp() *App {
	return newApp(sdfx.New())
}

// newApp wires the app around an arbitrary kernel. Tests inject stubs here.
func newApp(k kernel.Kernel) *App {
	s := scene.New()
	return &App{
		scene:      s,
		classifier: selection.NewClassifier(s.WireframeFor),
		sketcher:   sketch.NewPipeline(sketch.DefaultConfig()),
		engine:     engine.NewEngine(),
		kernel:     k,
		mode:       ModeSelect,
		tool:       sketch.ToolRectangle,
	}
}

// startup is called by Wails on app startup. The context is saved so that
// Wails runtime methods can be called later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// SetMode switches between select and sketch interaction modes. Switching
// away from sketch cancels any drag in progress.
func (a *App) SetMode(mode string) error {
	switch mode {
	case ModeSelect, ModeSketch:
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
	if a.mode == ModeSketch && mode != ModeSketch {
		a.sketcher.Cancel()
	}
	a.mode = mode
	return nil
}

// SetTool selects the sketch outline tool.
func (a *App) SetTool(tool string) error {
	switch tool {
	case "rectangle":
		a.tool = sketch.ToolRectangle
	case "circle":
		a.tool = sketch.ToolCircle
	default:
		return fmt.Errorf("unknown tool %q", tool)
	}
	return nil
}

// SetSketchConfig adjusts the grid and extrusion parameters used by future
// sketch sessions.
func (a *App) SetSketchConfig(gridSize float64, snapEnabled bool, extrudeHeight float64) {
	cfg := a.sketcher.Config()
	cfg.GridSize = gridSize
	cfg.SnapEnabled = snapEnabled
	cfg.ExtrudeHeight = extrudeHeight
	a.sketcher.SetConfig(cfg)
}

// PointerDown handles a pointer press. The ray is given in world space as
// origin and direction components. In select mode the modifier chooses the
// selection granularity ("", "face", "edge", or "shape"); in sketch mode a
// drag session starts on the construction plane.
func (a *App) PointerDown(ox, oy, oz, dx, dy, dz float64, modifier string) *SelectionData {
	ray := pick.Ray{
		Origin:    v3.Vec{X: ox, Y: oy, Z: oz},
		Direction: v3.Vec{X: dx, Y: dy, Z: dz},
	}

	if a.mode == ModeSketch {
		a.sketcher.Start(ray, a.tool)
		return nil
	}

	sel := a.classifier.Select(ray, a.scene.Meshes(), modeFor(modifier))
	if sel == nil {
		return nil
	}
	return a.selectionData(sel)
}

// PointerMove handles a pointer move. Only sketch mode reacts: the preview
// is rebuilt for the new position. Returns nil outside a drag.
func (a *App) PointerMove(ox, oy, oz, dx, dy, dz float64) *PreviewData {
	if a.mode != ModeSketch {
		return nil
	}
	ray := pick.Ray{
		Origin:    v3.Vec{X: ox, Y: oy, Z: oz},
		Direction: v3.Vec{X: dx, Y: dy, Z: dz},
	}
	return previewData(a.sketcher.Update(ray))
}

// PointerUp handles a pointer release. In sketch mode the drag commits: the
// last preview is extruded and registered as a scene object. Returns the new
// object's mesh, or nil when nothing was committed.
func (a *App) PointerUp() *MeshData {
	if a.mode != ModeSketch {
		return nil
	}
	solid := a.sketcher.Commit()
	if solid == nil {
		return nil
	}
	name := fmt.Sprintf("extruded-%s", solid.Tool)
	obj, err := a.scene.AddExtruded(name, solid)
	if err != nil {
		log.Printf("commit sketch: %v", err)
		return nil
	}
	d := a.meshData(obj)
	return &d
}

// CancelSketch discards any drag session in progress.
func (a *App) CancelSketch() {
	a.sketcher.Cancel()
}

// Selection returns the live selection, or nil.
func (a *App) Selection() *SelectionData {
	sel := a.classifier.Current()
	if sel == nil {
		return nil
	}
	return a.selectionData(sel)
}

// ClearSelection drops the live selection and restores highlight state.
func (a *App) ClearSelection() {
	a.classifier.Deselect()
}

// SceneMeshes returns every registered object's mesh for rendering.
func (a *App) SceneMeshes() []MeshData {
	out := make([]MeshData, 0, a.scene.Len())
	for _, obj := range a.scene.Objects() {
		out = append(out, a.meshData(obj))
	}
	return out
}

// RemoveObject deletes a scene object by ID. The selection is cleared first
// so a highlight never outlives its mesh.
func (a *App) RemoveObject(id int) {
	a.classifier.Deselect()
	a.scene.Remove(id)
}

// AddPrimitive creates a kernel primitive and registers it in the scene.
// Dimensions follow the per-shape convention: box [x,y,z], sphere [r,r,r],
// cylinder [radius,height,radius]. Rotation is Euler degrees.
func (a *App) AddPrimitive(shape string, dims, position, rotation [3]float64) (*MeshData, error) {
	rec := scene.RecordForPrimitive(scene.ShapeType(shape), position, rotation, dims)
	doc := scene.Document{Version: scene.DocumentVersion, Records: []scene.Record{rec}}
	if errs, _ := scene.ValidateDocument(&doc); len(errs) > 0 {
		return nil, fmt.Errorf("add %s: %s", shape, errs[0].Message)
	}

	obj, err := a.scene.AddRecord(shape, rec, a.kernel)
	if err != nil {
		log.Printf("AddPrimitive error: %v", err)
		return nil, err
	}
	d := a.meshData(obj)
	return &d, nil
}

// Evaluate runs scene DSL source and replaces the scene with the result.
// This is the scripting console binding.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	doc, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	_, warnings := scene.ValidateDocument(doc)
	for _, w := range warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{
			Message: fmt.Sprintf("record %d: %s", w.Record, w.Message),
		})
	}

	a.classifier.Deselect()
	if err := a.scene.ImportDocument(doc, a.kernel); err != nil {
		log.Printf("Evaluate import error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	result.Meshes = a.SceneMeshes()
	return result
}

// ExportScene serializes the scene to its persisted JSON form.
func (a *App) ExportScene() (string, error) {
	data, err := a.scene.Export()
	if err != nil {
		log.Printf("ExportScene error: %v", err)
		return "", err
	}
	return string(data), nil
}

// ImportScene replaces the scene with a previously exported document. A
// failed import leaves the current scene untouched.
func (a *App) ImportScene(data string) error {
	a.classifier.Deselect()
	if err := a.scene.Import([]byte(data), a.kernel); err != nil {
		log.Printf("ImportScene error: %v", err)
		return err
	}
	return nil
}

// modeFor maps a frontend modifier string to a selection mode.
func modeFor(modifier string) selection.Mode {
	switch modifier {
	case "face":
		return selection.ModeFace
	case "edge":
		return selection.ModeEdge
	case "shape":
		return selection.ModeShape
	default:
		return selection.ModeDefault
	}
}

// meshData converts a scene object to the frontend mesh format.
func (a *App) meshData(obj *scene.Object) MeshData {
	return MeshData{
		ObjectID:    obj.ID,
		Name:        obj.Name,
		Vertices:    obj.Mesh.Vertices,
		Normals:     obj.Mesh.Normals,
		Colors:      obj.Mesh.Colors,
		Indices:     obj.Mesh.Indices,
		Color:       colorPalette[(obj.ID-1)%len(colorPalette)],
		Highlighted: obj.Mesh.Highlighted,
	}
}

// selectionData converts a selection to the frontend format.
func (a *App) selectionData(sel *selection.Selection) *SelectionData {
	d := &SelectionData{
		Kind:          sel.Kind.String(),
		Triangles:     sel.Triangles,
		Normal:        [3]float64{sel.Normal.X, sel.Normal.Y, sel.Normal.Z},
		Area:          sel.Area,
		EdgeLength:    sel.EdgeLength,
		HasEdgeLength: sel.HasEdgeLength,
	}
	if obj := a.scene.ByMesh(sel.Mesh); obj != nil {
		d.ObjectID = obj.ID
		d.Name = obj.Name
	}
	return d
}

// previewData converts a sketch preview to the frontend format.
func previewData(p *sketch.Preview) *PreviewData {
	if p == nil {
		return nil
	}
	outline := make([]float32, 0, len(p.Outline)*3)
	for _, pt := range p.Outline {
		outline = append(outline, float32(pt.X), float32(pt.Y), float32(pt.Z))
	}
	return &PreviewData{
		Tool:    p.Tool.String(),
		Center:  [3]float64{p.Center.X, p.Center.Y, p.Center.Z},
		Width:   p.Width,
		Depth:   p.Depth,
		Radius:  p.Radius,
		Outline: outline,
	}
}

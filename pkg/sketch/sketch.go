// Package sketch implements the three-phase sketch-to-solid pipeline: a
// pointer-down starts a planar outline on the construction plane, pointer
// moves rebuild a live preview, and pointer-up extrudes the last preview
// into a classified solid.
package sketch

import (
	"math"

	"github.com/bellapacx/cadeditor/pkg/pick"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// MinDimension is the floor applied to widths, depths, and radii. Zero-size
// outlines are illegal input to geometry construction, so degenerate drags
// clamp here instead of erroring.
const MinDimension = 0.01

// DefaultSegments is the circle outline resolution.
const DefaultSegments = 64

// Tool selects the outline shape of a sketch session.
type Tool int

const (
	ToolRectangle Tool = iota
	ToolCircle
)

func (t Tool) String() string {
	switch t {
	case ToolRectangle:
		return "rectangle"
	case ToolCircle:
		return "circle"
	default:
		return "unknown"
	}
}

// Config holds the per-session sketch parameters. It is copied into the
// session at Start, so reconfiguring the pipeline never affects a drag in
// progress.
type Config struct {
	GridSize      float64
	SnapEnabled   bool
	ExtrudeHeight float64
	Segments      int        // circle resolution; DefaultSegments when zero
	Plane         pick.Plane // construction plane
}

// DefaultConfig returns the stock sketch configuration: half-unit grid with
// snapping on, unit extrusion height, ground construction plane.
func DefaultConfig() Config {
	return Config{
		GridSize:      0.5,
		SnapEnabled:   true,
		ExtrudeHeight: 1.0,
		Segments:      DefaultSegments,
		Plane:         pick.GroundPlane(),
	}
}

// Preview is the live outline shown during a drag. Each pointer move
// replaces it entirely; nothing is patched incrementally.
type Preview struct {
	Tool    Tool
	Center  v3.Vec // outline center on the construction plane
	Width   float64
	Depth   float64
	Radius  float64
	Outline []v3.Vec // closed outline points, counter-clockwise seen from +Y
}

// session is the state of one Dragging phase.
type session struct {
	cfg     Config
	tool    Tool
	start   v3.Vec
	preview Preview
}

// Pipeline is the sketch state machine: Idle until a pointer-down starts a
// session, Dragging until the matching pointer-up. One session at a time;
// events that arrive in the wrong state are no-ops.
type Pipeline struct {
	cfg     Config
	session *session
}

// NewPipeline creates a Pipeline with the given configuration.
func NewPipeline(cfg Config) *Pipeline {
	if cfg.Segments <= 0 {
		cfg.Segments = DefaultSegments
	}
	if cfg.Plane.Normal.Length() == 0 {
		cfg.Plane = pick.GroundPlane()
	}
	return &Pipeline{cfg: cfg}
}

// SetConfig replaces the configuration used by future sessions.
func (p *Pipeline) SetConfig(cfg Config) {
	if cfg.Segments <= 0 {
		cfg.Segments = DefaultSegments
	}
	if cfg.Plane.Normal.Length() == 0 {
		cfg.Plane = pick.GroundPlane()
	}
	p.cfg = cfg
}

// Config returns the configuration applied to future sessions.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Active reports whether a drag session is in progress.
func (p *Pipeline) Active() bool {
	return p.session != nil
}

// Start begins a session at the ray's intersection with the construction
// plane. Any unfinished previous session is discarded. Returns the initial
// minimal preview, or nil when the ray misses the plane (no session starts).
func (p *Pipeline) Start(ray pick.Ray, tool Tool) *Preview {
	pt, ok := pick.IntersectPlane(ray, p.cfg.Plane)
	if !ok {
		p.session = nil
		return nil
	}
	s := &session{cfg: p.cfg, tool: tool, start: p.snap(pt)}
	s.preview = buildPreview(s, s.start)
	p.session = s
	return &s.preview
}

// Update recomputes the preview for the current pointer position. A move
// without a session in progress, or one whose ray misses the plane, is a
// no-op returning nil.
func (p *Pipeline) Update(ray pick.Ray) *Preview {
	if p.session == nil {
		return nil
	}
	pt, ok := pick.IntersectPlane(ray, p.session.cfg.Plane)
	if !ok {
		return nil
	}
	p.session.preview = buildPreview(p.session, p.snapWith(p.session.cfg, pt))
	return &p.session.preview
}

// Commit extrudes the last preview into a solid and returns to Idle. The
// solid is built from the preview's parameters, not re-derived from raw
// pointer positions, so it always matches what was shown. Commit without a
// prior Start is a no-op returning nil.
func (p *Pipeline) Commit() *ExtrudedSolid {
	if p.session == nil {
		return nil
	}
	s := p.session
	p.session = nil
	return extrudePreview(&s.preview, s.cfg)
}

// Cancel discards any session in progress without producing a solid.
func (p *Pipeline) Cancel() {
	p.session = nil
}

// buildPreview derives the tool-specific preview from the session start and
// the current snapped pointer position.
func buildPreview(s *session, cur v3.Vec) Preview {
	switch s.tool {
	case ToolCircle:
		r := cur.Sub(s.start).Length()
		if r < MinDimension {
			r = MinDimension
		}
		return Preview{
			Tool:    ToolCircle,
			Center:  s.start,
			Radius:  r,
			Outline: circleOutline(s.start, r, s.cfg.Segments),
		}
	default:
		w := math.Abs(cur.X - s.start.X)
		d := math.Abs(cur.Z - s.start.Z)
		if w < MinDimension {
			w = MinDimension
		}
		if d < MinDimension {
			d = MinDimension
		}
		center := s.start.Add(cur).MulScalar(0.5)
		return Preview{
			Tool:    ToolRectangle,
			Center:  center,
			Width:   w,
			Depth:   d,
			Outline: rectOutline(center, w, d),
		}
	}
}

// snap rounds the X and Z components of a plane point to the nearest grid
// multiple when snapping is enabled. Applied before any distance math, so
// outline dimensions are always grid multiples.
func (p *Pipeline) snap(pt v3.Vec) v3.Vec {
	return p.snapWith(p.cfg, pt)
}

func (p *Pipeline) snapWith(cfg Config, pt v3.Vec) v3.Vec {
	if !cfg.SnapEnabled || cfg.GridSize <= 0 {
		return pt
	}
	return v3.Vec{
		X: snapToGrid(pt.X, cfg.GridSize),
		Y: pt.Y,
		Z: snapToGrid(pt.Z, cfg.GridSize),
	}
}

// snapToGrid rounds a coordinate to the nearest multiple of the grid size.
func snapToGrid(value, gridSize float64) float64 {
	return math.Round(value/gridSize) * gridSize
}

// rectOutline returns the four corners of an axis-aligned rectangle on the
// construction plane, counter-clockwise seen from +Y.
func rectOutline(center v3.Vec, width, depth float64) []v3.Vec {
	hw, hd := width/2, depth/2
	return []v3.Vec{
		{X: center.X - hw, Y: center.Y, Z: center.Z - hd},
		{X: center.X - hw, Y: center.Y, Z: center.Z + hd},
		{X: center.X + hw, Y: center.Y, Z: center.Z + hd},
		{X: center.X + hw, Y: center.Y, Z: center.Z - hd},
	}
}

// circleOutline returns a regular polygon approximating a circle on the
// construction plane, counter-clockwise seen from +Y.
func circleOutline(center v3.Vec, radius float64, segments int) []v3.Vec {
	pts := make([]v3.Vec, segments)
	for i := 0; i < segments; i++ {
		// Negative winding around +Y so that X->-Z is counter-clockwise
		// when viewed from above.
		a := -2 * math.Pi * float64(i) / float64(segments)
		pts[i] = v3.Vec{
			X: center.X + radius*math.Cos(a),
			Y: center.Y,
			Z: center.Z + radius*math.Sin(a),
		}
	}
	return pts
}

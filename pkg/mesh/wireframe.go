package mesh

// Wireframe is the pre-computed edge companion of a TriMesh, stored as a
// line list: every two consecutive points form one segment. Shared corner
// vertices are duplicated rather than deduplicated, so a closed square is
// eight points / four segments.
type Wireframe struct {
	Points []float32 `json:"points"` // [x0,y0,z0, x1,y1,z1, ...]
}

// SegmentCount returns the number of line segments.
func (w *Wireframe) SegmentCount() int {
	return len(w.Points) / 6
}

// TotalLength returns the summed length of all segments. Segments sharing
// endpoints are counted individually; no deduplication is performed.
func (w *Wireframe) TotalLength() float64 {
	var sum float64
	for s := 0; s < w.SegmentCount(); s++ {
		i := 6 * s
		a := vecAt(w.Points, i)
		b := vecAt(w.Points, i+3)
		sum += b.Sub(a).Length()
	}
	return sum
}

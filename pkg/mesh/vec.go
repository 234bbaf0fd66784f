package mesh

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// vecAt reads three consecutive floats from a flat buffer as a vector.
func vecAt(buf []float32, i int) v3.Vec {
	return v3.Vec{
		X: float64(buf[i]),
		Y: float64(buf[i+1]),
		Z: float64(buf[i+2]),
	}
}

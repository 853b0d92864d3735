package geo

import (
	"fmt"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/spheroedu/bridge/pkg/core"
)

// LineString converts a driven path (cm) to a geom.LineString.
// Paths with fewer than two points produce an empty line string. A path
// whose points are all equal, or that holds NaN or infinite coordinates,
// is rejected by geom validation.
func LineString(path []core.Vector2) (geom.LineString, error) {
	if len(path) < 2 {
		return geom.LineString{}, nil
	}
	flatCoords := make([]float64, 0, len(path)*2)
	for _, pt := range path {
		flatCoords = append(flatCoords, pt.X, pt.Y)
	}
	ls, err := geom.NewLineString(geom.NewSequence(flatCoords, geom.DimXY))
	if err != nil {
		return geom.LineString{}, fmt.Errorf("invalid path: %w", err)
	}
	return ls, nil
}

// Points converts a geom.LineString back to a driven path.
func Points(ls geom.LineString) []core.Vector2 {
	seq := ls.Coordinates()
	if seq.Length() == 0 {
		return nil
	}
	path := make([]core.Vector2, seq.Length())
	for i := 0; i < seq.Length(); i++ {
		pt := seq.GetXY(i)
		path[i] = core.Vector2{X: pt.X, Y: pt.Y}
	}
	return path
}

// Point converts a location (cm) to a geom.Point. NaN or infinite
// coordinates are an error.
func Point(v core.Vector2) (geom.Point, error) {
	pt, err := geom.NewPoint(geom.Coordinates{XY: geom.XY{X: v.X, Y: v.Y}})
	if err != nil {
		return geom.Point{}, fmt.Errorf("invalid location %v: %w", v, err)
	}
	return pt, nil
}

// Vector converts a geom.Point to a location. Empty points map to the origin.
func Vector(p geom.Point) core.Vector2 {
	xy, ok := p.XY()
	if !ok {
		return core.Vector2{}
	}
	return core.Vector2{X: xy.X, Y: xy.Y}
}

// Package geo tracks the path a robot drives in the world frame (cm) and
// measures it with simplefeatures geometry.
package geo

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/spheroedu/bridge/pkg/core"
)

// ErrInvalidCoordinates is returned when the coordinates are invalid
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// Vector2FromString parses a string in the format "x,y" into a location.
func Vector2FromString(coords string) (core.Vector2, error) {
	parts := strings.Split(coords, ",")
	if len(parts) != 2 {
		return core.Vector2{}, ErrInvalidCoordinates
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return core.Vector2{}, ErrInvalidCoordinates
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return core.Vector2{}, ErrInvalidCoordinates
	}
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return core.Vector2{}, ErrInvalidCoordinates
	}
	return core.Vector2{X: x, Y: y}, nil
}

// PathLength returns the length of a driven path in cm. A path that is not
// a valid line string (a single repeated point) measures 0.
func PathLength(path []core.Vector2) float64 {
	ls, err := LineString(path)
	if err != nil {
		return 0
	}
	return ls.Length()
}

// Path accumulates the locations of one session. Points closer than
// MinStep to the previous point are dropped so a robot sitting still does
// not grow the path.
type Path struct {
	mu      sync.Mutex
	minStep float64
	points  []core.Vector2
}

// NewPath creates an empty path.
func NewPath(minStep float64) *Path {
	return &Path{minStep: minStep}
}

// Add appends v and reports whether it was kept.
func (p *Path) Add(v core.Vector2) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n := len(p.points); n > 0 {
		last := p.points[n-1]
		if math.Hypot(v.X-last.X, v.Y-last.Y) < p.minStep {
			return false
		}
	}
	p.points = append(p.points, v)
	return true
}

// Points returns a copy of the kept points.
func (p *Path) Points() []core.Vector2 {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]core.Vector2, len(p.points))
	copy(out, p.points)
	return out
}

// Length returns the driven length in cm.
func (p *Path) Length() float64 {
	return PathLength(p.Points())
}

// Reset clears the path.
func (p *Path) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.points = nil
}

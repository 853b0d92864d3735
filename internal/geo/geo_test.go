package geo

import (
	"errors"
	"testing"

	"github.com/spheroedu/bridge/pkg/core"
)

func TestVector2FromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    core.Vector2
		wantErr bool
	}{
		{"integers", "10,20", core.Vector2{X: 10, Y: 20}, false},
		{"floats with spaces", " -1.5 , 2.25 ", core.Vector2{X: -1.5, Y: 2.25}, false},
		{"single value", "10", core.Vector2{}, true},
		{"three values", "1,2,3", core.Vector2{}, true},
		{"not a number", "a,2", core.Vector2{}, true},
		{"nan", "NaN,2", core.Vector2{}, true},
		{"inf", "1,+Inf", core.Vector2{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Vector2FromString(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCoordinates) {
					t.Fatalf("expected ErrInvalidCoordinates, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPathLength(t *testing.T) {
	path := []core.Vector2{{X: 0, Y: 0}, {X: 3, Y: 4}, {X: 3, Y: 10}}
	if got := PathLength(path); got != 11 {
		t.Errorf("expected 11, got %f", got)
	}
	if got := PathLength(path[:1]); got != 0 {
		t.Errorf("expected 0 for a single point, got %f", got)
	}
	if got := PathLength(nil); got != 0 {
		t.Errorf("expected 0 for an empty path, got %f", got)
	}
}

func TestPath_MinStep(t *testing.T) {
	p := NewPath(1)

	if !p.Add(core.Vector2{}) {
		t.Fatal("first point should always be kept")
	}
	if p.Add(core.Vector2{X: 0.5}) {
		t.Error("point within min step should be dropped")
	}
	if !p.Add(core.Vector2{X: 5}) {
		t.Error("point beyond min step should be kept")
	}
	if !p.Add(core.Vector2{X: 5, Y: 5}) {
		t.Error("point beyond min step should be kept")
	}

	if got := len(p.Points()); got != 3 {
		t.Fatalf("expected 3 points, got %d", got)
	}
	if got := p.Length(); got != 10 {
		t.Errorf("expected length 10, got %f", got)
	}

	p.Reset()
	if got := len(p.Points()); got != 0 {
		t.Errorf("expected empty path after reset, got %d points", got)
	}
}

func TestPath_PointsIsCopy(t *testing.T) {
	p := NewPath(0)
	p.Add(core.Vector2{X: 1})
	pts := p.Points()
	pts[0].X = 99
	if p.Points()[0].X != 1 {
		t.Error("Points should return a copy")
	}
}

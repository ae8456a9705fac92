package util

import (
	"testing"

	"github.com/go-sod/rango/internal/geom"
)

func TestHashPoints(t *testing.T) {
	t.Parallel()
	points := []geom.Point[float64]{{X: 1, Y: 2}, {X: 3, Y: 4}}
	tests := []struct {
		name     string
		p        []geom.Point[float64]
		p1       []geom.Point[float64]
		expected bool
	}{
		{name: "same_points", p: points, p1: []geom.Point[float64]{{X: 1, Y: 2}, {X: 3, Y: 4}}, expected: true},
		{name: "swapped_coordinates", p: points, p1: []geom.Point[float64]{{X: 2, Y: 1}, {X: 3, Y: 4}}, expected: false},
		{name: "split_digits", p: []geom.Point[float64]{{X: 12, Y: 3}}, p1: []geom.Point[float64]{{X: 1, Y: 23}}, expected: false},
		{name: "reordered", p: points, p1: []geom.Point[float64]{{X: 3, Y: 4}, {X: 1, Y: 2}}, expected: false},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			h, h1 := HashPoints(test.p), HashPoints(test.p1)
			if len(h) != 64 {
				t.Errorf("hash length, got: %d, expected: %d", len(h), 64)
			}
			if (h == h1) != test.expected {
				t.Errorf("hash equality of %v and %v, got: %v, expected: %v", test.p, test.p1, h == h1, test.expected)
			}
		})
	}
}

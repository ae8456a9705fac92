package geom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPoint_Coord(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		p        Point[int]
		axis     Axis
		expected int
	}{
		{name: "x", p: NewPoint(1, 2), axis: AxisX, expected: 1},
		{name: "y", p: NewPoint(1, 2), axis: AxisY, expected: 2},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			if got := test.p.Coord(test.axis); got != test.expected {
				t.Errorf("coordinate specified incorrectly, got: %d, expected: %d", got, test.expected)
			}
		})
	}
}

func TestPoint_Equal(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		p        Point[float64]
		p1       Point[float64]
		expected bool
	}{
		{
			name:     "positive",
			p:        Point[float64]{10, 10},
			p1:       Point[float64]{10, 10},
			expected: true,
		},
		{
			name:     "negative",
			p:        Point[float64]{10, 10},
			p1:       Point[float64]{11, 10},
			expected: false,
		},
	}
	for _, test := range tests {
		if test.p.Equal(test.p1) != test.expected {
			t.Errorf("the comparison of points, got: %v, expected: %v", test.p.Equal(test.p1), test.expected)
		}
	}
}

func TestPoint_Compare(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		p        Point[int]
		p1       Point[int]
		expected int
	}{
		{name: "less_by_x", p: NewPoint(1, 9), p1: NewPoint(2, 0), expected: -1},
		{name: "greater_by_x", p: NewPoint(3, 0), p1: NewPoint(2, 9), expected: 1},
		{name: "less_by_y", p: NewPoint(2, 1), p1: NewPoint(2, 3), expected: -1},
		{name: "greater_by_y", p: NewPoint(2, 4), p1: NewPoint(2, 3), expected: 1},
		{name: "equal", p: NewPoint(2, 3), p1: NewPoint(2, 3), expected: 0},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			if got := test.p.Compare(test.p1); got != test.expected {
				t.Errorf("the comparison of points, got: %d, expected: %d", got, test.expected)
			}
			if got := test.p.Less(test.p1); got != (test.expected < 0) {
				t.Errorf("the ordering of points, got: %v, expected: %v", got, test.expected < 0)
			}
		})
	}
}

func TestSortPoints(t *testing.T) {
	t.Parallel()
	points := []Point[int]{{7, 2}, {5, 4}, {9, 6}, {4, 7}, {8, 1}, {2, 3}, {5, 1}}
	SortPoints(points)
	expected := []Point[int]{{2, 3}, {4, 7}, {5, 1}, {5, 4}, {7, 2}, {8, 1}, {9, 6}}
	if diff := cmp.Diff(expected, points); diff != "" {
		t.Errorf("sorting of points mismatch (-expected +got):\n%s", diff)
	}
}

func TestSortByAxis(t *testing.T) {
	t.Parallel()
	points := []Point[int]{{3, 1}, {1, 1}, {2, 0}, {1, 0}}
	SortByAxis(points, AxisY)
	expected := []Point[int]{{2, 0}, {1, 0}, {3, 1}, {1, 1}}
	if diff := cmp.Diff(expected, points); diff != "" {
		t.Errorf("stable sorting by y mismatch (-expected +got):\n%s", diff)
	}
}

func TestAxis_Other(t *testing.T) {
	t.Parallel()
	if AxisX.Other() != AxisY || AxisY.Other() != AxisX {
		t.Errorf("the opposite axis, got: %v and %v, expected: y and x", AxisX.Other(), AxisY.Other())
	}
	if AxisX.String() != "x" || AxisY.String() != "y" {
		t.Errorf("axis names, got: %s and %s, expected: x and y", AxisX, AxisY)
	}
}

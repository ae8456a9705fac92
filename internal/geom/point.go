package geom

import (
	"fmt"
	"sort"

	"golang.org/x/exp/constraints"
)

// Coordinate is any orderable numeric type a point can be expressed in.
// A single tree always uses one coordinate type.
type Coordinate interface {
	constraints.Integer | constraints.Float
}

type Axis uint8

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) Other() Axis {
	if a == AxisX {
		return AxisY
	}
	return AxisX
}

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	default:
		return fmt.Sprintf("axis(%d)", uint8(a))
	}
}

type Point[T Coordinate] struct {
	X T `json:"x"`
	Y T `json:"y"`
}

func NewPoint[T Coordinate](x, y T) Point[T] {
	return Point[T]{X: x, Y: y}
}

// Coord returns the coordinate of p on the given axis.
func (p Point[T]) Coord(a Axis) T {
	if a == AxisX {
		return p.X
	}
	return p.Y
}

func (p Point[T]) Equal(p1 Point[T]) bool {
	return p.X == p1.X && p.Y == p1.Y
}

// Compare orders points by the (X, Y) tuple.
func (p Point[T]) Compare(p1 Point[T]) int {
	switch {
	case p.X < p1.X:
		return -1
	case p.X > p1.X:
		return 1
	case p.Y < p1.Y:
		return -1
	case p.Y > p1.Y:
		return 1
	}
	return 0
}

func (p Point[T]) Less(p1 Point[T]) bool {
	return p.Compare(p1) < 0
}

func (p Point[T]) String() string {
	return fmt.Sprintf("Point(%v, %v)", p.X, p.Y)
}

// SortPoints sorts points in place by the (X, Y) tuple.
func SortPoints[T Coordinate](points []Point[T]) {
	sort.Slice(points, func(i, j int) bool {
		return points[i].Less(points[j])
	})
}

// SortByAxis stable sorts points in place by their coordinate on a.
func SortByAxis[T Coordinate](points []Point[T], a Axis) {
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Coord(a) < points[j].Coord(a)
	})
}

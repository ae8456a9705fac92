package geom

import (
	"errors"
	"fmt"
)

var ErrEmptyBounds = errors.New("bounds of an empty point set are undefined")

// Rectangle is an axis-aligned box given by its lower-left and upper-right
// corners. All four bounds are inclusive.
//
// A rectangle with Lower greater than Upper on either axis is a caller error.
// It is not normalized: Contains reports false for every point and range
// searches with it return nothing.
type Rectangle[T Coordinate] struct {
	Lower Point[T] `json:"lower"`
	Upper Point[T] `json:"upper"`
}

func NewRectangle[T Coordinate](lower, upper Point[T]) Rectangle[T] {
	return Rectangle[T]{Lower: lower, Upper: upper}
}

func (r Rectangle[T]) Contains(p Point[T]) bool {
	return r.Lower.X <= p.X && p.X <= r.Upper.X && r.Lower.Y <= p.Y && p.Y <= r.Upper.Y
}

// Valid reports whether Lower <= Upper on both axes.
func (r Rectangle[T]) Valid() bool {
	return r.Lower.X <= r.Upper.X && r.Lower.Y <= r.Upper.Y
}

func (r Rectangle[T]) String() string {
	return fmt.Sprintf("Rectangle(%v, %v)", r.Lower, r.Upper)
}

// Bounds returns the smallest rectangle containing every point.
func Bounds[T Coordinate](points []Point[T]) (Rectangle[T], error) {
	if len(points) == 0 {
		return Rectangle[T]{}, ErrEmptyBounds
	}
	r := Rectangle[T]{Lower: points[0], Upper: points[0]}
	for _, p := range points[1:] {
		if p.X < r.Lower.X {
			r.Lower.X = p.X
		}
		if p.Y < r.Lower.Y {
			r.Lower.Y = p.Y
		}
		if p.X > r.Upper.X {
			r.Upper.X = p.X
		}
		if p.Y > r.Upper.Y {
			r.Upper.Y = p.Y
		}
	}
	return r, nil
}

package brute

import (
	"errors"

	"github.com/go-sod/rango/internal/geom"
)

var (
	ErrEmptyPoints  = errors.New("brute: build requires at least one point")
	ErrAlreadyBuilt = errors.New("brute: index is already built")
)

func New() *Index {
	return &Index{}
}

// Index answers range queries by scanning every point. It is the reference
// the tree is checked against.
type Index struct {
	data []geom.Point[float64]
}

func (b *Index) Build(points ...geom.Point[float64]) error {
	if b.data != nil {
		return ErrAlreadyBuilt
	}
	if len(points) == 0 {
		return ErrEmptyPoints
	}
	b.data = make([]geom.Point[float64], len(points))
	copy(b.data, points)
	return nil
}

func (b *Index) Range(r geom.Rectangle[float64]) []geom.Point[float64] {
	points := []geom.Point[float64]{}
	for _, p := range b.data {
		if r.Contains(p) {
			points = append(points, p)
		}
	}
	return points
}

func (b *Index) Count(r geom.Rectangle[float64]) int {
	var n int
	for _, p := range b.data {
		if r.Contains(p) {
			n++
		}
	}
	return n
}

func (b *Index) Len() int {
	return len(b.data)
}

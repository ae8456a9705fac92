package index

import (
	"errors"
	"fmt"

	"github.com/go-sod/rango/internal/geom"
	"github.com/go-sod/rango/internal/index/brute"
	"github.com/go-sod/rango/internal/index/kd"
)

type (
	Point     = geom.Point[float64]
	Rectangle = geom.Rectangle[float64]
)

var ErrUnknownAlg = errors.New("unknown index algorithm")

// Index answers inclusive rectangle queries over a point set given once to
// Build.
type Index interface {
	Build(points ...Point) error
	Range(r Rectangle) []Point
	Count(r Rectangle) int
	Len() int
}

// Shaper is implemented by indexes that expose their tree shape.
type Shaper interface {
	RootAxis() geom.Axis
	Height() int
}

var (
	_ Index  = (*kd.Index)(nil)
	_ Shaper = (*kd.Index)(nil)
	_ Index  = (*brute.Index)(nil)
)

type ProvideFn func() (Index, error)

func NewFor(a AlgType) (Index, error) {
	switch a {
	case AlgTypeKDTree:
		return kd.New(), nil
	case AlgTypeBrute:
		return brute.New(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlg, a)
	}
}

// ProvideFor validates a and returns a constructor of empty indexes.
func ProvideFor(a AlgType) (ProvideFn, error) {
	if _, err := NewFor(a); err != nil {
		return nil, err
	}
	return func() (Index, error) {
		return NewFor(a)
	}, nil
}

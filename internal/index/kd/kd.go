package kd

import (
	"fmt"

	"github.com/go-sod/rango/internal/geom"
	"github.com/go-sod/rango/pkg/container/kdtree"
)

func New() *Index {
	return &Index{tree: kdtree.New[float64]()}
}

// Index is an index backed by a static k-d tree.
type Index struct {
	tree *kdtree.Tree[float64]
}

func (i *Index) Build(points ...geom.Point[float64]) error {
	if err := i.tree.Build(points...); err != nil {
		return fmt.Errorf("build kd tree: %w", err)
	}
	return nil
}

func (i *Index) Range(r geom.Rectangle[float64]) []geom.Point[float64] {
	return i.tree.RangeSearch(r)
}

func (i *Index) Count(r geom.Rectangle[float64]) int {
	return i.tree.Count(r)
}

func (i *Index) Len() int {
	return i.tree.Len()
}

func (i *Index) RootAxis() geom.Axis {
	return i.tree.RootAxis()
}

func (i *Index) Height() int {
	return i.tree.Height()
}

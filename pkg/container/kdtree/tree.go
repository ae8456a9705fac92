/*
 * Copyright 2020 Dennis Kuhnert
 * Copyright 2020 Ivanov Nikita
 *
 *    Licensed under the Apache License, Version 2.0 (the "License");
 *    you may not use this file except in compliance with the License.
 *    You may obtain a copy of the License at
 *
 *        http://www.apache.org/licenses/LICENSE-2.0
 *
 *    Unless required by applicable law or agreed to in writing, software
 *    distributed under the License is distributed on an "AS IS" BASIS,
 *    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *    See the License for the specific language governing permissions and
 *    limitations under the License.
 */

// Package kdtree implements a static two-dimensional k-d tree answering
// inclusive rectangle range queries.
package kdtree

import (
	"errors"

	"github.com/go-sod/rango/internal/geom"
)

var (
	ErrEmptyPoints  = errors.New("kdtree: build requires at least one point")
	ErrAlreadyBuilt = errors.New("kdtree: tree is already built")
)

func New[T geom.Coordinate]() *Tree[T] {
	return &Tree[T]{}
}

// Tree is populated once by Build and is read-only afterwards, so any number
// of goroutines may call RangeSearch on it concurrently.
type Tree[T geom.Coordinate] struct {
	root  *node[T]
	len   int
	built bool
	// rootAxis is the split axis of every even depth; odd depths split on
	// rootAxis.Other(). Written once by Build.
	rootAxis geom.Axis
}

// Build indexes points. The slice is copied, the caller's order is kept.
func (t *Tree[T]) Build(points ...geom.Point[T]) error {
	if t.built {
		return ErrAlreadyBuilt
	}
	if len(points) == 0 {
		return ErrEmptyPoints
	}
	items := make([]geom.Point[T], len(points))
	copy(items, points)

	t.rootAxis = chooseRootAxis(items)
	t.root = t.buildTreeRecursive(items, 0)
	t.len = len(items)
	t.built = true
	return nil
}

func (t *Tree[T]) Len() int {
	return t.len
}

func (t *Tree[T]) RootAxis() geom.Axis {
	return t.rootAxis
}

func (t *Tree[T]) Height() int {
	return t.root.Height()
}

// Points returns the indexed points in tree order.
func (t *Tree[T]) Points() []geom.Point[T] {
	if t.root == nil {
		return []geom.Point[T]{}
	}
	return t.root.Points()
}

// RangeSearch returns every indexed point r contains, in no particular order.
// The result is allocated per call.
func (t *Tree[T]) RangeSearch(r geom.Rectangle[T]) []geom.Point[T] {
	points := []geom.Point[T]{}
	t.search(r, func(p geom.Point[T]) {
		points = append(points, p)
	})
	return points
}

// Count returns the number of indexed points r contains.
func (t *Tree[T]) Count(r geom.Rectangle[T]) int {
	var n int
	t.search(r, func(geom.Point[T]) {
		n++
	})
	return n
}

func (t *Tree[T]) axisAt(depth int) geom.Axis {
	if depth%2 == 0 {
		return t.rootAxis
	}
	return t.rootAxis.Other()
}

func (t *Tree[T]) search(r geom.Rectangle[T], visit func(geom.Point[T])) {
	if t.root == nil {
		return
	}

	stack := push(nil, t.root, 0)
	var current item[T]
	for len(stack) > 0 {
		stack, current = pop(stack)
		n := current.node
		if r.Contains(n.Key) {
			visit(n.Key)
		}

		axis := t.axisAt(current.depth)
		key := n.Key.Coord(axis)
		if n.Left != nil && r.Lower.Coord(axis) <= key {
			stack = push(stack, n.Left, current.depth+1)
		}
		if n.Right != nil && r.Upper.Coord(axis) >= key {
			stack = push(stack, n.Right, current.depth+1)
		}
	}
}

func (t *Tree[T]) buildTreeRecursive(points []geom.Point[T], depth int) *node[T] {
	if len(points) == 0 {
		return nil
	}
	if len(points) == 1 {
		return &node[T]{Key: points[0]}
	}

	geom.SortByAxis(points, t.axisAt(depth))
	mid := len(points) / 2
	return &node[T]{
		Key:   points[mid],
		Left:  t.buildTreeRecursive(points[:mid], depth+1),
		Right: t.buildTreeRecursive(points[mid+1:], depth+1),
	}
}

// chooseRootAxis picks the axis along which points spread out more. Equal
// spread falls back to the y axis.
func chooseRootAxis[T geom.Coordinate](points []geom.Point[T]) geom.Axis {
	if variance(points, geom.AxisX) > variance(points, geom.AxisY) {
		return geom.AxisX
	}
	return geom.AxisY
}

func variance[T geom.Coordinate](points []geom.Point[T], a geom.Axis) float64 {
	var mean float64
	for _, p := range points {
		mean += float64(p.Coord(a))
	}
	mean /= float64(len(points))

	var s float64
	for _, p := range points {
		d := float64(p.Coord(a)) - mean
		s += d * d
	}
	return s / float64(len(points))
}

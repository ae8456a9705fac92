package kdtree

import "github.com/go-sod/rango/internal/geom"

type node[T geom.Coordinate] struct {
	Key   geom.Point[T]
	Left  *node[T]
	Right *node[T]
}

func (n *node[T]) Points() []geom.Point[T] {
	var points []geom.Point[T]
	if n.Left != nil {
		points = n.Left.Points()
	}
	points = append(points, n.Key)
	if n.Right != nil {
		points = append(points, n.Right.Points()...)
	}
	return points
}

func (n *node[T]) Height() int {
	if n == nil {
		return 0
	}
	l, r := n.Left.Height(), n.Right.Height()
	if l > r {
		return l + 1
	}
	return r + 1
}

// item is a pending visit on the range search stack.
type item[T geom.Coordinate] struct {
	node  *node[T]
	depth int
}

func push[T geom.Coordinate](stack []item[T], n *node[T], depth int) []item[T] {
	return append(stack, item[T]{node: n, depth: depth})
}

func pop[T geom.Coordinate](stack []item[T]) ([]item[T], item[T]) {
	l := len(stack) - 1
	return stack[:l], stack[l]
}

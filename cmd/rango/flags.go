package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-sod/rango/internal/geom"
)

// parsePoint reads a "x,y" flag value.
func parsePoint(s string) (geom.Point[float64], error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return geom.Point[float64]{}, fmt.Errorf("point %q must be formatted as x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geom.Point[float64]{}, fmt.Errorf("point %q: x: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geom.Point[float64]{}, fmt.Errorf("point %q: y: %w", s, err)
	}
	return geom.NewPoint(x, y), nil
}

func parseRectangle(lower, upper string) (geom.Rectangle[float64], error) {
	l, err := parsePoint(lower)
	if err != nil {
		return geom.Rectangle[float64]{}, fmt.Errorf("--lower: %w", err)
	}
	u, err := parsePoint(upper)
	if err != nil {
		return geom.Rectangle[float64]{}, fmt.Errorf("--upper: %w", err)
	}
	r := geom.NewRectangle(l, u)
	if !r.Valid() {
		return geom.Rectangle[float64]{}, fmt.Errorf("lower corner %v is above upper corner %v", l, u)
	}
	return r, nil
}

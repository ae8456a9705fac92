package query

import "time"

type Config struct {
	RequestTimeout time.Duration `envconfig:"RANGO_QUERY_REQUEST_TIMEOUT" default:"30s"`
	MaxRectangles  int           `envconfig:"RANGO_QUERY_MAX_RECTANGLES" default:"64"`
	MaxConcurrency int           `envconfig:"RANGO_QUERY_MAX_CONCURRENCY" default:"8"`
}

package collect

import (
	"time"
)

type Config struct {
	RequestTimeout time.Duration `envconfig:"RANGO_COLLECT_REQUEST_TIMEOUT" default:"60s"`
	MaxPoints      int           `envconfig:"RANGO_COLLECT_MAX_POINTS" default:"5000000"`
}

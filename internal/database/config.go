package database

import "time"

type Config struct {
	FileName    string        `envconfig:"RANGO_DB_FILENAME" default:"rango.db"`
	OpenTimeout time.Duration `envconfig:"RANGO_DB_OPEN_TIMEOUT" default:"1s"`
}

package config

import (
	"github.com/go-sod/rango/internal/collect"
	"github.com/go-sod/rango/internal/database"
	"github.com/go-sod/rango/internal/index"
	"github.com/go-sod/rango/internal/logging"
	"github.com/go-sod/rango/internal/query"
	"github.com/go-sod/rango/internal/seed"
	"github.com/go-sod/rango/internal/setup"
)

var (
	_ setup.LoggingConfigProvider  = (*Config)(nil)
	_ setup.DatabaseConfigProvider = (*Config)(nil)
	_ setup.IndexConfigProvider    = (*Config)(nil)
	_ setup.SeedConfigProvider     = (*Config)(nil)
)

type Config struct {
	SrvAddr   string `envconfig:"RANGO_ADDR" default:":8787"`
	MaxConns  int    `envconfig:"RANGO_MAX_CONNS" default:"1024"`
	AuthToken string `envconfig:"RANGO_AUTH_TOKEN"`
	Logging   logging.Config
	Database  database.Config
	Index     index.Config
	Query     query.Config
	Collect   collect.Config
	Seed      seed.Config
}

func (c *Config) LoggingConfig() *logging.Config {
	return &c.Logging
}

func (c *Config) DatabaseConfig() *database.Config {
	return &c.Database
}

func (c *Config) IndexConfig() *index.Config {
	return &c.Index
}

func (c *Config) SeedConfig() *seed.Config {
	return &c.Seed
}

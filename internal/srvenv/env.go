package srvenv

import (
	"context"

	"go.uber.org/zap"

	"github.com/go-sod/rango/internal/catalog"
	"github.com/go-sod/rango/internal/database"
)

type Option func(*SrvEnv) *SrvEnv

func New(opts ...Option) *SrvEnv {
	env := &SrvEnv{}
	for _, f := range opts {
		env = f(env)
	}

	return env
}

type SrvEnv struct {
	logger   *zap.SugaredLogger
	database *database.DB
	catalog  *catalog.Catalog
}

func (s *SrvEnv) Logger() *zap.SugaredLogger {
	return s.logger
}

func (s *SrvEnv) Database() *database.DB {
	return s.database
}

func (s *SrvEnv) Catalog() *catalog.Catalog {
	return s.catalog
}

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.logger = logger
		return s
	}
}

func WithDatabase(db *database.DB) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.database = db
		return s
	}
}

func WithCatalog(c *catalog.Catalog) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.catalog = c
		return s
	}
}

func (s *SrvEnv) Close(ctx context.Context) error {
	if s == nil {
		return nil
	}

	if s.logger != nil {
		defer func() {
			_ = s.logger.Sync()
		}()
	}
	if s.database != nil {
		return s.database.Close(ctx)
	}
	return nil
}

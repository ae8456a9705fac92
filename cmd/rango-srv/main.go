package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/go-sod/rango/internal/buildinfo"
	"github.com/go-sod/rango/internal/collect"
	rango "github.com/go-sod/rango/internal/config"
	"github.com/go-sod/rango/internal/httputil"
	"github.com/go-sod/rango/internal/logging"
	"github.com/go-sod/rango/internal/metrics"
	"github.com/go-sod/rango/internal/query"
	"github.com/go-sod/rango/internal/server"
	"github.com/go-sod/rango/internal/setup"
	"github.com/go-sod/rango/internal/shutdown"
)

func main() {
	_, _ = fmt.Fprint(os.Stdout, buildinfo.Graffiti)
	_, _ = fmt.Fprintln(os.Stdout, buildinfo.Info)

	ctx, done := shutdown.New()
	defer done()

	if err := run(ctx); err != nil {
		logging.FromContext(ctx).Fatal(err)
	}
}

func run(ctx context.Context) error {
	config := rango.Config{}
	env, err := setup.Setup(ctx, &config)
	if err != nil {
		return fmt.Errorf("setup.Setup: %w", err)
	}
	defer env.Close(ctx)

	if env.Logger() != nil {
		ctx = logging.WithLogger(ctx, env.Logger())
	}
	logger := logging.FromContext(ctx)

	srv, err := server.New(config.SrvAddr, config.MaxConns)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	collectHandler, err := collect.NewHandler(&config.Collect, env.Catalog())
	if err != nil {
		return fmt.Errorf("collect.NewHandler: %w", err)
	}
	queryHandler, err := query.NewHandler(&config.Query, env.Catalog())
	if err != nil {
		return fmt.Errorf("query.NewHandler: %w", err)
	}
	metricsHandler, err := metrics.NewHandler("rango")
	if err != nil {
		return fmt.Errorf("metrics.NewHandler: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/datasets", httputil.RequireBearer(config.AuthToken, collectHandler))
	mux.Handle("/range", httputil.RequireBearer(config.AuthToken, queryHandler))
	mux.Handle("/health", server.HandleHealth(ctx))
	mux.Handle("/metrics", metricsHandler)

	logger.Infof("serving %d datasets on %s", len(env.Catalog().Names()), srv.Addr())
	return srv.ServeHTTPHandler(ctx, mux)
}

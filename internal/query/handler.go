package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/go-sod/rango/internal/catalog"
	"github.com/go-sod/rango/internal/geom"
	"github.com/go-sod/rango/internal/httputil"
	"github.com/go-sod/rango/internal/logging"
)

const maxBodyBytes = 1024 * 1024

// Ranger answers rectangle queries against named datasets.
type Ranger interface {
	Has(name string) bool
	Range(ctx context.Context, name string, r geom.Rectangle[float64]) ([]geom.Point[float64], error)
	Count(ctx context.Context, name string, r geom.Rectangle[float64]) (int, error)
}

type request struct {
	Dataset    string                    `json:"dataset"`
	Rectangles []geom.Rectangle[float64] `json:"rectangles"`
	CountOnly  bool                      `json:"countOnly"`
}

type result struct {
	Points []geom.Point[float64] `json:"points,omitempty"`
	Count  int                   `json:"count"`
}

type response struct {
	Dataset string   `json:"dataset"`
	Results []result `json:"results"`
}

func NewHandler(cfg *Config, ranger Ranger) (http.Handler, error) {
	if cfg.MaxRectangles <= 0 {
		return nil, fmt.Errorf("max rectangles must be positive, got %d", cfg.MaxRectangles)
	}
	return &handler{
		cfg:    cfg,
		ranger: ranger,
	}, nil
}

type handler struct {
	ranger Ranger
	cfg    *Config
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req request
	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()
	logger := logging.FromContext(ctx)

	if r.Method != http.MethodPost {
		httputil.RespMethodNotAllowed(ctx, w, r.Method)
		return
	}
	if !httputil.RequireJSON(ctx, w, r) {
		return
	}

	defer r.Body.Close()

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	d := json.NewDecoder(r.Body)
	d.DisallowUnknownFields()
	if err := d.Decode(&req); err != nil {
		httputil.DecodeErr(ctx, w, err)
		return
	}

	if len(req.Rectangles) == 0 {
		httputil.RespBadRequest(ctx, w, "at least one rectangle is required")
		return
	}
	if len(req.Rectangles) > h.cfg.MaxRectangles {
		httputil.RespBadRequest(ctx, w, "rectangles is too large, max allowed len is %d", h.cfg.MaxRectangles)
		return
	}
	for i, rect := range req.Rectangles {
		if !rect.Valid() {
			httputil.RespBadRequest(ctx, w, "rectangle %d has its lower corner above its upper corner", i)
			return
		}
	}
	if !h.ranger.Has(req.Dataset) {
		httputil.RespNotFound(ctx, w, "dataset %q not found", req.Dataset)
		return
	}

	results := make([]result, len(req.Rectangles))
	errGrp, grpCtx := errgroup.WithContext(ctx)
	if h.cfg.MaxConcurrency > 0 {
		errGrp.SetLimit(h.cfg.MaxConcurrency)
	}
	for i, rect := range req.Rectangles {
		i, rect := i, rect
		errGrp.Go(func() error {
			if err := grpCtx.Err(); err != nil {
				return err
			}
			if req.CountOnly {
				n, err := h.ranger.Count(grpCtx, req.Dataset, rect)
				if err != nil {
					return err
				}
				results[i] = result{Count: n}
				return nil
			}
			points, err := h.ranger.Range(grpCtx, req.Dataset, rect)
			if err != nil {
				return err
			}
			results[i] = result{Points: points, Count: len(points)}
			return nil
		})
	}
	if err := errGrp.Wait(); err != nil {
		switch {
		case errors.Is(err, catalog.ErrDatasetNotFound):
			httputil.RespNotFound(ctx, w, "dataset %q not found", req.Dataset)
		case errors.Is(err, context.DeadlineExceeded):
			httputil.RespError(ctx, w, http.StatusServiceUnavailable, "range query timed out")
		default:
			httputil.RespInternalError(ctx, w, "range query processing error, %v", err)
		}
		return
	}

	logger.Debugf("answered %d rectangles on dataset %s", len(results), req.Dataset)
	httputil.RespJSON(ctx, w, http.StatusOK, response{Dataset: req.Dataset, Results: results})
}

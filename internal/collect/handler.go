package collect

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/go-sod/rango/internal/catalog"
	"github.com/go-sod/rango/internal/geom"
	"github.com/go-sod/rango/internal/httputil"
	"github.com/go-sod/rango/internal/logging"
)

const maxBodyBytes = 256 * 1024 * 1024

// Store keeps whole datasets and the indexes serving them.
type Store interface {
	Put(ctx context.Context, name string, points []geom.Point[float64]) (catalog.Stats, error)
	Stats(name string) (catalog.Stats, error)
	Names() []string
	Delete(ctx context.Context, name string) error
}

var errTooManyPoints = errors.New("too many points")

func NewHandler(cfg *Config, store Store) (http.Handler, error) {
	s := &handler{
		store: store,
		cfg:   cfg,
	}
	return s, nil
}

type handler struct {
	store Store
	cfg   *Config
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()

	name := r.URL.Query().Get("name")
	switch r.Method {
	case http.MethodPut, http.MethodPost:
		h.put(ctx, w, r, name)
	case http.MethodGet:
		h.get(ctx, w, name)
	case http.MethodDelete:
		h.delete(ctx, w, name)
	default:
		httputil.RespMethodNotAllowed(ctx, w, r.Method)
	}
}

func (h *handler) put(ctx context.Context, w http.ResponseWriter, r *http.Request, name string) {
	logger := logging.FromContext(ctx)
	if name == "" {
		httputil.RespBadRequest(ctx, w, "query parameter name is required")
		return
	}
	if !httputil.RequireJSON(ctx, w, r) {
		return
	}

	defer r.Body.Close()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		httputil.DecodeErr(ctx, w, err)
		return
	}
	points, err := parsePoints(body, h.cfg.MaxPoints)
	if err != nil {
		httputil.RespBadRequest(ctx, w, "%v", err)
		return
	}

	stats, err := h.store.Put(ctx, name, points)
	switch {
	case errors.Is(err, catalog.ErrEmptyDataset):
		httputil.RespBadRequest(ctx, w, "dataset must hold at least one point")
		return
	case err != nil:
		httputil.RespInternalError(ctx, w, "put dataset %s: %v", name, err)
		return
	}

	logger.Infof("collected %d points for dataset %s", stats.Len, name)
	httputil.RespJSON(ctx, w, http.StatusOK, stats)
}

func (h *handler) get(ctx context.Context, w http.ResponseWriter, name string) {
	if name == "" {
		httputil.RespJSON(ctx, w, http.StatusOK, struct {
			Datasets []string `json:"datasets"`
		}{Datasets: h.store.Names()})
		return
	}
	stats, err := h.store.Stats(name)
	if err != nil {
		h.respErr(ctx, w, name, err)
		return
	}
	httputil.RespJSON(ctx, w, http.StatusOK, stats)
}

func (h *handler) delete(ctx context.Context, w http.ResponseWriter, name string) {
	if name == "" {
		httputil.RespBadRequest(ctx, w, "query parameter name is required")
		return
	}
	if err := h.store.Delete(ctx, name); err != nil {
		h.respErr(ctx, w, name, err)
		return
	}
	httputil.RespJSON(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *handler) respErr(ctx context.Context, w http.ResponseWriter, name string, err error) {
	if errors.Is(err, catalog.ErrDatasetNotFound) {
		httputil.RespNotFound(ctx, w, "dataset %q not found", name)
		return
	}
	httputil.RespInternalError(ctx, w, "dataset %s: %v", name, err)
}

// parsePoints reads the "points" array of body. A point is either a [x, y]
// pair or an {"x": .., "y": ..} object.
func parsePoints(body []byte, maxPoints int) ([]geom.Point[float64], error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("malformed json")
	}
	result := gjson.GetBytes(body, "points")
	if !result.IsArray() {
		return nil, errors.New("points must be an array")
	}

	var (
		points   []geom.Point[float64]
		parseErr error
		i        int
	)
	result.ForEach(func(_, value gjson.Result) bool {
		if maxPoints > 0 && i >= maxPoints {
			parseErr = fmt.Errorf("%w, max allowed len is %d", errTooManyPoints, maxPoints)
			return false
		}
		var x, y gjson.Result
		switch {
		case value.IsArray():
			pair := value.Array()
			if len(pair) != 2 {
				parseErr = fmt.Errorf("point %d must have exactly two coordinates", i)
				return false
			}
			x, y = pair[0], pair[1]
		case value.IsObject():
			x, y = value.Get("x"), value.Get("y")
		default:
			parseErr = fmt.Errorf("point %d must be a pair or an object", i)
			return false
		}
		if x.Type != gjson.Number || y.Type != gjson.Number {
			parseErr = fmt.Errorf("point %d coordinates must be numbers", i)
			return false
		}
		points = append(points, geom.NewPoint(x.Float(), y.Float()))
		i++
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return points, nil
}

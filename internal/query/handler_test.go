package query

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/go-sod/rango/internal/catalog"
	"github.com/go-sod/rango/internal/geom"
	"github.com/go-sod/rango/internal/index/kd"
)

var sortPoints = cmpopts.SortSlices(func(a, b geom.Point[float64]) bool { return a.Less(b) })

type fakeRanger struct {
	datasets map[string]*kd.Index
}

func newFakeRanger(t *testing.T) *fakeRanger {
	t.Helper()
	idx := kd.New()
	if err := idx.Build([]geom.Point[float64]{{X: 7, Y: 2}, {X: 5, Y: 4}, {X: 9, Y: 6}, {X: 4, Y: 7}, {X: 8, Y: 1}, {X: 2, Y: 3}}...); err != nil {
		t.Fatalf("the error should not be returned, got: %v", err)
	}
	return &fakeRanger{datasets: map[string]*kd.Index{"scenario": idx}}
}

func (f *fakeRanger) Has(name string) bool {
	_, ok := f.datasets[name]
	return ok
}

func (f *fakeRanger) Range(_ context.Context, name string, r geom.Rectangle[float64]) ([]geom.Point[float64], error) {
	idx, ok := f.datasets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", catalog.ErrDatasetNotFound, name)
	}
	return idx.Range(r), nil
}

func (f *fakeRanger) Count(_ context.Context, name string, r geom.Rectangle[float64]) (int, error) {
	idx, ok := f.datasets[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", catalog.ErrDatasetNotFound, name)
	}
	return idx.Count(r), nil
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	h, err := NewHandler(&Config{RequestTimeout: 5 * time.Second, MaxRectangles: 4, MaxConcurrency: 2}, newFakeRanger(t))
	if err != nil {
		t.Fatalf("the error should not be returned, got: %v", err)
	}
	return h
}

func TestHandler_Range(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)
	body := `{"dataset": "scenario", "rectangles": [
		{"lower": {"x": 0, "y": 0}, "upper": {"x": 6, "y": 6}},
		{"lower": {"x": 9, "y": 6}, "upper": {"x": 9, "y": 6}},
		{"lower": {"x": 100, "y": 100}, "upper": {"x": 200, "y": 200}}
	]}`
	r := httptest.NewRequest(http.MethodPost, "/range", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status, got: %d, expected: %d, body: %s", w.Code, http.StatusOK, w.Body.String())
	}
	var resp response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("the error should not be returned, got: %v", err)
	}
	expected := []result{
		{Points: []geom.Point[float64]{{X: 2, Y: 3}, {X: 5, Y: 4}}, Count: 2},
		{Points: []geom.Point[float64]{{X: 9, Y: 6}}, Count: 1},
		{Count: 0},
	}
	if diff := cmp.Diff(expected, resp.Results, sortPoints, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("results mismatch (-expected +got):\n%s", diff)
	}
}

func TestHandler_CountOnly(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)
	body := `{"dataset": "scenario", "countOnly": true, "rectangles": [{"lower": {"x": 0, "y": 0}, "upper": {"x": 10, "y": 10}}]}`
	r := httptest.NewRequest(http.MethodPost, "/range", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	var resp response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("the error should not be returned, got: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Count != 6 || len(resp.Results[0].Points) != 0 {
		t.Errorf("count only results, got: %+v, expected: a single count of 6", resp.Results)
	}
}

func TestHandler_Errors(t *testing.T) {
	t.Parallel()
	rect := `{"lower": {"x": 0, "y": 0}, "upper": {"x": 6, "y": 6}}`
	tests := []struct {
		name        string
		method      string
		contentType string
		body        string
		expected    int
	}{
		{name: "method", method: http.MethodGet, contentType: "application/json", expected: http.StatusMethodNotAllowed},
		{name: "content_type", method: http.MethodPost, contentType: "text/plain", body: `{}`, expected: http.StatusUnsupportedMediaType},
		{name: "malformed", method: http.MethodPost, contentType: "application/json", body: `{"dataset":`, expected: http.StatusBadRequest},
		{name: "no_rectangles", method: http.MethodPost, contentType: "application/json", body: `{"dataset": "scenario"}`, expected: http.StatusBadRequest},
		{
			name:        "too_many_rectangles",
			method:      http.MethodPost,
			contentType: "application/json",
			body:        `{"dataset": "scenario", "rectangles": [` + strings.Repeat(rect+",", 4) + rect + `]}`,
			expected:    http.StatusBadRequest,
		},
		{
			name:        "inverted_rectangle",
			method:      http.MethodPost,
			contentType: "application/json",
			body:        `{"dataset": "scenario", "rectangles": [{"lower": {"x": 6, "y": 6}, "upper": {"x": 0, "y": 0}}]}`,
			expected:    http.StatusBadRequest,
		},
		{
			name:        "unknown_dataset",
			method:      http.MethodPost,
			contentType: "application/json",
			body:        `{"dataset": "missing", "rectangles": [` + rect + `]}`,
			expected:    http.StatusNotFound,
		},
	}
	h := newTestHandler(t)
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(test.method, "/range", strings.NewReader(test.body))
			r.Header.Set("Content-Type", test.contentType)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)
			if w.Code != test.expected {
				t.Errorf("status, got: %d, expected: %d, body: %s", w.Code, test.expected, w.Body.String())
			}
		})
	}
}

// Package metrics declares the service measures and exposes them to
// Prometheus.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"contrib.go.opencensus.io/exporter/prometheus"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

var (
	KeyDataset = tag.MustNewKey("dataset")

	QueryLatency  = stats.Float64("rango/query_latency", "Latency of a rectangle query", stats.UnitMilliseconds)
	QueryResults  = stats.Int64("rango/query_results", "Points returned by a rectangle query", stats.UnitDimensionless)
	BuildLatency  = stats.Float64("rango/build_latency", "Latency of building a dataset index", stats.UnitMilliseconds)
	IndexedPoints = stats.Int64("rango/indexed_points", "Points held by a dataset index", stats.UnitDimensionless)
)

var latencyBounds = view.Distribution(0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50, 100, 500, 1000, 5000)

var Views = []*view.View{
	{
		Name:        "rango/query_count",
		Description: "Number of rectangle queries",
		Measure:     QueryLatency,
		Aggregation: view.Count(),
		TagKeys:     []tag.Key{KeyDataset},
	},
	{
		Name:        "rango/query_latency",
		Description: "Distribution of rectangle query latency",
		Measure:     QueryLatency,
		Aggregation: latencyBounds,
		TagKeys:     []tag.Key{KeyDataset},
	},
	{
		Name:        "rango/query_results",
		Description: "Distribution of points returned per query",
		Measure:     QueryResults,
		Aggregation: view.Distribution(0, 1, 10, 100, 1000, 10000, 100000),
		TagKeys:     []tag.Key{KeyDataset},
	},
	{
		Name:        "rango/build_latency",
		Description: "Distribution of index build latency",
		Measure:     BuildLatency,
		Aggregation: latencyBounds,
		TagKeys:     []tag.Key{KeyDataset},
	},
	{
		Name:        "rango/indexed_points",
		Description: "Points held by the current index of a dataset",
		Measure:     IndexedPoints,
		Aggregation: view.LastValue(),
		TagKeys:     []tag.Key{KeyDataset},
	},
}

func Register() error {
	if err := view.Register(Views...); err != nil {
		return fmt.Errorf("register views: %w", err)
	}
	return nil
}

// NewHandler returns the Prometheus scrape handler for the registered views.
func NewHandler(namespace string) (http.Handler, error) {
	pe, err := prometheus.NewExporter(prometheus.Options{Namespace: namespace})
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}
	return pe, nil
}

func RecordQuery(ctx context.Context, dataset string, latency time.Duration, results int) {
	ctx, err := tag.New(ctx, tag.Upsert(KeyDataset, dataset))
	if err != nil {
		return
	}
	stats.Record(ctx, QueryLatency.M(millis(latency)), QueryResults.M(int64(results)))
}

func RecordBuild(ctx context.Context, dataset string, latency time.Duration, points int) {
	ctx, err := tag.New(ctx, tag.Upsert(KeyDataset, dataset))
	if err != nil {
		return
	}
	stats.Record(ctx, BuildLatency.M(millis(latency)), IndexedPoints.M(int64(points)))
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

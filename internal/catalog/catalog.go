// Package catalog keeps one built, immutable index per stored dataset.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/go-sod/rango/internal/dataset"
	"github.com/go-sod/rango/internal/geom"
	"github.com/go-sod/rango/internal/index"
	"github.com/go-sod/rango/internal/logging"
	"github.com/go-sod/rango/internal/metrics"
)

var (
	ErrDatasetNotFound = errors.New("dataset not found")
	ErrEmptyDataset    = errors.New("dataset must hold at least one point")
	ErrEmptyName       = errors.New("dataset name must not be empty")
)

// Abstractions over the dataset store
type (
	storeDatasetFn  func(context.Context, dataset.Dataset) error
	fetchDatasetsFn func(context.Context) ([]dataset.Dataset, error)
	deleteDatasetFn func(context.Context, string) error
)

type pullDependencies struct {
	storeDataset  storeDatasetFn
	fetchDatasets fetchDatasetsFn
	deleteDataset deleteDatasetFn
}

type Options struct {
	maxConcurrentBuilds int
}

type Option func(*Catalog)

func WithMaxConcurrentBuilds(n int) Option {
	return func(c *Catalog) {
		c.opts.maxConcurrentBuilds = n
	}
}

// Stats describes the index currently serving a dataset.
type Stats struct {
	Name      string                  `json:"name"`
	Revision  string                  `json:"revision"`
	Len       int                     `json:"len"`
	RootAxis  string                  `json:"rootAxis,omitempty"`
	Height    int                     `json:"height,omitempty"`
	Bounds    geom.Rectangle[float64] `json:"bounds"`
	Checksum  string                  `json:"checksum"`
	CreatedAt time.Time               `json:"createdAt"`
}

type entry struct {
	stats Stats
	idx   index.Index
}

func New(db *dataset.DB, provide index.ProvideFn, opts ...Option) *Catalog {
	return newCatalog(pullDependencies{
		storeDataset:  db.Store,
		fetchDatasets: db.FindAll,
		deleteDataset: db.Delete,
	}, provide, opts...)
}

func newCatalog(deps pullDependencies, provide index.ProvideFn, opts ...Option) *Catalog {
	c := &Catalog{
		entries: map[string]*entry{},
		provide: provide,
		deps:    deps,
		opts:    Options{maxConcurrentBuilds: 4},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Catalog is safe for concurrent use. Built indexes are never modified: Put
// builds a new one and swaps it in.
type Catalog struct {
	// writeMtx orders store writes with the swaps that follow them, so the
	// served index always matches the stored dataset.
	writeMtx sync.Mutex
	mtx      sync.RWMutex
	entries map[string]*entry
	provide index.ProvideFn
	deps    pullDependencies
	opts    Options
}

// Load builds an index for every stored dataset.
func (c *Catalog) Load(ctx context.Context) error {
	logger := logging.FromContext(ctx)
	list, err := c.deps.fetchDatasets(ctx)
	if err != nil {
		return fmt.Errorf("fetch datasets: %w", err)
	}

	errGrp, ctx := errgroup.WithContext(ctx)
	if c.opts.maxConcurrentBuilds > 0 {
		errGrp.SetLimit(c.opts.maxConcurrentBuilds)
	}
	for _, d := range list {
		d := d
		errGrp.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			e, err := c.build(ctx, d)
			if err != nil {
				return fmt.Errorf("load dataset %s: %w", d.Name, err)
			}
			c.swap(e)
			return nil
		})
	}
	if err := errGrp.Wait(); err != nil {
		return err
	}

	logger.Infof("loaded %d datasets", len(list))
	return nil
}

// Put replaces the dataset name with points, persists it and serves queries
// from a freshly built index.
func (c *Catalog) Put(ctx context.Context, name string, points []geom.Point[float64]) (Stats, error) {
	if name == "" {
		return Stats{}, ErrEmptyName
	}
	if len(points) == 0 {
		return Stats{}, ErrEmptyDataset
	}

	d := dataset.New(name, points, time.Now().UTC())
	e, err := c.build(ctx, d)
	if err != nil {
		return Stats{}, fmt.Errorf("build dataset %s: %w", name, err)
	}

	c.writeMtx.Lock()
	defer c.writeMtx.Unlock()
	if err := c.deps.storeDataset(ctx, d); err != nil {
		return Stats{}, fmt.Errorf("store dataset %s: %w", name, err)
	}
	c.swap(e)

	logging.FromContext(ctx).Infof("dataset %s revision %s serving %d points", name, d.Revision, d.Len())
	return e.stats, nil
}

func (c *Catalog) Delete(ctx context.Context, name string) error {
	c.writeMtx.Lock()
	defer c.writeMtx.Unlock()
	if _, err := c.lookup(name); err != nil {
		return err
	}
	if err := c.deps.deleteDataset(ctx, name); err != nil && !errors.Is(err, dataset.ErrNotFound) {
		return fmt.Errorf("delete dataset %s: %w", name, err)
	}
	c.mtx.Lock()
	delete(c.entries, name)
	c.mtx.Unlock()
	return nil
}

func (c *Catalog) Has(name string) bool {
	_, err := c.lookup(name)
	return err == nil
}

func (c *Catalog) Stats(name string) (Stats, error) {
	e, err := c.lookup(name)
	if err != nil {
		return Stats{}, err
	}
	return e.stats, nil
}

// Names returns the served dataset names in sorted order.
func (c *Catalog) Names() []string {
	c.mtx.RLock()
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	c.mtx.RUnlock()
	sort.Strings(names)
	return names
}

// Range returns the points of dataset name inside r.
func (c *Catalog) Range(ctx context.Context, name string, r geom.Rectangle[float64]) ([]geom.Point[float64], error) {
	e, err := c.lookup(name)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	points := e.idx.Range(r)
	metrics.RecordQuery(ctx, name, time.Since(start), len(points))
	return points, nil
}

// Count returns the number of points of dataset name inside r.
func (c *Catalog) Count(ctx context.Context, name string, r geom.Rectangle[float64]) (int, error) {
	e, err := c.lookup(name)
	if err != nil {
		return 0, err
	}
	start := time.Now()
	n := e.idx.Count(r)
	metrics.RecordQuery(ctx, name, time.Since(start), n)
	return n, nil
}

func (c *Catalog) lookup(name string) (*entry, error) {
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	e, ok := c.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, name)
	}
	return e, nil
}

func (c *Catalog) swap(e *entry) {
	c.mtx.Lock()
	c.entries[e.stats.Name] = e
	c.mtx.Unlock()
}

func (c *Catalog) build(ctx context.Context, d dataset.Dataset) (*entry, error) {
	if d.Len() == 0 {
		return nil, ErrEmptyDataset
	}
	idx, err := c.provide()
	if err != nil {
		return nil, fmt.Errorf("provide index: %w", err)
	}
	start := time.Now()
	if err := idx.Build(d.Points...); err != nil {
		return nil, err
	}
	metrics.RecordBuild(ctx, d.Name, time.Since(start), idx.Len())

	bounds, err := geom.Bounds(d.Points)
	if err != nil {
		return nil, err
	}
	stats := Stats{
		Name:      d.Name,
		Revision:  d.Revision.String(),
		Len:       idx.Len(),
		Bounds:    bounds,
		Checksum:  d.Checksum,
		CreatedAt: d.CreatedAt,
	}
	if shaper, ok := idx.(index.Shaper); ok {
		stats.RootAxis = shaper.RootAxis().String()
		stats.Height = shaper.Height()
	}
	return &entry{stats: stats, idx: idx}, nil
}

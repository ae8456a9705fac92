package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/go-sod/rango/internal/dataset"
	"github.com/go-sod/rango/internal/geom"
	"github.com/go-sod/rango/internal/index"
)

var sortPoints = cmpopts.SortSlices(func(a, b geom.Point[float64]) bool { return a.Less(b) })

type memStore struct {
	mtx      sync.Mutex
	datasets map[string]dataset.Dataset
	storeErr error
	// deleteDelay stalls deleteDataset after the record is gone.
	deleteDelay time.Duration
}

func (m *memStore) deps() pullDependencies {
	return pullDependencies{
		storeDataset: func(_ context.Context, d dataset.Dataset) error {
			if m.storeErr != nil {
				return m.storeErr
			}
			m.mtx.Lock()
			defer m.mtx.Unlock()
			m.datasets[d.Name] = d
			return nil
		},
		fetchDatasets: func(context.Context) ([]dataset.Dataset, error) {
			m.mtx.Lock()
			defer m.mtx.Unlock()
			var list []dataset.Dataset
			for _, d := range m.datasets {
				list = append(list, d)
			}
			return list, nil
		},
		deleteDataset: func(_ context.Context, name string) error {
			m.mtx.Lock()
			if _, ok := m.datasets[name]; !ok {
				m.mtx.Unlock()
				return dataset.ErrNotFound
			}
			delete(m.datasets, name)
			m.mtx.Unlock()
			time.Sleep(m.deleteDelay)
			return nil
		},
	}
}

func newTestCatalog(t *testing.T, store *memStore, alg index.AlgType) *Catalog {
	t.Helper()
	provide, err := index.ProvideFor(alg)
	if err != nil {
		t.Fatalf("the error should not be returned, got: %v", err)
	}
	return newCatalog(store.deps(), provide, WithMaxConcurrentBuilds(2))
}

var scenario = []geom.Point[float64]{{X: 7, Y: 2}, {X: 5, Y: 4}, {X: 9, Y: 6}, {X: 4, Y: 7}, {X: 8, Y: 1}, {X: 2, Y: 3}}

func TestCatalog_PutRange(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	for _, alg := range []index.AlgType{index.AlgTypeKDTree, index.AlgTypeBrute} {
		store := &memStore{datasets: map[string]dataset.Dataset{}}
		c := newTestCatalog(t, store, alg)

		stats, err := c.Put(ctx, "scenario", scenario)
		if err != nil {
			t.Fatalf("%s: the error should not be returned, got: %v", alg, err)
		}
		if stats.Len != len(scenario) {
			t.Errorf("%s: dataset length, got: %d, expected: %d", alg, stats.Len, len(scenario))
		}
		expectedBounds := geom.NewRectangle(geom.NewPoint(2.0, 1.0), geom.NewPoint(9.0, 7.0))
		if stats.Bounds != expectedBounds {
			t.Errorf("%s: dataset bounds, got: %v, expected: %v", alg, stats.Bounds, expectedBounds)
		}
		if alg == index.AlgTypeKDTree && (stats.RootAxis != "x" || stats.Height != 3) {
			t.Errorf("%s: tree shape, got: %s/%d, expected: x/3", alg, stats.RootAxis, stats.Height)
		}
		if _, ok := store.datasets["scenario"]; !ok {
			t.Errorf("%s: the dataset was not stored", alg)
		}

		rect := geom.NewRectangle(geom.NewPoint(0.0, 0.0), geom.NewPoint(6.0, 6.0))
		got, err := c.Range(ctx, "scenario", rect)
		if err != nil {
			t.Fatalf("%s: the error should not be returned, got: %v", alg, err)
		}
		expected := []geom.Point[float64]{{X: 2, Y: 3}, {X: 5, Y: 4}}
		if diff := cmp.Diff(expected, got, sortPoints); diff != "" {
			t.Errorf("%s: range mismatch (-expected +got):\n%s", alg, diff)
		}
		n, err := c.Count(ctx, "scenario", rect)
		if err != nil || n != 2 {
			t.Errorf("%s: range count, got: %d %v, expected: %d", alg, n, err, 2)
		}
	}
}

func TestCatalog_PutReplaces(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := &memStore{datasets: map[string]dataset.Dataset{}}
	c := newTestCatalog(t, store, index.AlgTypeKDTree)

	first, err := c.Put(ctx, "d", scenario)
	if err != nil {
		t.Fatalf("the error should not be returned, got: %v", err)
	}
	second, err := c.Put(ctx, "d", []geom.Point[float64]{{X: 100, Y: 100}})
	if err != nil {
		t.Fatalf("the error should not be returned, got: %v", err)
	}
	if first.Revision == second.Revision {
		t.Errorf("replacing a dataset must create a new revision, got: %s twice", first.Revision)
	}
	got, _ := c.Range(ctx, "d", geom.NewRectangle(geom.NewPoint(0.0, 0.0), geom.NewPoint(1000.0, 1000.0)))
	if diff := cmp.Diff([]geom.Point[float64]{{X: 100, Y: 100}}, got); diff != "" {
		t.Errorf("range after replace mismatch (-expected +got):\n%s", diff)
	}
}

func TestCatalog_PutErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	storeErr := errors.New("disk is full")
	tests := []struct {
		name        string
		dataset     string
		points      []geom.Point[float64]
		storeErr    error
		expectedErr error
	}{
		{name: "empty_points", dataset: "d", points: nil, expectedErr: ErrEmptyDataset},
		{name: "empty_name", dataset: "", points: scenario, expectedErr: ErrEmptyName},
		{name: "store_failure", dataset: "d", points: scenario, storeErr: storeErr, expectedErr: storeErr},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			store := &memStore{datasets: map[string]dataset.Dataset{}, storeErr: test.storeErr}
			c := newTestCatalog(t, store, index.AlgTypeKDTree)
			if _, err := c.Put(ctx, test.dataset, test.points); !errors.Is(err, test.expectedErr) {
				t.Errorf("put, got: %v, expected: %v", err, test.expectedErr)
			}
			if c.Has(test.dataset) {
				t.Errorf("a failed put must not serve dataset %q", test.dataset)
			}
		})
	}
}

func TestCatalog_Load(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := &memStore{datasets: map[string]dataset.Dataset{
		"b": dataset.New("b", []geom.Point[float64]{{X: 1, Y: 1}, {X: 2, Y: 2}}, time.Now()),
		"a": dataset.New("a", scenario, time.Now()),
		"c": dataset.New("c", []geom.Point[float64]{{X: 0, Y: 0}}, time.Now()),
	}}
	c := newTestCatalog(t, store, index.AlgTypeKDTree)
	if err := c.Load(ctx); err != nil {
		t.Fatalf("the error should not be returned, got: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, c.Names()); diff != "" {
		t.Errorf("loaded names mismatch (-expected +got):\n%s", diff)
	}
	stats, err := c.Stats("a")
	if err != nil {
		t.Fatalf("the error should not be returned, got: %v", err)
	}
	if stats.Checksum != store.datasets["a"].Checksum || stats.Revision != store.datasets["a"].Revision.String() {
		t.Errorf("loaded stats, got: %+v, expected checksum %s", stats, store.datasets["a"].Checksum)
	}

	store.datasets["broken"] = dataset.Dataset{Name: "broken"}
	if err := newTestCatalog(t, store, index.AlgTypeKDTree).Load(ctx); !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("loading an empty dataset, got: %v, expected: %v", err, ErrEmptyDataset)
	}
}

func TestCatalog_Delete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := &memStore{datasets: map[string]dataset.Dataset{}}
	c := newTestCatalog(t, store, index.AlgTypeKDTree)
	if _, err := c.Put(ctx, "d", scenario); err != nil {
		t.Fatalf("the error should not be returned, got: %v", err)
	}
	if err := c.Delete(ctx, "d"); err != nil {
		t.Fatalf("the error should not be returned, got: %v", err)
	}
	if _, err := c.Range(ctx, "d", geom.NewRectangle(geom.NewPoint(0.0, 0.0), geom.NewPoint(1.0, 1.0))); !errors.Is(err, ErrDatasetNotFound) {
		t.Errorf("range on a deleted dataset, got: %v, expected: %v", err, ErrDatasetNotFound)
	}
	if err := c.Delete(ctx, "d"); !errors.Is(err, ErrDatasetNotFound) {
		t.Errorf("deleting twice, got: %v, expected: %v", err, ErrDatasetNotFound)
	}
	if len(store.datasets) != 0 {
		t.Errorf("the dataset must be removed from the store, got: %d left", len(store.datasets))
	}
}

func TestCatalog_PutDuringDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := &memStore{datasets: map[string]dataset.Dataset{}, deleteDelay: 100 * time.Millisecond}
	c := newTestCatalog(t, store, index.AlgTypeKDTree)
	if _, err := c.Put(ctx, "d", scenario); err != nil {
		t.Fatalf("the error should not be returned, got: %v", err)
	}

	deleted := make(chan error, 1)
	go func() {
		deleted <- c.Delete(ctx, "d")
	}()
	time.Sleep(20 * time.Millisecond)
	points := []geom.Point[float64]{{X: 1, Y: 1}, {X: 2, Y: 2}}
	if _, err := c.Put(ctx, "d", points); err != nil {
		t.Fatalf("the error should not be returned, got: %v", err)
	}
	if err := <-deleted; err != nil {
		t.Fatalf("the error should not be returned, got: %v", err)
	}

	store.mtx.Lock()
	stored, persisted := store.datasets["d"]
	store.mtx.Unlock()
	served := c.Has("d")
	if served != persisted {
		t.Fatalf("served and stored must agree, got: served=%v persisted=%v", served, persisted)
	}
	if !served {
		t.Fatalf("the put following the delete must win")
	}
	stats, err := c.Stats("d")
	if err != nil {
		t.Fatalf("the error should not be returned, got: %v", err)
	}
	if stats.Revision != stored.Revision.String() || stats.Len != len(points) {
		t.Errorf("served revision, got: %s with %d points, expected: %s with %d points",
			stats.Revision, stats.Len, stored.Revision, len(points))
	}
}

func TestCatalog_ConcurrentPut(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := &memStore{datasets: map[string]dataset.Dataset{}}
	c := newTestCatalog(t, store, index.AlgTypeKDTree)

	var wg sync.WaitGroup
	for i := 1; i <= 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			points := make([]geom.Point[float64], n)
			for j := range points {
				points[j] = geom.NewPoint(float64(j), float64(j))
			}
			if _, err := c.Put(ctx, "d", points); err != nil {
				t.Errorf("the error should not be returned, got: %v", err)
			}
		}(i)
	}
	wg.Wait()

	stats, err := c.Stats("d")
	if err != nil {
		t.Fatalf("the error should not be returned, got: %v", err)
	}
	store.mtx.Lock()
	stored := store.datasets["d"]
	store.mtx.Unlock()
	if stats.Revision != stored.Revision.String() {
		t.Errorf("served revision, got: %s, expected the stored %s", stats.Revision, stored.Revision)
	}
}

func TestCatalog_ConcurrentRange(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := &memStore{datasets: map[string]dataset.Dataset{}}
	c := newTestCatalog(t, store, index.AlgTypeKDTree)
	if _, err := c.Put(ctx, "d", scenario); err != nil {
		t.Fatalf("the error should not be returned, got: %v", err)
	}

	rect := geom.NewRectangle(geom.NewPoint(0.0, 0.0), geom.NewPoint(6.0, 6.0))
	var wg sync.WaitGroup
	errCh := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := c.Range(ctx, "d", rect)
			if err != nil {
				errCh <- err
				return
			}
			if len(got) != 2 {
				errCh <- errors.New("concurrent range returned a wrong number of points")
			}
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Error(err)
	}
}

// Package seed loads datasets declared in a TOML file, e.g.
//
//	[[dataset]]
//	name = "scenario"
//	points = [[7, 2], [5, 4], [9, 6], [4, 7], [8, 1], [2, 3]]
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/go-sod/rango/internal/catalog"
	"github.com/go-sod/rango/internal/geom"
	"github.com/go-sod/rango/internal/logging"
)

type Config struct {
	File string `envconfig:"RANGO_SEED_FILE"`
}

type File struct {
	Datasets []Dataset `toml:"dataset"`
}

type Dataset struct {
	Name   string      `toml:"name"`
	Points [][]interface{} `toml:"points"`
}

// Putter stores a dataset unless one with the same name already exists.
type Putter interface {
	Has(name string) bool
	Put(ctx context.Context, name string, points []geom.Point[float64]) (catalog.Stats, error)
}

func Decode(path string) (*File, error) {
	var f File
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	return &f, nil
}

func (d Dataset) GeomPoints() ([]geom.Point[float64], error) {
	if d.Name == "" {
		return nil, errors.New("dataset name must not be empty")
	}
	points := make([]geom.Point[float64], len(d.Points))
	for i, p := range d.Points {
		if len(p) != 2 {
			return nil, fmt.Errorf("dataset %s point %d must have exactly two coordinates", d.Name, i)
		}
		x, okX := number(p[0])
		y, okY := number(p[1])
		if !okX || !okY {
			return nil, fmt.Errorf("dataset %s point %d coordinates must be numbers", d.Name, i)
		}
		points[i] = geom.NewPoint(x, y)
	}
	return points, nil
}

// number converts a decoded TOML integer or float.
func number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func (f *File) Find(name string) (Dataset, bool) {
	for _, d := range f.Datasets {
		if d.Name == name {
			return d, true
		}
	}
	return Dataset{}, false
}

// Load puts every dataset of the seed file the store does not hold yet.
func Load(ctx context.Context, path string, store Putter) (int, error) {
	logger := logging.FromContext(ctx)
	f, err := Decode(path)
	if err != nil {
		return 0, err
	}

	var seeded int
	for _, d := range f.Datasets {
		if store.Has(d.Name) {
			logger.Debugf("seed: dataset %s already stored, skipping", d.Name)
			continue
		}
		points, err := d.GeomPoints()
		if err != nil {
			return seeded, err
		}
		if _, err := store.Put(ctx, d.Name, points); err != nil {
			return seeded, fmt.Errorf("seed dataset %s: %w", d.Name, err)
		}
		seeded++
	}
	logger.Infof("seeded %d datasets from %s", seeded, path)
	return seeded, nil
}

package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/go-sod/rango/internal/database"
)

const bucketName = "datasets:"

var ErrNotFound = errors.New("dataset not found")

func NewDB(db *database.DB) *DB {
	return &DB{sDB: db}
}

type DB struct {
	sDB *database.DB
}

// Store replaces the dataset stored under d.Name.
func (db *DB) Store(_ context.Context, d Dataset) error {
	bytes, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal dataset %s: %w", d.Name, err)
	}

	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		if err := b.Put([]byte(d.Name), bytes); err != nil {
			return fmt.Errorf("put to bucket error: %w", err)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("update transaction error: %w", err)
	}

	return nil
}

func (db *DB) FindAll(_ context.Context) ([]Dataset, error) {
	var list []Dataset
	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var d Dataset
			if err := json.Unmarshal(v, &d); err != nil {
				return fmt.Errorf("json unmarshal error for %s, %w", k, err)
			}
			list = append(list, d)
			return nil
		})
	}); err != nil {
		return nil, fmt.Errorf("view transaction error: %w", err)
	}

	return list, nil
}

func (db *DB) Delete(_ context.Context, name string) error {
	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil || b.Get([]byte(name)) == nil {
			return ErrNotFound
		}
		return b.Delete([]byte(name))
	}); err != nil {
		return fmt.Errorf("update transaction error: %w", err)
	}

	return nil
}

package dataset

import (
	"time"

	"github.com/google/uuid"

	"github.com/go-sod/rango/internal/geom"
	"github.com/go-sod/rango/internal/util"
)

// Dataset is a named, complete point set. Replacing a dataset stores a new
// revision; points are never edited in place.
type Dataset struct {
	Name      string                `json:"name"`
	Revision  uuid.UUID             `json:"revision"`
	Points    []geom.Point[float64] `json:"points"`
	Checksum  string                `json:"checksum"`
	CreatedAt time.Time             `json:"createdAt"`
}

func New(name string, points []geom.Point[float64], createdAt time.Time) Dataset {
	return Dataset{
		Name:      name,
		Revision:  uuid.New(),
		Points:    points,
		Checksum:  util.HashPoints(points),
		CreatedAt: createdAt,
	}
}

func (d Dataset) Len() int {
	return len(d.Points)
}

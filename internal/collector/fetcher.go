package collector

import (
	"context"

	"SplitChart/internal/model"
)

// Source supplies the raw records of one price series.
type Source interface {
	Load(ctx context.Context) ([]model.RawRecord, error)
	Name() string
}

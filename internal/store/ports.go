package store

import (
	"context"

	"ecotrack/internal/core"
)

// Ports for storage adapters.
type (
	// Loader reads the whole activity collection in insertion order.
	// A storage location that does not exist yet yields an empty collection.
	Loader interface {
		Load(ctx context.Context) ([]core.Activity, error)
	}

	// Saver overwrites the stored collection with activities. Readers never
	// observe a partially written collection.
	Saver interface {
		Save(ctx context.Context, activities []core.Activity) error
	}

	Store interface {
		Loader
		Saver
	}
)

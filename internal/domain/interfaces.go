package domain

import "context"

// Snapshotter persists and loads the plain record descriptors of a company.
// Save replaces whatever the backend held before.
type Snapshotter interface {
	Save(ctx context.Context, records []Descriptor) error
	Load(ctx context.Context) ([]Descriptor, error)
}

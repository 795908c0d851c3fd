package ports

import "context"

// PhotoStore accepts a binary payload and returns an opaque reference. The
// coffee service owns the transfer ordering: a coffee record never references
// a photo the store has not confirmed.
type PhotoStore interface {
	Save(ctx context.Context, filename string, data []byte) (ref string, err error)
	Load(ctx context.Context, ref string) ([]byte, error)
	Delete(ctx context.Context, ref string) error
}

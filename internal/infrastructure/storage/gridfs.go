package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/brewbase/coffee-catalog/internal/core/domain"
)

const photoBucket = "photos"

// GridFSPhotoStore keeps coffee photos in a GridFS bucket inside the same
// database as the catalog, so a single Mongo deployment carries both.
type GridFSPhotoStore struct {
	db *mongo.Database
}

func NewGridFSPhotoStore(db *mongo.Database) *GridFSPhotoStore {
	return &GridFSPhotoStore{db: db}
}

func (s *GridFSPhotoStore) bucket() (*gridfs.Bucket, error) {
	b, err := gridfs.NewBucket(s.db, options.GridFSBucket().SetName(photoBucket))
	if err != nil {
		return nil, fmt.Errorf("gridfs bucket: %w", err)
	}
	return b, nil
}

// Save uploads the photo bytes and returns the hex file id as the stored
// reference.
func (s *GridFSPhotoStore) Save(ctx context.Context, filename string, data []byte) (string, error) {
	b, err := s.bucket()
	if err != nil {
		return "", err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = b.SetWriteDeadline(deadline)
	}

	id, err := b.UploadFromStream(filename, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("gridfs upload: %w", err)
	}
	return id.Hex(), nil
}

func (s *GridFSPhotoStore) Load(ctx context.Context, ref string) ([]byte, error) {
	oid, err := primitive.ObjectIDFromHex(ref)
	if err != nil {
		return nil, domain.ErrPhotoNotFound
	}

	b, err := s.bucket()
	if err != nil {
		return nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = b.SetReadDeadline(deadline)
	}

	var buf bytes.Buffer
	if _, err := b.DownloadToStream(oid, &buf); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, domain.ErrPhotoNotFound
		}
		return nil, fmt.Errorf("gridfs download: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *GridFSPhotoStore) Delete(ctx context.Context, ref string) error {
	oid, err := primitive.ObjectIDFromHex(ref)
	if err != nil {
		return domain.ErrPhotoNotFound
	}

	b, err := s.bucket()
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = b.SetWriteDeadline(deadline)
	}

	if err := b.Delete(oid); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return domain.ErrPhotoNotFound
		}
		return fmt.Errorf("gridfs delete: %w", err)
	}
	return nil
}

package persistence

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/locvowork/company_registry/internal/domain"
)

const fileBackend = "file"

// FileSnapshotter stores descriptors in a single file. Save writes a temp file
// next to the target and renames it over the old one, so the last save wins
// and readers never see a half-written file.
type FileSnapshotter struct {
	Path  string
	Codec Codec
}

// NewFileSnapshotter creates a snapshotter whose codec follows the file extension.
func NewFileSnapshotter(path string) (*FileSnapshotter, error) {
	codec, err := CodecForPath(path)
	if err != nil {
		return nil, domain.NewPersistenceError(fileBackend, "open", err)
	}
	return &FileSnapshotter{Path: path, Codec: codec}, nil
}

func (s *FileSnapshotter) Save(ctx context.Context, records []domain.Descriptor) error {
	if err := ctx.Err(); err != nil {
		return domain.NewPersistenceError(fileBackend, "save", err)
	}

	data, err := EncodeToBytes(s.Codec, records)
	if err != nil {
		return domain.NewPersistenceError(fileBackend, "save", fmt.Errorf("encoding %s: %w", s.Codec.Name(), err))
	}

	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.Path)+".*")
	if err != nil {
		return domain.NewPersistenceError(fileBackend, "save", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return domain.NewPersistenceError(fileBackend, "save", err)
	}
	if err := tmp.Close(); err != nil {
		return domain.NewPersistenceError(fileBackend, "save", err)
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		return domain.NewPersistenceError(fileBackend, "save", err)
	}
	return nil
}

func (s *FileSnapshotter) Load(ctx context.Context) ([]domain.Descriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewPersistenceError(fileBackend, "load", err)
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, domain.NewPersistenceError(fileBackend, "load", err)
	}
	records, err := s.Codec.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, domain.NewPersistenceError(fileBackend, "load", fmt.Errorf("%s: %w", s.Path, err))
	}
	return records, nil
}

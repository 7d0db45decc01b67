package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/dshills/customindent/internal/indent"
)

// File permissions used for settings files.
const (
	dirPerm  fs.FileMode = 0o755
	filePerm fs.FileMode = 0o644
)

// FileBackend persists preferences in a single settings file.
type FileBackend struct {
	fs    FileSystem
	path  string
	codec Codec
}

// FileOption configures a FileBackend.
type FileOption func(*FileBackend)

// WithFileSystem replaces the OS file system.
func WithFileSystem(fsys FileSystem) FileOption {
	return func(b *FileBackend) {
		if fsys != nil {
			b.fs = fsys
		}
	}
}

// WithCodec forces a codec regardless of the path extension.
func WithCodec(c Codec) FileOption {
	return func(b *FileBackend) {
		if c != nil {
			b.codec = c
		}
	}
}

// NewFileBackend creates a backend for the settings file at path. The codec
// is chosen from the file extension.
func NewFileBackend(path string, opts ...FileOption) *FileBackend {
	b := &FileBackend{
		fs:    DefaultFS(),
		path:  path,
		codec: CodecFor(path),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Location returns the settings file path.
func (b *FileBackend) Location() string {
	return b.path
}

// Codec returns the codec used for the file.
func (b *FileBackend) Codec() Codec {
	return b.codec
}

// Load reads the settings file. A missing file is reported as not found.
func (b *FileBackend) Load(ctx context.Context) (map[indent.LanguageID]indent.Preference, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, fmt.Errorf("%w: %w", indent.ErrStorageUnavailable, err)
	}

	data, err := b.fs.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: reading %s: %w", indent.ErrStorageUnavailable, b.path, err)
	}

	prefs, err := b.codec.Decode(b.path, data)
	if err != nil {
		return nil, false, err
	}
	return prefs, true, nil
}

// Save overwrites the settings file, creating its directory if needed.
func (b *FileBackend) Save(ctx context.Context, prefs map[indent.LanguageID]indent.Preference) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", indent.ErrStorageUnavailable, err)
	}

	data, err := b.codec.Encode(prefs)
	if err != nil {
		return err
	}
	if err := b.fs.MkdirAll(filepath.Dir(b.path), dirPerm); err != nil {
		return fmt.Errorf("%w: creating %s: %w", indent.ErrStorageUnavailable, filepath.Dir(b.path), err)
	}
	if err := b.fs.WriteFile(b.path, data, filePerm); err != nil {
		return fmt.Errorf("%w: writing %s: %w", indent.ErrStorageUnavailable, b.path, err)
	}
	return nil
}

var _ indent.Backend = (*FileBackend)(nil)

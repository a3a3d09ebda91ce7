// Package storage publishes analysis artifacts. Artifacts always land in the
// local output root; an S3 bucket can mirror them.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"energy-tools/internal/config"
)

var ErrInvalidKey = errors.New("invalid artifact key")

// Storage stores artifacts under slash-separated keys relative to the output
// root.
type Storage interface {
	// Put writes the artifact and returns its local path.
	Put(ctx context.Context, key string, r io.Reader) (string, error)
	// Sync publishes a file that already exists under the output root, such
	// as one written by the simulation collaborator.
	Sync(ctx context.Context, key string) error
}

// New builds the storage selected by cfg.StorageType.
func New(ctx context.Context, cfg *config.Config) (Storage, error) {
	local, err := NewLocalStorage(cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	switch cfg.StorageType {
	case "", "local":
		return local, nil
	case "s3":
		remote, err := NewS3Storage(ctx, S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Prefix:    cfg.S3Prefix,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			return nil, err
		}
		return &Mirror{Local: local, Remote: remote}, nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.StorageType)
	}
}

// cleanKey rejects absolute keys and keys escaping the root.
func cleanKey(key string) (string, error) {
	k := path.Clean(filepath.ToSlash(key))
	if k == "." || strings.HasPrefix(k, "/") || k == ".." || strings.HasPrefix(k, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return k, nil
}

// LocalStorage writes artifacts below basePath.
type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// Path is the local file for key.
func (s *LocalStorage) Path(key string) (string, error) {
	k, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.basePath, filepath.FromSlash(k)), nil
}

func (s *LocalStorage) Put(_ context.Context, key string, r io.Reader) (string, error) {
	full, err := s.Path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", key, err)
	}
	return full, nil
}

// Sync only checks that the file is there.
func (s *LocalStorage) Sync(_ context.Context, key string) error {
	full, err := s.Path(key)
	if err != nil {
		return err
	}
	if _, err := os.Stat(full); err != nil {
		return fmt.Errorf("artifact %s: %w", key, err)
	}
	return nil
}

// Remote is a store without a local copy.
type Remote interface {
	Upload(ctx context.Context, key string, r io.Reader) (string, error)
}

// Mirror writes locally first and then uploads the same bytes.
type Mirror struct {
	Local  *LocalStorage
	Remote Remote
}

func (m *Mirror) Put(ctx context.Context, key string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	full, err := m.Local.Put(ctx, key, io.TeeReader(r, &buf))
	if err != nil {
		return "", err
	}
	if _, err := m.Remote.Upload(ctx, key, &buf); err != nil {
		return full, fmt.Errorf("mirror %s: %w", key, err)
	}
	return full, nil
}

func (m *Mirror) Sync(ctx context.Context, key string) error {
	full, err := m.Local.Path(key)
	if err != nil {
		return err
	}
	f, err := os.Open(full)
	if err != nil {
		return fmt.Errorf("artifact %s: %w", key, err)
	}
	defer f.Close()
	if _, err := m.Remote.Upload(ctx, key, f); err != nil {
		return fmt.Errorf("mirror %s: %w", key, err)
	}
	return nil
}

package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"energy-tools/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRemote struct {
	objects map[string]string
	err     error
}

func (f *fakeRemote) Upload(_ context.Context, key string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if f.objects == nil {
		f.objects = map[string]string{}
	}
	f.objects[key] = string(b)
	return "mem://" + key, nil
}

func TestLocalPut(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStorage(root)
	require.NoError(t, err)

	full, err := s.Put(context.Background(), "hp_analysis/summary.txt", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "hp_analysis", "summary.txt"), full)

	b, err := os.ReadFile(full)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))

	require.NoError(t, s.Sync(context.Background(), "hp_analysis/summary.txt"))
	assert.Error(t, s.Sync(context.Background(), "hp_analysis/missing.txt"))
}

func TestRejectsEscapingKeys(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", ".", "..", "../x.txt", "/etc/passwd", "a/../../b"} {
		_, err := s.Put(context.Background(), key, strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}
}

func TestMirrorUploadsSameBytes(t *testing.T) {
	local, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	remote := &fakeRemote{}
	m := &Mirror{Local: local, Remote: remote}

	full, err := m.Put(context.Background(), "dh_analysis/dashboard.html", strings.NewReader("<html></html>"))
	require.NoError(t, err)
	assert.FileExists(t, full)
	assert.Equal(t, "<html></html>", remote.objects["dh_analysis/dashboard.html"])

	require.NoError(t, os.WriteFile(filepath.Join(local.basePath, "map.html"), []byte("map"), 0o644))
	require.NoError(t, m.Sync(context.Background(), "map.html"))
	assert.Equal(t, "map", remote.objects["map.html"])
}

func TestMirrorKeepsLocalCopyOnUploadFailure(t *testing.T) {
	local, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	m := &Mirror{Local: local, Remote: &fakeRemote{err: errors.New("bucket unreachable")}}

	full, err := m.Put(context.Background(), "a.txt", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket unreachable")
	assert.FileExists(t, full)
}

func TestObjectKeyPrefix(t *testing.T) {
	s := &S3Storage{bucket: "b", prefix: "energy-tools"}
	k, err := s.ObjectKey("hp_analysis/x.csv")
	require.NoError(t, err)
	assert.Equal(t, "energy-tools/hp_analysis/x.csv", k)

	s.prefix = ""
	k, err = s.ObjectKey("x.csv")
	require.NoError(t, err)
	assert.Equal(t, "x.csv", k)
}

func TestNew(t *testing.T) {
	cfg := &config.Config{OutputDir: t.TempDir(), StorageType: "local"}
	st, err := New(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, st)

	cfg.StorageType = "ftp"
	_, err = New(context.Background(), cfg)
	assert.Error(t, err)

	cfg.StorageType = "s3"
	_, err = New(context.Background(), cfg)
	assert.Error(t, err, "bucket is required")
}

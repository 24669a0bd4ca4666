package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateName(t *testing.T) {
	for _, ok := range []string{"song.mp3", "a b.wav", "v2_clip.mp4"} {
		assert.NoError(t, ValidateName(ok), ok)
	}
	for _, bad := range []string{"", ".", "..", "../x", "a/b", `a\b`, "x..y"} {
		assert.ErrorIs(t, ValidateName(bad), ErrInvalidName, bad)
	}
}

func TestFSStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewFSStore(t.TempDir())

	names, err := s.List(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, s.Store(ctx, 1, "b.wav", strings.NewReader("bbb")))
	require.NoError(t, s.Store(ctx, 1, "a.mp3", strings.NewReader("aaa")))
	require.NoError(t, s.Store(ctx, 2, "other.mp4", strings.NewReader("x")))

	names, err = s.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.mp3", "b.wav"}, names)

	rc, err := s.Retrieve(ctx, 1, "b.wav")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "bbb", string(data))

	// objects are per user
	_, err = s.Retrieve(ctx, 2, "b.wav")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Delete(ctx, 1, "b.wav"))
	assert.ErrorIs(t, s.Delete(ctx, 1, "b.wav"), ErrNotFound)
	_, err = s.Retrieve(ctx, 1, "b.wav")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFSStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	s := NewFSStore(t.TempDir())
	require.NoError(t, s.Store(ctx, 3, "x.wav", strings.NewReader("first")))
	require.NoError(t, s.Store(ctx, 3, "x.wav", strings.NewReader("second")))

	rc, err := s.Retrieve(ctx, 3, "x.wav")
	require.NoError(t, err)
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "second", string(data))

	names, err := s.List(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"x.wav"}, names)
}

func TestFSStoreRejectsTraversal(t *testing.T) {
	ctx := context.Background()
	s := NewFSStore(t.TempDir())
	assert.ErrorIs(t, s.Store(ctx, 1, "../escape", strings.NewReader("x")), ErrInvalidName)
	_, err := s.Retrieve(ctx, 1, "../../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidName)
	assert.ErrorIs(t, s.Delete(ctx, 1, "a/b"), ErrInvalidName)
}

func TestNewBackend(t *testing.T) {
	ctx := context.Background()
	s, err := New(ctx, "fs", t.TempDir(), S3Options{})
	require.NoError(t, err)
	assert.IsType(t, &FSStore{}, s)

	_, err = New(ctx, "s3", "", S3Options{Region: "us-east-1"})
	assert.ErrorContains(t, err, "bucket")

	_, err = New(ctx, "ftp", "", S3Options{})
	assert.Error(t, err)
}

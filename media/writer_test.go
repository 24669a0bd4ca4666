package media

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputPath(t *testing.T) {
	tests := []struct {
		dest string
		ft   FileType
		want string
	}{
		{"out.wav", Audio, "out.wav"},
		{"out.MP3", Audio, "out.MP3"},
		{"out", Audio, "out.mp3"},
		{"out.mp4", Audio, "out.mp4.mp3"},
		{"clip.mov", Video, "clip.mov"},
		{"clip.mkv", Video, "clip.mkv"},
		{"clip", Video, "clip.mp4"},
		{"clip.wav", Video, "clip.wav.mp4"},
	}
	for _, tt := range tests {
		got, err := OutputPath(tt.dest, tt.ft)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := OutputPath("x", Unknown)
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
}

func TestWriteResultWAV(t *testing.T) {
	p := New(t.TempDir())
	dest := filepath.Join(t.TempDir(), "nested", "dir", "out.wav")

	buf := sineBuffer(0.5, 44100, 1, 0.4)
	got, err := p.WriteResult(context.Background(), TransformResult{Type: Audio, Audio: buf}, dest)
	require.NoError(t, err)
	assert.Equal(t, dest, got)

	back, err := decodeWAVFile(got)
	require.NoError(t, err)
	assert.Equal(t, buf.Samples(), back.Samples())
	assertDirEmpty(t, p.TempDir)
}

func TestWriteResultRejects(t *testing.T) {
	p := New(t.TempDir())
	ctx := context.Background()
	dir := t.TempDir()

	_, err := p.WriteResult(ctx, TransformResult{Type: Unknown}, filepath.Join(dir, "x"))
	assert.ErrorIs(t, err, ErrUnsupportedFileType)

	_, err = p.WriteResult(ctx, TransformResult{Type: Audio}, filepath.Join(dir, "x.wav"))
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = p.WriteResult(ctx, TransformResult{Type: Video}, filepath.Join(dir, "x.mp4"))
	assert.ErrorIs(t, err, ErrInvalidParameter)

	src := filepath.Join(dir, "in.mp4")
	_, err = p.WriteResult(ctx, TransformResult{Type: Video, Clip: &VideoClip{Source: src}}, src)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

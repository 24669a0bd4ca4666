package media

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressReducesLoudness(t *testing.T) {
	for _, ratio := range []float64{1.5, 4, 20} {
		buf := sineBuffer(1, 44100, 1, 0.9)
		out, err := Compress(buf, -20, ratio)
		require.NoError(t, err)
		assert.Less(t, out.DBFS(), buf.DBFS(), "ratio %v", ratio)
		assert.Equal(t, buf.Frames(), out.Frames())
	}
}

func TestCompressHigherRatioIsQuieter(t *testing.T) {
	buf := sineBuffer(1, 44100, 1, 0.9)
	gentle, err := Compress(buf, -20, 2)
	require.NoError(t, err)
	hard, err := Compress(buf, -20, 10)
	require.NoError(t, err)
	assert.Less(t, hard.DBFS(), gentle.DBFS())
}

func TestCompressRatioOneUnchanged(t *testing.T) {
	buf := sineBuffer(1, 44100, 1, 0.9)
	out, err := Compress(buf, -30, 1)
	require.NoError(t, err)
	assert.Equal(t, buf.Samples(), out.Samples())
	assert.InDelta(t, buf.DBFS(), out.DBFS(), 1e-9)
}

func TestCompressBelowThresholdUnchanged(t *testing.T) {
	// -40 dBFS peak stays well under a -20 dBFS threshold
	buf := sineBuffer(1, 44100, 1, 0.01)
	out, err := Compress(buf, -20, 8)
	require.NoError(t, err)
	assert.Equal(t, buf.Samples(), out.Samples())
}

func TestCompressReleasesAfterLoudPassage(t *testing.T) {
	rate := 44100
	loud := sineBuffer(0.5, rate, 1, 0.9)
	quiet := sineBuffer(0.5, rate, 1, 0.01)
	samples := append(append([]int{}, loud.Samples()...), quiet.Samples()...)
	buf := NewAudioBuffer(samples, 1, rate, 16)

	out, err := Compress(buf, -20, 4)
	require.NoError(t, err)
	require.Equal(t, buf.Frames(), out.Frames())

	// the loud half is attenuated
	assert.Less(t, out.Slice(0, 400*time.Millisecond).DBFS(), loud.DBFS()-1)

	// well past the release time the quiet half passes through untouched
	tailStart := len(loud.Samples()) + int(0.2*float64(rate))
	assert.Equal(t, samples[tailStart:], out.Samples()[tailStart:])
	assert.InDelta(t,
		buf.Slice(900*time.Millisecond, time.Second).DBFS(),
		out.Slice(900*time.Millisecond, time.Second).DBFS(), 1e-9)
}

func TestCompressDownmixesToMono(t *testing.T) {
	buf := sineBuffer(0.5, 22050, 2, 0.8)
	out, err := Compress(buf, -10, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Channels())
	assert.Equal(t, buf.Frames(), out.Frames())
	assert.Equal(t, 2, buf.Channels())
}

func TestCompressRejectsBadParameters(t *testing.T) {
	buf := sineBuffer(0.1, 8000, 1, 0.5)
	cases := map[string]struct {
		threshold, ratio float64
	}{
		"ratio below one":    {-20, 0.5},
		"zero ratio":         {-20, 0},
		"negative ratio":     {-20, -2},
		"nan ratio":          {-20, math.NaN()},
		"infinite ratio":     {-20, math.Inf(1)},
		"positive threshold": {3, 2},
		"nan threshold":      {math.NaN(), 2},
		"infinite threshold": {math.Inf(-1), 2},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Compress(buf, c.threshold, c.ratio)
			assert.ErrorIs(t, err, ErrInvalidParameter)
		})
	}

	_, err := Compress(nil, -20, 2)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestCompressFileWAV(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "loud.wav")
	require.NoError(t, encodeWAVFile(src, sineBuffer(1, 44100, 2, 0.9)))

	p := New(t.TempDir())
	res, err := p.CompressFile(context.Background(), src, Audio, -20, 4)
	require.NoError(t, err)
	assert.Equal(t, Audio, res.Type)
	assert.Nil(t, res.Clip)
	require.NotNil(t, res.Audio)
	assert.Equal(t, 1, res.Audio.Channels())
	assertDirEmpty(t, p.TempDir)

	_, err = p.CompressFile(context.Background(), src, Unknown, -20, 4)
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
	_, err = p.CompressFile(context.Background(), src, Audio, -20, 0.2)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

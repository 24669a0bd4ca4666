package ffmpeg

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeArgs(t *testing.T) {
	assert.Empty(t, rangeArgs(0, 0))
	assert.Equal(t, []string{"-ss", "1.500000"}, rangeArgs(1.5, 0))
	assert.Equal(t, []string{"-to", "3.000000"}, rangeArgs(0, 3))
	assert.Equal(t, []string{"-ss", "1.000000", "-to", "2.000000"}, rangeArgs(1, 2))
}

func TestParseDuration(t *testing.T) {
	d, err := parseDuration(" 12.5\n")
	require.NoError(t, err)
	assert.Equal(t, 12.5, d)

	_, err = parseDuration("N/A")
	assert.Error(t, err)
}

func TestLastLine(t *testing.T) {
	assert.Equal(t, "boom", lastLine("banner\nmore banner\nboom\n"))
	assert.Equal(t, "", lastLine(""))
}

func TestMissingBinaryReportsError(t *testing.T) {
	_, _, err := run(context.Background(), "soundnorm-no-such-binary", "-version")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	if _, err := exec.LookPath(ffmpegBin); err != nil {
		t.Skip("ffmpeg not installed")
	}
	v, err := Version(context.Background())
	require.NoError(t, err)
	assert.Contains(t, v, "ffmpeg")
}

package media

import (
	"math"
	"os"
	"os/exec"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

// sineBuffer is a 440 Hz tone at amplitude (0..1 of full scale) in 16-bit PCM
func sineBuffer(seconds float64, rate, channels int, amplitude float64) *AudioBuffer {
	frames := int(seconds * float64(rate))
	data := make([]int, frames*channels)
	for i := 0; i < frames; i++ {
		v := int(math.Round(amplitude * 32767 * math.Sin(2*math.Pi*440*float64(i)/float64(rate))))
		for c := 0; c < channels; c++ {
			data[i*channels+c] = v
		}
	}
	return NewAudioBuffer(data, channels, rate, 16)
}

func writeSineWAV(t *testing.T, path string, seconds float64) {
	t.Helper()
	require.NoError(t, encodeWAVFile(path, sineBuffer(seconds, 44100, 2, 0.5)))
}

func requireFFmpeg(t *testing.T) {
	t.Helper()
	for _, bin := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(bin); err != nil {
			t.Skipf("%s not on PATH", bin)
		}
	}
}

// writeTestVideo renders a short H.264/AAC clip with ffmpeg's synthetic sources
func writeTestVideo(t *testing.T, path string, seconds int) {
	t.Helper()
	requireFFmpeg(t)
	d := strconv.Itoa(seconds)
	out, err := exec.Command("ffmpeg", "-y", "-v", "error",
		"-f", "lavfi", "-i", "testsrc=duration="+d+":size=64x64:rate=10",
		"-f", "lavfi", "-i", "sine=frequency=440:duration="+d,
		"-shortest", "-c:v", "libx264", "-pix_fmt", "yuv420p", "-c:a", "aac",
		path).CombinedOutput()
	if err != nil {
		t.Skipf("could not render test video: %v: %s", err, out)
	}
}

func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	require.Empty(t, names, "leftover files in %s", dir)
}

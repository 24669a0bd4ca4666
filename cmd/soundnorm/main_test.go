package main

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soundnorm-site/media"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--temp-dir", t.TempDir()}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestClassifyText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("not media at all\n"), 0644))

	out, err := runCLI(t, "classify", path)
	require.NoError(t, err)
	assert.Equal(t, "Unknown\t"+path+"\n", out)
}

func TestCompressRejectsUnknown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("not media at all\n"), 0644))

	_, err := runCLI(t, "compress", path, "-o", filepath.Join(t.TempDir(), "out"))
	assert.ErrorIs(t, err, media.ErrUnsupportedFileType)
}

func TestRequiredFlags(t *testing.T) {
	_, err := runCLI(t, "trim", "x.wav", "-o", "y.wav")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "end")

	_, err = runCLI(t, "compress")
	assert.Error(t, err)
}

func TestTrimAndInfo(t *testing.T) {
	for _, bin := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(bin); err != nil {
			t.Skipf("%s not on PATH", bin)
		}
	}
	dir := t.TempDir()
	src := filepath.Join(dir, "tone.wav")
	gen := exec.Command("ffmpeg", "-y", "-v", "error", "-f", "lavfi", "-i", "sine=frequency=440:duration=3", src)
	if out, err := gen.CombinedOutput(); err != nil {
		t.Skipf("could not render test tone: %v: %s", err, out)
	}

	out, err := runCLI(t, "trim", src, "--start", "1", "--end", "2", "-o", filepath.Join(dir, "cut.wav"))
	require.NoError(t, err)
	written := strings.TrimSpace(out)
	assert.Equal(t, filepath.Join(dir, "cut.wav"), written)

	out, err = runCLI(t, "info", written)
	require.NoError(t, err)
	assert.Contains(t, out, "type:        Audio")
	assert.Contains(t, out, "duration:    1s")

	_, err = runCLI(t, "trim", src, "--start", "10", "--end", "5", "-o", filepath.Join(dir, "bad"))
	assert.ErrorIs(t, err, media.ErrInvalidRange)
}

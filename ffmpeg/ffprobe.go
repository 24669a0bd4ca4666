package ffmpeg

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/floostack/transcoder"
	ffmpegtc "github.com/floostack/transcoder/ffmpeg"
)

// runs ffprobe with the provided args and returns (stdout, stderr, error)
func Ffprobe(ctx context.Context, args ...string) ([]byte, []byte, error) {
	return run(ctx, ffprobeBin, args...)
}

// Probe reads the container and stream metadata of path
func Probe(ctx context.Context, path string) (transcoder.Metadata, error) {
	log.Infoln("probe", path)
	cfg := ffmpegtc.Config{
		FfmpegBinPath:  ffmpegBin,
		FfprobeBinPath: ffprobeBin,
	}
	metadata, err := ffmpegtc.New(&cfg).
		Input(path).
		WithContext(&ctx).
		GetMetadata()
	if err != nil {
		return nil, fmt.Errorf("failed to extract file metadata information using ffprobe: %w", err)
	}
	return metadata, nil
}

// Duration returns the length in seconds of the media file at path
func Duration(ctx context.Context, path string) (float64, error) {
	stdout, _, err := Ffprobe(ctx, "-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path)
	if err != nil {
		return -1, err
	}
	return parseDuration(string(stdout))
}

func parseDuration(s string) (float64, error) {
	result, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return -1, fmt.Errorf("parse duration %q: %w", strings.TrimSpace(s), err)
	}
	return result, nil
}

package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// fixed output codec pairing for anything that ends up in a video container
const (
	VideoCodec = "libx264"
	AudioCodec = "aac"
)

// Clip re-encodes the [from, to) range of src into dst. A non-positive to
// means "until the end of the input".
func Clip(ctx context.Context, src, dst string, from, to float64) error {
	args := []string{"-y", "-i", src}
	args = append(args, rangeArgs(from, to)...)
	args = append(args, "-c:v", VideoCodec, "-c:a", AudioCodec, dst)
	_, _, err := Ffmpeg(ctx, args...)
	return err
}

// ExtractAudio writes the first audio track of src to dst as 16-bit PCM WAV at 44.1 kHz
func ExtractAudio(ctx context.Context, src, dst string) error {
	_, _, err := Ffmpeg(ctx, "-y", "-i", src,
		"-vn", "-map", "0:a:0",
		"-acodec", "pcm_s16le",
		"-ar", "44100",
		dst)
	return err
}

// ReplaceAudio muxes the video track of video with the audio track of audio
// into dst, keeping only the [from, to) range.
func ReplaceAudio(ctx context.Context, video, audio, dst string, from, to float64) error {
	args := []string{"-y", "-i", video, "-i", audio,
		"-map", "0:v:0", "-map", "1:a:0"}
	args = append(args, rangeArgs(from, to)...)
	args = append(args, "-c:v", VideoCodec, "-c:a", AudioCodec, "-shortest", dst)
	_, _, err := Ffmpeg(ctx, args...)
	return err
}

// EncodeAudio transcodes an audio file with the given codec (e.g. libmp3lame)
func EncodeAudio(ctx context.Context, src, dst, codec string) error {
	_, _, err := Ffmpeg(ctx, "-y", "-i", src, "-vn", "-acodec", codec, dst)
	return err
}

// Version returns the first line of `ffmpeg -version`
func Version(ctx context.Context) (string, error) {
	stdout, _, err := Ffmpeg(ctx, "-version")
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(string(stdout), "\n")
	return strings.TrimSpace(line), nil
}

func rangeArgs(from, to float64) []string {
	var args []string
	if from > 0 {
		args = append(args, "-ss", fmt.Sprintf("%f", from))
	}
	if to > 0 {
		args = append(args, "-to", fmt.Sprintf("%f", to))
	}
	return args
}

// runs ffmpeg with the provided args and returns (stdout, stderr, error)
func Ffmpeg(ctx context.Context, args ...string) ([]byte, []byte, error) {
	return run(ctx, ffmpegBin, args...)
}

func run(ctx context.Context, bin string, args ...string) ([]byte, []byte, error) {
	log.Infoln(bin, strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, bin, args...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()

	if err != nil {
		log.Errorf("%s error: %v", bin, err)
		err = fmt.Errorf("%s: %w: %s", bin, err, lastLine(stderr.String()))
	}
	log.Debugln("stdout:", stdout.String())
	log.Debugln("stderr:", stderr.String())
	return stdout.Bytes(), stderr.Bytes(), err
}

// ffmpeg puts the actual failure reason on the last line of stderr
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"soundnorm-site/ffmpeg"
)

const mp3Codec = "libmp3lame"

var audioExtensions = map[string]bool{
	".wav": true,
	".mp3": true,
}

var videoExtensions = map[string]bool{
	".mp4": true,
	".m4v": true,
	".mov": true,
	".mkv": true,
}

// OutputPath is dest with a suitable extension appended when it does not
// already carry one for ft. Audio defaults to mp3 and video to mp4.
func OutputPath(dest string, ft FileType) (string, error) {
	ext := strings.ToLower(filepath.Ext(dest))
	switch ft {
	case Audio:
		if audioExtensions[ext] {
			return dest, nil
		}
		return dest + ".mp3", nil
	case Video:
		if videoExtensions[ext] {
			return dest, nil
		}
		return dest + ".mp4", nil
	}
	return "", fmt.Errorf("%w: no output format for %s", ErrUnsupportedFileType, ft)
}

// WriteResult encodes res to dest and returns the path actually written,
// which may have gained an extension.
func (p *Pipeline) WriteResult(ctx context.Context, res TransformResult, dest string) (string, error) {
	if err := res.validate(); err != nil {
		return "", err
	}
	out, err := OutputPath(dest, res.Type)
	if err != nil {
		return "", err
	}
	if dir := filepath.Dir(out); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("%w: create %s: %v", ErrIOFailure, dir, err)
		}
	}

	switch res.Type {
	case Audio:
		err = p.writeAudio(ctx, res.Audio, out)
	case Video:
		err = p.writeVideo(ctx, res, out)
	}
	if err != nil {
		return "", err
	}
	log.Infoln("wrote", out)
	return out, nil
}

func (p *Pipeline) writeAudio(ctx context.Context, buf *AudioBuffer, out string) error {
	if strings.ToLower(filepath.Ext(out)) == ".wav" {
		return encodeWAVFile(out, buf)
	}

	tmp, err := p.tempFile(".wav")
	if err != nil {
		return err
	}
	defer removeTemp(tmp)
	if err := encodeWAVFile(tmp, buf); err != nil {
		return err
	}
	if err := ffmpeg.EncodeAudio(ctx, tmp, out, mp3Codec); err != nil {
		return encodeError(ctx, out, err)
	}
	return nil
}

func (p *Pipeline) writeVideo(ctx context.Context, res TransformResult, out string) error {
	clip := res.Clip
	if samePath(clip.Source, out) {
		return fmt.Errorf("%w: output %s would overwrite its source", ErrInvalidParameter, out)
	}

	if res.Audio == nil {
		if err := ffmpeg.Clip(ctx, clip.Source, out, clip.Start, clip.End); err != nil {
			return encodeError(ctx, out, err)
		}
		return nil
	}

	tmp, err := p.tempFile(".wav")
	if err != nil {
		return err
	}
	defer removeTemp(tmp)
	if err := encodeWAVFile(tmp, res.Audio); err != nil {
		return err
	}
	if err := ffmpeg.ReplaceAudio(ctx, clip.Source, tmp, out, clip.Start, clip.End); err != nil {
		return encodeError(ctx, out, err)
	}
	return nil
}

func encodeError(ctx context.Context, out string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("%w: encode %s: %v", ErrIOFailure, out, err)
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}

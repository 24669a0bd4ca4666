package media

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"soundnorm-site/ffmpeg"
)

// MaterializeAudio decodes the audio of path into memory. PCM WAV files are
// read directly; everything else is converted to a scratch WAV by ffmpeg
// first. For Video only the first audio stream is used.
func (p *Pipeline) MaterializeAudio(ctx context.Context, path string, ft FileType) (*AudioBuffer, error) {
	if ft != Audio && ft != Video {
		return nil, fmt.Errorf("%w: %s is %s", ErrUnsupportedFileType, path, ft)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIOFailure, err)
	}
	log.WithFields(logrus.Fields{
		"type":     ft.String(),
		"size":     humanize.IBytes(uint64(info.Size())),
		"strategy": p.strategy(info.Size()),
	}).Infoln("materialize audio from", path)

	if ft == Audio {
		buf, err := decodeWAVFile(path)
		if err == nil {
			return buf, nil
		} else if !errors.Is(err, errNotPCMWAV) {
			return nil, err
		}
	}
	return p.extractAudio(ctx, path)
}

// strategy labels a file by size. Both strategies decode the same way;
// the label only shows up in the logs.
func (p *Pipeline) strategy(size int64) string {
	if size > p.largeFileThreshold() {
		return "large"
	}
	return "small"
}

func (p *Pipeline) extractAudio(ctx context.Context, path string) (*AudioBuffer, error) {
	tmp, err := p.tempFile(".wav")
	if err != nil {
		return nil, err
	}
	defer removeTemp(tmp)

	if err := ffmpeg.ExtractAudio(ctx, path, tmp); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: extract audio from %s: %v", ErrDecodeFailure, path, err)
	}
	buf, err := decodeWAVFile(tmp)
	if errors.Is(err, errNotPCMWAV) {
		return nil, fmt.Errorf("%w: ffmpeg produced unreadable wav for %s", ErrDecodeFailure, path)
	}
	return buf, err
}

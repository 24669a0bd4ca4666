package media

import (
	"context"
	"fmt"
	"math"
	"time"

	"soundnorm-site/ffmpeg"
)

// clampRange limits [start, end] to [0, duration]. An empty or inverted
// range after clamping is ErrInvalidRange.
func clampRange(start, end, duration float64) (float64, float64, error) {
	if math.IsNaN(start) || math.IsNaN(end) {
		return 0, 0, fmt.Errorf("%w: start and end must be numbers", ErrInvalidRange)
	}
	start = math.Min(math.Max(start, 0), duration)
	end = math.Min(math.Max(end, 0), duration)
	if start >= end {
		return 0, 0, fmt.Errorf("%w: start %.3fs is not before end %.3fs (duration %.3fs)",
			ErrInvalidRange, start, end, duration)
	}
	return start, end, nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// TrimAudio returns the part of buf between startSec and endSec
func TrimAudio(buf *AudioBuffer, startSec, endSec float64) (*AudioBuffer, error) {
	if buf == nil {
		return nil, fmt.Errorf("%w: no audio to trim", ErrInvalidParameter)
	}
	start, end, err := clampRange(startSec, endSec, buf.Duration().Seconds())
	if err != nil {
		return nil, err
	}
	return buf.Slice(seconds(start), seconds(end)), nil
}

// Trim cuts path to [startSec, endSec]. Audio is decoded and sliced in
// memory; Video is only described here and cut by the writer.
func (p *Pipeline) Trim(ctx context.Context, path string, ft FileType, startSec, endSec float64) (TransformResult, error) {
	switch ft {
	case Audio:
		buf, err := p.MaterializeAudio(ctx, path, ft)
		if err != nil {
			return TransformResult{}, err
		}
		trimmed, err := TrimAudio(buf, startSec, endSec)
		if err != nil {
			return TransformResult{}, err
		}
		log.Infof("trimmed %s to %s", path, trimmed.Duration())
		return TransformResult{Type: Audio, Audio: trimmed}, nil

	case Video:
		duration, err := ffmpeg.Duration(ctx, path)
		if err != nil {
			if ctx.Err() != nil {
				return TransformResult{}, ctx.Err()
			}
			return TransformResult{}, fmt.Errorf("%w: %v", ErrDecodeFailure, err)
		}
		start, end, err := clampRange(startSec, endSec, duration)
		if err != nil {
			return TransformResult{}, err
		}
		log.Infof("trim %s to [%.3f, %.3f]", path, start, end)
		return TransformResult{
			Type: Video,
			Clip: &VideoClip{Source: path, Start: start, End: end},
		}, nil
	}
	return TransformResult{}, fmt.Errorf("%w: %s is %s", ErrUnsupportedFileType, path, ft)
}

package media

import (
	"context"
	"fmt"
	"math"
	"time"
)

const (
	compressAttack  = 5 * time.Millisecond
	compressRelease = 50 * time.Millisecond
)

func validateCompression(thresholdDB, ratio float64) error {
	if math.IsNaN(thresholdDB) || math.IsInf(thresholdDB, 0) || thresholdDB > 0 {
		return fmt.Errorf("%w: threshold must be a finite dBFS value <= 0, got %v", ErrInvalidParameter, thresholdDB)
	}
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) || ratio < 1 {
		return fmt.Errorf("%w: ratio must be finite and >= 1, got %v", ErrInvalidParameter, ratio)
	}
	return nil
}

// Compress applies downward dynamic range compression to a mono mix of buf.
// Loudness is tracked as the RMS of the preceding attack window; gain
// reduction ramps toward (1 - 1/ratio) of the overshoot in dB over the
// attack time and recovers over the release time. A ratio of 1 leaves the
// samples untouched.
func Compress(buf *AudioBuffer, thresholdDB, ratio float64) (*AudioBuffer, error) {
	if buf == nil {
		return nil, fmt.Errorf("%w: no audio to compress", ErrInvalidParameter)
	}
	if err := validateCompression(thresholdDB, ratio); err != nil {
		return nil, err
	}
	if buf.SampleRate() < 1 || buf.Channels() < 1 {
		return nil, fmt.Errorf("%w: buffer has no sample rate or channels", ErrInvalidParameter)
	}

	mono := buf.Mono()
	in := mono.pcm.Data
	out := make([]int, len(in))

	threshRMS := mono.maxAmplitude() * dbToFloat(thresholdDB)
	rate := float64(mono.SampleRate())
	attackFrames := math.Max(rate*compressAttack.Seconds(), 1)
	releaseFrames := math.Max(rate*compressRelease.Seconds(), 1)
	lookFrames := int(attackFrames)

	// running sum of squares over in[i-lookFrames : i]
	var sumSq float64
	// held is the attenuation reached by the last attack; release drains it
	// linearly so it is gone after releaseFrames
	attenuation, held := 0.0, 0.0
	for i, s := range in {
		count := lookFrames
		if i < count {
			count = i
		}
		level := 0.0
		if count > 0 && sumSq > 0 {
			level = math.Sqrt(sumSq / float64(count))
		}

		maxAttenuation := (1 - 1/ratio) * overshootDB(level, threshRMS)
		if level > threshRMS && attenuation <= maxAttenuation {
			attenuation = math.Min(attenuation+maxAttenuation/attackFrames, maxAttenuation)
			held = attenuation
		} else {
			floor := 0.0
			if level > threshRMS {
				floor = maxAttenuation
			}
			attenuation = math.Max(attenuation-held/releaseFrames, floor)
		}

		if attenuation == 0 {
			out[i] = s
		} else {
			out[i] = mono.clamp(float64(s) * dbToFloat(-attenuation))
		}

		sumSq += float64(s) * float64(s)
		if drop := i - lookFrames; drop >= 0 {
			sumSq -= float64(in[drop]) * float64(in[drop])
		}
		if sumSq < 0 {
			sumSq = 0
		}
	}

	mono.pcm.Data = out
	return mono, nil
}

// how far level is above threshold in dB, never negative
func overshootDB(level, threshold float64) float64 {
	if level <= 0 || threshold <= 0 {
		return 0
	}
	return math.Max(ratioToDB(level/threshold), 0)
}

// CompressFile materializes the audio of path and compresses it. For Video
// the result keeps a reference to the source so the writer can remux the
// new soundtrack.
func (p *Pipeline) CompressFile(ctx context.Context, path string, ft FileType, thresholdDB, ratio float64) (TransformResult, error) {
	if ft != Audio && ft != Video {
		return TransformResult{}, fmt.Errorf("%w: %s is %s", ErrUnsupportedFileType, path, ft)
	}
	if err := validateCompression(thresholdDB, ratio); err != nil {
		return TransformResult{}, err
	}

	buf, err := p.MaterializeAudio(ctx, path, ft)
	if err != nil {
		return TransformResult{}, err
	}
	compressed, err := Compress(buf, thresholdDB, ratio)
	if err != nil {
		return TransformResult{}, err
	}
	log.Infof("compressed %s: %.1f dBFS -> %.1f dBFS (threshold %.1f, ratio %.2f)",
		path, buf.DBFS(), compressed.DBFS(), thresholdDB, ratio)

	res := TransformResult{Type: ft, Audio: compressed}
	if ft == Video {
		res.Clip = &VideoClip{Source: path}
	}
	return res, nil
}

package media

import (
	"math"
	"time"

	"github.com/go-audio/audio"
)

// AudioBuffer is decoded, interleaved integer PCM. It is not safe for
// concurrent use; stages hand it over rather than share it.
type AudioBuffer struct {
	pcm *audio.IntBuffer
}

func NewAudioBuffer(samples []int, channels, sampleRate, bitDepth int) *AudioBuffer {
	return &AudioBuffer{pcm: &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           samples,
		SourceBitDepth: bitDepth,
	}}
}

func (b *AudioBuffer) Channels() int   { return b.pcm.Format.NumChannels }
func (b *AudioBuffer) SampleRate() int { return b.pcm.Format.SampleRate }
func (b *AudioBuffer) BitDepth() int   { return b.pcm.SourceBitDepth }

// Samples exposes the interleaved samples without copying
func (b *AudioBuffer) Samples() []int { return b.pcm.Data }

// Frames is the number of samples per channel
func (b *AudioBuffer) Frames() int {
	if b.Channels() == 0 {
		return 0
	}
	return len(b.pcm.Data) / b.Channels()
}

func (b *AudioBuffer) Duration() time.Duration {
	if b.SampleRate() == 0 {
		return 0
	}
	return time.Duration(float64(b.Frames()) / float64(b.SampleRate()) * float64(time.Second))
}

func (b *AudioBuffer) maxAmplitude() float64 {
	bits := b.BitDepth()
	if bits < 1 {
		bits = 16
	}
	return float64(int64(1) << (bits - 1))
}

// DBFS is the RMS loudness relative to full scale; silence is -Inf.
func (b *AudioBuffer) DBFS() float64 {
	r := rms(b.pcm.Data)
	if r == 0 {
		return math.Inf(-1)
	}
	return ratioToDB(r / b.maxAmplitude())
}

// MaxDBFS is the peak sample level relative to full scale
func (b *AudioBuffer) MaxDBFS() float64 {
	peak := 0
	for _, s := range b.pcm.Data {
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}
	if peak == 0 {
		return math.Inf(-1)
	}
	return ratioToDB(float64(peak) / b.maxAmplitude())
}

// Mono returns a single-channel copy, averaging the channels of each frame.
func (b *AudioBuffer) Mono() *AudioBuffer {
	ch := b.Channels()
	if ch <= 1 {
		return b.clone(b.pcm.Data)
	}
	frames := b.Frames()
	out := make([]int, frames)
	for i := 0; i < frames; i++ {
		sum := 0
		for c := 0; c < ch; c++ {
			sum += b.pcm.Data[i*ch+c]
		}
		out[i] = sum / ch
	}
	mono := b.clone(out)
	mono.pcm.Format.NumChannels = 1
	return mono
}

// Slice copies the frames in [from, to). Bounds are clamped to the buffer.
func (b *AudioBuffer) Slice(from, to time.Duration) *AudioBuffer {
	start := b.frameAt(from)
	end := b.frameAt(to)
	if end < start {
		end = start
	}
	ch := b.Channels()
	return b.clone(b.pcm.Data[start*ch : end*ch])
}

func (b *AudioBuffer) frameAt(d time.Duration) int {
	frame := int(d.Seconds() * float64(b.SampleRate()))
	if frame < 0 {
		return 0
	}
	if frame > b.Frames() {
		return b.Frames()
	}
	return frame
}

func (b *AudioBuffer) clone(data []int) *AudioBuffer {
	cp := make([]int, len(data))
	copy(cp, data)
	return NewAudioBuffer(cp, b.Channels(), b.SampleRate(), b.BitDepth())
}

// clip a sample to the range representable at the buffer's bit depth
func (b *AudioBuffer) clamp(v float64) int {
	max := b.maxAmplitude()
	if v > max-1 {
		return int(max - 1)
	}
	if v < -max {
		return int(-max)
	}
	return int(math.Round(v))
}

func rms(samples []int) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(samples)))
}

func ratioToDB(ratio float64) float64 {
	return 20 * math.Log10(ratio)
}

func dbToFloat(db float64) float64 {
	return math.Pow(10, db/20)
}

package media

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/wav"
)

// returned when a file is a valid RIFF/WAVE but not integer PCM we can read
// directly; callers fall back to ffmpeg
var errNotPCMWAV = errors.New("not a 16/24/32-bit PCM wav")

const wavFormatPCM = 1

func decodeWAV(r io.ReadSeeker) (*AudioBuffer, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, errNotPCMWAV
	}
	if d.WavAudioFormat != wavFormatPCM {
		return nil, errNotPCMWAV
	}
	switch d.BitDepth {
	case 16, 24, 32:
	default:
		return nil, errNotPCMWAV
	}
	pcm, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: read pcm: %v", ErrDecodeFailure, err)
	}
	if pcm.Format == nil || pcm.Format.NumChannels < 1 || pcm.Format.SampleRate < 1 {
		return nil, fmt.Errorf("%w: wav header has no channels or sample rate", ErrDecodeFailure)
	}
	return &AudioBuffer{pcm: pcm}, nil
}

func decodeWAVFile(path string) (*AudioBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIOFailure, err)
	}
	defer f.Close()
	return decodeWAV(f)
}

func encodeWAVFile(path string, buf *AudioBuffer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIOFailure, err)
	}
	enc := wav.NewEncoder(f, buf.SampleRate(), buf.BitDepth(), buf.Channels(), wavFormatPCM)
	if err := enc.Write(buf.pcm); err != nil {
		f.Close()
		return fmt.Errorf("%w: write %s: %v", ErrIOFailure, path, err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("%w: finalize %s: %v", ErrIOFailure, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrIOFailure, err)
	}
	return nil
}

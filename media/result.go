package media

import "fmt"

// VideoClip is a pending cut of Source. Zero Start and End mean the whole
// file; nothing is encoded until the result is written.
type VideoClip struct {
	Source string
	Start  float64 // seconds
	End    float64 // seconds, 0 for end of file
}

// TransformResult is what Compress and Trim hand to the writer.
// Audio results carry only Audio. Video results carry Clip, plus Audio when
// the soundtrack was replaced.
type TransformResult struct {
	Type  FileType
	Audio *AudioBuffer
	Clip  *VideoClip
}

func (r TransformResult) validate() error {
	switch r.Type {
	case Audio:
		if r.Audio == nil {
			return fmt.Errorf("%w: audio result has no samples", ErrInvalidParameter)
		}
	case Video:
		if r.Clip == nil || r.Clip.Source == "" {
			return fmt.Errorf("%w: video result has no source", ErrInvalidParameter)
		}
	default:
		return fmt.Errorf("%w: cannot write %s result", ErrUnsupportedFileType, r.Type)
	}
	return nil
}

package media

import (
	"fmt"
	"strings"
)

type FileType int

const (
	Unknown FileType = iota
	Audio
	Video
)

func (t FileType) String() string {
	switch t {
	case Audio:
		return "Audio"
	case Video:
		return "Video"
	default:
		return "Unknown"
	}
}

// ParseFileType accepts the names produced by String, case-insensitively
func ParseFileType(s string) (FileType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "audio":
		return Audio, nil
	case "video":
		return Video, nil
	case "unknown":
		return Unknown, nil
	}
	return Unknown, fmt.Errorf("%w: %q", ErrUnsupportedFileType, s)
}

package media

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/floostack/transcoder"
	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"

	"soundnorm-site/ffmpeg"
)

// codecs that ffprobe reports as video but are attached cover art
var stillImageCodecs = map[string]bool{
	"mjpeg": true,
	"png":   true,
	"bmp":   true,
	"gif":   true,
	"webp":  true,
}

// Classify decides whether path holds audio or video. Files that are not
// media at all are Unknown with a nil error; files that look like media but
// cannot be probed fail with ErrDecodeFailure.
func (p *Pipeline) Classify(ctx context.Context, path string) (FileType, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Unknown, fmt.Errorf("%w: %v", ErrIOFailure, err)
	}
	if info.IsDir() {
		return Unknown, fmt.Errorf("%w: %s is a directory", ErrIOFailure, path)
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return Unknown, fmt.Errorf("%w: sniff %s: %v", ErrIOFailure, path, err)
	}
	if !isMediaMIME(mtype) {
		log.Debugf("%s sniffed as %s, not media", path, mtype)
		return Unknown, nil
	}

	metadata, err := ffmpeg.Probe(ctx, path)
	if err != nil {
		if ctx.Err() != nil {
			return Unknown, ctx.Err()
		}
		return Unknown, fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}
	ft := fileTypeOf(metadata)
	log.WithFields(logrus.Fields{
		"mime": mtype.String(),
		"type": ft.String(),
	}).Infoln("classified", path)
	return ft, nil
}

func isMediaMIME(m *mimetype.MIME) bool {
	s := m.String()
	switch {
	case strings.HasPrefix(s, "audio/"), strings.HasPrefix(s, "video/"):
		return true
	case m.Is("application/ogg"), m.Is("application/vnd.rn-realmedia"):
		return true
	case m.Is("application/octet-stream"):
		// unrecognized binary, let ffprobe have a look
		return true
	}
	return false
}

type streamInfo struct {
	codecType string
	codecName string
}

func fileTypeOf(metadata transcoder.Metadata) FileType {
	var streams []streamInfo
	for _, s := range metadata.GetStreams() {
		streams = append(streams, streamInfo{codecType: s.GetCodecType(), codecName: s.GetCodecName()})
	}
	return classifyStreams(streams)
}

// any real video stream makes the file Video, otherwise any audio stream
// makes it Audio
func classifyStreams(streams []streamInfo) FileType {
	ft := Unknown
	for _, s := range streams {
		switch s.codecType {
		case "video":
			if !stillImageCodecs[strings.ToLower(s.codecName)] {
				return Video
			}
		case "audio":
			ft = Audio
		}
	}
	return ft
}

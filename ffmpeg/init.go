package ffmpeg

import "github.com/sirupsen/logrus"

var log = logrus.NewEntry(logrus.StandardLogger())

var (
	ffmpegBin  = "ffmpeg"
	ffprobeBin = "ffprobe"
)

func Init(logger *logrus.Logger, ffmpegPath, ffprobePath string) error {
	log = logger.WithFields(logrus.Fields{
		"component": "ffmpeg",
	})
	if ffmpegPath != "" {
		ffmpegBin = ffmpegPath
	}
	if ffprobePath != "" {
		ffprobeBin = ffprobePath
	}
	return nil
}

package media

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var log = logrus.NewEntry(logrus.StandardLogger())

func Init(logger *logrus.Logger) error {
	log = logger.WithFields(logrus.Fields{
		"component": "media",
	})
	return nil
}

// files above this size are logged as "large"; both take the same path
const DefaultLargeFileThreshold int64 = 50 * 1024 * 1024

// Pipeline runs the media stages. Scratch files go under TempDir with
// unique names, so one Pipeline may serve concurrent requests.
type Pipeline struct {
	TempDir            string
	LargeFileThreshold int64
}

func New(tempDir string) *Pipeline {
	return &Pipeline{
		TempDir:            tempDir,
		LargeFileThreshold: DefaultLargeFileThreshold,
	}
}

func (p *Pipeline) tempDir() string {
	if p.TempDir == "" {
		return os.TempDir()
	}
	return p.TempDir
}

func (p *Pipeline) largeFileThreshold() int64 {
	if p.LargeFileThreshold <= 0 {
		return DefaultLargeFileThreshold
	}
	return p.LargeFileThreshold
}

// tempFile returns a fresh path in the scratch directory. Nothing is created
// at the path; the caller owns removing whatever ends up there.
func (p *Pipeline) tempFile(ext string) (string, error) {
	dir := p.tempDir()
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("%w: create temp dir %s: %v", ErrIOFailure, dir, err)
	}
	return filepath.Join(dir, "soundnorm-"+uuid.Must(uuid.NewV7()).String()+ext), nil
}

func removeTemp(path string) {
	err := os.Remove(path)
	if err == nil {
		log.Debugln("removed", path)
	} else if errors.Is(err, os.ErrNotExist) {
		log.Debugln("temp file already gone:", path)
	} else {
		log.Warnf("failed to remove temp file %s: %v", path, err)
	}
}

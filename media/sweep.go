package media

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SweepTemp removes scratch files and request directories under dir that
// are older than maxAge. A crash between creating and removing a scratch
// file is the only way these are left behind.
func SweepTemp(dir string, maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	} else if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "soundnorm-") {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if err := os.RemoveAll(path); err != nil {
			log.Warnf("failed to sweep %s: %v", path, err)
			continue
		}
		removed++
	}
	if removed > 0 {
		log.Infof("swept %d stale scratch entries from %s", removed, dir)
	}
	return removed, nil
}

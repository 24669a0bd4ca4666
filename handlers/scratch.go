package handlers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"soundnorm-site/media"
)

// newScratchDir makes a directory private to one request. The returned
// func removes it and everything in it.
func newScratchDir() (string, func(), error) {
	if err := os.MkdirAll(cfg.TempDir, 0700); err != nil {
		return "", nil, fmt.Errorf("%w: %v", media.ErrIOFailure, err)
	}
	dir, err := os.MkdirTemp(cfg.TempDir, "soundnorm-req-")
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", media.ErrIOFailure, err)
	}
	return dir, func() {
		if err := os.RemoveAll(dir); err != nil {
			log.Warnf("failed to remove scratch dir %s: %v", dir, err)
		}
	}, nil
}

// spool copies r to dir/src<ext of name>
func spool(r io.Reader, dir, name string) (string, error) {
	path := filepath.Join(dir, "src"+filepath.Ext(name))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", media.ErrIOFailure, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("%w: spool %s: %v", media.ErrIOFailure, name, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", media.ErrIOFailure, err)
	}
	return path, nil
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// FSStore keeps objects under baseDir/<userID>/<name>
type FSStore struct {
	baseDir string
}

var _ Store = (*FSStore)(nil)

func NewFSStore(baseDir string) *FSStore {
	return &FSStore{baseDir: baseDir}
}

func (s *FSStore) userDir(userID uint) string {
	return filepath.Join(s.baseDir, strconv.FormatUint(uint64(userID), 10))
}

func (s *FSStore) Store(ctx context.Context, userID uint, name string, body io.Reader) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	dir := s.userDir(userID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// write beside the target and rename so readers never see a partial object
	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create object file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, body)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write object file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write object file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, name)); err != nil {
		return fmt.Errorf("failed to store object: %w", err)
	}
	log.Infof("stored %s (%d bytes)", ObjectKey(userID, name), n)
	return nil
}

func (s *FSStore) Retrieve(ctx context.Context, userID uint, name string) (io.ReadCloser, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.userDir(userID), name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ObjectKey(userID, name))
	} else if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return f, nil
}

func (s *FSStore) List(ctx context.Context, userID uint) ([]string, error) {
	entries, err := os.ReadDir(s.userDir(userID))
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}
	names := []string{}
	for _, e := range entries {
		if e.IsDir() || e.Name()[0] == '.' {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func (s *FSStore) Delete(ctx context.Context, userID uint, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.userDir(userID), name))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, ObjectKey(userID, name))
	} else if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	log.Infoln("deleted", ObjectKey(userID, name))
	return nil
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

var log = logrus.NewEntry(logrus.StandardLogger())

func Init(logger *logrus.Logger) error {
	log = logger.WithFields(logrus.Fields{
		"component": "storage",
	})
	return nil
}

var ErrNotFound = errors.New("object not found")
var ErrInvalidName = errors.New("invalid object name")

// Store keeps media objects per user. Objects are addressed as
// "<userID>/<name>" in every backend.
type Store interface {
	Store(ctx context.Context, userID uint, name string, body io.Reader) error
	Retrieve(ctx context.Context, userID uint, name string) (io.ReadCloser, error)
	List(ctx context.Context, userID uint) ([]string, error)
	Delete(ctx context.Context, userID uint, name string) error
}

func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func userPrefix(userID uint) string {
	return fmt.Sprintf("%d/", userID)
}

// ObjectKey is where name lives for userID in every backend
func ObjectKey(userID uint, name string) string {
	return userPrefix(userID) + name
}

// New builds the backend named by kind: "fs" keeps objects under objectDir,
// "s3" talks to the bucket in opts.
func New(ctx context.Context, kind, objectDir string, opts S3Options) (Store, error) {
	switch kind {
	case "", "fs":
		log.Infoln("object storage: filesystem at", objectDir)
		return NewFSStore(objectDir), nil
	case "s3":
		log.Infof("object storage: s3 bucket %q", opts.Bucket)
		return NewS3Store(ctx, opts)
	}
	return nil, fmt.Errorf("unknown storage backend %q", kind)
}

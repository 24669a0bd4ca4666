package files

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var log = logrus.NewEntry(logrus.StandardLogger())

func Init(logger *logrus.Logger) error {
	log = logger.WithFields(logrus.Fields{
		"component": "files",
	})
	return nil
}

var ErrNotFound = errors.New("file record not found")
var ErrUnknownStatus = errors.New("unknown status")

const (
	StatusAdded     uint = 1
	StatusModified  uint = 2
	StatusCompleted uint = 3
)

type Status struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"unique"`
}

var statusNames = map[uint]string{
	StatusAdded:     "added",
	StatusModified:  "modified",
	StatusCompleted: "completed",
}

// File is one stored object. Names are unique per user.
type File struct {
	gorm.Model
	UserID   uint   `gorm:"uniqueIndex:idx_user_name"`
	Name     string `gorm:"uniqueIndex:idx_user_name"`
	Path     string // object key in storage
	StatusID uint
	Status   Status
	Version  string
	Kind     string // "Audio" or "Video"
}

// SeedStatuses makes sure the fixed status rows exist
func SeedStatuses(db *gorm.DB) error {
	for id, name := range statusNames {
		var status Status
		if err := db.Where(Status{ID: id}).Attrs(Status{Name: name}).FirstOrCreate(&status).Error; err != nil {
			return fmt.Errorf("seed status %s: %w", name, err)
		}
	}
	return nil
}

// ParseStatus accepts a status id ("2") or name ("modified"). Empty is 0,
// meaning any status.
func ParseStatus(s string) (uint, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, nil
	}
	if id, err := strconv.ParseUint(s, 10, 32); err == nil {
		if _, ok := statusNames[uint(id)]; ok {
			return uint(id), nil
		}
	}
	for id, name := range statusNames {
		if name == s {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

func StatusName(id uint) string {
	return statusNames[id]
}

// RecordUpload creates or replaces the record for (userID, name)
func RecordUpload(db *gorm.DB, userID uint, name string, statusID uint, version, path, kind string) (File, error) {
	if _, ok := statusNames[statusID]; !ok {
		return File{}, fmt.Errorf("%w: %d", ErrUnknownStatus, statusID)
	}
	var f File
	err := db.Where(File{UserID: userID, Name: name}).
		Assign(File{Path: path, StatusID: statusID, Version: version, Kind: kind}).
		FirstOrCreate(&f).Error
	if err != nil {
		return File{}, err
	}
	log.WithFields(logrus.Fields{
		"user":    userID,
		"status":  StatusName(statusID),
		"version": version,
	}).Infoln("recorded", name)
	return f, nil
}

func Get(db *gorm.DB, userID uint, name string) (File, error) {
	var f File
	err := db.Where("user_id = ? AND name = ?", userID, name).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return File{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return f, err
}

func LookupPathByName(db *gorm.DB, userID uint, name string) (string, error) {
	f, err := Get(db, userID, name)
	if err != nil {
		return "", err
	}
	return f.Path, nil
}

func DeleteRecordByName(db *gorm.DB, userID uint, name string) error {
	result := db.Unscoped().Where("user_id = ? AND name = ?", userID, name).Delete(&File{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	log.Infoln("deleted record", name)
	return nil
}

// ListNamesByStatus lists a user's file names, all of them when statusID is 0
func ListNamesByStatus(db *gorm.DB, userID uint, statusID uint) ([]string, error) {
	query := db.Model(&File{}).Where("user_id = ?", userID)
	if statusID != 0 {
		query = query.Where("status_id = ?", statusID)
	}
	names := []string{}
	if err := query.Order("name").Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

// NextVersion bumps "v<n>" to "v<n+1>"; anything unparseable becomes "v2"
func NextVersion(version string) string {
	n, err := strconv.Atoi(strings.TrimPrefix(version, "v"))
	if err != nil || n < 1 {
		return "v2"
	}
	return "v" + strconv.Itoa(n+1)
}

// DerivedName names the output of processing name: "talk.mp4" at "v2" with
// ext ".mp4" is "talk_v2.mp4".
func DerivedName(name, version, ext string) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if i := strings.LastIndex(stem, "_v"); i > 0 {
		if _, err := strconv.Atoi(stem[i+2:]); err == nil {
			stem = stem[:i]
		}
	}
	return stem + "_" + version + ext
}

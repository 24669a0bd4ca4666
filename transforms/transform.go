package transforms

import (
	"time"

	"gorm.io/gorm"
)

const (
	KindCompress = "compress"
	KindCut      = "cut"
)

const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Transform records one compress or cut run over a stored file
type Transform struct {
	gorm.Model
	UserID     uint
	SrcName    string
	DstName    string // empty until completed
	Kind       string // "compress", "cut"
	FileType   string // "Audio", "Video"
	Status     string // "running", "completed", "failed"
	Error      string
	TimeSubmit time.Time
	TimeFinish time.Time

	// compress fields
	ThresholdDB float64
	Ratio       float64

	// cut fields
	StartSec float64
	EndSec   float64
}

// Begin stores t as running
func Begin(db *gorm.DB, t *Transform) error {
	t.Status = StatusRunning
	t.TimeSubmit = time.Now()
	return db.Create(t).Error
}

// Finish marks the run completed with its output, or failed with err
func Finish(db *gorm.DB, id uint, dstName string, err error) error {
	updates := map[string]interface{}{
		"time_finish": time.Now(),
	}
	if err != nil {
		updates["status"] = StatusFailed
		updates["error"] = err.Error()
	} else {
		updates["status"] = StatusCompleted
		updates["dst_name"] = dstName
	}
	return db.Model(&Transform{}).Where("id = ?", id).Updates(updates).Error
}

// ListForUser returns the most recent runs first
func ListForUser(db *gorm.DB, userID uint, limit int) ([]Transform, error) {
	var ts []Transform
	err := db.Where("user_id = ?", userID).Order("id desc").Limit(limit).Find(&ts).Error
	return ts, err
}

// FailInterrupted marks runs left "running" by a previous process as failed.
// Processing is synchronous, so at start-up nothing can still be running.
func FailInterrupted(db *gorm.DB) (int64, error) {
	result := db.Model(&Transform{}).
		Where("status = ?", StatusRunning).
		Updates(map[string]interface{}{
			"status":      StatusFailed,
			"error":       "interrupted by restart",
			"time_finish": time.Now(),
		})
	return result.RowsAffected, result.Error
}

package main

import (
	"time"

	"gorm.io/gorm"

	"soundnorm-site/media"
	"soundnorm-site/transforms"
)

const scratchMaxAge = 6 * time.Hour

func vacuumDatabase(db *gorm.DB) {
	if err := db.Exec("VACUUM").Error; err != nil {
		log.Errorln(err)
	}
}

func sweepScratch(dir string) {
	if _, err := media.SweepTemp(dir, scratchMaxAge); err != nil {
		log.Errorln("sweep scratch:", err)
	}
}

// recoverInterrupted runs once at start-up, before requests are served
func recoverInterrupted(db *gorm.DB) {
	n, err := transforms.FailInterrupted(db)
	if err != nil {
		log.Errorln(err)
	} else if n > 0 {
		log.Warnf("marked %d interrupted transforms as failed", n)
	}
}

func PeriodicCleanup(db *gorm.DB, tempDir string) {
	sweepScratch(tempDir)
	vacuumDatabase(db)
	ticker := time.NewTicker(1 * time.Hour)
	for range ticker.C {
		sweepScratch(tempDir)
		vacuumDatabase(db)
	}
}

package database

import (
	golog "log"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB
var log = logrus.NewEntry(logrus.StandardLogger())

func Init(d *gorm.DB, logger *logrus.Logger) error {
	db = d
	log = logger.WithFields(logrus.Fields{
		"component": "database",
	})
	return nil
}

func Fini() {}

func Get() *gorm.DB {
	if db == nil {
		panic("didn't call database.Init(...)")
	}
	return db
}

// Open opens (creating if needed) the sqlite database at path. Use
// ":memory:" for a throwaway database.
func Open(path string) (*gorm.DB, error) {
	gormLogger := logger.New(
		golog.New(os.Stdout, "\r\n", golog.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		},
	)

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, err
		}
	}
	d, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	// a single connection so sqlite never sees concurrent writes, and so an
	// in-memory database is shared by every query
	sqlDB, err := d.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	log.Debugln("opened database", path)
	return d, nil
}

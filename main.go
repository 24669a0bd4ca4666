package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"soundnorm-site/config"
	"soundnorm-site/database"
	"soundnorm-site/ffmpeg"
	"soundnorm-site/files"
	"soundnorm-site/handlers"
	"soundnorm-site/media"
	"soundnorm-site/storage"
	"soundnorm-site/transforms"
	"soundnorm-site/users"
)

func main() {

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	initLogger(cfg.LogLevel)

	log.Infof("GitSHA: %s", config.GetGitSHA())
	log.Infof("BuildDate: %s", config.GetBuildDate())

	ffmpeg.Init(log, cfg.FfmpegBin, cfg.FfprobeBin)
	media.Init(log)
	storage.Init(log)
	files.Init(log)

	// Create config database
	err = os.MkdirAll(cfg.ConfigDir, 0700)
	if err != nil {
		log.Panicf("failed to create config dir %s", cfg.ConfigDir)
	}

	// Initialize database
	dbPath := filepath.Join(cfg.ConfigDir, "soundnorm.db")
	db, err := database.Open(dbPath)
	if err != nil {
		log.Panicf("failed to connect to database %s: %v", dbPath, err)
	}

	// Migrate the schema
	err = db.AutoMigrate(&users.User{}, &files.Status{}, &files.File{}, &transforms.Transform{})
	if err != nil {
		log.Panicf("failed to migrate database: %v", err)
	}
	if err := files.SeedStatuses(db); err != nil {
		log.Panicln(err)
	}

	database.Init(db, log)
	defer database.Fini()

	recoverInterrupted(db)
	go PeriodicCleanup(db, cfg.TempDir)

	// create a user
	err = users.EnsureAdmin(db, cfg.GetAdminInitialPassword)
	if err != nil {
		panic(fmt.Sprintf("failed to create admin user: %v", err))
	}

	objects, err := storage.New(context.Background(), cfg.Storage.Backend, cfg.ObjectDir(), storage.S3Options{
		Bucket:    cfg.Storage.S3Bucket,
		Region:    cfg.Storage.S3Region,
		Endpoint:  cfg.Storage.S3Endpoint,
		AccessKey: cfg.Storage.S3AccessKey,
		SecretKey: cfg.Storage.S3SecretKey,
	})
	if err != nil {
		log.Panicf("failed to set up object storage: %v", err)
	}

	err = handlers.Init(log, cfg, objects, media.New(cfg.TempDir))
	if err != nil {
		log.Panicln(err)
	}
	defer handlers.Fini()

	// Initialize Echo
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dM", cfg.MaxUploadMB)))

	handlers.Routes(e)

	// Start server
	e.Logger.Fatal(e.Start(cfg.Addr))
}

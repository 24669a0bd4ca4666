package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/labstack/echo/v4"
	"golang.org/x/sys/unix"

	"soundnorm-site/ffmpeg"
)

// getFreeSpace returns the free space in bytes for the filesystem containing the given directory
func getFreeSpace(dir string) (uint64, error) {
	var stat unix.Statfs_t
	err := unix.Statfs(dir, &stat)
	if err != nil {
		return 0, fmt.Errorf("error getting filesystem stats: %v", err)
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}

// getDirectorySize calculates the total size of a directory in bytes
func getDirectorySize(dir string) (int64, error) {
	var size int64
	err := filepath.Walk(dir, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("error walking directory: %v", err)
	}
	return size, nil
}

type statusResponse struct {
	Ffmpeg  string    `json:"ffmpeg"`
	Storage string    `json:"storage"`
	Free    string    `json:"free"`
	Used    string    `json:"used"`
	Build   BuildInfo `json:"build"`
}

func StatusGet(c echo.Context) error {
	version, err := ffmpeg.Version(c.Request().Context())
	if err != nil {
		log.Errorln(err)
		version = "unavailable"
	}

	resp := statusResponse{
		Ffmpeg:  version,
		Storage: cfg.Storage.Backend,
		Build:   MakeBuildInfo(),
	}
	if free, err := getFreeSpace(cfg.DataDir); err != nil {
		log.Errorln(err)
	} else {
		resp.Free = humanize.IBytes(free)
	}
	if used, err := getDirectorySize(cfg.DataDir); err != nil {
		log.Errorln(err)
	} else {
		resp.Used = humanize.IBytes(uint64(used))
	}
	return c.JSON(http.StatusOK, resp)
}

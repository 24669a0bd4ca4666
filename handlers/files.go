package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"soundnorm-site/database"
	"soundnorm-site/files"
	"soundnorm-site/media"
	"soundnorm-site/storage"
)

type fileResponse struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Version string `json:"version"`
	Type    string `json:"type"`
}

func newFileResponse(f files.File) fileResponse {
	return fileResponse{
		Name:    f.Name,
		Status:  files.StatusName(f.StatusID),
		Version: f.Version,
		Type:    f.Kind,
	}
}

// UploadPost stores the multipart "file" for the current user. Files with
// no audio or video track are refused.
func UploadPost(c echo.Context) error {
	user, err := GetUser(c)
	if err != nil {
		return ErrAPIUnauthorized
	}

	statusID, err := files.ParseStatus(c.QueryParam("status"))
	if err != nil {
		return err
	}
	if statusID == 0 {
		statusID = files.StatusAdded
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return invalidParameter("missing multipart field \"file\": %v", err)
	}
	name := filepath.Base(fh.Filename)
	if err := storage.ValidateName(name); err != nil {
		return err
	}
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("%w: %v", media.ErrIOFailure, err)
	}
	defer src.Close()

	dir, cleanup, err := newScratchDir()
	if err != nil {
		return err
	}
	defer cleanup()
	path, err := spool(src, dir, name)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	ft, err := classify(ctx, path, name)
	if err != nil {
		return err
	}

	if err := storeFile(c, user.Id, name, path); err != nil {
		return err
	}
	f, err := files.RecordUpload(database.Get(), user.Id, name, statusID, "v1", storage.ObjectKey(user.Id, name), ft.String())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, newFileResponse(f))
}

func storeFile(c echo.Context, userID uint, name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", media.ErrIOFailure, err)
	}
	defer f.Close()
	return objects.Store(c.Request().Context(), userID, name, f)
}

// fetchFile copies a stored object into dir and returns the local path
func fetchFile(c echo.Context, userID uint, name, dir string) (string, error) {
	rc, err := objects.Retrieve(c.Request().Context(), userID, name)
	if err != nil {
		return "", err
	}
	defer rc.Close()
	return spool(rc, dir, name)
}

// FilesGet lists the user's file names, optionally filtered by ?status=.
// ?source=storage lists what the object store holds instead of the records.
func FilesGet(c echo.Context) error {
	user, err := GetUser(c)
	if err != nil {
		return ErrAPIUnauthorized
	}
	switch c.QueryParam("source") {
	case "", "records":
	case "storage":
		if c.QueryParam("status") != "" {
			return invalidParameter("status filter needs source=records")
		}
		names, err := objects.List(c.Request().Context(), user.Id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"files": names,
		})
	default:
		return invalidParameter("unknown source %q", c.QueryParam("source"))
	}

	statusID, err := files.ParseStatus(c.QueryParam("status"))
	if err != nil {
		return err
	}
	names, err := files.ListNamesByStatus(database.Get(), user.Id, statusID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"files": names,
	})
}

func FileGet(c echo.Context) error {
	user, err := GetUser(c)
	if err != nil {
		return ErrAPIUnauthorized
	}
	name := c.Param("filename")
	key, err := files.LookupPathByName(database.Get(), user.Id, name)
	if err != nil {
		return err
	}
	log.Debugf("download %s (%s)", name, key)

	rc, err := objects.Retrieve(c.Request().Context(), user.Id, name)
	if err != nil {
		return err
	}
	defer rc.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Stream(http.StatusOK, echo.MIMEOctetStream, rc)
}

func FileDelete(c echo.Context) error {
	user, err := GetUser(c)
	if err != nil {
		return ErrAPIUnauthorized
	}
	name := c.Param("filename")
	db := database.Get()
	if _, err := files.Get(db, user.Id, name); err != nil {
		return err
	}

	err = objects.Delete(c.Request().Context(), user.Id, name)
	if errors.Is(err, storage.ErrNotFound) {
		log.Warnf("record %s had no stored object", name)
	} else if err != nil {
		return err
	}
	if err := files.DeleteRecordByName(db, user.Id, name); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

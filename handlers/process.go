package handlers

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"soundnorm-site/database"
	"soundnorm-site/files"
	"soundnorm-site/media"
	"soundnorm-site/storage"
	"soundnorm-site/transforms"
)

type job struct {
	kind        string
	thresholdDB float64
	ratio       float64
	start, end  float64
}

func compressJob(c echo.Context) (job, error) {
	// pydub's defaults
	p := compressParams{Thresh: -20, Ratio: 4}
	if err := bindAndValidate(c, &p); err != nil {
		return job{}, err
	}
	return job{kind: transforms.KindCompress, thresholdDB: p.Thresh, ratio: p.Ratio}, nil
}

func cutJob(c echo.Context) (job, error) {
	var p cutParams
	if err := bindAndValidate(c, &p); err != nil {
		return job{}, err
	}
	start, err := strconv.ParseFloat(p.Start, 64)
	if err != nil {
		return job{}, invalidParameter("start: %v", err)
	}
	end, err := strconv.ParseFloat(p.End, 64)
	if err != nil {
		return job{}, invalidParameter("end: %v", err)
	}
	return job{kind: transforms.KindCut, start: start, end: end}, nil
}

// outputName keeps name when the writer accepts its extension, otherwise
// strips it so the writer picks one
func outputName(name string, ft media.FileType) string {
	if p, err := media.OutputPath(name, ft); err == nil && p == name {
		return name
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// classify resolves the type of src once; Unknown is refused
func classify(ctx context.Context, src, name string) (media.FileType, error) {
	ft, err := pipeline.Classify(ctx, src)
	if err != nil {
		return ft, err
	}
	if ft == media.Unknown {
		return ft, fmt.Errorf("%w: %s has no audio or video track", media.ErrUnsupportedFileType, name)
	}
	return ft, nil
}

// storedType trusts the type recorded at upload and only re-classifies
// records that predate it
func storedType(ctx context.Context, f files.File, src string) (media.FileType, error) {
	ft, err := media.ParseFileType(f.Kind)
	if err == nil && ft != media.Unknown {
		return ft, nil
	}
	log.Debugf("record %s has kind %q, classifying", f.Name, f.Kind)
	return classify(ctx, src, f.Name)
}

// process applies j to src of type ft and writes the result into outDir
func process(ctx context.Context, src string, ft media.FileType, outDir, name string, j job) (string, error) {
	var res media.TransformResult
	var err error
	switch j.kind {
	case transforms.KindCompress:
		res, err = pipeline.CompressFile(ctx, src, ft, j.thresholdDB, j.ratio)
	case transforms.KindCut:
		res, err = pipeline.Trim(ctx, src, ft, j.start, j.end)
	default:
		err = fmt.Errorf("%w: unknown operation %q", media.ErrInvalidParameter, j.kind)
	}
	if err != nil {
		return "", err
	}
	return pipeline.WriteResult(ctx, res, filepath.Join(outDir, outputName(name, ft)))
}

// processUpload runs j over the multipart "file" and sends the result back
func processUpload(c echo.Context, j job) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return invalidParameter("missing multipart field \"file\": %v", err)
	}
	name := filepath.Base(fh.Filename)
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
	out, err := process(ctx, path, ft, filepath.Join(dir, "out"), name, j)
	if err != nil {
		return err
	}
	return c.Attachment(out, filepath.Base(out))
}

// processStored runs j over a stored file and stores the result as a new
// "modified" file with the next version
func processStored(c echo.Context, j job) error {
	user, err := GetUser(c)
	if err != nil {
		return ErrAPIUnauthorized
	}
	name := c.Param("filename")
	db := database.Get()
	src, err := files.Get(db, user.Id, name)
	if err != nil {
		return err
	}

	dir, cleanup, err := newScratchDir()
	if err != nil {
		return err
	}
	defer cleanup()
	path, err := fetchFile(c, user.Id, name, dir)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	ft, err := storedType(ctx, src, path)
	if err != nil {
		return err
	}

	t := transforms.Transform{
		UserID:      user.Id,
		SrcName:     name,
		Kind:        j.kind,
		FileType:    ft.String(),
		ThresholdDB: j.thresholdDB,
		Ratio:       j.ratio,
		StartSec:    j.start,
		EndSec:      j.end,
	}
	if err := transforms.Begin(db, &t); err != nil {
		return err
	}

	dstName, f, err := func() (string, files.File, error) {
		out, err := process(ctx, path, ft, filepath.Join(dir, "out"), name, j)
		if err != nil {
			return "", files.File{}, err
		}
		version := files.NextVersion(src.Version)
		dstName := files.DerivedName(name, version, filepath.Ext(out))
		if err := storeFile(c, user.Id, dstName, out); err != nil {
			return "", files.File{}, err
		}
		f, err := files.RecordUpload(db, user.Id, dstName, files.StatusModified, version,
			storage.ObjectKey(user.Id, dstName), ft.String())
		return dstName, f, err
	}()
	if ferr := transforms.Finish(db, t.ID, dstName, err); ferr != nil {
		log.Errorln("record transform outcome:", ferr)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, newFileResponse(f))
}

func CompressPost(c echo.Context) error {
	j, err := compressJob(c)
	if err != nil {
		return err
	}
	return processUpload(c, j)
}

func CutPost(c echo.Context) error {
	j, err := cutJob(c)
	if err != nil {
		return err
	}
	return processUpload(c, j)
}

func StoredCompressPost(c echo.Context) error {
	j, err := compressJob(c)
	if err != nil {
		return err
	}
	return processStored(c, j)
}

func StoredCutPost(c echo.Context) error {
	j, err := cutJob(c)
	if err != nil {
		return err
	}
	return processStored(c, j)
}

func TransformsGet(c echo.Context) error {
	user, err := GetUser(c)
	if err != nil {
		return ErrAPIUnauthorized
	}
	ts, err := transforms.ListForUser(database.Get(), user.Id, 100)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ts)
}

package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"soundnorm-site/files"
	"soundnorm-site/media"
	"soundnorm-site/storage"
	"soundnorm-site/users"
)

type APIError struct {
	// Human readable error display message
	Message string `json:"message"`

	// A machine readable and stable identifier for the error case
	Code string `json:"code"`

	Status int `json:"-"`

	// logged, never sent
	InternalMessage string `json:"-"`
}

func (err APIError) Error() string {
	return fmt.Sprintf("api error: %s", err.Message)
}

var ErrAPIUnauthorized = APIError{Code: "UNAUTHORIZED", Message: "not logged in", Status: http.StatusUnauthorized}

func invalidParameter(format string, args ...interface{}) APIError {
	return APIError{
		Code:    "INVALID_PARAMETER",
		Message: fmt.Sprintf(format, args...),
		Status:  http.StatusBadRequest,
	}
}

// apiErrorFor maps the pipeline and persistence failures onto stable codes
func apiErrorFor(err error) (APIError, bool) {
	var apiErr APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}

	switch {
	case errors.Is(err, media.ErrUnsupportedFileType):
		return APIError{Code: "UNSUPPORTED_FILE_TYPE", Message: err.Error(), Status: http.StatusUnsupportedMediaType}, true
	case errors.Is(err, media.ErrInvalidParameter),
		errors.Is(err, storage.ErrInvalidName),
		errors.Is(err, files.ErrUnknownStatus):
		return APIError{Code: "INVALID_PARAMETER", Message: err.Error(), Status: http.StatusBadRequest}, true
	case errors.Is(err, media.ErrInvalidRange):
		return APIError{Code: "INVALID_RANGE", Message: err.Error(), Status: http.StatusRequestedRangeNotSatisfiable}, true
	case errors.Is(err, media.ErrDecodeFailure):
		return APIError{Code: "DECODE_FAILURE", Message: err.Error(), Status: http.StatusUnprocessableEntity}, true
	case errors.Is(err, media.ErrIOFailure):
		return APIError{
			Code:            "IO_FAILURE",
			Message:         "the server could not read or write a file",
			Status:          http.StatusInternalServerError,
			InternalMessage: err.Error(),
		}, true
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, files.ErrNotFound):
		return APIError{Code: "NOT_FOUND", Message: err.Error(), Status: http.StatusNotFound}, true
	case errors.Is(err, users.ErrInvalidCredentials):
		return APIError{Code: "UNAUTHORIZED", Message: err.Error(), Status: http.StatusUnauthorized}, true
	}
	return APIError{}, false
}

// HTTPErrorHandler renders APIErrors (and errors that map to one) as JSON.
// Everything else goes to fallback.
func HTTPErrorHandler(fallback echo.HTTPErrorHandler) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if apiErr, ok := apiErrorFor(err); ok {
			if apiErr.Status == 0 {
				apiErr.Status = http.StatusInternalServerError
			}
			if apiErr.Message == "" {
				apiErr.Message = http.StatusText(apiErr.Status)
			}
			if apiErr.Code == "" {
				apiErr.Code = http.StatusText(apiErr.Status)
			}
			if apiErr.InternalMessage != "" {
				log.Errorf("request failure, internal error: %s", apiErr.InternalMessage)
			}
			if c.Response().Committed {
				return
			}
			if err := c.JSON(apiErr.Status, apiErr); err == nil {
				return
			}
		}

		log.Warnf("%s %s failed with an unmapped error: %v",
			c.Request().Method, c.Request().RequestURI, err)
		fallback(err, c)
	}
}

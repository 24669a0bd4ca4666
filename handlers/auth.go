package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"soundnorm-site/database"
	"soundnorm-site/users"
)

// object stores that keep a per-user marker object
type userPreparer interface {
	EnsureUser(ctx context.Context, userID uint) error
}

func RegisterPost(c echo.Context) error {
	var creds credentials
	if err := bindAndValidate(c, &creds); err != nil {
		return err
	}

	user, err := users.Create(database.Get(), creds.Username, creds.Password)
	if err != nil {
		log.Warnf("create user %s: %v", creds.Username, err)
		return APIError{Code: "USER_EXISTS", Message: "could not create user " + creds.Username, Status: http.StatusConflict}
	}
	if p, ok := objects.(userPreparer); ok {
		if err := p.EnsureUser(c.Request().Context(), user.ID); err != nil {
			log.Errorln(err)
		}
	}
	log.Infoln("registered user", creds.Username)
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"id":       user.ID,
		"username": user.Username,
	})
}

func LoginPost(c echo.Context) error {
	var creds credentials
	if err := bindAndValidate(c, &creds); err != nil {
		return err
	}

	user, err := users.Authenticate(database.Get(), creds.Username, creds.Password)
	if err != nil {
		return err
	}
	if err := setSessionUser(c, user.ID); err != nil {
		return APIError{Message: "unable to save session", Status: http.StatusInternalServerError, InternalMessage: err.Error()}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":       user.ID,
		"username": user.Username,
	})
}

func LogoutPost(c echo.Context) error {
	if err := clearSession(c); err != nil {
		log.Errorln("logout:", err)
	}
	return c.NoContent(http.StatusNoContent)
}

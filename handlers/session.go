package handlers

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

const sessionName = "session"

type User struct {
	Id uint
}

func GetUser(c echo.Context) (User, error) {
	session, err := store.Get(c.Request(), sessionName)
	if err != nil {
		return User{}, fmt.Errorf("couldn't retrieve session from store: %w", err)
	}
	val, ok := session.Values["user_id"]
	if !ok {
		return User{}, fmt.Errorf("user_id not in session")
	}
	id, ok := val.(uint)
	if !ok {
		return User{}, fmt.Errorf("user_id in session has type %T", val)
	}
	return User{Id: id}, nil
}

func setSessionUser(c echo.Context, id uint) error {
	session, err := store.Get(c.Request(), sessionName)
	if err != nil {
		// a stale cookie signed with an old key still yields a fresh session
		log.Debugln("replacing unreadable session:", err)
	}
	session.Values["user_id"] = id
	return session.Save(c.Request(), c.Response().Writer)
}

func clearSession(c echo.Context) error {
	session, _ := store.Get(c.Request(), sessionName)
	delete(session.Values, "user_id")
	session.Options.MaxAge = -1
	return session.Save(c.Request(), c.Response().Writer)
}

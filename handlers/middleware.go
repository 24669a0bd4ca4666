package handlers

import (
	"github.com/labstack/echo/v4"
)

func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := GetUser(c)
		if err != nil {
			log.Debugln("auth:", err)
			return ErrAPIUnauthorized
		}
		c.Set("user_id", user.Id)
		return next(c)
	}
}

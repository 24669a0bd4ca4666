package handlers

import (
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"

	"soundnorm-site/config"
	"soundnorm-site/media"
	"soundnorm-site/storage"
)

var log = logrus.NewEntry(logrus.StandardLogger())
var store *sessions.CookieStore
var objects storage.Store
var pipeline *media.Pipeline
var cfg config.Config

func Init(logger *logrus.Logger, c config.Config, s storage.Store, p *media.Pipeline) error {
	log = logger.WithFields(logrus.Fields{
		"component": "handlers",
	})

	// create the cookie store
	key, err := c.GetSessionAuthKey()
	if err != nil {
		return err
	}
	store = sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   30 * 24 * 60 * 60, // seconds
		HttpOnly: true,
		Secure:   c.Secure,
	}

	cfg = c
	objects = s
	pipeline = p
	return nil
}

func Fini() {}

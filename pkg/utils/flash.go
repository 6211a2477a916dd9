package utils

import (
	"encoding/gob"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const flashSessionName = "session"

// Flash es un mensaje de un solo uso mostrado tras la redirección.
type Flash struct {
	Category string
	Message  string
}

func init() {
	gob.Register(Flash{})
}

func AddFlash(c echo.Context, category, message string) {
	sess, err := session.Get(flashSessionName, c)
	if err != nil {
		return
	}
	sess.AddFlash(Flash{Category: category, Message: message})
	_ = sess.Save(c.Request(), c.Response())
}

func GetFlashes(c echo.Context) []Flash {
	sess, err := session.Get(flashSessionName, c)
	if err != nil {
		return nil
	}

	raw := sess.Flashes()
	if len(raw) > 0 {
		_ = sess.Save(c.Request(), c.Response())
	}

	flashes := make([]Flash, 0, len(raw))
	for _, f := range raw {
		if fl, ok := f.(Flash); ok {
			flashes = append(flashes, fl)
		}
	}
	return flashes
}

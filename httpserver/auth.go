package httpserver

import (
	"movieapi/errs"

	gojwt "github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	tokenContextKey  = "user"
	userIDContextKey = "userID"
)

var errAccessDenied = errs.Errorf(errs.EUNAUTHORIZED, "Access Denied: Please log in first.")

func (s *Server) requireToken() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey: tokenContextKey,
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return s.Tokens.Parse(auth)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errAccessDenied
		},
	})
}

// requireUser resolves the user id from the verified token. Handlers read
// it with userID.
func (s *Server) requireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get(tokenContextKey).(*gojwt.Token)
		if !ok {
			return errAccessDenied
		}
		id, err := s.Tokens.UserID(token)
		if err != nil {
			return errAccessDenied
		}
		c.Set(userIDContextKey, id)
		return next(c)
	}
}

func userID(c echo.Context) string {
	id, _ := c.Get(userIDContextKey).(string)
	return id
}

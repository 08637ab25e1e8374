package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// sessionMiddleware rejects tokens whose session has been signed out.
func (a *authenticator) sessionMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			sess, ok := a.accounts.CurrentSession(claims.Id)
			if !ok {
				return errSessionEnded
			}
			ctx.Set(contextSessionKey, sess)
			return next(ctx)
		}
	}
}

// optional authenticates the request when it carries a token, and lets anonymous requests through.
func (a *authenticator) optional() echo.MiddlewareFunc {
	requireToken := a.jwt()
	requireSession := a.sessionMiddleware()
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		authed := requireToken(requireSession(next))
		return func(ctx echo.Context) error {
			if ctx.Request().Header.Get(echo.HeaderAuthorization) == "" {
				return next(ctx)
			}
			return authed(ctx)
		}
	}
}

package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/stratosedge/portal/core"
	"github.com/stratosedge/portal/core/account"
	"github.com/stratosedge/portal/core/session"
)

type accountsApi struct {
	auth     *authenticator
	svc      *account.Service
	bridge   *session.Bridge
	validate *validator.Validate
}

func registerAccountsAPI(
	g *echo.Group,
	authed []echo.MiddlewareFunc,
	auth *authenticator,
	svc *account.Service,
	bridge *session.Bridge,
	validate *validator.Validate,
) {
	api := accountsApi{auth: auth, svc: svc, bridge: bridge, validate: validate}

	ag := g.Group("/accounts")

	// un-authed endpoints
	ag.POST("/signup", api.signup)
	ag.POST("/login", api.login)

	// authed endpoints
	sg := ag.Group("", authed...)
	sg.POST("/logout", api.logout)
	sg.POST("/token-refresh", api.refreshToken)
}

// Handlers

func (api *accountsApi) signup(ctx echo.Context) error {
	var data SignupRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SignupRequest")
	}
	// nothing reaches the provider until the terms are accepted
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sess, err := api.svc.SignUp(ctx.Request().Context(), account.NewAccount{
		Email:       data.Email,
		Password:    data.Password,
		DisplayName: data.DisplayName,
	})
	if err != nil {
		return errors.Wrap(err, "signing up")
	}
	return api.startSession(ctx, http.StatusCreated, sess)
}

func (api *accountsApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}

	sess, err := api.svc.SignIn(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		return errors.Wrap(err, "signing in")
	}
	return api.startSession(ctx, http.StatusOK, sess)
}

// startSession moves the new session to the profile page and hands out its token.
// The profile is loaded in the background.
func (api *accountsApi) startSession(ctx echo.Context, code int, sess account.Session) error {
	token, err := GenerateToken(api.auth.conf, GetSessionClaims(api.auth.conf, sess))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	st := api.bridge.Dispatch(sess, session.LoginSucceeded{})
	return ctx.JSON(code, AuthResponse{Token: token, Session: sess, State: st})
}

func (api *accountsApi) logout(ctx echo.Context) error {
	sess, err := mustContextSession(ctx)
	if err != nil {
		return err
	}
	st, err := api.bridge.SignOut(ctx.Request().Context(), sess)
	if err != nil {
		// the local state is gone either way
		ctx.Logger().Errorf("%+v", err)
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *accountsApi) refreshToken(ctx echo.Context) error {
	token, err := api.auth.refreshToken(ctx)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, TokenResponse{Token: token})
}

type (
	SignupRequest struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"displayName" validate:"max=150"`
		AcceptTerms bool   `json:"acceptTerms" validate:"accepted"`
	}

	LoginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	AuthResponse struct {
		Token   string          `json:"token"`
		Session account.Session `json:"session"`
		State   session.State   `json:"state"`
	}

	TokenResponse struct {
		Token string `json:"token"`
	}
)

func (sr *SignupRequest) Validate(validate *validator.Validate) error {
	sr.Email = core.CleanString(sr.Email, true /* lower */)
	sr.DisplayName = core.CleanString(sr.DisplayName)
	return validate.Struct(sr)
}

package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/stratosedge/portal/core"
	"github.com/stratosedge/portal/core/course"
	"github.com/stratosedge/portal/core/profile"
	"github.com/stratosedge/portal/core/session"
)

// view actions
const (
	actionNavigate     = "navigate"
	actionSelectCourse = "select_course"
	actionOpenLogin    = "open_login"
	actionCloseModal   = "close_modal"
	actionGoToProfile  = "go_to_profile"
)

type meApi struct {
	bridge   *session.Bridge
	validate *validator.Validate
}

func registerMeAPI(g *echo.Group, authed []echo.MiddlewareFunc, bridge *session.Bridge, validate *validator.Validate) {
	api := meApi{bridge: bridge, validate: validate}

	mg := g.Group("/me", authed...)
	mg.GET("", api.retrieve)
	mg.PUT("/profile", api.saveProfile)
	mg.POST("/profile/refresh", api.refreshProfile)
	mg.PUT("/view", api.updateView)
}

// Handlers

func (api *meApi) retrieve(ctx echo.Context) error {
	sess, err := mustContextSession(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.bridge.State(sess))
}

func (api *meApi) saveProfile(ctx echo.Context) error {
	sess, err := mustContextSession(ctx)
	if err != nil {
		return err
	}

	var data profile.Update
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to profile.Update")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	st, err := api.bridge.SaveProfile(ctx.Request().Context(), sess, data)
	if err != nil {
		return errors.Wrap(err, "saving profile")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *meApi) refreshProfile(ctx echo.Context) error {
	sess, err := mustContextSession(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.bridge.Refresh(ctx.Request().Context(), sess))
}

func (api *meApi) updateView(ctx echo.Context) error {
	sess, err := mustContextSession(ctx)
	if err != nil {
		return err
	}

	var data ViewRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ViewRequest")
	}
	intent, err := data.Intent(api.validate)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.bridge.Dispatch(sess, intent))
}

type ViewRequest struct {
	Action   string       `json:"action" validate:"required,oneof=navigate select_course open_login close_modal go_to_profile"`
	Page     session.Page `json:"page"`
	CourseID int          `json:"courseId"`
}

// Intent validates the request and returns the matching view intent.
func (vr *ViewRequest) Intent(validate *validator.Validate) (session.Intent, error) {
	vr.Action = core.CleanString(vr.Action, true /* lower */)
	if err := validate.Struct(vr); err != nil {
		return nil, err
	}

	switch vr.Action {
	case actionNavigate:
		if !vr.Page.Valid() {
			return nil, core.NewValidationError(nil, core.FieldError{Field: "page", Error: "invalid page"})
		}
		return session.Navigate{Page: vr.Page}, nil
	case actionSelectCourse:
		if _, err := course.Find(vr.CourseID); err != nil {
			return nil, core.NewValidationError(nil, core.FieldError{Field: "courseId", Error: "invalid course"})
		}
		return session.SelectCourse{CourseID: vr.CourseID}, nil
	case actionOpenLogin:
		return session.OpenModal{Modal: session.ModalLogin}, nil
	case actionCloseModal:
		return session.CloseModal{}, nil
	default:
		return session.GoToProfile{}, nil
	}
}

package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/stratosedge/portal/core"
	"github.com/stratosedge/portal/core/course"
	"github.com/stratosedge/portal/core/session"
)

type applicationsApi struct {
	bridge *session.Bridge
}

func registerApplicationsAPI(g *echo.Group, authed []echo.MiddlewareFunc, bridge *session.Bridge) {
	api := applicationsApi{bridge: bridge}

	ag := g.Group("/me/applications", authed...)
	ag.GET("", api.query)
	ag.POST("", api.apply)

	sg := ag.Group("/submission")
	sg.GET("", api.submission)
	sg.POST("/confirm", api.confirm)
	sg.POST("/retry", api.retry)
	sg.DELETE("", api.close)
}

// Handlers

// query lists the courses the applicant has applied to, in application order.
func (api *applicationsApi) query(ctx echo.Context) error {
	sess, err := mustContextSession(ctx)
	if err != nil {
		return err
	}
	st := api.bridge.State(sess)
	if st.User == nil {
		return session.ErrUserNotLoaded
	}

	courses := make([]course.Course, 0, len(st.User.AppliedCourses))
	for _, id := range st.User.AppliedCourses {
		c, err := course.Find(id)
		if err != nil {
			continue // withdrawn from the catalog
		}
		courses = append(courses, c)
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *applicationsApi) apply(ctx echo.Context) error {
	sess, err := mustContextSession(ctx)
	if err != nil {
		return err
	}

	var data ApplyRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ApplyRequest")
	}
	c, err := course.Find(data.CourseID)
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "courseId", Error: "invalid course"})
	}

	res, err := api.bridge.Apply(sess, c)
	if err != nil {
		return errors.Wrap(err, "applying")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *applicationsApi) submission(ctx echo.Context) error {
	sess, err := mustContextSession(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.bridge.Submission(sess))
}

func (api *applicationsApi) confirm(ctx echo.Context) error {
	sess, err := mustContextSession(ctx)
	if err != nil {
		return err
	}
	fs, err := api.bridge.ConfirmApplication(ctx.Request().Context(), sess)
	if err != nil {
		return errors.Wrap(err, "confirming application")
	}
	return ctx.JSON(http.StatusOK, fs)
}

func (api *applicationsApi) retry(ctx echo.Context) error {
	sess, err := mustContextSession(ctx)
	if err != nil {
		return err
	}
	fs, err := api.bridge.RetryApplication(sess)
	if err != nil {
		return errors.Wrap(err, "retrying application")
	}
	return ctx.JSON(http.StatusOK, fs)
}

func (api *applicationsApi) close(ctx echo.Context) error {
	sess, err := mustContextSession(ctx)
	if err != nil {
		return err
	}
	st, err := api.bridge.CloseApplication(sess)
	if err != nil {
		return errors.Wrap(err, "closing application")
	}
	return ctx.JSON(http.StatusOK, st)
}

type ApplyRequest struct {
	CourseID int `json:"courseId"`
}

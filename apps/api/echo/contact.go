package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/stratosedge/portal/core"
	"github.com/stratosedge/portal/core/contact"
)

type contactApi struct {
	svc    *contact.Service
	logger core.Logger
}

func registerContactAPI(g *echo.Group, authed []echo.MiddlewareFunc, svc *contact.Service, logger core.Logger) {
	api := contactApi{svc: svc, logger: logger}
	g.POST("/contact", api.create, authed...)
}

func (api *contactApi) create(ctx echo.Context) error {
	sess, err := mustContextSession(ctx)
	if err != nil {
		return err
	}

	var data contact.NewSubmission
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to contact.NewSubmission")
	}

	if _, err = api.svc.Submit(ctx.Request().Context(), data, sess.Email); err != nil {
		if core.IsValidationError(err) {
			return err
		}
		api.logger.Error(fmt.Sprintf("submitting contact form: %v", err), err, sess)
		return echo.NewHTTPError(http.StatusInternalServerError, contact.FailureMessage)
	}
	return ctx.JSON(http.StatusCreated, SuccessResponse{Success: contact.SuccessMessage})
}

type SuccessResponse struct {
	Success string `json:"success"`
}

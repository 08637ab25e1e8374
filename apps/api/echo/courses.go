package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/stratosedge/portal/core/course"
	"github.com/stratosedge/portal/core/salary"
	"github.com/stratosedge/portal/core/session"
)

type coursesApi struct {
	bridge    *session.Bridge
	estimator *salary.Estimator
}

func registerCoursesAPI(g *echo.Group, optionalAuth echo.MiddlewareFunc, bridge *session.Bridge, estimator *salary.Estimator) {
	api := coursesApi{bridge: bridge, estimator: estimator}

	cg := g.Group("/courses")
	cg.GET("", api.query)
	cg.GET("/categories", api.queryCategories)
	cg.GET("/domains", api.queryDomains)

	// detail endpoints
	dg := cg.Group("/:id", courseMiddleware)
	dg.GET("", api.retrieve)
	dg.GET("/salary", api.salary)
	dg.GET("/apply-step", api.applyStep, optionalAuth)
}

// Handlers

// query lists the catalog, filtered by ?category= and ?featured=true.
func (api *coursesApi) query(ctx echo.Context) error {
	if featured, _ := strconv.ParseBool(ctx.QueryParam("featured")); featured {
		return ctx.JSON(http.StatusOK, course.Featured())
	}
	return ctx.JSON(http.StatusOK, course.ByCategory(ctx.QueryParam("category")))
}

func (api *coursesApi) queryCategories(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, course.Categories())
}

func (api *coursesApi) queryDomains(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, course.Domains())
}

func (api *coursesApi) retrieve(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, contextCourse(ctx))
}

func (api *coursesApi) salary(ctx echo.Context) error {
	c := contextCourse(ctx)
	estimate, err := api.estimator.Estimate(ctx.Request().Context(), c.Role)
	if err != nil {
		return errors.Wrap(err, "estimating salary")
	}
	return ctx.JSON(http.StatusOK, SalaryResponse{Role: c.Role, Salary: estimate})
}

// applyStep tells where an apply click leads. Anonymous requests always lead to login.
func (api *coursesApi) applyStep(ctx echo.Context) error {
	c := contextCourse(ctx)
	st := session.Initial()
	if sess, ok := getContextSession(ctx); ok {
		st = api.bridge.State(sess)
	}
	return ctx.JSON(http.StatusOK, ApplyStepResponse{CourseID: c.ID, Step: session.NextApplyStep(st, c.ID)})
}

func courseMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if id, err := strconv.Atoi(ctx.Param("id")); err == nil {
			if c, err := course.Find(id); err == nil {
				ctx.Set("object", c)
				return next(ctx)
			}
		}
		return errHttpNotFound
	}
}

func contextCourse(ctx echo.Context) course.Course {
	c, _ := ctx.Get("object").(course.Course)
	return c
}

type (
	SalaryResponse struct {
		Role   string `json:"role"`
		Salary string `json:"salary"`
	}

	ApplyStepResponse struct {
		CourseID int              `json:"courseId"`
		Step     session.ApplyStep `json:"step"`
	}
)

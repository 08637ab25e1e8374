package application

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/stratosedge/portal/core"
	"github.com/stratosedge/portal/core/course"
	"github.com/stratosedge/portal/core/profile"
)

var NowFunc = time.Now // mockable

type (
	Repository interface {
		CreateApplication(ctx context.Context, app Application) (Application, error)
		// QueryCourseIDsByEmail returns the course ID of every application made with email, duplicates included.
		QueryCourseIDsByEmail(ctx context.Context, email string) ([]int, error)
		QueryAllApplications(ctx context.Context) ([]Application, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
	}
)

func NewService(repo Repository, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, mailSvc: mailSvc}
}

// Submit records an application of the applicant for c, made with the signed-in email.
func (svc *Service) Submit(ctx context.Context, p profile.Profile, email string, c course.Course) (Application, error) {
	if email == "" {
		email = p.Email
	}
	app := Application{
		ID:                uuid.New().String(),
		Applicant:         ApplicantFrom(p),
		CourseID:          c.ID,
		CourseTitle:       c.Title,
		Email:             email,
		ApplicationDate:   NowFunc().UTC(),
		ApplicationStatus: StatusSubmitted,
	}
	app, err := svc.repo.CreateApplication(ctx, app)
	if err != nil {
		return Application{}, errors.Wrap(err, "creating application")
	}

	svc.sendConfirmationMail(app)
	return app, nil
}

func (svc *Service) sendConfirmationMail(app Application) {
	if app.Email == "" {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: app.Name, Address: app.Email}},
		Subject:      fmt.Sprintf("Application received: %s", app.CourseTitle),
		TemplateName: "application_submitted",
		TemplateData: app,
	})
}

// AppliedCourseIDs returns the distinct course IDs applied to with email, in first-application order.
func (svc *Service) AppliedCourseIDs(ctx context.Context, email string) ([]int, error) {
	ids, err := svc.repo.QueryCourseIDsByEmail(ctx, email)
	if err != nil {
		return nil, errors.Wrap(err, "querying applied course IDs")
	}
	seen := make(map[int]bool, len(ids))
	unique := make([]int, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	return unique, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]Application, error) {
	return svc.repo.QueryAllApplications(ctx)
}

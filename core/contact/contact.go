// Package contact records collaboration requests from organizations.
package contact

import (
	"context"
	"errors"
	"net/mail"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/stratosedge/portal/core"
)

const (
	SuccessMessage = "Submitted! We will reach out shortly."
	FailureMessage = "Submission failed. Please try again."
	RequiredText   = "Please enter organization name and contact."
	TooLongText    = "Organization name and contact must be at most 250 characters."

	maxFieldLen = 250
)

var (
	NowFunc = time.Now // mockable

	errRequired = errors.New(RequiredText)
	errTooLong  = errors.New(TooLongText)
)

// Submission is a write-only record of the "contactSubmissions" collection.
type Submission struct {
	ID        string      `json:"id"`
	OrgName   string      `json:"orgName"`
	Contact   string      `json:"contact"`
	UserEmail null.String `json:"userEmail"`
	CreatedAt time.Time   `json:"createdAt"` // UTC, set by the store
}

// NewSubmission is the collaboration form.
type NewSubmission struct {
	OrgName string `json:"orgName"`
	Contact string `json:"contact"`
}

func (ns *NewSubmission) Validate() error {
	ns.OrgName = core.CleanString(ns.OrgName)
	ns.Contact = core.CleanString(ns.Contact)
	if ns.OrgName == "" || ns.Contact == "" {
		return core.NewValidationError(errRequired)
	}
	if utf8.RuneCountInString(ns.OrgName) > maxFieldLen || utf8.RuneCountInString(ns.Contact) > maxFieldLen {
		return core.NewValidationError(errTooLong)
	}
	return nil
}

type (
	Repository interface {
		CreateContactSubmission(ctx context.Context, sub Submission) (Submission, error)
	}

	Service struct {
		repo     Repository
		mailSvc  core.EmailService
		teamAddr mail.Address
	}
)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{repo: repo, mailSvc: mailSvc, teamAddr: conf.TeamEmail}
}

// Submit validates and stores the form, then notifies the team. userEmail may be empty.
func (svc *Service) Submit(ctx context.Context, ns NewSubmission, userEmail string) (Submission, error) {
	if err := ns.Validate(); err != nil {
		return Submission{}, err
	}

	sub := Submission{
		ID:        uuid.New().String(),
		OrgName:   ns.OrgName,
		Contact:   ns.Contact,
		CreatedAt: NowFunc().UTC(),
	}
	if email := core.CleanString(userEmail); email != "" {
		sub.UserEmail = null.StringFrom(email)
	}

	sub, err := svc.repo.CreateContactSubmission(ctx, sub)
	if err != nil {
		return Submission{}, pkgerrors.Wrap(err, "creating contact submission")
	}

	msg := &core.EmailMessage{
		To:           []mail.Address{svc.teamAddr},
		Subject:      "New collaboration request: " + sub.OrgName,
		TemplateName: "contact_submission",
		TemplateData: sub,
	}
	if sub.UserEmail.Valid {
		msg.ReplyTo = &mail.Address{Address: sub.UserEmail.String}
	}
	svc.mailSvc.SendMessages(msg)
	return sub, nil
}

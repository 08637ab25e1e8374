package dynamorepos

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/stratosedge/portal/core/account"
	"github.com/stratosedge/portal/core/application"
	"github.com/stratosedge/portal/core/contact"
	"github.com/stratosedge/portal/core/profile"
)

type accountItem struct {
	Email        string     `dynamodbav:"email"` // hash key
	ID           string     `dynamodbav:"id"`
	DisplayName  string     `dynamodbav:"displayName"`
	PasswordHash []byte     `dynamodbav:"passwordHash"`
	CreatedAt    time.Time  `dynamodbav:"createdAt"`
	LastLogin    *time.Time `dynamodbav:"lastLogin,omitempty"`
}

func newAccountItem(acc account.Account) accountItem {
	item := accountItem{
		Email:        acc.Email,
		ID:           acc.ID,
		DisplayName:  acc.DisplayName,
		PasswordHash: acc.PasswordHash,
		CreatedAt:    acc.CreatedAt.UTC(),
	}
	if acc.LastLogin.Valid {
		t := acc.LastLogin.Time.UTC()
		item.LastLogin = &t
	}
	return item
}

func (i accountItem) account() account.Account {
	acc := account.Account{
		ID:           i.ID,
		Email:        i.Email,
		DisplayName:  i.DisplayName,
		PasswordHash: i.PasswordHash,
		CreatedAt:    i.CreatedAt.UTC(),
	}
	if i.LastLogin != nil {
		acc.LastLogin = null.TimeFrom(i.LastLogin.UTC())
	}
	return acc
}

// userItem mirrors profile.Profile. AppliedCourses is left out of updates when nil.
type userItem struct {
	UID             string `dynamodbav:"uid"` // hash key
	Name            string `dynamodbav:"name"`
	Email           string `dynamodbav:"email"`
	FirstName       string `dynamodbav:"firstName"`
	LastName        string `dynamodbav:"lastName"`
	DOB             string `dynamodbav:"dob"`
	WhatsappNumber  string `dynamodbav:"whatsappNumber"`
	Status          string `dynamodbav:"status"`
	SchoolOrCompany string `dynamodbav:"schoolOrCompany"`
	TenthMarks      string `dynamodbav:"tenthMarks"`
	TenthSchool     string `dynamodbav:"tenthSchool"`
	TwelfthMarks    string `dynamodbav:"twelfthMarks"`
	TwelfthSchool   string `dynamodbav:"twelfthSchool"`
	AppliedCourses  []int  `dynamodbav:"appliedCourses"`
}

func (i userItem) profile() profile.Profile {
	return profile.Profile{
		Name:            i.Name,
		Email:           i.Email,
		FirstName:       i.FirstName,
		LastName:        i.LastName,
		DOB:             i.DOB,
		WhatsappNumber:  i.WhatsappNumber,
		Status:          profile.Status(i.Status),
		SchoolOrCompany: i.SchoolOrCompany,
		TenthMarks:      i.TenthMarks,
		TenthSchool:     i.TenthSchool,
		TwelfthMarks:    i.TwelfthMarks,
		TwelfthSchool:   i.TwelfthSchool,
		AppliedCourses:  i.AppliedCourses,
	}
}

type applicationItem struct {
	ID                string    `dynamodbav:"id"` // hash key
	CourseID          int       `dynamodbav:"courseId"`
	CourseTitle       string    `dynamodbav:"courseTitle"`
	Email             string    `dynamodbav:"email"`
	Name              string    `dynamodbav:"name"`
	FirstName         string    `dynamodbav:"firstName"`
	LastName          string    `dynamodbav:"lastName"`
	DOB               string    `dynamodbav:"dob"`
	WhatsappNumber    string    `dynamodbav:"whatsappNumber"`
	Status            string    `dynamodbav:"status"`
	SchoolOrCompany   string    `dynamodbav:"schoolOrCompany"`
	TenthMarks        string    `dynamodbav:"tenthMarks"`
	TenthSchool       string    `dynamodbav:"tenthSchool"`
	TwelfthMarks      string    `dynamodbav:"twelfthMarks"`
	TwelfthSchool     string    `dynamodbav:"twelfthSchool"`
	ApplicationDate   time.Time `dynamodbav:"applicationDate"`
	ApplicationStatus string    `dynamodbav:"applicationStatus"`
}

func newApplicationItem(app application.Application) applicationItem {
	return applicationItem{
		ID:                app.ID,
		CourseID:          app.CourseID,
		CourseTitle:       app.CourseTitle,
		Email:             app.Email,
		Name:              app.Name,
		FirstName:         app.FirstName,
		LastName:          app.LastName,
		DOB:               app.DOB,
		WhatsappNumber:    app.WhatsappNumber,
		Status:            string(app.Status),
		SchoolOrCompany:   app.SchoolOrCompany,
		TenthMarks:        app.TenthMarks,
		TenthSchool:       app.TenthSchool,
		TwelfthMarks:      app.TwelfthMarks,
		TwelfthSchool:     app.TwelfthSchool,
		ApplicationDate:   app.ApplicationDate.UTC(),
		ApplicationStatus: app.ApplicationStatus,
	}
}

func (i applicationItem) application() application.Application {
	return application.Application{
		ID: i.ID,
		Applicant: application.Applicant{
			Name:            i.Name,
			FirstName:       i.FirstName,
			LastName:        i.LastName,
			DOB:             i.DOB,
			WhatsappNumber:  i.WhatsappNumber,
			Status:          profile.Status(i.Status),
			SchoolOrCompany: i.SchoolOrCompany,
			TenthMarks:      i.TenthMarks,
			TenthSchool:     i.TenthSchool,
			TwelfthMarks:    i.TwelfthMarks,
			TwelfthSchool:   i.TwelfthSchool,
		},
		CourseID:          i.CourseID,
		CourseTitle:       i.CourseTitle,
		Email:             i.Email,
		ApplicationDate:   i.ApplicationDate.UTC(),
		ApplicationStatus: i.ApplicationStatus,
	}
}

type contactItem struct {
	ID        string    `dynamodbav:"id"` // hash key
	OrgName   string    `dynamodbav:"orgName"`
	Contact   string    `dynamodbav:"contact"`
	UserEmail *string   `dynamodbav:"userEmail"` // NULL when anonymous
	CreatedAt time.Time `dynamodbav:"createdAt"`
}

func newContactItem(sub contact.Submission) contactItem {
	item := contactItem{
		ID:        sub.ID,
		OrgName:   sub.OrgName,
		Contact:   sub.Contact,
		CreatedAt: sub.CreatedAt.UTC(),
	}
	if sub.UserEmail.Valid {
		email := sub.UserEmail.String
		item.UserEmail = &email
	}
	return item
}

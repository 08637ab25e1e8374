package sqlxrepos

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/stratosedge/portal/core/account"
	"github.com/stratosedge/portal/core/application"
	"github.com/stratosedge/portal/core/contact"
	"github.com/stratosedge/portal/core/profile"
)

type accountRow struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	DisplayName  string    `db:"display_name"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	LastLogin    null.Time `db:"last_login"`
}

func newAccountRow(acc account.Account) accountRow {
	return accountRow{
		ID:           acc.ID,
		Email:        acc.Email,
		DisplayName:  acc.DisplayName,
		PasswordHash: string(acc.PasswordHash),
		CreatedAt:    acc.CreatedAt.UTC(),
		LastLogin:    acc.LastLogin,
	}
}

func (r accountRow) account() account.Account {
	acc := account.Account{
		ID:          r.ID,
		Email:       r.Email,
		DisplayName: r.DisplayName,
		CreatedAt:   r.CreatedAt.UTC(),
		LastLogin:   r.LastLogin,
	}
	if r.PasswordHash != "" {
		acc.PasswordHash = []byte(r.PasswordHash)
	}
	if acc.LastLogin.Valid {
		acc.LastLogin.Time = acc.LastLogin.Time.UTC()
	}
	return acc
}

type userRow struct {
	UID             string      `db:"uid"`
	Name            string      `db:"name"`
	Email           string      `db:"email"`
	FirstName       string      `db:"first_name"`
	LastName        string      `db:"last_name"`
	DOB             string      `db:"dob"`
	WhatsappNumber  string      `db:"whatsapp_number"`
	Status          string      `db:"status"`
	SchoolOrCompany string      `db:"school_or_company"`
	TenthMarks      string      `db:"tenth_marks"`
	TenthSchool     string      `db:"tenth_school"`
	TwelfthMarks    string      `db:"twelfth_marks"`
	TwelfthSchool   string      `db:"twelfth_school"`
	AppliedCourses  null.String `db:"applied_courses"` // JSON array, NULL when absent
	CreatedAt       time.Time   `db:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at"`
}

func newUserRow(uid string, p profile.Profile, now time.Time) (userRow, error) {
	row := userRow{
		UID:             uid,
		Name:            p.Name,
		Email:           p.Email,
		FirstName:       p.FirstName,
		LastName:        p.LastName,
		DOB:             p.DOB,
		WhatsappNumber:  p.WhatsappNumber,
		Status:          string(p.Status),
		SchoolOrCompany: p.SchoolOrCompany,
		TenthMarks:      p.TenthMarks,
		TenthSchool:     p.TenthSchool,
		TwelfthMarks:    p.TwelfthMarks,
		TwelfthSchool:   p.TwelfthSchool,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if row.Status == "" {
		row.Status = string(profile.StatusNotSpecified)
	}
	if p.AppliedCourses != nil {
		b, err := json.Marshal(p.AppliedCourses)
		if err != nil {
			return userRow{}, errors.Wrap(err, "encoding appliedCourses")
		}
		row.AppliedCourses = null.StringFrom(string(b))
	}
	return row, nil
}

func (r userRow) profile() (profile.Profile, error) {
	p := profile.Profile{
		Name:            r.Name,
		Email:           r.Email,
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		DOB:             r.DOB,
		WhatsappNumber:  r.WhatsappNumber,
		Status:          profile.Status(r.Status),
		SchoolOrCompany: r.SchoolOrCompany,
		TenthMarks:      r.TenthMarks,
		TenthSchool:     r.TenthSchool,
		TwelfthMarks:    r.TwelfthMarks,
		TwelfthSchool:   r.TwelfthSchool,
	}
	if r.AppliedCourses.Valid {
		if err := json.Unmarshal([]byte(r.AppliedCourses.String), &p.AppliedCourses); err != nil {
			return profile.Profile{}, errors.Wrap(err, "decoding appliedCourses")
		}
		if p.AppliedCourses == nil {
			p.AppliedCourses = []int{}
		}
	}
	return p, nil
}

type applicationRow struct {
	ID                string    `db:"id"`
	CourseID          int       `db:"course_id"`
	CourseTitle       string    `db:"course_title"`
	Email             string    `db:"email"`
	Name              string    `db:"name"`
	FirstName         string    `db:"first_name"`
	LastName          string    `db:"last_name"`
	DOB               string    `db:"dob"`
	WhatsappNumber    string    `db:"whatsapp_number"`
	Status            string    `db:"status"`
	SchoolOrCompany   string    `db:"school_or_company"`
	TenthMarks        string    `db:"tenth_marks"`
	TenthSchool       string    `db:"tenth_school"`
	TwelfthMarks      string    `db:"twelfth_marks"`
	TwelfthSchool     string    `db:"twelfth_school"`
	ApplicationDate   time.Time `db:"application_date"`
	ApplicationStatus string    `db:"application_status"`
}

func newApplicationRow(app application.Application) applicationRow {
	return applicationRow{
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

func (r applicationRow) application() application.Application {
	return application.Application{
		ID: r.ID,
		Applicant: application.Applicant{
			Name:            r.Name,
			FirstName:       r.FirstName,
			LastName:        r.LastName,
			DOB:             r.DOB,
			WhatsappNumber:  r.WhatsappNumber,
			Status:          profile.Status(r.Status),
			SchoolOrCompany: r.SchoolOrCompany,
			TenthMarks:      r.TenthMarks,
			TenthSchool:     r.TenthSchool,
			TwelfthMarks:    r.TwelfthMarks,
			TwelfthSchool:   r.TwelfthSchool,
		},
		CourseID:          r.CourseID,
		CourseTitle:       r.CourseTitle,
		Email:             r.Email,
		ApplicationDate:   r.ApplicationDate.UTC(),
		ApplicationStatus: r.ApplicationStatus,
	}
}

type contactRow struct {
	ID        string      `db:"id"`
	OrgName   string      `db:"org_name"`
	Contact   string      `db:"contact"`
	UserEmail null.String `db:"user_email"`
	CreatedAt time.Time   `db:"created_at"`
}

func newContactRow(sub contact.Submission) contactRow {
	return contactRow{
		ID:        sub.ID,
		OrgName:   sub.OrgName,
		Contact:   sub.Contact,
		UserEmail: sub.UserEmail,
		CreatedAt: sub.CreatedAt.UTC(),
	}
}

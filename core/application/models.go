package application

import (
	"time"

	"github.com/stratosedge/portal/core/profile"
)

const StatusSubmitted = "Submitted"

// Applicant is the profile snapshot stored with each application.
type Applicant struct {
	Name            string         `json:"name"`
	FirstName       string         `json:"firstName"`
	LastName        string         `json:"lastName"`
	DOB             string         `json:"dob"`
	WhatsappNumber  string         `json:"whatsappNumber"`
	Status          profile.Status `json:"status"`
	SchoolOrCompany string         `json:"schoolOrCompany"`
	TenthMarks      string         `json:"tenthMarks"`
	TenthSchool     string         `json:"tenthSchool"`
	TwelfthMarks    string         `json:"twelfthMarks"`
	TwelfthSchool   string         `json:"twelfthSchool"`
}

func ApplicantFrom(p profile.Profile) Applicant {
	return Applicant{
		Name:            p.Name,
		FirstName:       p.FirstName,
		LastName:        p.LastName,
		DOB:             p.DOB,
		WhatsappNumber:  p.WhatsappNumber,
		Status:          p.Status,
		SchoolOrCompany: p.SchoolOrCompany,
		TenthMarks:      p.TenthMarks,
		TenthSchool:     p.TenthSchool,
		TwelfthMarks:    p.TwelfthMarks,
		TwelfthSchool:   p.TwelfthSchool,
	}
}

// Application is an append-only record in the "applications" collection.
type Application struct {
	ID string `json:"id"`
	Applicant
	CourseID          int       `json:"courseId"`
	CourseTitle       string    `json:"courseTitle"`
	Email             string    `json:"email"`
	ApplicationDate   time.Time `json:"applicationDate"` // UTC, set by the store
	ApplicationStatus string    `json:"applicationStatus"`
}

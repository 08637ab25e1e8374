package profile

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/stratosedge/portal/core"
)

// Status is the applicant's current occupation.
type Status string

const (
	StatusNotSpecified  Status = "Not Specified"
	StatusUndergraduate Status = "Undergraduate Student"
	StatusGraduate      Status = "Graduate (Job Seeking)"
	StatusProfessional  Status = "Working Professional"
)

var Statuses = []Status{StatusNotSpecified, StatusUndergraduate, StatusGraduate, StatusProfessional}

func (s Status) Valid() bool {
	for _, st := range Statuses {
		if s == st {
			return true
		}
	}
	return false
}

// Profile is the applicant's record in the "users" collection, keyed by the account ID.
type Profile struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	DOB             string `json:"dob"` // YYYY-MM-DD
	WhatsappNumber  string `json:"whatsappNumber"`
	Status          Status `json:"status"`
	SchoolOrCompany string `json:"schoolOrCompany"`
	TenthMarks      string `json:"tenthMarks"`
	TenthSchool     string `json:"tenthSchool"`
	TwelfthMarks    string `json:"twelfthMarks"`
	TwelfthSchool   string `json:"twelfthSchool"`

	// AppliedCourses is an ordered set of course IDs.
	// A nil slice means "absent": saving it leaves the stored value untouched.
	AppliedCourses []int `json:"appliedCourses"`
}

// IsComplete reports whether the profile holds everything needed to apply to a course.
func IsComplete(p *Profile) bool {
	if p == nil {
		return false
	}
	required := []string{
		p.FirstName,
		p.LastName,
		p.DOB,
		p.WhatsappNumber,
		p.SchoolOrCompany,
		p.TenthMarks,
		p.TenthSchool,
		p.TwelfthMarks,
		p.TwelfthSchool,
	}
	for _, v := range required {
		if v == "" {
			return false
		}
	}
	return p.Status != StatusNotSpecified && p.Status != ""
}

// Seed builds the profile of a first sign-in.
// The name falls back to the local part of the email, then to "User".
func Seed(displayName, email string, applied []int) Profile {
	name := core.CleanString(displayName)
	if name == "" {
		if i := strings.Index(email, "@"); i > 0 {
			name = email[:i]
		} else if email != "" && i < 0 {
			name = email
		}
	}
	if name == "" {
		name = "User"
	}
	if applied == nil {
		applied = []int{}
	}
	return Profile{
		Name:           name,
		Email:          email,
		Status:         StatusNotSpecified,
		AppliedCourses: applied,
	}
}

// HasApplied reports whether courseID is in the applied set.
func (p *Profile) HasApplied(courseID int) bool {
	for _, id := range p.AppliedCourses {
		if id == courseID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the profile.
func (p Profile) Clone() Profile {
	if p.AppliedCourses != nil {
		applied := make([]int, len(p.AppliedCourses))
		copy(applied, p.AppliedCourses)
		p.AppliedCourses = applied
	}
	return p
}

// Update is the profile form.
type Update struct {
	FirstName       string `json:"firstName" validate:"required,max=150"`
	LastName        string `json:"lastName" validate:"required,max=150"`
	DOB             string `json:"dob" validate:"required,datetime=2006-01-02"`
	WhatsappNumber  string `json:"whatsappNumber" validate:"required,whatsapp"`
	Status          Status `json:"status" validate:"required,profilestatus"`
	SchoolOrCompany string `json:"schoolOrCompany" validate:"required,max=250"`
	TenthMarks      string `json:"tenthMarks" validate:"required,max=6,marks"`
	TenthSchool     string `json:"tenthSchool" validate:"required,max=250"`
	TwelfthMarks    string `json:"twelfthMarks" validate:"required,max=6,marks"`
	TwelfthSchool   string `json:"twelfthSchool" validate:"required,max=250"`
}

func (u *Update) Validate(validate *validator.Validate) error {
	u.FirstName = core.CleanString(u.FirstName)
	u.LastName = core.CleanString(u.LastName)
	u.DOB = core.CleanString(u.DOB)
	u.WhatsappNumber = core.CleanString(u.WhatsappNumber)
	u.Status = Status(core.CleanString(string(u.Status)))
	u.SchoolOrCompany = core.CleanString(u.SchoolOrCompany)
	u.TenthMarks = core.CleanString(u.TenthMarks)
	u.TenthSchool = core.CleanString(u.TenthSchool)
	u.TwelfthMarks = core.CleanString(u.TwelfthMarks)
	u.TwelfthSchool = core.CleanString(u.TwelfthSchool)
	return validate.Struct(u)
}

// ApplyTo overlays the form onto p.
func (u Update) ApplyTo(p *Profile) {
	p.FirstName = u.FirstName
	p.LastName = u.LastName
	p.DOB = u.DOB
	p.WhatsappNumber = u.WhatsappNumber
	p.Status = u.Status
	p.SchoolOrCompany = u.SchoolOrCompany
	p.TenthMarks = u.TenthMarks
	p.TenthSchool = u.TenthSchool
	p.TwelfthMarks = u.TwelfthMarks
	p.TwelfthSchool = u.TwelfthSchool
}

package profile

import (
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/stratosedge/portal/core"
)

func completeProfile() Profile {
	return Profile{
		Name:            "Asha",
		Email:           "asha@test.in",
		FirstName:       "Asha",
		LastName:        "Rao",
		DOB:             "2001-04-12",
		WhatsappNumber:  "9876543210",
		Status:          StatusUndergraduate,
		SchoolOrCompany: "IIT Madras",
		TenthMarks:      "92",
		TenthSchool:     "DAV Public School",
		TwelfthMarks:    "88.5",
		TwelfthSchool:   "DAV Public School",
		AppliedCourses:  []int{},
	}
}

func TestIsComplete(t *testing.T) {
	tests := []struct {
		name   string
		modify func(p *Profile)
		want   bool
	}{
		{name: "complete", modify: func(p *Profile) {}, want: true},
		{name: "status not specified", modify: func(p *Profile) { p.Status = StatusNotSpecified }},
		{name: "status empty", modify: func(p *Profile) { p.Status = "" }},
		{name: "no first name", modify: func(p *Profile) { p.FirstName = "" }},
		{name: "no last name", modify: func(p *Profile) { p.LastName = "" }},
		{name: "no dob", modify: func(p *Profile) { p.DOB = "" }},
		{name: "no whatsapp", modify: func(p *Profile) { p.WhatsappNumber = "" }},
		{name: "no school or company", modify: func(p *Profile) { p.SchoolOrCompany = "" }},
		{name: "no tenth marks", modify: func(p *Profile) { p.TenthMarks = "" }},
		{name: "no tenth school", modify: func(p *Profile) { p.TenthSchool = "" }},
		{name: "no twelfth marks", modify: func(p *Profile) { p.TwelfthMarks = "" }},
		{name: "no twelfth school", modify: func(p *Profile) { p.TwelfthSchool = "" }},
		{name: "name is not required", modify: func(p *Profile) { p.Name = "" }, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := completeProfile()
			tt.modify(&p)
			assert.Equal(t, tt.want, IsComplete(&p))
		})
	}

	t.Run("nil profile", func(t *testing.T) {
		assert.False(t, IsComplete(nil))
	})
}

func TestSeed(t *testing.T) {
	tests := []struct {
		name        string
		displayName string
		email       string
		wantName    string
	}{
		{name: "display name", displayName: "Asha Rao", email: "asha@test.in", wantName: "Asha Rao"},
		{name: "email local part", email: "asha.rao@test.in", wantName: "asha.rao"},
		{name: "blank display name", displayName: "  ", email: "asha@test.in", wantName: "asha"},
		{name: "fallback", wantName: "User"},
		{name: "empty local part", email: "@test.in", wantName: "User"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Seed(tt.displayName, tt.email, nil)
			assert.Equal(t, tt.wantName, p.Name)
			assert.Equal(t, tt.email, p.Email)
			assert.Equal(t, StatusNotSpecified, p.Status)
			assert.Equal(t, []int{}, p.AppliedCourses)
			assert.Empty(t, p.FirstName)
			assert.False(t, IsComplete(&p))
		})
	}

	t.Run("keeps fetched applied set", func(t *testing.T) {
		p := Seed("", "asha@test.in", []int{3, 1})
		assert.Equal(t, []int{3, 1}, p.AppliedCourses)
	})
}

func TestProfile_Clone(t *testing.T) {
	p := completeProfile()
	p.AppliedCourses = []int{1, 2}

	c := p.Clone()
	c.AppliedCourses[0] = 9
	assert.Equal(t, []int{1, 2}, p.AppliedCourses)
	assert.True(t, c.HasApplied(9))
	assert.False(t, p.HasApplied(9))

	var absent Profile
	assert.Nil(t, absent.Clone().AppliedCourses)
}

func TestUpdate_Validate(t *testing.T) {
	validate := validator.New()
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)

	valid := func() Update {
		p := completeProfile()
		return Update{
			FirstName:       "  " + p.FirstName,
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

	tests := []struct {
		name      string
		modify    func(u *Update)
		wantField string
		wantMsg   string
	}{
		{name: "valid", modify: func(u *Update) {}},
		{name: "decimal marks", modify: func(u *Update) { u.TenthMarks = "99.875" }},
		{name: "missing first name", modify: func(u *Update) { u.FirstName = " " }, wantField: "firstName", wantMsg: "this field is required"},
		{name: "short whatsapp", modify: func(u *Update) { u.WhatsappNumber = "98765" }, wantField: "whatsappNumber", wantMsg: "please enter a 10-digit phone number"},
		{name: "non numeric whatsapp", modify: func(u *Update) { u.WhatsappNumber = "98765abcde" }, wantField: "whatsappNumber", wantMsg: "please enter a 10-digit phone number"},
		{name: "marks above 100", modify: func(u *Update) { u.TenthMarks = "101" }, wantField: "tenthMarks", wantMsg: "marks must be a number between 0 and 100"},
		{name: "marks too precise", modify: func(u *Update) { u.TenthMarks = "99.9999" }, wantField: "tenthMarks", wantMsg: "tenthMarks must be a maximum of 6 characters in length"},
		{name: "negative marks", modify: func(u *Update) { u.TwelfthMarks = "-1" }, wantField: "twelfthMarks", wantMsg: "marks must be a number between 0 and 100"},
		{name: "unknown status", modify: func(u *Update) { u.Status = "Astronaut" }, wantField: "status", wantMsg: "invalid status"},
		{name: "bad dob", modify: func(u *Update) { u.DOB = "12/04/2001" }, wantField: "dob", wantMsg: "date must be formatted as YYYY-MM-DD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := valid()
			tt.modify(&u)
			err := u.Validate(validate)
			if tt.wantField == "" {
				assert.NoError(t, err)
				assert.Equal(t, "Asha", u.FirstName)
				return
			}
			vErrs, ok := err.(validator.ValidationErrors)
			if assert.True(t, ok, "want validator.ValidationErrors, got %v", err) {
				assert.Len(t, vErrs, 1)
				assert.Equal(t, tt.wantField, vErrs[0].Field())
				assert.Equal(t, tt.wantMsg, vErrs[0].Translate(translator))
			}
		})
	}
}

func TestUpdate_ApplyTo(t *testing.T) {
	p := Seed("Asha", "asha@test.in", []int{4})
	u := Update{FirstName: "Asha", Status: StatusProfessional, SchoolOrCompany: "Infosys"}
	u.ApplyTo(&p)

	assert.Equal(t, "Asha", p.Name)
	assert.Equal(t, "asha@test.in", p.Email)
	assert.Equal(t, StatusProfessional, p.Status)
	assert.Equal(t, "Infosys", p.SchoolOrCompany)
	assert.Equal(t, []int{4}, p.AppliedCourses)
}

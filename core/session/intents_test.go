package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stratosedge/portal/core/profile"
)

func intPtr(i int) *int { return &i }

func userWith(applied []int) *profile.Profile {
	p := profile.Seed("Asha", "asha@example.com", nil)
	p.AppliedCourses = applied
	return &p
}

func TestIntents_view(t *testing.T) {
	tests := []struct {
		name    string
		initial State
		intents []Intent
		want    View
	}{
		{
			name:    "navigate drops the selection",
			initial: State{View: View{Page: PageHome, SelectedCourse: intPtr(2)}},
			intents: []Intent{Navigate{Page: PagePrograms}},
			want:    View{Page: PagePrograms},
		},
		{
			name:    "select course keeps the page",
			initial: State{View: View{Page: PagePrograms}},
			intents: []Intent{SelectCourse{CourseID: 4}},
			want:    View{Page: PagePrograms, SelectedCourse: intPtr(4)},
		},
		{
			name:    "login succeeded",
			initial: State{View: View{Page: PageHome, Modal: ModalLogin}},
			intents: []Intent{LoginSucceeded{}},
			want:    View{Page: PageProfile},
		},
		{
			name:    "go to profile",
			initial: State{View: View{Page: PagePrograms, SelectedCourse: intPtr(1), Modal: ModalProfileCompletion}},
			intents: []Intent{GoToProfile{}},
			want:    View{Page: PageProfile},
		},
		{
			name:    "open then close modal",
			initial: State{View: View{Page: PageHome}},
			intents: []Intent{OpenModal{Modal: ModalLogin}, CloseModal{}},
			want:    View{Page: PageHome},
		},
		{
			name:    "closing the application leaves other modals",
			initial: State{View: View{Page: PageHome, Modal: ModalLogin}},
			intents: []Intent{closeApplication{}},
			want:    View{Page: PageHome, Modal: ModalLogin},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := tt.initial
			for _, i := range tt.intents {
				st = i.apply(st)
			}
			assert.Equal(t, tt.want, st.View)
		})
	}
}

func TestIntents_loggedOut(t *testing.T) {
	st := State{
		User:           userWith([]int{1}),
		View:           View{Page: PageProfile, SelectedCourse: intPtr(1), Modal: ModalApplication},
		PendingApplied: []int{1},
	}
	assert.Equal(t, Initial(), LoggedOut{}.apply(st))
}

func TestIntents_userLoaded(t *testing.T) {
	fetched := profile.Seed("Asha", "asha@example.com", []int{3})

	st := UserLoaded{Profile: fetched}.apply(Initial())
	assert.Equal(t, []int{3}, st.User.AppliedCourses)
	assert.Empty(t, st.PendingApplied)

	// reconciliation: confirmed pending IDs are cleared, unconfirmed ones kept
	st.User.AppliedCourses = []int{3, 5, 7}
	st.PendingApplied = []int{5, 7}
	fetched.AppliedCourses = []int{3, 5}
	st = UserLoaded{Profile: fetched}.apply(st)
	assert.Equal(t, []int{3, 5, 7}, st.User.AppliedCourses)
	assert.Equal(t, []int{7}, st.PendingApplied)

	fetched.AppliedCourses = nil
	st = UserLoaded{Profile: fetched}.apply(Initial())
	assert.Equal(t, []int{}, st.User.AppliedCourses)
}

func TestIntents_userRefreshed(t *testing.T) {
	stored := profile.Seed("Asha", "stored@example.com", nil)
	stored.FirstName = "Asha"

	tests := []struct {
		name        string
		prev        *profile.Profile
		fetched     []int
		sessEmail   string
		wantApplied []int
		wantEmail   string
	}{
		{"previous set wins", userWith([]int{1, 2}), []int{9}, "asha@example.com", []int{1, 2}, "asha@example.com"},
		{"previous empty set wins", userWith([]int{}), []int{9}, "asha@example.com", []int{}, "asha@example.com"},
		{"fetched set without previous user", nil, []int{9}, "asha@example.com", []int{9}, "asha@example.com"},
		{"fetched set when previous is absent", userWith(nil), []int{9}, "", []int{9}, "stored@example.com"},
		{"empty when both absent", nil, nil, "", []int{}, "stored@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := stored.Clone()
			p.AppliedCourses = tt.fetched
			st := UserRefreshed{Profile: p, SessionEmail: tt.sessEmail}.apply(State{User: tt.prev})
			assert.Equal(t, tt.wantApplied, st.User.AppliedCourses)
			assert.Equal(t, tt.wantEmail, st.User.Email)
			assert.Equal(t, "Asha", st.User.FirstName)
		})
	}
}

func TestIntents_profileEdited(t *testing.T) {
	upd := profile.Update{FirstName: "Asha", LastName: "Rao", Status: profile.StatusProfessional}

	st := ProfileEdited{Update: upd, SessionEmail: "asha@example.com"}.apply(Initial())
	assert.Nil(t, st.User)

	st = ProfileEdited{Update: upd, SessionEmail: "live@example.com"}.apply(State{User: userWith([]int{2})})
	assert.Equal(t, "Rao", st.User.LastName)
	assert.Equal(t, profile.StatusProfessional, st.User.Status)
	assert.Equal(t, "live@example.com", st.User.Email)
	assert.Equal(t, []int{2}, st.User.AppliedCourses)
}

func TestIntents_applicationRecorded(t *testing.T) {
	st := ApplicationRecorded{CourseID: 2}.apply(Initial())
	assert.Nil(t, st.User)

	st = State{User: userWith([]int{1}), PendingApplied: []int{}}
	st = ApplicationRecorded{CourseID: 2}.apply(st)
	st = ApplicationRecorded{CourseID: 2}.apply(st)
	assert.Equal(t, []int{1, 2}, st.User.AppliedCourses)
	assert.Equal(t, []int{2}, st.PendingApplied)
}

func TestStore_isolation(t *testing.T) {
	s := NewStore(0)
	s.Dispatch("s1", UserLoaded{Profile: *userWith([]int{1})})

	st, ok := s.Get("s1")
	assert.True(t, ok)
	st.User.AppliedCourses[0] = 99
	st.User.Name = "changed"

	st, _ = s.Get("s1")
	assert.Equal(t, []int{1}, st.User.AppliedCourses)
	assert.Equal(t, "Asha", st.User.Name)

	_, ok = s.Apply("s2", CloseModal{})
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())

	s.Clear("s1")
	_, ok = s.Get("s1")
	assert.False(t, ok)
}

func TestNextApplyStep(t *testing.T) {
	incomplete := userWith([]int{1})
	complete := userWith([]int{1})
	profile.Update{
		FirstName: "Asha", LastName: "Rao", DOB: "2001-04-12", WhatsappNumber: "9876543210",
		Status: profile.StatusGraduate, SchoolOrCompany: "IITM", TenthMarks: "90", TenthSchool: "DPS",
		TwelfthMarks: "88", TwelfthSchool: "DPS",
	}.ApplyTo(complete)

	tests := []struct {
		name     string
		user     *profile.Profile
		courseID int
		want     ApplyStep
	}{
		{"anonymous", nil, 2, StepLogin},
		{"incomplete profile", incomplete, 2, StepCompleteProfile},
		{"already applied", complete, 1, StepAlreadyApplied},
		{"already applied with incomplete profile", incomplete, 1, StepAlreadyApplied},
		{"apply", complete, 2, StepApply},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextApplyStep(State{User: tt.user}, tt.courseID))
		})
	}
}

package session

import (
	"github.com/stratosedge/portal/core/profile"
)

// Intent is a named state transition. State is only ever changed through intents.
type Intent interface {
	apply(s State) State
}

// Navigate shows page and drops the course selection.
type Navigate struct{ Page Page }

func (i Navigate) apply(s State) State {
	s.View.Page = i.Page
	s.View.SelectedCourse = nil
	return s
}

// SelectCourse shows the detail of a course on top of the current page.
type SelectCourse struct{ CourseID int }

func (i SelectCourse) apply(s State) State {
	id := i.CourseID
	s.View.SelectedCourse = &id
	return s
}

type OpenModal struct{ Modal Modal }

func (i OpenModal) apply(s State) State {
	s.View.Modal = i.Modal
	return s
}

type CloseModal struct{}

func (CloseModal) apply(s State) State {
	s.View.Modal = ModalNone
	return s
}

// closeApplication closes the application modal once its flow is dismissed.
type closeApplication struct{}

func (closeApplication) apply(s State) State {
	if s.View.Modal == ModalApplication {
		s.View.Modal = ModalNone
	}
	return s
}

// GoToProfile leaves the profile completion prompt for the profile page.
type GoToProfile struct{}

func (GoToProfile) apply(s State) State {
	s.View.Modal = ModalNone
	s.View.SelectedCourse = nil
	s.View.Page = PageProfile
	return s
}

// LoginSucceeded closes the login modal and shows the profile page.
// The profile itself arrives later through the bridge.
type LoginSucceeded struct{}

func (LoginSucceeded) apply(s State) State {
	s.View.Modal = ModalNone
	s.View.Page = PageProfile
	return s
}

// LoggedOut drops the user and every view selection.
type LoggedOut struct{}

func (LoggedOut) apply(State) State {
	return Initial()
}

// UserLoaded replaces the user with a freshly fetched or seeded profile.
// Pending applications the fetch confirms are cleared; the others are kept.
type UserLoaded struct{ Profile profile.Profile }

func (i UserLoaded) apply(s State) State {
	u := i.Profile.Clone()
	if u.AppliedCourses == nil {
		u.AppliedCourses = []int{}
	}
	pending := make([]int, 0, len(s.PendingApplied))
	for _, id := range s.PendingApplied {
		if !u.HasApplied(id) {
			u.AppliedCourses = append(u.AppliedCourses, id)
			pending = append(pending, id)
		}
	}
	s.User = &u
	s.PendingApplied = pending
	return s
}

// UserRefreshed overlays a re-fetched profile on the user.
// The applied set prefers what is already known locally, then the fetched value.
type UserRefreshed struct {
	Profile      profile.Profile
	SessionEmail string
}

func (i UserRefreshed) apply(s State) State {
	u := i.Profile.Clone()
	if i.SessionEmail != "" {
		u.Email = i.SessionEmail
	}
	switch {
	case s.User != nil && s.User.AppliedCourses != nil:
		u.AppliedCourses = append([]int{}, s.User.AppliedCourses...)
	case u.AppliedCourses == nil:
		u.AppliedCourses = []int{}
	}
	s.User = &u
	return s
}

// ProfileEdited applies the profile form to the user. No-op until the user is loaded.
type ProfileEdited struct {
	Update       profile.Update
	SessionEmail string
}

func (i ProfileEdited) apply(s State) State {
	if s.User == nil {
		return s
	}
	i.Update.ApplyTo(s.User)
	if i.SessionEmail != "" {
		s.User.Email = i.SessionEmail
	}
	return s
}

// ApplicationRecorded adds a submitted course to the applied set, optimistically.
type ApplicationRecorded struct{ CourseID int }

func (i ApplicationRecorded) apply(s State) State {
	if s.User == nil || s.User.HasApplied(i.CourseID) {
		return s
	}
	s.User.AppliedCourses = append(s.User.AppliedCourses, i.CourseID)
	s.PendingApplied = append(s.PendingApplied, i.CourseID)
	return s
}

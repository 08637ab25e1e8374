// Package session keeps the per-session application state of signed-in applicants
// and synchronises it with the remote stores.
package session

import (
	"github.com/stratosedge/portal/core/profile"
)

// Page is a top-level view of the site.
type Page string

const (
	PageHome        Page = "Home"
	PagePrograms    Page = "Programs"
	PageInternships Page = "Internships"
	PageCollaborate Page = "Collaborate"
	PageAboutUs     Page = "About Us"
	PageProfile     Page = "Profile"
)

var Pages = []Page{PageHome, PagePrograms, PageInternships, PageCollaborate, PageAboutUs, PageProfile}

func (p Page) Valid() bool {
	for _, pg := range Pages {
		if p == pg {
			return true
		}
	}
	return false
}

// Modal is the dialog shown on top of the page. At most one is open.
type Modal string

const (
	ModalNone              Modal = ""
	ModalLogin             Modal = "login"
	ModalProfileCompletion Modal = "profile_completion"
	ModalApplication       Modal = "application"
)

type View struct {
	Page           Page  `json:"page"`
	SelectedCourse *int  `json:"selectedCourse"`
	Modal          Modal `json:"modal"`
}

// State is what the client renders. User is nil until the profile is loaded.
type State struct {
	User *profile.Profile `json:"user"`
	View View             `json:"view"`

	// PendingApplied holds course IDs recorded locally since the last full profile fetch.
	PendingApplied []int `json:"pendingApplied"`
}

func Initial() State {
	return State{View: View{Page: PageHome}, PendingApplied: []int{}}
}

func (s State) Clone() State {
	if s.User != nil {
		u := s.User.Clone()
		s.User = &u
	}
	if s.View.SelectedCourse != nil {
		id := *s.View.SelectedCourse
		s.View.SelectedCourse = &id
	}
	s.PendingApplied = append([]int{}, s.PendingApplied...)
	return s
}

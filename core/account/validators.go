package account

import (
	"net/mail"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// validEmail accepts bare addresses only: "a@b.c", not "A <a@b.c>".
const maxEmailLen = 254

func validEmail(email string) bool {
	if email == "" || len(email) > maxEmailLen || strings.ContainsAny(email, " <>") {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	return at > 0 && strings.Contains(email[at+1:], ".")
}

// passwordPolicy rejects short passwords and those too similar to the account's attributes.
type passwordPolicy struct {
	minLen int
	maxSim float64
}

func (p passwordPolicy) weak(pwd string, attrs ...string) bool {
	if len([]rune(pwd)) < p.minLen {
		return true
	}
	if p.maxSim <= 0 {
		return false
	}

	getRatio := func(pass, attr string) float64 {
		if attr == "" {
			return 0
		}
		return difflib.NewMatcher(strings.Split(pass, ""), strings.Split(attr, "")).QuickRatio()
	}
	lpwd := strings.ToLower(pwd)
	for _, attr := range attrs {
		attr = strings.ToLower(attr)
		if at := strings.Index(attr, "@"); at > 0 {
			attr = attr[:at] // compare with the local part of emails
		}
		if getRatio(lpwd, attr) >= p.maxSim {
			return true
		}
	}
	return false
}

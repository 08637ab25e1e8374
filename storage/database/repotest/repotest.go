// Package repotest holds the behaviour every repository backend must share.
package repotest

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/stratosedge/portal/core/account"
	"github.com/stratosedge/portal/core/application"
	"github.com/stratosedge/portal/core/contact"
	"github.com/stratosedge/portal/core/profile"
)

var baseTime = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func Accounts(t *testing.T, repo account.Repository) {
	ctx := context.Background()
	acc := account.Account{
		ID:          "a1",
		Email:       "asha@example.com",
		DisplayName: "Asha",
		CreatedAt:   baseTime,
	}
	require.NoError(t, acc.SetPassword("Tr0ub4dor&3"))

	_, err := repo.CreateAccount(ctx, acc)
	require.NoError(t, err)

	dup := acc
	dup.ID = "a2"
	_, err = repo.CreateAccount(ctx, dup)
	assert.Equal(t, account.ErrEmailExists, errors.Cause(err))

	got, err := repo.GetAccountByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, "a1", got.ID)
	assert.True(t, got.CreatedAt.Equal(baseTime))
	assert.False(t, got.LastLogin.Valid)
	assert.NoError(t, got.CheckPassword("Tr0ub4dor&3"))

	_, err = repo.GetAccountByID(ctx, "nope")
	assert.Equal(t, account.ErrNotFound, errors.Cause(err))
	_, err = repo.GetAccountByEmail(ctx, "nobody@example.com")
	assert.Equal(t, account.ErrNotFound, errors.Cause(err))

	// only updatable fields are saved; a nil hash keeps the stored one
	upd := account.Account{
		ID:          "a1",
		Email:       "asha@example.com",
		DisplayName: "Asha Rao",
		LastLogin:   null.TimeFrom(baseTime.Add(time.Hour)),
	}
	_, err = repo.UpdateAccount(ctx, upd)
	require.NoError(t, err)

	got, err = repo.GetAccountByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", got.Email)
	assert.Equal(t, "Asha Rao", got.DisplayName)
	assert.True(t, got.LastLogin.Valid)
	assert.True(t, got.LastLogin.Time.Equal(baseTime.Add(time.Hour)))
	assert.NoError(t, got.CheckPassword("Tr0ub4dor&3"))

	updated, err := repo.UpdateAccount(ctx, upd)
	require.NoError(t, err)
	assert.Equal(t, "a1", updated.ID)
	assert.True(t, updated.CreatedAt.Equal(baseTime))
	assert.NoError(t, updated.CheckPassword("Tr0ub4dor&3"))

	_, err = repo.UpdateAccount(ctx, account.Account{ID: "nope", Email: "asha@example.com"})
	assert.Equal(t, account.ErrNotFound, errors.Cause(err))
	_, err = repo.UpdateAccount(ctx, account.Account{ID: "nope", Email: "nobody@example.com"})
	assert.Equal(t, account.ErrNotFound, errors.Cause(err))
}

func Profiles(t *testing.T, repo profile.Repository) {
	ctx := context.Background()

	_, err := repo.GetProfile(ctx, "u1")
	assert.Equal(t, profile.ErrNotFound, errors.Cause(err))

	p := profile.Seed("Asha", "asha@example.com", []int{2, 5})
	require.NoError(t, repo.SaveProfile(ctx, "u1", p))
	got, err := repo.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, p, got)

	// merge: an absent applied set keeps the stored one
	p.FirstName = "Asha"
	p.Status = profile.StatusProfessional
	p.AppliedCourses = nil
	require.NoError(t, repo.SaveProfile(ctx, "u1", p))
	got, err = repo.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Asha", got.FirstName)
	assert.Equal(t, profile.StatusProfessional, got.Status)
	assert.Equal(t, []int{2, 5}, got.AppliedCourses)

	p.AppliedCourses = []int{}
	require.NoError(t, repo.SaveProfile(ctx, "u1", p))
	got, err = repo.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []int{}, got.AppliedCourses)

	// never-set applied set reads back absent
	require.NoError(t, repo.SaveProfile(ctx, "u2", profile.Profile{Name: "Ravi", Status: profile.StatusNotSpecified}))
	got, err = repo.GetProfile(ctx, "u2")
	require.NoError(t, err)
	assert.Nil(t, got.AppliedCourses)
}

func Applications(t *testing.T, repo application.Repository) {
	ctx := context.Background()
	p := profile.Seed("Asha", "asha@example.com", nil)
	p.FirstName = "Asha"

	for i, c := range []struct {
		id    int
		email string
	}{{3, "asha@example.com"}, {1, "asha@example.com"}, {5, "ravi@example.com"}, {3, "asha@example.com"}} {
		_, err := repo.CreateApplication(ctx, application.Application{
			ID:                string(rune('a' + i)),
			Applicant:         application.ApplicantFrom(p),
			CourseID:          c.id,
			CourseTitle:       "course",
			Email:             c.email,
			ApplicationDate:   baseTime.Add(time.Duration(i) * time.Minute),
			ApplicationStatus: application.StatusSubmitted,
		})
		require.NoError(t, err)
	}

	ids, err := repo.QueryCourseIDsByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 3}, ids)

	ids, err = repo.QueryCourseIDsByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, ids)

	apps, err := repo.QueryAllApplications(ctx)
	require.NoError(t, err)
	require.Len(t, apps, 4)
	assert.Equal(t, "a", apps[0].ID)
	assert.Equal(t, "Asha", apps[0].FirstName)
	assert.Equal(t, application.StatusSubmitted, apps[0].ApplicationStatus)
	assert.True(t, apps[0].ApplicationDate.Equal(baseTime))
}

func Contacts(t *testing.T, repo contact.Repository) {
	ctx := context.Background()
	for _, sub := range []contact.Submission{
		{ID: "c1", OrgName: "Acme", Contact: "hr@acme.io", CreatedAt: baseTime},
		{ID: "c2", OrgName: "Globex", Contact: "+91 98765 43210", UserEmail: null.StringFrom("asha@example.com"), CreatedAt: baseTime},
	} {
		got, err := repo.CreateContactSubmission(ctx, sub)
		require.NoError(t, err)
		assert.Equal(t, sub, got)
	}
}

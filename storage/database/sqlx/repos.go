// Package sqlxrepos implements the repositories on postgres or sqlite through sqlx.
// Queries are written with "?" placeholders and rebound for the driver.
package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/stratosedge/portal/core/account"
	"github.com/stratosedge/portal/core/application"
	"github.com/stratosedge/portal/core/contact"
	"github.com/stratosedge/portal/core/profile"
)

var nowFunc = time.Now // mockable

// isUniqueViolation reports whether err is a unique constraint failure on postgres or sqlite.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed")
}

// Accounts

const accountColumns = "id, email, display_name, password_hash, created_at, last_login"

type accountRepository struct {
	db *sqlx.DB
}

var _ account.Repository = (*accountRepository)(nil)

func NewAccountRepository(db *sqlx.DB) account.Repository {
	return &accountRepository{db: db}
}

func (repo *accountRepository) CreateAccount(ctx context.Context, acc account.Account) (account.Account, error) {
	q := `INSERT INTO accounts (` + accountColumns + `)
		VALUES (:id, :email, :display_name, :password_hash, :created_at, :last_login)`
	if _, err := repo.db.NamedExecContext(ctx, q, newAccountRow(acc)); err != nil {
		if isUniqueViolation(err) {
			return account.Account{}, account.ErrEmailExists
		}
		return account.Account{}, errors.Wrap(err, "inserting account")
	}
	return acc, nil
}

func (repo *accountRepository) getAccount(ctx context.Context, where string, arg interface{}) (account.Account, error) {
	var row accountRow
	q := repo.db.Rebind("SELECT " + accountColumns + " FROM accounts WHERE " + where + " = ?")
	if err := repo.db.GetContext(ctx, &row, q, arg); err != nil {
		if err == sql.ErrNoRows {
			return account.Account{}, account.ErrNotFound
		}
		return account.Account{}, errors.Wrap(err, "selecting account")
	}
	return row.account(), nil
}

func (repo *accountRepository) GetAccountByID(ctx context.Context, id string) (account.Account, error) {
	return repo.getAccount(ctx, "id", id)
}

func (repo *accountRepository) GetAccountByEmail(ctx context.Context, email string) (account.Account, error) {
	return repo.getAccount(ctx, "email", email)
}

func (repo *accountRepository) UpdateAccount(ctx context.Context, acc account.Account) (account.Account, error) {
	orig, err := repo.GetAccountByID(ctx, acc.ID)
	if err != nil {
		return account.Account{}, err
	}
	orig.DisplayName = acc.DisplayName
	if acc.PasswordHash != nil {
		orig.PasswordHash = acc.PasswordHash
	}
	orig.LastLogin = acc.LastLogin

	q := `UPDATE accounts
		SET display_name = :display_name, password_hash = :password_hash, last_login = :last_login
		WHERE id = :id`
	if _, err = repo.db.NamedExecContext(ctx, q, newAccountRow(orig)); err != nil {
		return account.Account{}, errors.Wrap(err, "updating account")
	}
	return orig, nil
}

// Profiles

const userColumns = `uid, name, email, first_name, last_name, dob, whatsapp_number, status,
	school_or_company, tenth_marks, tenth_school, twelfth_marks, twelfth_school,
	applied_courses, created_at, updated_at`

type profileRepository struct {
	db *sqlx.DB
}

var _ profile.Repository = (*profileRepository)(nil)

func NewProfileRepository(db *sqlx.DB) profile.Repository {
	return &profileRepository{db: db}
}

func (repo *profileRepository) GetProfile(ctx context.Context, uid string) (profile.Profile, error) {
	var row userRow
	q := repo.db.Rebind("SELECT " + userColumns + " FROM users WHERE uid = ?")
	if err := repo.db.GetContext(ctx, &row, q, uid); err != nil {
		if err == sql.ErrNoRows {
			return profile.Profile{}, profile.ErrNotFound
		}
		return profile.Profile{}, errors.Wrap(err, "selecting profile")
	}
	return row.profile()
}

func (repo *profileRepository) SaveProfile(ctx context.Context, uid string, p profile.Profile) error {
	row, err := newUserRow(uid, p, nowFunc().UTC())
	if err != nil {
		return err
	}
	q := `INSERT INTO users (` + userColumns + `)
		VALUES (:uid, :name, :email, :first_name, :last_name, :dob, :whatsapp_number, :status,
			:school_or_company, :tenth_marks, :tenth_school, :twelfth_marks, :twelfth_school,
			:applied_courses, :created_at, :updated_at)
		ON CONFLICT (uid) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			dob = excluded.dob,
			whatsapp_number = excluded.whatsapp_number,
			status = excluded.status,
			school_or_company = excluded.school_or_company,
			tenth_marks = excluded.tenth_marks,
			tenth_school = excluded.tenth_school,
			twelfth_marks = excluded.twelfth_marks,
			twelfth_school = excluded.twelfth_school,
			applied_courses = COALESCE(excluded.applied_courses, users.applied_courses),
			updated_at = excluded.updated_at`
	if _, err = repo.db.NamedExecContext(ctx, q, row); err != nil {
		return errors.Wrap(err, "upserting profile")
	}
	return nil
}

// Applications

const applicationColumns = `id, course_id, course_title, email, name, first_name, last_name, dob,
	whatsapp_number, status, school_or_company, tenth_marks, tenth_school, twelfth_marks,
	twelfth_school, application_date, application_status`

type applicationRepository struct {
	db *sqlx.DB
}

var _ application.Repository = (*applicationRepository)(nil)

func NewApplicationRepository(db *sqlx.DB) application.Repository {
	return &applicationRepository{db: db}
}

func (repo *applicationRepository) CreateApplication(ctx context.Context, app application.Application) (application.Application, error) {
	q := `INSERT INTO applications (` + applicationColumns + `)
		VALUES (:id, :course_id, :course_title, :email, :name, :first_name, :last_name, :dob,
			:whatsapp_number, :status, :school_or_company, :tenth_marks, :tenth_school, :twelfth_marks,
			:twelfth_school, :application_date, :application_status)`
	if _, err := repo.db.NamedExecContext(ctx, q, newApplicationRow(app)); err != nil {
		return application.Application{}, errors.Wrap(err, "inserting application")
	}
	return app, nil
}

func (repo *applicationRepository) QueryCourseIDsByEmail(ctx context.Context, email string) ([]int, error) {
	ids := make([]int, 0)
	q := repo.db.Rebind("SELECT course_id FROM applications WHERE email = ? ORDER BY application_date, id")
	if err := repo.db.SelectContext(ctx, &ids, q, email); err != nil {
		return nil, errors.Wrap(err, "selecting applied course IDs")
	}
	return ids, nil
}

func (repo *applicationRepository) QueryAllApplications(ctx context.Context) ([]application.Application, error) {
	var rows []applicationRow
	q := "SELECT " + applicationColumns + " FROM applications ORDER BY application_date, id"
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "selecting applications")
	}
	apps := make([]application.Application, 0, len(rows))
	for _, r := range rows {
		apps = append(apps, r.application())
	}
	return apps, nil
}

// Contact submissions

type contactRepository struct {
	db *sqlx.DB
}

var _ contact.Repository = (*contactRepository)(nil)

func NewContactRepository(db *sqlx.DB) contact.Repository {
	return &contactRepository{db: db}
}

func (repo *contactRepository) CreateContactSubmission(ctx context.Context, sub contact.Submission) (contact.Submission, error) {
	q := `INSERT INTO contact_submissions (id, org_name, contact, user_email, created_at)
		VALUES (:id, :org_name, :contact, :user_email, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, newContactRow(sub)); err != nil {
		return contact.Submission{}, errors.Wrap(err, "inserting contact submission")
	}
	return sub, nil
}

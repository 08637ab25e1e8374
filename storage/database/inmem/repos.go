package inmemdb

import (
	"context"

	"github.com/stratosedge/portal/core/account"
	"github.com/stratosedge/portal/core/application"
	"github.com/stratosedge/portal/core/contact"
	"github.com/stratosedge/portal/core/profile"
)

// Accounts

type accountRepository struct {
	db *DB
}

var _ account.Repository = (*accountRepository)(nil)

func NewAccountRepository(db *DB) account.Repository {
	return &accountRepository{db: db}
}

func (repo *accountRepository) CreateAccount(_ context.Context, acc account.Account) (account.Account, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if err := repo.db.fault(Accounts); err != nil {
		return account.Account{}, err
	}

	for _, a := range repo.db.accounts {
		if a.Email == acc.Email {
			return account.Account{}, account.ErrEmailExists
		}
	}
	repo.db.accounts[acc.ID] = acc
	return acc, nil
}

func (repo *accountRepository) GetAccountByID(_ context.Context, id string) (account.Account, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if err := repo.db.fault(Accounts); err != nil {
		return account.Account{}, err
	}

	if acc, ok := repo.db.accounts[id]; ok {
		return acc, nil
	}
	return account.Account{}, account.ErrNotFound
}

func (repo *accountRepository) GetAccountByEmail(_ context.Context, email string) (account.Account, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if err := repo.db.fault(Accounts); err != nil {
		return account.Account{}, err
	}

	for _, acc := range repo.db.accounts {
		if acc.Email == email {
			return acc, nil
		}
	}
	return account.Account{}, account.ErrNotFound
}

func (repo *accountRepository) UpdateAccount(_ context.Context, acc account.Account) (account.Account, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if err := repo.db.fault(Accounts); err != nil {
		return account.Account{}, err
	}

	// only save updatable fields
	orig, ok := repo.db.accounts[acc.ID]
	if !ok {
		return account.Account{}, account.ErrNotFound
	}
	orig.DisplayName = acc.DisplayName
	if acc.PasswordHash != nil {
		orig.PasswordHash = acc.PasswordHash
	}
	orig.LastLogin = acc.LastLogin
	repo.db.accounts[acc.ID] = orig
	return orig, nil
}

// Profiles

type profileRepository struct {
	db *DB
}

var _ profile.Repository = (*profileRepository)(nil)

func NewProfileRepository(db *DB) profile.Repository {
	return &profileRepository{db: db}
}

func (repo *profileRepository) GetProfile(_ context.Context, uid string) (profile.Profile, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if err := repo.db.fault(Users); err != nil {
		return profile.Profile{}, err
	}

	if p, ok := repo.db.profiles[uid]; ok {
		return p.Clone(), nil
	}
	return profile.Profile{}, profile.ErrNotFound
}

func (repo *profileRepository) SaveProfile(_ context.Context, uid string, p profile.Profile) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if err := repo.db.fault(Users); err != nil {
		return err
	}

	p = p.Clone()
	if orig, ok := repo.db.profiles[uid]; ok && p.AppliedCourses == nil {
		p.AppliedCourses = orig.AppliedCourses
	}
	repo.db.profiles[uid] = p
	return nil
}

// Applications

type applicationRepository struct {
	db *DB
}

var _ application.Repository = (*applicationRepository)(nil)

func NewApplicationRepository(db *DB) application.Repository {
	return &applicationRepository{db: db}
}

func (repo *applicationRepository) CreateApplication(_ context.Context, app application.Application) (application.Application, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if err := repo.db.fault(Applications); err != nil {
		return application.Application{}, err
	}

	repo.db.applications = append(repo.db.applications, app)
	return app, nil
}

func (repo *applicationRepository) QueryCourseIDsByEmail(_ context.Context, email string) ([]int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if err := repo.db.fault(Applications); err != nil {
		return nil, err
	}

	ids := make([]int, 0)
	for _, app := range repo.db.applications {
		if app.Email == email {
			ids = append(ids, app.CourseID)
		}
	}
	return ids, nil
}

func (repo *applicationRepository) QueryAllApplications(_ context.Context) ([]application.Application, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if err := repo.db.fault(Applications); err != nil {
		return nil, err
	}
	return append([]application.Application(nil), repo.db.applications...), nil
}

// Contact submissions

type contactRepository struct {
	db *DB
}

var _ contact.Repository = (*contactRepository)(nil)

func NewContactRepository(db *DB) contact.Repository {
	return &contactRepository{db: db}
}

func (repo *contactRepository) CreateContactSubmission(_ context.Context, sub contact.Submission) (contact.Submission, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if err := repo.db.fault(ContactSubmissions); err != nil {
		return contact.Submission{}, err
	}

	repo.db.contacts = append(repo.db.contacts, sub)
	return sub, nil
}

// ContactSubmissions returns every stored submission.
func (db *DB) ContactSubmissions() []contact.Submission {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	return append([]contact.Submission(nil), db.contacts...)
}

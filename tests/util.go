// Package testutil holds helpers shared by the test suites.
package testutil

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/stratosedge/portal/core"
	"github.com/stratosedge/portal/core/account"
	"github.com/stratosedge/portal/core/profile"
	logsvc "github.com/stratosedge/portal/services/logger"
	"github.com/stratosedge/portal/storage/database"
)

// Config returns a configuration fit for tests: no artificial delays, a short auto-close.
func Config() *core.Config {
	conf := core.NewConfig()
	conf.Env = "TEST"
	conf.TestMode = true
	conf.Debug = true
	conf.RollbarToken = ""
	conf.Storage = core.StorageMemory
	conf.Salary.Delay = 0
	conf.Submission.AutoCloseDelay = 50 * time.Millisecond
	return conf
}

// NewLogger returns a silent logger.
func NewLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)
	return logger
}

// Validator returns a validator with every custom rule and English messages registered.
func Validator() (*validator.Validate, ut.Translator) {
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	profile.InitValidators(validate, translator)
	return validate, translator
}

// PrepareDB returns a migrated sqlite database living in a temporary directory.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err = database.Migrate(db); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	return db
}

func CreateAccount(t *testing.T, repo account.Repository, email, pwd, displayName string, createdAt ...time.Time) account.Account {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	acc := account.Account{
		ID:          email + "-uid",
		Email:       email,
		DisplayName: displayName,
		CreatedAt:   tstamp,
	}
	if pwd != "" {
		if err := acc.SetPassword(pwd); err != nil {
			t.Fatalf("CreateAccount() failed: %v", err)
		}
	}
	acc, err := repo.CreateAccount(context.Background(), acc)
	if err != nil {
		t.Fatalf("CreateAccount() failed: %v", err)
	}
	return acc
}

// CompleteProfile returns a profile that passes profile.IsComplete.
func CompleteProfile(name, email string, applied ...int) profile.Profile {
	p := profile.Seed(name, email, applied)
	profile.Update{
		FirstName:       "Asha",
		LastName:        "Rao",
		DOB:             "2001-04-12",
		WhatsappNumber:  "9876543210",
		Status:          profile.StatusGraduate,
		SchoolOrCompany: "IIT Madras",
		TenthMarks:      "91",
		TenthSchool:     "DPS Chennai",
		TwelfthMarks:    "88.5",
		TwelfthSchool:   "DPS Chennai",
	}.ApplyTo(&p)
	return p
}

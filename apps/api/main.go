package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/stratosedge/portal/apps/api/echo"
	"github.com/stratosedge/portal/core"
	"github.com/stratosedge/portal/core/account"
	"github.com/stratosedge/portal/core/application"
	"github.com/stratosedge/portal/core/contact"
	"github.com/stratosedge/portal/core/profile"
	"github.com/stratosedge/portal/core/salary"
	"github.com/stratosedge/portal/core/session"
	"github.com/stratosedge/portal/services/email"
	"github.com/stratosedge/portal/services/logger"
	"github.com/stratosedge/portal/storage/database"
	"github.com/stratosedge/portal/storage/database/dynamo"
	"github.com/stratosedge/portal/storage/database/inmem"
	"github.com/stratosedge/portal/storage/database/sqlx"
)

type repositories struct {
	accounts account.Repository
	profiles profile.Repository
	apps     application.Repository
	contacts contact.Repository
	close    func() error
}

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up storage
	repos, err := setUpStorage(context.Background(), conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up %s storage: %v", conf.Storage, err), err)
	}
	defer func() {
		if err = repos.close(); err != nil {
			dbLogger.Error("Failed to close", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	accSvc := account.NewService(repos.accounts, conf)
	profileSvc := profile.NewService(repos.profiles)
	appSvc := application.NewService(repos.apps, mailSvc)
	contactSvc := contact.NewService(repos.contacts, mailSvc, conf)

	bridge := session.NewBridge(accSvc, profileSvc, appSvc, session.NewStore(conf.Submission.AutoCloseDelay), logger)
	bridge.Start()
	defer bridge.Close()

	// a session outlives its last refreshable token by at most one token lifetime
	reapCtx, stopReaper := context.WithCancel(context.Background())
	defer stopReaper()
	go accSvc.ReapSessions(reapCtx, conf.Auth.SessionReapInterval, conf.Server.JWTRefreshExpirationDelta+conf.Server.JWTExpirationDelta)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q, storage %q", conf.Build, conf.Storage))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	profile.InitValidators(validate, translator)

	core.ParseEmailTemplates(conf, logger)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("storage").Set(conf.Storage)
	expvar.Publish("sessions", expvar.Func(func() interface{} { return bridge.Store().Len() }))

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			AccountSvc: accSvc,
			ContactSvc: contactSvc,
			Estimator:  salary.NewEstimator(conf.Salary.Delay),
			Bridge:     bridge,
			Validate:   validate,
			Translator: translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

// setUpStorage builds the repositories of the configured backend.
func setUpStorage(ctx context.Context, conf *core.Config) (*repositories, error) {
	switch conf.Storage {
	case core.StorageMemory:
		db := inmemdb.NewDB()
		return &repositories{
			accounts: inmemdb.NewAccountRepository(db),
			profiles: inmemdb.NewProfileRepository(db),
			apps:     inmemdb.NewApplicationRepository(db),
			contacts: inmemdb.NewContactRepository(db),
			close:    db.Close,
		}, nil

	case core.StorageSQL:
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, err
		}
		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}
		if err = database.Migrate(db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &repositories{
			accounts: sqlxrepos.NewAccountRepository(db),
			profiles: sqlxrepos.NewProfileRepository(db),
			apps:     sqlxrepos.NewApplicationRepository(db),
			contacts: sqlxrepos.NewContactRepository(db),
			close:    db.Close,
		}, nil

	case core.StorageDynamo:
		client, err := dynamorepos.NewClient(ctx, conf)
		if err != nil {
			return nil, err
		}
		tables := dynamorepos.TablesFrom(conf)
		return &repositories{
			accounts: dynamorepos.NewAccountRepository(client, tables),
			profiles: dynamorepos.NewProfileRepository(client, tables),
			apps:     dynamorepos.NewApplicationRepository(client, tables),
			contacts: dynamorepos.NewContactRepository(client, tables),
			close:    func() error { return nil },
		}, nil
	}
	return nil, errors.Errorf("unknown storage %q", conf.Storage)
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

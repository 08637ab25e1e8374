package main

import (
	"fmt"
	"log"
	"os"

	"github.com/stratosedge/portal/core"
	"github.com/stratosedge/portal/core/account"
	"github.com/stratosedge/portal/core/application"
	"github.com/stratosedge/portal/services/email"
	"github.com/stratosedge/portal/services/logger"
	"github.com/stratosedge/portal/storage/database"
	"github.com/stratosedge/portal/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()
	logger := log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	svcLogger := logsvc.NewRollbarLogger(logger, conf)
	svcLogger.Enable(!conf.Debug)

	if conf.Storage != core.StorageSQL {
		logger.Fatalf("admin works on the sql storage only (storage is %q)", conf.Storage)
	}

	// set up DB
	if err := database.CreateIfNotExist(conf); err != nil {
		logger.Fatal(err)
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(err)
	}

	// start CLI
	cli := commandLine{
		db:     db,
		accSvc: account.NewService(sqlxrepos.NewAccountRepository(db), conf),
		appSvc: application.NewService(sqlxrepos.NewApplicationRepository(db), emailsvc.NewConsoleService(conf, svcLogger)),
		out:    os.Stdout,
	}
	err = cli.run(os.Args)
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

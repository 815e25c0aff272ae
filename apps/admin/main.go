package main

import (
	"log"
	"os"

	"github.com/trezcool/idara/core"
	"github.com/trezcool/idara/core/activity"
	"github.com/trezcool/idara/core/catalog"
	emailsvc "github.com/trezcool/idara/services/email"
	"github.com/trezcool/idara/storage/mongodb"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up DB
	db, err := mongodb.Open(core.Conf)
	errAndDie(err)
	defer func() { _ = mongodb.Close(db) }()

	registry, err := catalog.NewRegistry()
	errAndDie(err)

	// start CLI
	cli := commandLine{
		svc: activity.NewService(registry, mongodb.NewActivityRepository(db), emailsvc.NewConsoleService()),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	echoapi "github.com/trezcool/idara/apps/api/echo"
	"github.com/trezcool/idara/core"
	"github.com/trezcool/idara/core/activity"
	"github.com/trezcool/idara/core/catalog"
	emailsvc "github.com/trezcool/idara/services/email"
	logsvc "github.com/trezcool/idara/services/logger"
	uploadsvc "github.com/trezcool/idara/services/upload"
	"github.com/trezcool/idara/storage/mongodb"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up services
	var logger core.Logger
	if core.Conf.RollbarToken != "" {
		logger = logsvc.NewRollbarLogger(std, core.Conf)
	} else {
		logger = logsvc.NewStdLogger(std)
	}

	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	// set up DB
	db, err := mongodb.Open(core.Conf)
	errAndDie(std, err)
	defer func() { _ = mongodb.Close(db) }()

	registry, err := catalog.NewRegistry()
	errAndDie(std, err)
	activitySvc := activity.NewService(registry, mongodb.NewActivityRepository(db), mailSvc)

	// start API server
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	app := echoapi.NewServer(
		&echoapi.Options{
			Address:     core.Conf.Server.Addr(),
			ActivitySvc: activitySvc,
			UploadSvc:   uploadsvc.NewDiskService(core.Conf),
			Logger:      logger,
		},
		shutdown,
	)
	go app.Start()

	<-shutdown
	std.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), core.Conf.Server.ShutdownTimeout)
	defer cancel()
	if err := app.Stop(ctx); err != nil {
		std.Printf("graceful shutdown failed: %v", err)
	}
}

func errAndDie(std *log.Logger, err error) {
	if err != nil {
		std.Fatal(err)
	}
}

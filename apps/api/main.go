package main

import (
	"context"
	"fmt"
	"log"
	"net/mail"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/stiedu/loggedin/apps/api/echo"
	"github.com/stiedu/loggedin/core"
	"github.com/stiedu/loggedin/core/notification"
	"github.com/stiedu/loggedin/core/session"
	emailsvc "github.com/stiedu/loggedin/services/email"
	logsvc "github.com/stiedu/loggedin/services/logger"
	toastsvc "github.com/stiedu/loggedin/services/toast"
	"github.com/stiedu/loggedin/storage/localstore"
	"github.com/stiedu/loggedin/storage/mockapi"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// durable client storage
	store, err := localstore.Open(conf.StoragePath)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening local store: %v", err), err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error(fmt.Sprintf("closing local store: %v", err), err)
		}
	}()

	// mock remote boundary
	api := mockapi.New(conf)
	directory := mockapi.NewDirectory(api)

	// notification delivery
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	hub := toastsvc.NewHub(logger)

	engine := notification.NewEngine(store, logger, conf.Notification.WelcomeDelay)
	engine.AddToaster(hub)
	engine.AddToaster(toastsvc.NewConsoleToaster(log.New(os.Stdout, "TOAST : ", log.LstdFlags)))
	engine.ForwardAdminAlerts(mailSvc, mail.Address{Name: "Admin", Address: conf.AdminEmail})

	scanner := notification.NewScanner(
		engine, api,
		conf.Notification.ReminderScanInterval,
		conf.Notification.ReminderWindowDays,
		logger,
	)

	// session store
	sessions := session.NewStore(directory, store, logger)
	sessions.TokenFunc = echoapi.TokenFunc(conf)

	// the reminder scan and the welcome one-shot follow the session
	// lifecycle; the mailbox is scoped to a single identity
	sessions.Watch(func(ident *session.Identity) {
		scanner.Stop()
		engine.ClearAll()
		if ident == nil {
			return
		}
		if ident.IsStudent() {
			scanner.Start()
		}
		engine.Welcome(*ident)
	})
	sessions.Restore()

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		conf.Server.Addr,
		echoapi.Deps{
			Conf:       conf,
			Logger:     logger,
			Store:      sessions,
			Engine:     engine,
			EventSvc:   api,
			Hub:        hub,
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
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		scanner.Stop()

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

package main

import (
	"fmt"
	"os"

	"github.com/alexanderramin/leadbook/internal/cli"
	"github.com/alexanderramin/leadbook/internal/config"
	"github.com/alexanderramin/leadbook/internal/contact"
	"github.com/alexanderramin/leadbook/internal/db"
	"github.com/alexanderramin/leadbook/internal/logging"
	"github.com/alexanderramin/leadbook/internal/repository"
	"github.com/alexanderramin/leadbook/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Resolve()
	if err != nil {
		return err
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Level)
	if err != nil {
		return err
	}

	// Open database
	database, err := db.OpenDB(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	leadRepo := repository.NewSQLiteLeadCollection(database)
	taskRepo := repository.NewSQLiteTaskStore(database)
	noteRepo := repository.NewSQLiteNoteSlotStore(database)

	uow := db.NewSQLiteUnitOfWork(database)
	observer := service.NewLogUseCaseObserver(logger)

	app := &cli.App{
		Leads:  service.NewLeadService(leadRepo, uow, observer),
		Tasks:  service.NewTaskService(taskRepo, uow, observer),
		Notes:  service.NewNoteService(noteRepo, uow, cfg.Notes.SaveLatency(), observer),
		Import: service.NewImportService(uow, observer),
		Contact: contact.NewDispatcher(contact.BrowserOpener{}, contact.SystemClipboard{},
			contact.WithLogger(logger),
			contact.WithRegion(cfg.Contact.Region),
		),
		Greeting: cfg.Contact.Greeting,
		Region:   cfg.Contact.Region,
	}

	// Forms and the lead view need a terminal on stdin.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}

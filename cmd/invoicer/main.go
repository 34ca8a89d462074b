package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/invoicer/cmd/invoicer/internal/command"
	"github.com/MrJamesThe3rd/invoicer/internal/client"
	clientStore "github.com/MrJamesThe3rd/invoicer/internal/client/store"
	"github.com/MrJamesThe3rd/invoicer/internal/config"
	"github.com/MrJamesThe3rd/invoicer/internal/database"
	"github.com/MrJamesThe3rd/invoicer/internal/importer"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	invoiceStore "github.com/MrJamesThe3rd/invoicer/internal/invoice/store"
	"github.com/MrJamesThe3rd/invoicer/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := command.NewRootCmd(connect)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func connect() (*command.App, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger.New(cfg.App.Env)

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	clientSvc := client.NewService(clientStore.New(db))
	invoiceSvc := invoice.NewService(invoiceStore.New(db))

	return &command.App{
		Clients: clientSvc,
		Importer: importer.NewService(clientSvc, invoiceSvc, importer.Config{
			DueDays:     cfg.Import.DueDays,
			PreviewRows: cfg.Import.PreviewRows,
			SessionTTL:  cfg.Import.SessionTTL,
		}),
		Close: db.Close,
	}, nil
}

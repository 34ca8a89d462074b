package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/invoicer/internal/backup"
	"github.com/MrJamesThe3rd/invoicer/internal/client"
	clientStore "github.com/MrJamesThe3rd/invoicer/internal/client/store"
	"github.com/MrJamesThe3rd/invoicer/internal/config"
	"github.com/MrJamesThe3rd/invoicer/internal/database"
	invoicerHttp "github.com/MrJamesThe3rd/invoicer/internal/http"
	backupHandler "github.com/MrJamesThe3rd/invoicer/internal/http/backup"
	clientHandler "github.com/MrJamesThe3rd/invoicer/internal/http/client"
	importHandler "github.com/MrJamesThe3rd/invoicer/internal/http/importcsv"
	invoiceHandler "github.com/MrJamesThe3rd/invoicer/internal/http/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/importer"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	invoiceStore "github.com/MrJamesThe3rd/invoicer/internal/invoice/store"
	"github.com/MrJamesThe3rd/invoicer/internal/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.New(cfg.App.Env)

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	var (
		clientService  = client.NewService(clientStore.New(db))
		invoiceService = invoice.NewService(invoiceStore.New(db))
		importService  = importer.NewService(clientService, invoiceService, importer.Config{
			DueDays:     cfg.Import.DueDays,
			PreviewRows: cfg.Import.PreviewRows,
			SessionTTL:  cfg.Import.SessionTTL,
		})
		backupService = backup.NewService(clientService, invoiceService)
	)

	sender := invoice.Sender{
		Name:    cfg.Business.Name,
		Email:   cfg.Business.Email,
		Address: cfg.Business.Address,
	}

	var (
		clientH  = clientHandler.NewHandler(clientService)
		invoiceH = invoiceHandler.NewHandler(invoiceService, clientService, sender)
		importH  = importHandler.NewHandler(importService, cfg.Server.MaxUploadBytes)
		backupH  = backupHandler.NewHandler(backupService, cfg.Server.MaxUploadBytes)
	)

	router := invoicerHttp.New(cfg.Server.AllowedOrigins, clientH, invoiceH, importH, backupH)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      2 * cfg.Server.Timeout,
		IdleTimeout:       2 * time.Minute,
	}

	go func() {
		slog.Info("starting server", "addr", srv.Addr, "env", cfg.App.Env)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
	defer cancel()

	slog.Info("shutting down server")

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Lllllllleong/lawsuitflow/internal/httpapi"
	"github.com/Lllllllleong/lawsuitflow/internal/logger"
	"github.com/Lllllllleong/lawsuitflow/internal/services"
)

func main() {
	zap.ReplaceGlobals(logger.New("info", "json"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		zap.L().Error("server exited", zap.Error(err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, log, b, err := services.Bootstrap(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := b.Close(); err != nil {
			log.Warn("closing backends", zap.Error(err))
		}
		_ = log.Sync()
	}()

	h := httpapi.NewHandler(
		services.NewGenerateDocuments(b.Loader, log.Named("generate")),
		services.NewRegisterCase(b.Loader, b.Registrar, log.Named("register")),
		services.NewExportCase(b.Loader, b.Packager, log.Named("export")),
		log.Named("http"),
	)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      httpapi.NewRouter(h, cfg.Server.WriteTimeout),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown", zap.Error(err))
		}
	}()

	log.Info("starting server", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

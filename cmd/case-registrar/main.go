package main

import (
	"context"
	"net/http"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"go.uber.org/zap"

	"github.com/Lllllllleong/lawsuitflow/internal/httpapi"
	"github.com/Lllllllleong/lawsuitflow/internal/logger"
	"github.com/Lllllllleong/lawsuitflow/internal/services"
)

var (
	handler *httpapi.Handler
	once    sync.Once
	initErr error
)

func init() {
	// --- Set up structured logging ---
	zap.ReplaceGlobals(logger.New("info", "json"))

	functions.HTTP("HandleRegisterCase", handleRegisterCase)
}

func main() {}

// handleRegisterCase registers a legal case once the mandatory documents are ready.
func handleRegisterCase(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		var (
			log *zap.Logger
			b   *services.Backends
		)
		_, log, b, initErr = services.Bootstrap(context.Background())
		if initErr != nil {
			return
		}
		reg := services.NewRegisterCase(b.Loader, b.Registrar, log.Named("register"))
		handler = httpapi.NewHandler(nil, reg, nil, log)
	})
	if initErr != nil {
		zap.L().Error("Critical: case registrar initialization failed", zap.Error(initErr))
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}
	handler.RegisterCase(w, r)
}

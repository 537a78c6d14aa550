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

	functions.HTTP("HandleGenerateDocuments", handleGenerateDocuments)
}

func main() {}

// handleGenerateDocuments renders every document for a contract and reports per-document status.
func handleGenerateDocuments(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		var (
			log *zap.Logger
			b   *services.Backends
		)
		_, log, b, initErr = services.Bootstrap(context.Background())
		if initErr != nil {
			return
		}
		gen := services.NewGenerateDocuments(b.Loader, log.Named("generate"))
		handler = httpapi.NewHandler(gen, nil, nil, log)
	})
	if initErr != nil {
		zap.L().Error("Critical: document generator initialization failed", zap.Error(initErr))
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}
	handler.GenerateDocuments(w, r)
}

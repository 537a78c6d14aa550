package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	cloudevents "github.com/cloudevents/sdk-go/v2"
	"go.uber.org/zap"

	"github.com/Lllllllleong/lawsuitflow/internal/logger"
	"github.com/Lllllllleong/lawsuitflow/internal/models"
	"github.com/Lllllllleong/lawsuitflow/internal/services"
)

var (
	builder *services.ArchiveBuilderFunction
	log     *zap.Logger
	once    sync.Once
	initErr error
)

func init() {
	// --- Set up structured logging ---
	zap.ReplaceGlobals(logger.New("info", "json"))

	functions.CloudEvent("BuildArchiveOnCaseRegistered", buildArchive)
}

func main() {}

// buildArchive stores the export zip of a freshly registered case next to its documents.
func buildArchive(ctx context.Context, e cloudevents.Event) error {
	once.Do(func() {
		var b *services.Backends
		_, log, b, initErr = services.Bootstrap(context.Background())
		if initErr != nil {
			return
		}
		builder = services.NewArchiveBuilder(b.Loader, b.Packager, b.Blobs, log.Named("archive"))
	})
	if initErr != nil {
		zap.L().Error("Critical error during function initialization", zap.Error(initErr))
		return initErr
	}

	var ev models.CaseRegisteredEvent
	if err := json.Unmarshal(e.Data(), &ev); err != nil {
		log.Error("Failed to unmarshal event data", zap.Error(err), zap.String("eventId", e.ID()))
		return fmt.Errorf("json.Unmarshal: %w", err)
	}

	res, err := builder.Process(ctx, ev)
	if err != nil {
		return err
	}
	log.Info("Archive stored",
		zap.String("caseId", ev.CaseID),
		zap.String("path", res.Path),
		zap.String("status", res.Status),
		zap.Int("warnings", len(res.Warnings)),
	)
	return nil
}

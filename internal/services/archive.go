package services

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/Lllllllleong/lawsuitflow/internal/models"
	"github.com/Lllllllleong/lawsuitflow/internal/packager"
	"github.com/Lllllllleong/lawsuitflow/internal/registrar"
)

// ZipContentType is stored with every archive object.
const ZipContentType = "application/zip"

// ArchiveBuilderFunction persists the filing archive of a freshly registered case.
type ArchiveBuilderFunction struct {
	loader   CaseLoader
	packager *packager.Packager
	blobs    registrar.BlobStore
	log      *zap.Logger
	now      func() time.Time
}

func NewArchiveBuilder(loader CaseLoader, p *packager.Packager, blobs registrar.BlobStore, log *zap.Logger) *ArchiveBuilderFunction {
	return &ArchiveBuilderFunction{loader: loader, packager: p, blobs: blobs, log: log, now: time.Now}
}

// ArchivePath is where the archive of a contract is stored.
func ArchivePath(companyID, contractID string, at time.Time, fileName string) string {
	return fmt.Sprintf("lawsuits/%s/%s/archives/%d-%s", companyID, contractID, at.UnixMilli(), fileName)
}

func (f *ArchiveBuilderFunction) Process(ctx context.Context, ev models.CaseRegisteredEvent) (_ *models.ArchiveStoredResponse, err error) {
	ctx, span := startSpan(ctx, "BuildArchive", ev.ContractID, ev.CompanyID)
	defer func() { endSpan(span, err) }()
	span.SetAttributes(attribute.String("lawsuit.case_id", ev.CaseID))

	logCtx := f.log.With(zap.String("caseId", ev.CaseID), zap.String("contractId", ev.ContractID))
	logCtx.Info("Building archive for registered case.")

	now := f.now()
	s, err := prepare(ctx, f.loader, logCtx, now, ev.ContractID, ev.CompanyID, nil)
	if err != nil {
		logCtx.Error("Archive preparation failed", zap.Error(err))
		return nil, err
	}
	state := s.State()
	a, err := f.packager.Export(ctx, state.Case, state.ReadyHTML())
	if err != nil {
		logCtx.Error("Archive export failed", zap.Error(err))
		return nil, err
	}

	path := ArchivePath(ev.CompanyID, ev.ContractID, now, a.FileName)
	if _, err := f.blobs.Put(ctx, path, a.Data, ZipContentType); err != nil {
		logCtx.Error("Archive upload failed", zap.Error(err), zap.String("path", path))
		return nil, fmt.Errorf("store archive: %w", err)
	}

	status := StatusComplete
	if len(a.Failures) > 0 {
		status = StatusPartial
	}
	logCtx.Info("Archive stored.", zap.String("path", path), zap.Int("entries", len(a.Entries)))
	return &models.ArchiveStoredResponse{
		Status:   status,
		FileName: a.FileName,
		Path:     path,
		Entries:  a.Entries,
		Warnings: a.Messages(),
	}, nil
}

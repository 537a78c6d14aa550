package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Lllllllleong/lawsuitflow/internal/models"
)

// Response statuses shared by the HTTP and function entry points.
const (
	StatusComplete = "complete"
	StatusPartial  = "partial"
)

// GenerateDocumentsFunction renders every lawsuit document for a contract.
type GenerateDocumentsFunction struct {
	loader CaseLoader
	log    *zap.Logger
	now    func() time.Time
}

func NewGenerateDocuments(loader CaseLoader, log *zap.Logger) *GenerateDocumentsFunction {
	return &GenerateDocumentsFunction{loader: loader, log: log, now: time.Now}
}

// Process generates all applicable documents. Individual failures are reported per document; only loading
// the contract can fail the call.
func (f *GenerateDocumentsFunction) Process(ctx context.Context, req *models.GenerateDocumentsRequest) (_ *models.GenerateDocumentsResponse, err error) {
	ctx, span := startSpan(ctx, "GenerateDocuments", req.ContractID, req.CompanyID)
	defer func() { endSpan(span, err) }()

	logCtx := f.log.With(zap.String("contractId", req.ContractID), zap.String("companyId", req.CompanyID))
	logCtx.Info("Starting document generation.")

	s, err := prepare(ctx, f.loader, logCtx, f.now(), req.ContractID, req.CompanyID, req.TaqadiData)
	if err != nil {
		logCtx.Warn("Document generation aborted", zap.Error(err))
		return nil, err
	}

	state := s.State()
	progress := s.Progress()
	status := StatusComplete
	if progress.Ready < progress.Total {
		status = StatusPartial
	}
	return &models.GenerateDocumentsResponse{
		Status:       status,
		Documents:    state.Views(),
		Progress:     progress,
		Calculations: state.Case.Calculations,
	}, nil
}

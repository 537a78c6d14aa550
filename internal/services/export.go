package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Lllllllleong/lawsuitflow/internal/models"
	"github.com/Lllllllleong/lawsuitflow/internal/packager"
)

// ExportCaseFunction builds the downloadable filing archive of a contract.
type ExportCaseFunction struct {
	loader   CaseLoader
	packager *packager.Packager
	log      *zap.Logger
	now      func() time.Time
}

func NewExportCase(loader CaseLoader, p *packager.Packager, log *zap.Logger) *ExportCaseFunction {
	return &ExportCaseFunction{loader: loader, packager: p, log: log, now: time.Now}
}

func (f *ExportCaseFunction) Process(ctx context.Context, req *models.ExportCaseRequest) (_ *packager.Archive, err error) {
	ctx, span := startSpan(ctx, "ExportCase", req.ContractID, req.CompanyID)
	defer func() { endSpan(span, err) }()

	logCtx := f.log.With(zap.String("contractId", req.ContractID), zap.String("companyId", req.CompanyID))

	s, err := prepare(ctx, f.loader, logCtx, f.now(), req.ContractID, req.CompanyID, req.TaqadiData)
	if err != nil {
		return nil, err
	}
	state := s.State()
	return f.packager.Export(ctx, state.Case, state.ReadyHTML())
}

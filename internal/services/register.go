package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Lllllllleong/lawsuitflow/internal/docstate"
	"github.com/Lllllllleong/lawsuitflow/internal/models"
	"github.com/Lllllllleong/lawsuitflow/internal/registrar"
)

// Registration statuses.
const (
	StatusRegistered             = "registered"
	StatusRegisteredWithWarnings = "registered_with_warnings"
)

// RegisterCaseFunction generates the documents of a contract and files them as a new legal case.
type RegisterCaseFunction struct {
	loader    CaseLoader
	registrar *registrar.Registrar
	log       *zap.Logger
	now       func() time.Time
}

func NewRegisterCase(loader CaseLoader, r *registrar.Registrar, log *zap.Logger) *RegisterCaseFunction {
	return &RegisterCaseFunction{loader: loader, registrar: r, log: log, now: time.Now}
}

// Process returns precondition errors untouched so the caller can map them to a status code. Once a case ID
// exists the call succeeds, with partial failures listed in the response.
func (f *RegisterCaseFunction) Process(ctx context.Context, req *models.RegisterCaseRequest) (_ *models.RegisterCaseResponse, err error) {
	ctx, span := startSpan(ctx, "RegisterCase", req.ContractID, req.CompanyID)
	defer func() { endSpan(span, err) }()

	logCtx := f.log.With(zap.String("contractId", req.ContractID), zap.String("userId", req.UserID))

	s, err := prepare(ctx, f.loader, logCtx, f.now(), req.ContractID, req.CompanyID, req.TaqadiData)
	if err != nil {
		return nil, err
	}

	s.Dispatch(docstate.RegisterCaseStart{})
	defer s.Dispatch(docstate.RegisterCaseComplete{})

	state := s.State()
	res, err := f.registrar.Register(ctx, state.Case, state, req.UserID)
	if err != nil {
		return nil, err
	}
	return registerResponse(res, readyKinds(state)), nil
}

func readyKinds(s docstate.State) []models.DocumentKind {
	var out []models.DocumentKind
	for _, e := range s.Documents {
		if e.IsReady() {
			out = append(out, e.Kind)
		}
	}
	return out
}

func registerResponse(res *registrar.Result, requested []models.DocumentKind) *models.RegisterCaseResponse {
	out := &models.RegisterCaseResponse{
		Status:         StatusRegistered,
		CaseID:         res.CaseID,
		CaseNumber:     res.CaseNumber,
		NumberFallback: res.NumberFallback,
		Linked:         make([]string, 0, len(res.Linked)),
		Warnings:       res.Warnings,
	}
	for _, k := range res.Linked {
		out.Linked = append(out.Linked, k.String())
	}

	reported := make(map[models.DocumentKind]bool)
	for _, fl := range res.Failures {
		reported[fl.Kind] = true
		out.Failed = append(out.Failed, models.AttachmentFailure{Kind: fl.Kind.String(), Error: fl.Err.Error()})
	}
	if res.LinkError != nil {
		for _, k := range res.Missing(requested) {
			if !reported[k] {
				out.Failed = append(out.Failed, models.AttachmentFailure{Kind: k.String(), Error: "link failed: " + res.LinkError.Error()})
			}
		}
	}

	if len(out.Failed) > 0 || len(out.Warnings) > 0 {
		out.Status = StatusRegisteredWithWarnings
	}
	return out
}

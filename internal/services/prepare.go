package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Lllllllleong/lawsuitflow/internal/apperr"
	"github.com/Lllllllleong/lawsuitflow/internal/models"
	"github.com/Lllllllleong/lawsuitflow/internal/preparation"
)

// CaseLoader builds the case context of one contract. postgres.Loader is the production implementation.
type CaseLoader interface {
	Load(ctx context.Context, contractID, companyID string, asOf time.Time) (models.CaseContext, error)
}

// prepare loads the contract, attaches the user's Taqadi text and renders every applicable document.
// The returned session holds the outcome of each document, failures included.
func prepare(ctx context.Context, loader CaseLoader, log *zap.Logger, now time.Time,
	contractID, companyID string, taqadi *models.TaqadiData) (*preparation.Session, error) {

	c, err := loader.Load(ctx, contractID, companyID, now)
	if err != nil {
		return nil, fmt.Errorf("load case context: %w", err)
	}
	if c.Contract == nil {
		return nil, &apperr.MissingContractError{ContractID: contractID}
	}
	c.TaqadiData = taqadi

	s := preparation.NewSession(c, log, preparation.WithClock(func() time.Time { return now }))
	s.GenerateAll(ctx)
	return s, nil
}

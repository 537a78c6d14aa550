// Package preparation drives document generation for one contract through the document state store.
package preparation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Lllllllleong/lawsuitflow/internal/apperr"
	"github.com/Lllllllleong/lawsuitflow/internal/batch"
	"github.com/Lllllllleong/lawsuitflow/internal/docstate"
	"github.com/Lllllllleong/lawsuitflow/internal/generator"
	"github.com/Lllllllleong/lawsuitflow/internal/metrics"
	"github.com/Lllllllleong/lawsuitflow/internal/models"
)

// GeneratorLookup resolves the renderer for a kind. generator.For is the production lookup.
type GeneratorLookup func(models.DocumentKind) (generator.Func, bool)

// Session owns the state store of one preparation screen. All mutations go through Dispatch.
type Session struct {
	store  *docstate.Store
	lookup GeneratorLookup
	now    func() time.Time
	log    *zap.Logger
}

// Option customizes a Session.
type Option func(*Session)

// WithGenerators replaces the generator lookup.
func WithGenerators(l GeneratorLookup) Option {
	return func(s *Session) { s.lookup = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// NewSession starts a session for c with every document pending.
func NewSession(c models.CaseContext, log *zap.Logger, opts ...Option) *Session {
	s := &Session{
		store:  docstate.NewStore(docstate.Initial(c.ContractID, c.CompanyID)),
		lookup: generator.For,
		now:    time.Now,
		log:    log.With(zap.String("contractId", c.ContractID), zap.String("companyId", c.CompanyID)),
	}
	for _, o := range opts {
		o(s)
	}
	s.Load(c)
	return s
}

// Load replaces the case context held by the store.
func (s *Session) Load(c models.CaseContext) {
	s.store.Dispatch(docstate.SetContractData{
		Contract:         c.Contract,
		Customer:         c.Customer,
		Vehicle:          c.Vehicle,
		Calculations:     c.Calculations,
		CompanyDocuments: c.CompanyDocuments,
		ContractFile:     c.ContractFile,
		VehicleWithheld:  c.VehicleWithheld,
		AsOf:             c.AsOf,
	})
	s.store.Dispatch(docstate.SetInvoices{Invoices: c.OverdueInvoices})
	s.store.Dispatch(docstate.SetViolations{Violations: c.TrafficViolations})
	s.store.Dispatch(docstate.SetTaqadiData{Data: c.TaqadiData})
}

// Dispatch forwards a to the store.
func (s *Session) Dispatch(a docstate.Action) docstate.State {
	return s.store.Dispatch(a)
}

func (s *Session) State() docstate.State { return s.store.State() }

func (s *Session) Progress() models.Progress { return docstate.ProgressOf(s.store.State()) }

// Generate renders one kind and records the outcome in the store. The returned error is also stored on the entry.
func (s *Session) Generate(_ context.Context, k models.DocumentKind) (string, error) {
	s.store.Dispatch(docstate.GenerateDocumentStart{Kind: k})

	html, err := s.render(k, s.store.State().Case)
	if err != nil {
		s.log.Warn("Document generation failed", zap.String("kind", k.String()), zap.Error(err))
		metrics.DocumentsGenerated.WithLabelValues(k.String(), docstate.StatusError).Inc()
		s.store.Dispatch(docstate.GenerateDocumentError{Kind: k, Err: err.Error()})
		return "", err
	}

	s.store.Dispatch(docstate.GenerateDocumentSuccess{
		Kind: k,
		URL:  "blob:" + uuid.NewString(),
		HTML: html,
		At:   s.now(),
	})
	metrics.DocumentsGenerated.WithLabelValues(k.String(), docstate.StatusReady).Inc()
	s.log.Debug("Document generated", zap.String("kind", k.String()), zap.Int("bytes", len(html)))
	return html, nil
}

// GenerateAll renders every applicable kind in sequence, continuing past individual failures.
func (s *Session) GenerateAll(ctx context.Context) []batch.Outcome[models.DocumentKind, string] {
	s.store.Dispatch(docstate.GenerateAllStart{})
	defer s.store.Dispatch(docstate.GenerateAllComplete{})

	kinds := generator.Applicable(s.store.State().Case)
	s.log.Info("Generating all documents.", zap.Int("kinds", len(kinds)))

	out := batch.MapSettled(ctx, kinds, s.Generate)
	_, failed := batch.Split(out)
	p := s.Progress()
	s.log.Info("Generate-all complete.",
		zap.Int("failed", len(failed)),
		zap.Int("ready", p.Ready),
		zap.Int("percentage", p.Percentage),
	)
	return out
}

// Reset returns kind k to pending.
func (s *Session) Reset(k models.DocumentKind) {
	s.store.Dispatch(docstate.ResetDocument{Kind: k})
}

func (s *Session) render(k models.DocumentKind, c models.CaseContext) (out string, err error) {
	fn, ok := s.lookup(k)
	if !ok {
		return "", &apperr.GenerationError{Kind: k.String(), Err: errNoGenerator}
	}
	defer func() {
		if r := recover(); r != nil {
			err = &apperr.GenerationError{Kind: k.String(), Err: panicError{r}}
		}
	}()
	return fn(c)
}

// Package registrar turns a set of ready documents into a persisted legal case.
package registrar

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Lllllllleong/lawsuitflow/internal/apperr"
	"github.com/Lllllllleong/lawsuitflow/internal/batch"
	"github.com/Lllllllleong/lawsuitflow/internal/docstate"
	"github.com/Lllllllleong/lawsuitflow/internal/metrics"
	"github.com/Lllllllleong/lawsuitflow/internal/models"
)

// HTMLContentType is the content type of every uploaded document.
const HTMLContentType = "text/html;charset=utf-8"

// uploadOrder lists the kinds that are stored when ready.
var uploadOrder = []models.DocumentKind{
	models.KindMemo,
	models.KindClaims,
	models.KindDocsList,
	models.KindViolations,
	models.KindCriminalComplaint,
}

// Failure is one document that was not stored.
type Failure struct {
	Kind models.DocumentKind
	Err  error
}

// Result describes a registered case. CaseID is authoritative even when Failures or LinkError are set.
type Result struct {
	CaseID         string
	CaseNumber     string
	NumberFallback bool
	Linked         []models.DocumentKind
	Failures       []Failure
	TemplateError  error
	LinkError      error
	Warnings       []string
}

// Missing returns the requested kinds that did not end up linked to the case.
func (r *Result) Missing(requested []models.DocumentKind) []models.DocumentKind {
	linked := make(map[models.DocumentKind]bool, len(r.Linked))
	for _, k := range r.Linked {
		linked[k] = true
	}
	var out []models.DocumentKind
	for _, k := range requested {
		if !linked[k] {
			out = append(out, k)
		}
	}
	return out
}

// Registrar creates case records and stores their documents.
type Registrar struct {
	cases   CaseStore
	numbers NumberAllocator
	blobs   BlobStore
	hooks   []Hook
	log     *zap.Logger
	now     func() time.Time
}

// Option customizes a Registrar.
type Option func(*Registrar)

// WithHooks adds post-registration hooks, run in order.
func WithHooks(h ...Hook) Option {
	return func(r *Registrar) { r.hooks = append(r.hooks, h...) }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Registrar) { r.now = now }
}

func New(cases CaseStore, numbers NumberAllocator, blobs BlobStore, log *zap.Logger, opts ...Option) *Registrar {
	r := &Registrar{cases: cases, numbers: numbers, blobs: blobs, log: log, now: time.Now}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Register validates c and docs, then creates the case, its template record and its document links. It fails
// only before the case record exists; afterwards every step is best effort and reported in the Result.
func (r *Registrar) Register(ctx context.Context, c models.CaseContext, docs docstate.State, userID string) (*Result, error) {
	logCtx := r.log.With(zap.String("contractId", c.ContractID), zap.String("companyId", c.CompanyID))
	start := r.now()
	defer func() {
		metrics.OperationDuration.WithLabelValues("register_case").Observe(time.Since(start).Seconds())
	}()

	if err := Validate(c, docs); err != nil {
		logCtx.Warn("Registration rejected", zap.Error(err))
		metrics.CasesRegistered.WithLabelValues("rejected").Inc()
		return nil, err
	}

	// --- 1. Title and number ---
	title := CaseTitle(c)
	res := &Result{}
	res.CaseNumber, res.NumberFallback = r.allocateNumber(ctx, logCtx, c.CompanyID)
	if res.NumberFallback {
		res.Warnings = append(res.Warnings, "case number allocation failed; a locally generated number was used")
	}
	logCtx = logCtx.With(zap.String("caseNumber", res.CaseNumber))

	// --- 2. Case record ---
	now := r.now()
	calc := *c.Calculations
	caseID, err := r.cases.CreateCase(ctx, models.LegalCase{
		CaseNumber:      res.CaseNumber,
		Title:           title,
		CompanyID:       c.CompanyID,
		CustomerID:      customerID(c),
		ContractID:      c.ContractID,
		CaseType:        models.CaseTypeContractDispute,
		Status:          models.CaseStatusOpen,
		FilingDate:      now,
		ClaimAmount:     calc.Total,
		ClaimAmountText: calc.Total.StringFixed(2),
		Description:     caseDescription(c),
		CreatedBy:       userID,
		CreatedAt:       now,
	})
	if err != nil {
		logCtx.Error("Failed to create case record", zap.Error(err))
		metrics.CasesRegistered.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("create case record: %w", err)
	}
	res.CaseID = caseID
	logCtx = logCtx.With(zap.String("caseId", caseID))
	logCtx.Info("Case record created.")

	// --- 3. Lawsuit template (optional) ---
	if err := r.cases.CreateLawsuitTemplate(ctx, BuildTemplate(c, caseID, title, userID, now)); err != nil {
		logCtx.Warn("Lawsuit template insert failed; continuing", zap.Error(err))
		res.TemplateError = err
		res.Warnings = append(res.Warnings, "lawsuit template record was not saved")
	}

	// --- 4. Upload ready documents ---
	links := r.uploadDocuments(ctx, logCtx, c, docs, res, caseID, userID, now)

	// --- 5. Link them in one call ---
	if len(links) > 0 {
		if err := r.cases.LinkDocuments(ctx, links); err != nil {
			logCtx.Error("Failed to link documents to case", zap.Error(err), zap.Int("documents", len(links)))
			metrics.ArtifactFailures.WithLabelValues("link", "LINK_FAILED").Inc()
			res.LinkError = err
			res.Warnings = append(res.Warnings, "documents were uploaded but could not be linked to the case")
		} else {
			for _, l := range links {
				res.Linked = append(res.Linked, kindForTag(l.DocumentType))
			}
		}
	}

	// --- 6. Hooks ---
	r.runHooks(ctx, logCtx, res, models.CaseRegisteredEvent{
		CaseID:     caseID,
		CaseNumber: res.CaseNumber,
		ContractID: c.ContractID,
		CompanyID:  c.CompanyID,
	})

	metrics.CasesRegistered.WithLabelValues("created").Inc()
	logCtx.Info("Case registration complete.",
		zap.Int("linked", len(res.Linked)),
		zap.Int("failedUploads", len(res.Failures)),
		zap.Bool("numberFallback", res.NumberFallback),
	)
	return res, nil
}

// Validate checks the registration preconditions without side effects.
func Validate(c models.CaseContext, docs docstate.State) error {
	var missing []string
	if c.Contract == nil {
		missing = append(missing, "contract")
	}
	if c.CompanyID == "" {
		missing = append(missing, "companyId")
	}
	if c.ContractID == "" {
		missing = append(missing, "contractId")
	}
	if c.Calculations == nil {
		missing = append(missing, "calculations")
	}
	if len(missing) > 0 {
		return &apperr.IncompleteDataError{Missing: missing}
	}

	p := docstate.ProgressOf(docs)
	if p.Ready < p.Total {
		return &apperr.NotReadyError{Ready: p.Ready, Required: p.Total}
	}
	return nil
}

// CaseTitle is the user's title, or one synthesized from the contract number.
func CaseTitle(c models.CaseContext) string {
	if c.TaqadiData != nil && strings.TrimSpace(c.TaqadiData.CaseTitle) != "" {
		return strings.TrimSpace(c.TaqadiData.CaseTitle)
	}
	return "مطالبة مالية - عقد إيجار رقم " + c.ContractNumber()
}

// FallbackCaseNumber is used when the allocator is unavailable. It is unique per process clock tick only.
func FallbackCaseNumber(now time.Time) string {
	return fmt.Sprintf("LC-%d-%d", now.Year(), now.UnixNano())
}

func (r *Registrar) allocateNumber(ctx context.Context, logCtx *zap.Logger, companyID string) (string, bool) {
	if r.numbers != nil {
		n, err := r.numbers.NextCaseNumber(ctx, companyID)
		if err == nil && n != "" {
			return n, false
		}
		if err == nil {
			err = fmt.Errorf("allocator returned an empty case number")
		}
		logCtx.Warn("Case number allocation failed; using fallback", zap.Error(err))
	}
	return FallbackCaseNumber(r.now()), true
}

func (r *Registrar) uploadDocuments(ctx context.Context, logCtx *zap.Logger, c models.CaseContext, docs docstate.State,
	res *Result, caseID, userID string, now time.Time) []models.CaseDocument {

	var ready []models.DocumentKind
	for _, k := range uploadOrder {
		if docs.Entry(k).IsReady() {
			ready = append(ready, k)
		}
	}

	outcomes := batch.MapSettled(ctx, ready, func(ctx context.Context, k models.DocumentKind) (models.CaseDocument, error) {
		html := docs.Entry(k).HTML()
		fileName := DocumentFileName(k, res.CaseNumber)
		path := StoragePath(c.CompanyID, c.ContractID, now, fileName)
		if _, err := r.blobs.Put(ctx, path, []byte(html), HTMLContentType); err != nil {
			return models.CaseDocument{}, &apperr.UploadError{Path: path, Err: err}
		}
		ar, en := k.Titles()
		return models.CaseDocument{
			CaseID:         caseID,
			CompanyID:      c.CompanyID,
			DocumentType:   k.DocumentTypeTag(),
			TitleAr:        ar,
			TitleEn:        en,
			FilePath:       path,
			FileName:       fileName,
			FileType:       "text/html",
			FileSize:       int64(len(html)),
			Description:    fmt.Sprintf("%s - %s", en, res.CaseNumber),
			IsConfidential: false,
			CreatedBy:      userID,
			CreatedAt:      now,
		}, nil
	})

	var links []models.CaseDocument
	for _, o := range outcomes {
		if o.Err != nil {
			logCtx.Error("Document upload failed; omitting from case", zap.String("kind", o.Item.String()), zap.Error(o.Err))
			metrics.ArtifactFailures.WithLabelValues("upload", string(apperr.CodeOf(o.Err))).Inc()
			res.Failures = append(res.Failures, Failure{Kind: o.Item, Err: o.Err})
			continue
		}
		links = append(links, o.Value)
	}
	return links
}

func (r *Registrar) runHooks(ctx context.Context, logCtx *zap.Logger, res *Result, ev models.CaseRegisteredEvent) {
	for _, h := range r.hooks {
		if err := h.AfterRegister(ctx, ev); err != nil {
			logCtx.Warn("Post-registration hook failed", zap.String("hook", h.Name()), zap.Error(err))
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %v", h.Name(), err))
		}
	}
}

// StoragePath namespaces a file by company and contract.
func StoragePath(companyID, contractID string, at time.Time, fileName string) string {
	return fmt.Sprintf("lawsuits/%s/%s/%d-%s", companyID, contractID, at.UnixMilli(), fileName)
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// DocumentFileName is "{type tag}_{case number}.html" with unsafe characters replaced.
func DocumentFileName(k models.DocumentKind, caseNumber string) string {
	n := strings.Trim(unsafeFileChars.ReplaceAllString(caseNumber, "_"), "_")
	if n == "" {
		return k.DocumentTypeTag() + ".html"
	}
	return k.DocumentTypeTag() + "_" + n + ".html"
}

func kindForTag(tag string) models.DocumentKind {
	for _, k := range uploadOrder {
		if k.DocumentTypeTag() == tag {
			return k
		}
	}
	return models.KindContract
}

func customerID(c models.CaseContext) string {
	if c.Customer != nil && c.Customer.ID != "" {
		return c.Customer.ID
	}
	if c.Contract != nil {
		return c.Contract.CustomerID
	}
	return ""
}

func caseDescription(c models.CaseContext) string {
	calc := c.Calculations
	return fmt.Sprintf("Contract %s: overdue rent %s, late fees %s, violations %s (%d), damages %s, total %s",
		c.ContractNumber(),
		calc.OverdueRent.StringFixed(2), calc.LateFees.StringFixed(2),
		calc.ViolationsFines.StringFixed(2), calc.ViolationsCount,
		calc.DamagesFee.StringFixed(2), calc.Total.StringFixed(2),
	)
}

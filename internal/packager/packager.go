// Package packager bundles a case's documents, conversions and stored attachments into one zip archive.
package packager

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
	"go.uber.org/zap"

	"github.com/Lllllllleong/lawsuitflow/internal/apperr"
	"github.com/Lllllllleong/lawsuitflow/internal/batch"
	"github.com/Lllllllleong/lawsuitflow/internal/convert"
	"github.com/Lllllllleong/lawsuitflow/internal/fetch"
	"github.com/Lllllllleong/lawsuitflow/internal/generator"
	"github.com/Lllllllleong/lawsuitflow/internal/metrics"
	"github.com/Lllllllleong/lawsuitflow/internal/models"
)

// InvoicesFolder holds the per-invoice PDFs. It is not numbered.
const InvoicesFolder = "Invoices"

// DocxWarning is surfaced when the memo PDF exists but its Word copy could not be produced.
const DocxWarning = "The Word copy of the explanatory memo could not be created. Open the memo HTML returned by " +
	"document generation in Microsoft Word and save it as .docx to obtain an editable copy."

// Fetcher downloads stored attachments. fetch.Client is the production implementation.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (fetch.Object, error)
}

// Rendered is the ready HTML of each document kind.
type Rendered map[models.DocumentKind]string

// Failure is one archive entry that could not be produced.
type Failure struct {
	Entry string
	Err   error
}

// Archive is a serialized zip and what went into it.
type Archive struct {
	FileName string
	Folder   string
	Data     []byte
	Entries  []string
	Failures []Failure
	Warnings []string
}

// Messages flattens warnings and per-entry failures into display strings.
func (a *Archive) Messages() []string {
	out := append([]string(nil), a.Warnings...)
	for _, fl := range a.Failures {
		out = append(out, fmt.Sprintf("%s: %v", fl.Entry, fl.Err))
	}
	return out
}

// Packager builds export archives.
type Packager struct {
	pdf     convert.PDFConverter
	docx    convert.DocxConverter
	fetcher Fetcher
	log     *zap.Logger
	now     func() time.Time
}

func New(pdf convert.PDFConverter, docx convert.DocxConverter, fetcher Fetcher, log *zap.Logger) *Packager {
	return &Packager{pdf: pdf, docx: docx, fetcher: fetcher, log: log, now: time.Now}
}

type entry struct {
	name string
	data []byte
}

// builder accumulates entries and hands out the shared two-digit prefix. A number is consumed only when an
// artifact was actually added. Entry names are unique within the archive.
type builder struct {
	entries  []entry
	failures []Failure
	warnings []string
	counter  int
	used     map[string]bool
}

func (b *builder) next() string {
	b.counter++
	return fmt.Sprintf("%02d_", b.counter)
}

func (b *builder) add(name string, data []byte) {
	b.entries = append(b.entries, entry{name: b.unique(name), data: data})
}

// unique returns name, or name with a _2, _3, ... suffix before its extension when already taken.
func (b *builder) unique(name string) string {
	if b.used == nil {
		b.used = make(map[string]bool)
	}
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	candidate := name
	for i := 2; b.used[candidate]; i++ {
		candidate = fmt.Sprintf("%s_%d%s", stem, i, ext)
	}
	b.used[candidate] = true
	return candidate
}

func (b *builder) fail(name string, err error) {
	b.failures = append(b.failures, Failure{Entry: name, Err: err})
	metrics.ArtifactFailures.WithLabelValues("export", string(apperr.CodeOf(err))).Inc()
}

// Export assembles the archive for c. Only a missing contract or a failure to serialize the zip abort it; every
// other step is isolated and reported in Archive.Failures.
func (p *Packager) Export(ctx context.Context, c models.CaseContext, rendered Rendered) (*Archive, error) {
	if c.Contract == nil {
		return nil, &apperr.MissingContractError{ContractID: c.ContractID}
	}
	logCtx := p.log.With(zap.String("contractId", c.ContractID), zap.String("companyId", c.CompanyID))
	start := p.now()
	defer func() {
		metrics.OperationDuration.WithLabelValues("export_case").Observe(time.Since(start).Seconds())
	}()

	b := &builder{}

	// --- 1. Memo as PDF and DOCX ---
	if html := rendered[models.KindMemo]; html != "" {
		p.addMemo(ctx, logCtx, b, html)
	}

	// --- 2. Claims statement as-is ---
	if html := rendered[models.KindClaims]; html != "" {
		b.add(b.next()+baseName(models.KindClaims)+".html", []byte(html))
	}

	// --- 3. Invoices, each on its own ---
	p.addInvoices(ctx, logCtx, b, c)

	// --- 4. Criminal complaint and violations transfer ---
	for _, k := range []models.DocumentKind{models.KindCriminalComplaint, models.KindViolations} {
		if html := rendered[k]; html != "" {
			b.add(b.next()+baseName(k)+".html", []byte(html))
		}
	}

	// --- 5. Company documents ---
	var attachments []attachment
	for _, dt := range []string{models.CompanyDocCommercialRegister, models.CompanyDocIBANCertificate, models.CompanyDocRepresentativeID} {
		if d, ok := c.CompanyDocument(dt); ok {
			attachments = append(attachments, attachment{label: companyDocName(dt), url: d.URL})
		}
	}
	// --- 6. Signed contract copy ---
	if c.ContractFile != nil && c.ContractFile.URL != "" {
		attachments = append(attachments, attachment{label: baseName(models.KindContract), url: c.ContractFile.URL})
	}
	p.addAttachments(ctx, logCtx, b, attachments)

	// --- 7. Serialize under one folder ---
	folder := FolderName(c)
	data, names, err := p.zip(folder, b.entries)
	if err != nil {
		logCtx.Error("Failed to serialize archive", zap.Error(err))
		return nil, fmt.Errorf("serialize archive: %w", err)
	}
	metrics.ArchivesBuilt.Inc()
	logCtx.Info("Archive assembled.",
		zap.String("folder", folder),
		zap.Int("entries", len(names)),
		zap.Int("failures", len(b.failures)),
	)

	return &Archive{
		FileName: folder + ".zip",
		Folder:   folder,
		Data:     data,
		Entries:  names,
		Failures: b.failures,
		Warnings: b.warnings,
	}, nil
}

func (p *Packager) addMemo(ctx context.Context, logCtx *zap.Logger, b *builder, html string) {
	name := baseName(models.KindMemo)

	pdf, pdfErr := p.pdf.HTMLToPDF(ctx, html)
	pdfOK := pdfErr == nil && !pdf.Unavailable
	switch {
	case pdfErr != nil:
		err := &apperr.ConversionError{Format: "pdf", Target: "memo", Err: pdfErr}
		logCtx.Warn("Memo PDF conversion failed", zap.Error(err))
		b.fail(name+".pdf", err)
	case pdf.Unavailable:
		logCtx.Info("PDF conversion unavailable; skipping memo PDF")
		b.warnings = append(b.warnings, "PDF conversion is not available; the memo PDF was skipped")
	}

	docx, docxErr := p.docx.HTMLToDocx(ctx, html)
	docxOK := docxErr == nil && !docx.Unavailable
	if docxErr != nil {
		err := &apperr.ConversionError{Format: "docx", Target: "memo", Err: docxErr}
		logCtx.Warn("Memo DOCX conversion failed", zap.Error(err))
		b.fail(name+".docx", err)
	}

	if !pdfOK && !docxOK {
		return
	}
	prefix := b.next()
	if pdfOK {
		b.add(prefix+name+".pdf", pdf.Data)
	}
	if docxOK {
		b.add(prefix+name+".docx", docx.Data)
	}
	if pdfOK && !docxOK {
		b.warnings = append(b.warnings, DocxWarning)
	}
}

func (p *Packager) addInvoices(ctx context.Context, logCtx *zap.Logger, b *builder, c models.CaseContext) {
	outcomes := batch.MapSettled(ctx, c.OverdueInvoices, func(ctx context.Context, inv models.Invoice) (entry, error) {
		label := "فاتورة"
		if id := SanitizeName(orID(inv)); id != "" {
			label += "_" + id
		}
		html, err := generator.Invoice(c, inv)
		if err != nil {
			return entry{name: label}, err
		}
		res, err := p.pdf.HTMLToPDF(ctx, html)
		if err != nil {
			return entry{name: label}, &apperr.ConversionError{Format: "pdf", Target: "invoice " + inv.Number, Err: err}
		}
		if res.Unavailable {
			return entry{name: InvoicesFolder + "/" + label + ".html", data: []byte(html)}, nil
		}
		return entry{name: InvoicesFolder + "/" + label + ".pdf", data: res.Data}, nil
	})

	for _, o := range outcomes {
		if o.Err != nil {
			logCtx.Warn("Invoice skipped", zap.String("invoiceId", o.Item.ID), zap.Error(o.Err))
			b.fail(InvoicesFolder+"/"+o.Value.name, o.Err)
			continue
		}
		b.add(o.Value.name, o.Value.data)
	}
}

type attachment struct {
	label string
	url   string
}

func (p *Packager) addAttachments(ctx context.Context, logCtx *zap.Logger, b *builder, items []attachment) {
	outcomes := batch.MapSettled(ctx, items, func(ctx context.Context, a attachment) (fetch.Object, error) {
		if p.fetcher == nil {
			return fetch.Object{}, &apperr.FetchError{URL: a.url, Err: fmt.Errorf("no fetcher configured")}
		}
		return p.fetcher.Fetch(ctx, a.url)
	})
	for _, o := range outcomes {
		if o.Err != nil {
			logCtx.Warn("Attachment skipped", zap.String("attachment", o.Item.label), zap.Error(o.Err))
			b.fail(o.Item.label, o.Err)
			continue
		}
		b.add(b.next()+o.Item.label+"."+o.Value.Extension(), o.Value.Data)
	}
}

func (p *Packager) zip(folder string, entries []entry) ([]byte, []string, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	modified := p.now()
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := folder + "/" + e.name
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: modified})
		if err != nil {
			return nil, nil, fmt.Errorf("create entry %s: %w", name, err)
		}
		if _, err := w.Write(e.data); err != nil {
			return nil, nil, fmt.Errorf("write entry %s: %w", name, err)
		}
		names = append(names, name)
	}
	if err := zw.Close(); err != nil {
		return nil, nil, err
	}
	return buf.Bytes(), names, nil
}

// unsafeNameChars covers characters that are invalid in file names on common filesystems.
var unsafeNameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]+`)
var whitespaceRun = regexp.MustCompile(`\s+`)

// SanitizeName makes s safe as a single path segment while keeping non-Latin letters.
func SanitizeName(s string) string {
	s = unsafeNameChars.ReplaceAllString(s, "_")
	s = whitespaceRun.ReplaceAllString(strings.TrimSpace(s), "_")
	s = strings.Trim(s, "._")

	const maxLength = 100
	if r := []rune(s); len(r) > maxLength {
		s = strings.Trim(string(r[:maxLength]), "._")
	}
	return s
}

// FolderName is "{customer}_{contract number}", sanitized.
func FolderName(c models.CaseContext) string {
	customer := SanitizeName(c.CustomerName())
	if customer == "" {
		customer = "customer"
	}
	number := SanitizeName(c.ContractNumber())
	if number == "" {
		number = SanitizeName(c.ContractID)
	}
	return customer + "_" + number
}

func baseName(k models.DocumentKind) string {
	ar, _ := k.Titles()
	return SanitizeName(ar)
}

func companyDocName(docType string) string {
	switch docType {
	case models.CompanyDocCommercialRegister:
		return "السجل_التجاري"
	case models.CompanyDocIBANCertificate:
		return "شهادة_IBAN"
	case models.CompanyDocRepresentativeID:
		return "هوية_الممثل"
	}
	return SanitizeName(docType)
}

func orID(inv models.Invoice) string {
	if inv.Number != "" {
		return inv.Number
	}
	return inv.ID
}

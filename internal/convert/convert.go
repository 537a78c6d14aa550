// Package convert turns generated HTML into PDF and DOCX. Both conversions are capabilities that may be missing
// at runtime; callers branch on Result.Unavailable instead of treating a missing capability as a failure.
package convert

import "context"

// Result is the outcome of a conversion that did not fail. Data is nil when Unavailable is set.
type Result struct {
	Data        []byte
	Unavailable bool
}

// Ok wraps converted bytes.
func Ok(data []byte) Result { return Result{Data: data} }

// NotAvailable reports a missing capability.
func NotAvailable() Result { return Result{Unavailable: true} }

// PDFConverter rasterizes HTML into a paginated PDF.
type PDFConverter interface {
	HTMLToPDF(ctx context.Context, html string) (Result, error)
}

// DocxConverter wraps HTML into a Word document.
type DocxConverter interface {
	HTMLToDocx(ctx context.Context, html string) (Result, error)
}

// Disabled reports every conversion as unavailable.
type Disabled struct{}

func (Disabled) HTMLToPDF(context.Context, string) (Result, error)  { return NotAvailable(), nil }
func (Disabled) HTMLToDocx(context.Context, string) (Result, error) { return NotAvailable(), nil }

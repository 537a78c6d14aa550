package convert

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// A4 proportions and the default capture width, matching the 794px page width of the generated documents.
const (
	DefaultPageWidth = 794
	DefaultMaxPages  = 10
	a4Width          = 210
	a4Height         = 297
)

// Rasterizer renders HTML into one tall image, slices it into A4 pages and assembles them into a PDF.
type Rasterizer struct {
	renderer  Renderer
	pageWidth int
	maxPages  int
	quality   int
}

// NewRasterizer returns a PDFConverter. A nil renderer makes every conversion unavailable.
func NewRasterizer(renderer Renderer, maxPages int) *Rasterizer {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Rasterizer{renderer: renderer, pageWidth: DefaultPageWidth, maxPages: maxPages, quality: 92}
}

func (r *Rasterizer) HTMLToPDF(ctx context.Context, html string) (Result, error) {
	if r.renderer == nil {
		return NotAvailable(), nil
	}
	shot, err := r.renderer.Screenshot(ctx, html, r.pageWidth)
	if err != nil {
		return Result{}, fmt.Errorf("capture: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(shot))
	if err != nil {
		return Result{}, fmt.Errorf("decode capture: %w", err)
	}

	pages, err := Paginate(img, r.maxPages, r.quality)
	if err != nil {
		return Result{}, err
	}
	pdf, err := assemble(pages)
	if err != nil {
		return Result{}, err
	}
	return Ok(pdf), nil
}

// PageHeight is the A4 page height for a given width.
func PageHeight(width int) int {
	return width * a4Height / a4Width
}

// Paginate slices img into A4-proportioned JPEG pages, looping while content remains, up to maxPages. The last
// page is padded with white.
func Paginate(img image.Image, maxPages, quality int) ([][]byte, error) {
	b := img.Bounds()
	width := b.Dx()
	if width <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("capture is empty")
	}
	pageHeight := PageHeight(width)

	var pages [][]byte
	for y, remaining := b.Min.Y, b.Dy(); remaining > 0 && len(pages) < maxPages; y, remaining = y+pageHeight, remaining-pageHeight {
		page := image.NewRGBA(image.Rect(0, 0, width, pageHeight))
		draw.Draw(page, page.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
		draw.Draw(page, page.Bounds(), img, image.Pt(b.Min.X, y), draw.Over)

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, page, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("encode page %d: %w", len(pages)+1, err)
		}
		pages = append(pages, buf.Bytes())
	}
	return pages, nil
}

func assemble(pages [][]byte) ([]byte, error) {
	readers := make([]io.Reader, len(pages))
	for i, p := range pages {
		readers[i] = bytes.NewReader(p)
	}
	imp := pdfcpu.DefaultImportConfig()
	conf := model.NewDefaultConfiguration()

	var out bytes.Buffer
	if err := api.ImportImages(nil, &out, readers, imp, conf); err != nil {
		return nil, fmt.Errorf("assemble pdf: %w", err)
	}
	return out.Bytes(), nil
}

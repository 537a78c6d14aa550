// Package generator renders the lawsuit documents as self-contained right-to-left HTML.
//
// Every function here is pure: the output depends only on the CaseContext it is given, which carries its own AsOf
// instant. Errors are returned only for malformed input and always as *apperr.GenerationError.
package generator

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/Lllllllleong/lawsuitflow/internal/apperr"
	"github.com/Lllllllleong/lawsuitflow/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(
	template.New("documents").Funcs(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}).ParseFS(templateFS, "templates/*.html"),
)

// Func renders one document kind.
type Func func(models.CaseContext) (string, error)

var registry = map[models.DocumentKind]Func{
	models.KindMemo:              Memo,
	models.KindClaims:            Claims,
	models.KindDocsList:          DocumentsList,
	models.KindViolations:        ViolationsTransfer,
	models.KindCriminalComplaint: CriminalComplaint,
}

// For returns the generator of kind k. The contract copy is uploaded, never generated.
func For(k models.DocumentKind) (Func, bool) {
	fn, ok := registry[k]
	return fn, ok
}

// Generate renders kind k for c.
func Generate(k models.DocumentKind, c models.CaseContext) (string, error) {
	fn, ok := For(k)
	if !ok {
		return "", &apperr.GenerationError{Kind: k.String(), Err: fmt.Errorf("no generator for document kind")}
	}
	return fn(c)
}

// IsApplicable reports whether kind k should be generated for c at all. Inapplicable kinds stay pending and never
// count toward readiness.
func IsApplicable(k models.DocumentKind, c models.CaseContext) bool {
	switch k {
	case models.KindMemo, models.KindClaims, models.KindDocsList:
		return true
	case models.KindViolations:
		return len(c.TrafficViolations) > 0
	case models.KindCriminalComplaint:
		return c.VehicleWithheld
	}
	return false
}

// Applicable lists the kinds to generate for c, in pipeline order.
func Applicable(c models.CaseContext) []models.DocumentKind {
	var out []models.DocumentKind
	for _, k := range models.AllKinds() {
		if IsApplicable(k, c) {
			out = append(out, k)
		}
	}
	return out
}

// Memo renders the explanatory memorandum.
func Memo(c models.CaseContext) (string, error) {
	return generate(models.KindMemo, "memo.html", c, func(p page) (any, error) {
		lines, err := ClaimLines(c)
		if err != nil {
			return nil, err
		}
		v := memoView{page: p, amountsView: amounts(c, lines)}
		if c.TaqadiData != nil && c.TaqadiData.Facts != "" {
			v.Facts = c.TaqadiData.Facts
		} else {
			v.Narrative = memoNarrative(c)
		}
		return v, nil
	})
}

// Claims renders the itemized claims statement.
func Claims(c models.CaseContext) (string, error) {
	return generate(models.KindClaims, "claims.html", c, func(p page) (any, error) {
		lines, err := ClaimLines(c)
		if err != nil {
			return nil, err
		}
		return claimsView{page: p, amountsView: amounts(c, lines)}, nil
	})
}

// DocumentsList renders the index of exhibits that accompany the filing.
func DocumentsList(c models.CaseContext) (string, error) {
	return generate(models.KindDocsList, "docs_list.html", c, func(p page) (any, error) {
		return docsListView{page: p, Exhibits: exhibits(c)}, nil
	})
}

// ViolationsTransfer renders the request to transfer traffic fines to the renter.
func ViolationsTransfer(c models.CaseContext) (string, error) {
	return generate(models.KindViolations, "violations.html", c, func(p page) (any, error) {
		if len(c.TrafficViolations) == 0 {
			return nil, fmt.Errorf("no traffic violations to transfer")
		}
		v := violationsView{page: p, Count: len(c.TrafficViolations)}
		total := c.Calculations.ViolationsFines
		if total.IsZero() {
			for _, tv := range c.TrafficViolations {
				total = total.Add(tv.Fine)
			}
		}
		v.Total = FormatAmount(total)
		for _, tv := range c.TrafficViolations {
			v.Rows = append(v.Rows, violationRow{
				Number:      orDash(tv.Number),
				Date:        FormatDate(tv.Date),
				Description: orDash(tv.Description),
				Location:    orDash(tv.Location),
				Fine:        FormatAmount(tv.Fine),
			})
		}
		return v, nil
	})
}

// CriminalComplaint renders the complaint filed when the renter keeps the vehicle.
func CriminalComplaint(c models.CaseContext) (string, error) {
	return generate(models.KindCriminalComplaint, "criminal_complaint.html", c, func(p page) (any, error) {
		return complaintView{page: p, Narrative: complaintNarrative(c)}, nil
	})
}

// Invoice renders a standalone invoice for the export archive.
func Invoice(c models.CaseContext, inv models.Invoice) (string, error) {
	fail := func(err error) error { return &apperr.GenerationError{Kind: "invoice " + inv.Number, Err: err} }
	if c.Contract == nil {
		return "", fail(fmt.Errorf("contract is missing"))
	}
	p := newPage(c, "فاتورة إيجار", "Rental Invoice")
	v := invoiceView{
		page:        p,
		Number:      orDash(inv.Number),
		DueDate:     FormatDate(inv.DueDate),
		Total:       FormatAmount(inv.Total),
		Paid:        FormatAmount(inv.Paid),
		Outstanding: FormatAmount(inv.Outstanding()),
	}
	out, err := render("invoice.html", v)
	if err != nil {
		return "", fail(err)
	}
	return out, nil
}

// generate checks the inputs every document needs, builds its view and renders it.
func generate(k models.DocumentKind, name string, c models.CaseContext, build func(page) (any, error)) (string, error) {
	fail := func(err error) error { return &apperr.GenerationError{Kind: k.String(), Err: err} }
	if err := requireBase(c); err != nil {
		return "", fail(err)
	}
	ar, en := k.Titles()
	data, err := build(newPage(c, ar, en))
	if err != nil {
		return "", fail(err)
	}
	out, err := render(name, data)
	if err != nil {
		return "", fail(err)
	}
	return out, nil
}

func requireBase(c models.CaseContext) error {
	switch {
	case c.Contract == nil:
		return fmt.Errorf("contract is missing")
	case c.Customer == nil:
		return fmt.Errorf("customer is missing")
	case c.Calculations == nil:
		return fmt.Errorf("calculations are missing")
	}
	return nil
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

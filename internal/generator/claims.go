package generator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Lllllllleong/lawsuitflow/internal/models"
)

// ClaimLine is one itemized row of the claims statement.
type ClaimLine struct {
	Label  string
	Amount decimal.Decimal
}

// ClaimLines itemizes c.Calculations. Rent is listed per overdue invoice when the invoice balances add up to
// OverdueRent and as a single aggregated line otherwise. The lines always sum to Total or an error is returned.
func ClaimLines(c models.CaseContext) ([]ClaimLine, error) {
	if c.Calculations == nil {
		return nil, fmt.Errorf("calculations are missing")
	}
	calc := *c.Calculations

	var lines []ClaimLine
	if rent := invoiceRentLines(c.OverdueInvoices); len(rent) > 0 && sumLines(rent).Equal(calc.OverdueRent) {
		lines = append(lines, rent...)
	} else if !calc.OverdueRent.IsZero() {
		lines = append(lines, ClaimLine{Label: "الإيجار المتأخر المستحق", Amount: calc.OverdueRent})
	}

	if !calc.LateFees.IsZero() {
		lines = append(lines, ClaimLine{Label: "غرامات التأخير في السداد", Amount: calc.LateFees})
	}
	if !calc.ViolationsFines.IsZero() {
		lines = append(lines, ClaimLine{
			Label:  fmt.Sprintf("قيمة المخالفات المرورية (%d مخالفة)", calc.ViolationsCount),
			Amount: calc.ViolationsFines,
		})
	}
	if !calc.DamagesFee.IsZero() {
		lines = append(lines, ClaimLine{Label: "تعويض الأضرار اللاحقة بالمركبة", Amount: calc.DamagesFee})
	}

	if sum := sumLines(lines); !sum.Equal(calc.Total) {
		return nil, fmt.Errorf("claim lines sum to %s but total is %s", sum.StringFixed(2), calc.Total.StringFixed(2))
	}
	return lines, nil
}

func invoiceRentLines(invoices []models.Invoice) []ClaimLine {
	var out []ClaimLine
	for _, inv := range invoices {
		bal := inv.Outstanding()
		if !bal.IsPositive() {
			continue
		}
		out = append(out, ClaimLine{
			Label:  fmt.Sprintf("إيجار متأخر - فاتورة رقم %s (استحقاق %s)", orDash(inv.Number), FormatDate(inv.DueDate)),
			Amount: bal,
		})
	}
	return out
}

func sumLines(lines []ClaimLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Amount)
	}
	return sum
}

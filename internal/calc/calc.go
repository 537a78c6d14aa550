// Package calc derives the delinquency figures quoted in every generated document.
package calc

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Lllllllleong/lawsuitflow/internal/models"
)

// LateFeePolicy charges a flat amount per day an invoice is overdue, capped per invoice.
type LateFeePolicy struct {
	DailyRate     decimal.Decimal
	CapPerInvoice decimal.Decimal
}

// DefaultLateFeePolicy is 120 per day, capped at 3000 per invoice.
func DefaultLateFeePolicy() LateFeePolicy {
	return LateFeePolicy{
		DailyRate:     decimal.NewFromInt(120),
		CapPerInvoice: decimal.NewFromInt(3000),
	}
}

// Fee returns the late fee owed on inv as of asOf. Settled or not-yet-due invoices owe nothing.
func (p LateFeePolicy) Fee(inv models.Invoice, asOf time.Time) decimal.Decimal {
	if !inv.Outstanding().IsPositive() {
		return decimal.Zero
	}
	days := DaysOverdue(inv.DueDate, asOf)
	if days <= 0 {
		return decimal.Zero
	}
	fee := p.DailyRate.Mul(decimal.NewFromInt(int64(days)))
	if p.CapPerInvoice.IsPositive() && fee.GreaterThan(p.CapPerInvoice) {
		return p.CapPerInvoice
	}
	return fee
}

// DaysOverdue counts whole calendar days between due and asOf, in UTC.
func DaysOverdue(due, asOf time.Time) int {
	d := truncateDay(due)
	a := truncateDay(asOf)
	if !a.After(d) {
		return 0
	}
	return int(a.Sub(d).Hours() / 24)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Input is everything Compute needs. Damages are assessed manually and passed through.
type Input struct {
	Invoices   []models.Invoice
	Violations []models.Violation
	DamagesFee decimal.Decimal
	AsOf       time.Time
}

// Compute sums outstanding rent, late fees and fines. Invoices due after AsOf are ignored.
func Compute(in Input, policy LateFeePolicy) models.Calculations {
	rent := decimal.Zero
	fees := decimal.Zero
	for _, inv := range in.Invoices {
		if inv.DueDate.After(in.AsOf) {
			continue
		}
		rent = rent.Add(inv.Outstanding())
		fees = fees.Add(policy.Fee(inv, in.AsOf))
	}

	fines := decimal.Zero
	for _, v := range in.Violations {
		fines = fines.Add(v.Fine)
	}

	return models.NewCalculations(rent, fees, fines, in.DamagesFee, len(in.Violations))
}

// Overdue filters invoices to those due on or before asOf with a positive balance, keeping order.
func Overdue(invoices []models.Invoice, asOf time.Time) []models.Invoice {
	out := make([]models.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if inv.DueDate.After(asOf) || !inv.Outstanding().IsPositive() {
			continue
		}
		out = append(out, inv)
	}
	return out
}

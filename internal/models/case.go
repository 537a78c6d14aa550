package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CaseContext is the read-only snapshot every stage of the lawsuit pipeline works from.
// It is built once per request and passed by value; nothing downstream mutates it.
type CaseContext struct {
	ContractID        string            `json:"contractId"`
	CompanyID         string            `json:"companyId"`
	Contract          *Contract         `json:"contract,omitempty"`
	Customer          *Customer         `json:"customer,omitempty"`
	Vehicle           *Vehicle          `json:"vehicle,omitempty"`
	Calculations      *Calculations     `json:"calculations,omitempty"`
	OverdueInvoices   []Invoice         `json:"overdueInvoices,omitempty"`
	TrafficViolations []Violation       `json:"trafficViolations,omitempty"`
	TaqadiData        *TaqadiData       `json:"taqadiData,omitempty"`
	CompanyDocuments  []CompanyDocument `json:"companyDocuments,omitempty"`
	ContractFile      *StoredFile       `json:"contractFile,omitempty"`
	VehicleWithheld   bool              `json:"vehicleWithheld,omitempty"`
	AsOf              time.Time         `json:"asOf"`
}

// Contract holds the rental agreement terms quoted in the generated documents.
type Contract struct {
	ID            string          `json:"id"`
	Number        string          `json:"number"`
	StartDate     time.Time       `json:"startDate"`
	EndDate       time.Time       `json:"endDate"`
	MonthlyAmount decimal.Decimal `json:"monthlyAmount"`
	VehicleID     string          `json:"vehicleId,omitempty"`
	CustomerID    string          `json:"customerId,omitempty"`
}

// Customer is the defendant. Name parts are kept separate because the court forms ask for them individually.
type Customer struct {
	ID          string `json:"id,omitempty"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	CompanyName string `json:"companyName,omitempty"`
	NationalID  string `json:"nationalId"`
	Nationality string `json:"nationality"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
}

// FullName returns the customer's display name, falling back to the company name for corporate renters.
func (c *Customer) FullName() string {
	if c == nil {
		return ""
	}
	name := strings.TrimSpace(strings.Join([]string{c.FirstName, c.LastName}, " "))
	if name == "" {
		return strings.TrimSpace(c.CompanyName)
	}
	return name
}

type Vehicle struct {
	ID    string `json:"id,omitempty"`
	Plate string `json:"plate"`
	Make  string `json:"make"`
	Model string `json:"model"`
	Year  int    `json:"year"`
	Color string `json:"color"`
	VIN   string `json:"vin"`
}

// Description is "Make Model Year" with empty parts dropped.
func (v *Vehicle) Description() string {
	if v == nil {
		return ""
	}
	parts := make([]string, 0, 3)
	for _, p := range []string{v.Make, v.Model} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if v.Year > 0 {
		parts = append(parts, fmt.Sprintf("%d", v.Year))
	}
	return strings.Join(parts, " ")
}

// Calculations are the derived delinquency figures. Build them with NewCalculations so that
// Total is always the sum of its components.
type Calculations struct {
	OverdueRent     decimal.Decimal `json:"overdueRent"`
	LateFees        decimal.Decimal `json:"lateFees"`
	ViolationsFines decimal.Decimal `json:"violationsFines"`
	ViolationsCount int             `json:"violationsCount"`
	DamagesFee      decimal.Decimal `json:"damagesFee"`
	Total           decimal.Decimal `json:"total"`
}

// NewCalculations recomputes the total from the component amounts.
func NewCalculations(overdueRent, lateFees, violationsFines, damagesFee decimal.Decimal, violationsCount int) Calculations {
	return Calculations{
		OverdueRent:     overdueRent,
		LateFees:        lateFees,
		ViolationsFines: violationsFines,
		ViolationsCount: violationsCount,
		DamagesFee:      damagesFee,
		Total:           overdueRent.Add(lateFees).Add(violationsFines).Add(damagesFee),
	}
}

// Validate reports whether Total still equals the sum of the components.
func (c Calculations) Validate() error {
	sum := c.OverdueRent.Add(c.LateFees).Add(c.ViolationsFines).Add(c.DamagesFee)
	if !sum.Equal(c.Total) {
		return fmt.Errorf("calculations total %s does not match component sum %s", c.Total.StringFixed(2), sum.StringFixed(2))
	}
	return nil
}

// Invoice is an unpaid or partially paid rent invoice whose due date has passed.
type Invoice struct {
	ID      string          `json:"id"`
	Number  string          `json:"number"`
	DueDate time.Time       `json:"dueDate"`
	Total   decimal.Decimal `json:"total"`
	Paid    decimal.Decimal `json:"paid"`
}

// Outstanding is the unpaid balance, never negative.
func (i Invoice) Outstanding() decimal.Decimal {
	balance := i.Total.Sub(i.Paid)
	if balance.IsNegative() {
		return decimal.Zero
	}
	return balance
}

// Violation is an unpaid traffic fine recorded against the vehicle during the contract period.
type Violation struct {
	ID          string          `json:"id"`
	Number      string          `json:"number"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Location    string          `json:"location,omitempty"`
	Fine        decimal.Decimal `json:"fine"`
}

// TaqadiData is free text the user prepares for the court e-filing portal.
type TaqadiData struct {
	CaseTitle     string `json:"caseTitle,omitempty"`
	Facts         string `json:"facts,omitempty"`
	Claims        string `json:"claims,omitempty"`
	AmountInWords string `json:"amountInWords,omitempty"`
}

// Company document type tags bundled with every filing.
const (
	CompanyDocCommercialRegister = "commercial_register"
	CompanyDocIBANCertificate    = "iban_certificate"
	CompanyDocRepresentativeID   = "representative_id"
)

// CompanyDocument is one of the lessor's own supporting files.
type CompanyDocument struct {
	DocumentType string `json:"document_type"`
	URL          string `json:"url"`
	FileName     string `json:"fileName,omitempty"`
}

// StoredFile is a previously uploaded binary referenced by a durable URL.
type StoredFile struct {
	URL      string `json:"url"`
	FileName string `json:"fileName,omitempty"`
}

// CompanyDocument returns the first company document with the given type tag.
func (c CaseContext) CompanyDocument(docType string) (CompanyDocument, bool) {
	for _, d := range c.CompanyDocuments {
		if d.DocumentType == docType && d.URL != "" {
			return d, true
		}
	}
	return CompanyDocument{}, false
}

// CustomerName is a nil-safe shortcut used by every document header.
func (c CaseContext) CustomerName() string {
	return c.Customer.FullName()
}

// ContractNumber is a nil-safe shortcut for the contract number.
func (c CaseContext) ContractNumber() string {
	if c.Contract == nil {
		return ""
	}
	return c.Contract.Number
}

package registrar

import (
	"strings"
	"time"

	"github.com/Lllllllleong/lawsuitflow/internal/models"
)

// SplitName breaks a full name into first, middle and last parts. A single word is a first name; the last word is
// the last name; everything between is the middle name.
func SplitName(full string) (first, middle, last string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", "", ""
	case 1:
		return parts[0], "", ""
	}
	return parts[0], strings.Join(parts[1:len(parts)-1], " "), parts[len(parts)-1]
}

// BuildTemplate denormalizes the case into the shape the court-form renderer reads.
func BuildTemplate(c models.CaseContext, caseID, title, userID string, now time.Time) models.LawsuitTemplate {
	first, middle, last := SplitName(c.CustomerName())
	calc := c.Calculations
	t := models.LawsuitTemplate{
		CaseID:              caseID,
		CompanyID:           c.CompanyID,
		ContractID:          c.ContractID,
		CaseTitle:           title,
		DefendantFirstName:  first,
		DefendantMiddleName: middle,
		DefendantLastName:   last,
		ContractNumber:      c.ContractNumber(),
		OverdueRent:         calc.OverdueRent.StringFixed(2),
		LateFees:            calc.LateFees.StringFixed(2),
		ViolationsFines:     calc.ViolationsFines.StringFixed(2),
		DamagesFee:          calc.DamagesFee.StringFixed(2),
		TotalAmount:         calc.Total.StringFixed(2),
		CreatedBy:           userID,
		CreatedAt:           now,
	}
	if cu := c.Customer; cu != nil {
		t.DefendantNationalID = cu.NationalID
		t.DefendantPhone = cu.Phone
		t.DefendantEmail = cu.Email
		t.DefendantAddress = cu.Address
	}
	if ct := c.Contract; ct != nil {
		t.ContractStartDate = ct.StartDate
		t.ContractEndDate = ct.EndDate
	}
	if v := c.Vehicle; v != nil {
		t.VehiclePlate = v.Plate
		t.VehicleDescription = v.Description()
	}
	if td := c.TaqadiData; td != nil {
		t.Facts = td.Facts
		t.Claims = td.Claims
		t.AmountInWords = td.AmountInWords
	}
	return t
}

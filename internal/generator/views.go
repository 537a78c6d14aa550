package generator

import (
	"fmt"
	"time"

	"github.com/Lllllllleong/lawsuitflow/internal/models"
)

type party struct {
	Name        string
	NationalID  string
	Nationality string
	Phone       string
	Email       string
	Address     string
}

type contractView struct {
	Number        string
	StartDate     string
	EndDate       string
	MonthlyAmount string
	Vehicle       string
	Plate         string
	Color         string
	VIN           string
}

// page is the header data shared by every document.
type page struct {
	TitleAr   string
	TitleEn   string
	Date      string
	Defendant party
	Contract  contractView
}

type amountLine struct {
	Label  string
	Amount string
}

type amountsView struct {
	Lines         []amountLine
	Total         string
	AmountInWords string
	ClaimsText    string
	Requests      []string
}

type memoView struct {
	page
	amountsView
	Facts     string
	Narrative []string
}

type claimsView struct {
	page
	amountsView
}

type exhibit struct {
	Title       string
	Description string
}

type docsListView struct {
	page
	Exhibits []exhibit
}

type violationRow struct {
	Number      string
	Date        string
	Description string
	Location    string
	Fine        string
}

type violationsView struct {
	page
	Rows  []violationRow
	Count int
	Total string
}

type complaintView struct {
	page
	Narrative []string
}

type invoiceView struct {
	page
	Number      string
	DueDate     string
	Total       string
	Paid        string
	Outstanding string
}

func newPage(c models.CaseContext, titleAr, titleEn string) page {
	p := page{TitleAr: titleAr, TitleEn: titleEn, Date: FormatDate(c.AsOf)}
	if cu := c.Customer; cu != nil {
		p.Defendant = party{
			Name:        orDash(cu.FullName()),
			NationalID:  orDash(cu.NationalID),
			Nationality: orDash(cu.Nationality),
			Phone:       orDash(cu.Phone),
			Email:       orDash(cu.Email),
			Address:     orDash(cu.Address),
		}
	}
	if ct := c.Contract; ct != nil {
		p.Contract = contractView{
			Number:        orDash(ct.Number),
			StartDate:     FormatDate(ct.StartDate),
			EndDate:       FormatDate(ct.EndDate),
			MonthlyAmount: FormatAmount(ct.MonthlyAmount),
		}
	}
	if v := c.Vehicle; v != nil {
		p.Contract.Vehicle = orDash(v.Description())
		p.Contract.Plate = orDash(v.Plate)
		p.Contract.Color = orDash(v.Color)
		p.Contract.VIN = orDash(v.VIN)
	} else {
		p.Contract.Vehicle, p.Contract.Plate, p.Contract.Color, p.Contract.VIN = "-", "-", "-", "-"
	}
	return p
}

func amounts(c models.CaseContext, lines []ClaimLine) amountsView {
	v := amountsView{Total: FormatAmount(c.Calculations.Total)}
	for _, l := range lines {
		v.Lines = append(v.Lines, amountLine{Label: l.Label, Amount: FormatAmount(l.Amount)})
	}
	if td := c.TaqadiData; td != nil {
		v.AmountInWords = td.AmountInWords
		v.ClaimsText = td.Claims
	}
	v.Requests = []string{
		fmt.Sprintf("إلزام المدعى عليه بأن يؤدي للمدعية مبلغاً وقدره %s.", v.Total),
		"إلزام المدعى عليه بالرسوم والمصاريف ومقابل أتعاب المحاماة.",
		"شمول الحكم بالنفاذ المعجل وبلا كفالة.",
	}
	return v
}

func memoNarrative(c models.CaseContext) []string {
	calc := c.Calculations
	ct := c.Contract
	out := []string{fmt.Sprintf(
		"بموجب عقد الإيجار رقم %s المؤرخ %s استأجر المدعى عليه %s من المدعية المركبة %s لوحة رقم %s مقابل أجرة شهرية قدرها %s.",
		orDash(ct.Number), FormatDate(ct.StartDate), c.CustomerName(), vehicleDescription(c), vehiclePlate(c), FormatAmount(ct.MonthlyAmount),
	)}

	if n := len(c.OverdueInvoices); n > 0 {
		out = append(out, fmt.Sprintf(
			"وقد أخل المدعى عليه بالتزامه بسداد الأجرة، إذ ترصد في ذمته مبلغ %s عن عدد %d فاتورة مستحقة أقدمها بتاريخ %s.",
			FormatAmount(calc.OverdueRent), n, FormatDate(earliestDue(c.OverdueInvoices)),
		))
	} else if calc.OverdueRent.IsPositive() {
		out = append(out, fmt.Sprintf("وقد أخل المدعى عليه بالتزامه بسداد الأجرة، إذ ترصد في ذمته مبلغ %s.", FormatAmount(calc.OverdueRent)))
	}
	if calc.LateFees.IsPositive() {
		out = append(out, fmt.Sprintf("وترتب على هذا التأخير غرامات تأخير قدرها %s وفقاً لشروط العقد.", FormatAmount(calc.LateFees)))
	}
	if calc.ViolationsCount > 0 {
		out = append(out, fmt.Sprintf(
			"كما سُجلت على المركبة خلال مدة العقد %d مخالفة مرورية غير مسددة بقيمة إجمالية قدرها %s.",
			calc.ViolationsCount, FormatAmount(calc.ViolationsFines),
		))
	}
	if calc.DamagesFee.IsPositive() {
		out = append(out, fmt.Sprintf("وقد لحقت بالمركبة أضرار قُدرت قيمة إصلاحها بمبلغ %s.", FormatAmount(calc.DamagesFee)))
	}
	out = append(out, fmt.Sprintf(
		"وعليه يكون إجمالي المستحق للمدعية حتى تاريخ %s مبلغ %s، ولم يفلح معه الطلب الودي، مما حدا بالمدعية إلى إقامة هذه الدعوى.",
		FormatDate(c.AsOf), FormatAmount(calc.Total),
	))
	return out
}

func complaintNarrative(c models.CaseContext) []string {
	ct := c.Contract
	return []string{
		fmt.Sprintf(
			"استأجر المبلغ ضده %s المركبة %s لوحة رقم %s بموجب عقد الإيجار رقم %s الذي انتهت مدته بتاريخ %s.",
			c.CustomerName(), vehicleDescription(c), vehiclePlate(c), orDash(ct.Number), FormatDate(ct.EndDate),
		),
		"وقد امتنع المبلغ ضده عن إعادة المركبة إلى الشركة المالكة رغم انتهاء العقد ومطالبته بذلك، وما زال محتفظاً بها دون وجه حق.",
		fmt.Sprintf("علماً بأن المستحقات المترصدة في ذمته بلغت %s حتى تاريخه.", FormatAmount(c.Calculations.Total)),
	}
}

func exhibits(c models.CaseContext) []exhibit {
	out := []exhibit{
		{Title: "المذكرة الشارحة", Description: "مذكرة بوقائع الدعوى وأسانيدها"},
		{Title: "كشف المطالبات المالية", Description: "بيان تفصيلي بالمبالغ المطالب بها بإجمالي " + FormatAmount(c.Calculations.Total)},
		{Title: "عقد الإيجار", Description: "عقد رقم " + orDash(c.ContractNumber())},
	}
	for _, inv := range c.OverdueInvoices {
		out = append(out, exhibit{
			Title:       "فاتورة رقم " + orDash(inv.Number),
			Description: fmt.Sprintf("مستحقة بتاريخ %s برصيد %s", FormatDate(inv.DueDate), FormatAmount(inv.Outstanding())),
		})
	}
	if len(c.TrafficViolations) > 0 {
		out = append(out, exhibit{
			Title:       "طلب تحويل المخالفات المرورية",
			Description: fmt.Sprintf("عدد %d مخالفة مع كشف بها", len(c.TrafficViolations)),
		})
	}
	if c.VehicleWithheld {
		out = append(out, exhibit{Title: "بلاغ جنائي", Description: "بلاغ بامتناع المستأجر عن تسليم المركبة"})
	}
	for _, dt := range []string{models.CompanyDocCommercialRegister, models.CompanyDocIBANCertificate, models.CompanyDocRepresentativeID} {
		if _, ok := c.CompanyDocument(dt); ok {
			out = append(out, exhibit{Title: companyDocTitle(dt), Description: "صورة طبق الأصل"})
		}
	}
	return out
}

func companyDocTitle(docType string) string {
	switch docType {
	case models.CompanyDocCommercialRegister:
		return "السجل التجاري"
	case models.CompanyDocIBANCertificate:
		return "شهادة الحساب البنكي (IBAN)"
	case models.CompanyDocRepresentativeID:
		return "بطاقة هوية الممثل القانوني"
	}
	return docType
}

func vehicleDescription(c models.CaseContext) string {
	return orDash(c.Vehicle.Description())
}

func vehiclePlate(c models.CaseContext) string {
	if c.Vehicle == nil {
		return "-"
	}
	return orDash(c.Vehicle.Plate)
}

func earliestDue(invoices []models.Invoice) (earliest time.Time) {
	for i, inv := range invoices {
		if i == 0 || inv.DueDate.Before(earliest) {
			earliest = inv.DueDate
		}
	}
	return earliest
}

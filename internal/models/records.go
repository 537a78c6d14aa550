package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Case record constants.
const (
	CaseTypeContractDispute = "contract_dispute"
	CaseStatusOpen          = "open"
)

// LegalCase is the persisted record of a lawsuit filing derived from a delinquent contract.
// Once written it belongs to the case-management side; this pipeline never updates it.
type LegalCase struct {
	ID          string          `firestore:"-" json:"id"`
	CaseNumber  string          `firestore:"caseNumber" json:"caseNumber"`
	Title       string          `firestore:"caseTitle" json:"caseTitle"`
	CompanyID   string          `firestore:"companyId" json:"companyId"`
	CustomerID  string          `firestore:"clientId,omitempty" json:"clientId,omitempty"`
	ContractID  string          `firestore:"contractId" json:"contractId"`
	CaseType    string          `firestore:"caseType" json:"caseType"`
	Status      string          `firestore:"caseStatus" json:"caseStatus"`
	FilingDate  time.Time       `firestore:"filingDate" json:"filingDate"`
	ClaimAmount decimal.Decimal `firestore:"-" json:"claimAmount"`
	// ClaimAmountText mirrors ClaimAmount for Firestore, which has no decimal type.
	ClaimAmountText string    `firestore:"claimAmount" json:"-"`
	Description     string    `firestore:"description" json:"description"`
	CreatedBy       string    `firestore:"createdBy" json:"createdBy"`
	CreatedAt       time.Time `firestore:"createdAt" json:"createdAt"`
}

// LawsuitTemplate denormalizes a case for the court-form renderer.
type LawsuitTemplate struct {
	CaseID              string    `firestore:"caseId" json:"caseId"`
	CompanyID           string    `firestore:"companyId" json:"companyId"`
	ContractID          string    `firestore:"contractId" json:"contractId"`
	CaseTitle           string    `firestore:"caseTitle" json:"caseTitle"`
	DefendantFirstName  string    `firestore:"defendantFirstName" json:"defendantFirstName"`
	DefendantMiddleName string    `firestore:"defendantMiddleName" json:"defendantMiddleName"`
	DefendantLastName   string    `firestore:"defendantLastName" json:"defendantLastName"`
	DefendantNationalID string    `firestore:"defendantIdNumber" json:"defendantIdNumber"`
	DefendantPhone      string    `firestore:"defendantPhone" json:"defendantPhone"`
	DefendantEmail      string    `firestore:"defendantEmail" json:"defendantEmail"`
	DefendantAddress    string    `firestore:"defendantAddress" json:"defendantAddress"`
	ContractNumber      string    `firestore:"contractNumber" json:"contractNumber"`
	ContractStartDate   time.Time `firestore:"contractStartDate" json:"contractStartDate"`
	ContractEndDate     time.Time `firestore:"contractEndDate" json:"contractEndDate"`
	VehiclePlate        string    `firestore:"vehiclePlate" json:"vehiclePlate"`
	VehicleDescription  string    `firestore:"vehicleDescription" json:"vehicleDescription"`
	OverdueRent         string    `firestore:"overdueRent" json:"overdueRent"`
	LateFees            string    `firestore:"lateFees" json:"lateFees"`
	ViolationsFines     string    `firestore:"violationsFines" json:"violationsFines"`
	DamagesFee          string    `firestore:"damagesFee" json:"damagesFee"`
	TotalAmount         string    `firestore:"totalAmount" json:"totalAmount"`
	AmountInWords       string    `firestore:"amountInWords" json:"amountInWords"`
	Facts               string    `firestore:"facts" json:"facts"`
	Claims              string    `firestore:"claims" json:"claims"`
	CreatedBy           string    `firestore:"createdBy" json:"createdBy"`
	CreatedAt           time.Time `firestore:"createdAt" json:"createdAt"`
}

// CaseDocument links a stored file to a legal case.
type CaseDocument struct {
	ID             string    `firestore:"-" json:"id"`
	CaseID         string    `firestore:"caseId" json:"caseId"`
	CompanyID      string    `firestore:"companyId" json:"companyId"`
	DocumentType   string    `firestore:"documentType" json:"documentType"`
	TitleAr        string    `firestore:"documentTitle" json:"documentTitle"`
	TitleEn        string    `firestore:"documentTitleEn" json:"documentTitleEn"`
	FilePath       string    `firestore:"filePath" json:"filePath"`
	FileName       string    `firestore:"fileName" json:"fileName"`
	FileType       string    `firestore:"fileType" json:"fileType"`
	FileSize       int64     `firestore:"fileSize" json:"fileSize"`
	Description    string    `firestore:"description" json:"description"`
	IsConfidential bool      `firestore:"isConfidential" json:"isConfidential"`
	CreatedBy      string    `firestore:"createdBy" json:"createdBy"`
	CreatedAt      time.Time `firestore:"createdAt" json:"createdAt"`
}

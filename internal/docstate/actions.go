package docstate

import (
	"time"

	"github.com/Lllllllleong/lawsuitflow/internal/models"
)

// Action is the tagged union accepted by Reduce.
type Action interface {
	Type() string
}

type GenerateDocumentStart struct {
	Kind models.DocumentKind
}

type GenerateDocumentSuccess struct {
	Kind models.DocumentKind
	URL  string
	HTML string
	At   time.Time
}

type GenerateDocumentError struct {
	Kind models.DocumentKind
	Err  string
}

type ResetDocument struct {
	Kind models.DocumentKind
}

// SetContractData replaces the contract-derived part of the case context wholesale.
type SetContractData struct {
	Contract         *models.Contract
	Customer         *models.Customer
	Vehicle          *models.Vehicle
	Calculations     *models.Calculations
	CompanyDocuments []models.CompanyDocument
	ContractFile     *models.StoredFile
	VehicleWithheld  bool
	AsOf             time.Time
}

type SetInvoices struct {
	Invoices []models.Invoice
}

type SetViolations struct {
	Violations []models.Violation
}

type SetTaqadiData struct {
	Data *models.TaqadiData
}

type GenerateAllStart struct{}

type GenerateAllComplete struct{}

type RegisterCaseStart struct{}

type RegisterCaseComplete struct{}

type ToggleTaqadiData struct{}

type SetCopiedField struct {
	Field string
}

type SetLoading struct {
	Loading bool
}

type ResetState struct{}

func (GenerateDocumentStart) Type() string   { return "GENERATE_DOCUMENT_START" }
func (GenerateDocumentSuccess) Type() string { return "GENERATE_DOCUMENT_SUCCESS" }
func (GenerateDocumentError) Type() string   { return "GENERATE_DOCUMENT_ERROR" }
func (ResetDocument) Type() string           { return "RESET_DOCUMENT" }
func (SetContractData) Type() string         { return "SET_CONTRACT_DATA" }
func (SetInvoices) Type() string             { return "SET_INVOICES" }
func (SetViolations) Type() string           { return "SET_VIOLATIONS" }
func (SetTaqadiData) Type() string           { return "SET_TAQADI_DATA" }
func (GenerateAllStart) Type() string        { return "GENERATE_ALL_START" }
func (GenerateAllComplete) Type() string     { return "GENERATE_ALL_COMPLETE" }
func (RegisterCaseStart) Type() string       { return "REGISTER_CASE_START" }
func (RegisterCaseComplete) Type() string    { return "REGISTER_CASE_COMPLETE" }
func (ToggleTaqadiData) Type() string        { return "TOGGLE_TAQADI_DATA" }
func (SetCopiedField) Type() string          { return "SET_COPIED_FIELD" }
func (SetLoading) Type() string              { return "SET_LOADING" }
func (ResetState) Type() string              { return "RESET_STATE" }

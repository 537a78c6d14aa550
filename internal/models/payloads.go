package models

// These structs define the JSON payloads exchanged with the HTTP handlers and Cloud Function entry points.

// GenerateDocumentsRequest is the input for the document-generator function.
type GenerateDocumentsRequest struct {
	ContractID string      `json:"contractId"`
	CompanyID  string      `json:"companyId"`
	TaqadiData *TaqadiData `json:"taqadiData,omitempty"`
}

// DocumentStatus is the wire view of one document entry.
type DocumentStatus struct {
	Kind        string `json:"kind"`
	Status      string `json:"status"`
	URL         string `json:"url,omitempty"`
	HTML        string `json:"html,omitempty"`
	Error       string `json:"error,omitempty"`
	GeneratedAt string `json:"generatedAt,omitempty"`
}

// Progress is the derived readiness of the three mandatory documents.
type Progress struct {
	Ready      int `json:"ready"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// GenerateDocumentsResponse is the output of the document-generator function.
type GenerateDocumentsResponse struct {
	Status       string           `json:"status"`
	Documents    []DocumentStatus `json:"documents"`
	Progress     Progress         `json:"progress"`
	Calculations *Calculations    `json:"calculations,omitempty"`
}

// RegisterCaseRequest is the input for the case-registrar function.
type RegisterCaseRequest struct {
	ContractID string      `json:"contractId"`
	CompanyID  string      `json:"companyId"`
	UserID     string      `json:"userId"`
	TaqadiData *TaqadiData `json:"taqadiData,omitempty"`
}

// AttachmentFailure names a document that could not be stored or linked.
type AttachmentFailure struct {
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

// RegisterCaseResponse is the output of the case-registrar function. A returned CaseID is authoritative
// even when some attachments are listed under Failed.
type RegisterCaseResponse struct {
	Status         string              `json:"status"`
	CaseID         string              `json:"caseId"`
	CaseNumber     string              `json:"caseNumber"`
	NumberFallback bool                `json:"numberFallback,omitempty"`
	Linked         []string            `json:"linkedDocuments"`
	Failed         []AttachmentFailure `json:"failedDocuments,omitempty"`
	Warnings       []string            `json:"warnings,omitempty"`
}

// ExportCaseRequest is the input for the case-exporter function.
type ExportCaseRequest struct {
	ContractID string      `json:"contractId"`
	CompanyID  string      `json:"companyId"`
	TaqadiData *TaqadiData `json:"taqadiData,omitempty"`
}

// CaseRegisteredEvent is the CloudEvent data emitted after a case has been registered.
type CaseRegisteredEvent struct {
	CaseID     string `json:"caseId"`
	CaseNumber string `json:"caseNumber"`
	ContractID string `json:"contractId"`
	CompanyID  string `json:"companyId"`
}

// ArchiveStoredResponse describes an archive persisted to object storage.
type ArchiveStoredResponse struct {
	Status   string   `json:"status"`
	FileName string   `json:"fileName"`
	Path     string   `json:"path"`
	Entries  []string `json:"entries"`
	Warnings []string `json:"warnings,omitempty"`
}

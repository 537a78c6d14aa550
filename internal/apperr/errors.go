// Package apperr defines the lawsuit pipeline's error taxonomy.
//
// Precondition errors (IncompleteDataError, NotReadyError, MissingContractError) abort an operation before any
// side effect. Artifact errors (GenerationError, UploadError, FetchError, ConversionError) are recorded against a
// single document or archive entry and never stop the rest of a batch.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode is a stable identifier surfaced to API clients.
type ErrorCode string

const (
	ErrCodeIncompleteData  ErrorCode = "INCOMPLETE_DATA"
	ErrCodeNotReady        ErrorCode = "DOCUMENTS_NOT_READY"
	ErrCodeMissingContract ErrorCode = "MISSING_CONTRACT"
	ErrCodeGeneration      ErrorCode = "GENERATION_FAILED"
	ErrCodeUpload          ErrorCode = "UPLOAD_FAILED"
	ErrCodeFetch           ErrorCode = "FETCH_FAILED"
	ErrCodeConversion      ErrorCode = "CONVERSION_FAILED"
)

// Coded is implemented by every error in this package.
type Coded interface {
	error
	Code() ErrorCode
}

// CodeOf returns the code of the first Coded error in err's chain, or "" if there is none.
func CodeOf(err error) ErrorCode {
	var c Coded
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}

// IsPrecondition reports whether err aborted an operation before any side effect.
func IsPrecondition(err error) bool {
	switch CodeOf(err) {
	case ErrCodeIncompleteData, ErrCodeNotReady, ErrCodeMissingContract:
		return true
	}
	return false
}

// IncompleteDataError means a prerequisite part of the case context is missing.
type IncompleteDataError struct {
	Missing []string
}

func (e *IncompleteDataError) Error() string {
	return "incomplete case data: missing " + strings.Join(e.Missing, ", ")
}

func (e *IncompleteDataError) Code() ErrorCode { return ErrCodeIncompleteData }

// NotReadyError means fewer than all mandatory documents are ready.
type NotReadyError struct {
	Ready    int
	Required int
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("required documents not ready: %d/%d", e.Ready, e.Required)
}

func (e *NotReadyError) Code() ErrorCode { return ErrCodeNotReady }

// MissingContractError is returned by the export packager when the context has no contract.
type MissingContractError struct {
	ContractID string
}

func (e *MissingContractError) Error() string {
	if e.ContractID == "" {
		return "contract data is missing"
	}
	return fmt.Sprintf("contract data is missing for contract %s", e.ContractID)
}

func (e *MissingContractError) Code() ErrorCode { return ErrCodeMissingContract }

// GenerationError records a single document kind that failed to render.
type GenerationError struct {
	Kind string
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate %s: %v", e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error   { return e.Err }
func (e *GenerationError) Code() ErrorCode { return ErrCodeGeneration }

// UploadError records a file that could not be written to object storage.
type UploadError struct {
	Path string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.Path, e.Err)
}

func (e *UploadError) Unwrap() error   { return e.Err }
func (e *UploadError) Code() ErrorCode { return ErrCodeUpload }

// FetchError records a stored binary that could not be downloaded.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error   { return e.Err }
func (e *FetchError) Code() ErrorCode { return ErrCodeFetch }

// ConversionError records a failed HTML to PDF/DOCX transcoding.
type ConversionError struct {
	Format string
	Target string
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert %s to %s: %v", e.Target, e.Format, e.Err)
}

func (e *ConversionError) Unwrap() error   { return e.Err }
func (e *ConversionError) Code() ErrorCode { return ErrCodeConversion }

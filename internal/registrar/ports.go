package registrar

import (
	"context"

	"github.com/Lllllllleong/lawsuitflow/internal/models"
)

// CaseStore persists case records. Implemented by postgres.CaseStore and gcp.CaseStore.
type CaseStore interface {
	// CreateCase inserts c and returns its ID.
	CreateCase(ctx context.Context, c models.LegalCase) (string, error)
	CreateLawsuitTemplate(ctx context.Context, t models.LawsuitTemplate) error
	// LinkDocuments inserts all links in one call.
	LinkDocuments(ctx context.Context, docs []models.CaseDocument) error
}

// NumberAllocator hands out case numbers. Implemented by postgres.NumberAllocator and redisseq.Allocator.
type NumberAllocator interface {
	NextCaseNumber(ctx context.Context, companyID string) (string, error)
}

// BlobStore writes generated files. Implemented by gcp.BlobStore and minio.BlobStore.
type BlobStore interface {
	// Put stores data at path and returns its durable URL.
	Put(ctx context.Context, path string, data []byte, contentType string) (string, error)
}

// Hook runs after a case has been created. Hook errors never fail a registration.
type Hook interface {
	Name() string
	AfterRegister(ctx context.Context, ev models.CaseRegisteredEvent) error
}

package gcp

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"github.com/Lllllllleong/lawsuitflow/internal/config"
	"github.com/Lllllllleong/lawsuitflow/internal/models"
)

// NewFirestoreClient creates and returns a new Firestore client for the given project ID.
func NewFirestoreClient(ctx context.Context, projectID string) (*firestore.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID must be provided to create a firestore client")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return client, nil
}

// CaseStore keeps legal cases and their attachments in Firestore collections.
type CaseStore struct {
	client      *firestore.Client
	collections config.CollectionsConfig
}

func NewCaseStore(client *firestore.Client, collections config.CollectionsConfig) *CaseStore {
	return &CaseStore{client: client, collections: collections}
}

func (s *CaseStore) CreateCase(ctx context.Context, c models.LegalCase) (string, error) {
	if c.ClaimAmountText == "" {
		c.ClaimAmountText = c.ClaimAmount.StringFixed(2)
	}
	ref, _, err := s.client.Collection(s.collections.Cases).Add(ctx, c)
	if err != nil {
		return "", fmt.Errorf("failed to add legal case: %w", err)
	}
	return ref.ID, nil
}

func (s *CaseStore) CreateLawsuitTemplate(ctx context.Context, t models.LawsuitTemplate) error {
	if _, _, err := s.client.Collection(s.collections.Templates).Add(ctx, t); err != nil {
		return fmt.Errorf("failed to add lawsuit template: %w", err)
	}
	return nil
}

// LinkDocuments creates every link inside one transaction.
func (s *CaseStore) LinkDocuments(ctx context.Context, docs []models.CaseDocument) error {
	if len(docs) == 0 {
		return nil
	}
	col := s.client.Collection(s.collections.Documents)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for _, d := range docs {
			if err := tx.Create(col.NewDoc(), d); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to link %d documents: %w", len(docs), err)
	}
	return nil
}

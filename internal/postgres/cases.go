package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Lllllllleong/lawsuitflow/internal/models"
)

// CaseStore writes legal cases, lawsuit templates and document links.
type CaseStore struct {
	db *sql.DB
}

func NewCaseStore(db *sql.DB) *CaseStore {
	return &CaseStore{db: db}
}

const insertCaseSQL = `INSERT INTO legal_cases
	(case_number, case_title, company_id, client_id, contract_id, case_type, case_status,
	 filing_date, claim_amount, description, created_by, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	RETURNING id`

func (s *CaseStore) CreateCase(ctx context.Context, c models.LegalCase) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, insertCaseSQL,
		c.CaseNumber, c.Title, c.CompanyID, nullable(c.CustomerID), c.ContractID, c.CaseType, c.Status,
		c.FilingDate, c.ClaimAmount, c.Description, c.CreatedBy, c.CreatedAt,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert legal case: %w", err)
	}
	return id, nil
}

const insertTemplateSQL = `INSERT INTO lawsuit_templates
	(case_id, company_id, contract_id, case_title,
	 defendant_first_name, defendant_middle_name, defendant_last_name, defendant_id_number,
	 defendant_phone, defendant_email, defendant_address,
	 contract_number, contract_start_date, contract_end_date, vehicle_plate, vehicle_description,
	 overdue_rent, late_fees, violations_fines, damages_fee, total_amount, amount_in_words,
	 facts, claims, created_by, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
	 $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)`

func (s *CaseStore) CreateLawsuitTemplate(ctx context.Context, t models.LawsuitTemplate) error {
	_, err := s.db.ExecContext(ctx, insertTemplateSQL,
		t.CaseID, t.CompanyID, t.ContractID, t.CaseTitle,
		t.DefendantFirstName, t.DefendantMiddleName, t.DefendantLastName, t.DefendantNationalID,
		t.DefendantPhone, t.DefendantEmail, t.DefendantAddress,
		t.ContractNumber, t.ContractStartDate, t.ContractEndDate, t.VehiclePlate, t.VehicleDescription,
		t.OverdueRent, t.LateFees, t.ViolationsFines, t.DamagesFee, t.TotalAmount, t.AmountInWords,
		t.Facts, t.Claims, t.CreatedBy, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert lawsuit template: %w", err)
	}
	return nil
}

// caseDocumentColumns must stay in the order LinkDocuments appends values.
var caseDocumentColumns = []string{
	"case_id", "company_id", "document_type", "document_title", "document_title_en",
	"file_path", "file_name", "file_type", "file_size", "description", "is_confidential",
	"created_by", "created_at",
}

// LinkDocuments inserts every link with a single multi-row statement, so either all rows land or none do.
func (s *CaseStore) LinkDocuments(ctx context.Context, docs []models.CaseDocument) error {
	if len(docs) == 0 {
		return nil
	}
	query, args := buildLinkInsert(docs)
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert case documents: %w", err)
	}
	return nil
}

func buildLinkInsert(docs []models.CaseDocument) (string, []interface{}) {
	var b strings.Builder
	b.WriteString("INSERT INTO case_documents (")
	b.WriteString(strings.Join(caseDocumentColumns, ", "))
	b.WriteString(") VALUES ")

	args := make([]interface{}, 0, len(docs)*len(caseDocumentColumns))
	for i, d := range docs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		for j := range caseDocumentColumns {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "$%d", i*len(caseDocumentColumns)+j+1)
		}
		b.WriteString(")")
		args = append(args,
			d.CaseID, d.CompanyID, d.DocumentType, d.TitleAr, d.TitleEn,
			d.FilePath, d.FileName, d.FileType, d.FileSize, d.Description, d.IsConfidential,
			d.CreatedBy, d.CreatedAt,
		)
	}
	return b.String(), args
}

// NumberAllocator asks the database for the next case number of a company.
type NumberAllocator struct {
	db *sql.DB
}

func NewNumberAllocator(db *sql.DB) *NumberAllocator {
	return &NumberAllocator{db: db}
}

func (n *NumberAllocator) NextCaseNumber(ctx context.Context, companyID string) (string, error) {
	var number sql.NullString
	if err := n.db.QueryRowContext(ctx, `SELECT generate_legal_case_number($1)`, companyID).Scan(&number); err != nil {
		return "", fmt.Errorf("generate case number: %w", err)
	}
	if !number.Valid || number.String == "" {
		return "", fmt.Errorf("generate case number: empty result for company %s", companyID)
	}
	return number.String, nil
}

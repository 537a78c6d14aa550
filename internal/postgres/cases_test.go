package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lllllllleong/lawsuitflow/internal/models"
)

// ==========================
// CaseStore
// ==========================

func TestCaseStore_CreateCase(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	c := models.LegalCase{
		CaseNumber:  "LC-2024-0007",
		Title:       "مطالبة مالية - Omar Nasser",
		CompanyID:   "co-1",
		ContractID:  "ct-1",
		CaseType:    models.CaseTypeContractDispute,
		Status:      models.CaseStatusOpen,
		FilingDate:  now,
		ClaimAmount: decimal.NewFromInt(550),
		CreatedBy:   "u-1",
		CreatedAt:   now,
	}

	mock.ExpectQuery(`INSERT INTO legal_cases .* RETURNING id`).
		WithArgs("LC-2024-0007", c.Title, "co-1", nil, "ct-1", "contract_dispute", "open",
			sqlmock.AnyArg(), sqlmock.AnyArg(), "", "u-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("case-42"))

	id, err := NewCaseStore(db).CreateCase(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, "case-42", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCaseStore_CreateCase_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO legal_cases`).WillReturnError(errors.New("unique violation"))

	_, err = NewCaseStore(db).CreateCase(context.Background(), models.LegalCase{CaseNumber: "LC-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert legal case")
	assert.Contains(t, err.Error(), "unique violation")
}

func TestCaseStore_CreateLawsuitTemplate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO lawsuit_templates`).WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, NewCaseStore(db).CreateLawsuitTemplate(context.Background(), models.LawsuitTemplate{CaseID: "case-42"}))

	mock.ExpectExec(`INSERT INTO lawsuit_templates`).WillReturnError(errors.New("relation does not exist"))
	err = NewCaseStore(db).CreateLawsuitTemplate(context.Background(), models.LawsuitTemplate{CaseID: "case-42"})
	assert.ErrorContains(t, err, "insert lawsuit template")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCaseStore_LinkDocuments_SingleStatement(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	docs := []models.CaseDocument{
		{CaseID: "case-42", DocumentType: "explanatory_memo", FileName: "a.html"},
		{CaseID: "case-42", DocumentType: "claims_statement", FileName: "b.html"},
	}
	mock.ExpectExec(`INSERT INTO case_documents \(case_id, .*\) VALUES \(\$1, .*\$13\), \(\$14, .*\$26\)$`).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, NewCaseStore(db).LinkDocuments(context.Background(), docs))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCaseStore_LinkDocuments_EmptyIsNoop(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, NewCaseStore(db).LinkDocuments(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildLinkInsert_ArgOrder(t *testing.T) {
	_, args := buildLinkInsert([]models.CaseDocument{
		{CaseID: "c", CompanyID: "co", DocumentType: "t", FileSize: 12, IsConfidential: true},
	})
	require.Len(t, args, len(caseDocumentColumns))
	assert.Equal(t, "c", args[0])
	assert.Equal(t, "co", args[1])
	assert.Equal(t, "t", args[2])
	assert.Equal(t, int64(12), args[8])
	assert.Equal(t, true, args[10])
}

// ==========================
// NumberAllocator
// ==========================

func TestNumberAllocator_NextCaseNumber(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		want    string
		wantErr bool
	}{
		{
			name: "allocated",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT generate_legal_case_number\(\$1\)`).
					WithArgs("co-1").
					WillReturnRows(sqlmock.NewRows([]string{"generate_legal_case_number"}).AddRow("LC-2024-0007"))
			},
			want: "LC-2024-0007",
		},
		{
			name: "null result",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT generate_legal_case_number`).
					WillReturnRows(sqlmock.NewRows([]string{"generate_legal_case_number"}).AddRow(nil))
			},
			wantErr: true,
		},
		{
			name: "function missing",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT generate_legal_case_number`).
					WillReturnError(errors.New("function does not exist"))
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.setup(mock)

			got, err := NewNumberAllocator(db).NextCaseNumber(context.Background(), "co-1")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

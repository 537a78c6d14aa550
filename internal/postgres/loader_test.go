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
	"go.uber.org/zap/zaptest"

	"github.com/Lllllllleong/lawsuitflow/internal/calc"
	"github.com/Lllllllleong/lawsuitflow/internal/models"
)

var (
	asOf            = time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	start           = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end             = time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	contractColumns = []string{"id", "contract_number", "start_date", "end_date", "monthly_amount", "vehicle_id",
		"customer_id", "damages_fee", "contract_file_url", "contract_file_name", "vehicle_withheld"}
)

func expectContract(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`FROM contracts WHERE id = \$1 AND company_id = \$2`).
		WithArgs("ct-1", "co-1").
		WillReturnRows(sqlmock.NewRows(contractColumns).
			AddRow("ct-1", "RC-2024-15", start, end, "1500.00", "veh-1", "cus-1", "250", "https://files/contract.pdf", "contract.pdf", true))
}

func expectDetails(mock sqlmock.Sqlmock, invoicesErr error) {
	mock.ExpectQuery(`FROM customers WHERE id = \$1`).
		WithArgs("cus-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "company_name", "national_id",
			"nationality", "phone", "email", "address"}).
			AddRow("cus-1", "Omar", "Nasser", "", "28763400000", "QA", "+97455550000", "omar@example.com", "Doha"))
	mock.ExpectQuery(`FROM vehicles WHERE id = \$1`).
		WithArgs("veh-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "plate_number", "make", "model", "year", "color", "vin"}).
			AddRow("veh-1", "123456", "Toyota", "Camry", int64(2022), "White", "VIN1"))

	inv := mock.ExpectQuery(`FROM invoices WHERE contract_id = \$1`).WithArgs("ct-1", sqlmock.AnyArg())
	if invoicesErr != nil {
		inv.WillReturnError(invoicesErr)
	} else {
		inv.WillReturnRows(sqlmock.NewRows([]string{"id", "invoice_number", "due_date", "total_amount", "paid_amount"}).
			AddRow("inv-1", "1001", time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC), "1000", "500").
			AddRow("inv-2", "1002", time.Date(2024, 6, 26, 0, 0, 0, 0, time.UTC), "300", "0"))
	}

	mock.ExpectQuery(`FROM traffic_violations WHERE vehicle_id = \$1`).
		WithArgs("veh-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "violation_number", "violation_date", "description", "location", "fine_amount"}).
			AddRow("v-1", "TV-9", time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), "Speeding", "Lusail", "400"))
	mock.ExpectQuery(`FROM company_documents WHERE company_id = \$1`).
		WithArgs("co-1").
		WillReturnRows(sqlmock.NewRows([]string{"document_type", "file_url", "file_name"}).
			AddRow(models.CompanyDocCommercialRegister, "https://files/cr.pdf", "cr.pdf"))
}

func TestLoader_Load(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.MatchExpectationsInOrder(false)

	expectContract(mock)
	expectDetails(mock, nil)

	l := NewLoader(db, calc.DefaultLateFeePolicy(), zaptest.NewLogger(t))
	c, err := l.Load(context.Background(), "ct-1", "co-1", asOf)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	require.NotNil(t, c.Contract)
	assert.Equal(t, "RC-2024-15", c.Contract.Number)
	assert.Equal(t, "Omar Nasser", c.CustomerName())
	assert.Equal(t, "Toyota Camry 2022", c.Vehicle.Description())
	assert.Len(t, c.OverdueInvoices, 2)
	assert.Len(t, c.TrafficViolations, 1)
	assert.True(t, c.VehicleWithheld)
	require.NotNil(t, c.ContractFile)
	assert.Equal(t, "https://files/contract.pdf", c.ContractFile.URL)
	_, ok := c.CompanyDocument(models.CompanyDocCommercialRegister)
	assert.True(t, ok)

	// rent 500+300, fees 10d and 5d at 120, fines 400, damages 250
	require.NotNil(t, c.Calculations)
	assert.True(t, decimal.NewFromInt(800).Equal(c.Calculations.OverdueRent), c.Calculations.OverdueRent.String())
	assert.True(t, decimal.NewFromInt(1800).Equal(c.Calculations.LateFees), c.Calculations.LateFees.String())
	assert.True(t, decimal.NewFromInt(400).Equal(c.Calculations.ViolationsFines))
	assert.True(t, decimal.NewFromInt(3250).Equal(c.Calculations.Total), c.Calculations.Total.String())
	assert.NoError(t, c.Calculations.Validate())
}

func TestLoader_Load_ContractNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM contracts`).
		WithArgs("ct-404", "co-1").
		WillReturnRows(sqlmock.NewRows(contractColumns))

	c, err := NewLoader(db, calc.DefaultLateFeePolicy(), zaptest.NewLogger(t)).
		Load(context.Background(), "ct-404", "co-1", asOf)
	require.NoError(t, err)
	assert.Nil(t, c.Contract)
	assert.Nil(t, c.Calculations)
	assert.Equal(t, "ct-404", c.ContractID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoader_Load_DetailFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.MatchExpectationsInOrder(false)

	expectContract(mock)
	expectDetails(mock, errors.New("connection reset"))

	_, err = NewLoader(db, calc.DefaultLateFeePolicy(), zaptest.NewLogger(t)).
		Load(context.Background(), "ct-1", "co-1", asOf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load invoices")
}

func TestLoader_Load_ContractQueryFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM contracts`).WillReturnError(errors.New("timeout"))

	_, err = NewLoader(db, calc.DefaultLateFeePolicy(), zaptest.NewLogger(t)).
		Load(context.Background(), "ct-1", "co-1", asOf)
	assert.ErrorContains(t, err, "load contract ct-1")
}

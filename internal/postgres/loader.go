package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Lllllllleong/lawsuitflow/internal/calc"
	"github.com/Lllllllleong/lawsuitflow/internal/models"
)

// loaderConcurrency bounds the parallel reads issued per case.
const loaderConcurrency = 4

// Loader assembles a CaseContext from the fleet tables.
type Loader struct {
	db     *sql.DB
	policy calc.LateFeePolicy
	log    *zap.Logger
}

func NewLoader(db *sql.DB, policy calc.LateFeePolicy, log *zap.Logger) *Loader {
	return &Loader{db: db, policy: policy, log: log}
}

type contractRow struct {
	contract        models.Contract
	damages         decimal.Decimal
	fileURL         string
	fileName        string
	vehicleWithheld bool
}

const contractSQL = `SELECT id, contract_number, start_date, end_date, monthly_amount,
	COALESCE(vehicle_id::text, ''), COALESCE(customer_id::text, ''),
	COALESCE(damages_fee, 0), COALESCE(contract_file_url, ''), COALESCE(contract_file_name, ''),
	COALESCE(vehicle_withheld, false)
	FROM contracts WHERE id = $1 AND company_id = $2`

// Load reads everything known about contractID as of asOf. A contract that does not exist yields a context
// without a contract and no error; callers turn that into their own precondition failure.
func (l *Loader) Load(ctx context.Context, contractID, companyID string, asOf time.Time) (models.CaseContext, error) {
	log := l.log.With(zap.String("contractId", contractID), zap.String("companyId", companyID))
	out := models.CaseContext{ContractID: contractID, CompanyID: companyID, AsOf: asOf}

	var row contractRow
	err := l.db.QueryRowContext(ctx, contractSQL, contractID, companyID).Scan(
		&row.contract.ID, &row.contract.Number, &row.contract.StartDate, &row.contract.EndDate,
		&row.contract.MonthlyAmount, &row.contract.VehicleID, &row.contract.CustomerID,
		&row.damages, &row.fileURL, &row.fileName, &row.vehicleWithheld,
	)
	if errors.Is(err, sql.ErrNoRows) {
		log.Warn("Contract not found")
		return out, nil
	}
	if err != nil {
		return out, fmt.Errorf("load contract %s: %w", contractID, err)
	}

	var (
		customer   *models.Customer
		vehicle    *models.Vehicle
		invoices   []models.Invoice
		violations []models.Violation
		companyDoc []models.CompanyDocument
	)

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(loaderConcurrency)
	eg.Go(func() error {
		var err error
		customer, err = l.customer(gctx, row.contract.CustomerID)
		return err
	})
	eg.Go(func() error {
		var err error
		vehicle, err = l.vehicle(gctx, row.contract.VehicleID)
		return err
	})
	eg.Go(func() error {
		var err error
		invoices, err = l.invoices(gctx, contractID, asOf)
		return err
	})
	eg.Go(func() error {
		var err error
		violations, err = l.violations(gctx, row.contract)
		return err
	})
	eg.Go(func() error {
		var err error
		companyDoc, err = l.companyDocuments(gctx, companyID)
		return err
	})
	if err := eg.Wait(); err != nil {
		return out, err
	}

	overdue := calc.Overdue(invoices, asOf)
	calcs := calc.Compute(calc.Input{
		Invoices:   overdue,
		Violations: violations,
		DamagesFee: row.damages,
		AsOf:       asOf,
	}, l.policy)

	contract := row.contract
	out.Contract = &contract
	out.Customer = customer
	out.Vehicle = vehicle
	out.OverdueInvoices = overdue
	out.TrafficViolations = violations
	out.CompanyDocuments = companyDoc
	out.Calculations = &calcs
	out.VehicleWithheld = row.vehicleWithheld
	if row.fileURL != "" {
		out.ContractFile = &models.StoredFile{URL: row.fileURL, FileName: row.fileName}
	}

	log.Info("Case context loaded",
		zap.Int("overdueInvoices", len(overdue)),
		zap.Int("violations", len(violations)),
		zap.String("total", calcs.Total.StringFixed(2)),
	)
	return out, nil
}

const customerSQL = `SELECT id, COALESCE(first_name, ''), COALESCE(last_name, ''), COALESCE(company_name, ''),
	COALESCE(national_id, ''), COALESCE(nationality, ''), COALESCE(phone, ''), COALESCE(email, ''),
	COALESCE(address, '')
	FROM customers WHERE id = $1`

func (l *Loader) customer(ctx context.Context, id string) (*models.Customer, error) {
	if id == "" {
		return nil, nil
	}
	var c models.Customer
	err := l.db.QueryRowContext(ctx, customerSQL, id).Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.CompanyName, &c.NationalID, &c.Nationality, &c.Phone, &c.Email, &c.Address,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load customer %s: %w", id, err)
	}
	return &c, nil
}

const vehicleSQL = `SELECT id, COALESCE(plate_number, ''), COALESCE(make, ''), COALESCE(model, ''),
	COALESCE(year, 0), COALESCE(color, ''), COALESCE(vin, '')
	FROM vehicles WHERE id = $1`

func (l *Loader) vehicle(ctx context.Context, id string) (*models.Vehicle, error) {
	if id == "" {
		return nil, nil
	}
	var v models.Vehicle
	err := l.db.QueryRowContext(ctx, vehicleSQL, id).Scan(&v.ID, &v.Plate, &v.Make, &v.Model, &v.Year, &v.Color, &v.VIN)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load vehicle %s: %w", id, err)
	}
	return &v, nil
}

const invoicesSQL = `SELECT id, invoice_number, due_date, total_amount, COALESCE(paid_amount, 0)
	FROM invoices
	WHERE contract_id = $1 AND due_date <= $2 AND total_amount - COALESCE(paid_amount, 0) > 0
	ORDER BY due_date, invoice_number`

func (l *Loader) invoices(ctx context.Context, contractID string, asOf time.Time) ([]models.Invoice, error) {
	rows, err := l.db.QueryContext(ctx, invoicesSQL, contractID, asOf)
	if err != nil {
		return nil, fmt.Errorf("load invoices: %w", err)
	}
	defer rows.Close()

	var out []models.Invoice
	for rows.Next() {
		var inv models.Invoice
		if err := rows.Scan(&inv.ID, &inv.Number, &inv.DueDate, &inv.Total, &inv.Paid); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

const violationsSQL = `SELECT id, COALESCE(violation_number, ''), violation_date, COALESCE(description, ''),
	COALESCE(location, ''), fine_amount
	FROM traffic_violations
	WHERE vehicle_id = $1 AND violation_date BETWEEN $2 AND $3 AND status <> 'paid'
	ORDER BY violation_date`

func (l *Loader) violations(ctx context.Context, c models.Contract) ([]models.Violation, error) {
	if c.VehicleID == "" {
		return nil, nil
	}
	rows, err := l.db.QueryContext(ctx, violationsSQL, c.VehicleID, c.StartDate, c.EndDate)
	if err != nil {
		return nil, fmt.Errorf("load violations: %w", err)
	}
	defer rows.Close()

	var out []models.Violation
	for rows.Next() {
		var v models.Violation
		if err := rows.Scan(&v.ID, &v.Number, &v.Date, &v.Description, &v.Location, &v.Fine); err != nil {
			return nil, fmt.Errorf("scan violation: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

const companyDocumentsSQL = `SELECT document_type, file_url, COALESCE(file_name, '')
	FROM company_documents
	WHERE company_id = $1 AND file_url <> ''
	ORDER BY uploaded_at DESC`

func (l *Loader) companyDocuments(ctx context.Context, companyID string) ([]models.CompanyDocument, error) {
	rows, err := l.db.QueryContext(ctx, companyDocumentsSQL, companyID)
	if err != nil {
		return nil, fmt.Errorf("load company documents: %w", err)
	}
	defer rows.Close()

	var out []models.CompanyDocument
	for rows.Next() {
		var d models.CompanyDocument
		if err := rows.Scan(&d.DocumentType, &d.URL, &d.FileName); err != nil {
			return nil, fmt.Errorf("scan company document: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

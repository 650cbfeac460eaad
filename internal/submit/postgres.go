// internal/submit/postgres.go
package submit

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	stderrors "hauler-portal/internal/common/errors"
	"hauler-portal/internal/common/logger"
	"hauler-portal/internal/models"
)

// PostgresIntake writes the application straight into the portal's own
// database: the main record, one row per truck, one row per document,
// the initial status history entry, and an audit log entry.
type PostgresIntake struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresIntake(db *sql.DB, log logger.Logger) *PostgresIntake {
	return &PostgresIntake{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"intake": ModePostgres}),
	}
}

func (p *PostgresIntake) Mode() string { return ModePostgres }

func (p *PostgresIntake) Record(ctx context.Context, draft models.ApplicationDraft) (models.SubmissionReceipt, error) {
	var receipt models.SubmissionReceipt

	// The record is all or nothing: a failed truck or document insert
	// must not leave a partial application behind.
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return models.SubmissionReceipt{}, stderrors.NewDatabaseInsertFailedError(err)
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO hauler_applications (
			full_name, id_number, entity_type, business_name, beee_level, cipc_registration,
			mobile_number, email, physical_address, province,
			bank_name, account_holder_name, account_number, account_type, branch_code,
			accept_terms, consent_to_store, consent_to_contact, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING id, application_number`,
		draft.FullName,
		draft.IDNumber,
		draft.EntityType,
		nullIfEmpty(draft.BusinessName),
		nullIfEmpty(draft.BeeeLevel),
		nullIfEmpty(draft.CipcRegistration),
		draft.MobileNumber,
		draft.Email,
		draft.PhysicalAddress,
		draft.Province,
		draft.BankName,
		draft.AccountHolderName,
		draft.AccountNumber,
		draft.AccountType,
		draft.BranchCode,
		draft.AcceptTerms,
		draft.ConsentToStore,
		draft.ConsentToContact,
		models.StatusPending,
	).Scan(&receipt.ApplicationID, &receipt.ApplicationNumber)
	if err != nil {
		return models.SubmissionReceipt{}, stderrors.NewDatabaseInsertFailedError(err)
	}

	// Truck rows are 1-indexed in display order.
	for i, truck := range draft.Trucks {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO hauler_trucks (
				application_id, truck_number, vehicle_type, load_capacity,
				horse_registration, trailer1_registration, trailer2_registration
			) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			receipt.ApplicationID,
			i+1,
			truck.VehicleType,
			truck.LoadCapacity,
			truck.HorseRegistration,
			nullIfEmpty(truck.Trailer1Registration),
			nullIfEmpty(truck.Trailer2Registration),
		)
		if err != nil {
			return models.SubmissionReceipt{}, stderrors.NewDatabaseInsertFailedError(err)
		}
	}

	for _, doc := range collectDocuments(draft) {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO hauler_documents (
				application_id, document_type, file_name, file_size
			) VALUES ($1, $2, $3, $4)`,
			receipt.ApplicationID,
			doc.Type,
			doc.FileName,
			doc.FileSize,
		)
		if err != nil {
			return models.SubmissionReceipt{}, stderrors.NewDatabaseInsertFailedError(err)
		}
	}

	if err = tx.Commit(); err != nil {
		return models.SubmissionReceipt{}, stderrors.NewDatabaseInsertFailedError(err)
	}

	createdAt := time.Now().UTC().Format(time.RFC3339)

	// History and audit rows land after the commit: they are
	// non-critical, so a failure is logged but never fails the intake.
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO hauler_status_history (application_id, status, notes, changed_at)
		VALUES ($1, $2, $3, $4)`,
		receipt.ApplicationID,
		models.StatusPending,
		"Application received",
		createdAt,
	)
	if err != nil {
		p.logger.Warn("status history insert failed", map[string]interface{}{
			"error":         err,
			"applicationId": receipt.ApplicationID,
		})
	}

	auditDetailsJSON, err := json.Marshal(map[string]interface{}{
		"applicationNumber": receipt.ApplicationNumber,
		"entityType":        draft.EntityType,
		"truckCount":        len(draft.Trucks),
		"documentCount":     len(collectDocuments(draft)),
	})
	if err != nil {
		p.logger.Warn("failed to marshal audit log details", map[string]interface{}{
			"error": err,
		})
		auditDetailsJSON = []byte("{}")
	}

	_, err = p.db.ExecContext(ctx, `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		"application_submitted",
		"hauler_application",
		receipt.ApplicationNumber,
		auditDetailsJSON,
		createdAt,
	)
	if err != nil {
		p.logger.Warn("audit log insert failed", map[string]interface{}{
			"error":         err,
			"applicationId": receipt.ApplicationID,
		})
	}

	p.logger.Info("application recorded", map[string]interface{}{
		"applicationId":     receipt.ApplicationID,
		"applicationNumber": receipt.ApplicationNumber,
		"truckCount":        len(draft.Trucks),
	})

	return receipt, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// internal/admin/store.go
package admin

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	stderrors "hauler-portal/internal/common/errors"
	"hauler-portal/internal/common/logger"
	"hauler-portal/internal/models"
)

var ErrApplicationNotFound = errors.New("application not found")

// ListFilter narrows the application list. Search matches full name,
// application number and email, case-insensitively.
type ListFilter struct {
	Status string
	Search string
	Page   int
	Limit  int
}

// ApplicationSummary is one row of the admin list: the application plus
// its truck and document counts.
type ApplicationSummary struct {
	models.HaulerApplication
	TruckCount    int `json:"truckCount"`
	DocumentCount int `json:"documentCount"`
}

// ListResult is a paginated application listing.
type ListResult struct {
	Applications []ApplicationSummary `json:"applications"`
	Page         int                  `json:"page"`
	Limit        int                  `json:"limit"`
	Total        int                  `json:"total"`
	Pages        int                  `json:"pages"`
}

// Store serves the admin review surface from the portal database.
type Store struct {
	db     *sql.DB
	logger logger.Logger
}

func NewStore(db *sql.DB, log logger.Logger) *Store {
	return &Store{db: db, logger: log}
}

const summaryColumns = `
	ha.id, ha.application_number, ha.full_name, ha.id_number, ha.entity_type,
	ha.business_name, ha.beee_level, ha.cipc_registration,
	ha.mobile_number, ha.email, ha.physical_address, ha.province,
	ha.bank_name, ha.account_holder_name, ha.account_number, ha.account_type, ha.branch_code,
	ha.accept_terms, ha.consent_to_store, ha.consent_to_contact,
	ha.status, ha.created_at, ha.updated_at`

// List returns one page of applications, newest first.
func (s *Store) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}

	where, args := buildListWhere(filter)

	var total int
	countQuery := "SELECT COUNT(DISTINCT ha.id) FROM hauler_applications ha" + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return ListResult{}, stderrors.NewQueryExecutionFailedError("list_count", err)
	}

	query := fmt.Sprintf(`
		SELECT %s,
			COUNT(DISTINCT ht.id) as truck_count,
			COUNT(DISTINCT hd.id) as document_count
		FROM hauler_applications ha
		LEFT JOIN hauler_trucks ht ON ha.id = ht.application_id
		LEFT JOIN hauler_documents hd ON ha.id = hd.application_id
		%s
		GROUP BY ha.id
		ORDER BY ha.created_at DESC
		LIMIT $%d OFFSET $%d`,
		summaryColumns, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return ListResult{}, stderrors.NewQueryExecutionFailedError("list", err)
	}
	defer rows.Close()

	result := ListResult{
		Applications: []ApplicationSummary{},
		Page:         filter.Page,
		Limit:        filter.Limit,
		Total:        total,
		Pages:        (total + filter.Limit - 1) / filter.Limit,
	}

	for rows.Next() {
		var app ApplicationSummary
		if err := scanSummary(rows, &app); err != nil {
			return ListResult{}, stderrors.NewQueryExecutionFailedError("list_scan", err)
		}
		result.Applications = append(result.Applications, app)
	}
	if err := rows.Err(); err != nil {
		return ListResult{}, stderrors.NewQueryExecutionFailedError("list_rows", err)
	}

	return result, nil
}

func buildListWhere(filter ListFilter) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	if filter.Status != "" && filter.Status != "all" {
		args = append(args, filter.Status)
		clauses = append(clauses, fmt.Sprintf("ha.status = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(
			"(ha.full_name ILIKE $%d OR ha.application_number ILIKE $%d OR ha.email ILIKE $%d)",
			n, n, n))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// Get returns the full detail view for one application, addressed by
// numeric id or application number.
func (s *Store) Get(ctx context.Context, ref string) (*models.ApplicationDetail, error) {
	query := "SELECT" + summaryColumns + `
		FROM hauler_applications ha
		WHERE ha.application_number = $1`
	args := []interface{}{ref}
	if id, err := strconv.Atoi(ref); err == nil {
		query += " OR ha.id = $2"
		args = append(args, id)
	}

	var app models.HaulerApplication
	var businessName, beeeLevel, cipcRegistration sql.NullString
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&app.ID, &app.ApplicationNumber, &app.FullName, &app.IDNumber, &app.EntityType,
		&businessName, &beeeLevel, &cipcRegistration,
		&app.MobileNumber, &app.Email, &app.PhysicalAddress, &app.Province,
		&app.BankName, &app.AccountHolderName, &app.AccountNumber, &app.AccountType, &app.BranchCode,
		&app.AcceptTerms, &app.ConsentToStore, &app.ConsentToContact,
		&app.Status, &app.CreatedAt, &app.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("get_application", err)
	}
	app.BusinessName = businessName.String
	app.BeeeLevel = beeeLevel.String
	app.CipcRegistration = cipcRegistration.String

	trucks, err := s.getTrucks(ctx, app.ID)
	if err != nil {
		return nil, err
	}
	documents, err := s.getDocuments(ctx, app.ID)
	if err != nil {
		return nil, err
	}
	history, err := s.getHistory(ctx, app.ID)
	if err != nil {
		return nil, err
	}

	return &models.ApplicationDetail{
		Application: app,
		Trucks:      trucks,
		Documents:   documents,
		History:     history,
	}, nil
}

func (s *Store) getTrucks(ctx context.Context, applicationID int) ([]models.HaulerTruck, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, application_id, truck_number, vehicle_type, load_capacity,
			horse_registration, trailer1_registration, trailer2_registration
		FROM hauler_trucks
		WHERE application_id = $1
		ORDER BY truck_number`, applicationID)
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("get_trucks", err)
	}
	defer rows.Close()

	trucks := []models.HaulerTruck{}
	for rows.Next() {
		var t models.HaulerTruck
		var trailer1, trailer2 sql.NullString
		if err := rows.Scan(
			&t.ID, &t.ApplicationID, &t.TruckNumber, &t.VehicleType, &t.LoadCapacity,
			&t.HorseRegistration, &trailer1, &trailer2,
		); err != nil {
			return nil, stderrors.NewQueryExecutionFailedError("get_trucks_scan", err)
		}
		t.Trailer1Registration = trailer1.String
		t.Trailer2Registration = trailer2.String
		trucks = append(trucks, t)
	}
	return trucks, rows.Err()
}

func (s *Store) getDocuments(ctx context.Context, applicationID int) ([]models.HaulerDocument, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, application_id, document_type, file_name, file_size, uploaded_at
		FROM hauler_documents
		WHERE application_id = $1
		ORDER BY uploaded_at`, applicationID)
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("get_documents", err)
	}
	defer rows.Close()

	documents := []models.HaulerDocument{}
	for rows.Next() {
		var d models.HaulerDocument
		if err := rows.Scan(
			&d.ID, &d.ApplicationID, &d.DocumentType, &d.FileName, &d.FileSize, &d.UploadedAt,
		); err != nil {
			return nil, stderrors.NewQueryExecutionFailedError("get_documents_scan", err)
		}
		documents = append(documents, d)
	}
	return documents, rows.Err()
}

func (s *Store) getHistory(ctx context.Context, applicationID int) ([]models.StatusChange, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, application_id, status, notes, changed_at
		FROM hauler_status_history
		WHERE application_id = $1
		ORDER BY changed_at DESC`, applicationID)
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("get_history", err)
	}
	defer rows.Close()

	history := []models.StatusChange{}
	for rows.Next() {
		var h models.StatusChange
		var notes sql.NullString
		if err := rows.Scan(&h.ID, &h.ApplicationID, &h.Status, &notes, &h.ChangedAt); err != nil {
			return nil, stderrors.NewQueryExecutionFailedError("get_history_scan", err)
		}
		h.Notes = notes.String
		history = append(history, h)
	}
	return history, rows.Err()
}

// UpdateStatus moves an application to a new review status and appends
// the change, with its notes, to the status history.
func (s *Store) UpdateStatus(ctx context.Context, ref, status, notes, reviewedBy string) error {
	if !isValidStatus(status) {
		return stderrors.NewValidationFailedError(fmt.Sprintf("invalid status: %s", status))
	}

	var applicationID int
	err := s.db.QueryRowContext(ctx, `
		UPDATE hauler_applications
		SET status = $1,
			notes = $2,
			reviewed_by = $3,
			reviewed_at = CASE WHEN $1 <> 'pending' THEN CURRENT_TIMESTAMP ELSE NULL END,
			updated_at = CURRENT_TIMESTAMP
		WHERE application_number = $4 OR id::text = $4
		RETURNING id`,
		status, nullIfEmpty(notes), nullIfEmpty(reviewedBy), ref,
	).Scan(&applicationID)
	if err == sql.ErrNoRows {
		return ErrApplicationNotFound
	}
	if err != nil {
		return stderrors.NewQueryExecutionFailedError("update_status", err)
	}

	// History entry is non-critical, log error but don't fail.
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO hauler_status_history (application_id, status, notes, changed_at)
		VALUES ($1, $2, $3, $4)`,
		applicationID, status, nullIfEmpty(notes), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		s.logger.Warn("status history insert failed", map[string]interface{}{
			"error":         err,
			"applicationId": applicationID,
		})
	}

	s.logger.Info("application status updated", map[string]interface{}{
		"ref":    ref,
		"status": status,
	})
	return nil
}

// Stats returns the dashboard counters.
func (s *Store) Stats(ctx context.Context) (models.DashboardStats, error) {
	var stats models.DashboardStats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) as total,
			COUNT(CASE WHEN status = 'pending' THEN 1 END) as pending,
			COUNT(CASE WHEN status = 'under_review' THEN 1 END) as under_review,
			COUNT(CASE WHEN status = 'approved' THEN 1 END) as approved,
			COUNT(CASE WHEN status = 'rejected' THEN 1 END) as rejected,
			COUNT(CASE WHEN status = 'requires_documents' THEN 1 END) as requires_documents
		FROM hauler_applications`).Scan(
		&stats.Total, &stats.Pending, &stats.UnderReview,
		&stats.Approved, &stats.Rejected, &stats.RequiresDocuments,
	)
	if err != nil {
		return models.DashboardStats{}, stderrors.NewQueryExecutionFailedError("stats", err)
	}
	return stats, nil
}

// RecentApplication is one entry of the dashboard's latest-submissions list.
type RecentApplication struct {
	ApplicationNumber string `json:"applicationNumber"`
	FullName          string `json:"fullName"`
	EntityType        string `json:"entityType"`
	Province          string `json:"province"`
	Status            string `json:"status"`
	CreatedAt         string `json:"createdAt"`
}

// Recent returns the newest applications for the dashboard.
func (s *Store) Recent(ctx context.Context, limit int) ([]RecentApplication, error) {
	if limit < 1 {
		limit = 5
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT application_number, full_name, entity_type, province, status, created_at
		FROM hauler_applications
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("recent", err)
	}
	defer rows.Close()

	recent := []RecentApplication{}
	for rows.Next() {
		var r RecentApplication
		if err := rows.Scan(
			&r.ApplicationNumber, &r.FullName, &r.EntityType, &r.Province, &r.Status, &r.CreatedAt,
		); err != nil {
			return nil, stderrors.NewQueryExecutionFailedError("recent_scan", err)
		}
		recent = append(recent, r)
	}
	return recent, rows.Err()
}

// ExportCSV renders every application matching the filter as CSV, one
// row per application with truck and document counts.
func (s *Store) ExportCSV(ctx context.Context, filter ListFilter) ([]byte, error) {
	where, args := buildListWhere(filter)

	query := fmt.Sprintf(`
		SELECT %s,
			COUNT(DISTINCT ht.id) as truck_count,
			COUNT(DISTINCT hd.id) as document_count
		FROM hauler_applications ha
		LEFT JOIN hauler_trucks ht ON ha.id = ht.application_id
		LEFT JOIN hauler_documents hd ON ha.id = hd.application_id
		%s
		GROUP BY ha.id
		ORDER BY ha.created_at DESC`,
		summaryColumns, where)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("export", err)
	}
	defer rows.Close()

	var buf strings.Builder
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{
		"Application Number", "Full Name", "ID Number", "Entity Type",
		"Business Name", "BEEE Level", "CIPC Registration",
		"Mobile Number", "Email", "Physical Address", "Province",
		"Bank Name", "Account Holder", "Account Number", "Account Type", "Branch Code",
		"Status", "Truck Count", "Document Count", "Submitted Date",
	})

	for rows.Next() {
		var app ApplicationSummary
		if err := scanSummary(rows, &app); err != nil {
			return nil, stderrors.NewQueryExecutionFailedError("export_scan", err)
		}
		_ = w.Write([]string{
			app.ApplicationNumber, app.FullName, app.IDNumber, app.EntityType,
			app.BusinessName, app.BeeeLevel, app.CipcRegistration,
			app.MobileNumber, app.Email, app.PhysicalAddress, app.Province,
			app.BankName, app.AccountHolderName, app.AccountNumber, app.AccountType, app.BranchCode,
			app.Status, strconv.Itoa(app.TruckCount), strconv.Itoa(app.DocumentCount), app.CreatedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("export_rows", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to render CSV: %w", err)
	}
	return []byte(buf.String()), nil
}

func scanSummary(rows *sql.Rows, app *ApplicationSummary) error {
	var businessName, beeeLevel, cipcRegistration sql.NullString
	err := rows.Scan(
		&app.ID, &app.ApplicationNumber, &app.FullName, &app.IDNumber, &app.EntityType,
		&businessName, &beeeLevel, &cipcRegistration,
		&app.MobileNumber, &app.Email, &app.PhysicalAddress, &app.Province,
		&app.BankName, &app.AccountHolderName, &app.AccountNumber, &app.AccountType, &app.BranchCode,
		&app.AcceptTerms, &app.ConsentToStore, &app.ConsentToContact,
		&app.Status, &app.CreatedAt, &app.UpdatedAt,
		&app.TruckCount, &app.DocumentCount,
	)
	if err != nil {
		return err
	}
	app.BusinessName = businessName.String
	app.BeeeLevel = beeeLevel.String
	app.CipcRegistration = cipcRegistration.String
	return nil
}

func isValidStatus(status string) bool {
	for _, s := range models.ValidStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

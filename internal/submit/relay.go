// internal/submit/relay.go
package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sync/atomic"
	"time"

	stderrors "hauler-portal/internal/common/errors"
	commonhttp "hauler-portal/internal/common/http"
	"hauler-portal/internal/common/logger"
	"hauler-portal/internal/models"
)

// RelayIntake forwards the application to an external form relay as a
// multipart POST. The relay keeps no record the portal can query, so
// the receipt's application number is synthesized locally.
type RelayIntake struct {
	client  *commonhttp.Client
	url     string
	logger  logger.Logger
	counter atomic.Int64
}

func NewRelayIntake(url string, timeout time.Duration, log logger.Logger) *RelayIntake {
	return &RelayIntake{
		client: commonhttp.NewClient(timeout),
		url:    url,
		logger: log.WithFields(map[string]interface{}{"intake": ModeRelay}),
	}
}

func (r *RelayIntake) Mode() string { return ModeRelay }

func (r *RelayIntake) Record(ctx context.Context, draft models.ApplicationDraft) (models.SubmissionReceipt, error) {
	body, contentType, err := r.buildForm(draft)
	if err != nil {
		return models.SubmissionReceipt{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, body)
	if err != nil {
		return models.SubmissionReceipt{}, fmt.Errorf("failed to build relay request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return models.SubmissionReceipt{}, stderrors.NewRelayUnavailableError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return models.SubmissionReceipt{}, stderrors.NewRelayRejectedError(resp.StatusCode, string(respBody))
	}

	seq := r.counter.Add(1)
	receipt := models.SubmissionReceipt{
		ApplicationID:     int(seq),
		ApplicationNumber: fmt.Sprintf("HAU-%06d", seq),
	}

	r.logger.Info("application relayed", map[string]interface{}{
		"applicationNumber": receipt.ApplicationNumber,
		"status":            resp.StatusCode,
	})

	return receipt, nil
}

func (r *RelayIntake) buildForm(draft models.ApplicationDraft) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"subject":         "New Hauler Application - " + draft.FullName,
		"message":         Summary(draft),
		"applicant_name":  draft.FullName,
		"applicant_email": draft.Email,
		"applicant_phone": draft.MobileNumber,
		"entity_type":     draft.EntityType,
		"bank_name":       draft.BankName,
		"account_number":  draft.AccountNumber,
	}
	if draft.EntityType == models.EntityTypeBusiness {
		fields["business_name"] = draft.BusinessName
		fields["beee_level"] = draft.BeeeLevel
		fields["cipc_registration"] = draft.CipcRegistration
	}

	trucksJSON, err := json.Marshal(draft.Trucks)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal trucks: %w", err)
	}
	fields["trucks_data"] = string(trucksJSON)

	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %s: %w", name, err)
		}
	}

	for i, doc := range draft.VehicleDocuments {
		if err := writeFilePart(w, fmt.Sprintf("vehicle_document_%d", i+1), doc); err != nil {
			return nil, "", err
		}
	}
	for i, doc := range draft.Documents {
		if err := writeFilePart(w, fmt.Sprintf("document_%d", i+1), doc); err != nil {
			return nil, "", err
		}
	}
	if draft.ProofOfBankAccount != nil {
		if err := writeFilePart(w, "banking_document", *draft.ProofOfBankAccount); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func writeFilePart(w *multipart.Writer, field string, doc models.DocumentRef) error {
	part, err := w.CreateFormFile(field, doc.FileName)
	if err != nil {
		return fmt.Errorf("failed to create file part %s: %w", field, err)
	}
	if _, err := part.Write(doc.Content); err != nil {
		return fmt.Errorf("failed to write file part %s: %w", field, err)
	}
	return nil
}

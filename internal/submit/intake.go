// internal/submit/intake.go
package submit

import (
	"context"

	"hauler-portal/internal/models"
)

// Intake modes, selected by configuration.
const (
	ModePostgres = "postgres"
	ModeRelay    = "relay"
)

// Intake records a completed application durably and returns its receipt.
// Implementations must be safe for concurrent use.
type Intake interface {
	Record(ctx context.Context, draft models.ApplicationDraft) (models.SubmissionReceipt, error)
	Mode() string
}

// collectDocuments flattens every attachment on the draft into one list
// for storage and relay. Legacy flat vehicle uploads carry no type tag
// and are filed as "other"; the banking proof maps to its natural type.
func collectDocuments(draft models.ApplicationDraft) []models.DocumentRef {
	docs := make([]models.DocumentRef, 0, len(draft.Documents)+len(draft.VehicleDocuments)+1)
	docs = append(docs, draft.Documents...)

	for _, d := range draft.VehicleDocuments {
		if d.Type == "" {
			d.Type = models.DocTypeOther
		}
		docs = append(docs, d)
	}

	if draft.ProofOfBankAccount != nil {
		d := *draft.ProofOfBankAccount
		if d.Type == "" {
			d.Type = models.DocTypeBankConfirmation
		}
		docs = append(docs, d)
	}

	return docs
}

// internal/submit/pipeline.go
package submit

import (
	"context"
	"fmt"
	"time"

	stderrors "hauler-portal/internal/common/errors"
	"hauler-portal/internal/common/logger"
	"hauler-portal/internal/common/metrics"
	"hauler-portal/internal/models"
	"hauler-portal/internal/validate"
)

// Pipeline runs the full submission flow: a server-side re-check of
// every attachment, exactly one intake call, then the acknowledgment
// notification. It is the wizard's Submitter.
type Pipeline struct {
	intake   Intake
	notifier *Notifier
	logger   logger.Logger
}

func NewPipeline(intake Intake, notifier *Notifier, log logger.Logger) *Pipeline {
	return &Pipeline{
		intake:   intake,
		notifier: notifier,
		logger:   log,
	}
}

func (p *Pipeline) Submit(ctx context.Context, draft models.ApplicationDraft) (models.SubmissionReceipt, error) {
	start := time.Now()
	mode := p.intake.Mode()

	// Client-side checks are advisory only; attachments are re-checked
	// here before anything is recorded.
	if err := p.recheckAttachments(draft); err != nil {
		metrics.SubmissionsTotal.WithLabelValues(mode, "rejected").Inc()
		return models.SubmissionReceipt{}, err
	}

	receipt, err := p.intake.Record(ctx, draft)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues(mode, "error").Inc()
		p.logger.WithError(err).Error("intake failed", map[string]interface{}{
			"intake": mode,
		})
		return models.SubmissionReceipt{}, err
	}

	if p.notifier != nil {
		if err := p.notifier.Notify(ctx, draft, receipt); err != nil {
			if p.notifier.Required() {
				// The record exists but the deployment's only
				// acknowledgment did not go out.
				metrics.SubmissionsTotal.WithLabelValues(mode, "error").Inc()
				p.logger.WithError(err).Error("required notification failed after intake", map[string]interface{}{
					"applicationNumber": receipt.ApplicationNumber,
				})
				return models.SubmissionReceipt{}, err
			}
			p.logger.WithError(err).Warn("notification failed", map[string]interface{}{
				"applicationNumber": receipt.ApplicationNumber,
			})
		}
	}

	metrics.SubmissionsTotal.WithLabelValues(mode, "success").Inc()
	metrics.SubmissionDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())

	p.logger.Info("submission complete", map[string]interface{}{
		"applicationNumber": receipt.ApplicationNumber,
		"intake":            mode,
		"durationMs":        time.Since(start).Milliseconds(),
	})

	return receipt, nil
}

func (p *Pipeline) recheckAttachments(draft models.ApplicationDraft) error {
	for _, doc := range collectDocuments(draft) {
		if err := validate.FileSize(doc.FileSize); err != nil {
			return stderrors.NewValidationFailedError(fmt.Sprintf("%s: %v", doc.FileName, err))
		}
		if doc.MimeType != "" {
			if err := validate.DocumentMimeType(doc.MimeType); err != nil {
				return stderrors.NewValidationFailedError(fmt.Sprintf("%s: %v", doc.FileName, err))
			}
		}
	}
	return nil
}

// internal/submit/notification.go
package submit

import (
	"context"
	"fmt"

	"hauler-portal/internal/common/config"
	stderrors "hauler-portal/internal/common/errors"
	"hauler-portal/internal/common/logger"
	"hauler-portal/internal/models"
)

// Define interfaces for mocking
type SESService interface {
	SendPlainEmail(ctx context.Context, from, to, subject, body string) error
}

type SNSService interface {
	SendSMS(ctx context.Context, phoneNumber, message string) error
}

// Notifier acknowledges a recorded application: an email digest to the
// operations inbox and, when the applicant consented to contact, an SMS
// confirmation to their mobile number.
type Notifier struct {
	cfg    config.NotificationConfig
	ses    SESService
	sns    SNSService
	logger logger.Logger
}

func NewNotifier(cfg config.NotificationConfig, sesClient SESService, snsClient SNSService, log logger.Logger) *Notifier {
	return &Notifier{
		cfg:    cfg,
		ses:    sesClient,
		sns:    snsClient,
		logger: log,
	}
}

// Required reports whether a notification failure must fail the
// submission. True only for deployments where the email is the sole
// durable acknowledgment of receipt.
func (n *Notifier) Required() bool {
	return n.cfg.Email.Enabled && n.cfg.Email.Required
}

func (n *Notifier) Notify(ctx context.Context, draft models.ApplicationDraft, receipt models.SubmissionReceipt) error {
	if n.cfg.Email.Enabled {
		subject := "New Hauler Application - " + draft.FullName
		body := fmt.Sprintf("Application Number: %s\n\n%s", receipt.ApplicationNumber, Summary(draft))

		if err := n.ses.SendPlainEmail(ctx, n.cfg.Email.FromEmail, n.cfg.Email.ToEmail, subject, body); err != nil {
			n.logger.Error("email send failed", map[string]interface{}{
				"error":             err,
				"applicationNumber": receipt.ApplicationNumber,
			})
			return stderrors.NewNotificationFailedError(err)
		}
	}

	if n.cfg.SMS.Enabled && draft.ConsentToContact && draft.MobileNumber != "" {
		message := fmt.Sprintf(
			"Your hauler application %s has been received. We will be in touch once it has been reviewed.",
			receipt.ApplicationNumber,
		)
		if err := n.sns.SendSMS(ctx, draft.MobileNumber, message); err != nil {
			// SMS is best effort; the applicant still sees the
			// confirmation step.
			n.logger.Warn("SMS send failed", map[string]interface{}{
				"error":             err,
				"applicationNumber": receipt.ApplicationNumber,
			})
		}
	}

	return nil
}

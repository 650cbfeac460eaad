// internal/submit/relay_test.go
package submit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "hauler-portal/internal/common/errors"
	"hauler-portal/internal/common/logger"
	"hauler-portal/internal/models"
)

func TestRelayIntakePostsMultipartForm(t *testing.T) {
	var (
		gotFields map[string]string
		gotFiles  map[string][]byte
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(32<<20))

		gotFields = map[string]string{}
		for name, values := range r.MultipartForm.Value {
			gotFields[name] = values[0]
		}

		gotFiles = map[string][]byte{}
		for name, headers := range r.MultipartForm.File {
			f, err := headers[0].Open()
			require.NoError(t, err)
			buf := make([]byte, headers[0].Size)
			_, _ = f.Read(buf)
			f.Close()
			gotFiles[name] = buf
		}

		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	intake := NewRelayIntake(srv.URL, 5*time.Second, logger.NewNoOpLogger())
	draft := submittableDraft()
	draft.ProofOfBankAccount = &models.DocumentRef{
		Type:     models.DocTypeBankConfirmation,
		FileName: "bank.pdf",
		FileSize: 2048,
		MimeType: "application/pdf",
		Content:  []byte("bank letter"),
	}

	receipt, err := intake.Record(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, "HAU-000001", receipt.ApplicationNumber)

	assert.Equal(t, "New Hauler Application - Thabo Mokoena", gotFields["subject"])
	assert.Equal(t, "Thabo Mokoena", gotFields["applicant_name"])
	assert.Equal(t, "thabo@example.com", gotFields["applicant_email"])
	assert.Equal(t, "0821234567", gotFields["applicant_phone"])
	assert.Contains(t, gotFields["message"], "HAULER ONBOARDING APPLICATION")
	assert.Contains(t, gotFields["trucks_data"], "ABC123GP")

	assert.Equal(t, []byte("pdf bytes"), gotFiles["document_1"])
	assert.Equal(t, []byte("bank letter"), gotFiles["banking_document"])
}

func TestRelayIntakeNumbersAreMonotonic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	intake := NewRelayIntake(srv.URL, 5*time.Second, logger.NewNoOpLogger())

	first, err := intake.Record(context.Background(), submittableDraft())
	require.NoError(t, err)
	second, err := intake.Record(context.Background(), submittableDraft())
	require.NoError(t, err)

	assert.Equal(t, "HAU-000001", first.ApplicationNumber)
	assert.Equal(t, "HAU-000002", second.ApplicationNumber)
}

func TestRelayIntakeRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"errors":["email invalid"]}`, http.StatusUnprocessableEntity)
	}))
	t.Cleanup(srv.Close)

	intake := NewRelayIntake(srv.URL, 5*time.Second, logger.NewNoOpLogger())

	_, err := intake.Record(context.Background(), submittableDraft())
	require.Error(t, err)

	var stdErr *stderrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, stderrors.ErrCodeRelayRejected, stdErr.Code)
	assert.False(t, stdErr.Retryable)
}

func TestRelayIntakeUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	intake := NewRelayIntake(srv.URL, time.Second, logger.NewNoOpLogger())

	_, err := intake.Record(context.Background(), submittableDraft())
	require.Error(t, err)

	var stdErr *stderrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, stderrors.ErrCodeRelayUnavailable, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

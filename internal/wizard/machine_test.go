// internal/wizard/machine_test.go
package wizard

import (
	"context"
	"errors"
	"testing"

	"hauler-portal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPipeline implements Submitter for machine tests.
type stubPipeline struct {
	receipt models.SubmissionReceipt
	err     error
	calls   int
	seen    models.ApplicationDraft
}

func (s *stubPipeline) Submit(_ context.Context, draft models.ApplicationDraft) (models.SubmissionReceipt, error) {
	s.calls++
	s.seen = draft
	return s.receipt, s.err
}

func strp(s string) *string { return &s }
func boolp(b bool) *bool    { return &b }

// fill applies the valid fixture draft onto the machine.
func fill(m *Machine) {
	d := validDraft()
	m.UpdateData(DraftPatch{
		FullName:        &d.FullName,
		IDNumber:        &d.IDNumber,
		EntityType:      &d.EntityType,
		MobileNumber:    &d.MobileNumber,
		Email:           &d.Email,
		PhysicalAddress: &d.PhysicalAddress,
		Province:        &d.Province,

		Trucks: &d.Trucks,

		BankName:          &d.BankName,
		AccountHolderName: &d.AccountHolderName,
		AccountNumber:     &d.AccountNumber,
		AccountType:       &d.AccountType,
		BranchCode:        &d.BranchCode,

		Documents: &d.Documents,

		AcceptTerms:      &d.AcceptTerms,
		ConsentToStore:   &d.ConsentToStore,
		ConsentToContact: &d.ConsentToContact,
	})
}

func TestNewMachineStartsClean(t *testing.T) {
	m := NewMachine()
	assert.Equal(t, 1, m.CurrentStep())
	assert.Equal(t, 6, m.TotalSteps())
	assert.True(t, m.Errors().Empty())
	assert.Empty(t, m.SubmissionError())
	assert.False(t, m.Confirmed())
	require.Len(t, m.Data().Trucks, 1)
}

func TestNextBlockedOnEmptyStep(t *testing.T) {
	m := NewMachine()
	assert.False(t, m.Next())
	assert.Equal(t, 1, m.CurrentStep())
	assert.False(t, m.Errors().Empty())
}

// next() is idempotent under repeated calls with unchanged invalid data.
func TestNextIdempotentWhenInvalid(t *testing.T) {
	m := NewMachine()

	assert.False(t, m.Next())
	first := m.Errors()

	assert.False(t, m.Next())
	second := m.Errors()

	assert.Equal(t, first, second)
	assert.Equal(t, 1, m.CurrentStep())
}

func TestNextAdvancesWhenValid(t *testing.T) {
	m := NewMachine()
	fill(m)

	assert.True(t, m.Next())
	assert.Equal(t, 2, m.CurrentStep())
	assert.True(t, m.Errors().Empty())
}

func TestUpdateDataClearsOnlyPatchedErrors(t *testing.T) {
	m := NewMachine()
	assert.False(t, m.Next())

	errsBefore := m.Errors()
	require.Contains(t, errsBefore, "fullName")
	require.Contains(t, errsBefore, "email")

	// An edit clears its own error even if the new value is still invalid.
	m.UpdateData(DraftPatch{Email: strp("still-not-an-email")})

	errsAfter := m.Errors()
	assert.NotContains(t, errsAfter, "email")
	assert.Contains(t, errsAfter, "fullName")

	// The error only comes back on the next full-step validation pass.
	assert.False(t, m.Next())
	assert.Contains(t, m.Errors(), "email")
}

func TestUpdateDataClearsCompositeKeysOnTruckReplacement(t *testing.T) {
	m := NewMachine()
	fill(m)
	require.True(t, m.Next())

	// Break the truck list and fail validation on step 2.
	m.UpdateData(DraftPatch{Trucks: &[]models.Truck{{ID: "truck-1"}}})
	assert.False(t, m.Next())
	require.Contains(t, m.Errors(), "truck-0-vehicleType")

	// Replacing the list purges every per-truck composite error at once.
	good := validDraft().Trucks
	m.UpdateData(DraftPatch{Trucks: &good})
	assert.True(t, m.Errors().Empty())
}

func TestPreviousNeverValidates(t *testing.T) {
	m := NewMachine()
	fill(m)
	require.True(t, m.Next())

	// Wreck step 1 data, then navigate backwards: no validation runs.
	m.UpdateData(DraftPatch{FullName: strp("")})
	m.Previous()
	assert.Equal(t, 1, m.CurrentStep())
	assert.True(t, m.Errors().Empty())

	// Clamped at step 1.
	m.Previous()
	assert.Equal(t, 1, m.CurrentStep())
}

// previous() then next() with no data changes lands back on the same step
// with the same (empty) error state.
func TestPreviousNextRoundTrip(t *testing.T) {
	m := NewMachine()
	fill(m)
	require.True(t, m.Next())
	require.Equal(t, 2, m.CurrentStep())

	m.Previous()
	require.Equal(t, 1, m.CurrentStep())
	assert.True(t, m.Next())
	assert.Equal(t, 2, m.CurrentStep())
	assert.True(t, m.Errors().Empty())
}

func TestSubmitOnlyFromFinalDataStep(t *testing.T) {
	m := NewMachine()
	fill(m)

	err := m.Submit(context.Background(), &stubPipeline{})
	assert.ErrorIs(t, err, ErrNotOnSubmitStep)
}

func TestSubmitValidationFailureStaysPut(t *testing.T) {
	m := NewMachine()
	fill(m)
	for i := 0; i < 4; i++ {
		require.True(t, m.Next())
	}
	require.Equal(t, 5, m.CurrentStep())

	m.UpdateData(DraftPatch{AcceptTerms: boolp(false)})

	pipe := &stubPipeline{}
	err := m.Submit(context.Background(), pipe)
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Equal(t, 0, pipe.calls)
	assert.Equal(t, 5, m.CurrentStep())
	assert.Contains(t, m.Errors(), "acceptTerms")
}

func TestSubmitPipelineFailureKeepsData(t *testing.T) {
	m := NewMachine()
	fill(m)
	for i := 0; i < 4; i++ {
		require.True(t, m.Next())
	}

	pipe := &stubPipeline{err: errors.New("intake unavailable")}
	err := m.Submit(context.Background(), pipe)
	require.Error(t, err)

	assert.Equal(t, 5, m.CurrentStep())
	assert.NotEmpty(t, m.SubmissionError())
	assert.Empty(t, m.Data().ApplicationNumber)

	// Field data intact: retry without re-entering anything.
	assert.Equal(t, "Thabo Mokoena", m.Data().FullName)
	assert.Equal(t, "12345678", m.Data().AccountNumber)

	pipe.err = nil
	pipe.receipt = models.SubmissionReceipt{ApplicationID: 7, ApplicationNumber: "HAU-000007"}
	require.NoError(t, m.Submit(context.Background(), pipe))
	assert.True(t, m.Confirmed())
}

// End-to-end: one truck, valid identity/contact/banking, all consents, one
// id_document — every step passes and submit reaches the confirmation step.
func TestEndToEndHappyPath(t *testing.T) {
	m := NewMachine()
	fill(m)

	for step := 1; step <= 4; step++ {
		require.True(t, m.Next(), "step %d should validate clean, errors: %v", step, m.Errors())
	}
	require.Equal(t, 5, m.CurrentStep())

	pipe := &stubPipeline{receipt: models.SubmissionReceipt{ApplicationID: 1, ApplicationNumber: "HAU-000001"}}
	require.NoError(t, m.Submit(context.Background(), pipe))

	assert.Equal(t, 1, pipe.calls)
	assert.True(t, m.Confirmed())
	assert.Equal(t, "HAU-000001", m.Data().ApplicationNumber)
	assert.Equal(t, "Truck (Rigid)", pipe.seen.Trucks[0].VehicleType)
	assert.Equal(t, "5 Tons", pipe.seen.Trucks[0].LoadCapacity)
	assert.Equal(t, "ABC123GP", pipe.seen.Trucks[0].HorseRegistration)
}

func TestRestoreClampsStep(t *testing.T) {
	snap := models.DraftSnapshot{Data: validDraft(), CurrentStep: 99}
	m := Restore(snap)
	assert.Equal(t, 5, m.CurrentStep())
	assert.Equal(t, "Thabo Mokoena", m.Data().FullName)

	snap.CurrentStep = 0
	assert.Equal(t, 1, Restore(snap).CurrentStep())
}

func TestChangeListenerObservesTransitions(t *testing.T) {
	m := NewMachine()
	var snapshots []models.DraftSnapshot
	m.OnChange(func(s models.DraftSnapshot) { snapshots = append(snapshots, s) })

	m.UpdateData(DraftPatch{FullName: strp("Thabo Mokoena")})
	require.Len(t, snapshots, 1)
	assert.Equal(t, "Thabo Mokoena", snapshots[0].Data.FullName)
	assert.Equal(t, 1, snapshots[0].CurrentStep)
	assert.False(t, snapshots[0].Timestamp.IsZero())

	// A blocked Next is not a state change.
	m.Next()
	assert.Len(t, snapshots, 1)

	fill(m)
	n := len(snapshots)
	require.True(t, m.Next())
	assert.Len(t, snapshots, n+1)
}

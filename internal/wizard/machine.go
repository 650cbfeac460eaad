// internal/wizard/machine.go

// Package wizard owns the multi-step onboarding form state: the current
// step, the accumulated draft, and the per-field error map. Transitions run
// the step rule sets; forward movement is blocked until the current step's
// full validation pass comes back clean.
package wizard

import (
	"context"
	"errors"
	"time"

	"hauler-portal/internal/models"
)

var (
	// ErrValidationFailed signals a blocked transition; the machine's
	// error map explains which fields are at fault.
	ErrValidationFailed = errors.New("step validation failed")

	// ErrNotOnSubmitStep is returned when Submit is called from any step
	// other than the final data-entry step.
	ErrNotOnSubmitStep = errors.New("submit is only available from the final data-entry step")
)

// Submitter is the submission pipeline contract the machine delegates to.
// It receives a read-only snapshot of the draft and must call the intake
// endpoint exactly once per invocation.
type Submitter interface {
	Submit(ctx context.Context, draft models.ApplicationDraft) (models.SubmissionReceipt, error)
}

// ChangeListener observes every state change, e.g. for debounced draft
// persistence. Listeners must not call back into the machine.
type ChangeListener func(snapshot models.DraftSnapshot)

// Machine is the wizard state machine. One instance per session; callers
// are expected to serialize access (the HTTP layer holds a per-session
// lock), so the machine itself carries no mutex.
type Machine struct {
	steps     []Step
	step      int
	data      models.ApplicationDraft
	errors    ErrorMap
	submitErr string
	listener  ChangeListener
}

// NewMachine starts a fresh wizard at step 1 with an empty draft.
func NewMachine() *Machine {
	return &Machine{
		steps:  Steps(),
		step:   1,
		data:   models.NewApplicationDraft(),
		errors: ErrorMap{},
	}
}

// Restore rebuilds a machine from a persisted snapshot. The restored step
// is clamped into the valid data-entry range; a snapshot can never land on
// the confirmation step.
func Restore(snapshot models.DraftSnapshot) *Machine {
	m := NewMachine()
	m.data = snapshot.Data
	m.step = clamp(snapshot.CurrentStep, 1, len(m.steps)-1)
	return m
}

// OnChange registers the single change listener.
func (m *Machine) OnChange(fn ChangeListener) {
	m.listener = fn
}

// CurrentStep returns the 1-indexed current step.
func (m *Machine) CurrentStep() int {
	return m.step
}

// TotalSteps returns the number of steps including the confirmation view.
func (m *Machine) TotalSteps() int {
	return len(m.steps)
}

// StepInfo returns the static definition of the current step.
func (m *Machine) StepInfo() Step {
	return m.steps[m.step-1]
}

// Data returns a snapshot of the accumulated draft.
func (m *Machine) Data() models.ApplicationDraft {
	return m.data
}

// Errors returns a copy of the current field error map.
func (m *Machine) Errors() ErrorMap {
	return m.errors.clone()
}

// SubmissionError returns the banner-level submission failure message, or
// "" when the last submit attempt did not fail.
func (m *Machine) SubmissionError() string {
	return m.submitErr
}

// Confirmed reports whether the machine reached the terminal step.
func (m *Machine) Confirmed() bool {
	return m.step == len(m.steps)
}

// UpdateData merges the patch into the draft and clears error entries for
// exactly the patched keys. The new values are not validated here; errors
// only reappear on the next full-step validation pass.
func (m *Machine) UpdateData(patch DraftPatch) {
	touched := patch.apply(&m.data)
	if len(touched) == 0 {
		return
	}
	clearErrors(m.errors, touched)
	m.notify()
}

// Next runs the current step's full rule set. On a clean pass it advances
// one step (clamped to the total) and reports true; otherwise it installs
// the error map and stays put.
func (m *Machine) Next() bool {
	step := m.steps[m.step-1]
	if step.Validate != nil {
		errs := step.Validate(m.data)
		m.errors = errs
		if !errs.Empty() {
			return false
		}
	}
	m.step = clamp(m.step+1, 1, len(m.steps))
	m.submitErr = ""
	m.notify()
	return true
}

// Previous moves one step back, clamped to step 1. It never validates and
// never clears field errors.
func (m *Machine) Previous() {
	if m.step == 1 {
		return
	}
	m.step--
	m.submitErr = ""
	m.notify()
}

// Submit validates the final data-entry step and hands a read-only draft
// snapshot to the pipeline. On success the returned application number is
// stored and the machine transitions to the confirmation step. On failure
// the step is unchanged, field values stay intact, and a single
// submission-level error is surfaced.
func (m *Machine) Submit(ctx context.Context, pipeline Submitter) error {
	if m.step != len(m.steps)-1 {
		return ErrNotOnSubmitStep
	}

	step := m.steps[m.step-1]
	errs := step.Validate(m.data)
	m.errors = errs
	if !errs.Empty() {
		return ErrValidationFailed
	}

	receipt, err := pipeline.Submit(ctx, m.data)
	if err != nil {
		m.submitErr = "Form submission failed. Please check your information and try again."
		return err
	}

	m.data.ApplicationNumber = receipt.ApplicationNumber
	m.submitErr = ""
	m.step = len(m.steps)
	m.notify()
	return nil
}

func (m *Machine) notify() {
	if m.listener != nil {
		m.listener(models.DraftSnapshot{
			Data:        m.data,
			CurrentStep: m.step,
			Timestamp:   time.Now().UTC(),
		})
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

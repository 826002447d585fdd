package intake

import (
	"context"
	"errors"
	"fmt"
)

// State names a position in the wizard's lifecycle.
type State string

const (
	StateStep1      State = "step1"
	StateStep2      State = "step2"
	StateStep3      State = "step3"
	StateStep4      State = "step4"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

var ErrNotSubmittable = errors.New("wizard is not on its final step")

// Submitter performs the actual submission once the wizard allows it.
type Submitter interface {
	Submit(ctx context.Context, values Values) (inquiryID string, err error)
}

// Wizard drives the multi-step form as an explicit state machine:
// Step1..Step4 advance on validated Next calls, Submit gates on the full
// rule set, and a Failed submission may be retried.
type Wizard struct {
	rules     *Rules
	submitter Submitter
	state     State
}

func NewWizard(rules *Rules, submitter Submitter) *Wizard {
	return &Wizard{rules: rules, submitter: submitter, state: StateStep1}
}

func (w *Wizard) State() State {
	return w.state
}

func stepOf(s State) (int, bool) {
	switch s {
	case StateStep1:
		return 1, true
	case StateStep2:
		return 2, true
	case StateStep3:
		return 3, true
	case StateStep4:
		return 4, true
	}
	return 0, false
}

func stateOf(step int) State {
	return State(fmt.Sprintf("step%d", step))
}

// Next validates the fields visible on the current step and, if they pass,
// advances to the following step. On the final step Next is a no-op pass.
func (w *Wizard) Next(values Values) (FieldErrors, error) {
	step, ok := stepOf(w.state)
	if !ok {
		return nil, fmt.Errorf("cannot advance from state %q", w.state)
	}

	pass, errs := w.rules.ValidateStep(step, values)
	if !pass {
		return errs, nil
	}

	if step < w.rules.Steps() {
		w.state = stateOf(step + 1)
	}
	return nil, nil
}

// Back moves one step toward the start. Corrections are always allowed
// before submission.
func (w *Wizard) Back() error {
	step, ok := stepOf(w.state)
	if !ok {
		return fmt.Errorf("cannot go back from state %q", w.state)
	}
	if step > 1 {
		w.state = stateOf(step - 1)
	}
	return nil
}

// Submit runs the full rule set and delegates to the Submitter. It is
// permitted from the final step and from Failed (retry). Validation
// failures keep the wizard on the final step.
func (w *Wizard) Submit(ctx context.Context, values Values) (string, FieldErrors, error) {
	step, onStep := stepOf(w.state)
	switch {
	case onStep && step == w.rules.Steps():
	case w.state == StateFailed:
	default:
		return "", nil, ErrNotSubmittable
	}

	pass, errs := w.rules.ValidateAll(values)
	if !pass {
		w.state = stateOf(w.rules.Steps())
		return "", errs, nil
	}

	w.state = StateSubmitting
	id, err := w.submitter.Submit(ctx, values)
	if err != nil {
		w.state = StateFailed
		return "", nil, err
	}

	w.state = StateSucceeded
	return id, nil, nil
}

package extract

import (
	"context"

	"github.com/tbxark/calltaker/patch"
	"github.com/tbxark/calltaker/state"
)

// ConfirmationStep reads the customer's answer to a summary presented on an
// earlier turn. It runs after AddressStep so an address correction takes
// precedence over a plain decline.
type ConfirmationStep struct{}

func NewConfirmationStep() *ConfirmationStep {
	return &ConfirmationStep{}
}

func (s *ConfirmationStep) Name() string { return "confirmation" }

func (s *ConfirmationStep) Paths() []string { return []string{state.PathConfirmation} }

func (s *ConfirmationStep) Extract(ctx context.Context, in *Input) ([]patch.Operation, error) {
	st := in.State
	if st.Confirmation != nil || !st.Ready() || in.Start == nil || !in.Start.Ready() {
		return nil, nil
	}
	if isTrue(st.AddressUpdatedByUser) || isTrue(st.AddressChangeRequested) {
		return nil, nil
	}
	switch Classify(in.Message) {
	case Affirm:
		return []patch.Operation{patch.Set(state.PathConfirmation, true)}, nil
	case Decline:
		return []patch.Operation{patch.Set(state.PathConfirmation, false)}, nil
	}
	return nil, nil
}

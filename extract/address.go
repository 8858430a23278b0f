package extract

import (
	"context"

	"github.com/tbxark/calltaker/completion"
	"github.com/tbxark/calltaker/patch"
	"github.com/tbxark/calltaker/state"
	"github.com/tbxark/calltaker/types"
)

// MinAddressLen is the length an address must exceed to be accepted.
const MinAddressLen = 5

// AddressStep collects a service address from unregistered customers and
// address overrides from anyone who asks for one.
type AddressStep struct {
	completer completion.Completer
}

func NewAddressStep(c completion.Completer) *AddressStep {
	return &AddressStep{completer: c}
}

func (s *AddressStep) Name() string { return "address" }

func (s *AddressStep) Paths() []string {
	return []string{
		state.PathClientAddress,
		state.PathAddressUpdated,
		state.PathAddressLoaded,
		state.PathAddressChangeRequested,
	}
}

func (s *AddressStep) Extract(ctx context.Context, in *Input) ([]patch.Operation, error) {
	st := in.State
	if st.IsRegistered == nil {
		return nil, nil
	}
	changeRequested := RequestsAddressChange(in.Message)
	if !s.triggered(in, changeRequested) {
		return nil, nil
	}

	out, err := s.completer.Generate(ctx, types.TierFast, buildPrompt(addressPromptTemplate, in.Message))
	if err != nil {
		return nil, err
	}
	if address, ok := accepted(out, MinAddressLen); ok {
		return []patch.Operation{
			patch.Set(state.PathClientAddress, address),
			patch.Set(state.PathAddressUpdated, true),
			patch.Set(state.PathAddressLoaded, false),
			patch.Clear(state.PathAddressChangeRequested),
		}, nil
	}
	if changeRequested && st.Confirmation == nil {
		// the old address must not be confirmed again; goal selection asks for the new one
		return []patch.Operation{
			patch.Clear(state.PathClientAddress),
			patch.Set(state.PathAddressChangeRequested, true),
			patch.Set(state.PathAddressLoaded, false),
		}, nil
	}
	return nil, nil
}

func (s *AddressStep) triggered(in *Input, changeRequested bool) bool {
	st, start := in.State, in.Start
	noAddress := st.CustomerData.ClientAddress == nil
	switch {
	case st.Unregistered() && noAddress:
		return true
	case isTrue(st.AddressChangeRequested) && noAddress:
		return true
	case st.Registered() && changeRequested:
		return true
	case awaitingConfirmation(start) && (changeRequested || HasDeclineOrChange(in.Message)) && hasAddressRoom(in.Message):
		return true
	case declined(start) && hasAddressRoom(in.Message):
		return true
	}
	return false
}

// awaitingConfirmation reports whether the turn began with a summary waiting
// for the customer's answer.
func awaitingConfirmation(start *state.State) bool {
	return start != nil && start.Ready() && start.Confirmation == nil
}

func declined(start *state.State) bool {
	return start != nil && start.Ready() && start.Confirmation != nil && !*start.Confirmation
}

func isTrue(b *bool) bool {
	return b != nil && *b
}

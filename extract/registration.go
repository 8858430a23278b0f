package extract

import (
	"context"

	"github.com/tbxark/calltaker/directory"
	"github.com/tbxark/calltaker/patch"
	"github.com/tbxark/calltaker/state"
)

// RegistrationStep resolves the customer record in the same turn the phone
// number becomes known.
type RegistrationStep struct {
	directory directory.Directory
}

func NewRegistrationStep(d directory.Directory) *RegistrationStep {
	return &RegistrationStep{directory: d}
}

func (s *RegistrationStep) Name() string { return "registration" }

func (s *RegistrationStep) Paths() []string {
	return []string{state.PathIsRegistered, state.PathCustomerData, state.PathAddressLoaded}
}

func (s *RegistrationStep) Extract(ctx context.Context, in *Input) ([]patch.Operation, error) {
	st := in.State
	if st.MobileNumber == nil || st.IsRegistered != nil {
		return nil, nil
	}
	rec, ok := s.directory.Lookup(*st.MobileNumber)
	if !ok {
		return []patch.Operation{
			patch.Set(state.PathIsRegistered, false),
			patch.Set(state.PathCustomerData, state.CustomerData{}),
			patch.Set(state.PathAddressLoaded, false),
		}, nil
	}
	return []patch.Operation{
		patch.Set(state.PathIsRegistered, true),
		patch.Set(state.PathCustomerData, state.CustomerDataFrom(rec)),
		patch.Set(state.PathAddressLoaded, true),
	}, nil
}

package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tbxark/calltaker/state"
	"github.com/tbxark/calltaker/types"
)

func withComplaint(st *state.State) *state.State {
	st.Complaint = state.Ptr("No water since this morning")
	return st
}

func withPhone(st *state.State, registered bool) *state.State {
	st.MobileNumber = state.Ptr("050555555")
	st.IsRegistered = state.Ptr(registered)
	return st
}

func withAddress(st *state.State) *state.State {
	st.CustomerData.ClientAddress = state.Ptr("King Fahd Road, Riyadh")
	return st
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name  string
		state func() *state.State
		want  types.Goal
	}{
		{
			name:  "fresh conversation",
			state: state.New,
			want:  types.GoalAskComplaint,
		},
		{
			name: "phone known without complaint",
			state: func() *state.State {
				return withAddress(withPhone(state.New(), true))
			},
			want: types.GoalAskComplaint,
		},
		{
			name: "complaint only",
			state: func() *state.State {
				return withComplaint(state.New())
			},
			want: types.GoalAskPhone,
		},
		{
			name: "unregistered without address",
			state: func() *state.State {
				return withPhone(withComplaint(state.New()), false)
			},
			want: types.GoalAskAddress,
		},
		{
			name: "address just updated",
			state: func() *state.State {
				st := withAddress(withPhone(withComplaint(state.New()), false))
				st.AddressUpdatedByUser = state.Ptr(true)
				return st
			},
			want: types.GoalConfirmUpdatedAddress,
		},
		{
			name: "registered with address on file",
			state: func() *state.State {
				st := withAddress(withPhone(withComplaint(state.New()), true))
				st.AddressLoadedFromSystem = state.Ptr(true)
				return st
			},
			want: types.GoalPresentConfirmation,
		},
		{
			name: "change requested without new address",
			state: func() *state.State {
				st := withPhone(withComplaint(state.New()), true)
				st.AddressChangeRequested = state.Ptr(true)
				return st
			},
			want: types.GoalReaskAddress,
		},
		{
			name: "summary rejected",
			state: func() *state.State {
				st := withAddress(withPhone(withComplaint(state.New()), true))
				st.Confirmation = state.Ptr(false)
				return st
			},
			want: types.GoalAskCorrection,
		},
		{
			name: "summary confirmed",
			state: func() *state.State {
				st := withAddress(withPhone(withComplaint(state.New()), true))
				st.Confirmation = state.Ptr(true)
				return st
			},
			want: types.GoalSubmit,
		},
		{
			name: "after submission",
			state: func() *state.State {
				st := withAddress(withPhone(state.New(), true))
				st.Submitted = true
				return st
			},
			want: types.GoalAskComplaint,
		},
		{
			name: "registered with no address and no change request",
			state: func() *state.State {
				return withPhone(withComplaint(state.New()), true)
			},
			want: types.GoalContinue,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Select(tt.state()))
		})
	}
}

func TestTierFor(t *testing.T) {
	quality := []types.Goal{types.GoalAskComplaint, types.GoalConfirmUpdatedAddress, types.GoalPresentConfirmation}
	for _, g := range quality {
		assert.Equal(t, types.TierQuality, TierFor(g), g)
	}
	fast := []types.Goal{
		types.GoalAskPhone, types.GoalAskAddress, types.GoalReaskAddress, types.GoalAskCorrection,
		types.GoalSubmit, types.GoalSubmissionFailed, types.GoalContinue,
	}
	for _, g := range fast {
		assert.Equal(t, types.TierFast, TierFor(g), g)
	}
}

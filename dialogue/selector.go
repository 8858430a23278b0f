package dialogue

import (
	"github.com/tbxark/calltaker/state"
	"github.com/tbxark/calltaker/types"
)

// Select picks the goal for the turn from the updated state. Rules are
// checked top to bottom; the first match wins.
func Select(st *state.State) types.Goal {
	switch {
	case st.Complaint == nil:
		return types.GoalAskComplaint
	case st.MobileNumber == nil:
		return types.GoalAskPhone
	case st.Unregistered() && st.CustomerData.ClientAddress == nil:
		return types.GoalAskAddress
	case isTrue(st.AddressUpdatedByUser) && st.Confirmation == nil:
		return types.GoalConfirmUpdatedAddress
	case st.Confirmation == nil && st.Ready():
		return types.GoalPresentConfirmation
	case isTrue(st.AddressChangeRequested) && st.CustomerData.ClientAddress == nil && st.Confirmation == nil:
		return types.GoalReaskAddress
	case st.Confirmation != nil && !*st.Confirmation:
		return types.GoalAskCorrection
	case st.Confirmation != nil && *st.Confirmation:
		// confirmation is cleared as soon as a cycle is submitted, so a true
		// value always belongs to the current, unsubmitted cycle
		return types.GoalSubmit
	}
	return types.GoalContinue
}

// TierFor returns the generation tier used to phrase goal.
func TierFor(goal types.Goal) types.Tier {
	switch goal {
	case types.GoalAskComplaint, types.GoalConfirmUpdatedAddress, types.GoalPresentConfirmation:
		return types.TierQuality
	}
	return types.TierFast
}

func isTrue(b *bool) bool {
	return b != nil && *b
}

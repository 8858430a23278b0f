package dialogue

import (
	"fmt"

	"github.com/tbxark/calltaker/state"
	"github.com/tbxark/calltaker/types"
)

// Instruction returns what the assistant should accomplish with its reply.
func Instruction(req *Request, persona string) string {
	st := req.State
	switch req.Goal {
	case types.GoalAskComplaint:
		if st.Submitted {
			return "The customer's previous complaint has already been submitted. Ask whether there is another issue you can help with, and invite them to describe it."
		}
		return fmt.Sprintf("Greet the customer warmly, introduce yourself as %s from customer care, and ask them to describe the problem they are experiencing.", persona)
	case types.GoalAskPhone:
		return fmt.Sprintf("The customer described this complaint: %q. Acknowledge it with empathy, explain briefly that you will register the complaint and need a contact number so the team can follow up, and ask for their mobile number.", value(st.Complaint))
	case types.GoalAskAddress:
		return fmt.Sprintf("The mobile number %s is not registered in our system. Ask the customer for the full service address where the problem is happening.", value(st.MobileNumber))
	case types.GoalConfirmUpdatedAddress:
		return "The customer just gave a new service address. Present this summary and ask them to confirm it is correct before you submit the complaint:\n\n" + Summary(st)
	case types.GoalPresentConfirmation:
		if addressOnFile(st) {
			return "The customer is registered and we found their service address on file. Present this summary, point out the address on file, and ask them to confirm it, or tell you if the problem is at a different address:\n\n" + Summary(st)
		}
		return "Present this summary and ask the customer to confirm the details are correct before submission:\n\n" + Summary(st)
	case types.GoalReaskAddress:
		return "The customer wants to use a different service address but has not given it yet. Ask them for the full new address."
	case types.GoalAskCorrection:
		return "The customer said the summary is not correct. Ask what they would like to change, for example the service address. Do not submit anything yet."
	case types.GoalSubmit:
		ref := ""
		if req.ReferenceID != "" {
			ref = fmt.Sprintf(" under reference number %s", req.ReferenceID)
		}
		return fmt.Sprintf("The customer confirmed. Thank them, tell them the complaint has been submitted%s, and explain the next steps: the technical team will review it and contact them on %s.", ref, value(st.MobileNumber))
	case types.GoalSubmissionFailed:
		return "Recording the complaint failed on our side. Apologize, tell the customer the complaint has NOT been submitted yet, and ask them to confirm again so you can retry."
	}
	return "Continue the conversation naturally and help the customer with their complaint."
}

// Summary renders the facts a customer is asked to confirm.
func Summary(st *state.State) string {
	source := "provided by customer"
	if addressOnFile(st) {
		source = "on file"
	}
	return types.FormatSummaryTable([]types.SummaryRow{
		{Field: "Complaint", Value: value(st.Complaint)},
		{Field: "Mobile number", Value: value(st.MobileNumber)},
		{Field: "Service address (" + source + ")", Value: st.Address()},
	})
}

// addressOnFile reports whether the address is the one kept for a registered
// customer. address_loaded_from_system is cleared after each submission, so
// only an explicit false or a fresh update marks a customer-supplied address.
func addressOnFile(st *state.State) bool {
	if !st.Registered() || isTrue(st.AddressUpdatedByUser) {
		return false
	}
	return st.AddressLoadedFromSystem == nil || *st.AddressLoadedFromSystem
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

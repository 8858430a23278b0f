package types

// Tier selects a quality/cost level of the completion model.
type Tier string

const (
	TierQuality Tier = "quality"
	TierFast    Tier = "fast"
)

// Other returns the tier used as the fallback for t.
func (t Tier) Other() Tier {
	if t == TierQuality {
		return TierFast
	}
	return TierQuality
}

// Goal is the conversational objective chosen for a turn.
type Goal string

const (
	GoalAskComplaint          Goal = "ask_complaint"
	GoalAskPhone              Goal = "ask_phone"
	GoalAskAddress            Goal = "ask_address"
	GoalConfirmUpdatedAddress Goal = "confirm_updated_address"
	GoalPresentConfirmation   Goal = "present_confirmation"
	GoalReaskAddress          Goal = "reask_address"
	GoalAskCorrection         Goal = "ask_correction"
	GoalSubmit                Goal = "submit"
	GoalSubmissionFailed      Goal = "submission_failed"
	GoalContinue              Goal = "continue"
)

// CustomerRecord is a registered customer's entry in the reference directory.
type CustomerRecord struct {
	PriorityID           string `json:"priorityId" yaml:"priorityId"`
	SectorID             string `json:"sectorId" yaml:"sectorId"`
	NetworkID            string `json:"networkId" yaml:"networkId"`
	AreaID               string `json:"areaId" yaml:"areaId"`
	LabID                string `json:"labId" yaml:"labId"`
	CommercialBranchCode string `json:"commercialBranchCode" yaml:"commercialBranchCode"`
	ClientAddress        string `json:"clientAddress" yaml:"clientAddress"`
}

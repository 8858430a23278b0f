package state

import (
	"errors"
	"fmt"

	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/calltaker/patch"
	"github.com/tbxark/calltaker/types"
)

// JSON pointers of the fields extraction steps may write.
const (
	PathComplaint              = "/complaint"
	PathMobileNumber           = "/mobile_number"
	PathIsRegistered           = "/is_registered"
	PathCustomerData           = "/customer_data"
	PathClientAddress          = "/customer_data/clientAddress"
	PathAddressLoaded          = "/address_loaded_from_system"
	PathAddressUpdated         = "/address_updated_by_user"
	PathAddressChangeRequested = "/address_change_requested"
	PathConfirmation           = "/confirmation"
	PathSubmitted              = "/submitted"
)

// CustomerData is the account record attached to a conversation. All fields
// are null until a registration lookup hits or the customer supplies an address.
type CustomerData struct {
	PriorityID           *string `json:"priorityId" jsonschema:"description=Priority identifier from the customer directory"`
	SectorID             *string `json:"sectorId"`
	NetworkID            *string `json:"networkId"`
	AreaID               *string `json:"areaId"`
	LabID                *string `json:"labId"`
	CommercialBranchCode *string `json:"commercialBranchCode"`
	ClientAddress        *string `json:"clientAddress" jsonschema:"description=Service address for the complaint"`
}

// CustomerDataFrom converts a directory record into customer data.
func CustomerDataFrom(r types.CustomerRecord) CustomerData {
	return CustomerData{
		PriorityID:           Ptr(r.PriorityID),
		SectorID:             Ptr(r.SectorID),
		NetworkID:            Ptr(r.NetworkID),
		AreaID:               Ptr(r.AreaID),
		LabID:                Ptr(r.LabID),
		CommercialBranchCode: Ptr(r.CommercialBranchCode),
		ClientAddress:        Ptr(r.ClientAddress),
	}
}

// State is everything learned in a conversation so far. A State is treated as
// a value: Apply returns a new State and leaves the receiver untouched.
type State struct {
	Messages                []*schema.Message `json:"messages" jsonschema:"description=Conversation history, oldest first"`
	Complaint               *string           `json:"complaint" jsonschema:"description=Customer complaint text"`
	MobileNumber            *string           `json:"mobile_number" jsonschema:"description=Contact number, digits only"`
	IsRegistered            *bool             `json:"is_registered"`
	CustomerData            CustomerData      `json:"customer_data"`
	AddressLoadedFromSystem *bool             `json:"address_loaded_from_system"`
	AddressUpdatedByUser    *bool             `json:"address_updated_by_user"`
	AddressChangeRequested  *bool             `json:"address_change_requested"`
	Confirmation            *bool             `json:"confirmation"`
	Submitted               bool              `json:"submitted"`
}

// New returns the state of a fresh conversation.
func New() *State {
	return &State{Messages: []*schema.Message{}}
}

// Clone returns a copy of s whose fields can be changed independently.
// Messages are shared by pointer; they are never modified after creation.
func (s *State) Clone() *State {
	if s == nil {
		return New()
	}
	c := *s
	c.Messages = append(make([]*schema.Message, 0, len(s.Messages)+2), s.Messages...)
	c.Complaint = clonePtr(s.Complaint)
	c.MobileNumber = clonePtr(s.MobileNumber)
	c.IsRegistered = clonePtr(s.IsRegistered)
	c.AddressLoadedFromSystem = clonePtr(s.AddressLoadedFromSystem)
	c.AddressUpdatedByUser = clonePtr(s.AddressUpdatedByUser)
	c.AddressChangeRequested = clonePtr(s.AddressChangeRequested)
	c.Confirmation = clonePtr(s.Confirmation)
	c.CustomerData = CustomerData{
		PriorityID:           clonePtr(s.CustomerData.PriorityID),
		SectorID:             clonePtr(s.CustomerData.SectorID),
		NetworkID:            clonePtr(s.CustomerData.NetworkID),
		AreaID:               clonePtr(s.CustomerData.AreaID),
		LabID:                clonePtr(s.CustomerData.LabID),
		CommercialBranchCode: clonePtr(s.CustomerData.CommercialBranchCode),
		ClientAddress:        clonePtr(s.CustomerData.ClientAddress),
	}
	return &c
}

// Apply returns the state produced by applying ops to s.
func (s *State) Apply(ops ...patch.Operation) (*State, error) {
	base := s.Clone()
	if len(ops) == 0 {
		return base, nil
	}
	next, err := patch.ApplyRFC6902(*base, ops)
	if err != nil {
		return nil, err
	}
	if next.Messages == nil {
		next.Messages = []*schema.Message{}
	}
	return &next, nil
}

// WithMessage returns a copy of s with m appended to the history.
func (s *State) WithMessage(m *schema.Message) *State {
	c := s.Clone()
	c.Messages = append(c.Messages, m)
	return c
}

// LastUserMessage returns the content of the most recent user message.
func (s *State) LastUserMessage() (string, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if m := s.Messages[i]; m != nil && m.Role == schema.User {
			return m.Content, true
		}
	}
	return "", false
}

// Address returns the client address or "".
func (s *State) Address() string {
	if s.CustomerData.ClientAddress == nil {
		return ""
	}
	return *s.CustomerData.ClientAddress
}

// Ready reports whether complaint, phone and address are all known.
func (s *State) Ready() bool {
	return s.Complaint != nil && s.MobileNumber != nil && s.CustomerData.ClientAddress != nil
}

// Registered reports whether the registration lookup hit.
func (s *State) Registered() bool {
	return s.IsRegistered != nil && *s.IsRegistered
}

// Unregistered reports whether the registration lookup ran and missed.
func (s *State) Unregistered() bool {
	return s.IsRegistered != nil && !*s.IsRegistered
}

// ResetCycle returns the operations that close a complaint cycle once it has
// been submitted. Phone, registration and customer data are kept.
func ResetCycle() []patch.Operation {
	return []patch.Operation{
		patch.Set(PathSubmitted, true),
		patch.Clear(PathComplaint),
		patch.Clear(PathConfirmation),
		patch.Clear(PathAddressLoaded),
		patch.Clear(PathAddressUpdated),
		patch.Clear(PathAddressChangeRequested),
	}
}

var ErrInvariant = errors.New("dialogue state invariant violated")

// CheckInvariants verifies the relations between fields that every turn must
// preserve.
func (s *State) CheckInvariants() error {
	if (s.MobileNumber == nil) != (s.IsRegistered == nil) {
		return fmt.Errorf("%w: is_registered must be set together with mobile_number", ErrInvariant)
	}
	if s.Confirmation != nil && !s.Ready() {
		return fmt.Errorf("%w: confirmation set before complaint, phone and address", ErrInvariant)
	}
	return nil
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

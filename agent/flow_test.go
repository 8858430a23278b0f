package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tbxark/calltaker/dialogue"
	"github.com/tbxark/calltaker/directory"
	"github.com/tbxark/calltaker/extract"
	"github.com/tbxark/calltaker/state"
	"github.com/tbxark/calltaker/submission"
	"github.com/tbxark/calltaker/types"
)

func turn(t *testing.T, p *Processor, input string, prior *state.State) *Response {
	t.Helper()
	resp, err := p.Process(context.Background(), input, prior)
	require.NoError(t, err)
	require.NotNil(t, resp)
	return resp
}

func TestProcessUnregisteredCycle(t *testing.T) {
	m := newTestModel()
	sink := &recordingSink{}
	p := newTestProcessor(m, sink)

	// Scenario A
	a := turn(t, p, "My internet has been down for two days", nil)
	assert.Equal(t, types.GoalAskPhone, a.Goal)
	require.NotNil(t, a.State.Complaint)
	assert.Equal(t, "My internet has been down for two days", *a.State.Complaint)
	assert.Nil(t, a.State.MobileNumber)
	assert.Len(t, a.State.Messages, 2)

	// Scenario B
	b := turn(t, p, "0501234567", a.State)
	assert.Equal(t, types.GoalAskAddress, b.Goal)
	require.NotNil(t, b.State.MobileNumber)
	assert.Equal(t, "0501234567", *b.State.MobileNumber)
	require.NotNil(t, b.State.IsRegistered)
	assert.False(t, *b.State.IsRegistered)
	assert.Nil(t, b.State.CustomerData.ClientAddress)

	// Scenario C
	c := turn(t, p, "123 Main St, Riyadh", b.State)
	assert.Equal(t, types.GoalConfirmUpdatedAddress, c.Goal)
	assert.Equal(t, "123 Main St, Riyadh", c.State.Address())
	require.NotNil(t, c.State.AddressUpdatedByUser)
	assert.True(t, *c.State.AddressUpdatedByUser)
	assert.Nil(t, c.State.Confirmation)

	// Scenario D
	d := turn(t, p, "yes, submit it", c.State)
	assert.Equal(t, types.GoalSubmit, d.Goal)
	assert.True(t, d.State.Submitted)
	assert.Nil(t, d.State.Complaint)
	assert.Nil(t, d.State.Confirmation)
	assert.Nil(t, d.State.AddressLoadedFromSystem)
	assert.Nil(t, d.State.AddressUpdatedByUser)
	assert.Equal(t, c.State.MobileNumber, d.State.MobileNumber)
	assert.Equal(t, c.State.IsRegistered, d.State.IsRegistered)
	assert.Equal(t, c.State.CustomerData, d.State.CustomerData)
	assert.Equal(t, "ref-1", d.Metadata["reference_id"])

	require.Len(t, sink.complaints, 1)
	assert.Equal(t, submission.Complaint{
		Text:     "My internet has been down for two days",
		Phone:    "0501234567",
		Address:  "123 Main St, Riyadh",
		Customer: c.State.CustomerData,
	}, sink.complaints[0])

	assert.Equal(t, []types.Tier{
		types.TierFast,    // ask phone
		types.TierFast,    // ask address
		types.TierQuality, // confirm updated address
		types.TierFast,    // submit
	}, m.generationTiers)

	// a new cycle reuses phone and address
	e := turn(t, p, "My landline has no dial tone", d.State)
	assert.Equal(t, types.GoalPresentConfirmation, e.Goal)
	assert.True(t, e.State.Submitted)
	require.NotNil(t, e.State.Complaint)
	assert.Equal(t, "My landline has no dial tone", *e.State.Complaint)
	assert.Len(t, sink.complaints, 1)
}

func TestProcessRegisteredCustomer(t *testing.T) {
	p := newTestProcessor(newTestModel(), &recordingSink{})

	a := turn(t, p, "My internet has been down for two days", nil)
	// Scenario E
	e := turn(t, p, "050555555", a.State)
	assert.Equal(t, types.GoalPresentConfirmation, e.Goal)
	require.NotNil(t, e.State.IsRegistered)
	assert.True(t, *e.State.IsRegistered)
	require.NotNil(t, e.State.AddressLoadedFromSystem)
	assert.True(t, *e.State.AddressLoadedFromSystem)
	assert.Equal(t, "King Fahd Road, Al Olaya District, Riyadh", e.State.Address())
	require.NotNil(t, e.State.CustomerData.SectorID)
	assert.Equal(t, "11", *e.State.CustomerData.SectorID)

	changed := turn(t, p, "Please use a different address: 9 Elm Road, Jeddah", e.State)
	assert.Equal(t, types.GoalConfirmUpdatedAddress, changed.Goal)
	assert.Equal(t, "9 Elm Road, Jeddah", changed.State.Address())
	assert.False(t, *changed.State.AddressLoadedFromSystem)
	assert.Equal(t, e.State.CustomerData.SectorID, changed.State.CustomerData.SectorID)
}

func TestProcessAddressChangeWithoutAddress(t *testing.T) {
	p := newTestProcessor(newTestModel(), &recordingSink{})

	a := turn(t, p, "My internet has been down for two days", nil)
	b := turn(t, p, "050555555", a.State)
	c := turn(t, p, "I want to change my address", b.State)
	assert.Equal(t, types.GoalReaskAddress, c.Goal)
	assert.Nil(t, c.State.CustomerData.ClientAddress)
	require.NotNil(t, c.State.AddressChangeRequested)
	assert.True(t, *c.State.AddressChangeRequested)

	d := turn(t, p, "9 Elm Road, Jeddah", c.State)
	assert.Equal(t, types.GoalConfirmUpdatedAddress, d.Goal)
	assert.Equal(t, "9 Elm Road, Jeddah", d.State.Address())
	assert.Nil(t, d.State.AddressChangeRequested)
}

func TestProcessDeclineThenCorrect(t *testing.T) {
	sink := &recordingSink{}
	p := newTestProcessor(newTestModel(), sink)

	st := turn(t, p, "My internet has been down for two days", nil).State
	st = turn(t, p, "0501234567", st).State
	st = turn(t, p, "123 Main St, Riyadh", st).State

	declined := turn(t, p, "no, that's wrong", st)
	assert.Equal(t, types.GoalAskCorrection, declined.Goal)
	require.NotNil(t, declined.State.Confirmation)
	assert.False(t, *declined.State.Confirmation)
	assert.Equal(t, "123 Main St, Riyadh", declined.State.Address())

	corrected := turn(t, p, "The address is 9 Elm Road, Jeddah", declined.State)
	assert.Equal(t, types.GoalConfirmUpdatedAddress, corrected.Goal)
	assert.Equal(t, "9 Elm Road, Jeddah", corrected.State.Address())
	assert.Nil(t, corrected.State.Confirmation)

	done := turn(t, p, "yes", corrected.State)
	assert.Equal(t, types.GoalSubmit, done.Goal)
	require.Len(t, sink.complaints, 1)
	assert.Equal(t, "9 Elm Road, Jeddah", sink.complaints[0].Address)
}

func TestProcessDeclineThenConfirm(t *testing.T) {
	p := newTestProcessor(newTestModel(), &recordingSink{})

	st := turn(t, p, "My internet has been down for two days", nil).State
	st = turn(t, p, "0501234567", st).State
	st = turn(t, p, "123 Main St, Riyadh", st).State
	st = turn(t, p, "no", st).State

	again := turn(t, p, "sorry, it is correct", st)
	assert.Equal(t, types.GoalSubmit, again.Goal)
	assert.True(t, again.State.Submitted)
}

func TestProcessSubmissionFailure(t *testing.T) {
	sink := &recordingSink{err: errors.New("database down")}
	p := newTestProcessor(newTestModel(), sink)

	st := turn(t, p, "My internet has been down for two days", nil).State
	st = turn(t, p, "0501234567", st).State
	st = turn(t, p, "123 Main St, Riyadh", st).State

	failed := turn(t, p, "yes", st)
	assert.Equal(t, types.GoalSubmissionFailed, failed.Goal)
	assert.False(t, failed.State.Submitted)
	assert.Nil(t, failed.State.Confirmation)
	require.NotNil(t, failed.State.Complaint)

	sink.err = nil
	retried := turn(t, p, "yes", failed.State)
	assert.Equal(t, types.GoalSubmit, retried.Goal)
	assert.True(t, retried.State.Submitted)
	assert.Len(t, sink.complaints, 1)
}

func TestProcessGenerationFailureKeepsState(t *testing.T) {
	m := newTestModel()
	p := newTestProcessor(m, &recordingSink{})

	a := turn(t, p, "My internet has been down for two days", nil)
	m.failGeneration = true

	resp := turn(t, p, "0501234567", a.State)
	assert.Equal(t, ApologyMessage, resp.Message)
	assert.NotEmpty(t, resp.Metadata["error"])
	assert.Nil(t, resp.State.MobileNumber)
	assert.Equal(t, a.State.Complaint, resp.State.Complaint)
	require.Len(t, resp.State.Messages, len(a.State.Messages)+1)
	last := resp.State.Messages[len(resp.State.Messages)-1]
	assert.Equal(t, schema.User, last.Role)
	assert.Equal(t, "0501234567", last.Content)
}

func TestProcessGenerationFailureAfterSubmit(t *testing.T) {
	m := newTestModel()
	sink := &recordingSink{}
	p := newTestProcessor(m, sink)

	st := turn(t, p, "My internet has been down for two days", nil).State
	st = turn(t, p, "0501234567", st).State
	st = turn(t, p, "123 Main St, Riyadh", st).State
	m.failGeneration = true

	resp := turn(t, p, "yes", st)
	assert.Equal(t, ApologyMessage, resp.Message)
	assert.True(t, resp.State.Submitted)
	assert.Nil(t, resp.State.Complaint)
	assert.Len(t, sink.complaints, 1)
}

func TestProcessIsDeterministic(t *testing.T) {
	run := func() *state.State {
		p := newTestProcessor(newTestModel(), &recordingSink{})
		var st *state.State
		for _, in := range []string{"My internet has been down for two days", "0501234567", "123 Main St, Riyadh", "yes"} {
			st = turn(t, p, in, st).State
		}
		return st
	}
	first, second := run(), run()
	assert.Equal(t, first.Complaint, second.Complaint)
	assert.Equal(t, first.MobileNumber, second.MobileNumber)
	assert.Equal(t, first.IsRegistered, second.IsRegistered)
	assert.Equal(t, first.CustomerData, second.CustomerData)
	assert.Equal(t, first.Confirmation, second.Confirmation)
	assert.Equal(t, first.Submitted, second.Submitted)
}

func TestProcessTrimsHistory(t *testing.T) {
	m := newTestModel()
	p := NewProcessor(
		extract.NewDefaultPipeline(m, directory.Default()),
		dialogue.NewGenerator(m),
		&recordingSink{},
		WithTrimmer(KeepLastNTrimmer{N: 6}),
	)
	var st *state.State
	for range 5 {
		st = turn(t, p, "hello", st).State
	}
	require.Len(t, st.Messages, 6)
	assert.Equal(t, schema.Assistant, st.Messages[5].Role)
}

func TestBeginTurn(t *testing.T) {
	prior := state.New()
	prior.AddressUpdatedByUser = state.Ptr(true)
	prior.Confirmation = state.Ptr(false)
	st, err := beginTurn(prior)
	require.NoError(t, err)
	assert.Nil(t, st.AddressUpdatedByUser)
	assert.Nil(t, st.Confirmation)
	assert.NotNil(t, prior.Confirmation)

	prior.Confirmation = state.Ptr(true)
	st, err = beginTurn(prior)
	require.NoError(t, err)
	assert.True(t, *st.Confirmation)
}

func TestProcessAffirmWithContraction(t *testing.T) {
	sink := &recordingSink{}
	p := newTestProcessor(newTestModel(), sink)

	st := turn(t, p, "My internet has been down for two days", nil).State
	st = turn(t, p, "050555555", st).State

	resp := turn(t, p, "Yes, that's correct, I don't want to change anything", st)
	assert.Equal(t, types.GoalSubmit, resp.Goal)
	assert.True(t, resp.State.Submitted)
	require.Len(t, sink.complaints, 1)
	assert.Equal(t, "King Fahd Road, Al Olaya District, Riyadh", sink.complaints[0].Address)
}

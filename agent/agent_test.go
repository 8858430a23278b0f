package agent

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tbxark/calltaker/types"
)

func TestComplaintAgentTurn(t *testing.T) {
	sessions := NewMemorySessionStore()
	a := NewComplaintAgent("calltaker", "complaint intake", newTestProcessor(newTestModel(), &recordingSink{}), sessions, nil)
	ctx := WithSessionKey(context.Background(), "s1")

	resp, err := a.Turn(ctx, "My internet has been down for two days")
	require.NoError(t, err)
	assert.Equal(t, types.GoalAskPhone, resp.Goal)

	resp, err = a.Turn(ctx, "0501234567")
	require.NoError(t, err)
	assert.Equal(t, types.GoalAskAddress, resp.Goal)

	st, ok, err := sessions.Read(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, st.Messages, 4)

	_, err = a.Turn(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrNoSessionKey)
}

func TestComplaintAgentRunner(t *testing.T) {
	sessions := NewMemorySessionStore()
	a := NewComplaintAgent("calltaker", "complaint intake", newTestProcessor(newTestModel(), &recordingSink{}), sessions, NewLocker())
	ctx := WithSessionKey(context.Background(), "cli")
	runner := adk.NewRunner(ctx, adk.RunnerConfig{Agent: a})

	iter := runner.Run(ctx, []*schema.Message{schema.UserMessage("My internet has been down for two days")})
	var replies []string
	for {
		event, ok := iter.Next()
		if !ok {
			break
		}
		require.NoError(t, event.Err)
		msg, err := event.Output.MessageOutput.GetMessage()
		require.NoError(t, err)
		replies = append(replies, msg.Content)
	}
	assert.Equal(t, []string{"Thanks, noted."}, replies)

	st, ok, err := sessions.Read(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotNil(t, st.Complaint)
}

func TestComplaintAgentRunWithoutMessages(t *testing.T) {
	a := NewComplaintAgent("calltaker", "complaint intake", nil, NewMemorySessionStore(), nil)
	iter := a.Run(context.Background(), &adk.AgentInput{})
	event, ok := iter.Next()
	require.True(t, ok)
	assert.Error(t, event.Err)
}

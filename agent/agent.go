package agent

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"
)

var _ adk.Agent = (*ComplaintAgent)(nil)

// ComplaintAgent runs the Processor under an adk.Runner. The session is taken
// from the context; state is loaded before and saved after every turn.
type ComplaintAgent struct {
	name        string
	description string
	processor   *Processor
	sessions    StateReadWriter
	locker      *Locker
}

func NewComplaintAgent(name, description string, processor *Processor, sessions StateReadWriter, locker *Locker) *ComplaintAgent {
	if locker == nil {
		locker = NewLocker()
	}
	return &ComplaintAgent{
		name:        name,
		description: description,
		processor:   processor,
		sessions:    sessions,
		locker:      locker,
	}
}

func (a *ComplaintAgent) Name(ctx context.Context) string {
	return a.name
}

func (a *ComplaintAgent) Description(ctx context.Context) string {
	return a.description
}

// Turn loads the session state, processes input and stores the result.
func (a *ComplaintAgent) Turn(ctx context.Context, input string) (*Response, error) {
	key, ok := SessionKeyFromContext(ctx)
	if !ok || key == "" {
		return nil, ErrNoSessionKey
	}
	unlock := a.locker.Lock(key)
	defer unlock()

	prior, _, err := a.sessions.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read session %s: %w", key, err)
	}
	resp, err := a.processor.Process(ctx, input, prior)
	if err != nil {
		return nil, err
	}
	if err := a.sessions.Write(ctx, resp.State); err != nil {
		return nil, fmt.Errorf("write session %s: %w", key, err)
	}
	return resp, nil
}

func (a *ComplaintAgent) Run(ctx context.Context, input *adk.AgentInput, options ...adk.AgentRunOption) *adk.AsyncIterator[*adk.AgentEvent] {
	iter, gen := adk.NewAsyncIteratorPair[*adk.AgentEvent]()
	go func() {
		defer func() {
			e := recover()
			if e != nil {
				gen.Send(&adk.AgentEvent{
					Err: fmt.Errorf("recover from panic: %v", e),
				})
			}
			gen.Close()
		}()
		if input == nil || len(input.Messages) == 0 {
			gen.Send(&adk.AgentEvent{
				Err: fmt.Errorf("no messages in input"),
			})
			return
		}
		resp, err := a.Turn(ctx, input.Messages[len(input.Messages)-1].Content)
		if err != nil {
			gen.Send(&adk.AgentEvent{
				Err: fmt.Errorf("turn failed: %w", err),
			})
			return
		}
		gen.Send(&adk.AgentEvent{
			Output: &adk.AgentOutput{
				MessageOutput: &adk.MessageVariant{
					IsStreaming: false,
					Message:     schema.AssistantMessage(resp.Message, nil),
					Role:        schema.Assistant,
				},
			},
		})
	}()
	return iter
}

package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/calltaker/dialogue"
	"github.com/tbxark/calltaker/extract"
	"github.com/tbxark/calltaker/patch"
	"github.com/tbxark/calltaker/state"
	"github.com/tbxark/calltaker/submission"
	"github.com/tbxark/calltaker/types"
)

// DefaultHistory is how many messages are kept across turns.
const DefaultHistory = 10

type ProcessorOption func(*Processor)

// WithTrimmer sets how history is truncated between turns.
func WithTrimmer(t Trimmer) ProcessorOption {
	return func(p *Processor) {
		p.trimmer = t
	}
}

// Processor runs one conversational turn: extraction, goal selection, the
// submit side effect and reply generation.
type Processor struct {
	pipeline  *extract.Pipeline
	generator dialogue.Generator
	sink      submission.Sink
	trimmer   Trimmer
}

func NewProcessor(pipeline *extract.Pipeline, generator dialogue.Generator, sink submission.Sink, opts ...ProcessorOption) *Processor {
	p := &Processor{
		pipeline:  pipeline,
		generator: generator,
		sink:      sink,
		trimmer:   KeepLastNTrimmer{N: DefaultHistory},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Process handles input against prior and returns the reply together with
// the new state. A nil prior starts a new conversation.
func (p *Processor) Process(ctx context.Context, input string, prior *state.State) (*Response, error) {
	ctx = callbacks.EnsureRunInfo(ctx, "ComplaintProcessor", "Agent")
	ctx = callbacks.OnStart(ctx, map[string]any{
		"input": input,
		"state": prior,
	})

	defer func() {
		if r := recover(); r != nil {
			callbacks.OnError(ctx, fmt.Errorf("panic in Processor.Process: %v", r))
			panic(r)
		}
	}()

	response, err := p.runInternal(ctx, input, prior)
	if err != nil {
		callbacks.OnError(ctx, err)
		return nil, err
	}

	callbacks.OnEnd(ctx, map[string]any{
		"response": response,
		"goal":     string(response.Goal),
	})
	return response, nil
}

func (p *Processor) runInternal(ctx context.Context, input string, prior *state.State) (*Response, error) {
	if prior == nil {
		prior = state.New()
	}
	userMsg := schema.UserMessage(input)
	unchanged := prior.WithMessage(userMsg)

	working, err := beginTurn(prior)
	if err != nil {
		return p.handleError(ctx, fmt.Errorf("failed to begin turn: %w", err), unchanged)
	}
	working = working.WithMessage(userMsg)

	slog.Debug("Running extraction", "input", input)
	extracted, err := p.pipeline.Run(ctx, prior, working, input)
	if err != nil {
		return p.handleError(ctx, fmt.Errorf("failed to extract: %w", err), unchanged)
	}

	goal := dialogue.Select(extracted)
	slog.Debug("Selected goal", "goal", goal)
	req := &dialogue.Request{Goal: goal, State: extracted, History: extracted.Messages}
	next := extracted
	committed := false

	if goal == types.GoalSubmit {
		ack, sErr := p.sink.Submit(ctx, submission.FromState(extracted))
		if sErr != nil {
			slog.Error("Complaint submission failed", "err", sErr)
			next, err = extracted.Apply(patch.Clear(state.PathConfirmation))
			if err != nil {
				return p.handleError(ctx, fmt.Errorf("failed to reopen confirmation: %w", err), unchanged)
			}
			goal = types.GoalSubmissionFailed
			req.Goal = goal
			req.State = next
		} else {
			// the reply is phrased from the confirmed facts, the stored state
			// already starts the next cycle
			next, err = extracted.Apply(state.ResetCycle()...)
			if err != nil {
				return p.handleError(ctx, fmt.Errorf("failed to reset cycle: %w", err), unchanged)
			}
			req.ReferenceID = ack.ReferenceID
			committed = true
		}
	}

	reply, err := p.generator.Generate(ctx, req)
	if err != nil {
		if committed {
			// the complaint is recorded; keeping the reset state avoids a second submission
			return p.handleError(ctx, fmt.Errorf("failed to generate dialogue: %w", err), next)
		}
		return p.handleError(ctx, fmt.Errorf("failed to generate dialogue: %w", err), unchanged)
	}
	slog.Debug("Generated dialogue", "goal", goal, "reply", reply)

	final := next.WithMessage(schema.AssistantMessage(reply, nil))
	final.Messages = p.trimmer.Trim(final.Messages)
	if iErr := final.CheckInvariants(); iErr != nil {
		slog.Warn("State invariant violated", "err", iErr)
	}

	resp := &Response{
		Message: reply,
		Goal:    goal,
		State:   final,
	}
	if committed {
		resp.Metadata = map[string]string{"reference_id": req.ReferenceID}
	}
	return resp, nil
}

// beginTurn clears the flags that only describe the previous turn. A declined
// confirmation is reopened so the reply to the correction prompt can confirm
// again or supply a new address.
func beginTurn(prior *state.State) (*state.State, error) {
	var ops []patch.Operation
	if prior.AddressUpdatedByUser != nil {
		ops = append(ops, patch.Clear(state.PathAddressUpdated))
	}
	if prior.Confirmation != nil && !*prior.Confirmation {
		ops = append(ops, patch.Clear(state.PathConfirmation))
	}
	return prior.Apply(ops...)
}

func (p *Processor) handleError(ctx context.Context, err error, st *state.State) (*Response, error) {
	slog.ErrorContext(ctx, "Turn failed", "err", err)
	st = st.Clone()
	st.Messages = p.trimmer.Trim(st.Messages)
	return &Response{
		Message: ApologyMessage,
		Goal:    dialogue.Select(st),
		State:   st,
		Metadata: map[string]string{
			"error": err.Error(),
		},
	}, nil
}

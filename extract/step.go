package extract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tbxark/calltaker/completion"
	"github.com/tbxark/calltaker/directory"
	"github.com/tbxark/calltaker/patch"
	"github.com/tbxark/calltaker/state"
)

// Input is what a step sees. Start is the state the turn began with, State
// the working copy produced by the steps that already ran.
type Input struct {
	Start   *state.State
	State   *state.State
	Message string
}

// Step tries to learn one fact from the latest user message. A step that
// finds nothing returns no operations; Paths lists every pointer it may write.
type Step interface {
	Name() string
	Paths() []string
	Extract(ctx context.Context, in *Input) ([]patch.Operation, error)
}

// Pipeline runs steps in order over a working copy of the state.
type Pipeline struct {
	steps []Step
}

func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// NewDefaultPipeline wires the complaint, phone, registration, address and
// confirmation steps in dependency order.
func NewDefaultPipeline(c completion.Completer, d directory.Directory) *Pipeline {
	return NewPipeline(
		NewComplaintStep(c),
		NewPhoneStep(c),
		NewRegistrationStep(d),
		NewAddressStep(c),
		NewConfirmationStep(),
	)
}

// Run applies every step to working and returns the result. A step that
// fails is logged and treated as having found nothing; an operation outside
// a step's declared paths is a programming error and aborts the run.
func (p *Pipeline) Run(ctx context.Context, start, working *state.State, message string) (*state.State, error) {
	if message == "" {
		return working, nil
	}
	in := &Input{Start: start, State: working, Message: message}
	for _, step := range p.steps {
		ops, err := step.Extract(ctx, in)
		if err != nil {
			slog.Warn("extraction step failed", "step", step.Name(), "err", err)
			continue
		}
		if len(ops) == 0 {
			slog.Debug("extraction step found nothing", "step", step.Name())
			continue
		}
		if err := patch.ValidatePatchOperations(ops, step.Paths()); err != nil {
			return nil, fmt.Errorf("step %s: %w", step.Name(), err)
		}
		next, err := in.State.Apply(ops...)
		if err != nil {
			return nil, fmt.Errorf("step %s: %w", step.Name(), err)
		}
		slog.Debug("extraction step applied", "step", step.Name(), "ops", ops)
		in.State = next
	}
	return in.State, nil
}

package extract

import (
	"context"

	"github.com/tbxark/calltaker/completion"
	"github.com/tbxark/calltaker/patch"
	"github.com/tbxark/calltaker/state"
	"github.com/tbxark/calltaker/types"
)

// MinComplaintLen is the length a complaint must exceed to be accepted.
const MinComplaintLen = 10

type ComplaintStep struct {
	completer completion.Completer
}

func NewComplaintStep(c completion.Completer) *ComplaintStep {
	return &ComplaintStep{completer: c}
}

func (s *ComplaintStep) Name() string { return "complaint" }

func (s *ComplaintStep) Paths() []string { return []string{state.PathComplaint} }

func (s *ComplaintStep) Extract(ctx context.Context, in *Input) ([]patch.Operation, error) {
	if in.State.Complaint != nil {
		return nil, nil
	}
	out, err := s.completer.Generate(ctx, types.TierFast, buildPrompt(complaintPromptTemplate, in.Message))
	if err != nil {
		return nil, err
	}
	complaint, ok := accepted(out, MinComplaintLen)
	if !ok {
		return nil, nil
	}
	return []patch.Operation{patch.Set(state.PathComplaint, complaint)}, nil
}

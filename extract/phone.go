package extract

import (
	"context"
	"log/slog"

	"github.com/tbxark/calltaker/completion"
	"github.com/tbxark/calltaker/patch"
	"github.com/tbxark/calltaker/state"
	"github.com/tbxark/calltaker/types"
)

// MinPhoneDigits is the shortest digit string accepted as a phone number.
const MinPhoneDigits = 5

// PhoneStep accepts typed numbers directly and asks the model only for
// numbers spelled out in words.
type PhoneStep struct {
	completer completion.Completer
}

func NewPhoneStep(c completion.Completer) *PhoneStep {
	return &PhoneStep{completer: c}
}

func (s *PhoneStep) Name() string { return "phone" }

func (s *PhoneStep) Paths() []string { return []string{state.PathMobileNumber} }

func (s *PhoneStep) Extract(ctx context.Context, in *Input) ([]patch.Operation, error) {
	if in.State.MobileNumber != nil {
		return nil, nil
	}
	if digits := Digits(in.Message); len(digits) >= MinPhoneDigits {
		slog.Debug("phone number taken from typed digits", "digits", len(digits))
		return []patch.Operation{patch.Set(state.PathMobileNumber, digits)}, nil
	}
	out, err := s.completer.Generate(ctx, types.TierFast, buildPrompt(phonePromptTemplate, in.Message))
	if err != nil {
		return nil, err
	}
	out = cleanOutput(out)
	if isNone(out) {
		return nil, nil
	}
	digits := Digits(out)
	if len(digits) < MinPhoneDigits {
		return nil, nil
	}
	return []patch.Operation{patch.Set(state.PathMobileNumber, digits)}, nil
}

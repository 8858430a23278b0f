package agent

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/tbxark/calltaker/dialogue"
	"github.com/tbxark/calltaker/directory"
	"github.com/tbxark/calltaker/extract"
	"github.com/tbxark/calltaker/submission"
	"github.com/tbxark/calltaker/types"
)

const replyMarker = "Generate a natural, friendly response:"

// fakeModel answers extraction prompts with the first known fact quoted in
// the message and replies to generation prompts with a fixed text.
type fakeModel struct {
	mu              sync.Mutex
	complaints      []string
	addresses       []string
	failGeneration  bool
	generationTiers []types.Tier
}

func (m *fakeModel) Generate(ctx context.Context, tier types.Tier, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case strings.HasSuffix(prompt, "Complaint:"):
		return firstIn(prompt, m.complaints), nil
	case strings.HasSuffix(prompt, "Address:"):
		return firstIn(prompt, m.addresses), nil
	case strings.HasSuffix(prompt, "Phone number:"):
		return "None", nil
	case strings.HasSuffix(prompt, replyMarker):
		if m.failGeneration {
			return "", errors.New("model unavailable")
		}
		m.generationTiers = append(m.generationTiers, tier)
		return "Thanks, noted.", nil
	}
	return "None", nil
}

func firstIn(prompt string, candidates []string) string {
	for _, c := range candidates {
		if strings.Contains(prompt, c) {
			return c
		}
	}
	return "None"
}

type recordingSink struct {
	mu         sync.Mutex
	err        error
	complaints []submission.Complaint
}

func (s *recordingSink) Submit(ctx context.Context, c submission.Complaint) (submission.Ack, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return submission.Ack{}, s.err
	}
	s.complaints = append(s.complaints, c)
	return submission.Ack{ReferenceID: "ref-1"}, nil
}

func newTestModel() *fakeModel {
	return &fakeModel{
		complaints: []string{
			"My internet has been down for two days",
			"My landline has no dial tone",
		},
		addresses: []string{
			"123 Main St, Riyadh",
			"9 Elm Road, Jeddah",
		},
	}
}

func newTestProcessor(m *fakeModel, sink submission.Sink) *Processor {
	return NewProcessor(
		extract.NewDefaultPipeline(m, directory.Default()),
		dialogue.NewGenerator(m),
		sink,
	)
}

package testcases

import (
	"context"
	"os"
	"testing"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/tbxark/calltaker/agent"
	"github.com/tbxark/calltaker/completion"
	"github.com/tbxark/calltaker/config"
	"github.com/tbxark/calltaker/dialogue"
	"github.com/tbxark/calltaker/directory"
	"github.com/tbxark/calltaker/extract"
	"github.com/tbxark/calltaker/submission"
)

// InitCompleter builds a two-tier completer against the configured model
// endpoint. Live tests are skipped unless CALLTAKER_RUN_LIVE_TESTS=1.
func InitCompleter(t *testing.T) completion.Completer {
	t.Helper()
	if os.Getenv("CALLTAKER_RUN_LIVE_TESTS") != "1" {
		t.Skip("set CALLTAKER_RUN_LIVE_TESTS=1 to run live LLM tests")
		return nil
	}
	path := os.Getenv("CALLTAKER_CONFIG")
	if path == "" {
		path = "../calltaker.yaml"
	}
	if _, err := os.Stat(path); err != nil {
		path = ""
	}
	conf, err := config.Load(path)
	if err != nil {
		t.Skipf("failed to load config: %v", err)
		return nil
	}
	if conf.APIKey == "" {
		t.Skip("api_key is empty")
		return nil
	}

	ctx := context.Background()
	quality, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  conf.APIKey,
		Model:   conf.Models.Quality,
		BaseURL: conf.BaseURL,
	})
	if err != nil {
		t.Fatalf("failed to init quality model: %v", err)
	}
	fast, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  conf.APIKey,
		Model:   conf.Models.Fast,
		BaseURL: conf.BaseURL,
	})
	if err != nil {
		t.Fatalf("failed to init fast model: %v", err)
	}
	return completion.NewFailbackCompleter(completion.NewModelCompleter(quality, fast))
}

// NewTestProcessor wires a processor against the live model and the default
// customer directory. Submissions go to sink.
func NewTestProcessor(t *testing.T, sink submission.Sink) *agent.Processor {
	t.Helper()
	c := InitCompleter(t)
	return agent.NewProcessor(
		extract.NewDefaultPipeline(c, directory.Default()),
		dialogue.NewGenerator(c),
		sink,
	)
}

// memorySink records submitted complaints.
type memorySink struct {
	complaints []submission.Complaint
}

func (s *memorySink) Submit(ctx context.Context, c submission.Complaint) (submission.Ack, error) {
	s.complaints = append(s.complaints, c)
	return submission.LogSink{}.Submit(ctx, c)
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/tbxark/calltaker/agent"
	"github.com/tbxark/calltaker/api"
	"github.com/tbxark/calltaker/completion"
	"github.com/tbxark/calltaker/config"
	"github.com/tbxark/calltaker/dialogue"
	"github.com/tbxark/calltaker/directory"
	"github.com/tbxark/calltaker/extract"
	"github.com/tbxark/calltaker/state"
	"github.com/tbxark/calltaker/submission"
)

// app holds the wired components shared by every command.
type app struct {
	conf     *config.Config
	cache    *agent.MemoryCache[*state.State]
	sessions *agent.SessionStore
	agent    *agent.ComplaintAgent
	// complaints is set only when submissions are stored in SQLite.
	complaints api.ComplaintLister
	closers    []func() error
}

func loadConfig() (*config.Config, error) {
	conf, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	level, _ := conf.Level()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return conf, nil
}

func newApp(ctx context.Context, conf *config.Config) (*app, error) {
	a := &app{conf: conf}

	quality, err := newChatModel(ctx, conf, conf.Models.Quality)
	if err != nil {
		return nil, err
	}
	fast, err := newChatModel(ctx, conf, conf.Models.Fast)
	if err != nil {
		return nil, err
	}
	completer := completion.NewFailbackCompleter(completion.NewModelCompleter(quality, fast))

	dir := directory.Default()
	if conf.Directory.File != "" {
		dir, err = directory.LoadFile(conf.Directory.File)
		if err != nil {
			return nil, err
		}
	}

	var sink submission.Sink = submission.LogSink{}
	if conf.Submission.Driver == config.DriverSQLite {
		sqliteSink, sErr := submission.NewSQLiteSink(ctx, conf.Submission.DSN)
		if sErr != nil {
			return nil, sErr
		}
		a.closers = append(a.closers, sqliteSink.Close)
		a.complaints = sqliteSink
		sink = sqliteSink
	}

	processor := agent.NewProcessor(
		extract.NewDefaultPipeline(completer, dir),
		dialogue.NewGenerator(completer,
			dialogue.WithPersona(conf.Persona),
			dialogue.WithLang(conf.Language),
		),
		sink,
		agent.WithTrimmer(agent.KeepLastNTrimmer{N: conf.History.Keep}),
	)

	a.cache = agent.NewMemoryCache[*state.State]()
	a.sessions = agent.NewSessionStore(a.cache)
	a.agent = agent.NewComplaintAgent(
		"ComplaintTaker",
		"An agent that takes customer complaints through conversation and submits them",
		processor,
		a.sessions,
		agent.NewLocker(),
	)
	slog.Info("calltaker ready",
		"quality_model", conf.Models.Quality,
		"fast_model", conf.Models.Fast,
		"submission", conf.Submission.Driver,
	)
	return a, nil
}

func newChatModel(ctx context.Context, conf *config.Config, name string) (*openai.ChatModel, error) {
	temperature := conf.Temperature
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:      conf.APIKey,
		Model:       name,
		BaseURL:     conf.BaseURL,
		Temperature: &temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("create chat model %s: %w", name, err)
	}
	return cm, nil
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			slog.Warn("close failed", "err", err)
		}
	}
}

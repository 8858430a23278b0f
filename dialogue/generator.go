package dialogue

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/calltaker/completion"
	"github.com/tbxark/calltaker/state"
	"github.com/tbxark/calltaker/types"
)

// ContextMessages is how many recent messages are shown to the model.
const ContextMessages = 5

// DefaultSystemPromptTemplate frames every reply. "{persona}" and
// "{language}" are substituted.
const DefaultSystemPromptTemplate = `You are {persona}, a friendly customer service agent who takes customer complaints over chat.

Guidelines:
- Be warm, empathetic and conversational; never sound like a form.
- Keep replies short: two or three sentences unless you are presenting a summary.
- Ask for one thing at a time.
- Never invent complaint details, phone numbers, addresses or reference numbers.
- Reply in {language}, or in the customer's language if they write in another one.`

// Request describes the reply to produce for a turn.
type Request struct {
	Goal        types.Goal
	State       *state.State
	History     []*schema.Message
	ReferenceID string
}

// Generator phrases the assistant reply for a goal.
type Generator interface {
	Generate(ctx context.Context, req *Request) (string, error)
}

type generatorOptions struct {
	persona              string
	lang                 string
	systemPrompt         string
	systemPromptTemplate string
}

type GeneratorOption func(*generatorOptions)

// WithPersona sets the agent name used by the default system prompt.
func WithPersona(persona string) GeneratorOption {
	return func(o *generatorOptions) {
		o.persona = persona
	}
}

// WithLang sets the reply language used by the default system prompt.
func WithLang(lang string) GeneratorOption {
	return func(o *generatorOptions) {
		o.lang = lang
	}
}

// WithSystemPrompt replaces the system prompt entirely.
func WithSystemPrompt(systemPrompt string) GeneratorOption {
	return func(o *generatorOptions) {
		o.systemPrompt = systemPrompt
	}
}

// WithSystemPromptTemplate replaces the system prompt template.
func WithSystemPromptTemplate(tpl string) GeneratorOption {
	return func(o *generatorOptions) {
		o.systemPromptTemplate = tpl
	}
}

// CompletionGenerator builds a prompt from the goal's instruction and the
// recent conversation and sends it to the completer on the goal's tier.
type CompletionGenerator struct {
	completer    completion.Completer
	persona      string
	systemPrompt string
}

func NewGenerator(c completion.Completer, opts ...GeneratorOption) *CompletionGenerator {
	options := generatorOptions{
		persona:              "Camila",
		lang:                 "English",
		systemPromptTemplate: DefaultSystemPromptTemplate,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	systemPrompt := options.systemPrompt
	if systemPrompt == "" {
		systemPrompt = strings.NewReplacer(
			"{persona}", options.persona,
			"{language}", options.lang,
		).Replace(options.systemPromptTemplate)
	}
	return &CompletionGenerator{
		completer:    c,
		persona:      options.persona,
		systemPrompt: systemPrompt,
	}
}

func (g *CompletionGenerator) Generate(ctx context.Context, req *Request) (string, error) {
	tier := TierFor(req.Goal)
	slog.Debug("Generating reply", "goal", req.Goal, "tier", tier)
	text, err := g.completer.Generate(ctx, tier, g.BuildPrompt(req))
	if err != nil {
		return "", fmt.Errorf("generate reply for %s: %w", req.Goal, err)
	}
	return strings.TrimSpace(text), nil
}

// BuildPrompt renders the full prompt for req.
func (g *CompletionGenerator) BuildPrompt(req *Request) string {
	sections := []string{
		g.systemPrompt,
		Instruction(req, g.persona),
		"Recent conversation:\n" + types.FormatHistory(req.History, ContextMessages),
		"Generate a natural, friendly response:",
	}
	return strings.Join(sections, "\n\n")
}

var _ Generator = (*CompletionGenerator)(nil)

package llm

import (
	"context"
	neturl "net/url"
	"strings"

	perr "insightbff/internal/platform/errors"

	anthropicclient "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	openaiclient "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
	jetai "go.jetify.com/ai"
	jetapi "go.jetify.com/ai/api"
	jetanthropic "go.jetify.com/ai/provider/anthropic"
	jetopenai "go.jetify.com/ai/provider/openai"
)

const (
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultAnthropicModel = "claude-haiku-4-5-20251001"
)

// generate is the jetify call, swapped in tests
var generate = func(ctx context.Context, msgs []jetapi.Message, model jetapi.LanguageModel, maxTokens int) (*jetapi.Response, error) {
	return jetai.GenerateText(ctx, msgs,
		jetai.WithModel(model),
		jetai.WithMaxOutputTokens(maxTokens),
		jetai.WithTemperature(0),
	)
}

type jetProvider struct {
	name      string
	model     jetapi.LanguageModel
	maxTokens int
}

func newOpenAI(o Options) *jetProvider {
	id := strings.TrimSpace(o.Model)
	if id == "" {
		id = defaultOpenAIModel
	}
	opts := []openaioption.RequestOption{
		openaioption.WithAPIKey(strings.TrimSpace(o.APIKey)),
		openaioption.WithMaxRetries(0),
	}
	if base := openAIBaseURL(o.Endpoint); base != "" {
		opts = append(opts, openaioption.WithBaseURL(base))
	}
	client := openaiclient.NewClient(opts...)
	return &jetProvider{
		name:      normalizeKind(o.Kind) + ":" + id,
		model:     jetopenai.NewLanguageModel(id, jetopenai.WithClient(client)),
		maxTokens: o.MaxTokens,
	}
}

func newAnthropic(o Options) *jetProvider {
	id := strings.TrimSpace(o.Model)
	if id == "" {
		id = defaultAnthropicModel
	}
	opts := []anthropicoption.RequestOption{
		anthropicoption.WithAPIKey(strings.TrimSpace(o.APIKey)),
		anthropicoption.WithMaxRetries(0),
	}
	if ep := strings.TrimSpace(o.Endpoint); ep != "" {
		opts = append(opts, anthropicoption.WithBaseURL(strings.TrimRight(ep, "/")))
	}
	client := anthropicclient.NewClient(opts...)
	return &jetProvider{
		name:      KindAnthropic + ":" + id,
		model:     jetanthropic.NewLanguageModel(id, jetanthropic.WithClient(client)),
		maxTokens: o.MaxTokens,
	}
}

// Name returns kind:model
func (p *jetProvider) Name() string { return p.name }

// Complete sends one system+user exchange and joins the returned text blocks
func (p *jetProvider) Complete(ctx context.Context, pr Prompt) (string, error) {
	limit := pr.MaxTokens
	if limit <= 0 {
		limit = p.maxTokens
	}
	resp, err := generate(ctx, messages(pr), p.model, limit)
	if err != nil {
		if perr.IsTimeout(err) {
			return "", perr.Wrap(err, perr.ErrorCodeTimeout, "llm timed out")
		}
		return "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "llm %s", p.name)
	}
	return textOf(resp)
}

func messages(pr Prompt) []jetapi.Message {
	msgs := make([]jetapi.Message, 0, 2)
	if strings.TrimSpace(pr.System) != "" {
		msgs = append(msgs, &jetapi.SystemMessage{Content: pr.System})
	}
	return append(msgs, &jetapi.UserMessage{Content: jetapi.ContentFromText(pr.User)})
}

func textOf(resp *jetapi.Response) (string, error) {
	if resp == nil {
		return "", perr.Unavailablef("llm returned no response")
	}
	var b strings.Builder
	for _, block := range resp.Content {
		if tb, ok := block.(*jetapi.TextBlock); ok {
			b.WriteString(tb.Text)
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", perr.Unavailablef("llm returned empty text")
	}
	return out, nil
}

// openAIBaseURL appends /v1 to a bare host so compatible gateways work with the sdk
func openAIBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return ""
	}
	u, err := neturl.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return strings.TrimRight(base, "/")
	}
	path := strings.TrimRight(u.Path, "/")
	if !strings.HasSuffix(path, "/v1") {
		path += "/v1"
	}
	u.Path = path
	return strings.TrimRight(u.String(), "/")
}

// Package llm provides translation provider clients behind one Complete call.
// Hosted models go through go.jetify.com/ai; echo is an offline stand-in
package llm

import (
	"context"
	"strings"

	"insightbff/internal/platform/config"
	perr "insightbff/internal/platform/errors"
)

// Provider kinds accepted by LLM_PROVIDER
const (
	KindOpenAI           = "openai"
	KindAnthropic        = "anthropic"
	KindOpenAICompatible = "openai-compatible"
	KindEcho             = "echo"
)

// Prompt is one provider request; Text carries the raw payload being translated
// so offline providers can answer without parsing User
type Prompt struct {
	System    string
	User      string
	Text      string
	MaxTokens int
}

// Provider completes a prompt deterministically (temperature 0)
type Provider interface {
	Complete(ctx context.Context, p Prompt) (string, error)
	Name() string
}

// Options selects and configures a provider
type Options struct {
	Kind      string
	APIKey    string
	Model     string
	Endpoint  string
	MaxTokens int
}

// FromConfig reads LLM_*; an empty key falls back to the echo provider
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("LLM_")
	return Options{
		Kind: c.MayEnum("PROVIDER", KindEcho,
			KindOpenAI, KindAnthropic, KindOpenAICompatible, KindEcho),
		APIKey:    c.MayString("API_KEY", ""),
		Model:     c.MayString("MODEL", ""),
		Endpoint:  c.MayString("ENDPOINT", ""),
		MaxTokens: c.MayPositiveInt("MAX_TOKENS", 2048),
	}
}

// New builds the provider named by o.Kind
func New(o Options) (Provider, error) {
	kind := normalizeKind(o.Kind)
	if kind != KindEcho && strings.TrimSpace(o.APIKey) == "" {
		return Echo{}, nil
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = 2048
	}
	switch kind {
	case KindEcho:
		return Echo{}, nil
	case KindAnthropic:
		return newAnthropic(o), nil
	case KindOpenAI, KindOpenAICompatible:
		return newOpenAI(o), nil
	}
	return nil, perr.InvalidArgf("unknown llm provider %q", o.Kind)
}

func normalizeKind(raw string) string {
	k := strings.ToLower(strings.TrimSpace(raw))
	k = strings.ReplaceAll(k, "_", "-")
	if k == "openaicompatible" {
		k = KindOpenAICompatible
	}
	return k
}

package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"insightbff/internal/adapters/llm"
	perr "insightbff/internal/platform/errors"
	"insightbff/internal/services/textcache/domain"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const systemText = "You are a professional news translator. Translate faithfully, keep names, " +
	"numbers and formatting. Reply with the translation only."

const systemFields = "You are a professional news translator. You receive a JSON object with " +
	"title, summary and details. Reply with one JSON object with the same keys, each value translated. " +
	"Reply with JSON only."

// langName renders a tag for prompts ("de" -> "German"); unknown tags pass through
func langName(tag string) string {
	t, err := language.Parse(tag)
	if err != nil {
		return tag
	}
	if name := display.English.Tags().Name(t); name != "" {
		return name
	}
	return tag
}

func textPrompt(text, src, dst string, maxTokens int) llm.Prompt {
	from := "the source language"
	if src != "" {
		from = langName(src)
	}
	return llm.Prompt{
		System:    systemText,
		User:      fmt.Sprintf("Translate from %s to %s:\n\n%s", from, langName(dst), text),
		Text:      text,
		MaxTokens: maxTokens,
	}
}

func fieldsPrompt(f domain.Fields, src, dst string, maxTokens int) (llm.Prompt, error) {
	payload, err := json.Marshal(f)
	if err != nil {
		return llm.Prompt{}, err
	}
	from := "the source language"
	if src != "" {
		from = langName(src)
	}
	return llm.Prompt{
		System:    systemFields,
		User:      fmt.Sprintf("Translate every value from %s to %s:\n\n%s", from, langName(dst), payload),
		Text:      string(payload),
		MaxTokens: maxTokens,
	}, nil
}

// parseFields accepts a bare object, a fenced block, or an object inside chatter.
// Every field that was non-empty in want must come back non-empty
func parseFields(raw string, want domain.Fields) (domain.Fields, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	var out domain.Fields
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		start, end := strings.Index(s, "{"), strings.LastIndex(s, "}")
		if start < 0 || end <= start {
			return domain.Fields{}, perr.Unavailablef("combined translation is not JSON")
		}
		if err := json.Unmarshal([]byte(s[start:end+1]), &out); err != nil {
			return domain.Fields{}, perr.Unavailablef("combined translation is not JSON")
		}
	}
	missing := func(in, got string) bool {
		return strings.TrimSpace(in) != "" && strings.TrimSpace(got) == ""
	}
	if missing(want.Title, out.Title) || missing(want.Summary, out.Summary) || missing(want.Details, out.Details) {
		return domain.Fields{}, perr.Unavailablef("combined translation is missing fields")
	}
	return out, nil
}

package translation

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mrlokans/storyshelf/internal/config"
)

const systemPromptTemplate = "You are a literary translator. Translate the user's text into %s. " +
	"Preserve paragraph breaks, names and tone. Reply with the translation only."

// OpenAITranslator translates through an OpenAI-compatible chat completion API.
type OpenAITranslator struct {
	client *openai.Client
	model  string
}

// NewOpenAITranslator creates a translator from config. Without an API key the
// translator reports ErrUnavailable on every call.
func NewOpenAITranslator(cfg config.Translation) *OpenAITranslator {
	model := cfg.Model
	if model == "" {
		model = config.DefaultTranslationModel
	}
	if cfg.APIKey == "" {
		return &OpenAITranslator{model: model}
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAITranslator{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}
}

// Configured reports whether an API key was supplied.
func (t *OpenAITranslator) Configured() bool {
	return t.client != nil
}

func (t *OpenAITranslator) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	if t.client == nil {
		return "", fmt.Errorf("%w: translator is not configured", ErrUnavailable)
	}

	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: fmt.Sprintf(systemPromptTemplate, LanguageName(targetLanguage))},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%w: empty response", ErrUnavailable)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

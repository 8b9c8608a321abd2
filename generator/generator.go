// Package generator turns free text into a batch of flashcards using a
// hosted chat-completion model.
package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/andrewpaige1/flashcard-saas/common"
	"github.com/andrewpaige1/flashcard-saas/models"
)

const (
	maxTokens   = 8192
	temperature = 1.0
	topP        = 0.95
)

// Completer is the subset of the chat-completion client the generator needs.
// *openai.Client satisfies it.
type Completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Generator builds completion requests and validates the model's answer.
// It holds no per-request state and is safe for concurrent use.
type Generator struct {
	client Completer
	model  string
	log    *zap.Logger
}

func New(client Completer, model string, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{client: client, model: model, log: log}
}

// Generate sends text to the model and returns the parsed flashcards.
// Transport failures wrap common.ErrGenerationFailed; content that is not
// the expected JSON shape wraps common.ErrGenerationParse.
func (g *Generator) Generate(ctx context.Context, text string) ([]models.Card, error) {
	resp, err := g.client.CreateChatCompletion(ctx, g.request(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrGenerationFailed, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: completion returned no choices", common.ErrGenerationFailed)
	}

	cards, err := ParseFlashcards(resp.Choices[0].Message.Content)
	if err != nil {
		g.log.Warn("Generate: model returned unusable content",
			zap.String("model", g.model),
			zap.String("finish_reason", string(resp.Choices[0].FinishReason)),
			zap.Error(err))
		return nil, err
	}

	return cards, nil
}

func (g *Generator) request(text string) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
		TopP:        topP,
	}
}

type rawCard struct {
	Front *string `json:"front"`
	Back  *string `json:"back"`
}

type rawResponse struct {
	Flashcards *[]rawCard `json:"flashcards"`
}

// ParseFlashcards decodes content of the form {"flashcards":[{"front":..,"back":..}]}.
// Every card needs a non-empty front and back, and there must be between one
// and MaxFlashcards of them.
func ParseFlashcards(content string) ([]models.Card, error) {
	dec := json.NewDecoder(strings.NewReader(content))

	var raw rawResponse
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrGenerationParse, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after JSON object", common.ErrGenerationParse)
	}
	if raw.Flashcards == nil {
		return nil, fmt.Errorf("%w: missing flashcards field", common.ErrGenerationParse)
	}

	list := *raw.Flashcards
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: no flashcards", common.ErrGenerationParse)
	}
	if len(list) > MaxFlashcards {
		return nil, fmt.Errorf("%w: %d flashcards, at most %d allowed", common.ErrGenerationParse, len(list), MaxFlashcards)
	}

	cards := make([]models.Card, 0, len(list))
	for i, c := range list {
		if c.Front == nil || *c.Front == "" {
			return nil, fmt.Errorf("%w: flashcard %d has no front", common.ErrGenerationParse, i)
		}
		if c.Back == nil || *c.Back == "" {
			return nil, fmt.Errorf("%w: flashcard %d has no back", common.ErrGenerationParse, i)
		}
		cards = append(cards, models.Card{Front: *c.Front, Back: *c.Back})
	}

	return cards, nil
}

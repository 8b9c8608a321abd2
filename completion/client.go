// Package completion builds the chat-completion client. Groq exposes an
// OpenAI-compatible API, so the go-openai client is pointed at its base URL.
package completion

import (
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/andrewpaige1/flashcard-saas/config"
)

func NewClient(cfg config.Completion, httpClient *http.Client) *openai.Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	if httpClient != nil {
		clientConfig.HTTPClient = httpClient
	}
	return openai.NewClientWithConfig(clientConfig)
}

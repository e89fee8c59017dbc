package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/helmcode/boot-ai/pkg/config"
	"github.com/helmcode/boot-ai/pkg/model"
)

const (
	openRouterURL = "https://openrouter.ai/api/v1/chat/completions"
	defaultModel  = "anthropic/claude-sonnet-4"

	refererHeader = "https://github.com/helmcode/boot-ai"
	titleHeader   = "Boot AI Agent"
)

// Analysis favors repeatability, chat favors natural variation.
const (
	analysisTemperature = 0.1
	analysisMaxTokens   = 4096
	chatTemperature     = 0.3
	chatMaxTokens       = 2048
)

// ErrNoAPIKey is returned before any network activity when the
// credential resolver yields nothing.
var ErrNoAPIKey = errors.New("OpenRouter API key not configured")

// LLM is the remote reasoning surface the analyzer and chat sessions
// depend on. Always inject this interface, never a concrete client.
type LLM interface {
	// Submit sends a one-shot classification request and returns the
	// model's raw text reply.
	Submit(system, user string) (string, error)
	// SubmitChat sends a full conversation and returns the raw reply.
	SubmitChat(turns []model.Turn) (string, error)
}

// OpenRouter talks to the OpenRouter chat-completions endpoint.
type OpenRouter struct {
	resolve config.Resolver
	client  *http.Client
	model   string
	baseURL string
}

func NewOpenRouter(resolve config.Resolver) *OpenRouter {
	return NewOpenRouterWithModel(resolve, defaultModel)
}

func NewOpenRouterWithModel(resolve config.Resolver, modelID string) *OpenRouter {
	return &OpenRouter{
		resolve: resolve,
		client:  &http.Client{Timeout: 60 * time.Second},
		model:   modelID,
		baseURL: openRouterURL,
	}
}

// GetModel returns the model identifier this client requests.
func (o *OpenRouter) GetModel() string {
	return o.model
}

func (o *OpenRouter) Submit(system, user string) (string, error) {
	turns := []model.Turn{
		{Role: model.RoleSystem, Content: system},
		{Role: model.RoleUser, Content: user},
	}
	return o.complete(turns, analysisTemperature, analysisMaxTokens)
}

func (o *OpenRouter) SubmitChat(turns []model.Turn) (string, error) {
	return o.complete(turns, chatTemperature, chatMaxTokens)
}

func (o *OpenRouter) complete(turns []model.Turn, temperature float64, maxTokens int) (string, error) {
	apiKey := o.resolve()
	if apiKey == "" {
		return "", ErrNoAPIKey
	}

	body := map[string]interface{}{
		"model":       o.model,
		"messages":    turns,
		"temperature": temperature,
		"max_tokens":  maxTokens,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", o.baseURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", apiKey))
	req.Header.Set("HTTP-Referer", refererHeader)
	req.Header.Set("X-Title", titleHeader)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("OpenRouter request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OpenRouter API error (status %d): %s", resp.StatusCode, string(respBytes))
	}

	// Minimal struct to pull out the reply text.
	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBytes, &completion); err != nil {
		return "", err
	}
	if completion.Error.Message != "" {
		return "", fmt.Errorf("OpenRouter API error: %s", completion.Error.Message)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenRouter")
	}
	return completion.Choices[0].Message.Content, nil
}

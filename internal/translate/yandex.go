package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultCompletionURL = "https://llm.api.cloud.yandex.net/foundationModels/v1/completion"

type YandexConfig struct {
	APIKey   string
	FolderID string
	// ModelURI overrides the default gpt://<folder>/yandexgpt/latest.
	ModelURI    string
	Endpoint    string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// YandexTranslator calls the YandexGPT foundation-models completion API with
// the schema-grounded system prompt and recovers a descriptor from the free
// text it returns.
type YandexTranslator struct {
	endpoint    string
	apiKey      string
	modelURI    string
	temperature float64
	maxTokens   int
	client      *http.Client
	resolvers   []PhraseResolver
}

func NewYandexTranslator(cfg YandexConfig, resolvers ...PhraseResolver) (*YandexTranslator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("api key is required")
	}
	modelURI := strings.TrimSpace(cfg.ModelURI)
	if modelURI == "" {
		if strings.TrimSpace(cfg.FolderID) == "" {
			return nil, fmt.Errorf("folder id is required when model URI is not set")
		}
		modelURI = fmt.Sprintf("gpt://%s/yandexgpt/latest", strings.TrimSpace(cfg.FolderID))
	}
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = defaultCompletionURL
	}
	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = 0.2
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1000
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &YandexTranslator{
		endpoint:    endpoint,
		apiKey:      strings.TrimSpace(cfg.APIKey),
		modelURI:    modelURI,
		temperature: temperature,
		maxTokens:   maxTokens,
		client:      &http.Client{Timeout: timeout},
		resolvers:   resolvers,
	}, nil
}

type yandexMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type yandexPayload struct {
	ModelURI          string `json:"modelUri"`
	CompletionOptions struct {
		Stream      bool    `json:"stream"`
		Temperature float64 `json:"temperature"`
		MaxTokens   int     `json:"maxTokens"`
	} `json:"completionOptions"`
	Messages []yandexMessage `json:"messages"`
}

func (t *YandexTranslator) Translate(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.Message) == "" && len(req.History) == 0 {
		return Result{}, ErrEmptyConversation
	}

	payload := yandexPayload{ModelURI: t.modelURI}
	payload.CompletionOptions.Stream = false
	payload.CompletionOptions.Temperature = t.temperature
	payload.CompletionOptions.MaxTokens = t.maxTokens
	payload.Messages = append(payload.Messages, yandexMessage{Role: "system", Text: SystemPromptForTable(req.Table)})
	for _, turn := range req.History {
		role := "user"
		if turn.Role == RoleAssistant {
			role = "assistant"
		}
		payload.Messages = append(payload.Messages, yandexMessage{Role: role, Text: turn.Text})
	}
	if strings.TrimSpace(req.Message) != "" {
		payload.Messages = append(payload.Messages, yandexMessage{Role: "user", Text: req.Message})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Result{}, fmt.Errorf("marshal completion payload: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("build completion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Api-Key "+t.apiKey)

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("request completion: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	rawBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("read completion response body: %w", err)
	}
	if resp.StatusCode >= 400 {
		return Result{}, &ServiceError{Status: resp.StatusCode, Message: upstreamErrorMessage(rawBody)}
	}

	var parsed struct {
		Result struct {
			Alternatives []struct {
				Message struct {
					Text string `json:"text"`
				} `json:"message"`
			} `json:"alternatives"`
		} `json:"result"`
	}
	if err := json.Unmarshal(rawBody, &parsed); err != nil {
		return Result{}, fmt.Errorf("decode completion response: %w", err)
	}
	if len(parsed.Result.Alternatives) == 0 {
		return Result{}, &ServiceError{Status: http.StatusBadGateway, Message: "пустой ответ модели"}
	}
	content := strings.TrimSpace(parsed.Result.Alternatives[0].Message.Text)
	if content == "" {
		return Result{}, &ServiceError{Status: http.StatusBadGateway, Message: "пустой ответ модели"}
	}

	return finishTranslation(req, content, t.resolvers)
}

// upstreamErrorMessage pulls a human-readable message out of a Yandex error
// body when one is present.
func upstreamErrorMessage(raw []byte) string {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil {
		if parsed.Error.Message != "" {
			return parsed.Error.Message
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	return strings.TrimSpace(string(raw))
}

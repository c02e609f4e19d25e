package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Analysis — расшифровка позиции ТЗ внешней моделью.
type Analysis struct {
	Type     string   `json:"тип"`
	Synonyms []string `json:"синонимы"`
	Keys     []string `json:"ключи"`
}

// Analyzer — контракт анализатора позиций; реализация заменяется в тестах.
type Analyzer interface {
	Analyze(ctx context.Context, name string) (Analysis, error)
}

type ClientConfig struct {
	APIKey      string
	BaseURL     string // default https://api.openai.com/v1
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// Client ходит в chat/completions; провайдер любой OpenAI-совместимый.
type Client struct {
	cfg    ClientConfig
	http   *http.Client
	logger zerolog.Logger
}

func NewClient(cfg ClientConfig, logger zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

const systemPrompt = "Ты — эксперт по оснащению школ, расшифровываешь позиции технического задания на оборудование. " +
	"Отвечай ТОЛЬКО JSON с полями: \"тип\" (строка), \"синонимы\" (массив строк), " +
	"\"ключи\" (массив коротких строк для поиска по прайс-листам)."

func (c *Client) Analyze(ctx context.Context, name string) (Analysis, error) {
	rid := uuid.NewString()
	start := time.Now()

	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": "Объясни, что означает: " + name},
		},
	}

	raw, err := c.post(ctx, strings.TrimRight(c.cfg.BaseURL, "/")+"/chat/completions", body)
	if err != nil {
		c.logger.Error().Str("req_id", rid).Err(err).Dur("dur", time.Since(start)).Msg("gpt request failed")
		return Analysis{}, err
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return Analysis{}, fmt.Errorf("decode response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return Analysis{}, fmt.Errorf("no choices in response")
	}

	a, err := parseAnalysis(cc.Choices[0].Message.Content)
	if err != nil {
		return Analysis{}, err
	}
	c.logger.Debug().Str("req_id", rid).Str("name", name).Str("type", a.Type).
		Int("keys", len(a.Keys)).Dur("dur", time.Since(start)).Msg("gpt ok")
	return a, nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("non-2xx status: %d", resp.StatusCode)
	}
	return raw, nil
}

// parseAnalysis терпит code fences вокруг JSON — модели любят ```json.
func parseAnalysis(content string) (Analysis, error) {
	s := strings.TrimSpace(content)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	var a Analysis
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &a); err != nil {
		return Analysis{}, fmt.Errorf("malformed analysis: %w", err)
	}
	return a, nil
}

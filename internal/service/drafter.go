package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	drafterBaseURL = "https://api.openai.com/v1"
	drafterModel   = "gpt-4o-mini"
	drafterTimeout = 120 * time.Second
)

// Drafter generates article bodies with the OpenAI chat completions
// API. It is optional; without an API key the trend pipeline uses the
// templated markdown body instead.
type Drafter struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewDrafter creates a Drafter, or nil when no API key is configured.
func NewDrafter(apiKey string) *Drafter {
	if apiKey == "" {
		return nil
	}
	return &Drafter{
		apiKey:  apiKey,
		baseURL: drafterBaseURL,
		model:   drafterModel,
		client:  &http.Client{Timeout: drafterTimeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Draft produces a markdown article body for a trending topic.
func (d *Drafter) Draft(ctx context.Context, title, description string) (string, error) {
	body := map[string]any{
		"model": d.model,
		"messages": []chatMessage{
			{
				Role: "system",
				Content: "You write concise markdown articles for an Indian audience. " +
					"Start with a level-1 heading, keep it under 400 words, " +
					"and do not invent facts beyond the provided context.",
			},
			{
				Role:    "user",
				Content: fmt.Sprintf("Topic: %s\nContext: %s", title, description),
			},
		},
		"max_tokens": 800,
	}

	respBody, err := d.doJSONRequest(ctx, d.baseURL+"/chat/completions", body)
	if err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("openai decode: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices returned")
	}
	return result.Choices[0].Message.Content, nil
}

func (d *Drafter) doJSONRequest(ctx context.Context, url string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+d.apiKey)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}
	return respBody, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

package whatsapp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"resto-suite/internal/config"
	"resto-suite/internal/logger"
)

// ErrAINotConfigured means the completion API key is missing. When a
// restaurant has AI replies enabled this is a hard failure, not a silent
// fallback to canned text.
var ErrAINotConfigured = errors.New("AI API key is not configured")

// AIClient calls the chat completion endpoint that powers bot replies.
type AIClient struct {
	client *http.Client
	cfg    config.AIConfig
	logger *logger.Logger
}

func NewAIClient(client *http.Client, cfg config.AIConfig, log *logger.Logger) *AIClient {
	return &AIClient{client: client, cfg: cfg, logger: log}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends one system+user prompt pair and returns the reply text.
func (c *AIClient) Complete(systemPrompt, userMessage string) (string, error) {
	if c.cfg.APIKey == "" {
		c.logger.Error("WHATSAPP", "AI completion requested but AI_API_KEY is not set")
		return "", ErrAINotConfigured
	}

	baseURL := strings.TrimSuffix(c.cfg.BaseURL, "/")
	url := fmt.Sprintf("%s/chat/completions", baseURL)

	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userMessage},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode completion request: %w", err)
	}

	req, err := http.NewRequest("POST", url, bytes.NewReader(body))
	if err != nil {
		c.logger.Error("WHATSAPP", fmt.Sprintf("Failed to create completion request: %v", err))
		return "", fmt.Errorf("failed to create completion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("WHATSAPP", fmt.Sprintf("Completion service error: %v", err))
		return "", fmt.Errorf("completion service error: %w", err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			c.logger.Error("WHATSAPP", fmt.Sprintf("Failed to close completion response body: %v", err))
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("WHATSAPP", fmt.Sprintf("Completion service returned status: %d", resp.StatusCode))
		return "", fmt.Errorf("completion service returned status: %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		c.logger.Error("WHATSAPP", fmt.Sprintf("Failed to decode completion response: %v", err))
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("completion response contained no choices")
	}

	reply := strings.TrimSpace(parsed.Choices[0].Message.Content)
	c.logger.Debug("WHATSAPP", fmt.Sprintf("Completion reply of %d chars received", len(reply)))
	return reply, nil
}

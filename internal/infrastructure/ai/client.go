// Package ai передаёт результат анализа внешнему сервису ИИ и разбирает его ответ.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"step-bot/internal/domain/entity"
	"step-bot/internal/domain/port"
)

const (
	apiVersion       = "2023-06-01"
	maxResponseBytes = 4 << 20
)

const systemPrompt = `You are a mechanical drafting assistant. Given the geometry summary of a part
extracted from a STEP file, propose the dimensions, notes and title block of a manufacturing drawing.
Reply with a single JSON object with fields: success, dimensions (dimensionType: linear|diameter|radius|angular,
value, tolerancePlus, toleranceMinus, view: front|top|right|isometric, position {startX,startY,endX,endY},
label, isCritical), notes (array of strings), titleBlock {partName, partNumber, material, scale, drawnBy, date}.`

// Config параметры подключения к сервису
type Config struct {
	BaseURL   string
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// Client клиент messages API
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient создаёт клиента. httpClient может быть nil.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{cfg: cfg, http: httpClient}
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Suggest отправляет результат анализа и возвращает предложения по чертежу.
func (c *Client) Suggest(ctx context.Context, result entity.AnalysisResult) (*entity.DrawingResult, error) {
	if !result.Success {
		return nil, result.Err()
	}

	req, err := c.buildRequest(result)
	if err != nil {
		return nil, err
	}

	text, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}

	return parseDrawing(text)
}

// buildRequest формирует запрос: системная инструкция и JSON анализа в сообщении пользователя.
func (c *Client) buildRequest(result entity.AnalysisResult) (*entity.ChatRequest, error) {
	summary, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal analysis: %w", err)
	}

	return &entity.ChatRequest{
		Model:     c.cfg.Model,
		MaxTokens: c.cfg.MaxTokens,
		System:    systemPrompt,
		Messages: []entity.ChatMessage{{
			Role:    "user",
			Content: "Geometry summary of " + result.Filename + ":\n" + string(summary),
		}},
	}, nil
}

func (c *Client) send(ctx context.Context, chat *entity.ChatRequest) (string, error) {
	body, err := json.Marshal(chat)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var msg messagesResponse
	if err := json.Unmarshal(data, &msg); err != nil {
		return "", fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode/100 != 2 {
		if msg.Error != nil {
			return "", fmt.Errorf("ai service: %s: %s", msg.Error.Type, msg.Error.Message)
		}
		return "", fmt.Errorf("ai service: unexpected status %d", resp.StatusCode)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return text.String(), nil
}

// parseDrawing вырезает JSON-объект из текста ответа (модель может обернуть его в markdown).
func parseDrawing(text string) (*entity.DrawingResult, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return nil, errors.New("ai response contains no JSON object")
	}

	var drawing entity.DrawingResult
	if err := json.Unmarshal([]byte(text[start:end+1]), &drawing); err != nil {
		return nil, fmt.Errorf("decode drawing: %w", err)
	}
	if err := drawing.Validate(); err != nil {
		return nil, err
	}
	return &drawing, nil
}

// Проверка реализации интерфейса
var _ port.DrawingSuggester = (*Client)(nil)

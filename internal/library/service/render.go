package service

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

// ============================================================
// Render Client
// ============================================================

// RenderClient ходит в рендер-сервис.
type RenderClient struct {
	baseURL string
	http    *http.Client
}

func NewRenderClient(baseURL string) *RenderClient {
	return &RenderClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// RenderJob: тело запроса рендера.
type RenderJob struct {
	Course    json.RawMessage `json:"course"`
	Config    json.RawMessage `json:"config,omitempty"`
	HoleIndex int             `json:"holeIndex"`
}

// UpstreamError: рендер-сервис ответил не 2xx.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("renderer status %d: %s", e.Status, e.Message)
}

// Render вызывает POST /render/<kind> и возвращает тело и Content-Type.
func (c *RenderClient) Render(ctx context.Context, kind string, job RenderJob) ([]byte, string, error) {
	if c.baseURL == "" {
		return nil, "", fmt.Errorf("renderer url is empty")
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return nil, "", fmt.Errorf("encode render job: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/render/"+kind, bytes.NewReader(payload))
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("call renderer: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read renderer response: %w", err)
	}

	if resp.StatusCode >= 300 {
		var body struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &body) == nil && body.Error != "" {
			msg = body.Error
		}
		return nil, "", &UpstreamError{Status: resp.StatusCode, Message: msg}
	}
	return data, resp.Header.Get("Content-Type"), nil
}

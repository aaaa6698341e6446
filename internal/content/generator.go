package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/repository"
)

// Service asks an external generative-text endpoint for a short seasonal
// passage to include in the confirmation message.
type Service struct {
	endpoint string
	apiKey   string
	httpc    *http.Client
	logger   *zap.Logger
}

func NewService(endpoint, apiKey string, logger *zap.Logger) *Service {
	return &Service{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpc:    &http.Client{Timeout: 10 * time.Second},
		logger:   logger,
	}
}

type generateRequest struct {
	Month string   `json:"month"`
	Items []string `json:"items"`
}

type generateResponse struct {
	Text string `json:"text"`
}

func (s *Service) Generate(ctx context.Context, month string, items []repository.OrderItem) (string, error) {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}

	payload, err := json.Marshal(generateRequest{Month: month, Items: names})
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+"/generate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("call content service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("content service returned %d: %s", resp.StatusCode, string(body))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode content response: %w", err)
	}
	if out.Text == "" {
		return "", fmt.Errorf("content service returned empty text")
	}

	s.logger.Debug("content service produced passage", zap.String("month", month))
	return out.Text, nil
}

// Local composes a deterministic three-line verse from the delivery month and
// the first item. It never fails, which makes it the right default when no
// endpoint is configured.
type Local struct{}

func (Local) Generate(_ context.Context, month string, items []repository.OrderItem) (string, error) {
	subject := "Fresh cookies"
	if len(items) > 0 {
		subject = items[0].Name
	}
	verse := fmt.Sprintf("%s winds drift by,\n%s, warm from our kitchen,\nsweetness at your door.", month, subject)
	return verse, nil
}

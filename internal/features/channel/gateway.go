package channel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-carehub/internal/config"
	"go-carehub/internal/features/notification"
)

// gatewaySender POSTs deliveries to an external HTTP gateway. SMS and push
// both follow this shape; only the endpoint differs.
type gatewaySender struct {
	name   string
	url    string
	client *http.Client
}

type gatewayPayload struct {
	RecipientID string `json:"recipient_id"`
	Title       string `json:"title"`
	Message     string `json:"message"`
	Priority    string `json:"priority"`
}

func (s *gatewaySender) Send(ctx context.Context, item *notification.QueueItem) notification.SendResult {
	if s.url == "" {
		return notification.SendResult{Success: false, Error: fmt.Sprintf("%s gateway not configured", s.name)}
	}

	body, err := json.Marshal(gatewayPayload{
		RecipientID: item.RecipientID,
		Title:       item.Title,
		Message:     item.Message,
		Priority:    string(item.Priority),
	})
	if err != nil {
		return notification.SendResult{Success: false, Error: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return notification.SendResult{Success: false, Error: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return notification.SendResult{Success: false, Error: fmt.Sprintf("%s gateway unreachable: %v", s.name, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return notification.SendResult{Success: false, Error: fmt.Sprintf("%s gateway returned status %d", s.name, resp.StatusCode)}
	}
	return notification.SendResult{Success: true}
}

// SMSSender delivers over the configured SMS gateway
type SMSSender struct {
	gatewaySender
}

func NewSMSSender(cfg *config.Config) *SMSSender {
	return &SMSSender{gatewaySender{
		name:   "sms",
		url:    cfg.SMSGatewayURL,
		client: &http.Client{Timeout: 10 * time.Second},
	}}
}

// PushSender delivers over the configured push gateway
type PushSender struct {
	gatewaySender
}

func NewPushSender(cfg *config.Config) *PushSender {
	return &PushSender{gatewaySender{
		name:   "push",
		url:    cfg.PushGatewayURL,
		client: &http.Client{Timeout: 10 * time.Second},
	}}
}

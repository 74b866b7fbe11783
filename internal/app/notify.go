package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"vapi-glue/internal/config"
)

const ghlMessagesURL = "https://services.leadconnectorhq.com/conversations/messages"

// NotificationGateway sends a text message to a phone number. Delivery is
// best-effort: callers log failures and still report success to the voice
// agent.
type NotificationGateway interface {
	Send(ctx context.Context, to, message string) error
}

// ghlClient sends SMS through the GoHighLevel conversations API. When the
// API key or location id is missing the client is a silent no-op, so the
// server stays usable without a messaging account.
type ghlClient struct {
	hc         *http.Client
	apiKey     string
	locationID string
	baseURL    string
}

func NewGHLClient(cfg *config.Config) NotificationGateway {
	return &ghlClient{
		hc:         &http.Client{Timeout: gatewayTimeout},
		apiKey:     cfg.GHLAPIKey,
		locationID: cfg.GHLLocationID,
		baseURL:    ghlMessagesURL,
	}
}

func (c *ghlClient) Send(ctx context.Context, to, message string) error {
	if c.apiKey == "" || c.locationID == "" {
		return nil
	}

	payload, err := json.Marshal(map[string]string{
		"to":      to,
		"type":    "SMS",
		"message": message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Version", "2021-07-28")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Location-Id", c.locationID)

	resp, err := c.hc.Do(req)
	if err != nil {
		return upstreamf("ghl send", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var r struct {
			Message string `json:"message"`
		}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = json.Unmarshal(body, &r)
		if r.Message != "" {
			return upstreamf("ghl send", fmt.Errorf("%s (status=%d)", r.Message, resp.StatusCode))
		}
		return upstreamf("ghl send", fmt.Errorf("status=%d", resp.StatusCode))
	}
	return nil
}

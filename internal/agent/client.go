package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"heartbeat-agent/internal/config"
	"heartbeat-agent/internal/domain"
)

// Reporter is the server side of the agent: registration and heartbeats.
type Reporter interface {
	Hello(ctx context.Context) (string, error)
	Heartbeat(ctx context.Context, id string, packet *domain.Packet) (domain.Update, error)
}

type Client struct {
	baseURL string
	secret  string
	http    *http.Client
	now     func() time.Time
}

// NewClient returns an HTTP client for cfg.ServerURL. A zero HTTPTimeout
// leaves requests unbounded.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.ServerURL, "/"),
		secret:  cfg.AuthSecret,
		http:    &http.Client{Timeout: time.Duration(cfg.HTTPTimeout)},
		now:     time.Now,
	}
}

func (c *Client) Hello(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/hello", nil)
	if err != nil {
		return "", domain.NewError(domain.KindNetwork, "hello", err)
	}

	if err := c.authorize(req, ""); err != nil {
		return "", domain.NewError(domain.KindNetwork, "hello", err)
	}

	var res domain.HelloResponse
	if err := c.do(req, &res); err != nil {
		return "", domain.NewError(domain.KindNetwork, "hello", err)
	}

	if res.ID == "" {
		return "", domain.Errorf(domain.KindNetwork, "hello", "response has no id")
	}

	return res.ID, nil
}

func (c *Client) Heartbeat(ctx context.Context, id string, packet *domain.Packet) (domain.Update, error) {
	body, err := json.Marshal(packet)
	if err != nil {
		return domain.Update{}, domain.NewError(domain.KindFormat, "heartbeat", err)
	}

	endpoint := c.baseURL + "/heartbeat/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.Update{}, domain.NewError(domain.KindNetwork, "heartbeat", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if err := c.authorize(req, id); err != nil {
		return domain.Update{}, domain.NewError(domain.KindNetwork, "heartbeat", err)
	}

	var res domain.HeartbeatResponse
	if err := c.do(req, &res); err != nil {
		return domain.Update{}, domain.NewError(domain.KindNetwork, "heartbeat", err)
	}

	return res.Update, nil
}

func (c *Client) authorize(req *http.Request, subject string) error {
	if c.secret == "" {
		return nil
	}

	token, err := signToken(c.secret, subject, c.now())
	if err != nil {
		return fmt.Errorf("failed to sign request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// Package telemetry ships operational events to the external log platform.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"solarwatch/internal/anomaly"
)

const defaultAgent = "solarwatch-monitor"

type Client struct {
	BaseURL string
	APIKey  string
	Agent   string

	mu        sync.RWMutex
	token     string
	expiresAt time.Time

	HTTP *http.Client
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

func (c *Client) Login(ctx context.Context) error {
	base := c.base()
	if base == "" {
		return errors.New("telemetry base url is empty")
	}
	apiKey := strings.TrimSpace(c.APIKey)
	if apiKey == "" {
		return errors.New("telemetry api key is empty")
	}

	body, _ := json.Marshal(map[string]any{"api_key": apiKey})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/api/v1/auth/login", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telemetry login http %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	var lr loginResponse
	if err := json.Unmarshal(b, &lr); err != nil {
		return err
	}
	exp, _ := time.Parse(time.RFC3339, strings.TrimSpace(lr.ExpiresAt))

	c.mu.Lock()
	c.token = strings.TrimSpace(lr.Token)
	c.expiresAt = exp
	c.mu.Unlock()
	return nil
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// EnsureToken logs in when there is no token or it expires within two minutes.
func (c *Client) EnsureToken(ctx context.Context) error {
	c.mu.RLock()
	tok := c.token
	exp := c.expiresAt
	c.mu.RUnlock()
	if strings.TrimSpace(tok) == "" {
		return c.Login(ctx)
	}
	if !exp.IsZero() && time.Until(exp) < 2*time.Minute {
		return c.Login(ctx)
	}
	return nil
}

type CreateLogRequest struct {
	Agent      string         `json:"agent"`
	Action     string         `json:"action"`
	Level      string         `json:"level"`
	Details    map[string]any `json:"details"`
	SessionKey string         `json:"session_key"`
	Metadata   map[string]any `json:"metadata"`
}

func (c *Client) CreateLog(ctx context.Context, req CreateLogRequest) error {
	if err := c.EnsureToken(ctx); err != nil {
		return err
	}
	if req.Agent == "" {
		req.Agent = c.agent()
	}
	if req.Metadata == nil {
		req.Metadata = map[string]any{}
	}
	b, err := json.Marshal(req)
	if err != nil {
		return err
	}
	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base()+"/api/v1/logs", bytes.NewReader(b))
	if err != nil {
		return err
	}
	hreq.Header.Set("Content-Type", "application/json")
	hreq.Header.Set("Authorization", "Bearer "+c.Token())

	resp, err := c.httpClient().Do(hreq)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bb, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return fmt.Errorf("telemetry create log http %d: %s", resp.StatusCode, strings.TrimSpace(string(bb)))
	}
	return nil
}

// Report sends a sweep summary plus its failed units. A nil client is a no-op.
func (c *Client) Report(ctx context.Context, report *anomaly.SweepReport) error {
	if c == nil || report == nil {
		return nil
	}
	failed := make([]map[string]any, 0, report.Failed)
	for _, o := range report.FailedOutcomes() {
		failed = append(failed, map[string]any{
			"solar_unit_id": o.SolarUnitID,
			"serial_number": o.SerialNumber,
			"error":         o.Error,
		})
	}
	level := "info"
	if report.Failed > 0 {
		level = "warn"
	}
	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return c.CreateLog(ctx2, CreateLogRequest{
		Action: "anomaly_sweep_completed",
		Level:  level,
		Details: map[string]any{
			"trigger":      report.Trigger,
			"units":        report.Units,
			"succeeded":    report.Succeeded,
			"failed":       report.Failed,
			"candidates":   report.Candidates,
			"inserted":     report.Inserted,
			"duplicates":   report.Duplicates,
			"started_at":   report.StartedAt,
			"finished_at":  report.FinishedAt,
			"failed_units": failed,
		},
	})
}

// LogBestEffort sends one event and drops any error.
func (c *Client) LogBestEffort(action, level string, details map[string]any) {
	if c == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = c.CreateLog(ctx, CreateLogRequest{Action: action, Level: level, Details: details})
}

func (c *Client) base() string {
	return strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
}

func (c *Client) agent() string {
	if a := strings.TrimSpace(c.Agent); a != "" {
		return a
	}
	return defaultAgent
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return &http.Client{Timeout: 10 * time.Second}
}

package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kurpanel/kurpanel-backend/internal/httputil"
)

// Sender mirrors rate alerts to an external chat webhook. With no URL
// configured it degrades to console-only logging.
type Sender struct {
	webhookURL string
	appName    string
	httpClient *http.Client
	retry      httputil.RetryConfig
}

func NewSender(webhookURL, appName string) *Sender {
	if appName == "" {
		appName = "KurPanel"
	}
	return &Sender{
		webhookURL: webhookURL,
		appName:    appName,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		retry: httputil.RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   1 * time.Second,
			MaxDelay:    5 * time.Second,
		},
	}
}

func (s *Sender) Enabled() bool {
	return s.webhookURL != ""
}

// Send logs the message and, when a webhook is configured, delivers it.
// Delivery failures are logged and swallowed: alerting must never break
// the polling loops.
func (s *Sender) Send(msg string) {
	formatted := fmt.Sprintf("[%s] %s", s.appName, msg)
	fmt.Printf("[%s] %s\n", time.Now().UTC().Format(time.RFC3339), formatted)

	if s.webhookURL == "" {
		return
	}

	body, err := json.Marshal(s.payload(formatted))
	if err != nil {
		fmt.Printf("[ALERTS] marshal: %v\n", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := httputil.Do(ctx, s.httpClient, s.retry, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		fmt.Printf("[ALERTS] Webhook delivery failed after retries: %v\n", err)
		return
	}
	resp.Body.Close()
}

// payload shapes the message for the webhook's dialect: Discord wants
// "content", Slack-compatible hooks want "text".
func (s *Sender) payload(msg string) map[string]string {
	if strings.Contains(s.webhookURL, "discord") {
		return map[string]string{
			"content":  msg,
			"username": s.appName,
		}
	}
	return map[string]string{
		"text":     fmt.Sprintf("`%s`", msg),
		"username": s.appName,
	}
}

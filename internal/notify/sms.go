package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

type SMSSender interface {
	Send(ctx context.Context, phone string, body string) error
}

type WebhookSMSSender struct {
	url   string
	token string
	http  *http.Client
}

func NewWebhookSMSSender(url string, token string, timeout time.Duration) *WebhookSMSSender {
	return &WebhookSMSSender{
		url:   strings.TrimSpace(url),
		token: strings.TrimSpace(token),
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

func (s *WebhookSMSSender) Send(ctx context.Context, phone string, body string) error {
	if s.url == "" {
		return errors.New("未配置短信网关地址")
	}

	raw, err := json.Marshal(map[string]string{
		"phone":   phone,
		"message": body,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("短信网关返回状态码 %d", resp.StatusCode)
	}
	return nil
}

// NoopSMSSender 在没有配置短信网关时使用，短信内容只写入日志
type NoopSMSSender struct{}

func (NoopSMSSender) Send(_ context.Context, phone string, body string) error {
	slog.Info("未配置短信网关，短信未发送", "phone", phone, "body", body)
	return nil
}

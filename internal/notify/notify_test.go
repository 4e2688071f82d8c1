package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/domain"
)

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
}

func (c *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	c.exchange = exchange
	c.key = key
	c.msg = msg
	return c.err
}

func movedMessage() *domain.NotificationMessage {
	return &domain.NotificationMessage{
		ID:   "m1",
		Type: domain.NotificationAppointmentMoved,
		To:   domain.NotificationRecipient{Name: "王小明", Phone: "13800000000", Email: "wxm@example.com"},
		Data: domain.AppointmentMovedData{CustomerName: "王小明", DogName: "豆豆", Date: "2026-10-15", Time: "10:15"},
	}
}

func TestPublisher_PublishesPersistentJSON(t *testing.T) {
	ch := &fakeChannel{}
	p := NewPublisher(ch, "notification_queue", time.Second)

	if err := p.Notify(context.Background(), movedMessage()); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if ch.exchange != "" || ch.key != "notification_queue" {
		t.Fatalf("unexpected routing %q %q", ch.exchange, ch.key)
	}
	if ch.msg.DeliveryMode != amqp.Persistent || ch.msg.ContentType != "application/json" || ch.msg.MessageId != "m1" {
		t.Fatalf("unexpected publishing %+v", ch.msg)
	}

	var decoded incoming
	if err := json.Unmarshal(ch.msg.Body, &decoded); err != nil {
		t.Fatalf("body is not json: %v", err)
	}
	if decoded.Data["time"] != "10:15" || decoded.To.Phone != "13800000000" {
		t.Fatalf("unexpected body %s", ch.msg.Body)
	}
}

func TestPublisher_ReturnsChannelError(t *testing.T) {
	p := NewPublisher(&fakeChannel{err: amqp.ErrClosed}, "q", time.Second)
	if err := p.Notify(context.Background(), movedMessage()); !errors.Is(err, amqp.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestRender(t *testing.T) {
	subject, body, err := Render(domain.NotificationAppointmentMoved, map[string]any{
		"customerName": "王小明", "dogName": "豆豆", "date": "2026-10-15", "time": "10:15",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if subject == "" || !strings.Contains(body, "豆豆 的预约已调整到 2026-10-15 10:15") {
		t.Fatalf("unexpected body %q", body)
	}

	if _, _, err := Render("birthday", nil); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

type recordingSender struct {
	err   error
	calls []string
}

func (s *recordingSender) Send(_ context.Context, to string, _ string) error {
	s.calls = append(s.calls, to)
	return s.err
}

type recordingEmail struct {
	err   error
	calls []string
}

func (s *recordingEmail) Send(_ context.Context, to string, _ string, _ string) error {
	s.calls = append(s.calls, to)
	return s.err
}

func encode(t *testing.T, msg *domain.NotificationMessage) []byte {
	t.Helper()
	b, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func TestDispatcher_SendsThroughBothChannels(t *testing.T) {
	sms := &recordingSender{}
	email := &recordingEmail{}
	d := NewDispatcher(email, sms)

	if err := d.Handle(context.Background(), encode(t, movedMessage())); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(sms.calls) != 1 || len(email.calls) != 1 {
		t.Fatalf("expected one sms and one email, got %d %d", len(sms.calls), len(email.calls))
	}
}

func TestDispatcher_OneChannelIsEnough(t *testing.T) {
	d := NewDispatcher(&recordingEmail{err: errors.New("smtp down")}, &recordingSender{})
	if err := d.Handle(context.Background(), encode(t, movedMessage())); err != nil {
		t.Fatalf("expected success when sms was delivered, got %v", err)
	}

	d = NewDispatcher(&recordingEmail{err: errors.New("smtp down")}, &recordingSender{err: errors.New("gateway down")})
	err := d.Handle(context.Background(), encode(t, movedMessage()))
	var perm *PermanentError
	if err == nil || errors.As(err, &perm) {
		t.Fatalf("expected a retryable error, got %v", err)
	}
}

func TestDispatcher_PermanentErrors(t *testing.T) {
	d := NewDispatcher(&recordingEmail{}, nil)

	noEmail := movedMessage()
	noEmail.To.Email = ""
	unknown := movedMessage()
	unknown.Type = "birthday"

	cases := map[string][]byte{
		"invalid json": []byte("{"),
		"no recipient": encode(t, noEmail),
		"unknown type": encode(t, unknown),
	}
	for name, body := range cases {
		err := d.Handle(context.Background(), body)
		var perm *PermanentError
		if !errors.As(err, &perm) {
			t.Fatalf("%s: expected permanent error, got %v", name, err)
		}
	}
}

func TestWebhookSMSSender(t *testing.T) {
	var got map[string]string
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &got)
		if got["phone"] == "fail" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewWebhookSMSSender(srv.URL, "secret", time.Second)
	if err := s.Send(context.Background(), "13800000000", "你好"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if auth != "Bearer secret" || got["phone"] != "13800000000" || got["message"] != "你好" {
		t.Fatalf("unexpected request auth=%q body=%v", auth, got)
	}
	if err := s.Send(context.Background(), "fail", "你好"); err == nil {
		t.Fatalf("expected error on non-2xx")
	}
	if err := NewWebhookSMSSender("", "", time.Second).Send(context.Background(), "1", "x"); err == nil {
		t.Fatalf("expected error without url")
	}
}

func TestNoopSMSSender_LogsMessage(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	if err := (NoopSMSSender{}).Send(context.Background(), "13800000000", "您的预约已调整"); err != nil {
		t.Fatalf("send: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "13800000000") || !strings.Contains(out, "您的预约已调整") {
		t.Fatalf("sms must be recorded in the log, got %q", out)
	}
}

package notify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/domain"
)

var (
	ErrUnknownType = errors.New("不支持的通知类型")
	ErrNoRecipient = errors.New("通知没有可用的联系方式")
	ErrInvalidBody = errors.New("通知内容格式错误")
)

// PermanentError 表示重试也不会成功的消息，应当直接丢弃
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

type incoming struct {
	ID   string                       `json:"id"`
	Type string                       `json:"type"`
	To   domain.NotificationRecipient `json:"to"`
	Data map[string]any               `json:"data"`
}

type Dispatcher struct {
	email EmailSender
	sms   SMSSender
}

// NewDispatcher 的两个发送器都可以为 nil，为 nil 时跳过对应渠道
func NewDispatcher(email EmailSender, sms SMSSender) *Dispatcher {
	return &Dispatcher{email: email, sms: sms}
}

// Handle 处理一条队列消息；返回 PermanentError 时不应重新入队
func (d *Dispatcher) Handle(ctx context.Context, body []byte) error {
	var msg incoming
	if err := json.Unmarshal(body, &msg); err != nil {
		return &PermanentError{Err: errors.Join(ErrInvalidBody, err)}
	}

	subject, text, err := Render(msg.Type, msg.Data)
	if err != nil {
		return &PermanentError{Err: err}
	}

	sendEmail := d.email != nil && msg.To.Email != ""
	sendSMS := d.sms != nil && msg.To.Phone != ""
	if !sendEmail && !sendSMS {
		return &PermanentError{Err: ErrNoRecipient}
	}

	var errs []error
	if sendSMS {
		if err := d.sms.Send(ctx, msg.To.Phone, text); err != nil {
			slog.Warn("短信发送失败", "id", msg.ID, "error", err)
			errs = append(errs, err)
		}
	}
	if sendEmail {
		if err := d.email.Send(ctx, msg.To.Email, subject, text); err != nil {
			slog.Warn("邮件发送失败", "id", msg.ID, "error", err)
			errs = append(errs, err)
		}
	}

	// 只要有一个渠道送达就算成功
	if len(errs) > 0 && len(errs) == countTrue(sendEmail, sendSMS) {
		return errors.Join(errs...)
	}
	return nil
}

func countTrue(flags ...bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}

package notify

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/domain"
)

type messageTemplate struct {
	subject string
	body    *template.Template
}

var templates = map[string]messageTemplate{
	domain.NotificationAppointmentMoved: {
		subject: "预约时间变更通知",
		body: template.Must(template.New(domain.NotificationAppointmentMoved).Option("missingkey=error").Parse(
			"{{.customerName}}您好，{{if .dogName}}{{.dogName}} 的{{end}}预约已调整到 {{.date}} {{.time}}，如有疑问请联系门店。",
		)),
	},
}

// Render 返回通知的标题和正文
func Render(typ string, data map[string]any) (string, string, error) {
	t, ok := templates[typ]
	if !ok {
		return "", "", fmt.Errorf("%w：%s", ErrUnknownType, typ)
	}

	var sb strings.Builder
	if err := t.body.Execute(&sb, data); err != nil {
		return "", "", err
	}

	return t.subject, sb.String(), nil
}

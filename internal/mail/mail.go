package mail

import (
	"context"
	"fmt"
	"html"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/yizeng/gab/gin/gorm/housing-events/internal/domain"
)

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPNotifier mails a registration confirmation to the address in the
// "email" field. Registrations without an email are not mailed.
type SMTPNotifier struct {
	from   string
	dialer sender
}

func NewSMTPNotifier(conf SMTPConfig) *SMTPNotifier {
	from := conf.From
	if from == "" {
		from = conf.User
	}

	return &SMTPNotifier{
		from:   from,
		dialer: gomail.NewDialer(conf.Host, conf.Port, conf.User, conf.Password),
	}
}

func (n *SMTPNotifier) Notify(ctx context.Context, event domain.Event, formData map[string]string) error {
	to := strings.TrimSpace(formData["email"])
	if to == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := n.dialer.DialAndSend(ConfirmationMessage(n.from, to, event, formData["name"])); err != nil {
		zap.L().Error("failed to send confirmation mail", zap.String("event_id", event.ID), zap.Error(err))
		return fmt.Errorf("n.dialer.DialAndSend -> %w", err)
	}

	return nil
}

func ConfirmationMessage(from, to string, event domain.Event, name string) *gomail.Message {
	message := gomail.NewMessage()
	message.SetHeader("From", from)
	message.SetHeader("To", to)
	message.SetHeader("Subject", "報名成功："+event.Title)
	message.SetBody("text/html", `
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto; padding: 20px; border: 1px solid #ddd; border-radius: 8px;">
			<h2 style="color: #0f766e;">`+html.EscapeString(event.Title)+`</h2>
			<p>`+html.EscapeString(name)+` 您好，</p>
			<p>您已完成報名。</p>
			<p>日期：`+html.EscapeString(event.Date)+` `+html.EscapeString(event.Time)+`</p>
			<p>地點：`+html.EscapeString(event.Location)+`</p>
		</div>
	`)
	return message
}

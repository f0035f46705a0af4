package channel

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"RepairDesk/internal/config"
	domainChannel "RepairDesk/internal/modules/messaging/domain/channel"
	"RepairDesk/internal/modules/messaging/domain/entity"
	"RepairDesk/pkg/zlog"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPEmailAdapter 邮件通道，未配置 host/from 时禁用
type SMTPEmailAdapter struct {
	from    string
	sender  mailSender
	enabled bool
	ready   atomic.Bool
}

var _ domainChannel.Adapter = (*SMTPEmailAdapter)(nil)

func NewSMTPEmailAdapter(cfg config.SMTPConfig) *SMTPEmailAdapter {
	a := &SMTPEmailAdapter{from: strings.TrimSpace(cfg.From)}
	if strings.TrimSpace(cfg.Host) == "" || a.from == "" {
		return a
	}
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.SSL = cfg.UseSSL
	a.sender = d
	a.enabled = true
	return a
}

func (a *SMTPEmailAdapter) Init(ctx context.Context) error {
	a.ready.Store(true)
	if !a.enabled {
		zlog.Warn("email channel disabled: smtp host or sender missing")
	}
	return nil
}

func (a *SMTPEmailAdapter) Channel() string {
	return entity.ChannelEmail
}

func (a *SMTPEmailAdapter) IsEnabled() bool {
	return a.enabled
}

func (a *SMTPEmailAdapter) IsReady() bool {
	return a.ready.Load()
}

func (a *SMTPEmailAdapter) Send(ctx context.Context, msg *entity.QueuedMessage) error {
	if msg == nil {
		return errors.New("email adapter: message is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if !a.enabled {
		zlog.Debug("email channel disabled, skipping send", zap.Int64("message_id", msg.Id))
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", a.from)
	m.SetHeader("To", msg.Destination)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.Body)

	if err := a.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

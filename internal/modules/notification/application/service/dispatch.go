package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	msgEntity "RepairDesk/internal/modules/messaging/domain/entity"
	"RepairDesk/internal/modules/notification/application/dto/respond"
	"RepairDesk/internal/modules/notification/domain/entity"
	userEntity "RepairDesk/internal/modules/user/domain/entity"
	"RepairDesk/pkg/zlog"

	"go.uber.org/zap"
)

// OutboundEnqueuer 外部通道只负责入队，由队列处理器异步投递
type OutboundEnqueuer interface {
	EnqueueSMS(ctx context.Context, destination, body, kind string) (*msgEntity.QueuedMessage, error)
	EnqueueEmail(ctx context.Context, to, subject, body, kind string) (*msgEntity.QueuedMessage, error)
}

// RealtimePusher 在线用户的实时推送，用户不在线时返回 false
type RealtimePusher interface {
	Send(userID string, payload []byte) bool
}

type EventPublisher interface {
	PublishCreated(ctx context.Context, n *entity.Notification, typeName string) error
}

type UnreadCache interface {
	Get(ctx context.Context, userID string) (int64, bool)
	// ttl 为 0 时使用缓存自身的默认值，且不会超过该默认值
	Set(ctx context.Context, userID string, count int64, ttl time.Duration)
	Invalidate(ctx context.Context, userID string)
}

// RealtimeMessage websocket 推送的消息体
type RealtimeMessage struct {
	Type         string                   `json:"type"`
	Notification respond.NotificationItem `json:"notification"`
}

const RealtimeTypeNotificationNew = "notification.new"

// dispatch 按偏好把通知分发到各通道；任何失败都只进入 report
func (s *notificationServiceImpl) dispatch(ctx context.Context, n *entity.Notification, nt *entity.NotificationType, tpl *entity.NotificationTemplate, data map[string]any) (report respond.DispatchReport) {
	fail := func(channel string, err error) string {
		report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", channel, err))
		zlog.Warn("notification channel dispatch failed",
			zap.Int64("notification_id", n.Id),
			zap.String("channel", channel),
			zap.Error(err),
		)
		return respond.OutcomeFailed
	}

	pref, err := s.Preferences.GetOrCreateDefault(ctx, n.RecipientId, nt.Id)
	if err != nil || pref == nil {
		if err == nil {
			err = fmt.Errorf("preference row missing after upsert")
		}
		failed := fail("preference", err)
		report.Email, report.SMS, report.Push, report.InApp = failed, failed, failed, failed
		return report
	}

	if !pref.Enabled {
		report.Email, report.SMS, report.Push, report.InApp = respond.OutcomeDisabled, respond.OutcomeDisabled, respond.OutcomeDisabled, respond.OutcomeDisabled
		return report
	}

	var contact *userEntity.UserInfo
	needContact := (pref.EmailEnabled && tpl.HasEmail()) || (pref.SmsEnabled && tpl.HasSMS())
	if needContact && s.Users != nil {
		contact, err = s.Users.GetUserInfoByUUID(ctx, n.RecipientId)
		if err != nil {
			zlog.Warn("load notification recipient failed", zap.String("recipient_id", n.RecipientId), zap.Error(err))
		}
	}

	switch {
	case !pref.EmailEnabled:
		report.Email = respond.OutcomeDisabled
	case !tpl.HasEmail():
		report.Email = respond.OutcomeNoTemplate
	case s.Outbound == nil:
		report.Email = respond.OutcomeUnavailable
	case contact == nil || strings.TrimSpace(contact.Email) == "":
		report.Email = respond.OutcomeNoContact
	default:
		subject := renderTemplate(*tpl.EmailSubject, data)
		body := renderTemplate(*tpl.EmailBody, data)
		if _, err := s.Outbound.EnqueueEmail(ctx, contact.Email, subject, body, msgEntity.KindNotification); err != nil {
			report.Email = fail("email", err)
		} else {
			report.Email = respond.OutcomeQueued
		}
	}

	switch {
	case !pref.SmsEnabled:
		report.SMS = respond.OutcomeDisabled
	case !tpl.HasSMS():
		report.SMS = respond.OutcomeNoTemplate
	case s.Outbound == nil:
		report.SMS = respond.OutcomeUnavailable
	case contact == nil || strings.TrimSpace(contact.Telephone) == "":
		report.SMS = respond.OutcomeNoContact
	default:
		body := renderTemplate(*tpl.SmsMessage, data)
		if _, err := s.Outbound.EnqueueSMS(ctx, contact.Telephone, body, msgEntity.KindNotification); err != nil {
			report.SMS = fail("sms", err)
		} else {
			report.SMS = respond.OutcomeQueued
		}
	}

	// 移动端推送尚未接入
	if pref.PushEnabled {
		report.Push = respond.OutcomeNotImplemented
	} else {
		report.Push = respond.OutcomeDisabled
	}

	switch {
	case !pref.InAppEnabled:
		report.InApp = respond.OutcomeDisabled
	case s.Realtime == nil:
		report.InApp = respond.OutcomeUnavailable
	default:
		payload, err := json.Marshal(RealtimeMessage{Type: RealtimeTypeNotificationNew, Notification: toItem(n, typeSummary(nt), nil)})
		if err != nil {
			report.InApp = fail("in_app", err)
		} else if s.Realtime.Send(n.RecipientId, payload) {
			report.InApp = respond.OutcomeDelivered
		} else {
			report.InApp = respond.OutcomeOffline
		}
	}
	return report
}

// renderTemplate 用 data 中的值替换 {{key}}，未提供的占位符保持原样
func renderTemplate(text string, data map[string]any) string {
	if text == "" || len(data) == 0 || !strings.Contains(text, "{{") {
		return text
	}
	// 单次扫描，替换进来的值不会被再次展开
	var b strings.Builder
	b.Grow(len(text))
	for {
		start := strings.Index(text, "{{")
		if start < 0 {
			break
		}
		end := strings.Index(text[start+2:], "}}")
		if end < 0 {
			break
		}
		end += start + 2
		b.WriteString(text[:start])
		if v, ok := data[text[start+2:end]]; ok {
			b.WriteString(placeholderValue(v))
		} else {
			b.WriteString(text[start : end+2])
		}
		text = text[end+2:]
	}
	b.WriteString(text)
	return b.String()
}

func placeholderValue(v any) string {
	switch tv := v.(type) {
	case nil:
		return ""
	case string:
		return tv
	default:
		return fmt.Sprint(tv)
	}
}

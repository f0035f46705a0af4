package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	msgEntity "RepairDesk/internal/modules/messaging/domain/entity"
	"RepairDesk/internal/modules/messaging/domain/sms"
	"RepairDesk/internal/modules/notification/application/dto/request"
	"RepairDesk/internal/modules/notification/application/dto/respond"
	"RepairDesk/internal/modules/notification/application/service"
	"RepairDesk/internal/modules/notification/domain/entity"
	"RepairDesk/internal/modules/notification/infrastructure/mq"
	repairEntity "RepairDesk/internal/modules/repair/domain/entity"
	"RepairDesk/pkg/zlog"

	"go.uber.org/zap"
)

const (
	EventDeviceRegistered    = "device.registered"
	EventDeviceStatusChanged = "device.status_changed"

	StatusReadyForPickup = "ready_for_pickup"
	StatusDelivered      = "delivered"
)

// DeviceEvent device-events topic 上的消息体
type DeviceEvent struct {
	EventId        string `json:"event_id"`
	EventType      string `json:"event_type"`
	DeviceId       int64  `json:"device_id"`
	Status         string `json:"status"`
	PreviousStatus string `json:"previous_status"`
	RecipientId    string `json:"recipient_id"`
	SenderId       string `json:"sender_id"`
}

type DeviceLookup interface {
	GetDeviceDetail(ctx context.Context, deviceID int64) (*repairEntity.DeviceDetail, error)
}

type DeviceNotifier interface {
	CreateDeviceNotification(ctx context.Context, req request.DeviceNotificationRequest) (*respond.CreateNotificationRespond, error)
}

// CustomerMessenger 给客户发设备相关短信
type CustomerMessenger interface {
	EnqueueDeviceRegistered(ctx context.Context, phone string, d sms.DeviceInfo) (*msgEntity.QueuedMessage, error)
	EnqueueStatusChanged(ctx context.Context, phone string, d sms.DeviceInfo) (*msgEntity.QueuedMessage, error)
	EnqueueReadyForPickup(ctx context.Context, phone string, d sms.DeviceInfo) (*msgEntity.QueuedMessage, error)
	EnqueueDelivered(ctx context.Context, phone string, d sms.DeviceInfo) (*msgEntity.QueuedMessage, error)
}

// DeviceEventHandler 设备事件 -> 技术员站内通知 + 客户短信。
// 设备查询成功后的副作用只执行一次，失败只记录日志，不让消息被重新投递
type DeviceEventHandler struct {
	devices   DeviceLookup
	notifier  DeviceNotifier
	messenger CustomerMessenger
}

func NewDeviceEventHandler(devices DeviceLookup, notifier DeviceNotifier, messenger CustomerMessenger) *DeviceEventHandler {
	return &DeviceEventHandler{devices: devices, notifier: notifier, messenger: messenger}
}

func (h *DeviceEventHandler) Handle(ctx context.Context, msg mq.Message) error {
	var ev DeviceEvent
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		return mq.Permanent(fmt.Errorf("decode device event: %w", err))
	}
	if ev.EventType != EventDeviceRegistered && ev.EventType != EventDeviceStatusChanged {
		zlog.Debug("device event ignored", zap.String("event_type", ev.EventType))
		return nil
	}
	if ev.DeviceId <= 0 {
		return mq.Permanent(errors.New("device event without device_id"))
	}

	d, err := h.devices.GetDeviceDetail(ctx, ev.DeviceId)
	if err != nil {
		return fmt.Errorf("load device %d: %w", ev.DeviceId, err)
	}
	if d == nil {
		return mq.Permanent(fmt.Errorf("device %d not found", ev.DeviceId))
	}
	status := ev.Status
	if status == "" {
		status = d.Status
	}

	h.notifyTechnician(ctx, ev, status)
	h.messageCustomer(ctx, ev, d, status)
	return nil
}

func (h *DeviceEventHandler) notifyTechnician(ctx context.Context, ev DeviceEvent, status string) {
	typeName := entity.TypeDeviceRegistered
	priority := entity.PriorityNormal
	if ev.EventType == EventDeviceStatusChanged {
		typeName = entity.TypeDeviceStatusChanged
		if status == StatusReadyForPickup {
			typeName = entity.TypeDeviceReadyForPickup
			priority = entity.PriorityHigh
		}
	}

	req := request.DeviceNotificationRequest{
		DeviceId:    ev.DeviceId,
		TypeName:    typeName,
		RecipientId: ev.RecipientId,
		Priority:    priority,
		Extra: map[string]any{
			"status":          status,
			"status_text":     sms.StatusPhrase(status),
			"previous_status": ev.PreviousStatus,
		},
	}
	if ev.SenderId != "" {
		sender := ev.SenderId
		req.SenderId = &sender
	}

	res, err := h.notifier.CreateDeviceNotification(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrRecipientRequired) {
			zlog.Info("device has no assigned technician, in-app notification skipped", zap.Int64("device_id", ev.DeviceId))
			return
		}
		zlog.Error("device notification failed", zap.Int64("device_id", ev.DeviceId), zap.String("type", typeName), zap.Error(err))
		return
	}
	zlog.Info("device notification created",
		zap.String("event_id", ev.EventId),
		zap.Int64("notification_id", res.Notification.Id),
		zap.String("type", typeName),
	)
}

func (h *DeviceEventHandler) messageCustomer(ctx context.Context, ev DeviceEvent, d *repairEntity.DeviceDetail, status string) {
	phone := strings.TrimSpace(d.CustomerPhone)
	if phone == "" {
		zlog.Info("customer has no phone, sms skipped", zap.Int64("device_id", d.DeviceId))
		return
	}
	info := sms.DeviceInfo{
		CustomerName: d.CustomerName,
		TicketNumber: d.TicketNumber,
		DeviceType:   d.DeviceType,
		Brand:        d.Brand,
		Model:        d.Model,
		Status:       status,
	}

	var err error
	switch {
	case ev.EventType == EventDeviceRegistered:
		_, err = h.messenger.EnqueueDeviceRegistered(ctx, phone, info)
	case status == StatusReadyForPickup:
		_, err = h.messenger.EnqueueReadyForPickup(ctx, phone, info)
	case status == StatusDelivered:
		_, err = h.messenger.EnqueueDelivered(ctx, phone, info)
	default:
		_, err = h.messenger.EnqueueStatusChanged(ctx, phone, info)
	}
	if err != nil {
		zlog.Error("customer sms enqueue failed", zap.Int64("device_id", d.DeviceId), zap.String("status", status), zap.Error(err))
	}
}

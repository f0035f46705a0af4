package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"RepairDesk/internal/modules/messaging/domain/entity"
	"RepairDesk/internal/modules/messaging/domain/repository"
	"RepairDesk/internal/modules/messaging/domain/sms"
	"RepairDesk/pkg/xerr"
	"RepairDesk/pkg/zlog"

	"go.uber.org/zap"
)

var (
	ErrInvalidDestination = xerr.New(xerr.BadRequest, "invalid message destination")
	ErrEmptyBody          = xerr.New(xerr.BadRequest, "message body is empty")
)

// EnqueueRequest 通用入队参数
type EnqueueRequest struct {
	Channel     string
	Destination string
	Subject     string
	Body        string
	MessageKind string
	MaxAttempts int
}

// OutboundService 负责把待发消息写入队列，实际投递由 QueueProcessor 完成
type OutboundService interface {
	Enqueue(ctx context.Context, req EnqueueRequest) (*entity.QueuedMessage, error)
	EnqueueSMS(ctx context.Context, destination, body, kind string) (*entity.QueuedMessage, error)
	EnqueueEmail(ctx context.Context, to, subject, body, kind string) (*entity.QueuedMessage, error)

	EnqueueDeviceRegistered(ctx context.Context, phone string, d sms.DeviceInfo) (*entity.QueuedMessage, error)
	EnqueueStatusChanged(ctx context.Context, phone string, d sms.DeviceInfo) (*entity.QueuedMessage, error)
	EnqueueReadyForPickup(ctx context.Context, phone string, d sms.DeviceInfo) (*entity.QueuedMessage, error)
	EnqueueDelivered(ctx context.Context, phone string, d sms.DeviceInfo) (*entity.QueuedMessage, error)
}

type outboundServiceImpl struct {
	repo               repository.MessageQueueRepository
	normalizer         sms.Normalizer
	defaultMaxAttempts int
	shopName           string
}

func NewOutboundService(repo repository.MessageQueueRepository, normalizer sms.Normalizer, defaultMaxAttempts int, shopName string) OutboundService {
	if defaultMaxAttempts <= 0 {
		defaultMaxAttempts = entity.DefaultMaxAttempts
	}
	return &outboundServiceImpl{
		repo:               repo,
		normalizer:         normalizer,
		defaultMaxAttempts: defaultMaxAttempts,
		shopName:           shopName,
	}
}

func (s *outboundServiceImpl) Enqueue(ctx context.Context, req EnqueueRequest) (*entity.QueuedMessage, error) {
	dest := strings.TrimSpace(req.Destination)
	switch req.Channel {
	case entity.ChannelSMS:
		dest = s.normalizer.Normalize(dest)
	case entity.ChannelEmail:
		addr, err := mail.ParseAddress(dest)
		if err != nil {
			return nil, ErrInvalidDestination
		}
		dest = addr.Address
	default:
		return nil, xerr.New(xerr.BadRequest, fmt.Sprintf("unsupported channel %q", req.Channel))
	}
	if dest == "" {
		return nil, ErrInvalidDestination
	}
	if strings.TrimSpace(req.Body) == "" {
		return nil, ErrEmptyBody
	}
	kind := strings.TrimSpace(req.MessageKind)
	if kind == "" {
		kind = entity.KindNotification
	}
	maxAttempts := req.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = s.defaultMaxAttempts
	}

	msg := &entity.QueuedMessage{
		Channel:     req.Channel,
		Destination: dest,
		Subject:     req.Subject,
		Body:        req.Body,
		MessageKind: kind,
		MaxAttempts: maxAttempts,
	}
	if err := s.repo.Enqueue(ctx, msg); err != nil {
		return nil, fmt.Errorf("enqueue %s message: %w", req.Channel, err)
	}
	zlog.Info("outbound message queued",
		zap.Int64("message_id", msg.Id),
		zap.String("channel", msg.Channel),
		zap.String("message_kind", msg.MessageKind),
	)
	return msg, nil
}

func (s *outboundServiceImpl) EnqueueSMS(ctx context.Context, destination, body, kind string) (*entity.QueuedMessage, error) {
	return s.Enqueue(ctx, EnqueueRequest{Channel: entity.ChannelSMS, Destination: destination, Body: body, MessageKind: kind})
}

func (s *outboundServiceImpl) EnqueueEmail(ctx context.Context, to, subject, body, kind string) (*entity.QueuedMessage, error) {
	return s.Enqueue(ctx, EnqueueRequest{Channel: entity.ChannelEmail, Destination: to, Subject: subject, Body: body, MessageKind: kind})
}

func (s *outboundServiceImpl) EnqueueDeviceRegistered(ctx context.Context, phone string, d sms.DeviceInfo) (*entity.QueuedMessage, error) {
	return s.EnqueueSMS(ctx, phone, sms.RenderRegistration(s.withShop(d)), entity.KindRegistration)
}

func (s *outboundServiceImpl) EnqueueStatusChanged(ctx context.Context, phone string, d sms.DeviceInfo) (*entity.QueuedMessage, error) {
	return s.EnqueueSMS(ctx, phone, sms.RenderStatusChange(s.withShop(d)), entity.KindStatusUpdate)
}

func (s *outboundServiceImpl) EnqueueReadyForPickup(ctx context.Context, phone string, d sms.DeviceInfo) (*entity.QueuedMessage, error) {
	return s.EnqueueSMS(ctx, phone, sms.RenderReadyForPickup(s.withShop(d)), entity.KindReadyForPickup)
}

func (s *outboundServiceImpl) EnqueueDelivered(ctx context.Context, phone string, d sms.DeviceInfo) (*entity.QueuedMessage, error) {
	return s.EnqueueSMS(ctx, phone, sms.RenderDelivered(s.withShop(d)), entity.KindDelivered)
}

func (s *outboundServiceImpl) withShop(d sms.DeviceInfo) sms.DeviceInfo {
	if d.ShopName == "" {
		d.ShopName = s.shopName
	}
	return d
}

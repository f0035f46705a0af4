package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"RepairDesk/internal/modules/notification/application/dto/request"
	"RepairDesk/internal/modules/notification/application/dto/respond"
	"RepairDesk/internal/modules/notification/domain/entity"
	"RepairDesk/internal/modules/notification/domain/repository"
	repairRepository "RepairDesk/internal/modules/repair/domain/repository"
	userEntity "RepairDesk/internal/modules/user/domain/entity"
	userRepository "RepairDesk/internal/modules/user/domain/repository"
	"RepairDesk/pkg/xerr"
	"RepairDesk/pkg/zlog"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const (
	DefaultListLimit = 50
	defaultTitle     = "New notification"
	defaultMessage   = "You have a new notification."
)

var (
	ErrNotificationTypeNotFound = xerr.New(xerr.NotFound, "notification type not found")
	ErrInvalidPriority          = xerr.New(xerr.BadRequest, "invalid notification priority")
	ErrInvalidStatus            = xerr.New(xerr.BadRequest, "invalid notification status")
	ErrRecipientRequired        = xerr.New(xerr.BadRequest, "notification recipient is required")
)

// NotificationService 站内通知及其外部通道分发
type NotificationService interface {
	CreateNotification(ctx context.Context, req request.CreateNotificationRequest) (*respond.CreateNotificationRespond, error)
	GetUserNotifications(ctx context.Context, userID string, req request.ListNotificationsRequest) ([]respond.NotificationItem, error)
	// MarkAsRead 与 ArchiveNotification 对不属于该用户的通知不报错，只返回 false
	MarkAsRead(ctx context.Context, userID string, notificationID int64) (bool, error)
	MarkAllAsRead(ctx context.Context, userID string) (int64, error)
	ArchiveNotification(ctx context.Context, userID string, notificationID int64) (bool, error)
	GetUnreadCount(ctx context.Context, userID string) int64
	CleanupExpiredNotifications(ctx context.Context) (int64, error)

	GetUserPreferences(ctx context.Context, userID string) ([]respond.PreferenceItem, error)
	UpdatePreferences(ctx context.Context, userID string, req request.UpdatePreferenceRequest) (*respond.PreferenceItem, error)

	CreateDeviceNotification(ctx context.Context, req request.DeviceNotificationRequest) (*respond.CreateNotificationRespond, error)
	CreateInventoryNotification(ctx context.Context, req request.InventoryNotificationRequest) (*respond.CreateNotificationRespond, error)
	CreateCustomerFeedbackNotification(ctx context.Context, req request.FeedbackNotificationRequest) (*respond.CreateNotificationRespond, error)
}

// Deps 除仓储外均可为 nil，缺失的通道在 DispatchReport 中记为 unavailable
type Deps struct {
	Types         repository.NotificationTypeRepository
	Notifications repository.NotificationRepository
	Preferences   repository.PreferenceRepository
	Users         userRepository.UserInfoRepository
	Repair        repairRepository.RepairLookupRepository

	Outbound OutboundEnqueuer
	Realtime RealtimePusher
	Events   EventPublisher
	Cache    UnreadCache
}

type notificationServiceImpl struct {
	Deps
	now func() time.Time
}

func NewNotificationService(deps Deps) NotificationService {
	return &notificationServiceImpl{Deps: deps, now: time.Now}
}

func (s *notificationServiceImpl) CreateNotification(ctx context.Context, req request.CreateNotificationRequest) (*respond.CreateNotificationRespond, error) {
	recipient := strings.TrimSpace(req.RecipientId)
	if recipient == "" {
		return nil, ErrRecipientRequired
	}
	priority := req.Priority
	if priority == "" {
		priority = entity.PriorityNormal
	}
	if !entity.ValidPriority(priority) {
		return nil, ErrInvalidPriority
	}

	nt, err := s.Types.GetActiveByName(ctx, req.TypeName)
	if err != nil {
		return nil, fmt.Errorf("get notification type %q: %w", req.TypeName, err)
	}
	if nt == nil {
		return nil, ErrNotificationTypeNotFound
	}
	tpl, err := s.Types.FirstActiveTemplate(ctx, nt.Id)
	if err != nil {
		return nil, fmt.Errorf("get template for type %q: %w", nt.Name, err)
	}

	title := req.Title
	message := req.Message
	if title == "" && tpl != nil {
		title = renderTemplate(tpl.Title, req.Data)
	}
	if message == "" && tpl != nil {
		message = renderTemplate(tpl.Message, req.Data)
	}
	if title == "" {
		title = defaultTitle
	}
	if message == "" {
		message = defaultMessage
	}

	var data datatypes.JSON
	if req.Data != nil {
		raw, err := json.Marshal(req.Data)
		if err != nil {
			return nil, xerr.New(xerr.BadRequest, "notification data is not valid json")
		}
		data = raw
	}

	n := &entity.Notification{
		TypeId:            nt.Id,
		Title:             title,
		Message:           message,
		Data:              data,
		Priority:          priority,
		Status:            entity.StatusUnread,
		RecipientId:       recipient,
		SenderId:          req.SenderId,
		RelatedEntityType: req.RelatedEntityType,
		RelatedEntityId:   req.RelatedEntityId,
		ExpiresAt:         req.ExpiresAt,
		CreatedAt:         s.now(),
	}
	if err := s.Notifications.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	zlog.Info("notification created",
		zap.Int64("notification_id", n.Id),
		zap.String("type", nt.Name),
		zap.String("recipient_id", recipient),
		zap.String("priority", priority),
	)

	s.invalidateUnread(ctx, recipient)
	report := s.dispatch(ctx, n, nt, tpl, req.Data)
	if s.Events != nil {
		if err := s.Events.PublishCreated(ctx, n, nt.Name); err != nil {
			zlog.Warn("publish notification.created failed", zap.Int64("notification_id", n.Id), zap.Error(err))
		}
	}

	item := toItem(n, typeSummary(nt), nil)
	return &respond.CreateNotificationRespond{Notification: item, Dispatch: report, Degraded: report.Degraded()}, nil
}

func (s *notificationServiceImpl) GetUserNotifications(ctx context.Context, userID string, req request.ListNotificationsRequest) ([]respond.NotificationItem, error) {
	status := req.Status
	switch status {
	case "", "all":
		status = "all"
	case entity.StatusUnread, entity.StatusRead, entity.StatusArchived:
	default:
		return nil, ErrInvalidStatus
	}
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	list, err := s.Notifications.ListByRecipient(ctx, userID, repository.ListFilter{
		Status:         status,
		Limit:          limit,
		Offset:         offset,
		IncludeExpired: req.IncludeExpired,
		Now:            s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	if len(list) == 0 {
		return []respond.NotificationItem{}, nil
	}

	typeIDs := make([]int64, 0, len(list))
	senderIDs := make([]string, 0)
	seenType := make(map[int64]bool)
	seenSender := make(map[string]bool)
	for _, n := range list {
		if !seenType[n.TypeId] {
			seenType[n.TypeId] = true
			typeIDs = append(typeIDs, n.TypeId)
		}
		if n.SenderId != nil && *n.SenderId != "" && !seenSender[*n.SenderId] {
			seenSender[*n.SenderId] = true
			senderIDs = append(senderIDs, *n.SenderId)
		}
	}

	types := make(map[int64]respond.TypeSummary, len(typeIDs))
	if ts, err := s.Types.GetByIDs(ctx, typeIDs); err != nil {
		zlog.Warn("load notification types failed", zap.Error(err))
	} else {
		for i := range ts {
			types[ts[i].Id] = typeSummary(&ts[i])
		}
	}

	senders := make(map[string]*respond.SenderSummary, len(senderIDs))
	if len(senderIDs) > 0 && s.Users != nil {
		if briefs, err := s.Users.GetUserBriefByUUIDs(ctx, senderIDs); err != nil {
			zlog.Warn("load notification senders failed", zap.Error(err))
		} else {
			for _, b := range briefs {
				senders[b.Uuid] = senderSummary(b)
			}
		}
	}

	out := make([]respond.NotificationItem, 0, len(list))
	for _, n := range list {
		var sender *respond.SenderSummary
		if n.SenderId != nil {
			sender = senders[*n.SenderId]
		}
		out = append(out, toItem(n, types[n.TypeId], sender))
	}
	return out, nil
}

func (s *notificationServiceImpl) MarkAsRead(ctx context.Context, userID string, notificationID int64) (bool, error) {
	ok, err := s.Notifications.MarkAsRead(ctx, notificationID, userID, s.now())
	if err != nil {
		return false, fmt.Errorf("mark notification %d read: %w", notificationID, err)
	}
	if ok {
		s.invalidateUnread(ctx, userID)
	}
	return ok, nil
}

func (s *notificationServiceImpl) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	n, err := s.Notifications.MarkAllAsRead(ctx, userID, s.now())
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	s.invalidateUnread(ctx, userID)
	return n, nil
}

func (s *notificationServiceImpl) ArchiveNotification(ctx context.Context, userID string, notificationID int64) (bool, error) {
	ok, err := s.Notifications.Archive(ctx, notificationID, userID)
	if err != nil {
		return false, fmt.Errorf("archive notification %d: %w", notificationID, err)
	}
	if ok {
		s.invalidateUnread(ctx, userID)
	}
	return ok, nil
}

// GetUnreadCount 出错时返回 0，只记录日志
func (s *notificationServiceImpl) GetUnreadCount(ctx context.Context, userID string) int64 {
	if s.Cache != nil {
		if n, ok := s.Cache.Get(ctx, userID); ok {
			return n
		}
	}
	now := s.now()
	n, err := s.Notifications.CountUnread(ctx, userID, now)
	if err != nil {
		zlog.Error("count unread notifications failed", zap.String("user_id", userID), zap.Error(err))
		return 0
	}
	if s.Cache != nil {
		s.cacheUnread(ctx, userID, n, now)
	}
	return n
}

// cacheUnread 缓存有效期不超过最早一条未读通知的过期时间
func (s *notificationServiceImpl) cacheUnread(ctx context.Context, userID string, n int64, now time.Time) {
	var ttl time.Duration
	next, err := s.Notifications.NextUnreadExpiry(ctx, userID, now)
	if err != nil {
		zlog.Warn("lookup next unread expiry failed, skip cache", zap.String("user_id", userID), zap.Error(err))
		return
	}
	if next != nil {
		ttl = next.Sub(now)
		if ttl <= 0 {
			return
		}
	}
	s.Cache.Set(ctx, userID, n, ttl)
}

func (s *notificationServiceImpl) CleanupExpiredNotifications(ctx context.Context) (int64, error) {
	n, err := s.Notifications.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("delete expired notifications: %w", err)
	}
	if n > 0 {
		zlog.Info("expired notifications removed", zap.Int64("count", n))
	}
	return n, nil
}

func (s *notificationServiceImpl) invalidateUnread(ctx context.Context, userID string) {
	if s.Cache != nil {
		s.Cache.Invalidate(ctx, userID)
	}
}

func typeSummary(t *entity.NotificationType) respond.TypeSummary {
	if t == nil {
		return respond.TypeSummary{}
	}
	return respond.TypeSummary{Id: t.Id, Name: t.Name, DisplayName: t.DisplayName, Category: t.Category}
}

func senderSummary(b userEntity.UserBrief) *respond.SenderSummary {
	return &respond.SenderSummary{Uuid: b.Uuid, Nickname: b.DisplayName(), Avatar: b.Avatar}
}

func toItem(n *entity.Notification, t respond.TypeSummary, sender *respond.SenderSummary) respond.NotificationItem {
	return respond.NotificationItem{
		Id:                n.Id,
		Title:             n.Title,
		Message:           n.Message,
		Data:              n.Data,
		Priority:          n.Priority,
		Status:            n.Status,
		RecipientId:       n.RecipientId,
		RelatedEntityType: n.RelatedEntityType,
		RelatedEntityId:   n.RelatedEntityId,
		ExpiresAt:         n.ExpiresAt,
		CreatedAt:         n.CreatedAt,
		ReadAt:            n.ReadAt,
		Type:              t,
		Sender:            sender,
	}
}

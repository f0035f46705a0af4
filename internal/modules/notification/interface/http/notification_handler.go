package handler

import (
	"RepairDesk/internal/middleware/jwt"
	"RepairDesk/internal/modules/notification/application/dto/request"
	"RepairDesk/internal/modules/notification/application/dto/respond"
	"RepairDesk/internal/modules/notification/application/service"
	"RepairDesk/pkg/back"
	"RepairDesk/pkg/xerr"
	"RepairDesk/pkg/zlog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NotificationHandler 当前登录用户的通知接口
type NotificationHandler struct {
	svc service.NotificationService
}

func NewNotificationHandler(svc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) List(c *gin.Context) {
	var req request.ListNotificationsRequest
	// 空 body 使用默认值
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
			return
		}
	}
	list, err := h.svc.GetUserNotifications(c.Request.Context(), c.GetString(jwt.CtxUUID), req)
	back.Result(c, list, err)
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	var req request.NotificationIdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	ok, err := h.svc.MarkAsRead(c.Request.Context(), c.GetString(jwt.CtxUUID), req.NotificationId)
	back.Result(c, gin.H{"updated": ok}, err)
}

func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	n, err := h.svc.MarkAllAsRead(c.Request.Context(), c.GetString(jwt.CtxUUID))
	back.Result(c, gin.H{"updated": n}, err)
}

func (h *NotificationHandler) Archive(c *gin.Context) {
	var req request.NotificationIdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	ok, err := h.svc.ArchiveNotification(c.Request.Context(), c.GetString(jwt.CtxUUID), req.NotificationId)
	back.Result(c, gin.H{"updated": ok}, err)
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	n := h.svc.GetUnreadCount(c.Request.Context(), c.GetString(jwt.CtxUUID))
	back.Success(c, respond.UnreadCountRespond{Count: n})
}

func (h *NotificationHandler) Preferences(c *gin.Context) {
	prefs, err := h.svc.GetUserPreferences(c.Request.Context(), c.GetString(jwt.CtxUUID))
	back.Result(c, prefs, err)
}

func (h *NotificationHandler) UpdatePreferences(c *gin.Context) {
	var req request.UpdatePreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	item, err := h.svc.UpdatePreferences(c.Request.Context(), c.GetString(jwt.CtxUUID), req)
	back.Result(c, item, err)
}

// 以下为管理端接口

func (h *NotificationHandler) Create(c *gin.Context) {
	var req request.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	if req.SenderId == nil {
		sender := c.GetString(jwt.CtxUUID)
		req.SenderId = &sender
	}
	res, err := h.svc.CreateNotification(c.Request.Context(), req)
	logDegraded(res)
	back.Result(c, res, err)
}

func (h *NotificationHandler) CreateForDevice(c *gin.Context) {
	var req request.DeviceNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	res, err := h.svc.CreateDeviceNotification(c.Request.Context(), req)
	logDegraded(res)
	back.Result(c, res, err)
}

func (h *NotificationHandler) CreateForInventory(c *gin.Context) {
	var req request.InventoryNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	res, err := h.svc.CreateInventoryNotification(c.Request.Context(), req)
	logDegraded(res)
	back.Result(c, res, err)
}

func (h *NotificationHandler) CreateForFeedback(c *gin.Context) {
	var req request.FeedbackNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	res, err := h.svc.CreateCustomerFeedbackNotification(c.Request.Context(), req)
	logDegraded(res)
	back.Result(c, res, err)
}

func logDegraded(res *respond.CreateNotificationRespond) {
	if res != nil && res.Degraded {
		zlog.Warn("notification created with degraded dispatch",
			zap.Int64("notification_id", res.Notification.Id),
			zap.Strings("errors", res.Dispatch.Errors),
		)
	}
}

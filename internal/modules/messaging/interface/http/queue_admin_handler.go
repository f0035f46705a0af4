package handler

import (
	"RepairDesk/internal/modules/messaging/application/dto/request"
	"RepairDesk/internal/modules/messaging/application/dto/respond"
	"RepairDesk/internal/modules/messaging/application/service"
	"RepairDesk/internal/modules/messaging/domain/entity"
	"RepairDesk/pkg/back"
	"RepairDesk/pkg/xerr"
	"RepairDesk/pkg/zlog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// QueueAdminHandler 队列运维接口
type QueueAdminHandler struct {
	processor *service.QueueProcessor
	outbound  service.OutboundService
}

func NewQueueAdminHandler(processor *service.QueueProcessor, outbound service.OutboundService) *QueueAdminHandler {
	return &QueueAdminHandler{processor: processor, outbound: outbound}
}

func (h *QueueAdminHandler) Stats(c *gin.Context) {
	counts, err := h.processor.Stats(c.Request.Context())
	if err != nil {
		zlog.Error("queue stats failed", zap.Error(err))
		back.Result(c, nil, err)
		return
	}
	back.Success(c, respond.QueueStatsRespond{QueueCounts: counts, Channels: h.processor.ChannelStates()})
}

func (h *QueueAdminHandler) Retry(c *gin.Context) {
	var req request.QueueMessageIdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	msg, err := h.processor.Retry(c.Request.Context(), req.MessageId)
	back.Result(c, msg, err)
}

func (h *QueueAdminHandler) Cancel(c *gin.Context) {
	var req request.QueueMessageIdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	err := h.processor.Cancel(c.Request.Context(), req.MessageId)
	back.Result(c, nil, err)
}

// SendSMS 手动发送一条短信（进入队列）
func (h *QueueAdminHandler) SendSMS(c *gin.Context) {
	var req request.EnqueueSMSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	msg, err := h.outbound.Enqueue(c.Request.Context(), service.EnqueueRequest{
		Channel:     entity.ChannelSMS,
		Destination: req.Destination,
		Body:        req.Body,
		MessageKind: req.MessageKind,
		MaxAttempts: req.MaxAttempts,
	})
	back.Result(c, msg, err)
}

package handler

import (
	"context"

	"RepairDesk/internal/modules/setting/application/dto/request"
	"RepairDesk/internal/modules/setting/application/service"
	"RepairDesk/pkg/back"
	"RepairDesk/pkg/xerr"
	"RepairDesk/pkg/zlog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChannelReloader 凭据变更后重新初始化投递通道
type ChannelReloader interface {
	ReloadChannels(ctx context.Context) error
}

type SettingHandler struct {
	svc      service.SettingService
	reloader ChannelReloader
}

func NewSettingHandler(svc service.SettingService, reloader ChannelReloader) *SettingHandler {
	return &SettingHandler{svc: svc, reloader: reloader}
}

func (h *SettingHandler) UpdateSettings(c *gin.Context) {
	var req request.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		zlog.Warn("bind update settings request failed", zap.Error(err))
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	ctx := c.Request.Context()
	for _, item := range req.Items {
		if err := h.svc.Set(ctx, item.Key, item.Value); err != nil {
			zlog.Error("update setting failed", zap.String("key", item.Key), zap.Error(err))
			back.Result(c, nil, err)
			return
		}
	}
	if h.reloader != nil {
		if err := h.reloader.ReloadChannels(ctx); err != nil {
			zlog.Error("reload channels failed", zap.Error(err))
			back.Result(c, nil, err)
			return
		}
	}
	back.Success(c, gin.H{"updated": len(req.Items)})
}

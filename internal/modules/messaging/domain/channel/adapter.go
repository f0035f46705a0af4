package channel

import (
	"context"

	"RepairDesk/internal/modules/messaging/domain/entity"
)

// Adapter 投递通道（短信网关、SMTP 等），不感知队列
type Adapter interface {
	// Channel 对应 QueuedMessage.Channel
	Channel() string
	// IsEnabled 凭据缺失时为 false，此时 Send 直接视为成功
	IsEnabled() bool
	// IsReady Init 完成之前为 false
	IsReady() bool
	Send(ctx context.Context, msg *entity.QueuedMessage) error
}

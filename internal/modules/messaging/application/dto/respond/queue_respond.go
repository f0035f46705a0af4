package respond

import "RepairDesk/internal/modules/messaging/domain/entity"

type QueueStatsRespond struct {
	entity.QueueCounts
	Channels []ChannelState `json:"channels"`
}

type ChannelState struct {
	Channel string `json:"channel"`
	Enabled bool   `json:"enabled"`
	Ready   bool   `json:"ready"`
}

package request

type QueueMessageIdRequest struct {
	MessageId int64 `json:"message_id" binding:"required,gt=0"`
}

type EnqueueSMSRequest struct {
	Destination string `json:"destination" binding:"required"`
	Body        string `json:"body" binding:"required"`
	MessageKind string `json:"message_kind"`
	MaxAttempts int    `json:"max_attempts"`
}

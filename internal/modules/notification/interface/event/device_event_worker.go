package event

import (
	"context"
	"errors"

	"RepairDesk/internal/modules/notification/infrastructure/mq"
	"RepairDesk/pkg/zlog"

	"go.uber.org/zap"
)

// DeviceEventWorker 把 consumer 和 handler 绑在一起，由 main 在后台运行
type DeviceEventWorker struct {
	consumer mq.Consumer
	handler  mq.Handler
}

func NewDeviceEventWorker(consumer mq.Consumer, handler mq.Handler) *DeviceEventWorker {
	return &DeviceEventWorker{consumer: consumer, handler: handler}
}

// Run 阻塞直到 ctx 取消；ctx 取消不视为错误
func (w *DeviceEventWorker) Run(ctx context.Context) error {
	if w == nil || w.consumer == nil {
		return errors.New("consumer is nil")
	}
	if w.handler == nil {
		return errors.New("handler is nil")
	}
	zlog.Info("device event worker started")
	err := w.consumer.Run(ctx, w.handler)
	if err != nil && !errors.Is(err, context.Canceled) {
		zlog.Error("device event worker stopped", zap.Error(err))
		return err
	}
	zlog.Info("device event worker stopped")
	return nil
}

func (w *DeviceEventWorker) Close() error {
	if w == nil || w.consumer == nil {
		return nil
	}
	return w.consumer.Close()
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"RepairDesk/internal/modules/messaging/application/dto/respond"
	"RepairDesk/internal/modules/messaging/domain/channel"
	"RepairDesk/internal/modules/messaging/domain/entity"
	"RepairDesk/internal/modules/messaging/domain/repository"
	"RepairDesk/pkg/xerr"
	"RepairDesk/pkg/zlog"

	"go.uber.org/zap"
)

const (
	DefaultInterval  = 30 * time.Second
	DefaultBatchSize = 10
)

var (
	ErrMessageNotFound   = xerr.New(xerr.NotFound, "queued message not found")
	ErrMessageNotPending = xerr.New(xerr.Conflict, "queued message is not pending")
)

// TickResult 单次轮询的结果
type TickResult struct {
	Skipped    bool   `json:"skipped"`
	SkipReason string `json:"skipReason,omitempty"`
	Fetched    int    `json:"fetched"`
	Sent       int    `json:"sent"`
	Retrying   int    `json:"retrying"`
	Failed     int    `json:"failed"`
}

// QueueProcessor 定时从队列取出 pending 消息并逐条投递
type QueueProcessor struct {
	repo      repository.MessageQueueRepository
	adapters  map[string]channel.Adapter
	order     []string
	batchSize int
	now       func() time.Time

	inFlight atomic.Bool

	mu       sync.Mutex
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewQueueProcessor(repo repository.MessageQueueRepository, batchSize int, adapters ...channel.Adapter) *QueueProcessor {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	p := &QueueProcessor{
		repo:      repo,
		adapters:  make(map[string]channel.Adapter, len(adapters)),
		batchSize: batchSize,
		now:       time.Now,
	}
	for _, a := range adapters {
		if a == nil {
			continue
		}
		if _, dup := p.adapters[a.Channel()]; !dup {
			p.order = append(p.order, a.Channel())
		}
		p.adapters[a.Channel()] = a
	}
	return p
}

// Start 立即执行一次，然后每 interval 执行一次；重复调用无效
func (p *QueueProcessor) Start(interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	p.mu.Lock()
	if p.stopChan != nil {
		p.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	p.stopChan = stop
	p.mu.Unlock()

	p.wg.Add(1)
	go p.run(interval, stop)
	zlog.Info("outbound queue processor started", zap.Duration("interval", interval), zap.Int("batch_size", p.batchSize))
}

// Stop 停止定时器，并等待正在执行的 tick 结束
func (p *QueueProcessor) Stop() {
	p.mu.Lock()
	stop := p.stopChan
	p.stopChan = nil
	p.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	p.wg.Wait()
	zlog.Info("outbound queue processor stopped")
}

func (p *QueueProcessor) run(interval time.Duration, stop <-chan struct{}) {
	defer p.wg.Done()

	p.spawnTick()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.spawnTick()
		case <-stop:
			return
		}
	}
}

func (p *QueueProcessor) spawnTick() {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		// tick 不随 Stop 取消，允许执行完
		p.ProcessQueue(context.Background())
	}()
}

// ProcessQueue 执行一次轮询；不返回错误，所有异常都只记录日志
func (p *QueueProcessor) ProcessQueue(ctx context.Context) (res TickResult) {
	if !p.inFlight.CompareAndSwap(false, true) {
		zlog.Debug("outbound queue tick skipped: previous tick still running")
		return TickResult{Skipped: true, SkipReason: "in_flight"}
	}
	defer p.inFlight.Store(false)
	defer func() {
		if r := recover(); r != nil {
			zlog.Error("outbound queue tick panicked", zap.Any("panic", r))
		}
	}()

	channels := p.readyChannels()
	if len(channels) == 0 {
		zlog.Debug("outbound queue tick skipped: no channel adapter ready")
		return TickResult{Skipped: true, SkipReason: "adapter_not_ready"}
	}

	msgs, err := p.repo.SelectEligible(ctx, channels, p.batchSize)
	if err != nil {
		zlog.Error("outbound queue select eligible failed", zap.Error(err))
		return res
	}
	res.Fetched = len(msgs)

	for _, msg := range msgs {
		switch p.deliver(ctx, msg) {
		case entity.StatusSent:
			res.Sent++
		case entity.StatusFailed:
			res.Failed++
		default:
			res.Retrying++
		}
	}
	if res.Fetched > 0 {
		zlog.Info("outbound queue tick finished",
			zap.Int("fetched", res.Fetched),
			zap.Int("sent", res.Sent),
			zap.Int("retrying", res.Retrying),
			zap.Int("failed", res.Failed),
		)
	}
	return res
}

// Retry 人工重试：重置计数后立即投递一次
func (p *QueueProcessor) Retry(ctx context.Context, id int64) (*entity.QueuedMessage, error) {
	msg, err := p.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get queued message %d: %w", id, err)
	}
	if msg == nil {
		return nil, ErrMessageNotFound
	}
	if err := p.repo.ResetForRetry(ctx, id); err != nil {
		return nil, fmt.Errorf("reset queued message %d: %w", id, err)
	}
	zlog.Info("manual retry requested",
		zap.Int64("message_id", id),
		zap.String("previous_status", msg.Status),
		zap.Int("previous_attempts", msg.Attempts),
	)

	msg.Status = entity.StatusPending
	msg.Attempts = 0
	msg.ErrorMessage = nil

	if a, ok := p.adapters[msg.Channel]; ok && !a.IsReady() {
		zlog.Warn("manual retry deferred: channel not ready", zap.Int64("message_id", id), zap.String("channel", msg.Channel))
	} else {
		outcome := p.deliver(ctx, msg)
		zlog.Info("manual retry finished", zap.Int64("message_id", id), zap.String("outcome", outcome))
	}

	return p.repo.GetByID(ctx, id)
}

// Cancel 取消一条 pending 消息
func (p *QueueProcessor) Cancel(ctx context.Context, id int64) error {
	ok, err := p.repo.Cancel(ctx, id)
	if err != nil {
		return fmt.Errorf("cancel queued message %d: %w", id, err)
	}
	if ok {
		zlog.Info("queued message cancelled", zap.Int64("message_id", id))
		return nil
	}
	msg, err := p.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get queued message %d: %w", id, err)
	}
	if msg == nil {
		return ErrMessageNotFound
	}
	return ErrMessageNotPending
}

func (p *QueueProcessor) Stats(ctx context.Context) (entity.QueueCounts, error) {
	return p.repo.CountsByStatus(ctx)
}

// ReloadChannels 重新初始化所有支持 Init 的通道
func (p *QueueProcessor) ReloadChannels(ctx context.Context) error {
	var errs []error
	for _, name := range p.order {
		if in, ok := p.adapters[name].(interface{ Init(context.Context) error }); ok {
			if err := in.Init(ctx); err != nil {
				errs = append(errs, fmt.Errorf("init %s channel: %w", name, err))
			}
		}
	}
	return errors.Join(errs...)
}

func (p *QueueProcessor) readyChannels() []string {
	out := make([]string, 0, len(p.order))
	for _, name := range p.order {
		if p.adapters[name].IsReady() {
			out = append(out, name)
		}
	}
	return out
}

// deliver 投递单条消息并记录结果，返回投递后的状态
func (p *QueueProcessor) deliver(ctx context.Context, msg *entity.QueuedMessage) string {
	adapter, ok := p.adapters[msg.Channel]
	var sendErr error
	if !ok {
		sendErr = fmt.Errorf("no adapter registered for channel %q", msg.Channel)
	} else {
		sendErr = safeSend(ctx, adapter, msg)
	}

	now := p.now()
	if sendErr == nil {
		if err := p.repo.MarkSent(ctx, msg.Id, now); err != nil {
			zlog.Error("mark queued message sent failed", zap.Int64("message_id", msg.Id), zap.Error(err))
		}
		return entity.StatusSent
	}

	attempts := msg.Attempts + 1
	terminal := attempts >= msg.MaxAttempts
	if err := p.repo.MarkAttemptFailed(ctx, msg.Id, sendErr.Error(), attempts, terminal, now); err != nil {
		zlog.Error("mark queued message attempt failed", zap.Int64("message_id", msg.Id), zap.Error(err))
	}

	fields := []zap.Field{
		zap.Int64("message_id", msg.Id),
		zap.String("channel", msg.Channel),
		zap.String("message_kind", msg.MessageKind),
		zap.String("destination", msg.Destination),
		zap.Int("attempts", attempts),
		zap.Int("max_attempts", msg.MaxAttempts),
		zap.Error(sendErr),
	}
	if terminal {
		zlog.Error("outbound message failed permanently", fields...)
		return entity.StatusFailed
	}
	zlog.Warn("outbound message delivery failed, will retry", fields...)
	return entity.StatusPending
}

func safeSend(ctx context.Context, a channel.Adapter, msg *entity.QueuedMessage) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("adapter panic: %v", r)
		}
	}()
	return a.Send(ctx, msg)
}

// ChannelStates 各通道的启用/就绪状态，供运维查看
func (p *QueueProcessor) ChannelStates() []respond.ChannelState {
	out := make([]respond.ChannelState, 0, len(p.order))
	for _, name := range p.order {
		a := p.adapters[name]
		out = append(out, respond.ChannelState{Channel: name, Enabled: a.IsEnabled(), Ready: a.IsReady()})
	}
	return out
}

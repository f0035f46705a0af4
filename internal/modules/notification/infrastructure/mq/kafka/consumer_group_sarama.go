package kafka

import (
	"context"
	"errors"
	"strings"
	"time"

	"RepairDesk/internal/modules/notification/infrastructure/mq"
	"RepairDesk/pkg/zlog"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

type ConsumerConfig struct {
	Brokers  []string
	GroupID  string
	Topics   []string
	ClientID string
}

type saramaConsumer struct {
	cg     sarama.ConsumerGroup
	topics []string
}

func NewConsumer(cfg ConsumerConfig) (mq.Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers is empty")
	}
	if strings.TrimSpace(cfg.GroupID) == "" {
		return nil, errors.New("kafka consumer group id is empty")
	}
	if len(cfg.Topics) == 0 {
		return nil, errors.New("kafka topics is empty")
	}

	sc := sarama.NewConfig()
	sc.Version = sarama.V2_8_0_0
	// 设备事件不能丢，新消费组从最早的 offset 开始
	sc.Consumer.Offsets.Initial = sarama.OffsetOldest
	sc.Consumer.Group.Rebalance.Timeout = 30 * time.Second
	sc.Consumer.Group.Session.Timeout = 30 * time.Second
	sc.Consumer.Return.Errors = true
	sc.ClientID = strings.TrimSpace(cfg.ClientID)

	cg, err := sarama.NewConsumerGroup(cfg.Brokers, strings.TrimSpace(cfg.GroupID), sc)
	if err != nil {
		return nil, err
	}
	return &saramaConsumer{cg: cg, topics: cfg.Topics}, nil
}

// Run 阻塞直到 ctx 取消或消费组出错；rebalance 后会重新加入
func (c *saramaConsumer) Run(ctx context.Context, handler mq.Handler) error {
	if handler == nil {
		return errors.New("handler is nil")
	}
	go func() {
		for err := range c.cg.Errors() {
			zlog.Warn("kafka consumer group error", zap.Error(err))
		}
	}()

	h := newClaimHandler(handler)
	for {
		if err := c.cg.Consume(ctx, c.topics, h); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

func (c *saramaConsumer) Close() error {
	if c == nil || c.cg == nil {
		return nil
	}
	return c.cg.Close()
}

const (
	defaultRetryBackoff    = 500 * time.Millisecond
	defaultMaxRetryBackoff = 30 * time.Second
)

type claimHandler struct {
	h mq.Handler

	retryBackoff    time.Duration
	maxRetryBackoff time.Duration
}

func newClaimHandler(h mq.Handler) *claimHandler {
	return &claimHandler{h: h, retryBackoff: defaultRetryBackoff, maxRetryBackoff: defaultMaxRetryBackoff}
}

func (claimHandler) Setup(sess sarama.ConsumerGroupSession) error {
	zlog.Info("kafka consumer session started", zap.Any("claims", sess.Claims()))
	return nil
}

func (claimHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

// ConsumeClaim 按分区顺序处理；临时错误原地重试，成功前不会处理后续 offset
func (h *claimHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case m, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if !h.handle(sess, m) {
				// session 结束，未确认的消息在重新加入后从已提交 offset 处重新投递
				return nil
			}
		case <-sess.Context().Done():
			return nil
		}
	}
}

// handle 返回 false 表示 session 已结束且消息未确认
func (h *claimHandler) handle(sess sarama.ConsumerGroupSession, m *sarama.ConsumerMessage) bool {
	ctx := sess.Context()
	msg := fromConsumerMessage(m)
	backoff := h.retryBackoff
	for attempt := 1; ; attempt++ {
		err := h.h.Handle(ctx, msg)
		switch {
		case err == nil:
			sess.MarkMessage(m, "")
			return true
		case mq.IsPermanent(err):
			zlog.Error("kafka message dropped",
				zap.String("topic", m.Topic),
				zap.Int32("partition", m.Partition),
				zap.Int64("offset", m.Offset),
				zap.Error(err),
			)
			sess.MarkMessage(m, "")
			return true
		}

		zlog.Warn("kafka message handling failed, will retry",
			zap.String("topic", m.Topic),
			zap.Int32("partition", m.Partition),
			zap.Int64("offset", m.Offset),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)
		timer := time.NewTimer(backoff)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return false
		}
		if backoff *= 2; backoff > h.maxRetryBackoff {
			backoff = h.maxRetryBackoff
		}
	}
}

func fromConsumerMessage(m *sarama.ConsumerMessage) mq.Message {
	msg := mq.Message{
		Topic:     m.Topic,
		Key:       m.Key,
		Value:     m.Value,
		Timestamp: m.Timestamp,
	}
	if len(m.Headers) > 0 {
		msg.Headers = make(map[string]string, len(m.Headers))
		for _, hdr := range m.Headers {
			if hdr == nil || len(hdr.Key) == 0 {
				continue
			}
			msg.Headers[string(hdr.Key)] = string(hdr.Value)
		}
	}
	return msg
}

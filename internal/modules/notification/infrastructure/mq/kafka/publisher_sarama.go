package kafka

import (
	"context"
	"errors"
	"strings"
	"time"

	"RepairDesk/internal/modules/notification/infrastructure/mq"

	"github.com/IBM/sarama"
)

type PublisherConfig struct {
	Brokers  []string
	ClientID string
}

type saramaPublisher struct {
	p sarama.SyncProducer
}

// NewPublisher 同步幂等生产者，按 key 哈希分区保证同一用户的事件有序
func NewPublisher(cfg PublisherConfig) (mq.Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers is empty")
	}

	sc := sarama.NewConfig()
	sc.Version = sarama.V2_8_0_0
	sc.Producer.Return.Successes = true
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Retry.Max = 5
	sc.Producer.Retry.Backoff = 200 * time.Millisecond
	sc.Producer.Idempotent = true
	sc.Net.MaxOpenRequests = 1
	sc.Producer.Partitioner = sarama.NewHashPartitioner
	sc.ClientID = strings.TrimSpace(cfg.ClientID)

	p, err := sarama.NewSyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, err
	}
	return &saramaPublisher{p: p}, nil
}

func (s *saramaPublisher) Publish(ctx context.Context, msg mq.Message) (mq.PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return mq.PublishResult{}, err
	}
	pm, err := toProducerMessage(msg)
	if err != nil {
		return mq.PublishResult{}, err
	}
	partition, offset, err := s.p.SendMessage(pm)
	if err != nil {
		return mq.PublishResult{}, err
	}
	return mq.PublishResult{Partition: partition, Offset: offset}, nil
}

func (s *saramaPublisher) Close() error {
	if s == nil || s.p == nil {
		return nil
	}
	return s.p.Close()
}

func toProducerMessage(msg mq.Message) (*sarama.ProducerMessage, error) {
	if strings.TrimSpace(msg.Topic) == "" {
		return nil, errors.New("kafka topic is empty")
	}
	pm := &sarama.ProducerMessage{
		Topic:     msg.Topic,
		Value:     sarama.ByteEncoder(msg.Value),
		Timestamp: msg.Timestamp,
	}
	if len(msg.Key) > 0 {
		pm.Key = sarama.ByteEncoder(msg.Key)
	}
	for k, v := range msg.Headers {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		pm.Headers = append(pm.Headers, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}
	return pm, nil
}

package kafka

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/IBM/sarama"
)

type TopicSpec struct {
	Name              string
	Partitions        int32
	ReplicationFactor int16
	Retention         time.Duration
}

// EnsureTopics 创建缺失的 topic，已存在的不做修改
func EnsureTopics(brokers []string, clientID string, specs ...TopicSpec) error {
	if len(brokers) == 0 {
		return errors.New("kafka brokers is empty")
	}

	sc := sarama.NewConfig()
	sc.Version = sarama.V2_8_0_0
	sc.ClientID = strings.TrimSpace(clientID)

	admin, err := sarama.NewClusterAdmin(brokers, sc)
	if err != nil {
		return err
	}
	defer admin.Close()

	existing, err := admin.ListTopics()
	if err != nil {
		return err
	}

	var errs []error
	for _, spec := range specs {
		name := strings.TrimSpace(spec.Name)
		if name == "" {
			errs = append(errs, errors.New("kafka topic is empty"))
			continue
		}
		if _, ok := existing[name]; ok {
			continue
		}
		if err := admin.CreateTopic(name, spec.detail(), false); err != nil && !errors.Is(err, sarama.ErrTopicAlreadyExists) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s TopicSpec) detail() *sarama.TopicDetail {
	partitions := s.Partitions
	if partitions <= 0 {
		partitions = 1
	}
	replication := s.ReplicationFactor
	if replication <= 0 {
		replication = 1
	}
	retention := s.Retention
	if retention <= 0 {
		retention = 7 * 24 * time.Hour
	}
	ms := strconv.FormatInt(retention.Milliseconds(), 10)
	return &sarama.TopicDetail{
		NumPartitions:     partitions,
		ReplicationFactor: replication,
		ConfigEntries:     map[string]*string{"retention.ms": &ms},
	}
}

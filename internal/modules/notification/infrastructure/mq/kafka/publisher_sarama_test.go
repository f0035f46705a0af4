package kafka

import (
	"testing"
	"time"

	"RepairDesk/internal/modules/notification/infrastructure/mq"
)

func TestToProducerMessage(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	pm, err := toProducerMessage(mq.Message{
		Topic:     "notification-events",
		Key:       []byte("user-1"),
		Value:     []byte(`{"id":1}`),
		Headers:   map[string]string{"event_type": "notification.created", " ": "dropped"},
		Timestamp: ts,
	})
	if err != nil {
		t.Fatalf("toProducerMessage: %v", err)
	}
	if pm.Topic != "notification-events" || !pm.Timestamp.Equal(ts) {
		t.Fatalf("message = %+v", pm)
	}
	key, _ := pm.Key.Encode()
	if string(key) != "user-1" {
		t.Fatalf("key = %q", key)
	}
	if len(pm.Headers) != 1 || string(pm.Headers[0].Key) != "event_type" {
		t.Fatalf("headers = %+v", pm.Headers)
	}

	if _, err := toProducerMessage(mq.Message{Topic: "  "}); err == nil {
		t.Fatalf("empty topic accepted")
	}
}

func TestTopicSpecDefaults(t *testing.T) {
	d := TopicSpec{Name: "device-events"}.detail()
	if d.NumPartitions != 1 || d.ReplicationFactor != 1 {
		t.Fatalf("detail = %+v", d)
	}
	if *d.ConfigEntries["retention.ms"] != "604800000" {
		t.Fatalf("retention = %s", *d.ConfigEntries["retention.ms"])
	}
}

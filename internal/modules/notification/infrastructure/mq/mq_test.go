package mq

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestPermanent(t *testing.T) {
	base := errors.New("bad json")
	err := fmt.Errorf("decode device event: %w", Permanent(base))
	if !IsPermanent(err) {
		t.Fatalf("wrapped permanent error not detected")
	}
	if !errors.Is(err, base) {
		t.Fatalf("permanent error does not unwrap to base")
	}
	if IsPermanent(errors.New("timeout")) {
		t.Fatalf("plain error reported as permanent")
	}
	if Permanent(nil) != nil {
		t.Fatalf("Permanent(nil) should be nil")
	}
}

func TestHandlerFunc(t *testing.T) {
	var got string
	var h Handler = HandlerFunc(func(ctx context.Context, msg Message) error {
		got = string(msg.Value)
		return nil
	})
	if err := h.Handle(context.Background(), Message{Value: []byte("ping")}); err != nil || got != "ping" {
		t.Fatalf("Handle = %v, got %q", err, got)
	}
}

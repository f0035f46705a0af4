package channel

import (
	"context"
	"errors"
	"testing"

	"RepairDesk/internal/config"
	"RepairDesk/internal/modules/messaging/domain/entity"

	"gopkg.in/gomail.v2"
)

type fakeMailSender struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeMailSender) DialAndSend(m ...*gomail.Message) error {
	f.sent = append(f.sent, m...)
	return f.err
}

func TestSMTPAdapterDisabledWithoutHost(t *testing.T) {
	a := NewSMTPEmailAdapter(config.SMTPConfig{From: "noreply@example.com"})
	_ = a.Init(context.Background())
	if a.IsEnabled() || !a.IsReady() {
		t.Fatalf("enabled=%v ready=%v", a.IsEnabled(), a.IsReady())
	}
	if err := a.Send(context.Background(), &entity.QueuedMessage{Destination: "a@b.c"}); err != nil {
		t.Fatalf("disabled send should succeed: %v", err)
	}
}

func TestSMTPAdapterSend(t *testing.T) {
	a := NewSMTPEmailAdapter(config.SMTPConfig{Host: "smtp.example.com", Port: 587, From: "noreply@example.com"})
	fake := &fakeMailSender{}
	a.sender = fake
	_ = a.Init(context.Background())

	msg := &entity.QueuedMessage{Destination: "tech@example.com", Subject: "Low stock", Body: "<b>3 left</b>"}
	if err := a.Send(context.Background(), msg); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(fake.sent) != 1 {
		t.Fatalf("expected one mail, got %d", len(fake.sent))
	}
	m := fake.sent[0]
	if got := m.GetHeader("To"); len(got) != 1 || got[0] != "tech@example.com" {
		t.Fatalf("To header %v", got)
	}
	if got := m.GetHeader("Subject"); len(got) != 1 || got[0] != "Low stock" {
		t.Fatalf("Subject header %v", got)
	}

	fake.err = errors.New("connection refused")
	if err := a.Send(context.Background(), msg); err == nil {
		t.Fatal("expected smtp error")
	}
}

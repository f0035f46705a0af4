package channel

import (
	"context"
	"errors"
	"testing"

	"RepairDesk/internal/modules/messaging/domain/entity"
	settingEntity "RepairDesk/internal/modules/setting/domain/entity"

	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

type mapSettings map[string]string

func (m mapSettings) Lookup(_ context.Context, key, _ string) string {
	return m[key]
}

type fakeCreator struct {
	params []*twilioApi.CreateMessageParams
	err    error
}

func (f *fakeCreator) CreateMessage(p *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.params = append(f.params, p)
	if f.err != nil {
		return nil, f.err
	}
	sid := "SM123"
	return &twilioApi.ApiV2010Message{Sid: &sid}, nil
}

func fullSettings() mapSettings {
	return mapSettings{
		settingEntity.KeyTwilioAccountSID:  "AC123",
		settingEntity.KeyTwilioAuthToken:   "secret",
		settingEntity.KeyTwilioPhoneNumber: "+15550001111",
	}
}

func TestTwilioAdapterNotReadyBeforeInit(t *testing.T) {
	a := NewTwilioSMSAdapter(fullSettings())
	if a.IsReady() {
		t.Fatal("adapter must not be ready before Init")
	}
}

func TestTwilioAdapterDisabledWhenCredentialMissing(t *testing.T) {
	for _, missing := range []string{
		settingEntity.KeyTwilioAccountSID,
		settingEntity.KeyTwilioAuthToken,
		settingEntity.KeyTwilioPhoneNumber,
	} {
		s := fullSettings()
		delete(s, missing)
		creator := &fakeCreator{}
		a := NewTwilioSMSAdapter(s)
		a.newClient = func(string, string) messageCreator { return creator }
		if err := a.Init(context.Background()); err != nil {
			t.Fatalf("init: %v", err)
		}
		if a.IsEnabled() {
			t.Fatalf("adapter should be disabled without %s", missing)
		}
		if !a.IsReady() {
			t.Fatal("disabled adapter is still ready")
		}
		if err := a.Send(context.Background(), &entity.QueuedMessage{Destination: "+251912345678", Body: "hi"}); err != nil {
			t.Fatalf("disabled send must be a no-op success: %v", err)
		}
		if len(creator.params) != 0 {
			t.Fatal("disabled adapter must not call the gateway")
		}
	}
}

func TestTwilioAdapterSend(t *testing.T) {
	creator := &fakeCreator{}
	a := NewTwilioSMSAdapter(fullSettings())
	var gotSID, gotToken string
	a.newClient = func(sid, token string) messageCreator {
		gotSID, gotToken = sid, token
		return creator
	}
	if err := a.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	if gotSID != "AC123" || gotToken != "secret" {
		t.Fatalf("client built with %q/%q", gotSID, gotToken)
	}

	err := a.Send(context.Background(), &entity.QueuedMessage{Id: 7, Destination: "+251912345678", Body: "ready"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(creator.params) != 1 {
		t.Fatalf("expected one gateway call, got %d", len(creator.params))
	}
	p := creator.params[0]
	if *p.To != "+251912345678" || *p.From != "+15550001111" || *p.Body != "ready" {
		t.Fatalf("unexpected params to=%s from=%s body=%s", *p.To, *p.From, *p.Body)
	}

	creator.err = errors.New("rate limited")
	if err := a.Send(context.Background(), &entity.QueuedMessage{Destination: "+1", Body: "x"}); err == nil {
		t.Fatal("gateway error should be returned")
	}
}

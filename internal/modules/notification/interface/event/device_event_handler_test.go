package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	msgEntity "RepairDesk/internal/modules/messaging/domain/entity"
	"RepairDesk/internal/modules/messaging/domain/sms"
	"RepairDesk/internal/modules/notification/application/dto/request"
	"RepairDesk/internal/modules/notification/application/dto/respond"
	"RepairDesk/internal/modules/notification/application/service"
	"RepairDesk/internal/modules/notification/domain/entity"
	"RepairDesk/internal/modules/notification/infrastructure/mq"
	repairEntity "RepairDesk/internal/modules/repair/domain/entity"
)

type fakeDevices struct {
	detail *repairEntity.DeviceDetail
	err    error
}

func (f *fakeDevices) GetDeviceDetail(ctx context.Context, id int64) (*repairEntity.DeviceDetail, error) {
	return f.detail, f.err
}

type fakeNotifier struct {
	reqs []request.DeviceNotificationRequest
	err  error
}

func (f *fakeNotifier) CreateDeviceNotification(ctx context.Context, req request.DeviceNotificationRequest) (*respond.CreateNotificationRespond, error) {
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return nil, f.err
	}
	return &respond.CreateNotificationRespond{Notification: respond.NotificationItem{Id: int64(len(f.reqs))}}, nil
}

type fakeMessenger struct {
	kinds []string
	infos []sms.DeviceInfo
}

func (f *fakeMessenger) record(kind string, d sms.DeviceInfo) (*msgEntity.QueuedMessage, error) {
	f.kinds = append(f.kinds, kind)
	f.infos = append(f.infos, d)
	return &msgEntity.QueuedMessage{MessageKind: kind}, nil
}

func (f *fakeMessenger) EnqueueDeviceRegistered(ctx context.Context, phone string, d sms.DeviceInfo) (*msgEntity.QueuedMessage, error) {
	return f.record(msgEntity.KindRegistration, d)
}

func (f *fakeMessenger) EnqueueStatusChanged(ctx context.Context, phone string, d sms.DeviceInfo) (*msgEntity.QueuedMessage, error) {
	return f.record(msgEntity.KindStatusUpdate, d)
}

func (f *fakeMessenger) EnqueueReadyForPickup(ctx context.Context, phone string, d sms.DeviceInfo) (*msgEntity.QueuedMessage, error) {
	return f.record(msgEntity.KindReadyForPickup, d)
}

func (f *fakeMessenger) EnqueueDelivered(ctx context.Context, phone string, d sms.DeviceInfo) (*msgEntity.QueuedMessage, error) {
	return f.record(msgEntity.KindDelivered, d)
}

func device() *repairEntity.DeviceDetail {
	return &repairEntity.DeviceDetail{
		DeviceId:      7,
		TicketNumber:  "RD-7",
		Status:        "in_repair",
		AssignedTo:    "tech-1",
		CustomerName:  "Hana",
		CustomerPhone: "0912345678",
		Brand:         "Apple",
		Model:         "iPhone 12",
	}
}

func message(t *testing.T, ev DeviceEvent) mq.Message {
	t.Helper()
	b, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return mq.Message{Topic: "device-events", Value: b}
}

func TestHandle_RoutesByEventAndStatus(t *testing.T) {
	cases := []struct {
		name     string
		ev       DeviceEvent
		wantType string
		wantKind string
	}{
		{"registered", DeviceEvent{EventType: EventDeviceRegistered, DeviceId: 7}, entity.TypeDeviceRegistered, msgEntity.KindRegistration},
		{"status", DeviceEvent{EventType: EventDeviceStatusChanged, DeviceId: 7, Status: "in_repair"}, entity.TypeDeviceStatusChanged, msgEntity.KindStatusUpdate},
		{"ready", DeviceEvent{EventType: EventDeviceStatusChanged, DeviceId: 7, Status: StatusReadyForPickup}, entity.TypeDeviceReadyForPickup, msgEntity.KindReadyForPickup},
		{"delivered", DeviceEvent{EventType: EventDeviceStatusChanged, DeviceId: 7, Status: StatusDelivered}, entity.TypeDeviceStatusChanged, msgEntity.KindDelivered},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			notifier := &fakeNotifier{}
			messenger := &fakeMessenger{}
			h := NewDeviceEventHandler(&fakeDevices{detail: device()}, notifier, messenger)

			if err := h.Handle(context.Background(), message(t, tc.ev)); err != nil {
				t.Fatalf("Handle: %v", err)
			}
			if len(notifier.reqs) != 1 || notifier.reqs[0].TypeName != tc.wantType {
				t.Fatalf("notifications = %+v, want type %s", notifier.reqs, tc.wantType)
			}
			if len(messenger.kinds) != 1 || messenger.kinds[0] != tc.wantKind {
				t.Fatalf("sms kinds = %v, want %s", messenger.kinds, tc.wantKind)
			}
		})
	}
}

func TestHandle_ReadyForPickupIsHighPriority(t *testing.T) {
	notifier := &fakeNotifier{}
	h := NewDeviceEventHandler(&fakeDevices{detail: device()}, notifier, &fakeMessenger{})
	ev := DeviceEvent{EventType: EventDeviceStatusChanged, DeviceId: 7, Status: StatusReadyForPickup, PreviousStatus: "repaired", SenderId: "desk-1"}
	if err := h.Handle(context.Background(), message(t, ev)); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	req := notifier.reqs[0]
	if req.Priority != entity.PriorityHigh || req.SenderId == nil || *req.SenderId != "desk-1" {
		t.Fatalf("request = %+v", req)
	}
	if req.Extra["previous_status"] != "repaired" || req.Extra["status_text"] != "is ready for pickup" {
		t.Fatalf("extra = %v", req.Extra)
	}
}

func TestHandle_Errors(t *testing.T) {
	ctx := context.Background()

	h := NewDeviceEventHandler(&fakeDevices{detail: device()}, &fakeNotifier{}, &fakeMessenger{})
	if err := h.Handle(ctx, mq.Message{Value: []byte("{not json")}); !mq.IsPermanent(err) {
		t.Fatalf("bad json err = %v, want permanent", err)
	}
	if err := h.Handle(ctx, message(t, DeviceEvent{EventType: "device.deleted", DeviceId: 7})); err != nil {
		t.Fatalf("unknown event err = %v", err)
	}

	missing := NewDeviceEventHandler(&fakeDevices{}, &fakeNotifier{}, &fakeMessenger{})
	if err := missing.Handle(ctx, message(t, DeviceEvent{EventType: EventDeviceRegistered, DeviceId: 99})); !mq.IsPermanent(err) {
		t.Fatalf("missing device err = %v, want permanent", err)
	}

	dbDown := NewDeviceEventHandler(&fakeDevices{err: errors.New("db down")}, &fakeNotifier{}, &fakeMessenger{})
	if err := dbDown.Handle(ctx, message(t, DeviceEvent{EventType: EventDeviceRegistered, DeviceId: 7})); err == nil || mq.IsPermanent(err) {
		t.Fatalf("lookup failure err = %v, want transient", err)
	}
}

func TestHandle_SideEffectFailuresAreAcked(t *testing.T) {
	d := device()
	d.CustomerPhone = ""
	notifier := &fakeNotifier{err: service.ErrRecipientRequired}
	messenger := &fakeMessenger{}
	h := NewDeviceEventHandler(&fakeDevices{detail: d}, notifier, messenger)

	if err := h.Handle(context.Background(), message(t, DeviceEvent{EventType: EventDeviceRegistered, DeviceId: 7})); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(messenger.kinds) != 0 {
		t.Fatalf("sms sent to customer without phone")
	}
}

package sms

import (
	"strings"
	"testing"
)

func sampleDevice() DeviceInfo {
	return DeviceInfo{
		CustomerName: "Abebe",
		TicketNumber: "T-1001",
		DeviceType:   "Laptop",
		Brand:        "Lenovo",
		Model:        "T480",
		Status:       "in_repair",
		ShopName:     "FixIt",
	}
}

func TestRenderRegistration(t *testing.T) {
	got := RenderRegistration(sampleDevice())
	want := "Hello Abebe, your Lenovo T480 Laptop has been registered at FixIt. Ticket: T-1001. We will notify you about its progress."
	if got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}

func TestRenderStatusChangeUsesPhrase(t *testing.T) {
	d := sampleDevice()
	for status, phrase := range statusPhrases {
		d.Status = status
		if got := RenderStatusChange(d); !strings.Contains(got, phrase) {
			t.Errorf("status %s: %q does not contain %q", status, got, phrase)
		}
	}
}

func TestStatusPhraseUnknown(t *testing.T) {
	if got := StatusPhrase("quality_check"); got != "status was updated to quality check" {
		t.Fatalf("unexpected phrase %q", got)
	}
	if got := StatusPhrase(" READY_FOR_PICKUP "); got != statusPhrases["ready_for_pickup"] {
		t.Fatalf("expected case-insensitive lookup, got %q", got)
	}
}

func TestRenderFallbacks(t *testing.T) {
	got := RenderReadyForPickup(DeviceInfo{})
	want := "Hello customer, good news! Your device (ticket N/A) is ready for pickup at our shop."
	if got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
	if got := RenderDelivered(sampleDevice()); !strings.HasSuffix(got, "Thank you for choosing FixIt.") {
		t.Fatalf("unexpected delivered text %q", got)
	}
}

func TestRenderIsPure(t *testing.T) {
	d := sampleDevice()
	if RenderStatusChange(d) != RenderStatusChange(d) {
		t.Fatal("render should be deterministic")
	}
}

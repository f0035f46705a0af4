package sms

import (
	"fmt"
	"strings"
)

// DeviceInfo 渲染短信所需的设备信息
type DeviceInfo struct {
	CustomerName string
	TicketNumber string
	DeviceType   string
	Brand        string
	Model        string
	Status       string
	ShopName     string
}

var statusPhrases = map[string]string{
	"received":         "has been received and is waiting for diagnosis",
	"diagnosing":       "is being diagnosed by our technicians",
	"waiting_parts":    "is waiting for replacement parts",
	"in_repair":        "is currently being repaired",
	"repaired":         "has been repaired and is going through final checks",
	"ready_for_pickup": "is ready for pickup",
	"delivered":        "has been delivered",
	"cancelled":        "repair has been cancelled",
}

// StatusPhrase 未知状态退化为 "status updated to <status>"
func StatusPhrase(status string) string {
	key := strings.ToLower(strings.TrimSpace(status))
	if p, ok := statusPhrases[key]; ok {
		return p
	}
	return "status was updated to " + strings.ReplaceAll(key, "_", " ")
}

func RenderRegistration(d DeviceInfo) string {
	return fmt.Sprintf("Hello %s, your %s has been registered at %s. Ticket: %s. We will notify you about its progress.",
		customer(d), deviceLabel(d), shop(d), ticket(d))
}

func RenderStatusChange(d DeviceInfo) string {
	return fmt.Sprintf("Hello %s, your %s (ticket %s) %s. - %s",
		customer(d), deviceLabel(d), ticket(d), StatusPhrase(d.Status), shop(d))
}

func RenderReadyForPickup(d DeviceInfo) string {
	return fmt.Sprintf("Hello %s, good news! Your %s (ticket %s) is ready for pickup at %s.",
		customer(d), deviceLabel(d), ticket(d), shop(d))
}

func RenderDelivered(d DeviceInfo) string {
	return fmt.Sprintf("Hello %s, your %s (ticket %s) has been delivered. Thank you for choosing %s.",
		customer(d), deviceLabel(d), ticket(d), shop(d))
}

func deviceLabel(d DeviceInfo) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{d.Brand, d.Model, d.DeviceType} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "device"
	}
	return strings.Join(parts, " ")
}

func customer(d DeviceInfo) string {
	if s := strings.TrimSpace(d.CustomerName); s != "" {
		return s
	}
	return "customer"
}

func ticket(d DeviceInfo) string {
	if s := strings.TrimSpace(d.TicketNumber); s != "" {
		return s
	}
	return "N/A"
}

func shop(d DeviceInfo) string {
	if s := strings.TrimSpace(d.ShopName); s != "" {
		return s
	}
	return "our shop"
}

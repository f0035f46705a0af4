package service

import (
	"context"
	"fmt"

	"RepairDesk/internal/modules/notification/domain/entity"
	"RepairDesk/internal/modules/notification/domain/repository"
	"RepairDesk/pkg/zlog"

	"go.uber.org/zap"
)

type catalogEntry struct {
	Type     entity.NotificationType
	Template entity.NotificationTemplate
}

func strPtr(s string) *string { return &s }

// 门店内置的通知类型；已存在的类型不会被覆盖
var defaultCatalog = []catalogEntry{
	{
		Type: entity.NotificationType{Name: entity.TypeDeviceRegistered, DisplayName: "Device registered", Category: "device", Description: "A device was checked in and assigned"},
		Template: entity.NotificationTemplate{
			Title:        "New device {{ticket_number}}",
			Message:      "{{brand}} {{model}} for {{customer_name}} was registered and assigned to you.",
			EmailSubject: strPtr("New repair ticket {{ticket_number}}"),
			EmailBody:    strPtr("A {{device_type}} ({{brand}} {{model}}) for {{customer_name}} was registered under ticket {{ticket_number}}."),
			SmsMessage:   strPtr("New repair ticket {{ticket_number}}: {{brand}} {{model}} for {{customer_name}}."),
		},
	},
	{
		Type: entity.NotificationType{Name: entity.TypeDeviceStatusChanged, DisplayName: "Device status changed", Category: "device", Description: "A device moved to a new repair status"},
		Template: entity.NotificationTemplate{
			Title:        "Ticket {{ticket_number}} updated",
			Message:      "{{brand}} {{model}} is now {{status_text}}.",
			EmailSubject: strPtr("Ticket {{ticket_number}} status update"),
			EmailBody:    strPtr("The {{device_type}} for {{customer_name}} is now {{status_text}}."),
		},
	},
	{
		Type: entity.NotificationType{Name: entity.TypeDeviceReadyForPickup, DisplayName: "Ready for pickup", Category: "device", Description: "Repair finished and waiting for the customer"},
		Template: entity.NotificationTemplate{
			Title:   "Ticket {{ticket_number}} ready for pickup",
			Message: "{{customer_name}} can collect the {{brand}} {{model}}.",
		},
	},
	{
		Type: entity.NotificationType{Name: entity.TypeLowStock, DisplayName: "Low stock", Category: "inventory", Description: "An inventory item fell to its reorder level"},
		Template: entity.NotificationTemplate{
			Title:        "Low stock: {{item_name}}",
			Message:      "Only {{quantity}} left of {{item_name}} ({{sku}}); reorder level is {{reorder_level}}.",
			EmailSubject: strPtr("Low stock alert: {{item_name}}"),
			EmailBody:    strPtr("{{item_name}} ({{sku}}) is down to {{quantity}} units. Reorder level is {{reorder_level}}."),
			SmsMessage:   strPtr("Low stock: {{item_name}} has {{quantity}} left."),
		},
	},
	{
		Type: entity.NotificationType{Name: entity.TypeCustomerFeedback, DisplayName: "Customer feedback", Category: "customer", Description: "A customer rated a finished repair"},
		Template: entity.NotificationTemplate{
			Title:   "New feedback ({{rating}}/5)",
			Message: "{{customer_name}}: {{comment}}",
		},
	},
}

// CatalogService 负责写入内置通知类型
type CatalogService struct {
	repo repository.NotificationTypeRepository
}

func NewCatalogService(repo repository.NotificationTypeRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// Seed 幂等，返回新建的类型数
func (c *CatalogService) Seed(ctx context.Context) (int, error) {
	created := 0
	for _, e := range defaultCatalog {
		t := e.Type
		t.IsActive = true
		tpl := e.Template
		tpl.IsActive = true
		ok, err := c.repo.EnsureType(ctx, &t, &tpl)
		if err != nil {
			return created, fmt.Errorf("seed notification type %q: %w", t.Name, err)
		}
		if ok {
			created++
		}
	}
	zlog.Info("notification catalog seeded", zap.Int("created", created), zap.Int("total", len(defaultCatalog)))
	return created, nil
}

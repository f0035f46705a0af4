package service

import (
	"context"
	"fmt"
	"strings"

	"RepairDesk/internal/modules/messaging/domain/sms"
	"RepairDesk/internal/modules/notification/application/dto/request"
	"RepairDesk/internal/modules/notification/application/dto/respond"
	"RepairDesk/internal/modules/notification/domain/entity"
	"RepairDesk/pkg/xerr"
)

const (
	RelatedDevice    = "device"
	RelatedInventory = "inventory_item"
	RelatedFeedback  = "customer_feedback"
)

var (
	ErrDeviceNotFound    = xerr.New(xerr.NotFound, "device not found")
	ErrInventoryNotFound = xerr.New(xerr.NotFound, "inventory item not found")
	ErrFeedbackNotFound  = xerr.New(xerr.NotFound, "customer feedback not found")
)

// CreateDeviceNotification 补全设备、客户等信息后创建通知；未指定接收人时发给负责技术员
func (s *notificationServiceImpl) CreateDeviceNotification(ctx context.Context, req request.DeviceNotificationRequest) (*respond.CreateNotificationRespond, error) {
	d, err := s.Repair.GetDeviceDetail(ctx, req.DeviceId)
	if err != nil {
		return nil, fmt.Errorf("get device %d: %w", req.DeviceId, err)
	}
	if d == nil {
		return nil, ErrDeviceNotFound
	}
	recipient := strings.TrimSpace(req.RecipientId)
	if recipient == "" {
		recipient = d.AssignedTo
	}
	if recipient == "" {
		return nil, ErrRecipientRequired
	}

	data := map[string]any{
		"device_id":      d.DeviceId,
		"ticket_number":  d.TicketNumber,
		"serial_number":  d.SerialNumber,
		"status":         d.Status,
		"status_text":    sms.StatusPhrase(d.Status),
		"customer_id":    d.CustomerId,
		"customer_name":  d.CustomerName,
		"customer_phone": d.CustomerPhone,
		"device_type":    d.DeviceType,
		"brand":          d.Brand,
		"model":          d.Model,
		"service_type":   d.ServiceType,
	}
	for k, v := range req.Extra {
		data[k] = v
	}

	related := RelatedDevice
	id := d.DeviceId
	return s.CreateNotification(ctx, request.CreateNotificationRequest{
		TypeName:          req.TypeName,
		RecipientId:       recipient,
		Title:             req.Title,
		Message:           req.Message,
		Data:              data,
		Priority:          req.Priority,
		SenderId:          req.SenderId,
		RelatedEntityType: &related,
		RelatedEntityId:   &id,
	})
}

// CreateInventoryNotification 库存为 0 时优先级为 urgent，否则 high
func (s *notificationServiceImpl) CreateInventoryNotification(ctx context.Context, req request.InventoryNotificationRequest) (*respond.CreateNotificationRespond, error) {
	item, err := s.Repair.GetInventoryItem(ctx, req.ItemId)
	if err != nil {
		return nil, fmt.Errorf("get inventory item %d: %w", req.ItemId, err)
	}
	if item == nil {
		return nil, ErrInventoryNotFound
	}
	typeName := req.TypeName
	if typeName == "" {
		typeName = entity.TypeLowStock
	}
	priority := req.Priority
	if priority == "" {
		priority = entity.PriorityHigh
		if item.Quantity <= 0 {
			priority = entity.PriorityUrgent
		}
	}

	related := RelatedInventory
	id := item.Id
	return s.CreateNotification(ctx, request.CreateNotificationRequest{
		TypeName:    typeName,
		RecipientId: req.RecipientId,
		Data: map[string]any{
			"item_id":       item.Id,
			"item_name":     item.Name,
			"sku":           item.Sku,
			"category":      item.Category,
			"quantity":      item.Quantity,
			"reorder_level": item.ReorderLevel,
		},
		Priority:          priority,
		SenderId:          req.SenderId,
		RelatedEntityType: &related,
		RelatedEntityId:   &id,
	})
}

// CreateCustomerFeedbackNotification 两星及以下的评价标记为 high
func (s *notificationServiceImpl) CreateCustomerFeedbackNotification(ctx context.Context, req request.FeedbackNotificationRequest) (*respond.CreateNotificationRespond, error) {
	fb, err := s.Repair.GetFeedbackDetail(ctx, req.FeedbackId)
	if err != nil {
		return nil, fmt.Errorf("get feedback %d: %w", req.FeedbackId, err)
	}
	if fb == nil {
		return nil, ErrFeedbackNotFound
	}
	typeName := req.TypeName
	if typeName == "" {
		typeName = entity.TypeCustomerFeedback
	}
	priority := entity.PriorityNormal
	if fb.Rating <= 2 {
		priority = entity.PriorityHigh
	}

	data := map[string]any{
		"feedback_id":   fb.FeedbackId,
		"rating":        fb.Rating,
		"comment":       fb.Comment,
		"customer_id":   fb.CustomerId,
		"customer_name": fb.CustomerName,
		"ticket_number": fb.TicketNumber,
	}
	if fb.DeviceId != nil {
		data["device_id"] = *fb.DeviceId
	}

	related := RelatedFeedback
	id := fb.FeedbackId
	return s.CreateNotification(ctx, request.CreateNotificationRequest{
		TypeName:          typeName,
		RecipientId:       req.RecipientId,
		Data:              data,
		Priority:          priority,
		SenderId:          req.SenderId,
		RelatedEntityType: &related,
		RelatedEntityId:   &id,
	})
}

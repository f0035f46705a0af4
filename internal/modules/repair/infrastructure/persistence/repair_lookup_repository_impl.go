package persistence

import (
	"context"
	"errors"

	"RepairDesk/internal/modules/repair/domain/entity"
	"RepairDesk/internal/modules/repair/domain/repository"

	"gorm.io/gorm"
)

type repairLookupRepositoryImpl struct {
	db *gorm.DB
}

func NewRepairLookupRepository(db *gorm.DB) repository.RepairLookupRepository {
	return &repairLookupRepositoryImpl{db: db}
}

func (r *repairLookupRepositoryImpl) GetDeviceDetail(ctx context.Context, deviceID int64) (*entity.DeviceDetail, error) {
	var rows []entity.DeviceDetail
	err := r.db.WithContext(ctx).
		Table("devices AS d").
		Select(`d.id AS device_id, d.ticket_number, d.serial_number, d.status, d.assigned_to,
			d.customer_id, COALESCE(c.full_name, '') AS customer_name, COALESCE(c.phone, '') AS customer_phone,
			COALESCE(c.email, '') AS customer_email, COALESCE(dt.name, '') AS device_type,
			COALESCE(b.name, '') AS brand, COALESCE(m.name, '') AS model, COALESCE(st.name, '') AS service_type`).
		Joins("LEFT JOIN customers c ON c.id = d.customer_id").
		Joins("LEFT JOIN device_types dt ON dt.id = d.device_type_id").
		Joins("LEFT JOIN brands b ON b.id = d.brand_id").
		Joins("LEFT JOIN device_models m ON m.id = d.model_id").
		Joins("LEFT JOIN service_types st ON st.id = d.service_type_id").
		Where("d.id = ?", deviceID).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *repairLookupRepositoryImpl) GetInventoryItem(ctx context.Context, itemID int64) (*entity.InventoryItem, error) {
	var item entity.InventoryItem
	err := r.db.WithContext(ctx).Where("id = ?", itemID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *repairLookupRepositoryImpl) GetFeedbackDetail(ctx context.Context, feedbackID int64) (*entity.FeedbackDetail, error) {
	var rows []entity.FeedbackDetail
	err := r.db.WithContext(ctx).
		Table("customer_feedback AS f").
		Select(`f.id AS feedback_id, f.rating, f.comment, f.customer_id, COALESCE(c.full_name, '') AS customer_name,
			f.device_id, COALESCE(d.ticket_number, '') AS ticket_number`).
		Joins("LEFT JOIN customers c ON c.id = f.customer_id").
		Joins("LEFT JOIN devices d ON d.id = f.device_id").
		Where("f.id = ?", feedbackID).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

package persistence

import (
	"context"
	"time"

	"RepairDesk/internal/modules/notification/domain/entity"
	"RepairDesk/internal/modules/notification/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var preferenceConflictColumns = []clause.Column{{Name: "user_id"}, {Name: "type_id"}}

type preferenceRepositoryImpl struct {
	db *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) repository.PreferenceRepository {
	return &preferenceRepositoryImpl{db: db}
}

func (r *preferenceRepositoryImpl) GetOrCreateDefault(ctx context.Context, userID string, typeID int64) (*entity.NotificationPreference, error) {
	pref := entity.DefaultPreference(userID, typeID)
	pref.UpdatedAt = time.Now()
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: preferenceConflictColumns, DoNothing: true}).
		Create(&pref).Error
	if err != nil {
		return nil, err
	}
	return r.get(ctx, userID, typeID)
}

func (r *preferenceRepositoryImpl) Upsert(ctx context.Context, userID string, typeID int64, patch entity.PreferencePatch) (*entity.NotificationPreference, error) {
	pref := entity.DefaultPreference(userID, typeID)
	cols := patch.Apply(&pref)
	pref.UpdatedAt = time.Now()

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   preferenceConflictColumns,
			DoUpdates: clause.AssignmentColumns(append(cols, "updated_at")),
		}).
		Create(&pref).Error
	if err != nil {
		return nil, err
	}
	return r.get(ctx, userID, typeID)
}

func (r *preferenceRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]repository.PreferenceView, error) {
	var rows []repository.PreferenceView
	err := r.db.WithContext(ctx).
		Table("notification_preferences AS p").
		Select(`p.id, p.user_id, p.type_id, p.enabled, p.email_enabled, p.sms_enabled, p.push_enabled,
			p.in_app_enabled, p.updated_at, t.name AS type_name, t.display_name AS type_display_name,
			t.category AS type_category`).
		Joins("LEFT JOIN notification_types t ON t.id = p.type_id").
		Where("p.user_id = ?", userID).
		Order("p.type_id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *preferenceRepositoryImpl) get(ctx context.Context, userID string, typeID int64) (*entity.NotificationPreference, error) {
	var pref entity.NotificationPreference
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND type_id = ?", userID, typeID).
		First(&pref).Error
	if err != nil {
		return nil, err
	}
	return &pref, nil
}


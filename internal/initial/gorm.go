package initial

import (
	"fmt"
	"log"
	"os"
	"time"

	"RepairDesk/internal/config"
	msgEntity "RepairDesk/internal/modules/messaging/domain/entity"
	notifEntity "RepairDesk/internal/modules/notification/domain/entity"
	repairEntity "RepairDesk/internal/modules/repair/domain/entity"
	settingEntity "RepairDesk/internal/modules/setting/domain/entity"
	userEntity "RepairDesk/internal/modules/user/domain/entity"
	"RepairDesk/pkg/zlog"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewGormDB 配置了 mysql host 时连 MySQL，否则使用本地 sqlite 文件（开发环境）
func NewGormDB(conf *config.Config) (*gorm.DB, error) {
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	var dialector gorm.Dialector
	mc := conf.MysqlConfig
	if mc.Host == "" {
		file := mc.DatabaseName + ".db"
		zlog.Warn("mysql not configured, using sqlite", zap.String("file", file))
		dialector = sqlite.Open(file + "?_busy_timeout=5000&_foreign_keys=on")
	} else {
		port := mc.Port
		if port == 0 {
			port = 3306
		}
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local", mc.User, mc.Password, mc.Host, port, mc.DatabaseName)
		dialector = mysql.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if mc.Host != "" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}
	return db, nil
}

// AutoMigrate 自动迁移，如果没有建表，会自动创建对应的表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userEntity.UserInfo{},
		&settingEntity.AppSetting{},

		&repairEntity.Customer{},
		&repairEntity.DeviceType{},
		&repairEntity.Brand{},
		&repairEntity.DeviceModel{},
		&repairEntity.ServiceType{},
		&repairEntity.Device{},
		&repairEntity.InventoryItem{},
		&repairEntity.CustomerFeedback{},

		&msgEntity.QueuedMessage{},

		&notifEntity.NotificationType{},
		&notifEntity.NotificationTemplate{},
		&notifEntity.Notification{},
		&notifEntity.NotificationPreference{},
	)
}

package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"RepairDesk/internal/config"
	"RepairDesk/internal/initial"
	msgService "RepairDesk/internal/modules/messaging/application/service"
	"RepairDesk/internal/modules/messaging/domain/channel"
	"RepairDesk/internal/modules/messaging/domain/sms"
	msgChannel "RepairDesk/internal/modules/messaging/infrastructure/channel"
	msgPersistence "RepairDesk/internal/modules/messaging/infrastructure/persistence"
	msgHandler "RepairDesk/internal/modules/messaging/interface/http"
	notifService "RepairDesk/internal/modules/notification/application/service"
	"RepairDesk/internal/modules/notification/infrastructure/cache"
	"RepairDesk/internal/modules/notification/infrastructure/eventbus"
	"RepairDesk/internal/modules/notification/infrastructure/mq"
	"RepairDesk/internal/modules/notification/infrastructure/mq/kafka"
	notifPersistence "RepairDesk/internal/modules/notification/infrastructure/persistence"
	"RepairDesk/internal/modules/notification/interface/event"
	notifHandler "RepairDesk/internal/modules/notification/interface/http"
	"RepairDesk/internal/modules/notification/interface/scheduler"
	repairPersistence "RepairDesk/internal/modules/repair/infrastructure/persistence"
	settingService "RepairDesk/internal/modules/setting/application/service"
	settingPersistence "RepairDesk/internal/modules/setting/infrastructure/persistence"
	settingHandler "RepairDesk/internal/modules/setting/interface/http"
	userRepository "RepairDesk/internal/modules/user/domain/repository"
	userPersistence "RepairDesk/internal/modules/user/infrastructure/persistence"
	myredis "RepairDesk/pkg/redis"
	"RepairDesk/pkg/util/myjwt"
	"RepairDesk/pkg/ws"
	"RepairDesk/pkg/zlog"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Handlers struct {
	Notification *notifHandler.NotificationHandler
	Ws           *notifHandler.WsHandler
	QueueAdmin   *msgHandler.QueueAdminHandler
	Setting      *settingHandler.SettingHandler
}

// App 进程内所有长生命周期组件
type App struct {
	Conf     *config.Config
	DB       *gorm.DB
	Hub      *ws.Hub
	Signer   *myjwt.Signer
	Users    userRepository.UserInfoRepository
	Handlers Handlers

	processor *msgService.QueueProcessor
	scheduler *scheduler.SchedulerManager
	publisher mq.Publisher
	worker    *event.DeviceEventWorker

	workerCancel context.CancelFunc
	workerDone   chan struct{}
}

// New 打开存储、构建各模块并完成依赖注入；Kafka 与 Redis 均为可选
func New(ctx context.Context, conf *config.Config) (*App, error) {
	db, err := initial.NewGormDB(conf)
	if err != nil {
		return nil, err
	}
	if err := initial.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	initial.InitRedis(conf.RedisConfig)

	signer, err := myjwt.New(conf.JwtConfig.Key, conf.JwtConfig.Issuer, conf.JwtConfig.ExpireHours)
	if err != nil {
		return nil, err
	}

	app := &App{Conf: conf, DB: db, Hub: ws.NewHub(), Signer: signer}

	// 仓储
	app.Users = userPersistence.NewUserInfoRepository(db)
	repairRepo := repairPersistence.NewRepairLookupRepository(db)
	queueRepo := msgPersistence.NewMessageQueueRepository(db)
	typeRepo := notifPersistence.NewNotificationTypeRepository(db)

	// 投递通道
	settings := settingService.NewSettingService(settingPersistence.NewAppSettingRepository(db))
	smsAdapter := msgChannel.NewTwilioSMSAdapter(settings)
	emailAdapter := msgChannel.NewSMTPEmailAdapter(conf.SMTPConfig)
	for _, a := range []interface {
		channel.Adapter
		Init(context.Context) error
	}{smsAdapter, emailAdapter} {
		if err := a.Init(ctx); err != nil {
			zlog.Warn("channel init failed", zap.String("channel", a.Channel()), zap.Error(err))
		}
	}

	app.processor = msgService.NewQueueProcessor(queueRepo, conf.QueueConfig.BatchSize, smsAdapter, emailAdapter)
	outbound := msgService.NewOutboundService(
		queueRepo,
		sms.Normalizer{
			DefaultCountryCode: conf.SMSConfig.DefaultCountryCode,
			RegionCountryCode:  conf.SMSConfig.RegionCountryCode,
			MobilePrefixes:     conf.SMSConfig.MobilePrefixes,
		},
		conf.QueueConfig.DefaultMaxAttempts,
		conf.SMSConfig.ShopName,
	)

	if conf.NotificationConfig.SeedCatalog {
		if _, err := notifService.NewCatalogService(typeRepo).Seed(ctx); err != nil {
			return nil, err
		}
	}

	deps := notifService.Deps{
		Types:         typeRepo,
		Notifications: notifPersistence.NewNotificationRepository(db),
		Preferences:   notifPersistence.NewPreferenceRepository(db),
		Users:         app.Users,
		Repair:        repairRepo,
		Outbound:      outbound,
		Realtime:      app.Hub,
	}
	if myredis.IsConnected() {
		deps.Cache = cache.NewRedisUnreadCache(time.Duration(conf.NotificationConfig.UnreadCacheTTLSecond) * time.Second)
	}
	app.setupKafka(&deps)
	notifications := notifService.NewNotificationService(deps)

	if len(conf.KafkaConfig.Brokers) > 0 {
		handler := event.NewDeviceEventHandler(repairRepo, notifications, outbound)
		consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
			Brokers:  conf.KafkaConfig.Brokers,
			GroupID:  conf.KafkaConfig.ConsumerGroupID,
			Topics:   []string{conf.KafkaConfig.DeviceEventTopic},
			ClientID: conf.KafkaConfig.ClientID,
		})
		if err != nil {
			zlog.Warn("device event consumer disabled", zap.Error(err))
		} else {
			app.worker = event.NewDeviceEventWorker(consumer, handler)
		}
	}

	app.scheduler = scheduler.NewSchedulerManager(scheduler.RedisLocker{})
	if err := app.scheduler.RegisterCleanup(conf.NotificationConfig.CleanupCron, notifications); err != nil {
		return nil, err
	}

	app.Handlers = Handlers{
		Notification: notifHandler.NewNotificationHandler(notifications),
		Ws:           notifHandler.NewWsHandler(app.Hub, conf.MainConfig.AllowOrigins),
		QueueAdmin:   msgHandler.NewQueueAdminHandler(app.processor, outbound),
		Setting:      settingHandler.NewSettingHandler(settings, app.processor),
	}
	return app, nil
}

func (a *App) setupKafka(deps *notifService.Deps) {
	kc := a.Conf.KafkaConfig
	if len(kc.Brokers) == 0 {
		zlog.Info("kafka not configured, device events and notification events disabled")
		return
	}
	err := kafka.EnsureTopics(kc.Brokers, kc.ClientID,
		kafka.TopicSpec{Name: kc.DeviceEventTopic, Partitions: kc.Partitions, ReplicationFactor: kc.Replication},
		kafka.TopicSpec{Name: kc.NotificationTopic, Partitions: kc.Partitions, ReplicationFactor: kc.Replication},
	)
	if err != nil {
		zlog.Warn("ensure kafka topics failed", zap.Error(err))
	}
	pub, err := kafka.NewPublisher(kafka.PublisherConfig{Brokers: kc.Brokers, ClientID: kc.ClientID})
	if err != nil {
		zlog.Warn("notification event publisher disabled", zap.Error(err))
		return
	}
	a.publisher = pub
	deps.Events = eventbus.NewNotificationPublisher(pub, kc.NotificationTopic)
}

// Start 启动队列处理器、定时任务和设备事件消费
func (a *App) Start() {
	a.processor.Start(time.Duration(a.Conf.QueueConfig.IntervalSeconds) * time.Second)
	a.scheduler.Start()

	if a.worker != nil {
		ctx, cancel := context.WithCancel(context.Background())
		a.workerCancel = cancel
		a.workerDone = make(chan struct{})
		go func() {
			defer close(a.workerDone)
			_ = a.worker.Run(ctx)
		}()
	}
}

// Shutdown 按依赖逆序停止；HTTP 服务需在此之前关闭
func (a *App) Shutdown() error {
	var errs []error
	if a.workerCancel != nil {
		a.workerCancel()
		if err := a.worker.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close consumer: %w", err))
		}
		<-a.workerDone
	}
	a.scheduler.Stop()
	a.processor.Stop()
	a.Hub.Close()

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publisher: %w", err))
		}
	}
	if err := myredis.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close redis: %w", err))
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close db: %w", err))
		}
	}
	return errors.Join(errs...)
}

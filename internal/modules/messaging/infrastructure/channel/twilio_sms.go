package channel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	domainChannel "RepairDesk/internal/modules/messaging/domain/channel"
	"RepairDesk/internal/modules/messaging/domain/entity"
	settingEntity "RepairDesk/internal/modules/setting/domain/entity"
	"RepairDesk/pkg/zlog"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// 环境变量兜底
const (
	EnvTwilioAccountSID  = "TWILIO_ACCOUNT_SID"
	EnvTwilioAuthToken   = "TWILIO_AUTH_TOKEN"
	EnvTwilioPhoneNumber = "TWILIO_PHONE_NUMBER"
)

// SettingLookup 由 setting 模块实现
type SettingLookup interface {
	Lookup(ctx context.Context, key, envKey string) string
}

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioSMSAdapter 短信通道；凭据任意一项缺失时通道禁用，Send 直接返回成功
type TwilioSMSAdapter struct {
	settings  SettingLookup
	newClient func(accountSID, authToken string) messageCreator

	mu      sync.RWMutex
	client  messageCreator
	from    string
	enabled bool
	ready   atomic.Bool
}

var _ domainChannel.Adapter = (*TwilioSMSAdapter)(nil)

func NewTwilioSMSAdapter(settings SettingLookup) *TwilioSMSAdapter {
	return &TwilioSMSAdapter{
		settings: settings,
		newClient: func(accountSID, authToken string) messageCreator {
			c := twilio.NewRestClientWithParams(twilio.ClientParams{
				Username: accountSID,
				Password: authToken,
			})
			return c.Api
		},
	}
}

// Init 读取凭据；可重复调用以热更新
func (a *TwilioSMSAdapter) Init(ctx context.Context) error {
	if a.settings == nil {
		return errors.New("sms adapter: setting lookup is nil")
	}
	sid := a.settings.Lookup(ctx, settingEntity.KeyTwilioAccountSID, EnvTwilioAccountSID)
	token := a.settings.Lookup(ctx, settingEntity.KeyTwilioAuthToken, EnvTwilioAuthToken)
	from := a.settings.Lookup(ctx, settingEntity.KeyTwilioPhoneNumber, EnvTwilioPhoneNumber)

	a.mu.Lock()
	if sid == "" || token == "" || from == "" {
		a.client = nil
		a.from = ""
		a.enabled = false
	} else {
		a.client = a.newClient(sid, token)
		a.from = from
		a.enabled = true
	}
	enabled := a.enabled
	a.mu.Unlock()

	a.ready.Store(true)
	if enabled {
		zlog.Info("sms channel initialised", zap.String("from", from))
	} else {
		zlog.Warn("sms channel disabled: twilio credentials incomplete")
	}
	return nil
}

func (a *TwilioSMSAdapter) Channel() string {
	return entity.ChannelSMS
}

func (a *TwilioSMSAdapter) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

func (a *TwilioSMSAdapter) IsReady() bool {
	return a.ready.Load()
}

func (a *TwilioSMSAdapter) Send(ctx context.Context, msg *entity.QueuedMessage) error {
	if msg == nil {
		return errors.New("sms adapter: message is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	a.mu.RLock()
	client, from, enabled := a.client, a.from, a.enabled
	a.mu.RUnlock()
	if !enabled {
		zlog.Debug("sms channel disabled, skipping send", zap.Int64("message_id", msg.Id))
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(msg.Destination)
	params.SetFrom(from)
	params.SetBody(msg.Body)

	resp, err := client.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio create message: %w", err)
	}
	if resp != nil && resp.Sid != nil {
		zlog.Debug("sms accepted by gateway", zap.Int64("message_id", msg.Id), zap.String("sid", *resp.Sid))
	}
	return nil
}

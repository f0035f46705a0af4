package http

import (
	"RepairDesk/internal/bootstrap"
	jwtMiddleware "RepairDesk/internal/middleware/jwt"
	"RepairDesk/pkg/ssl"

	cors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewEngine 注册全部路由
func NewEngine(app *bootstrap.App) *gin.Engine {
	conf := app.Conf
	GE := gin.New()
	GE.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(conf.MainConfig.AllowOrigins) > 0 {
		corsConfig.AllowOrigins = conf.MainConfig.AllowOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	GE.Use(cors.New(corsConfig))
	GE.Use(ssl.TlsHandler(conf.MainConfig.Host, conf.MainConfig.Port, conf.MainConfig.SSLRedirect))

	h := app.Handlers
	auth := jwtMiddleware.Auth(app.Signer)

	GE.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	GE.GET("/wss", auth, h.Ws.Connect)

	authed := GE.Group("/", auth)
	authed.POST("/notification/list", h.Notification.List)
	authed.POST("/notification/read", h.Notification.MarkAsRead)
	authed.POST("/notification/readAll", h.Notification.MarkAllAsRead)
	authed.POST("/notification/archive", h.Notification.Archive)
	authed.GET("/notification/unreadCount", h.Notification.UnreadCount)
	authed.GET("/notification/preferences", h.Notification.Preferences)
	authed.POST("/notification/preferences/update", h.Notification.UpdatePreferences)

	admin := authed.Group("/admin", jwtMiddleware.RequireAdmin(app.Users))
	admin.GET("/queue/stats", h.QueueAdmin.Stats)
	admin.POST("/queue/retry", h.QueueAdmin.Retry)
	admin.POST("/queue/cancel", h.QueueAdmin.Cancel)
	admin.POST("/queue/sendSms", h.QueueAdmin.SendSMS)
	admin.POST("/settings/update", h.Setting.UpdateSettings)
	admin.POST("/notification/create", h.Notification.Create)
	admin.POST("/notification/device", h.Notification.CreateForDevice)
	admin.POST("/notification/inventory", h.Notification.CreateForInventory)
	admin.POST("/notification/feedback", h.Notification.CreateForFeedback)

	return GE
}

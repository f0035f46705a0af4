package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	https_server "RepairDesk/api/http"
	"RepairDesk/internal/bootstrap"
	"RepairDesk/internal/config"
	"RepairDesk/pkg/zlog"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to config toml")
	flag.Parse()

	// 1. 加载配置
	conf, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal("load config failed", zap.Error(err))
	}
	zlog.Init(zlog.Options{
		LogPath:    conf.LogConfig.LogPath,
		Level:      conf.LogConfig.Level,
		MaxSizeMB:  conf.LogConfig.MaxSizeMB,
		MaxBackups: conf.LogConfig.MaxBackups,
		MaxAgeDays: conf.LogConfig.MaxAgeDays,
	})
	defer zlog.Sync()

	// 2. 组装依赖
	app, err := bootstrap.New(context.Background(), conf)
	if err != nil {
		zlog.Fatal("bootstrap failed", zap.Error(err))
	}
	app.Start()

	// 3. 启动 HTTP 服务
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port),
		Handler:           https_server.NewEngine(app),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zlog.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	// 4. 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("http shutdown failed", zap.Error(err))
	}
	if err := app.Shutdown(); err != nil {
		zlog.Error("app shutdown failed", zap.Error(err))
	}
	zlog.Info("server stopped")
}

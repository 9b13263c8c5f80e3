package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"Settlers/internal/ai/target"
	"Settlers/internal/scenario"
	"Settlers/internal/shared/logs"
	"Settlers/internal/shared/serverconfig"
	transporthttp "Settlers/internal/shared/transport/http"
	"Settlers/internal/world/actor"
	"Settlers/internal/world/actors"
	"Settlers/internal/world/infra/persistence"
	"Settlers/internal/world/interfaces"
	"Settlers/internal/world/sim"
	"Settlers/modules/kit/logx"
	"Settlers/modules/kit/tracex"
)

func main() {
	cfgPath := flag.String("config", "", "config file, defaults to configs/conf.yml searched upward")
	flag.Parse()

	loader, conf, err := serverconfig.Load(*cfgPath)
	if err != nil {
		panic(err)
	}
	if err := logs.Init("session", conf.Log); err != nil {
		panic(err)
	}
	defer logs.Sync()
	logs.Info("conf", zap.Any("conf", conf))

	sessionID := conf.Session.ID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	baseLogger := logx.NewZapLogger(logs.Logger())

	filters, err := target.CompileFilters(conf.Search.Filters)
	if err != nil {
		logs.Fatal("compile search filters failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	journal, closeJournal, err := persistence.OpenJournal(ctx, conf, logs.Logger())
	if err != nil {
		logs.Fatal("open journal failed", zap.String("backend", conf.Journal.Backend), zap.Error(err))
	}
	defer func() {
		_ = closeJournal(context.Background())
	}()

	runtime := actor.NewRuntime(sessionID, actors.SessionDeps{
		Journal:      journal,
		Worlds:       scenario.NewLoader(conf.Session.Scenario),
		Log:          baseLogger,
		ControlAll:   conf.Session.ControlAll,
		FlushEvery:   conf.Journal.FlushEvery,
		MineDistance: conf.Search.MineDistance,
		Filters:      filters,
	}, conf.Session.AskTimeout)

	loop := sim.NewLoop(runtime, sim.LoopConfig{
		TickRate:        int(time.Second / conf.Session.TickRate),
		CommandCapacity: conf.Session.CommandCapacity,
	}, baseLogger)

	// 只热更新日志级别和 control-all，其余配置需要重启
	loader.Watch(func(next serverconfig.Config) {
		logs.SetLevel(next.Log.Level)
		c := tracex.WithSession(context.Background(), sessionID)
		if err := runtime.SetControlAll(c, next.Session.ControlAll); err != nil {
			logx.ReportSysError(c, baseLogger, logx.NewSysLog("reload_control_all", err))
		}
	}, func(err error) {
		logs.Warn("reload config failed", zap.Error(err))
	})

	adminHost := conf.Admin.Host
	if adminHost == "" {
		adminHost = "0.0.0.0"
	}
	adminAddr := fmt.Sprintf("%s:%d", adminHost, conf.Admin.Port)
	httpServer := transporthttp.NewHttpServer(adminAddr, nil, baseLogger)
	httpModules := []transporthttp.Registrar{
		interfaces.New(runtime, loop, baseLogger),
	}
	for _, m := range httpModules {
		m.HttpRegister(httpServer.Group())
	}

	errCh := make(chan error, 2)
	go func() {
		if err := httpServer.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- fmt.Errorf("admin server start failed: %w", err)
			return
		}
		errCh <- nil
	}()
	go func() {
		if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- fmt.Errorf("sim loop stopped: %w", err)
		}
	}()
	logs.Info("session started",
		zap.String("session_id", sessionID),
		zap.String("admin", adminAddr),
		zap.String("journal", conf.Journal.Backend),
	)

	select {
	case <-ctx.Done():
		logs.Info("收到退出信号，准备优雅退出")
	case err := <-errCh:
		if err != nil {
			logs.Error("服务异常退出", zap.Error(err))
		}
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
	runtime.Shutdown()
}

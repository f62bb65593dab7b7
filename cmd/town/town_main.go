package main

import (
	"context"
	"flag"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"TownBuilder/internal/shared/logs"
	"TownBuilder/internal/shared/security"
	"TownBuilder/internal/shared/serverconfig"
	transporthttp "TownBuilder/internal/shared/transport/http"
	"TownBuilder/internal/shared/transport/ws"
	"TownBuilder/internal/shared/utils"
	"TownBuilder/internal/town/actor"
	"TownBuilder/internal/town/entity"
	"TownBuilder/internal/town/interfaces"
	"TownBuilder/internal/town/interfaces/handler"
)

func main() {
	cfgPath := flag.String("config", "", "config file, default searches configs/conf.yml upward")
	flag.Parse()

	loader, err := serverconfig.Load(*cfgPath)
	if err != nil {
		panic(err)
	}
	conf := serverconfig.Snapshot()
	if err := logs.Init("town", conf.Log); err != nil {
		panic(err)
	}
	defer logs.Sync()
	logConfig(conf)

	if !conf.Log.Dev {
		gin.SetMode(gin.ReleaseMode)
	}

	repo, closeRepo, err := openRepository(conf)
	if err != nil {
		logs.Fatal("open report repository failed", zap.String("driver", conf.Storage.Driver), zap.Error(err))
	}
	defer closeRepo()

	ids, err := utils.NewSnowflakeFromEnv()
	if err != nil {
		logs.Fatal("init building id generator failed", zap.Error(err))
	}
	actorCfg := actorConfig(conf, repo, logs.L())
	actorCfg.Town.IDs = ids
	rt := actor.NewRuntime(actorCfg, 3*time.Second)
	townID := entity.TownID(conf.Sim.TownID)

	signer := security.NewSigner(conf.Auth.JWTSecret, time.Duration(conf.Auth.TokenTTLHours)*time.Hour)
	module := interfaces.New(handler.NewTown(rt, townID, signer, conf.Auth.AdminKey, logs.L()))

	router := ws.NewRouter(logs.L())
	module.WsRegister(router)
	hub := ws.NewHub(logs.L())
	wsServer := ws.NewServer(router, hub, logs.L())
	wsServer.OnAccept = module.OnAccept
	wsServer.OnConnect = module.OnConnect

	unsubscribe, err := module.BindEvents(context.Background(), rt, hub)
	if err != nil {
		logs.Fatal("subscribe town events failed", zap.Error(err))
	}

	addr := fmt.Sprintf("%s:%d", conf.HTTPServer.Host, conf.HTTPServer.Port)
	httpServer := transporthttp.NewHttpServer(addr, logs.L())
	httpServer.Register("/api", module)
	httpServer.Engine().GET("/ws", gin.WrapH(wsServer))

	serverconfig.Watch(loader, func(err error) {
		logs.Warn("config reload failed", zap.Error(err))
	})
	loader.OnChange(func() {
		sim := serverconfig.Snapshot().Sim
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rt.ApplySettings(ctx, townID, sim.TaxRate, sim.GameSpeed); err != nil {
			logs.Warn("apply reloaded settings failed", zap.Error(err))
			return
		}
		logs.Info("settings reloaded", zap.Int("tax_rate", sim.TaxRate), zap.Float64("game_speed", sim.GameSpeed))
	})

	go func() {
		logs.Info("town server listening", zap.String("addr", addr))
		if err := httpServer.Start(); err != nil {
			logs.Fatal("http server failed", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logs.Info("收到退出信号，准备优雅退出")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logs.Warn("http server shutdown", zap.Error(err))
	}
	unsubscribe()
	rt.Shutdown()
}

package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"TownBuilder/internal/shared/infrastructure/db"
	sharedmongo "TownBuilder/internal/shared/infrastructure/mongo"
	"TownBuilder/internal/shared/logs"
	"TownBuilder/internal/shared/serverconfig"
	"TownBuilder/internal/town/actors"
	"TownBuilder/internal/town/app/port"
	"TownBuilder/internal/town/economy"
	"TownBuilder/internal/town/entity"
	"TownBuilder/internal/town/generator"
	"TownBuilder/internal/town/infra/persistence/memory"
	townmongo "TownBuilder/internal/town/infra/persistence/mongodb"
	townmysql "TownBuilder/internal/town/infra/persistence/mysql"
	"TownBuilder/internal/town/service"
	"TownBuilder/modules/kit/logx"
)

// townOptions 把 sim 配置映射成 Town 构造参数，未配置的字段沿用包内默认值。
func townOptions(sim serverconfig.SimConfig, l logx.Logger) service.Options {
	eco := economy.DefaultConfig()
	if sim.Economy.TaxPerCitizen > 0 {
		eco.TaxPerCitizen = sim.Economy.TaxPerCitizen
	}
	if sim.Economy.EventChance >= 0 {
		eco.EventChance = sim.Economy.EventChance
	}
	if len(sim.Economy.Maintenance) > 0 {
		eco = eco.WithMaintenance(sim.Economy.Maintenance)
	}

	return service.Options{
		TownID:        entity.TownID(sim.TownID),
		Seed:          sim.Seed,
		HalfSize:      sim.HalfSize,
		StartingMoney: sim.StartingMoney,
		TaxRate:       sim.TaxRate,
		Sandbox:       sim.Sandbox,
		GameSpeed:     sim.GameSpeed,
		DayLength:     time.Duration(sim.DayLengthS * float64(time.Second)),
		Economy:       eco,
		Generator: generator.Config{
			RoadLength:       sim.Generator.RoadLength,
			BuildingQuota:    sim.Generator.BuildingQuota,
			MaxBuildAttempts: sim.Generator.MaxBuildAttempts,
		},
		Logger: l,
	}
}

func actorConfig(conf serverconfig.Config, repo port.ReportRepository, l logx.Logger) actors.Config {
	return actors.Config{
		Town:       townOptions(conf.Sim, l),
		Repo:       repo,
		FlushEvery: time.Duration(conf.Storage.FlushMs) * time.Millisecond,
		TickEvery:  time.Duration(conf.Sim.TickIntervalMs) * time.Millisecond,
		Logger:     l,
	}
}

// openRepository 按 storage.driver 打开日报落地端，返回的 closer 在退出时调用。
func openRepository(conf serverconfig.Config) (port.ReportRepository, func(), error) {
	switch conf.Storage.Driver {
	case "", "memory":
		return memory.NewReportRepository(), func() {}, nil
	case "mongodb":
		client, err := sharedmongo.Open(conf.MongoDB, logs.Logger())
		if err != nil {
			return nil, nil, err
		}
		closer := func() { _ = client.Disconnect(context.Background()) }
		repo := townmongo.NewReportRepository(client.Database(conf.MongoDB.Database))
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := repo.EnsureIndexes(ctx); err != nil {
			closer()
			return nil, nil, err
		}
		return repo, closer, nil
	case "mysql":
		gdb, err := db.Open(conf.MySQL)
		if err != nil {
			return nil, nil, err
		}
		closer := func() {
			if sqlDB, err := gdb.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		repo, err := townmysql.NewReportRepository(gdb)
		if err != nil {
			closer()
			return nil, nil, err
		}
		return repo, closer, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", conf.Storage.Driver)
	}
}

func logConfig(conf serverconfig.Config) {
	// 不打印口令与密钥
	conf.MySQL.Password = ""
	conf.Auth.JWTSecret = ""
	conf.Auth.AdminKey = ""
	logs.Info("conf", zap.Any("conf", conf))
}

package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"TownBuilder/internal/shared/logs"
	"TownBuilder/internal/shared/serverconfig"
	"TownBuilder/modules/kit/errx"
)

const slowQuery = 200 * time.Millisecond

// Open 连接 mysql，gorm 日志接到 zap。show_sql 打开时记录每条语句。
func Open(cfg serverconfig.MySQLConfig) (*gorm.DB, error) {
	level := logger.Warn
	if cfg.ShowSQL {
		level = logger.Info
	}
	gcfg := &gorm.Config{Logger: logs.NewGormLogger(level, slowQuery)}

	dsn := DSN(cfg)
	gdb, err := gorm.Open(mysql.Open(dsn), gcfg)
	if err != nil {
		return nil, errx.NewSys(errx.CodeUnavailable, "open mysql failed").WithCause(err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, errx.NewSys(errx.CodeUnavailable, "mysql handle unavailable").WithCause(err)
	}
	if cfg.MaxConn > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxConn)
	}
	if cfg.MaxIdle > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	}

	logs.Info("open mysql success",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("db", cfg.DBName),
		zap.String("user", cfg.User),
	)
	return gdb, nil
}

// DSN username:password@tcp(host:port)/dbname?charset=utf8mb4&parseTime=True&loc=Local
func DSN(cfg serverconfig.MySQLConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName)
}

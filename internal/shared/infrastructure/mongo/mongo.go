package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"TownBuilder/internal/shared/serverconfig"
	"TownBuilder/modules/kit/errx"
)

const defaultConnectTimeout = 3 * time.Second

// Open 连接并 ping 一次，失败时断开。
func Open(cfg serverconfig.MongoDBConfig, l *zap.Logger) (*mongo.Client, error) {
	if cfg.URI == "" {
		return nil, errx.NewSys(errx.CodeUnavailable, "mongodb uri is empty")
	}
	if l == nil {
		l = zap.NewNop()
	}
	timeout := time.Duration(cfg.ConnectTimeoutS) * time.Second
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI).SetConnectTimeout(timeout))
	if err != nil {
		return nil, errx.NewSys(errx.CodeUnavailable, "connect mongodb failed").WithCause(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errx.NewSys(errx.CodeUnavailable, "ping mongodb failed").WithCause(err)
	}

	l.Info("open mongodb success", zap.String("database", cfg.Database))
	return client, nil
}

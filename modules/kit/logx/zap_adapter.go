package logx

import (
	"context"

	"go.uber.org/zap"

	"TownBuilder/modules/kit/tracex"
)

// ZapLogger 把 *zap.Logger 适配成 logx.Logger，零值可用（丢弃日志）。
type ZapLogger struct {
	logger *zap.Logger
}

func NewZapLogger(l *zap.Logger) *ZapLogger {
	return &ZapLogger{logger: l}
}

func (z *ZapLogger) base() *zap.Logger {
	if z == nil || z.logger == nil {
		return zap.NewNop()
	}
	return z.logger
}

// WithContext 带上 ctx 里的 trace_id / span_id，没有时原样返回。
func (z *ZapLogger) WithContext(ctx context.Context) Logger {
	var fields []zap.Field
	if tid, ok := tracex.TraceIDFrom(ctx); ok {
		fields = append(fields, zap.String("trace_id", tid))
	}
	if sid, ok := tracex.SpanIDFrom(ctx); ok {
		fields = append(fields, zap.String("span_id", sid))
	}
	if len(fields) == 0 {
		return z
	}
	return &ZapLogger{logger: z.base().With(fields...)}
}

func (z *ZapLogger) With(fields ...zap.Field) Logger {
	return &ZapLogger{logger: z.base().With(fields...)}
}

func (z *ZapLogger) Named(name string) Logger {
	return &ZapLogger{logger: z.base().Named(name)}
}

func (z *ZapLogger) Info(msg string, fields ...zap.Field)  { z.base().Info(msg, fields...) }
func (z *ZapLogger) Error(msg string, fields ...zap.Field) { z.base().Error(msg, fields...) }
func (z *ZapLogger) Debug(msg string, fields ...zap.Field) { z.base().Debug(msg, fields...) }
func (z *ZapLogger) Warn(msg string, fields ...zap.Field)  { z.base().Warn(msg, fields...) }

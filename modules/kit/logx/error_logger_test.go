package logx

import (
	"context"
	"errors"
	"testing"

	"TownBuilder/modules/kit/errx"
	"TownBuilder/modules/kit/tracex"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuildErrorLog_提取语义与栈(t *testing.T) {
	e := errx.NewSys("SYS_REPORT_SINK", "report sink down").
		WithData("town_id", 1).
		WithCause(errors.New("connection refused"))

	meta := BuildErrorLog(e)
	if meta.Code != "SYS_REPORT_SINK" || meta.Msg == "" {
		t.Fatalf("期望提取 code/msg, got=%+v", meta)
	}
	if meta.Data["town_id"] != 1 {
		t.Fatalf("期望 data 含 town_id, got=%v", meta.Data)
	}
	if len(meta.CauseChain) == 0 || meta.Origin == "" || meta.Stack == "" {
		t.Fatalf("期望 cause 链与栈非空, got=%+v", meta)
	}
}

func TestReportAccess_按biz_code选择级别(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core))

	ReportAccess(context.Background(), l, "GET /api/town", 0)
	ReportAccess(context.Background(), l, "POST /api/town/buildings", 409)
	ReportAccess(context.Background(), l, "POST /api/town/buildings", 500)

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("期望 3 条日志, got=%d", len(entries))
	}
	want := []zapcore.Level{zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}
	for i, e := range entries {
		if e.Level != want[i] {
			t.Fatalf("第 %d 条级别错误, got=%v want=%v", i, e.Level, want[i])
		}
	}
}

func TestZapLogger_Named与trace字段(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core)).Named("town").Named("actor")

	ctx := tracex.WithTraceID(context.Background(), "t-1")
	l.WithContext(ctx).Info("online")

	e := logs.All()
	if len(e) != 1 || e[0].LoggerName != "town.actor" {
		t.Fatalf("logger name 不对: %+v", e)
	}
	if e[0].ContextMap()["trace_id"] != "t-1" {
		t.Fatalf("缺 trace_id: %v", e[0].ContextMap())
	}

	var zero *ZapLogger
	zero.Info("丢弃")
	Nop().With(zap.Int("a", 1)).Warn("丢弃")
}

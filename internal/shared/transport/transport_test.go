package transport

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"TownBuilder/modules/kit/errx"
	"TownBuilder/modules/kit/logx"
	"TownBuilder/modules/kit/tracex"
)

func TestCodeFromError_映射(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, OK},
		{errors.New("boom"), SystemError},
		{errx.ErrReqParam.WithMsg("x 缺失"), InvalidParam},
		{errx.ErrUnauthorized, Unauthorized},
		{errx.ErrTimeout, Timeout},
		{errx.NewBiz("TOWN_PLACE_REJECTED", "no road"), Rejected},
		{errx.NewSys(errx.CodeInternal, "db").WithCause(errors.New("down")), SystemError},
	}
	for _, c := range cases {
		if got := CodeFromError(c.err); got != c.want {
			t.Fatalf("err=%v got=%d want=%d", c.err, got, c.want)
		}
	}
}

func TestNewContext_带trace与默认系统错误码(t *testing.T) {
	ctx := NewContext("GET /api/town")
	if id, ok := tracex.TraceIDFrom(ctx); !ok || id == "" {
		t.Fatalf("应生成 trace id")
	}
	al := FromContext(ctx)
	if al == nil || al.BizCode != BizCode(SystemError) {
		t.Fatalf("默认业务码应为系统错误, got=%+v", al)
	}
	SetBizCode(ctx, OK)
	SetErrorReason(ctx, "")
	if al.BizCode != OK || al.ErrorReason != "" {
		t.Fatalf("业务码未更新")
	}
}

func TestWriteAccessLog_附加字段与span(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := logx.NewZapLogger(zap.New(core))

	ctx := NewContext("WS town.place")
	if span, _ := tracex.SpanIDFrom(ctx); span != "town/ws" {
		t.Fatalf("span=%q", span)
	}
	AddFields(ctx, zap.Int("town_id", 1))
	SetBizCode(ctx, Rejected)
	SetErrorReason(ctx, "no_road")
	WriteAccessLog(ctx, l)

	entries := logs.All()
	if len(entries) != 1 || entries[0].Level != zapcore.WarnLevel {
		t.Fatalf("应写 1 条 WARN, got=%v", entries)
	}
	m := entries[0].ContextMap()
	if m["town_id"] != int64(1) || m["error_reason"] != "no_road" || m["span_id"] != "town/ws" {
		t.Fatalf("字段不对: %v", m)
	}
}

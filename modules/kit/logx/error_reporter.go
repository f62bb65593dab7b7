package logx

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// ReportAccess 记录访问日志：biz_code 为 0 打 INFO，>=500 打 ERROR，其余 WARN。
func ReportAccess(ctx context.Context, l Logger, action string, bizCode int, fields ...zap.Field) {
	if l == nil {
		return
	}
	base := []zap.Field{
		zap.String("log_type", "access"),
		zap.String("action", action),
		zap.Int("biz_code", bizCode),
	}
	base = append(base, fields...)
	withCtx := l.WithContext(ctx)
	switch {
	case bizCode == 0:
		withCtx.Info("access", base...)
	case bizCode >= 500:
		withCtx.Error("access", base...)
	default:
		withCtx.Warn("access", base...)
	}
}

// ReportBizReject 记录业务拒绝：INFO，不带栈。
func ReportBizReject(ctx context.Context, l Logger, action, reason string, fields ...zap.Field) {
	if l == nil {
		return
	}
	if action == "" {
		action = "biz_reject"
	}
	base := []zap.Field{
		zap.String("err_type", "biz"),
		zap.String("action", action),
	}
	msg := action
	if reason != "" {
		base = append(base, zap.String("reason", reason))
		msg = fmt.Sprintf("%s, reason:%s", action, reason)
	}
	l.WithContext(ctx).Info(msg, append(base, fields...)...)
}

// ReportSysError 记录技术错误：ERROR，附带 cause 链与发生处栈。
func ReportSysError(ctx context.Context, l Logger, action string, err error, fields ...zap.Field) {
	if err == nil || l == nil {
		return
	}
	if action == "" {
		action = "sys_error"
	}
	meta := BuildErrorLog(err)
	base := []zap.Field{
		zap.String("err_type", "sys"),
		zap.String("action", action),
	}
	if meta.Code != "" {
		base = append(base, zap.String("error_code", meta.Code))
	}
	if len(meta.CauseChain) != 0 {
		base = append(base, zap.Strings("cause_chain", meta.CauseChain))
	}
	if len(meta.Data) != 0 {
		base = append(base, zap.Any("error_data", meta.Data))
	}
	if meta.Origin != "" {
		base = append(base, zap.String("origin_caller", meta.Origin))
	}
	if meta.Stack != "" {
		base = append(base, zap.String("stack_origin", meta.Stack))
	}
	l.WithContext(ctx).Error(fmt.Sprintf("%s, error:%s", action, meta.Error), append(base, fields...)...)
}

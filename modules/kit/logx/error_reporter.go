package logx

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// DropLog 一条指令被丢弃/成为空操作时的结构化输入。
type DropLog struct {
	Kind   string
	Player int
	Reason string
}

// SysLog 基础设施错误的结构化输入。
type SysLog struct {
	Action string
	Err    error
}

func NewSysLog(action string, err error) SysLog {
	return SysLog{Action: action, Err: err}
}

// ReportDropped 指令被静默丢弃：DEBUG 级别。
// 出局玩家、失效引用都是正常对局现象，不能把日志刷满。
func ReportDropped(ctx context.Context, l Logger, d DropLog, fields ...zap.Field) {
	if l == nil {
		return
	}
	base := []zap.Field{
		zap.String("err_type", "biz"),
		zap.String("command", d.Kind),
		zap.Int("player", d.Player),
	}
	if d.Reason != "" {
		base = append(base, zap.String("reason", d.Reason))
	}
	base = append(base, fields...)
	l.WithContext(ctx).Debug(fmt.Sprintf("command dropped, kind:%s, reason:%s", d.Kind, d.Reason), base...)
}

// ReportAccess 管理接口访问日志：
// - biz_code == 0: INFO
// - biz_code  1~499: WARN
// - biz_code >= 500: ERROR
func ReportAccess(ctx context.Context, l Logger, action string, bizCode int, fields ...zap.Field) {
	if l == nil {
		return
	}
	base := append([]zap.Field{
		zap.String("log_type", "access"),
		zap.String("action", action),
		zap.Int("biz_code", bizCode),
	}, fields...)
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

// ReportSysError 技术错误：ERROR、err_type=sys，附带 cause 链和发生处栈。
func ReportSysError(ctx context.Context, l Logger, sys SysLog, fields ...zap.Field) {
	if sys.Err == nil || l == nil {
		return
	}
	action := sys.Action
	if action == "" {
		action = "sys_error"
	}
	meta := BuildErrorLog(sys.Err)
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
	if meta.Stack != "" {
		base = append(base, zap.String("origin_caller", meta.Origin), zap.String("stack_origin", meta.Stack))
	}
	base = append(base, fields...)

	msg := fmt.Sprintf("%s, error:%s", action, meta.Error)
	if meta.Reason != "" {
		msg = fmt.Sprintf("%s, reason:%s, error:%s", action, meta.Reason, meta.Error)
	}
	l.WithContext(ctx).Error(msg, base...)
}

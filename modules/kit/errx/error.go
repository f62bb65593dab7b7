package errx

import (
	"errors"
	"maps"
	"runtime"
	"slices"
	"strings"
)

// Code 是对外语义的稳定标识，transport 层按它映射 biz code。
type Code string

// Reason 由业务包枚举，例如放置规则的失败原因。
type Reason interface {
	ReasonCode() string
}

// Error 携带 code、面向调用方的 msg、可选 reason 与日志上下文 data。
// 所有 With* 都返回副本，包级哨兵错误可以放心派生。
// 系统错误第一次挂 cause 时记录调用栈，业务拒绝不记。
type Error struct {
	code   Code
	msg    string
	reason string
	data   map[string]any
	cause  error
	stack  []uintptr
	sys    bool
}

func NewBiz(code Code, msg string) *Error {
	return &Error{code: code, msg: msg}
}

func NewSys(code Code, msg string) *Error {
	return &Error{code: code, msg: msg, sys: true}
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	parts := []string{string(e.code)}
	if e.msg != "" {
		parts = append(parts, e.msg)
	}
	if e.cause != nil {
		parts = append(parts, e.cause.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is 只比较 code：errors.Is(err, ErrTimeout) 对任何派生副本都成立。
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e != nil && t != nil && e.code == t.code
}

func (e *Error) Code() Code {
	if e == nil {
		return ""
	}
	return e.code
}

func (e *Error) CodeText() string { return string(e.Code()) }

func (e *Error) Msg() string {
	if e == nil {
		return ""
	}
	return e.msg
}

func (e *Error) Reason() string {
	if e == nil {
		return ""
	}
	return e.reason
}

func (e *Error) IsSys() bool { return e != nil && e.sys }

func (e *Error) Data() map[string]any {
	if e == nil {
		return nil
	}
	return maps.Clone(e.data)
}

func (e *Error) Stack() []uintptr {
	if e == nil || len(e.stack) == 0 {
		return nil
	}
	return slices.Clone(e.stack)
}

func (e *Error) clone() *Error {
	c := *e
	c.data = maps.Clone(e.data)
	c.stack = slices.Clone(e.stack)
	return &c
}

func (e *Error) WithMsg(msg string) *Error {
	c := e.clone()
	c.msg = msg
	return c
}

func (e *Error) WithData(key string, value any) *Error {
	c := e.clone()
	if c.data == nil {
		c.data = map[string]any{}
	}
	c.data[key] = value
	return c
}

func (e *Error) WithReason(r Reason) *Error {
	c := e.clone()
	c.reason = ""
	if r != nil {
		c.reason = r.ReasonCode()
	}
	return c
}

func (e *Error) WithCause(cause error) *Error {
	c := e.clone()
	c.cause = cause
	if c.sys && cause != nil && len(c.stack) == 0 && !stackedBelow(cause) {
		c.stack = callers()
	}
	return c
}

// As 从错误链里取出 *Error。
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e, true
	}
	return nil, false
}

// callers 跳过 runtime.Callers、callers 与 WithCause 本身。
func callers() []uintptr {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(3, pcs)
	return pcs[:n:n]
}

// stackedBelow 判断 cause 链上是否已有栈。
func stackedBelow(err error) bool {
	for depth := 0; err != nil && depth < 32; depth++ {
		if s, ok := err.(interface{ Stack() []uintptr }); ok && len(s.Stack()) > 0 {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

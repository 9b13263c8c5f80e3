package errx

import (
	"errors"
	"fmt"
	"runtime"
)

// Code 错误码，对外语义的稳定标识。
type Code string

// Kind 区分“业务拒绝”和“系统故障”：
// - Biz：玩家指令被拒绝/成为空操作，属于正常对局现象，不捕获栈
// - Sys：基础设施故障（日志落盘、journal、配置），第一次挂 cause 时捕获一次栈
type Kind uint8

const (
	KindBiz Kind = iota
	KindSys
)

func (k Kind) String() string {
	if k == KindSys {
		return "sys"
	}
	return "biz"
}

// Reason 是错误原因的最小接口，只暴露 reason code。
type Reason interface {
	ReasonCode() string
}

// Error 通用错误模型。
// data 只能通过 With* 派生，内部总是复制；cause 仅用于溯源，不参与 Is 判断。
type Error struct {
	code  Code
	msg   string
	kind  Kind
	data  map[string]any
	cause error
	stack []uintptr
}

func NewBiz(code Code, msg string) *Error {
	return &Error{code: code, msg: msg, kind: KindBiz}
}

func NewSys(code Code, msg string) *Error {
	return &Error{code: code, msg: msg, kind: KindSys}
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	head := string(e.code)
	if e.msg != "" {
		head = head + ": " + e.msg
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", head, e.cause)
	}
	return head
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is 只按 code 比较，忽略 msg/data/cause。
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return false
	}
	t, ok := target.(*Error)
	return ok && t != nil && e.code == t.code
}

func (e *Error) Code() Code {
	if e == nil {
		return ""
	}
	return e.code
}

func (e *Error) CodeText() string {
	return string(e.Code())
}

func (e *Error) Msg() string {
	if e == nil {
		return ""
	}
	return e.msg
}

func (e *Error) Kind() Kind {
	if e == nil {
		return KindSys
	}
	return e.kind
}

// Data 返回拷贝。
func (e *Error) Data() map[string]any {
	if e == nil {
		return nil
	}
	return cloneData(e.data)
}

// Reason 约定存储在 data["reason"]。
func (e *Error) Reason() string {
	if e == nil {
		return ""
	}
	s, _ := e.data["reason"].(string)
	return s
}

func (e *Error) Stack() []uintptr {
	if e == nil || len(e.stack) == 0 {
		return nil
	}
	return append([]uintptr(nil), e.stack...)
}

func (e *Error) WithData(key string, value any) *Error {
	next := e.derive()
	if next.data == nil {
		next.data = make(map[string]any, 1)
	}
	next.data[key] = value
	return next
}

func (e *Error) WithDataMap(data map[string]any) *Error {
	next := e.derive()
	if len(data) == 0 {
		return next
	}
	if next.data == nil {
		next.data = make(map[string]any, len(data))
	}
	for k, v := range data {
		next.data[k] = v
	}
	return next
}

func (e *Error) WithReason(reason Reason) *Error {
	if reason == nil {
		return e.WithData("reason", "")
	}
	return e.WithData("reason", reason.ReasonCode())
}

// WithPlayer / WithTick 是对局上下文的快捷写法，日志层会原样打印。
func (e *Error) WithPlayer(player int) *Error {
	return e.WithData("player", player)
}

func (e *Error) WithTick(tick uint64) *Error {
	return e.WithData("tick", tick)
}

func (e *Error) WithCause(cause error) *Error {
	next := e.derive()
	next.cause = cause
	// 栈只在系统错误第一次挂 cause 时捕获；链上已有栈则不重复。
	if next.kind == KindSys && cause != nil && len(next.stack) == 0 && !chainHasStack(cause) {
		next.stack = callers(3)
	}
	return next
}

func (e *Error) derive() *Error {
	return &Error{
		code:  e.code,
		msg:   e.msg,
		kind:  e.kind,
		data:  cloneData(e.data),
		cause: e.cause,
		stack: append([]uintptr(nil), e.stack...),
	}
}

// IsBiz 判断 err 链上第一个 *Error 是否为业务拒绝。
func IsBiz(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.kind == KindBiz
}

func cloneData(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func callers(skip int) []uintptr {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(skip, pcs)
	if n <= 0 {
		return nil
	}
	return pcs[:n]
}

func chainHasStack(err error) bool {
	for i := 0; i < 32 && err != nil; i++ {
		if sp, ok := err.(interface{ Stack() []uintptr }); ok && len(sp.Stack()) != 0 {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

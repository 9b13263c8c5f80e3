package transport

// BizCode 表示业务码的强类型封装，用于在日志上下文中减少误传风险。
type BizCode int

// 管理接口和 actor 回复共用的业务码：0 成功，1~499 调用方问题，>=500 服务端问题。
const (
	OK             = 0
	InvalidParam   = 400
	Unauthorized   = 401
	Forbidden      = 403
	StaleTick      = 409
	SessionOffline = 503
	SystemError    = 500
	Timeout        = 504
)

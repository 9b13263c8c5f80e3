package errx

// 跨包统一的错误码。
//
// 指令执行链路上的失败全部是“值”：玩家出局、目标失效、搜索无结果都不会中断 tick，
// 这些码只用于日志归类和基础设施边界上的 error 返回。

const (
	// CodePlayerLost 已出局玩家的指令（未开启 control-all）。
	CodePlayerLost Code = "COMMAND_PLAYER_LOST"
	// CodeStaleReference 指令引用的建筑/单位不存在、已死亡或类型不符。
	CodeStaleReference Code = "COMMAND_STALE_REFERENCE"
	// CodeMalformed 指令载荷与声明的 kind 不匹配，属于程序错误。
	CodeMalformed Code = "COMMAND_MALFORMED"
	// CodeIllegalConversion 单位无法转换为目标职业。
	CodeIllegalConversion Code = "COMMAND_ILLEGAL_CONVERSION"
	// CodeSearchExhausted 搜索范围内没有满足条件的位置。
	CodeSearchExhausted Code = "SEARCH_EXHAUSTED"

	CodeInternal    Code = "INTERNAL_ERROR"
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
	CodeTimeout     Code = "TIMEOUT"
	// CodeJournal journal 存储读写失败。
	CodeJournal Code = "JOURNAL_UNAVAILABLE"
	// CodeScenario 场景文件不合法。
	CodeScenario Code = "SCENARIO_INVALID"
	// CodeReqParam 管理接口请求参数错误。
	CodeReqParam Code = "REQ_PARAM_ERROR"
)

// 哨兵错误：只允许通过 With* 派生，不要原地修改。
var (
	ErrPlayerLost        = NewBiz(CodePlayerLost, "player has lost")
	ErrStaleReference    = NewBiz(CodeStaleReference, "target does not resolve")
	ErrIllegalConversion = NewBiz(CodeIllegalConversion, "illegal conversion")
	ErrSearchExhausted   = NewBiz(CodeSearchExhausted, "no candidate found")
	ErrMalformed         = NewSys(CodeMalformed, "malformed command payload")
	ErrInternal          = NewSys(CodeInternal, "internal error")
	ErrUnavailable       = NewSys(CodeUnavailable, "dependency unavailable")
	ErrTimeout           = NewSys(CodeTimeout, "timeout")
	ErrJournal           = NewSys(CodeJournal, "journal unavailable")
	ErrScenario          = NewBiz(CodeScenario, "invalid scenario")
	ErrReqParam          = NewBiz(CodeReqParam, "invalid request parameter")
)

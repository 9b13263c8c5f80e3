package entity

import "Settlers/internal/command"

// TickRecord 一个 tick 的指令日志：按应用顺序的指令、之后发生的管理操作，以及两者都执行后的世界校验和。
// 回放同一份日志必须得到同样的 Digest 序列。
type TickRecord struct {
	SessionID string                `json:"session_id"`
	Tick      uint64                `json:"tick"`
	Commands  []command.Envelope    `json:"commands"`
	Admin     []command.AdminAction `json:"admin,omitempty"`
	Digest    uint64                `json:"digest"`
}

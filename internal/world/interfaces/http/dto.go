package http

import (
	"Settlers/internal/command"
	"Settlers/internal/game/domain"
)

// Response 管理接口统一响应体，code 为业务码，访问日志从这里取。
type Response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg,omitempty"`
	Data any    `json:"data,omitempty"`
}

func Success(data any) Response {
	return Response{Code: 0, Data: data}
}

func Error(code int, msg string) Response {
	return Response{Code: code, Msg: msg}
}

type DigestResp struct {
	Tick       uint64 `json:"tick"`
	Digest     string `json:"digest"`
	ControlAll bool   `json:"control_all"`
	Lost       []int  `json:"lost"`
}

type ControlAllReq struct {
	On *bool `json:"on" binding:"required"`
}

type MarkLostReq struct {
	Player *int `json:"player" binding:"required,min=0"`
}

type MarkLostResp struct {
	Player  int  `json:"player"`
	Changed bool `json:"changed"`
}

type StageCommandsReq struct {
	Commands []command.Envelope `json:"commands" binding:"required,min=1"`
}

type Rejected struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

type StageCommandsResp struct {
	Staged   int        `json:"staged"`
	Rejected []Rejected `json:"rejected,omitempty"`
}

type MineTargetReq struct {
	Player   *int   `form:"player" binding:"required,min=0"`
	Building string `form:"building" binding:"required"`
}

type MineTargetResp struct {
	Player int              `json:"player"`
	Found  bool             `json:"found"`
	At     *domain.Position `json:"at,omitempty"`
}

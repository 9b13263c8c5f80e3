package http

import (
	"context"
	"fmt"
	nethttp "net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"Settlers/internal/command"
	"Settlers/internal/game/domain"
	"Settlers/internal/shared/actor/messages"
	"Settlers/internal/shared/transport"
	"Settlers/internal/shared/transport/http/middleware"
	"Settlers/internal/world/actor"
	"Settlers/modules/kit/logx"
)

// Session 管理接口需要的会话操作，由 actor.Runtime 实现。
type Session interface {
	SessionID() string
	Digest(ctx context.Context) (*messages.DigestReply, error)
	SetControlAll(ctx context.Context, on bool) error
	MarkLost(ctx context.Context, player int) (bool, error)
	FindMineTarget(ctx context.Context, player int, building domain.BuildingType) (*messages.MineTarget, error)
}

// Stager 把指令暂存到下一个 tick，由 sim.Loop 实现。
type Stager interface {
	Stage(env command.Envelope) (bool, string)
}

type HttpHandler struct {
	session Session
	stager  Stager
	log     logx.Logger
}

func NewHttpHandler(s Session, stager Stager, log logx.Logger) *HttpHandler {
	if log == nil {
		log = logx.Nop()
	}
	return &HttpHandler{session: s, stager: stager, log: log}
}

func (h *HttpHandler) RegisterRoutes(group *gin.RouterGroup) {
	g := group.Group("/api/session", middleware.Auth(h.session.SessionID()))
	g.GET("/digest", h.Digest)
	g.POST("/control-all", h.ControlAll)
	g.POST("/lost", h.MarkLost)
	g.POST("/commands", h.StageCommands)
	g.GET("/mine-target", h.MineTarget)
}

func (h *HttpHandler) Digest(c *gin.Context) {
	ctx := c.Request.Context()
	res, err := h.session.Digest(ctx)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, DigestResp{
		Tick:       res.Tick,
		Digest:     fmt.Sprintf("%016x", res.Digest),
		ControlAll: res.ControlAll,
		Lost:       res.Lost,
	})
}

func (h *HttpHandler) ControlAll(c *gin.Context) {
	ctx := c.Request.Context()
	var req ControlAllReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	if err := h.session.SetControlAll(ctx, *req.On); err != nil {
		h.error(ctx, c, err)
		return
	}
	h.audit(c, "control all changed", zap.Bool("on", *req.On))
	h.ok(c, gin.H{"on": *req.On})
}

func (h *HttpHandler) MarkLost(c *gin.Context) {
	ctx := c.Request.Context()
	var req MarkLostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	changed, err := h.session.MarkLost(ctx, *req.Player)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	if changed {
		h.audit(c, "player marked lost", zap.Int("player", *req.Player))
	}
	h.ok(c, MarkLostResp{Player: *req.Player, Changed: changed})
}

func (h *HttpHandler) MineTarget(c *gin.Context) {
	ctx := c.Request.Context()
	var req MineTargetReq
	if err := c.ShouldBindQuery(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	var building domain.BuildingType
	if err := building.UnmarshalText([]byte(req.Building)); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	res, err := h.session.FindMineTarget(ctx, *req.Player, building)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	resp := MineTargetResp{Player: res.Player, Found: res.Found}
	if res.Found {
		at := res.At
		resp.At = &at
	}
	h.ok(c, resp)
}

// StageCommands 逐条暂存，单条被拒不影响其余指令。
func (h *HttpHandler) StageCommands(c *gin.Context) {
	var req StageCommandsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	resp := StageCommandsResp{}
	for i, env := range req.Commands {
		if ok, reason := h.stager.Stage(env); !ok {
			resp.Rejected = append(resp.Rejected, Rejected{Index: i, Reason: reason})
			continue
		}
		resp.Staged++
	}
	h.ok(c, resp)
}

// audit 记录改变对局状态的管理操作。
func (h *HttpHandler) audit(c *gin.Context, msg string, fields ...zap.Field) {
	if claims, ok := middleware.ClaimsFrom(c); ok {
		fields = append(fields, zap.String("operator", claims.Operator))
	}
	h.log.WithContext(c.Request.Context()).Info(msg, fields...)
}

func (h *HttpHandler) ok(c *gin.Context, data any) {
	c.JSON(nethttp.StatusOK, Success(data))
}

func (h *HttpHandler) fail(c *gin.Context, code int, msg string) {
	c.JSON(nethttp.StatusOK, Error(code, msg))
}

func (h *HttpHandler) error(ctx context.Context, c *gin.Context, err error) {
	code, msg := HandleError(ctx, err)
	h.fail(c, code, msg)
}

// HandleError 把会话错误映射为业务码：调用方问题原样返回原因，服务端问题统一文案。
func HandleError(ctx context.Context, err error) (int, string) {
	code := actor.CodeFromError(err)
	transport.SetErrorReason(ctx, err.Error())
	if code < transport.SystemError {
		return code, err.Error()
	}
	return code, "系统繁忙，请稍后重试"
}

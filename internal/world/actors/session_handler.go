package actors

import (
	"context"
	"slices"

	"github.com/asynkron/protoactor-go/actor"

	"Settlers/internal/ai/target"
	"Settlers/internal/command"
	"Settlers/internal/game/domain"
	"Settlers/internal/shared/actor/messages"
	"Settlers/internal/shared/transport"
	"Settlers/internal/world/entity"
	"Settlers/modules/kit/tracex"
)

type SessionHandler struct{}

// 全局实例
var SH = &SessionHandler{}

// HandleApplyTick 解码并按顺序执行一个 tick 的指令，记录日志后回复执行后的校验和。
// tick 必须单调递增。重发最新 tick 且指令完全相同时只回复已有结果，其余重复或倒退的 tick 直接拒绝。
func (h *SessionHandler) HandleApplyTick(ctx actor.Context, p *SessionActor, request *messages.ApplyTick) {
	if request == nil {
		ctx.Respond(fail(transport.InvalidParam, "request parameter error"))
		return
	}
	if p.tick > 0 && request.Tick == p.tick && p.last.Tick == p.tick &&
		slices.EqualFunc(request.Commands, p.last.Commands, command.Envelope.Equal) {
		applied := 0
		for _, env := range request.Commands {
			if _, err := command.Decode(env); err == nil {
				applied++
			}
		}
		ctx.Respond(&messages.TickApplied{
			Tick:    request.Tick,
			Digest:  p.last.Digest,
			Applied: applied,
			Skipped: len(request.Commands) - applied,
		})
		return
	}
	if request.Tick <= p.tick {
		ctx.Respond(fail(transport.StaleTick, "tick already applied"))
		return
	}

	c := tracex.WithSession(context.Background(), p.sessionID)
	batch := command.DecodeBatch(request.Tick, request.Commands)
	p.commands.ApplyBatch(c, batch)
	p.tick = request.Tick

	digest := p.entity.Digest()
	p.record(entity.TickRecord{
		Tick:     request.Tick,
		Commands: slices.Clone(request.Commands),
		Digest:   digest,
	})

	ctx.Respond(&messages.TickApplied{
		Tick:    request.Tick,
		Digest:  digest,
		Applied: len(batch.Commands),
		Skipped: len(request.Commands) - len(batch.Commands),
	})
}

func (h *SessionHandler) HandleQueryDigest(ctx actor.Context, p *SessionActor, request *messages.QueryDigest) {
	if request == nil {
		ctx.Respond(fail(transport.InvalidParam, "request parameter error"))
		return
	}
	reply := &messages.DigestReply{
		Tick:       p.tick,
		Digest:     p.entity.Digest(),
		ControlAll: p.commands.ControlAll(),
	}
	for _, pl := range p.entity.Players() {
		if pl.Lost {
			reply.Lost = append(reply.Lost, int(pl.ID))
		}
	}
	ctx.Respond(reply)
}

// HandleSetControlAll 和 HandleMarkLost 都会改变后续指令的执行结果，经 admin 写进日志。
func (h *SessionHandler) HandleSetControlAll(ctx actor.Context, p *SessionActor, request *messages.SetControlAll) {
	if request == nil {
		ctx.Respond(fail(transport.InvalidParam, "request parameter error"))
		return
	}
	p.admin(command.ControlAll(request.On))
	ctx.Respond(&messages.ControlAllSet{On: request.On})
}

func (h *SessionHandler) HandleMarkLost(ctx actor.Context, p *SessionActor, request *messages.MarkLost) {
	if request == nil || request.Player < 0 || request.Player >= domain.MaxPlayers {
		ctx.Respond(fail(transport.InvalidParam, "request parameter error"))
		return
	}
	changed := p.admin(command.MarkLost(domain.PlayerID(request.Player)))
	ctx.Respond(&messages.LostMarked{Player: request.Player, Changed: changed})
}

// HandleFindMineTarget 以玩家大本营为中心，在无主领地里找下一座矿的位置，再落到玩家边界上。
func (h *SessionHandler) HandleFindMineTarget(ctx actor.Context, p *SessionActor, request *messages.FindMineTarget) {
	if request == nil || request.Player < 0 || request.Player >= domain.MaxPlayers {
		ctx.Respond(fail(transport.InvalidParam, "request parameter error"))
		return
	}
	player := domain.PlayerID(request.Player)
	pl, ok := p.entity.Player(player)
	if !ok || pl.Home == nil {
		ctx.Respond(fail(transport.InvalidParam, "player has no home"))
		return
	}
	if request.Building.MineResource() == domain.ResourceNone {
		ctx.Respond(fail(transport.InvalidParam, "not a mine"))
		return
	}

	finder := target.NewMineTargetFinder(p.entity, player, p.deps.MineDistance, request.Building,
		target.WithFilter(p.deps.Filters[request.Building.MineResource()]))
	at, found := finder.FindTarget(p.entity.Border(player), *pl.Home)
	ctx.Respond(&messages.MineTarget{Player: request.Player, Found: found, At: at})
}

func fail(code int, reason string) *messages.FailResp {
	return &messages.FailResp{
		Code:    code,
		Message: reason,
	}
}

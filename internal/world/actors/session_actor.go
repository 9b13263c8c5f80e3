package actors

import (
	"context"
	"slices"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"

	"Settlers/internal/command"
	"Settlers/internal/game/domain"
	"Settlers/internal/shared/actor/messages"
	"Settlers/internal/shared/transport"
	"Settlers/internal/world/app/port"
	"Settlers/internal/world/dc"
	"Settlers/internal/world/dispatch"
	"Settlers/internal/world/entity"
	"Settlers/internal/world/search"
	"Settlers/modules/kit/logx"
	"Settlers/modules/kit/tracex"
)

const defaultMineDistance = 30

type State int

const (
	None State = iota
	Init
	Online
	Offline
	Stopping
)

// SessionDeps 会话 actor 的外部依赖。
type SessionDeps struct {
	Journal    port.JournalRepository
	Worlds     port.WorldLoader
	Log        logx.Logger
	ControlAll bool
	FlushEvery time.Duration

	// MineDistance 矿区选址的搜索半径，Filters 按资源附加配置里的表达式。
	MineDistance int
	Filters      map[domain.ResourceType]*search.Filter
}

// SessionActor 一局对局的唯一写者：世界状态只在 Receive 里被修改。
type SessionActor struct {
	state      State
	sessionID  string
	deps       SessionDeps
	dc         *dc.JournalDC
	entity     *entity.World
	commands   *dispatch.Dispatcher
	dispatcher *Dispatcher
	tick       uint64
	last       entity.TickRecord
	log        logx.Logger
	flushStop  chan struct{}
}

type flushTick struct{}

func (flushTick) NotInfluenceReceiveTimeout() {}

func NewSessionActor(sessionID string, deps SessionDeps) *SessionActor {
	log := deps.Log
	if log == nil {
		log = logx.Nop()
	}
	if deps.MineDistance <= 0 {
		deps.MineDistance = defaultMineDistance
	}
	return &SessionActor{
		state:      None,
		sessionID:  sessionID,
		deps:       deps,
		dc:         dc.NewJournalDC(deps.Journal, sessionID, deps.FlushEvery, log),
		dispatcher: NewDispatcher(),
		log:        log,
	}
}

func (p *SessionActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		p.state = Init
		p.init(ctx)
		return
	case *actor.Stopping:
		p.stopFlushLoop()
		closeCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := p.dc.Close(closeCtx); err != nil {
			ctx.Logger().Error("session dc close failed", "session_id", p.sessionID, "err", err)
		}
		p.state = Stopping
		return
	case *actor.Stopped:
		p.stopFlushLoop()
		p.state = Offline
		return
	case *actor.Restarting:
		p.stopFlushLoop()
		p.state = Init
		return
	case flushTick:
		if p.state != Online {
			return
		}
		if err := p.dc.Flush(context.TODO()); err != nil {
			ctx.Logger().Error("session periodic flush failed", "session_id", p.sessionID, "err", err)
		}
		return
	case messages.SessionMessage:
		if msg == nil {
			ctx.Respond(fail(transport.InvalidParam, "nil request"))
			return
		}

		if p.state != Online {
			ctx.Respond(fail(transport.SessionOffline, "session not online"))
			return
		}

		p.dispatcher.Dispatch(ctx, p, msg)
	default:
		return
	}
}

func (p *SessionActor) init(ctx actor.Context) {
	loadCtx := tracex.WithSession(context.Background(), p.sessionID)
	e, records, err := p.dc.Load(loadCtx, p.deps.Worlds)
	if err != nil {
		logx.ReportSysError(loadCtx, p.log, logx.NewSysLog("session_load", err))
		p.state = Stopping
		ctx.Stop(ctx.Self())
		return
	}
	p.entity = e
	// 管理员模式以日志为准，配置值和日志不一致时作为一次新的管理操作记下来
	p.commands = dispatch.NewDispatcher(e, p.log, dispatch.WithSaver(p.dc))
	p.replay(loadCtx, records)
	p.admin(command.ControlAll(p.deps.ControlAll))
	p.state = Online
	p.startFlushLoop(ctx)
}

// replay 重启时把已持久化的日志重新执行一遍，校验和不一致只告警。
func (p *SessionActor) replay(ctx context.Context, records []entity.TickRecord) {
	for _, rec := range records {
		p.commands.ApplyRecord(ctx, rec)
		p.tick = rec.Tick
		p.last = rec
		if got := p.entity.Digest(); got != rec.Digest {
			p.log.WithContext(ctx).Warn("journal replay digest mismatch",
				zap.Uint64("tick", rec.Tick),
				zap.Uint64("want", rec.Digest),
				zap.Uint64("got", got),
			)
		}
	}
	if len(records) > 0 {
		p.entity.ClearDirty()
		p.log.WithContext(ctx).Info("journal replayed", zap.Int("ticks", len(records)), zap.Uint64("tick", p.tick))
	}
}

// record 记录刚执行完的 tick。
func (p *SessionActor) record(rec entity.TickRecord) {
	p.last = rec
	p.dc.Record(rec)
}

// admin 执行管理操作并追加到当前 tick 的日志记录上，重放时在同样的位置生效。
// 同一 tick 的记录会被整条重写。
func (p *SessionActor) admin(a command.AdminAction) bool {
	if !p.commands.ApplyAdmin(a) {
		return false
	}
	rec := p.last
	rec.Tick = p.tick
	rec.Admin = append(slices.Clone(rec.Admin), a)
	rec.Digest = p.entity.Digest()
	p.record(rec)
	return true
}

func (p *SessionActor) SessionID() string {
	return p.sessionID
}

func (p *SessionActor) Entity() *entity.World {
	return p.entity
}

func (p *SessionActor) DC() *dc.JournalDC {
	return p.dc
}

func (p *SessionActor) startFlushLoop(ctx actor.Context) {
	if p.flushStop != nil {
		return
	}
	interval := p.dc.FlushEvery()
	if interval <= 0 {
		return
	}
	p.flushStop = make(chan struct{})
	self := ctx.Self()
	root := ctx.ActorSystem().Root

	go func(stop <-chan struct{}, every time.Duration) {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				root.Send(self, flushTick{})
			case <-stop:
				return
			}
		}
	}(p.flushStop, interval)
}

func (p *SessionActor) stopFlushLoop() {
	if p.flushStop == nil {
		return
	}
	close(p.flushStop)
	p.flushStop = nil
}

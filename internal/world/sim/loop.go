package sim

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"Settlers/internal/command"
	"Settlers/internal/game/domain"
	"Settlers/internal/shared/actor/messages"
	"Settlers/internal/shared/transport"
	"Settlers/internal/world/actor"
	"Settlers/modules/kit/logx"
	"Settlers/modules/kit/tracex"
)

const (
	defaultTickRate = 10

	DropBufferFull  = "buffer_full"
	DropPlayerLimit = "player_limit"
	DropMalformed   = "malformed"
)

// Runner 执行一个 tick 的会话端口，由 actor.Runtime 实现。
type Runner interface {
	ApplyTick(ctx context.Context, tick uint64, envs []command.Envelope) (*messages.TickApplied, error)
	Digest(ctx context.Context) (*messages.DigestReply, error)
}

type LoopConfig struct {
	TickRate        int
	CommandCapacity int
	// PerPlayerLimit 单个玩家一个 tick 内最多暂存的指令数，0 表示不限。
	PerPlayerLimit int
}

// StepResult 一次 Tick 的结果。
type StepResult struct {
	Tick     uint64
	Digest   uint64
	Applied  int
	Skipped  int
	Duration time.Duration
}

// Loop 把暂存的指令按固定节奏打包成 tick 提交给会话。
type Loop struct {
	runner Runner
	buffer *CommandBuffer
	config LoopConfig
	log    logx.Logger

	queueMu   sync.Mutex
	perPlayer map[domain.PlayerID]int

	// 以下字段只在 Tick 里访问
	tick   uint64
	synced bool
	carry  []command.Envelope
	// retry 上次提交结果未知（超时等），carry 必须原样用同一个 tick 重发
	retry bool

	afterStep func(StepResult)
}

type LoopOption func(*Loop)

// WithAfterStep 每个成功的 tick 之后回调，用于测试和统计。
func WithAfterStep(fn func(StepResult)) LoopOption {
	return func(l *Loop) { l.afterStep = fn }
}

func NewLoop(runner Runner, cfg LoopConfig, log logx.Logger, opts ...LoopOption) *Loop {
	if cfg.TickRate <= 0 {
		cfg.TickRate = defaultTickRate
	}
	if log == nil {
		log = logx.Nop()
	}
	l := &Loop{
		runner:    runner,
		buffer:    NewCommandBuffer(cfg.CommandCapacity),
		config:    cfg,
		log:       log,
		perPlayer: make(map[domain.PlayerID]int),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Stage 暂存一条指令等下一个 tick 执行。被拒绝时返回原因。
func (l *Loop) Stage(env command.Envelope) (bool, string) {
	if l == nil {
		return false, DropBufferFull
	}
	if _, err := command.Decode(env); err != nil {
		l.reportDrop(env, DropMalformed, zap.Error(err))
		return false, DropMalformed
	}

	l.queueMu.Lock()
	reason := ""
	switch {
	case l.config.PerPlayerLimit > 0 && l.perPlayer[env.Player] >= l.config.PerPlayerLimit:
		reason = DropPlayerLimit
	case !l.buffer.Push(env):
		reason = DropBufferFull
	default:
		l.perPlayer[env.Player]++
	}
	l.queueMu.Unlock()

	if reason != "" {
		l.reportDrop(env, reason)
		return false, reason
	}
	return true, ""
}

// Submit 编码并暂存一条指令。
func (l *Loop) Submit(cmd command.Command) (bool, string) {
	env, err := command.Encode(cmd)
	if err != nil {
		return false, DropMalformed
	}
	return l.Stage(env)
}

// Pending 已暂存未执行的指令数，包括上次提交失败留下的。只能在驱动 Tick 的 goroutine 里调用。
func (l *Loop) Pending() int {
	return l.buffer.Len() + len(l.carry)
}

// Tick 把暂存的指令打包成下一个 tick 提交。
// 提交结果未知时下一次用同一个 tick 原样重发，会话对已执行的 tick 只确认不重复执行；
// 会话回复 StaleTick 说明这批指令没有执行，重新对齐后并入下一个 tick。
func (l *Loop) Tick(ctx context.Context) (StepResult, error) {
	if !l.synced {
		if err := l.sync(ctx); err != nil {
			return StepResult{}, err
		}
	}

	envs := l.carry
	if !l.retry {
		envs = append(envs, l.drain()...)
	}
	l.carry, l.retry = nil, false
	next := l.tick + 1

	start := time.Now()
	res, err := l.runner.ApplyTick(ctx, next, envs)
	if err != nil {
		l.carry = envs
		if actor.CodeFromError(err) == transport.StaleTick {
			// 会话的 tick 被别处推进了，下次重新对齐
			l.synced = false
		} else {
			l.retry = true
		}
		logx.ReportSysError(tracex.WithTick(ctx, next), l.log, logx.NewSysLog("sim_tick", err),
			zap.Int("pending", len(envs)))
		return StepResult{}, err
	}

	l.tick = res.Tick
	result := StepResult{
		Tick:     res.Tick,
		Digest:   res.Digest,
		Applied:  res.Applied,
		Skipped:  res.Skipped,
		Duration: time.Since(start),
	}
	if l.afterStep != nil {
		l.afterStep(result)
	}
	return result, nil
}

// Run 按 TickRate 驱动 Tick，直到 ctx 结束。
func (l *Loop) Run(ctx context.Context) error {
	if l == nil {
		return errors.New("sim: nil loop")
	}
	ticker := time.NewTicker(time.Second / time.Duration(l.config.TickRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			// 失败已记录，指令留到下一拍
			_, _ = l.Tick(ctx)
		}
	}
}

func (l *Loop) sync(ctx context.Context) error {
	d, err := l.runner.Digest(ctx)
	if err != nil {
		return err
	}
	l.tick = d.Tick
	l.synced = true
	return nil
}

func (l *Loop) drain() []command.Envelope {
	l.queueMu.Lock()
	defer l.queueMu.Unlock()
	envs := l.buffer.Drain()
	if len(l.perPlayer) > 0 {
		l.perPlayer = make(map[domain.PlayerID]int)
	}
	return envs
}

func (l *Loop) reportDrop(env command.Envelope, reason string, fields ...zap.Field) {
	logx.ReportDropped(context.Background(), l.log, logx.DropLog{
		Kind:   env.Kind.String(),
		Player: int(env.Player),
		Reason: reason,
	}, fields...)
}

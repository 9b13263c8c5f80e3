package actor

import (
	"context"
	"errors"
	"time"

	protoactor "github.com/asynkron/protoactor-go/actor"

	"Settlers/internal/command"
	"Settlers/internal/game/domain"
	"Settlers/internal/shared/actor/messages"
	"Settlers/internal/shared/transport"
	"Settlers/internal/world/actors"
)

const defaultAskTimeout = 3 * time.Second

type RuntimeError struct {
	Code    int
	Message string
	Cause   error
}

func (e *RuntimeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *RuntimeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Runtime 会话 actor 的同步调用入口，供 sim loop 和管理接口使用。
type Runtime struct {
	system    *protoactor.ActorSystem
	root      *protoactor.RootContext
	manager   *protoactor.PID
	sessionID string
	timeout   time.Duration
}

func NewRuntime(sessionID string, deps actors.SessionDeps, askTimeout time.Duration) *Runtime {
	if askTimeout <= 0 {
		askTimeout = defaultAskTimeout
	}

	system := protoactor.NewActorSystem()
	root := system.Root
	managerProps := protoactor.PropsFromProducer(func() protoactor.Actor {
		return actors.NewManagerActor(deps)
	})
	manager := root.Spawn(managerProps)

	return &Runtime{
		system:    system,
		root:      root,
		manager:   manager,
		sessionID: sessionID,
		timeout:   askTimeout,
	}
}

func (r *Runtime) Shutdown() {
	if r == nil {
		return
	}
	if r.root != nil && r.manager != nil {
		_ = r.root.StopFuture(r.manager).Wait()
	}
	if r.system != nil {
		r.system.Shutdown()
	}
}

func (r *Runtime) SessionID() string {
	return r.sessionID
}

func (r *Runtime) base() messages.SessionBaseMessage {
	return messages.SessionBaseMessage{SessionId: r.sessionID}
}

// ApplyTick 提交一个 tick 的指令并等待执行完成。
func (r *Runtime) ApplyTick(ctx context.Context, tick uint64, envs []command.Envelope) (*messages.TickApplied, error) {
	return ask[*messages.TickApplied](r, ctx, &messages.ApplyTick{
		SessionBaseMessage: r.base(),
		Tick:               tick,
		Commands:           envs,
	})
}

func (r *Runtime) Digest(ctx context.Context) (*messages.DigestReply, error) {
	return ask[*messages.DigestReply](r, ctx, &messages.QueryDigest{SessionBaseMessage: r.base()})
}

func (r *Runtime) SetControlAll(ctx context.Context, on bool) error {
	_, err := ask[*messages.ControlAllSet](r, ctx, &messages.SetControlAll{SessionBaseMessage: r.base(), On: on})
	return err
}

// MarkLost 返回玩家状态是否发生了变化。
func (r *Runtime) MarkLost(ctx context.Context, player int) (bool, error) {
	res, err := ask[*messages.LostMarked](r, ctx, &messages.MarkLost{SessionBaseMessage: r.base(), Player: player})
	if err != nil {
		return false, err
	}
	return res.Changed, nil
}

// FindMineTarget 查询玩家下一座矿的扩张目标。
func (r *Runtime) FindMineTarget(ctx context.Context, player int, building domain.BuildingType) (*messages.MineTarget, error) {
	return ask[*messages.MineTarget](r, ctx, &messages.FindMineTarget{
		SessionBaseMessage: r.base(),
		Player:             player,
		Building:           building,
	})
}

func ask[T any](r *Runtime, ctx context.Context, msg messages.SessionMessage) (T, error) {
	var zero T
	res, err := r.request(r.manager, msg, r.timeoutFromContext(ctx))
	if err != nil {
		return zero, err
	}
	if f, ok := res.(*messages.FailResp); ok {
		return zero, &RuntimeError{Code: f.Code, Message: f.Message}
	}
	resp, ok := res.(T)
	if !ok {
		return zero, &RuntimeError{
			Code:    transport.SystemError,
			Message: "actor 返回类型非法",
		}
	}
	return resp, nil
}

func (r *Runtime) request(pid *protoactor.PID, msg any, timeout time.Duration) (any, error) {
	if r == nil || r.root == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor runtime 未初始化"}
	}
	if pid == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor pid 为空"}
	}

	future := r.root.RequestFuture(pid, msg, timeout)
	res, err := future.Result()
	if err != nil {
		code := transport.SystemError
		if errors.Is(err, protoactor.ErrTimeout) {
			code = transport.Timeout
		}
		return nil, &RuntimeError{
			Code:    code,
			Message: "actor 请求失败",
			Cause:   err,
		}
	}
	return res, nil
}

func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	if r == nil || r.timeout <= 0 {
		return defaultAskTimeout
	}
	if ctx == nil {
		return r.timeout
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	if remain < r.timeout {
		return remain
	}
	return r.timeout
}

func CodeFromError(err error) int {
	if err == nil {
		return transport.OK
	}
	var re *RuntimeError
	if errors.As(err, &re) && re != nil && re.Code != 0 {
		return re.Code
	}
	return transport.SystemError
}

package actors

import (
	"github.com/asynkron/protoactor-go/actor"

	"Settlers/internal/shared/actor/messages"
	"Settlers/internal/shared/transport"
)

// ManagerActor 按会话 id 路由消息，会话 actor 按需创建。
type ManagerActor struct {
	deps     SessionDeps
	sessions map[string]*actor.PID
}

func NewManagerActor(deps SessionDeps) *ManagerActor {
	return &ManagerActor{
		sessions: make(map[string]*actor.PID),
		deps:     deps,
	}
}

func (m *ManagerActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Terminated:
		for id, pid := range m.sessions {
			if msg.Who != nil && pid.Id == msg.Who.Id && pid.Address == msg.Who.Address {
				delete(m.sessions, id)
			}
		}
		return
	case messages.SessionMessage:
		if msg.SessionID() == "" {
			ctx.Respond(fail(transport.InvalidParam, "session id is empty"))
			return
		}
		ctx.Forward(m.getOrSpawn(ctx, msg.SessionID()))
	}
}

func (m *ManagerActor) getOrSpawn(ctx actor.Context, sessionID string) *actor.PID {
	if pid, ok := m.sessions[sessionID]; ok && pid != nil {
		return pid
	}

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewSessionActor(sessionID, m.deps)
	})
	pid := ctx.Spawn(props)
	ctx.Watch(pid)
	m.sessions[sessionID] = pid
	return pid
}

package messages

type FailResp struct {
	Code    int
	Message string
}

// SessionMessage 发给会话 actor 的消息，按会话 id 路由。
type SessionMessage interface {
	SessionID() string
}

type SessionBaseMessage struct {
	SessionId string
}

func (m SessionBaseMessage) SessionID() string {
	return m.SessionId
}

package port

import (
	"context"

	"Settlers/internal/world/entity"
)

// JournalRepository 指令日志和快速存档的存储。
type JournalRepository interface {
	// Append 追加一个 tick 的记录；同一 tick 重复写入时覆盖。
	Append(ctx context.Context, rec *entity.TickRecord) error
	// Load 按 tick 升序返回会话的全部记录，没有记录时返回空切片。
	Load(ctx context.Context, sessionID string) ([]entity.TickRecord, error)
	SaveSnapshot(ctx context.Context, s *entity.WorldPersistSnapshot) error
}

// WorldLoader 构建会话的初始世界。
type WorldLoader interface {
	LoadWorld(ctx context.Context, sessionID string) (*entity.World, error)
}

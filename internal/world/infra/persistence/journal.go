package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"Settlers/internal/shared/infrastructure/db"
	"Settlers/internal/shared/infrastructure/mongo"
	"Settlers/internal/shared/serverconfig"
	"Settlers/internal/world/app/port"
	"Settlers/internal/world/infra/persistence/memory"
	"Settlers/internal/world/infra/persistence/mongodb"
	"Settlers/internal/world/infra/persistence/mysql"
)

const (
	BackendMemory  = "memory"
	BackendMongoDB = "mongodb"
	BackendMySQL   = "mysql"
)

// CloseFunc 释放 journal 底层连接。
type CloseFunc func(ctx context.Context) error

func noopClose(context.Context) error { return nil }

// OpenJournal 按 journal.backend 选择存储：memory（默认）、mongodb、mysql。
func OpenJournal(ctx context.Context, conf serverconfig.Config, l *zap.Logger) (port.JournalRepository, CloseFunc, error) {
	switch conf.Journal.Backend {
	case "", BackendMemory:
		return memory.NewJournalRepository(), noopClose, nil

	case BackendMongoDB:
		client, err := mongo.Open(ctx, conf.MongoDB, l)
		if err != nil {
			return nil, nil, fmt.Errorf("open mongodb journal: %w", err)
		}
		repo := mongodb.NewJournalRepository(client.Database(conf.MongoDB.Database), conf.MongoDB.Collection)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, fmt.Errorf("ensure journal indexes: %w", err)
		}
		return repo, client.Disconnect, nil

	case BackendMySQL:
		gdb, err := db.Open(conf.MySQL)
		if err != nil {
			return nil, nil, fmt.Errorf("open mysql journal: %w", err)
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, nil, err
		}
		repo := mysql.NewJournalRepo(gdb)
		if err := repo.Migrate(); err != nil {
			_ = sqlDB.Close()
			return nil, nil, fmt.Errorf("migrate journal tables: %w", err)
		}
		return repo, func(context.Context) error { return sqlDB.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown journal backend %q", conf.Journal.Backend)
	}
}

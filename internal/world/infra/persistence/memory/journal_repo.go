package memory

import (
	"context"
	"slices"
	"sync"

	"Settlers/internal/world/entity"
)

// JournalRepository 进程内存储，测试和单机对局使用。
type JournalRepository struct {
	mu        sync.RWMutex
	records   map[string][]entity.TickRecord
	snapshots map[string]*entity.WorldPersistSnapshot
}

func NewJournalRepository() *JournalRepository {
	return &JournalRepository{
		records:   make(map[string][]entity.TickRecord),
		snapshots: make(map[string]*entity.WorldPersistSnapshot),
	}
}

func (r *JournalRepository) Append(_ context.Context, rec *entity.TickRecord) error {
	if rec == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.records[rec.SessionID]
	cp := *rec
	cp.Commands = slices.Clone(rec.Commands)
	cp.Admin = slices.Clone(rec.Admin)
	i, found := slices.BinarySearchFunc(list, rec.Tick, func(e entity.TickRecord, tick uint64) int {
		switch {
		case e.Tick < tick:
			return -1
		case e.Tick > tick:
			return 1
		}
		return 0
	})
	if found {
		list[i] = cp
	} else {
		list = slices.Insert(list, i, cp)
	}
	r.records[rec.SessionID] = list
	return nil
}

func (r *JournalRepository) Load(_ context.Context, sessionID string) ([]entity.TickRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.records[sessionID]), nil
}

func (r *JournalRepository) SaveSnapshot(_ context.Context, s *entity.WorldPersistSnapshot) error {
	if s == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.snapshots[s.SessionID]; ok && cur.Version > s.Version {
		return nil
	}
	r.snapshots[s.SessionID] = s
	return nil
}

// Snapshot 最近一次保存的快照。
func (r *JournalRepository) Snapshot(sessionID string) (*entity.WorldPersistSnapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.snapshots[sessionID]
	return s, ok
}

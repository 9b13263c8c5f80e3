package scenario

import (
	"context"

	"Settlers/internal/world/dispatch"
	"Settlers/internal/world/entity"
	"Settlers/modules/kit/logx"
)

// TickDigest 某个 tick 执行完后的世界校验和。
type TickDigest struct {
	Tick   uint64
	Digest uint64
}

// Replay 在一个全新的世界上执行整段脚本，返回每个 tick 之后的校验和。
func (s *Scenario) Replay(ctx context.Context, log logx.Logger, opts ...dispatch.Option) (*entity.World, []TickDigest, error) {
	w, err := s.Build()
	if err != nil {
		return nil, nil, err
	}
	batches, err := s.Batches()
	if err != nil {
		return nil, nil, err
	}
	d := dispatch.NewDispatcher(w, log, opts...)
	out := make([]TickDigest, 0, len(batches))
	for _, b := range batches {
		d.ApplyBatch(ctx, b)
		out = append(out, TickDigest{Tick: b.Tick, Digest: w.Digest()})
	}
	return w, out, nil
}

// ReplayRecords 在场景的初始世界上重放持久化的日志，返回第一个校验和不一致的 tick（0 表示全部一致）。
func (s *Scenario) ReplayRecords(ctx context.Context, log logx.Logger, records []entity.TickRecord) (*entity.World, uint64, error) {
	w, err := s.Build()
	if err != nil {
		return nil, 0, err
	}
	d := dispatch.NewDispatcher(w, log)
	var mismatch uint64
	for _, rec := range records {
		d.ApplyRecord(ctx, rec)
		if mismatch == 0 && w.Digest() != rec.Digest {
			mismatch = rec.Tick
		}
	}
	return w, mismatch, nil
}

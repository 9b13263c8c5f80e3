package dc

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Settlers/internal/game/domain"
	"Settlers/internal/world/entity"
	"Settlers/internal/world/infra/persistence/memory"
	"Settlers/modules/kit/errx"
)

type loaderFunc func(ctx context.Context, sessionID string) (*entity.World, error)

func (f loaderFunc) LoadWorld(ctx context.Context, sessionID string) (*entity.World, error) {
	return f(ctx, sessionID)
}

func tinyWorld(context.Context, string) (*entity.World, error) {
	w := entity.NewWorld(4, 4)
	w.AddPlayer(entity.NewPlayer(0, domain.CivRoman, 10))
	w.ClearDirty()
	return w, nil
}

// flakyRepo 前 failures 次 Append 失败。
type flakyRepo struct {
	*memory.JournalRepository

	mu       sync.Mutex
	failures int
	calls    int
}

func (r *flakyRepo) Append(ctx context.Context, rec *entity.TickRecord) error {
	r.mu.Lock()
	r.calls++
	fail := r.calls <= r.failures
	r.mu.Unlock()
	if fail {
		return errors.New("write timeout")
	}
	return r.JournalRepository.Append(ctx, rec)
}

func closeNow(t *testing.T, d *JournalDC) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	require.NoError(t, d.Close(ctx))
}

func ticksOf(records []entity.TickRecord) []uint64 {
	out := make([]uint64, len(records))
	for i, r := range records {
		out[i] = r.Tick
	}
	return out
}

func TestJournalDC_按顺序写入记录(t *testing.T) {
	repo := memory.NewJournalRepository()
	d := NewJournalDC(repo, "s1", time.Hour, nil)
	_, records, err := d.Load(context.Background(), loaderFunc(tinyWorld))
	require.NoError(t, err)
	assert.Empty(t, records)

	for tick := uint64(1); tick <= 3; tick++ {
		d.Record(entity.TickRecord{Tick: tick, Digest: tick * 10})
	}
	closeNow(t, d)

	got, err := repo.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 3}, ticksOf(got))
	assert.Equal(t, "s1", got[0].SessionID)
	assert.Zero(t, d.Pending())
}

func TestJournalDC_写失败重新入队且顺序不变(t *testing.T) {
	repo := &flakyRepo{JournalRepository: memory.NewJournalRepository(), failures: 1}
	d := NewJournalDC(repo, "s1", time.Hour, nil)
	_, _, err := d.Load(context.Background(), loaderFunc(tinyWorld))
	require.NoError(t, err)

	d.Record(entity.TickRecord{Tick: 1})
	d.Record(entity.TickRecord{Tick: 2})

	require.Eventually(t, func() bool {
		got, _ := repo.Load(context.Background(), "s1")
		return len(got) == 2
	}, 2*time.Second, 10*time.Millisecond)
	closeNow(t, d)

	got, err := repo.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2}, ticksOf(got))
}

func TestJournalDC_有修改时Flush保存快照(t *testing.T) {
	repo := memory.NewJournalRepository()
	d := NewJournalDC(repo, "s1", time.Hour, nil)
	w, _, err := d.Load(context.Background(), loaderFunc(tinyWorld))
	require.NoError(t, err)

	require.NoError(t, d.Flush(context.Background()))
	d.Record(entity.TickRecord{Tick: 4})
	require.True(t, w.MarkLost(0))
	assert.True(t, d.IsDirty())
	require.NoError(t, d.Flush(context.Background()))
	assert.False(t, d.IsDirty())
	closeNow(t, d)

	s, ok := repo.Snapshot("s1")
	require.True(t, ok)
	assert.Equal(t, uint64(1), s.Version)
	assert.Equal(t, uint64(4), s.Tick)
	assert.Equal(t, w.Digest(), s.Digest)
}

func TestJournalDC_QuickSave版本递增(t *testing.T) {
	repo := memory.NewJournalRepository()
	d := NewJournalDC(repo, "s1", time.Hour, nil)
	_, _, err := d.Load(context.Background(), loaderFunc(tinyWorld))
	require.NoError(t, err)

	require.NoError(t, d.QuickSave(context.Background()))
	require.NoError(t, d.QuickSave(context.Background()))
	closeNow(t, d)

	s, ok := repo.Snapshot("s1")
	require.True(t, ok)
	assert.Equal(t, uint64(2), s.Version)

	err = d.QuickSave(context.Background())
	assert.True(t, errors.Is(err, errx.ErrJournal))
}

func TestJournalDC_ctx已取消时QuickSave不生成快照(t *testing.T) {
	repo := memory.NewJournalRepository()
	d := NewJournalDC(repo, "s1", time.Hour, nil)
	_, _, err := d.Load(context.Background(), loaderFunc(tinyWorld))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = d.QuickSave(ctx)
	assert.True(t, errors.Is(err, errx.ErrJournal))
	assert.ErrorIs(t, err, context.Canceled)
	closeNow(t, d)

	_, ok := repo.Snapshot("s1")
	assert.False(t, ok)
}

func TestJournalDC_没有存储时QuickSave失败(t *testing.T) {
	d := NewJournalDC(nil, "s1", time.Hour, nil)
	_, _, err := d.Load(context.Background(), loaderFunc(tinyWorld))
	require.NoError(t, err)

	err = d.QuickSave(context.Background())
	assert.True(t, errors.Is(err, errx.ErrJournal))
	closeNow(t, d)
}

func TestJournalDC_已有日志时从最后一个tick继续(t *testing.T) {
	repo := memory.NewJournalRepository()
	for tick := uint64(1); tick <= 2; tick++ {
		require.NoError(t, repo.Append(context.Background(), &entity.TickRecord{SessionID: "s1", Tick: tick}))
	}
	d := NewJournalDC(repo, "s1", time.Hour, nil)
	_, records, err := d.Load(context.Background(), loaderFunc(tinyWorld))
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.NoError(t, d.QuickSave(context.Background()))
	closeNow(t, d)

	s, ok := repo.Snapshot("s1")
	require.True(t, ok)
	assert.Equal(t, uint64(2), s.Tick)
}

func TestJournalDC_没有加载器时报场景错误(t *testing.T) {
	d := NewJournalDC(nil, "s1", time.Hour, nil)
	_, _, err := d.Load(context.Background(), nil)
	assert.True(t, errors.Is(err, errx.ErrScenario))
	closeNow(t, d)
}

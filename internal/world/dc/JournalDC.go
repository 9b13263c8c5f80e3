package dc

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"Settlers/internal/world/app/port"
	"Settlers/internal/world/entity"
	"Settlers/modules/kit/errx"
	"Settlers/modules/kit/logx"
)

const (
	defaultFlushEvery = time.Second
	retryBackoff      = 200 * time.Millisecond
)

// JournalDC 会话的写后持久化：tick 记录按顺序追加，快照只保留最新版本。
// 会话 actor 只调用 Record/QuickSave/Flush，真正的写库在 writerLoop 里进行。
type JournalDC struct {
	repo       port.JournalRepository
	sessionID  string
	entity     *entity.World
	flushEvery time.Duration
	log        logx.Logger

	mu       sync.Mutex
	records  []entity.TickRecord
	pending  *entity.WorldPersistSnapshot
	version  uint64
	lastTick uint64
	closed   bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

func NewJournalDC(repo port.JournalRepository, sessionID string, flushEvery time.Duration, log logx.Logger) *JournalDC {
	if flushEvery <= 0 {
		flushEvery = defaultFlushEvery
	}
	if log == nil {
		log = logx.Nop()
	}
	d := &JournalDC{
		repo:       repo,
		sessionID:  sessionID,
		flushEvery: flushEvery,
		log:        log,
		wake:       make(chan struct{}, 1),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	go d.writerLoop()
	return d
}

// Load 构建初始世界并读出已持久化的日志，调用方负责把日志重放到世界上。
func (d *JournalDC) Load(ctx context.Context, loader port.WorldLoader) (*entity.World, []entity.TickRecord, error) {
	if loader == nil {
		return nil, nil, errx.ErrScenario.WithData("session", d.sessionID)
	}
	world, err := loader.LoadWorld(ctx, d.sessionID)
	if err != nil {
		return nil, nil, err
	}
	var records []entity.TickRecord
	if d.repo != nil {
		records, err = d.repo.Load(ctx, d.sessionID)
		if err != nil {
			return nil, nil, errx.ErrJournal.WithData("session", d.sessionID).WithCause(err)
		}
	}
	d.entity = world
	if n := len(records); n > 0 {
		d.lastTick = records[n-1].Tick
	}
	return world, records, nil
}

// Record 追加一个已执行 tick 的记录。
func (d *JournalDC) Record(rec entity.TickRecord) {
	rec.SessionID = d.sessionID
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.records = append(d.records, rec)
	if rec.Tick > d.lastTick {
		d.lastTick = rec.Tick
	}
	d.mu.Unlock()
	d.signal()
}

// QuickSave 为当前世界生成一份快照并排队写入。
func (d *JournalDC) QuickSave(ctx context.Context) error {
	if d.repo == nil {
		return errx.ErrJournal.WithData("session", d.sessionID)
	}
	if err := ctx.Err(); err != nil {
		return errx.ErrJournal.WithData("session", d.sessionID).WithCause(err)
	}
	s, ok := d.buildNextSnapshot()
	if !ok {
		return errx.ErrJournal.WithData("session", d.sessionID)
	}
	if !d.enqueueLatest(s) {
		return errx.ErrJournal.WithData("session", d.sessionID).WithCause(errors.New("journal closed"))
	}
	return nil
}

// Flush 世界有修改时生成快照，并唤醒写协程处理积压的记录。
func (d *JournalDC) Flush(ctx context.Context) error {
	if d.repo == nil {
		return errors.New("journal repository is nil")
	}
	if d.IsDirty() {
		if s, ok := d.buildNextSnapshot(); ok {
			d.enqueueLatest(s)
			return nil
		}
	}
	d.signal()
	return nil
}

func (d *JournalDC) IsDirty() bool {
	if d.entity == nil {
		return false
	}
	return d.entity.Dirty()
}

func (d *JournalDC) Entity() *entity.World {
	return d.entity
}

func (d *JournalDC) FlushEvery() time.Duration {
	return d.flushEvery
}

// Pending 尚未写入的记录数。
func (d *JournalDC) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.records)
}

func (d *JournalDC) Close(ctx context.Context) error {
	if d.repo != nil {
		_ = d.Flush(ctx)
	}

	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.stop)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *JournalDC) buildNextSnapshot() (*entity.WorldPersistSnapshot, bool) {
	if d.entity == nil {
		return nil, false
	}
	d.mu.Lock()
	d.version++
	version := d.version
	tick := d.lastTick
	d.mu.Unlock()

	s := d.entity.BuildPersistSnapshot(d.sessionID, version, tick)
	d.entity.ClearDirty()
	return s, true
}

func (d *JournalDC) enqueueLatest(s *entity.WorldPersistSnapshot) bool {
	if s == nil {
		return false
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return false
	}
	if d.pending == nil || d.pending.Version < s.Version {
		d.pending = s
	}
	d.mu.Unlock()

	d.signal()
	return true
}

func (d *JournalDC) signal() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *JournalDC) popPending() ([]entity.TickRecord, *entity.WorldPersistSnapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()
	records, s := d.records, d.pending
	d.records, d.pending = nil, nil
	return records, s
}

// requeueOnError 把没写成功的记录放回队首，顺序不变；快照若已有更新版本则丢弃。
func (d *JournalDC) requeueOnError(records []entity.TickRecord, s *entity.WorldPersistSnapshot) {
	d.mu.Lock()
	if len(records) > 0 {
		d.records = append(records, d.records...)
	}
	if s != nil && (d.pending == nil || d.pending.Version < s.Version) {
		d.pending = s
	}
	d.mu.Unlock()
}

func (d *JournalDC) writerLoop() {
	defer close(d.done)

	for {
		select {
		case <-d.wake:
			d.consumePending(false)
		case <-d.stop:
			d.consumePending(true)
			return
		}
	}
}

// consumePending 持续写入直到队列为空。关闭时最多再重试一轮，避免存储不可用时卡住退出。
func (d *JournalDC) consumePending(closing bool) {
	for {
		records, s := d.popPending()
		if len(records) == 0 && s == nil {
			return
		}
		if err := d.save(records, s); err != nil {
			if closing {
				logx.ReportSysError(context.Background(), d.log, logx.NewSysLog("journal_close", err),
					zap.String("session_id", d.sessionID), zap.Int("lost_records", len(records)))
				return
			}
			logx.ReportSysError(context.Background(), d.log, logx.NewSysLog("journal_write", err),
				zap.String("session_id", d.sessionID))
			select {
			case <-time.After(retryBackoff):
			case <-d.stop:
				closing = true
			}
			continue
		}
	}
}

// save 按顺序写入；失败时未写入的部分（含失败那条）重新入队。
func (d *JournalDC) save(records []entity.TickRecord, s *entity.WorldPersistSnapshot) error {
	if d.repo == nil {
		return nil
	}
	ctx := context.Background()
	for i := range records {
		if err := d.repo.Append(ctx, &records[i]); err != nil {
			d.requeueOnError(records[i:], s)
			return errx.ErrJournal.WithData("tick", records[i].Tick).WithCause(err)
		}
	}
	if s != nil {
		if err := d.repo.SaveSnapshot(ctx, s); err != nil {
			d.requeueOnError(nil, s)
			return errx.ErrJournal.WithData("version", s.Version).WithCause(err)
		}
	}
	return nil
}

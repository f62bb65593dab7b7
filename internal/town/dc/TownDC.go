package dc

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"TownBuilder/internal/town/app/port"
	"TownBuilder/internal/town/entity"
	"TownBuilder/modules/kit/errx"
	"TownBuilder/modules/kit/logx"
)

const (
	defaultFlushEvery = 3000 * time.Millisecond
	retryBackoff      = 200 * time.Millisecond
)

// TownDC 缓冲日报并异步落库。
//
// Record/Flush 由 town actor 单线程调用；写库在独立的 writerLoop 中进行，
// 待写快照只保留最新一份，较旧快照的日报会并入新快照，不会丢失。
type TownDC struct {
	repo       port.ReportRepository
	log        logx.Logger
	flushEvery time.Duration

	buffered []entity.DayReport

	mu      sync.Mutex
	pending *entity.TownPersistSnapshot
	version uint64
	closed  bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

func NewTownDC(repo port.ReportRepository, flushEvery time.Duration, log logx.Logger) *TownDC {
	if flushEvery <= 0 {
		flushEvery = defaultFlushEvery
	}
	if log == nil {
		log = logx.Nop()
	}
	d := &TownDC{
		repo:       repo,
		log:        log,
		flushEvery: flushEvery,
		wake:       make(chan struct{}, 1),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	go d.writerLoop()
	return d
}

func (d *TownDC) FlushEvery() time.Duration {
	return d.flushEvery
}

// Record 暂存一份日报，下次 Flush 时随概览一起写出。
func (d *TownDC) Record(reports ...entity.DayReport) {
	d.buffered = append(d.buffered, reports...)
}

// Flush 账本没变化且没有新日报时什么也不做。
func (d *TownDC) Flush(ledger *entity.Ledger) error {
	if ledger == nil || (!ledger.Dirty() && len(d.buffered) == 0) {
		return nil
	}
	if d.repo == nil {
		return errx.NewSys(errx.CodeUnavailable, "report repository is nil")
	}

	d.mu.Lock()
	d.version++
	s := &entity.TownPersistSnapshot{
		Version: d.version,
		Summary: ledger.Summary(),
		Reports: d.buffered,
	}
	d.mu.Unlock()

	d.buffered = nil
	ledger.ClearDirty()
	d.enqueue(s)
	return nil
}

func (d *TownDC) Reports(ctx context.Context, townID entity.TownID, fromDay, limit int) ([]entity.DayReport, error) {
	if d.repo == nil {
		return nil, errx.NewSys(errx.CodeUnavailable, "report repository is nil")
	}
	return d.repo.Reports(ctx, townID, fromDay, limit)
}

func (d *TownDC) Close(ctx context.Context, ledger *entity.Ledger) error {
	_ = d.Flush(ledger)

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

// merge 把旧快照的日报排在新快照前面，概览取新版本。
func merge(older, newer *entity.TownPersistSnapshot) *entity.TownPersistSnapshot {
	if older == nil {
		return newer
	}
	if newer == nil {
		return older
	}
	if older.Version > newer.Version {
		older, newer = newer, older
	}
	reports := make([]entity.DayReport, 0, len(older.Reports)+len(newer.Reports))
	reports = append(reports, older.Reports...)
	reports = append(reports, newer.Reports...)
	return &entity.TownPersistSnapshot{Version: newer.Version, Summary: newer.Summary, Reports: reports}
}

func (d *TownDC) enqueue(s *entity.TownPersistSnapshot) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.pending = merge(d.pending, s)
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *TownDC) popPending() *entity.TownPersistSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.pending
	d.pending = nil
	return s
}

func (d *TownDC) requeue(s *entity.TownPersistSnapshot) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return false
	}
	d.pending = merge(s, d.pending)
	return true
}

func (d *TownDC) writerLoop() {
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

// consumePending 关闭阶段只尝试一次，失败的快照丢弃并记日志。
func (d *TownDC) consumePending(closing bool) {
	for {
		s := d.popPending()
		if s == nil {
			return
		}
		err := d.repo.Save(context.Background(), s)
		if err == nil {
			continue
		}
		logx.ReportSysError(context.Background(), d.log, "town_report_save", err,
			zap.Uint64("version", s.Version),
			zap.Int("reports", len(s.Reports)),
		)
		if closing || !d.requeue(s) {
			return
		}
		select {
		case <-time.After(retryBackoff):
		case <-d.stop:
			closing = true
		}
	}
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"shift-guard/internal/model"
	"shift-guard/internal/repository"
	"shift-guard/internal/shift"
	pkgredis "shift-guard/pkg/redis"
)

// ── 班次存取业务错误 ──

var (
	ErrInvalidDate = errors.New("日期格式无效，应为 YYYY-MM-DD 或 today")
	ErrShiftBusy   = errors.New("该营业日正在被其他请求修改，请稍后重试")
)

const (
	dateLayout    = "2006-01-02"
	todayAlias    = "today"
	lockRetries   = 5
	lockRetryWait = 100 * time.Millisecond
)

// ── 营业日锁 ──

// DayLocker 串行化同一营业日的变更
type DayLocker interface {
	Lock(ctx context.Context, date string) (unlock func(), err error)
}

// localDayLocker 进程内按日期加锁
type localDayLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newLocalDayLocker() *localDayLocker {
	return &localDayLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *localDayLocker) Lock(_ context.Context, date string) (func(), error) {
	l.mu.Lock()
	m, ok := l.locks[date]
	if !ok {
		m = &sync.Mutex{}
		l.locks[date] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock, nil
}

// redisDayLocker 进程内锁 + Redis 分布式锁（多实例部署）
type redisDayLocker struct {
	local *localDayLocker
	rdb   *pkgredis.Client
	ttl   time.Duration
}

func newRedisDayLocker(rdb *pkgredis.Client, ttl time.Duration) *redisDayLocker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &redisDayLocker{local: newLocalDayLocker(), rdb: rdb, ttl: ttl}
}

func (l *redisDayLocker) Lock(ctx context.Context, date string) (func(), error) {
	unlockLocal, _ := l.local.Lock(ctx, date)

	for attempt := 0; ; attempt++ {
		release, err := l.rdb.AcquireLock(ctx, date, l.ttl)
		if err == nil {
			return func() {
				release()
				unlockLocal()
			}, nil
		}
		if !errors.Is(err, pkgredis.ErrLockHeld) || attempt+1 >= lockRetries {
			unlockLocal()
			if errors.Is(err, pkgredis.ErrLockHeld) {
				return nil, ErrShiftBusy
			}
			return nil, err
		}

		select {
		case <-ctx.Done():
			unlockLocal()
			return nil, ctx.Err()
		case <-time.After(lockRetryWait):
		}
	}
}

// ── 撤销栈存储 ──

// UndoStore 保存每个营业日的撤销栈（最新在前）
type UndoStore interface {
	Load(ctx context.Context, date string) ([]shift.UndoEntry, error)
	Save(ctx context.Context, date string, entries []shift.UndoEntry) error
}

// memoryUndoStore 单实例部署使用，重启后撤销栈清空
type memoryUndoStore struct {
	mu      sync.Mutex
	entries map[string][]shift.UndoEntry
}

func newMemoryUndoStore() *memoryUndoStore {
	return &memoryUndoStore{entries: make(map[string][]shift.UndoEntry)}
}

func (m *memoryUndoStore) Load(_ context.Context, date string) ([]shift.UndoEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]shift.UndoEntry(nil), m.entries[date]...), nil
}

func (m *memoryUndoStore) Save(_ context.Context, date string, entries []shift.UndoEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(entries) == 0 {
		delete(m.entries, date)
		return nil
	}
	m.entries[date] = append([]shift.UndoEntry(nil), entries...)
	return nil
}

// redisUndoStore 撤销栈以 JSON 存入 Redis，随 TTL 过期
type redisUndoStore struct {
	rdb *pkgredis.Client
	ttl time.Duration
}

func newRedisUndoStore(rdb *pkgredis.Client, ttl time.Duration) *redisUndoStore {
	if ttl <= 0 {
		ttl = 36 * time.Hour
	}
	return &redisUndoStore{rdb: rdb, ttl: ttl}
}

func (r *redisUndoStore) Load(ctx context.Context, date string) ([]shift.UndoEntry, error) {
	payload, err := r.rdb.LoadUndoLog(ctx, date)
	if err != nil || payload == nil {
		return nil, err
	}
	var entries []shift.UndoEntry
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, fmt.Errorf("解析撤销栈失败: %w", err)
	}
	return entries, nil
}

func (r *redisUndoStore) Save(ctx context.Context, date string, entries []shift.UndoEntry) error {
	if len(entries) == 0 {
		return r.rdb.SaveUndoLog(ctx, date, nil, r.ttl)
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return r.rdb.SaveUndoLog(ctx, date, payload, r.ttl)
}

// ── 营业日装载 ──

// shiftDay 一次请求中装载的营业日快照
type shiftDay struct {
	Date      string
	Day       time.Time // 当日 00:00（门店时区）
	Now       time.Time // 参考时刻：当天取实时，过去取当日 23:59:59，未来取当日 00:00
	State     *shift.State
	Positions []shift.Position
	Policy    shift.Policy
}

// position 按 ID 查找岗位
func (d *shiftDay) position(id string) (shift.Position, bool) {
	for _, p := range d.Positions {
		if p.ID == id {
			return p, true
		}
	}
	return shift.Position{}, false
}

// dayStore 负责营业日的解析、装载、加锁与落库
type dayStore struct {
	repo      *repository.Repository
	policy    PolicyService
	locker    DayLocker
	undo      UndoStore
	loc       *time.Location
	undoLimit int
	now       func() time.Time
	newID     func() string
	logger    *zap.Logger
}

func newDayStore(repo *repository.Repository, policy PolicyService, locker DayLocker, undo UndoStore,
	loc *time.Location, undoLimit int, logger *zap.Logger) *dayStore {
	if loc == nil {
		loc = time.Local
	}
	if undoLimit <= 0 {
		undoLimit = shift.DefaultUndoLimit
	}
	return &dayStore{
		repo:      repo,
		policy:    policy,
		locker:    locker,
		undo:      undo,
		loc:       loc,
		undoLimit: undoLimit,
		now:       time.Now,
		newID:     uuid.NewString,
		logger:    logger,
	}
}

// resolve 解析日期参数，返回规范日期、当日零点与参考时刻
func (d *dayStore) resolve(date string) (string, time.Time, time.Time, error) {
	wall := d.now().In(d.loc)
	today := time.Date(wall.Year(), wall.Month(), wall.Day(), 0, 0, 0, 0, d.loc)

	var day time.Time
	if strings.EqualFold(strings.TrimSpace(date), todayAlias) || date == "" {
		day = today
	} else {
		t, err := time.ParseInLocation(dateLayout, date, d.loc)
		if err != nil {
			return "", time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
		}
		day = t
	}

	var ref time.Time
	switch {
	case day.Equal(today):
		ref = wall
	case day.Before(today):
		ref = day.Add(24*time.Hour - time.Second)
	default:
		ref = day
	}
	return day.Format(dateLayout), day, ref, nil
}

// load 装载营业日：名单、顶岗记录、撤销栈、岗位目录与合规策略
func (d *dayStore) load(ctx context.Context, date string) (*shiftDay, error) {
	key, day, ref, err := d.resolve(date)
	if err != nil {
		return nil, err
	}

	emps, coverage, err := d.repo.Shift.LoadDay(ctx, key)
	if err != nil {
		d.logger.Error("读取班次失败", zap.String("date", key), zap.Error(err))
		return nil, err
	}
	undo, err := d.undo.Load(ctx, key)
	if err != nil {
		// 撤销栈丢失不影响班次本身
		d.logger.Warn("读取撤销栈失败", zap.String("date", key), zap.Error(err))
		undo = nil
	}
	positions, err := d.repo.Position.List(ctx)
	if err != nil {
		d.logger.Error("读取岗位目录失败", zap.Error(err))
		return nil, err
	}
	policy, err := d.policy.Current(ctx)
	if err != nil {
		return nil, err
	}

	state := shift.Restore(
		model.ShiftEmployeesToShift(emps),
		model.CoverageToShift(coverage),
		undo,
		shift.WithClock(func() time.Time { return ref }),
		shift.WithIDGenerator(d.newID),
		shift.WithUndoLimit(d.undoLimit),
	)

	return &shiftDay{
		Date:      key,
		Day:       day,
		Now:       ref,
		State:     state,
		Positions: model.PositionsToShift(positions),
		Policy:    policy,
	}, nil
}

// view 只读装载，不加锁
func (d *dayStore) view(ctx context.Context, date string) (*shiftDay, error) {
	return d.load(ctx, date)
}

// mutate 加锁装载营业日，执行 fn 后整体落库；fn 返回错误时不落库
func (d *dayStore) mutate(ctx context.Context, date string, fn func(day *shiftDay) error) (*shiftDay, error) {
	key, _, _, err := d.resolve(date)
	if err != nil {
		return nil, err
	}

	unlock, err := d.locker.Lock(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrShiftBusy) {
			d.logger.Error("获取班次锁失败", zap.String("date", key), zap.Error(err))
		}
		return nil, err
	}
	defer unlock()

	day, err := d.load(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := fn(day); err != nil {
		return nil, err
	}

	emps := model.ShiftEmployeesFromShift(key, day.State.Employees())
	coverage := model.CoverageFromShift(key, day.State.Coverage())
	if err := d.repo.Shift.ReplaceDay(ctx, key, emps, coverage); err != nil {
		d.logger.Error("保存班次失败", zap.String("date", key), zap.Error(err))
		return nil, err
	}
	if err := d.undo.Save(ctx, key, day.State.UndoLog()); err != nil {
		d.logger.Warn("保存撤销栈失败", zap.String("date", key), zap.Error(err))
	}
	return day, nil
}

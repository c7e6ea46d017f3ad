package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"shift-guard/config"
	"shift-guard/internal/repository"
	"shift-guard/internal/shift"
	pkgredis "shift-guard/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Position       PositionService
	PrimaryRole    PrimaryRoleService
	EmployeeRecord EmployeeRecordService
	Policy         PolicyService
	Shift          ShiftService
	Import         ImportService
	Export         ExportService
}

// NewService 创建 Service 聚合。rdb 为 nil 时营业日锁与撤销栈仅在进程内生效。
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	rdb *pkgredis.Client,
	logger *zap.Logger,
) (*Service, error) {
	fallback, err := cfg.Compliance.Policy()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Shift.Location()
	if err != nil {
		return nil, fmt.Errorf("加载门店时区失败: %w", err)
	}

	var (
		locker DayLocker = newLocalDayLocker()
		undo   UndoStore = newMemoryUndoStore()
	)
	if rdb != nil {
		locker = newRedisDayLocker(rdb, cfg.Shift.LockTTL)
		undo = newRedisUndoStore(rdb, cfg.Shift.UndoTTL)
	}

	policy := NewPolicyService(repo, fallback, logger)
	store := newDayStore(repo, policy, locker, undo, loc, cfg.Shift.UndoLimit, logger)
	shifts := NewShiftService(repo, store, shift.TimeFormat(cfg.Shift.TimeFormat), logger)

	return &Service{
		Position:       NewPositionService(repo, logger),
		PrimaryRole:    NewPrimaryRoleService(repo, logger),
		EmployeeRecord: NewEmployeeRecordService(repo, logger),
		Policy:         policy,
		Shift:          shifts,
		Import:         NewImportService(repo, store, logger),
		Export:         NewExportService(shifts, logger),
	}, nil
}

// EnsureDefaults 目录为空时写入默认岗位与主岗位（非 postgres 驱动没有种子迁移）
func (s *Service) EnsureDefaults(ctx context.Context) error {
	if err := s.Position.EnsureDefaults(ctx); err != nil {
		return fmt.Errorf("初始化岗位目录失败: %w", err)
	}
	if err := s.PrimaryRole.EnsureDefaults(ctx); err != nil {
		return fmt.Errorf("初始化主岗位失败: %w", err)
	}
	return nil
}

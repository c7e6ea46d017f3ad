package repository

import (
	"context"

	"gorm.io/gorm"

	"shift-guard/internal/model"
)

// ShiftRepository 当日班次数据访问接口
type ShiftRepository interface {
	// LoadDay 读取某营业日的员工名单与顶岗记录，均按 sort_order 排序
	LoadDay(ctx context.Context, date string) ([]model.ShiftEmployee, []model.CoverageRecord, error)
	// ReplaceDay 在事务中全量替换某营业日的名单与顶岗记录
	ReplaceDay(ctx context.Context, date string, emps []model.ShiftEmployee, coverage []model.CoverageRecord) error
	// ListDates 最近有班次数据的营业日，倒序
	ListDates(ctx context.Context, limit int) ([]string, error)
}

type shiftRepo struct {
	db *gorm.DB
}

// NewShiftRepo 创建 ShiftRepository 实例
func NewShiftRepo(db *gorm.DB) ShiftRepository {
	return &shiftRepo{db: db}
}

func (r *shiftRepo) LoadDay(ctx context.Context, date string) ([]model.ShiftEmployee, []model.CoverageRecord, error) {
	var emps []model.ShiftEmployee
	if err := r.db.WithContext(ctx).
		Where("shift_date = ?", date).
		Order("sort_order ASC").
		Find(&emps).Error; err != nil {
		return nil, nil, err
	}

	var coverage []model.CoverageRecord
	if err := r.db.WithContext(ctx).
		Where("shift_date = ?", date).
		Order("sort_order ASC").
		Find(&coverage).Error; err != nil {
		return nil, nil, err
	}
	return emps, coverage, nil
}

func (r *shiftRepo) ReplaceDay(ctx context.Context, date string, emps []model.ShiftEmployee, coverage []model.CoverageRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 硬删除当日旧数据（整日替换，状态历史由撤销栈与顶岗记录承担）
		if err := tx.Where("shift_date = ?", date).Delete(&model.CoverageRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("shift_date = ?", date).Delete(&model.ShiftEmployee{}).Error; err != nil {
			return err
		}
		if len(emps) > 0 {
			if err := tx.Create(&emps).Error; err != nil {
				return translate(err)
			}
		}
		if len(coverage) > 0 {
			if err := tx.Create(&coverage).Error; err != nil {
				return translate(err)
			}
		}
		return nil
	})
}

func (r *shiftRepo) ListDates(ctx context.Context, limit int) ([]string, error) {
	var dates []string
	err := r.db.WithContext(ctx).
		Model(&model.ShiftEmployee{}).
		Distinct("shift_date").
		Order("shift_date DESC").
		Limit(limit).
		Pluck("shift_date", &dates).Error
	return dates, err
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"shift-guard/internal/model"
)

// PositionRepository 岗位目录数据访问接口
type PositionRepository interface {
	Create(ctx context.Context, pos *model.Position) error
	BatchCreate(ctx context.Context, list []model.Position) error
	GetByID(ctx context.Context, id string) (*model.Position, error)
	List(ctx context.Context) ([]model.Position, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, pos *model.Position) error
	Delete(ctx context.Context, id string) error
}

type positionRepo struct {
	db *gorm.DB
}

// NewPositionRepo 创建 PositionRepository 实例
func NewPositionRepo(db *gorm.DB) PositionRepository {
	return &positionRepo{db: db}
}

func (r *positionRepo) Create(ctx context.Context, pos *model.Position) error {
	return translate(r.db.WithContext(ctx).Create(pos).Error)
}

func (r *positionRepo) BatchCreate(ctx context.Context, list []model.Position) error {
	if len(list) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Create(&list).Error)
}

func (r *positionRepo) GetByID(ctx context.Context, id string) (*model.Position, error) {
	var pos model.Position
	err := r.db.WithContext(ctx).
		Where("position_id = ?", id).
		First(&pos).Error
	if err != nil {
		return nil, err
	}
	return &pos, nil
}

func (r *positionRepo) List(ctx context.Context) ([]model.Position, error) {
	var list []model.Position
	err := r.db.WithContext(ctx).Order("sort_order ASC, name ASC").Find(&list).Error
	return list, err
}

func (r *positionRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Position{}).Count(&n).Error
	return n, err
}

func (r *positionRepo) Update(ctx context.Context, pos *model.Position) error {
	return r.db.WithContext(ctx).Save(pos).Error
}

func (r *positionRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("position_id = ?", id).
		Delete(&model.Position{}).Error
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"shift-guard/internal/model"
)

// PrimaryRoleRepository 主岗位头衔数据访问接口
type PrimaryRoleRepository interface {
	List(ctx context.Context) ([]model.PrimaryRole, error)
	Count(ctx context.Context) (int64, error)
	BatchCreate(ctx context.Context, list []model.PrimaryRole) error
}

type primaryRoleRepo struct {
	db *gorm.DB
}

// NewPrimaryRoleRepo 创建 PrimaryRoleRepository 实例
func NewPrimaryRoleRepo(db *gorm.DB) PrimaryRoleRepository {
	return &primaryRoleRepo{db: db}
}

func (r *primaryRoleRepo) List(ctx context.Context) ([]model.PrimaryRole, error) {
	var list []model.PrimaryRole
	err := r.db.WithContext(ctx).Order("sort_order ASC, name ASC").Find(&list).Error
	return list, err
}

func (r *primaryRoleRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.PrimaryRole{}).Count(&n).Error
	return n, err
}

func (r *primaryRoleRepo) BatchCreate(ctx context.Context, list []model.PrimaryRole) error {
	if len(list) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Create(&list).Error)
}

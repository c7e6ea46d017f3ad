package repository

import (
	"context"

	"gorm.io/gorm"

	"shift-guard/internal/model"
	pkgerrors "shift-guard/pkg/errors"
)

// EmployeeRecordRepository 花名册数据访问接口
type EmployeeRecordRepository interface {
	Create(ctx context.Context, rec *model.EmployeeRecord) error
	GetByID(ctx context.Context, id string) (*model.EmployeeRecord, error)
	List(ctx context.Context, includeInactive bool) ([]model.EmployeeRecord, error)
	// Update 乐观锁更新档案并整体替换资格列表
	Update(ctx context.Context, rec *model.EmployeeRecord) error
	Delete(ctx context.Context, id string) error
}

type employeeRecordRepo struct {
	db *gorm.DB
}

// NewEmployeeRecordRepo 创建 EmployeeRecordRepository 实例
func NewEmployeeRecordRepo(db *gorm.DB) EmployeeRecordRepository {
	return &employeeRecordRepo{db: db}
}

func orderedQualifications(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC")
}

func (r *employeeRecordRepo) Create(ctx context.Context, rec *model.EmployeeRecord) error {
	// 资格列表随关联一起写入
	return translate(r.db.WithContext(ctx).Create(rec).Error)
}

func (r *employeeRecordRepo) GetByID(ctx context.Context, id string) (*model.EmployeeRecord, error) {
	var rec model.EmployeeRecord
	err := r.db.WithContext(ctx).
		Preload("Qualifications", orderedQualifications).
		Where("record_id = ?", id).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *employeeRecordRepo) List(ctx context.Context, includeInactive bool) ([]model.EmployeeRecord, error) {
	var list []model.EmployeeRecord
	db := r.db.WithContext(ctx).Preload("Qualifications", orderedQualifications)

	if !includeInactive {
		db = db.Where("is_active = ?", true)
	}

	err := db.Order("name ASC").Find(&list).Error
	return list, err
}

func (r *employeeRecordRepo) Update(ctx context.Context, rec *model.EmployeeRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		oldVersion := rec.Version
		result := tx.Model(&model.EmployeeRecord{}).
			Where("record_id = ? AND version = ?", rec.RecordID, oldVersion).
			Updates(map[string]interface{}{
				"name":                rec.Name,
				"primary_role_id":     rec.PrimaryRoleID,
				"has_register_access": rec.HasRegisterAccess,
				"is_active":           rec.IsActive,
				"notes":               rec.Notes,
				"version":             oldVersion + 1,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return pkgerrors.ErrOptimisticLock
		}

		if err := tx.Where("record_id = ?", rec.RecordID).
			Delete(&model.EmployeeQualification{}).Error; err != nil {
			return err
		}
		if len(rec.Qualifications) > 0 {
			for i := range rec.Qualifications {
				rec.Qualifications[i].RecordID = rec.RecordID
			}
			if err := tx.Create(&rec.Qualifications).Error; err != nil {
				return err
			}
		}
		rec.Version = oldVersion + 1
		return nil
	})
}

func (r *employeeRecordRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("record_id = ?", id).
		Delete(&model.EmployeeRecord{}).Error
}

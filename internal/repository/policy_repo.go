package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shift-guard/internal/model"
)

// PolicyRepository 合规策略数据访问接口（单行）
type PolicyRepository interface {
	Get(ctx context.Context) (*model.CompliancePolicy, error)
	Save(ctx context.Context, p *model.CompliancePolicy) error
}

type policyRepo struct {
	db *gorm.DB
}

// NewPolicyRepo 创建 PolicyRepository 实例
func NewPolicyRepo(db *gorm.DB) PolicyRepository {
	return &policyRepo{db: db}
}

func (r *policyRepo) Get(ctx context.Context) (*model.CompliancePolicy, error) {
	var p model.CompliancePolicy
	err := r.db.WithContext(ctx).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *policyRepo) Save(ctx context.Context, p *model.CompliancePolicy) error {
	p.Singleton = true
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "singleton"}},
			DoUpdates: clause.AssignmentColumns([]string{"meal_deadline_hours", "warning_minutes", "urgent_minutes", "critical_minutes", "updated_at"}),
		}).
		Create(p).Error
}

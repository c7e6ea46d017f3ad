package repository

import (
	"errors"

	"gorm.io/gorm"

	pkgerrors "shift-guard/pkg/errors"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Position       PositionRepository
	PrimaryRole    PrimaryRoleRepository
	EmployeeRecord EmployeeRecordRepository
	Shift          ShiftRepository
	Policy         PolicyRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Position:       NewPositionRepo(db),
		PrimaryRole:    NewPrimaryRoleRepo(db),
		EmployeeRecord: NewEmployeeRecordRepo(db),
		Shift:          NewShiftRepo(db),
		Policy:         NewPolicyRepo(db),
	}
}

// translate 将驱动层的唯一约束冲突统一为 ErrDuplicate（需开启 TranslateError）
func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return pkgerrors.ErrDuplicate
	}
	return err
}

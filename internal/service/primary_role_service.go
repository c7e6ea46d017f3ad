package service

import (
	"context"

	"go.uber.org/zap"

	"shift-guard/internal/dto"
	"shift-guard/internal/model"
	"shift-guard/internal/repository"
	"shift-guard/internal/shift"
)

// PrimaryRoleService 主岗位头衔业务接口（仅展示用）
type PrimaryRoleService interface {
	List(ctx context.Context) ([]dto.PrimaryRoleResponse, error)
	EnsureDefaults(ctx context.Context) error
}

type primaryRoleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPrimaryRoleService 创建 PrimaryRoleService 实例
func NewPrimaryRoleService(repo *repository.Repository, logger *zap.Logger) PrimaryRoleService {
	return &primaryRoleService{repo: repo, logger: logger}
}

func (s *primaryRoleService) List(ctx context.Context) ([]dto.PrimaryRoleResponse, error) {
	list, err := s.repo.PrimaryRole.List(ctx)
	if err != nil {
		s.logger.Error("列出主岗位失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.PrimaryRoleResponse, 0, len(list))
	for i := range list {
		r := list[i].ToShift()
		result = append(result, dto.PrimaryRoleResponse{ID: r.ID, Name: r.Name, Type: string(r.Type)})
	}
	return result, nil
}

func (s *primaryRoleService) EnsureDefaults(ctx context.Context) error {
	count, err := s.repo.PrimaryRole.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := shift.DefaultPrimaryRoles()
	list := make([]model.PrimaryRole, len(defaults))
	for i, r := range defaults {
		list[i] = model.PrimaryRole{RoleID: r.ID, Name: r.Name, Type: string(r.Type), SortOrder: i}
	}
	if err := s.repo.PrimaryRole.BatchCreate(ctx, list); err != nil {
		s.logger.Error("写入默认主岗位失败", zap.Error(err))
		return err
	}
	return nil
}

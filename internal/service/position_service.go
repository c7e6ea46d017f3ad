package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shift-guard/internal/dto"
	"shift-guard/internal/model"
	"shift-guard/internal/repository"
	"shift-guard/internal/shift"
	pkgerrors "shift-guard/pkg/errors"
)

// ── 岗位模块业务错误 ──

var (
	ErrPositionNotFound = errors.New("岗位不存在")
	ErrPositionExists   = errors.New("岗位 ID 已存在")
)

// PositionService 岗位目录业务接口
type PositionService interface {
	Create(ctx context.Context, req *dto.CreatePositionRequest) (*dto.PositionResponse, error)
	GetByID(ctx context.Context, id string) (*dto.PositionResponse, error)
	List(ctx context.Context) ([]dto.PositionResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdatePositionRequest) (*dto.PositionResponse, error)
	Delete(ctx context.Context, id string) error
	// EnsureDefaults 目录为空时写入默认岗位
	EnsureDefaults(ctx context.Context) error
}

type positionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPositionService 创建 PositionService 实例
func NewPositionService(repo *repository.Repository, logger *zap.Logger) PositionService {
	return &positionService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *positionService) Create(ctx context.Context, req *dto.CreatePositionRequest) (*dto.PositionResponse, error) {
	count, err := s.repo.Position.Count(ctx)
	if err != nil {
		s.logger.Error("统计岗位失败", zap.Error(err))
		return nil, err
	}

	pos := model.PositionFromShift(shift.Position{
		ID:                     req.ID,
		Name:                   req.Name,
		RequiresRegisterAccess: req.RequiresRegisterAccess,
		MinCoverage:            req.MinCoverage,
		CoverageProtection:     req.CoverageProtection,
		Notes:                  req.Notes,
	}, int(count))

	if err := s.repo.Position.Create(ctx, pos); err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicate) {
			return nil, ErrPositionExists
		}
		s.logger.Error("创建岗位失败", zap.String("position_id", req.ID), zap.Error(err))
		return nil, err
	}

	return toPositionResponse(pos), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *positionService) GetByID(ctx context.Context, id string) (*dto.PositionResponse, error) {
	pos, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPositionResponse(pos), nil
}

func (s *positionService) get(ctx context.Context, id string) (*model.Position, error) {
	pos, err := s.repo.Position.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPositionNotFound
		}
		s.logger.Error("查询岗位失败", zap.String("position_id", id), zap.Error(err))
		return nil, err
	}
	return pos, nil
}

// ────────────────────── List ──────────────────────

func (s *positionService) List(ctx context.Context) ([]dto.PositionResponse, error) {
	list, err := s.repo.Position.List(ctx)
	if err != nil {
		s.logger.Error("列出岗位失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.PositionResponse, 0, len(list))
	for i := range list {
		result = append(result, *toPositionResponse(&list[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *positionService) Update(ctx context.Context, id string, req *dto.UpdatePositionRequest) (*dto.PositionResponse, error) {
	pos, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		pos.Name = *req.Name
	}
	if req.RequiresRegisterAccess != nil {
		pos.RequiresRegisterAccess = *req.RequiresRegisterAccess
	}
	if req.MinCoverage != nil {
		pos.MinCoverage = *req.MinCoverage
	}
	if req.CoverageProtection != nil {
		pos.CoverageProtection = *req.CoverageProtection
	}
	if req.Notes != nil {
		pos.Notes = *req.Notes
	}
	if req.SortOrder != nil {
		pos.SortOrder = *req.SortOrder
	}

	if err := s.repo.Position.Update(ctx, pos); err != nil {
		s.logger.Error("更新岗位失败", zap.String("position_id", id), zap.Error(err))
		return nil, err
	}

	return toPositionResponse(pos), nil
}

// ────────────────────── Delete ──────────────────────

func (s *positionService) Delete(ctx context.Context, id string) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Position.Delete(ctx, id); err != nil {
		s.logger.Error("删除岗位失败", zap.String("position_id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── EnsureDefaults ──────────────────────

func (s *positionService) EnsureDefaults(ctx context.Context) error {
	count, err := s.repo.Position.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := shift.DefaultPositions()
	list := make([]model.Position, len(defaults))
	for i, p := range defaults {
		list[i] = *model.PositionFromShift(p, i)
	}
	if err := s.repo.Position.BatchCreate(ctx, list); err != nil {
		s.logger.Error("写入默认岗位失败", zap.Error(err))
		return err
	}
	s.logger.Info("已写入默认岗位目录", zap.Int("count", len(list)))
	return nil
}

// ── 辅助函数 ──

func toPositionResponse(p *model.Position) *dto.PositionResponse {
	return &dto.PositionResponse{
		ID:                     p.PositionID,
		Name:                   p.Name,
		RequiresRegisterAccess: p.RequiresRegisterAccess,
		MinCoverage:            p.MinCoverage,
		CoverageProtection:     p.CoverageProtection,
		Notes:                  p.Notes,
		SortOrder:              p.SortOrder,
	}
}

func toPositionResponses(list []shift.Position) []dto.PositionResponse {
	result := make([]dto.PositionResponse, len(list))
	for i, p := range list {
		result[i] = *toPositionResponse(model.PositionFromShift(p, i))
	}
	return result
}

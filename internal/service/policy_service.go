package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shift-guard/internal/dto"
	"shift-guard/internal/model"
	"shift-guard/internal/repository"
	"shift-guard/internal/shift"
)

const (
	policySourceDatabase = "database"
	policySourceConfig   = "config"
)

// PolicyService 合规策略业务接口
type PolicyService interface {
	// Current 当前生效策略：数据库优先，缺失或无效时回落到配置
	Current(ctx context.Context) (shift.Policy, error)
	Get(ctx context.Context) (*dto.PolicyResponse, error)
	Update(ctx context.Context, req *dto.UpdatePolicyRequest) (*dto.PolicyResponse, error)
}

type policyService struct {
	repo     *repository.Repository
	fallback shift.Policy
	logger   *zap.Logger
}

// NewPolicyService 创建 PolicyService 实例，fallback 须已校验
func NewPolicyService(repo *repository.Repository, fallback shift.Policy, logger *zap.Logger) PolicyService {
	return &policyService{repo: repo, fallback: fallback, logger: logger}
}

func (s *policyService) Current(ctx context.Context) (shift.Policy, error) {
	p, _, err := s.current(ctx)
	return p, err
}

func (s *policyService) current(ctx context.Context) (shift.Policy, string, error) {
	row, err := s.repo.Policy.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.fallback, policySourceConfig, nil
		}
		s.logger.Error("查询合规策略失败", zap.Error(err))
		return shift.Policy{}, "", err
	}

	p := row.ToShift()
	if err := p.Validate(); err != nil {
		s.logger.Warn("数据库中的合规策略无效，使用配置值", zap.Error(err))
		return s.fallback, policySourceConfig, nil
	}
	return p, policySourceDatabase, nil
}

// ────────────────────── Get ──────────────────────

func (s *policyService) Get(ctx context.Context) (*dto.PolicyResponse, error) {
	p, source, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	return toPolicyResponse(p, source), nil
}

// ────────────────────── Update ──────────────────────

func (s *policyService) Update(ctx context.Context, req *dto.UpdatePolicyRequest) (*dto.PolicyResponse, error) {
	p, _, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	if req.MealDeadlineHours != nil {
		p.MealDeadlineHours = *req.MealDeadlineHours
	}
	if req.WarningMinutes != nil {
		p.WarningMinutes = *req.WarningMinutes
	}
	if req.UrgentMinutes != nil {
		p.UrgentMinutes = *req.UrgentMinutes
	}
	if req.CriticalMinutes != nil {
		p.CriticalMinutes = *req.CriticalMinutes
	}

	validated, err := shift.NewPolicy(p.MealDeadlineHours, p.WarningMinutes, p.UrgentMinutes, p.CriticalMinutes)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Policy.Save(ctx, model.PolicyFromShift(validated)); err != nil {
		s.logger.Error("保存合规策略失败", zap.Error(err))
		return nil, fmt.Errorf("保存合规策略失败: %w", err)
	}

	s.logger.Info("合规策略已更新",
		zap.Float64("meal_deadline_hours", validated.MealDeadlineHours),
		zap.Float64("warning_minutes", validated.WarningMinutes),
		zap.Float64("urgent_minutes", validated.UrgentMinutes),
		zap.Float64("critical_minutes", validated.CriticalMinutes),
	)
	return toPolicyResponse(validated, policySourceDatabase), nil
}

func toPolicyResponse(p shift.Policy, source string) *dto.PolicyResponse {
	return &dto.PolicyResponse{
		MealDeadlineHours: p.MealDeadlineHours,
		WarningMinutes:    p.WarningMinutes,
		UrgentMinutes:     p.UrgentMinutes,
		CriticalMinutes:   p.CriticalMinutes,
		Source:            source,
	}
}

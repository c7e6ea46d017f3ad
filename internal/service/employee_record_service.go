package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"shift-guard/internal/dto"
	"shift-guard/internal/model"
	"shift-guard/internal/repository"
	"shift-guard/internal/shift"
	pkgerrors "shift-guard/pkg/errors"
)

// ── 花名册模块业务错误 ──

var (
	ErrEmployeeRecordNotFound = errors.New("员工档案不存在")
	ErrEmployeeRecordConflict = errors.New("员工档案已被修改，请刷新后重试")
	ErrUnknownQualification   = errors.New("资格引用了不存在的岗位")
)

// EmployeeRecordService 花名册业务接口
type EmployeeRecordService interface {
	Create(ctx context.Context, req *dto.CreateEmployeeRecordRequest) (*dto.EmployeeRecordResponse, error)
	GetByID(ctx context.Context, id string) (*dto.EmployeeRecordResponse, error)
	List(ctx context.Context, req *dto.EmployeeRecordListRequest) ([]dto.EmployeeRecordResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateEmployeeRecordRequest) (*dto.EmployeeRecordResponse, error)
	Delete(ctx context.Context, id string) error
	// QualifiedPositions 档案实际可排的岗位（已按收银权限过滤）
	QualifiedPositions(ctx context.Context, id string) ([]dto.PositionResponse, error)
}

type employeeRecordService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEmployeeRecordService 创建 EmployeeRecordService 实例
func NewEmployeeRecordService(repo *repository.Repository, logger *zap.Logger) EmployeeRecordService {
	return &employeeRecordService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *employeeRecordService) Create(ctx context.Context, req *dto.CreateEmployeeRecordRequest) (*dto.EmployeeRecordResponse, error) {
	recordID := uuid.NewString()
	quals, err := s.buildQualifications(ctx, recordID, req.Qualifications)
	if err != nil {
		return nil, err
	}

	rec := &model.EmployeeRecord{
		RecordID:          recordID,
		Name:              req.Name,
		PrimaryRoleID:     req.PrimaryRoleID,
		HasRegisterAccess: req.HasRegisterAccess,
		IsActive:          true,
		Notes:             req.Notes,
		Version:           1,
		Qualifications:    quals,
	}

	if err := s.repo.EmployeeRecord.Create(ctx, rec); err != nil {
		s.logger.Error("创建员工档案失败", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}

	return toEmployeeRecordResponse(rec), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *employeeRecordService) GetByID(ctx context.Context, id string) (*dto.EmployeeRecordResponse, error) {
	rec, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toEmployeeRecordResponse(rec), nil
}

func (s *employeeRecordService) get(ctx context.Context, id string) (*model.EmployeeRecord, error) {
	rec, err := s.repo.EmployeeRecord.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeRecordNotFound
		}
		s.logger.Error("查询员工档案失败", zap.String("record_id", id), zap.Error(err))
		return nil, err
	}
	return rec, nil
}

// ────────────────────── List ──────────────────────

func (s *employeeRecordService) List(ctx context.Context, req *dto.EmployeeRecordListRequest) ([]dto.EmployeeRecordResponse, error) {
	list, err := s.repo.EmployeeRecord.List(ctx, req.IncludeInactive)
	if err != nil {
		s.logger.Error("列出员工档案失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.EmployeeRecordResponse, 0, len(list))
	for i := range list {
		result = append(result, *toEmployeeRecordResponse(&list[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *employeeRecordService) Update(ctx context.Context, id string, req *dto.UpdateEmployeeRecordRequest) (*dto.EmployeeRecordResponse, error) {
	rec, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Version != req.Version {
		return nil, ErrEmployeeRecordConflict
	}

	if req.Name != nil {
		rec.Name = *req.Name
	}
	if req.PrimaryRoleID != nil {
		rec.PrimaryRoleID = *req.PrimaryRoleID
	}
	if req.HasRegisterAccess != nil {
		rec.HasRegisterAccess = *req.HasRegisterAccess
	}
	if req.IsActive != nil {
		rec.IsActive = *req.IsActive
	}
	if req.Notes != nil {
		rec.Notes = *req.Notes
	}
	if req.Qualifications != nil {
		quals, err := s.buildQualifications(ctx, rec.RecordID, *req.Qualifications)
		if err != nil {
			return nil, err
		}
		rec.Qualifications = quals
	}

	if err := s.repo.EmployeeRecord.Update(ctx, rec); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, ErrEmployeeRecordConflict
		}
		s.logger.Error("更新员工档案失败", zap.String("record_id", id), zap.Error(err))
		return nil, err
	}

	rec.UpdatedAt = time.Now()
	return toEmployeeRecordResponse(rec), nil
}

// ────────────────────── Delete ──────────────────────

func (s *employeeRecordService) Delete(ctx context.Context, id string) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.EmployeeRecord.Delete(ctx, id); err != nil {
		s.logger.Error("删除员工档案失败", zap.String("record_id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── QualifiedPositions ──────────────────────

func (s *employeeRecordService) QualifiedPositions(ctx context.Context, id string) ([]dto.PositionResponse, error) {
	rec, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	positions, err := s.repo.Position.List(ctx)
	if err != nil {
		s.logger.Error("读取岗位目录失败", zap.Error(err))
		return nil, err
	}

	qualified := shift.QualifiedPositions(rec.ToShift(), model.PositionsToShift(positions))
	return toPositionResponses(qualified), nil
}

// ── 辅助函数 ──

// buildQualifications 校验岗位存在并去重，保留首次出现的顺序
func (s *employeeRecordService) buildQualifications(ctx context.Context, recordID string, items []dto.QualificationItem) ([]model.EmployeeQualification, error) {
	if len(items) == 0 {
		return nil, nil
	}

	positions, err := s.repo.Position.List(ctx)
	if err != nil {
		s.logger.Error("读取岗位目录失败", zap.Error(err))
		return nil, err
	}
	known := make(map[string]bool, len(positions))
	for _, p := range positions {
		known[p.PositionID] = true
	}

	seen := make(map[string]bool, len(items))
	entries := make([]shift.QualificationEntry, 0, len(items))
	for _, item := range items {
		if !known[item.PositionID] {
			return nil, fmt.Errorf("%w: %s", ErrUnknownQualification, item.PositionID)
		}
		if seen[item.PositionID] {
			continue
		}
		seen[item.PositionID] = true
		entries = append(entries, shift.QualificationEntry{SubRoleID: item.PositionID, Notes: item.Notes})
	}
	return model.QualificationsFromShift(recordID, entries), nil
}

func toEmployeeRecordResponse(rec *model.EmployeeRecord) *dto.EmployeeRecordResponse {
	quals := make([]dto.QualificationItem, len(rec.Qualifications))
	for i, q := range rec.Qualifications {
		quals[i] = dto.QualificationItem{PositionID: q.PositionID, Notes: q.Notes}
	}
	return &dto.EmployeeRecordResponse{
		ID:                rec.RecordID,
		Name:              rec.Name,
		PrimaryRoleID:     rec.PrimaryRoleID,
		Qualifications:    quals,
		HasRegisterAccess: rec.HasRegisterAccess,
		IsActive:          rec.IsActive,
		Notes:             rec.Notes,
		Version:           rec.Version,
		CreatedAt:         rec.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         rec.UpdatedAt.Format(time.RFC3339),
	}
}

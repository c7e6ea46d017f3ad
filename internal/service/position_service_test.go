package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"shift-guard/internal/dto"
	"shift-guard/internal/shift"
)

func setupTestPositionService() (PositionService, *mockRepos) {
	repo, m := newMockRepository()
	return NewPositionService(repo, zap.NewNop()), m
}

func TestPositionService_EnsureDefaults(t *testing.T) {
	svc, m := setupTestPositionService()

	if err := svc.EnsureDefaults(context.Background()); err != nil {
		t.Fatalf("EnsureDefaults 应成功: %v", err)
	}
	if len(m.position.positions) != len(shift.DefaultPositions()) {
		t.Fatalf("期望写入 %d 个默认岗位，实际=%d", len(shift.DefaultPositions()), len(m.position.positions))
	}

	// 已有数据时不再写入
	delete(m.position.positions, "cart-pusher")
	if err := svc.EnsureDefaults(context.Background()); err != nil {
		t.Fatalf("再次 EnsureDefaults 应成功: %v", err)
	}
	if _, ok := m.position.positions["cart-pusher"]; ok {
		t.Error("目录非空时不应补写默认岗位")
	}

	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if list[0].ID != "cashier" {
		t.Errorf("期望按 sort_order 排序，首个为 cashier，实际=%s", list[0].ID)
	}
}

func TestPositionService_Create(t *testing.T) {
	svc, _ := setupTestPositionService()
	_ = svc.EnsureDefaults(context.Background())

	resp, err := svc.Create(context.Background(), &dto.CreatePositionRequest{
		ID:                 "bakery",
		Name:               "Bakery",
		MinCoverage:        1,
		CoverageProtection: true,
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if resp.SortOrder != len(shift.DefaultPositions()) {
		t.Errorf("新岗位应排在末尾，实际 sort_order=%d", resp.SortOrder)
	}

	_, err = svc.Create(context.Background(), &dto.CreatePositionRequest{ID: "bakery", Name: "Bakery 2"})
	if !errors.Is(err, ErrPositionExists) {
		t.Errorf("期望 ErrPositionExists，实际: %v", err)
	}
}

func TestPositionService_Update(t *testing.T) {
	svc, m := setupTestPositionService()
	_ = svc.EnsureDefaults(context.Background())
	minCov := 3
	protect := false

	resp, err := svc.Update(context.Background(), "cashier", &dto.UpdatePositionRequest{
		MinCoverage:        &minCov,
		CoverageProtection: &protect,
	})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if resp.MinCoverage != 3 || resp.CoverageProtection {
		t.Errorf("期望 min=3 且不受保护，实际=%+v", resp)
	}
	if resp.Name != "Cashier" {
		t.Errorf("未提交字段应保持不变，实际 Name=%s", resp.Name)
	}
	if m.position.positions["cashier"].MinCoverage != 3 {
		t.Error("期望已落库")
	}
}

func TestPositionService_NotFound(t *testing.T) {
	svc, _ := setupTestPositionService()
	name := "X"

	if _, err := svc.GetByID(context.Background(), "bakery"); !errors.Is(err, ErrPositionNotFound) {
		t.Errorf("GetByID 期望 ErrPositionNotFound，实际: %v", err)
	}
	if _, err := svc.Update(context.Background(), "bakery", &dto.UpdatePositionRequest{Name: &name}); !errors.Is(err, ErrPositionNotFound) {
		t.Errorf("Update 期望 ErrPositionNotFound，实际: %v", err)
	}
	if err := svc.Delete(context.Background(), "bakery"); !errors.Is(err, ErrPositionNotFound) {
		t.Errorf("Delete 期望 ErrPositionNotFound，实际: %v", err)
	}
}

func TestPositionService_Delete(t *testing.T) {
	svc, m := setupTestPositionService()
	_ = svc.EnsureDefaults(context.Background())

	if err := svc.Delete(context.Background(), "cart-pusher"); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if _, ok := m.position.positions["cart-pusher"]; ok {
		t.Error("期望岗位已删除")
	}
}

func TestPrimaryRoleService_EnsureDefaultsAndList(t *testing.T) {
	repo, m := newMockRepository()
	svc := NewPrimaryRoleService(repo, zap.NewNop())

	if err := svc.EnsureDefaults(context.Background()); err != nil {
		t.Fatalf("EnsureDefaults 应成功: %v", err)
	}
	if err := svc.EnsureDefaults(context.Background()); err != nil {
		t.Fatalf("再次 EnsureDefaults 应成功: %v", err)
	}
	if len(m.role.roles) != len(shift.DefaultPrimaryRoles()) {
		t.Errorf("重复调用不应重复写入，实际=%d", len(m.role.roles))
	}

	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if list[1].ID != "team-lead" || list[1].Type != string(shift.RoleManagement) {
		t.Errorf("期望第二项为 team-lead/management，实际=%+v", list[1])
	}
}

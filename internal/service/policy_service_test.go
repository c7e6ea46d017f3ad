package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"shift-guard/internal/dto"
	"shift-guard/internal/model"
	"shift-guard/internal/shift"
)

func setupTestPolicyService() (PolicyService, *mockRepos) {
	repo, m := newMockRepository()
	return NewPolicyService(repo, shift.DefaultPolicy(), zap.NewNop()), m
}

func floatPtr(v float64) *float64 { return &v }

func TestPolicyService_Get_FallbackToConfig(t *testing.T) {
	svc, _ := setupTestPolicyService()

	resp, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get 应成功: %v", err)
	}
	if resp.Source != policySourceConfig {
		t.Errorf("期望来源 config，实际=%s", resp.Source)
	}
	if resp.MealDeadlineHours != 5 || resp.WarningMinutes != 60 {
		t.Errorf("期望默认策略 5h/60m，实际=%+v", resp)
	}
}

func TestPolicyService_Current_StoredOverride(t *testing.T) {
	svc, m := setupTestPolicyService()
	m.policy.policy = model.PolicyFromShift(shift.Policy{MealDeadlineHours: 6, WarningMinutes: 45, UrgentMinutes: 20, CriticalMinutes: 10})

	p, err := svc.Current(context.Background())
	if err != nil {
		t.Fatalf("Current 应成功: %v", err)
	}
	if p.MealDeadlineHours != 6 || p.CriticalMinutes != 10 {
		t.Errorf("期望使用数据库策略，实际=%+v", p)
	}
}

func TestPolicyService_Current_InvalidStoredFallsBack(t *testing.T) {
	svc, m := setupTestPolicyService()
	// urgent > warning，顺序错乱
	m.policy.policy = model.PolicyFromShift(shift.Policy{MealDeadlineHours: 5, WarningMinutes: 10, UrgentMinutes: 30, CriticalMinutes: 5})

	resp, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get 应成功: %v", err)
	}
	if resp.Source != policySourceConfig || resp.UrgentMinutes != 30 || resp.WarningMinutes != 60 {
		t.Errorf("无效策略应回落到配置，实际=%+v", resp)
	}
}

func TestPolicyService_Update_MergesAndSaves(t *testing.T) {
	svc, m := setupTestPolicyService()

	resp, err := svc.Update(context.Background(), &dto.UpdatePolicyRequest{
		MealDeadlineHours: floatPtr(6),
		WarningMinutes:    floatPtr(90),
	})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if resp.Source != policySourceDatabase {
		t.Errorf("期望来源 database，实际=%s", resp.Source)
	}
	if resp.UrgentMinutes != 30 || resp.CriticalMinutes != 15 {
		t.Errorf("未提交字段应保持不变，实际=%+v", resp)
	}
	if m.policy.policy == nil || m.policy.policy.WarningMinutes != 90 {
		t.Errorf("期望已落库 warning=90，实际=%+v", m.policy.policy)
	}
}

func TestPolicyService_Update_Invalid(t *testing.T) {
	tests := []struct {
		name string
		req  *dto.UpdatePolicyRequest
	}{
		{"截止为 0", &dto.UpdatePolicyRequest{MealDeadlineHours: floatPtr(0)}},
		{"critical 为负", &dto.UpdatePolicyRequest{CriticalMinutes: floatPtr(-1)}},
		{"urgent 大于 warning", &dto.UpdatePolicyRequest{UrgentMinutes: floatPtr(61)}},
		{"warning 超过截止", &dto.UpdatePolicyRequest{MealDeadlineHours: floatPtr(0.5)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := setupTestPolicyService()

			_, err := svc.Update(context.Background(), tt.req)
			if !errors.Is(err, shift.ErrInvalidPolicy) {
				t.Errorf("期望 ErrInvalidPolicy，实际: %v", err)
			}
			if m.policy.policy != nil {
				t.Error("无效策略不应落库")
			}
		})
	}
}

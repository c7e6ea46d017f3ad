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

func setupTestEmployeeRecordService() (EmployeeRecordService, *mockRepos) {
	repo, m := newMockRepository()
	for i, p := range shift.DefaultPositions() {
		m.position.positions[p.ID] = model.PositionFromShift(p, i)
	}
	return NewEmployeeRecordService(repo, zap.NewNop()), m
}

func TestEmployeeRecordService_Create_DedupesQualifications(t *testing.T) {
	svc, m := setupTestEmployeeRecordService()

	resp, err := svc.Create(context.Background(), &dto.CreateEmployeeRecordRequest{
		Name:              "Jane Doe",
		HasRegisterAccess: true,
		Qualifications: []dto.QualificationItem{
			{PositionID: "service-desk"},
			{PositionID: "cashier"},
			{PositionID: "service-desk", Notes: "重复"},
		},
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if resp.ID == "" || resp.Version != 1 || !resp.IsActive {
		t.Errorf("期望生成 ID、version=1 且启用，实际=%+v", resp)
	}
	if len(resp.Qualifications) != 2 || resp.Qualifications[0].PositionID != "service-desk" {
		t.Errorf("期望去重并保持顺序，实际=%+v", resp.Qualifications)
	}
	if _, ok := m.record.records[resp.ID]; !ok {
		t.Error("期望已落库")
	}
}

func TestEmployeeRecordService_Create_UnknownQualification(t *testing.T) {
	svc, m := setupTestEmployeeRecordService()

	_, err := svc.Create(context.Background(), &dto.CreateEmployeeRecordRequest{
		Name:           "Jane Doe",
		Qualifications: []dto.QualificationItem{{PositionID: "bakery"}},
	})
	if !errors.Is(err, ErrUnknownQualification) {
		t.Errorf("期望 ErrUnknownQualification，实际: %v", err)
	}
	if len(m.record.records) != 0 {
		t.Error("失败时不应落库")
	}
}

func TestEmployeeRecordService_Update(t *testing.T) {
	svc, m := setupTestEmployeeRecordService()
	seedRecord(m, "rec-1", "Jane Doe", false, "grocery-door")
	access := true
	quals := []dto.QualificationItem{{PositionID: "cashier"}}

	resp, err := svc.Update(context.Background(), "rec-1", &dto.UpdateEmployeeRecordRequest{
		Version:           1,
		HasRegisterAccess: &access,
		Qualifications:    &quals,
	})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if resp.Version != 2 {
		t.Errorf("期望 version 递增为 2，实际=%d", resp.Version)
	}
	if resp.Name != "Jane Doe" || !resp.HasRegisterAccess {
		t.Errorf("期望仅更新提交字段，实际=%+v", resp)
	}
	if len(resp.Qualifications) != 1 || resp.Qualifications[0].PositionID != "cashier" {
		t.Errorf("期望资格被整体替换，实际=%+v", resp.Qualifications)
	}
}

func TestEmployeeRecordService_Update_VersionConflict(t *testing.T) {
	svc, m := setupTestEmployeeRecordService()
	seedRecord(m, "rec-1", "Jane Doe", false)
	m.record.records["rec-1"].Version = 3
	name := "Janet"

	_, err := svc.Update(context.Background(), "rec-1", &dto.UpdateEmployeeRecordRequest{Version: 2, Name: &name})
	if !errors.Is(err, ErrEmployeeRecordConflict) {
		t.Errorf("期望 ErrEmployeeRecordConflict，实际: %v", err)
	}
	if m.record.records["rec-1"].Name != "Jane Doe" {
		t.Error("冲突时不应修改")
	}
}

func TestEmployeeRecordService_List_IncludeInactive(t *testing.T) {
	svc, m := setupTestEmployeeRecordService()
	seedRecord(m, "rec-1", "Alice", false)
	seedRecord(m, "rec-2", "Bob", false)
	m.record.records["rec-2"].IsActive = false

	list, err := svc.List(context.Background(), &dto.EmployeeRecordListRequest{})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("默认只列出启用档案，实际=%d", len(list))
	}

	list, _ = svc.List(context.Background(), &dto.EmployeeRecordListRequest{IncludeInactive: true})
	if len(list) != 2 {
		t.Errorf("include_inactive 应列出全部，实际=%d", len(list))
	}
}

func TestEmployeeRecordService_QualifiedPositions(t *testing.T) {
	svc, m := setupTestEmployeeRecordService()
	seedRecord(m, "rec-1", "Jane Doe", false, "cashier", "grocery-door", "floor-coverage")

	list, err := svc.QualifiedPositions(context.Background(), "rec-1")
	if err != nil {
		t.Fatalf("QualifiedPositions 应成功: %v", err)
	}
	if len(list) != 2 || list[0].ID != "grocery-door" || list[1].ID != "floor-coverage" {
		t.Errorf("无收银权限应排除 cashier，实际=%+v", list)
	}
}

func TestEmployeeRecordService_NotFound(t *testing.T) {
	svc, _ := setupTestEmployeeRecordService()

	if _, err := svc.GetByID(context.Background(), "missing"); !errors.Is(err, ErrEmployeeRecordNotFound) {
		t.Errorf("GetByID 期望 ErrEmployeeRecordNotFound，实际: %v", err)
	}
	if err := svc.Delete(context.Background(), "missing"); !errors.Is(err, ErrEmployeeRecordNotFound) {
		t.Errorf("Delete 期望 ErrEmployeeRecordNotFound，实际: %v", err)
	}
	if _, err := svc.QualifiedPositions(context.Background(), "missing"); !errors.Is(err, ErrEmployeeRecordNotFound) {
		t.Errorf("QualifiedPositions 期望 ErrEmployeeRecordNotFound，实际: %v", err)
	}
}

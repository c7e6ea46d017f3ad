//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"shift-guard/internal/model"
	"shift-guard/internal/repository"
	"shift-guard/internal/shift"
	pkgerrors "shift-guard/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_SQLITE_DSN")
	if dsn == "" {
		dsn = "file::memory:?cache=shared"
	}

	var err error
	testDB, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法打开测试数据库: %v\n", err)
		os.Exit(1)
	}
	sqlDB, _ := testDB.DB()
	sqlDB.SetMaxOpenConns(1)

	if err := testDB.AutoMigrate(model.All()...); err != nil {
		fmt.Fprintf(os.Stderr, "AutoMigrate 失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

func uniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// ═══════════════════════════════════════════════════════════
// Position
// ═══════════════════════════════════════════════════════════

func TestPositionRepo_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewPositionRepo(testDB)
	id := uniqueID("pos")

	pos := &model.Position{PositionID: id, Name: "Fitting Room", MinCoverage: 1, CoverageProtection: true}
	if err := repo.Create(ctx, pos); err != nil {
		t.Fatalf("创建岗位失败: %v", err)
	}
	if err := repo.Create(ctx, &model.Position{PositionID: id, Name: "dup"}); !errors.Is(err, pkgerrors.ErrDuplicate) {
		t.Errorf("期望 ErrDuplicate，得到: %v", err)
	}

	got, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("查询岗位失败: %v", err)
	}
	got.MinCoverage = 3
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("更新岗位失败: %v", err)
	}
	got, _ = repo.GetByID(ctx, id)
	if got.MinCoverage != 3 {
		t.Errorf("期望 MinCoverage=3，得到 %d", got.MinCoverage)
	}

	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("删除岗位失败: %v", err)
	}
	if _, err := repo.GetByID(ctx, id); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("删除后期望 ErrRecordNotFound，得到: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// EmployeeRecord — 乐观锁与资格替换
// ═══════════════════════════════════════════════════════════

func TestEmployeeRecordRepo_UpdateReplacesQualifications(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewEmployeeRecordRepo(testDB)
	id := uniqueID("rec")

	rec := &model.EmployeeRecord{
		RecordID: id,
		Name:     "Dana Park",
		IsActive: true,
		Qualifications: []model.EmployeeQualification{
			{PositionID: "cashier", SortOrder: 0},
			{PositionID: "service-desk", SortOrder: 1},
		},
	}
	if err := repo.Create(ctx, rec); err != nil {
		t.Fatalf("创建档案失败: %v", err)
	}

	loaded, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("查询档案失败: %v", err)
	}
	if len(loaded.Qualifications) != 2 || loaded.Qualifications[0].PositionID != "cashier" {
		t.Fatalf("资格列表不符: %+v", loaded.Qualifications)
	}

	loaded.Qualifications = []model.EmployeeQualification{{PositionID: "cart-pusher"}}
	if err := repo.Update(ctx, loaded); err != nil {
		t.Fatalf("更新档案失败: %v", err)
	}
	if loaded.Version != 2 {
		t.Errorf("期望 version=2，得到 %d", loaded.Version)
	}

	loaded, _ = repo.GetByID(ctx, id)
	if len(loaded.Qualifications) != 1 || loaded.Qualifications[0].PositionID != "cart-pusher" {
		t.Errorf("资格列表应被整体替换: %+v", loaded.Qualifications)
	}

	stale := *loaded
	stale.Version = 1
	if err := repo.Update(ctx, &stale); !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Errorf("期望 ErrOptimisticLock，得到: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Shift — 整日替换
// ═══════════════════════════════════════════════════════════

func TestShiftRepo_ReplaceDay(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewShiftRepo(testDB)
	date := "2031-05-01"

	started := time.Date(2031, 5, 1, 12, 0, 0, 0, time.UTC)
	emps := []shift.Employee{
		{ID: uniqueID("e1"), Name: "A", CurrentAssignmentID: "cashier", ScheduledStart: "09:00", ScheduledEnd: "17:00",
			ActualStart: "09:00", LunchStatus: shift.LunchOnLunch, LunchStartedAt: &started,
			BreakStatus: shift.BreakNotStarted, Status: shift.StatusActive},
		{ID: uniqueID("e2"), Name: "B", CurrentAssignmentID: "grocery-door", ScheduledStart: "08:00", ScheduledEnd: "16:00",
			ActualStart: "08:00", LunchStatus: shift.LunchNotStarted, BreakStatus: shift.BreakNotStarted, Status: shift.StatusActive},
	}
	cov := []shift.CoverageRecord{
		{ID: uniqueID("c"), EmployeeID: emps[0].ID, CoveredByID: emps[1].ID, OriginalRole: "cashier",
			CoverRole: "cashier", Reason: shift.ReasonLunch, StartedAt: started},
	}

	if err := repo.ReplaceDay(ctx, date, model.ShiftEmployeesFromShift(date, emps), model.CoverageFromShift(date, cov)); err != nil {
		t.Fatalf("ReplaceDay 失败: %v", err)
	}

	gotEmps, gotCov, err := repo.LoadDay(ctx, date)
	if err != nil {
		t.Fatalf("LoadDay 失败: %v", err)
	}
	if len(gotEmps) != 2 || gotEmps[0].Name != "A" || gotEmps[1].Name != "B" {
		t.Fatalf("名单顺序不符: %+v", gotEmps)
	}
	if gotEmps[0].LunchStartedAt == nil || !gotEmps[0].LunchStartedAt.Equal(started) {
		t.Errorf("午餐开始时间不符: %v", gotEmps[0].LunchStartedAt)
	}
	if len(gotCov) != 1 || gotCov[0].CoveredByID != emps[1].ID {
		t.Fatalf("顶岗记录不符: %+v", gotCov)
	}

	// 第二次替换：只保留 B
	if err := repo.ReplaceDay(ctx, date, model.ShiftEmployeesFromShift(date, emps[1:]), nil); err != nil {
		t.Fatalf("第二次 ReplaceDay 失败: %v", err)
	}
	gotEmps, gotCov, _ = repo.LoadDay(ctx, date)
	if len(gotEmps) != 1 || len(gotCov) != 0 {
		t.Errorf("期望 1 名员工 0 条顶岗，得到 %d / %d", len(gotEmps), len(gotCov))
	}

	dates, err := repo.ListDates(ctx, 10)
	if err != nil {
		t.Fatalf("ListDates 失败: %v", err)
	}
	found := false
	for _, d := range dates {
		if d == date {
			found = true
		}
	}
	if !found {
		t.Errorf("ListDates 应包含 %s: %v", date, dates)
	}
}

// ═══════════════════════════════════════════════════════════
// Policy — 单行 upsert
// ═══════════════════════════════════════════════════════════

func TestPolicyRepo_SaveUpserts(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewPolicyRepo(testDB)

	if err := repo.Save(ctx, model.PolicyFromShift(shift.DefaultPolicy())); err != nil {
		t.Fatalf("首次保存失败: %v", err)
	}
	p, _ := shift.NewPolicy(6, 45, 20, 10)
	if err := repo.Save(ctx, model.PolicyFromShift(p)); err != nil {
		t.Fatalf("覆盖保存失败: %v", err)
	}

	got, err := repo.Get(ctx)
	if err != nil {
		t.Fatalf("读取策略失败: %v", err)
	}
	if got.ToShift() != p {
		t.Errorf("期望 %+v，得到 %+v", p, got.ToShift())
	}

	var n int64
	testDB.Model(&model.CompliancePolicy{}).Count(&n)
	if n != 1 {
		t.Errorf("策略表应只有一行，实际 %d", n)
	}
}

package service

import (
	"context"
	"sort"
	"sync"

	"gorm.io/gorm"

	"shift-guard/internal/model"
	"shift-guard/internal/repository"
	pkgerrors "shift-guard/pkg/errors"
)

// ── Mock PositionRepository ──

type mockPositionRepo struct {
	positions map[string]*model.Position
}

func newMockPositionRepo() *mockPositionRepo {
	return &mockPositionRepo{positions: make(map[string]*model.Position)}
}

func (m *mockPositionRepo) Create(_ context.Context, pos *model.Position) error {
	if _, ok := m.positions[pos.PositionID]; ok {
		return pkgerrors.ErrDuplicate
	}
	cp := *pos
	m.positions[pos.PositionID] = &cp
	return nil
}

func (m *mockPositionRepo) BatchCreate(ctx context.Context, list []model.Position) error {
	for i := range list {
		if err := m.Create(ctx, &list[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockPositionRepo) GetByID(_ context.Context, id string) (*model.Position, error) {
	if p, ok := m.positions[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPositionRepo) List(_ context.Context) ([]model.Position, error) {
	result := make([]model.Position, 0, len(m.positions))
	for _, p := range m.positions {
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].SortOrder != result[j].SortOrder {
			return result[i].SortOrder < result[j].SortOrder
		}
		return result[i].PositionID < result[j].PositionID
	})
	return result, nil
}

func (m *mockPositionRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.positions)), nil
}

func (m *mockPositionRepo) Update(_ context.Context, pos *model.Position) error {
	cp := *pos
	m.positions[pos.PositionID] = &cp
	return nil
}

func (m *mockPositionRepo) Delete(_ context.Context, id string) error {
	delete(m.positions, id)
	return nil
}

// ── Mock PrimaryRoleRepository ──

type mockPrimaryRoleRepo struct {
	roles []model.PrimaryRole
}

func newMockPrimaryRoleRepo() *mockPrimaryRoleRepo {
	return &mockPrimaryRoleRepo{}
}

func (m *mockPrimaryRoleRepo) List(_ context.Context) ([]model.PrimaryRole, error) {
	return append([]model.PrimaryRole(nil), m.roles...), nil
}

func (m *mockPrimaryRoleRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.roles)), nil
}

func (m *mockPrimaryRoleRepo) BatchCreate(_ context.Context, list []model.PrimaryRole) error {
	m.roles = append(m.roles, list...)
	return nil
}

// ── Mock EmployeeRecordRepository ──

type mockEmployeeRecordRepo struct {
	records map[string]*model.EmployeeRecord
}

func newMockEmployeeRecordRepo() *mockEmployeeRecordRepo {
	return &mockEmployeeRecordRepo{records: make(map[string]*model.EmployeeRecord)}
}

func (m *mockEmployeeRecordRepo) Create(_ context.Context, rec *model.EmployeeRecord) error {
	cp := *rec
	m.records[rec.RecordID] = &cp
	return nil
}

func (m *mockEmployeeRecordRepo) GetByID(_ context.Context, id string) (*model.EmployeeRecord, error) {
	if r, ok := m.records[id]; ok {
		cp := *r
		cp.Qualifications = append([]model.EmployeeQualification(nil), r.Qualifications...)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRecordRepo) List(_ context.Context, includeInactive bool) ([]model.EmployeeRecord, error) {
	var result []model.EmployeeRecord
	for _, r := range m.records {
		if !includeInactive && !r.IsActive {
			continue
		}
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockEmployeeRecordRepo) Update(_ context.Context, rec *model.EmployeeRecord) error {
	existing, ok := m.records[rec.RecordID]
	if !ok || existing.Version != rec.Version {
		return pkgerrors.ErrOptimisticLock
	}
	rec.Version++
	cp := *rec
	m.records[rec.RecordID] = &cp
	return nil
}

func (m *mockEmployeeRecordRepo) Delete(_ context.Context, id string) error {
	delete(m.records, id)
	return nil
}

// ── Mock ShiftRepository ──

type mockShiftRepo struct {
	mu         sync.Mutex
	employees  map[string][]model.ShiftEmployee
	coverage   map[string][]model.CoverageRecord
	replaceErr error
	replaces   int
}

func newMockShiftRepo() *mockShiftRepo {
	return &mockShiftRepo{
		employees: make(map[string][]model.ShiftEmployee),
		coverage:  make(map[string][]model.CoverageRecord),
	}
}

func (m *mockShiftRepo) LoadDay(_ context.Context, date string) ([]model.ShiftEmployee, []model.CoverageRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.ShiftEmployee(nil), m.employees[date]...),
		append([]model.CoverageRecord(nil), m.coverage[date]...), nil
}

func (m *mockShiftRepo) ReplaceDay(_ context.Context, date string, emps []model.ShiftEmployee, coverage []model.CoverageRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.replaces++
	m.employees[date] = append([]model.ShiftEmployee(nil), emps...)
	m.coverage[date] = append([]model.CoverageRecord(nil), coverage...)
	return nil
}

func (m *mockShiftRepo) ListDates(_ context.Context, limit int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var dates []string
	for d := range m.employees {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	if limit > 0 && len(dates) > limit {
		dates = dates[:limit]
	}
	return dates, nil
}

// ── Mock PolicyRepository ──

type mockPolicyRepo struct {
	policy *model.CompliancePolicy
}

func newMockPolicyRepo() *mockPolicyRepo {
	return &mockPolicyRepo{}
}

func (m *mockPolicyRepo) Get(_ context.Context) (*model.CompliancePolicy, error) {
	if m.policy == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m.policy
	return &cp, nil
}

func (m *mockPolicyRepo) Save(_ context.Context, p *model.CompliancePolicy) error {
	cp := *p
	m.policy = &cp
	return nil
}

// ── 聚合 ──

type mockRepos struct {
	position *mockPositionRepo
	role     *mockPrimaryRoleRepo
	record   *mockEmployeeRecordRepo
	shift    *mockShiftRepo
	policy   *mockPolicyRepo
}

func newMockRepository() (*repository.Repository, *mockRepos) {
	m := &mockRepos{
		position: newMockPositionRepo(),
		role:     newMockPrimaryRoleRepo(),
		record:   newMockEmployeeRecordRepo(),
		shift:    newMockShiftRepo(),
		policy:   newMockPolicyRepo(),
	}
	repo := &repository.Repository{
		Position:       m.position,
		PrimaryRole:    m.role,
		EmployeeRecord: m.record,
		Shift:          m.shift,
		Policy:         m.policy,
	}
	return repo, m
}

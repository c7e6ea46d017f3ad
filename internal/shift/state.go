package shift

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultUndoLimit 撤销栈容量
const DefaultUndoLimit = 5

// State 当日班次聚合：员工名单、顶岗记录、撤销栈三者一起变更。
//
// 所有变更同步完成，内部无锁；多写者场景必须由调用方在外层串行化。
type State struct {
	employees []Employee
	coverage  []CoverageRecord
	undo      []UndoEntry

	undoLimit int
	now       func() time.Time
	newID     func() string
}

// Option State 构造选项
type Option func(*State)

// WithClock 注入时钟
func WithClock(now func() time.Time) Option {
	return func(s *State) { s.now = now }
}

// WithIDGenerator 注入 ID 生成器
func WithIDGenerator(gen func() string) Option {
	return func(s *State) { s.newID = gen }
}

// WithUndoLimit 设置撤销栈容量，<=0 时使用默认值
func WithUndoLimit(n int) Option {
	return func(s *State) {
		if n > 0 {
			s.undoLimit = n
		}
	}
}

// NewState 创建空的当日状态
func NewState(opts ...Option) *State {
	s := &State{
		undoLimit: DefaultUndoLimit,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore 从持久化数据恢复当日状态
func Restore(emps []Employee, coverage []CoverageRecord, undo []UndoEntry, opts ...Option) *State {
	s := NewState(opts...)
	s.employees = append([]Employee(nil), emps...)
	s.coverage = append([]CoverageRecord(nil), coverage...)
	s.undo = append([]UndoEntry(nil), undo...)
	if len(s.undo) > s.undoLimit {
		s.undo = s.undo[:s.undoLimit]
	}
	return s
}

// Employees 名单副本
func (s *State) Employees() []Employee {
	return append([]Employee(nil), s.employees...)
}

// Coverage 顶岗记录副本（含已结束）
func (s *State) Coverage() []CoverageRecord {
	return append([]CoverageRecord(nil), s.coverage...)
}

// Employee 按 ID 查找
func (s *State) Employee(id string) (Employee, bool) {
	return findEmployee(s.employees, id)
}

func (s *State) indexOf(id string) int {
	for i := range s.employees {
		if s.employees[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *State) stamp(at *time.Time) *time.Time {
	if at != nil {
		t := *at
		return &t
	}
	t := s.now()
	return &t
}

// ────────────────────── 名单 ──────────────────────

// NewEmployee 新增当班员工的输入
type NewEmployee struct {
	ID                  string
	EmployeeRecordID    string
	Name                string
	PrimaryRoleID       string
	CurrentAssignmentID string
	ScheduledStart      string
	ScheduledEnd        string
	ScheduledLunch      string
	ActualStart         string
}

// AddEmployee 加入当日班次，ActualStart 缺省取 ScheduledStart
func (s *State) AddEmployee(in NewEmployee) (Employee, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Employee{}, fmt.Errorf("%w: name 不能为空", ErrInvalidInput)
	}
	for _, v := range []string{in.ScheduledStart, in.ScheduledEnd} {
		if err := ValidateWallClock(v); err != nil {
			return Employee{}, err
		}
	}
	for _, v := range []string{in.ScheduledLunch, in.ActualStart} {
		if v == "" {
			continue
		}
		if err := ValidateWallClock(v); err != nil {
			return Employee{}, err
		}
	}

	id := in.ID
	if id == "" {
		id = s.newID()
	}
	if s.indexOf(id) >= 0 {
		return Employee{}, fmt.Errorf("%w: 员工 %s 已在班次中", ErrInvalidInput, id)
	}

	actualStart := in.ActualStart
	if actualStart == "" {
		actualStart = in.ScheduledStart
	}

	emp := Employee{
		ID:                  id,
		EmployeeRecordID:    in.EmployeeRecordID,
		Name:                in.Name,
		PrimaryRoleID:       in.PrimaryRoleID,
		CurrentAssignmentID: in.CurrentAssignmentID,
		ScheduledStart:      in.ScheduledStart,
		ScheduledEnd:        in.ScheduledEnd,
		ScheduledLunch:      in.ScheduledLunch,
		ActualStart:         actualStart,
		LunchStatus:         LunchNotStarted,
		BreakStatus:         BreakNotStarted,
		Status:              StatusActive,
	}
	s.employees = append(s.employees, emp)
	s.pushUndo(UndoEntry{
		Kind:       UndoAddEmployee,
		Label:      "Added " + emp.Name,
		EmployeeID: emp.ID,
	})
	return emp, nil
}

// RemoveEmployee 从当日班次删除
func (s *State) RemoveEmployee(id string) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return ErrEmployeeNotFound
	}
	prior := s.employees[idx]
	s.employees = append(s.employees[:idx:idx], s.employees[idx+1:]...)
	// 关闭与其相关的未结束顶岗记录（无论是被顶岗方还是顶岗人）
	var closed []string
	for i := range s.coverage {
		r := &s.coverage[i]
		if r.Open() && (r.EmployeeID == id || r.CoveredByID == id) {
			r.EndedAt = s.stamp(nil)
			closed = append(closed, r.ID)
		}
	}
	s.pushUndo(UndoEntry{
		Kind:              UndoRemoveEmployee,
		Label:             "Removed " + prior.Name,
		EmployeeID:        prior.ID,
		Index:             idx,
		Prior:             &prior,
		ClosedCoverageIDs: closed,
	})
	return nil
}

// mutate 对单个员工执行变更；kind 非空时记录撤销快照
func (s *State) mutate(id string, kind UndoKind, label string, fn func(e *Employee) error) (Employee, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return Employee{}, ErrEmployeeNotFound
	}
	prior := s.employees[idx]
	next := prior
	if err := fn(&next); err != nil {
		return Employee{}, err
	}
	s.employees[idx] = next
	if kind != "" {
		s.pushUndo(UndoEntry{
			Kind:       kind,
			Label:      label + next.Name,
			EmployeeID: id,
			Prior:      &prior,
		})
	}
	return next, nil
}

// ────────────────────── 午餐 ──────────────────────

// AssignLunch not_started → pending。调用方应先做覆盖检查并取得确认。
func (s *State) AssignLunch(id string) (Employee, error) {
	return s.mutate(id, UndoAssignLunch, "Lunch assigned: ", func(e *Employee) error {
		if e.LunchStatus != LunchNotStarted {
			return fmt.Errorf("%w: lunch_status=%s", ErrInvalidTransition, e.LunchStatus)
		}
		e.LunchStatus = LunchPending
		e.LunchAssignedAt = s.stamp(nil)
		return nil
	})
}

// StartLunch {not_started|pending} → on_lunch，at 用于补录实际开始时间
func (s *State) StartLunch(id string, at *time.Time) (Employee, error) {
	return s.mutate(id, UndoStartLunch, "Lunch started: ", func(e *Employee) error {
		return s.startLunch(e, at)
	})
}

func (s *State) startLunch(e *Employee, at *time.Time) error {
	if e.LunchStatus != LunchNotStarted && e.LunchStatus != LunchPending {
		return fmt.Errorf("%w: lunch_status=%s", ErrInvalidTransition, e.LunchStatus)
	}
	e.LunchStatus = LunchOnLunch
	e.LunchStartedAt = s.stamp(at)
	return nil
}

// EndLunch on_lunch → returned，同时关闭该员工的顶岗记录
func (s *State) EndLunch(id string, at *time.Time) (Employee, error) {
	emp, err := s.mutate(id, "", "", func(e *Employee) error {
		if e.LunchStatus != LunchOnLunch {
			return fmt.Errorf("%w: lunch_status=%s", ErrInvalidTransition, e.LunchStatus)
		}
		ended := s.stamp(at)
		if e.LunchStartedAt != nil && ended.Before(*e.LunchStartedAt) {
			return ErrTimeOrder
		}
		e.LunchStatus = LunchReturned
		e.LunchEndedAt = ended
		return nil
	})
	if err != nil {
		return Employee{}, err
	}
	s.EndCoverage(id)
	return emp, nil
}

// ────────────────────── 小休 ──────────────────────

// StartBreak not_started → on_break；午餐中不允许开始小休
func (s *State) StartBreak(id string, at *time.Time) (Employee, error) {
	return s.mutate(id, UndoStartBreak, "Break started: ", func(e *Employee) error {
		return s.startBreak(e, at)
	})
}

func (s *State) startBreak(e *Employee, at *time.Time) error {
	if e.BreakStatus != BreakNotStarted {
		return fmt.Errorf("%w: break_status=%s", ErrInvalidTransition, e.BreakStatus)
	}
	if e.LunchStatus == LunchOnLunch {
		return fmt.Errorf("%w: 午餐中不能开始小休", ErrInvalidTransition)
	}
	e.BreakStatus = BreakOnBreak
	e.BreakStartedAt = s.stamp(at)
	return nil
}

// EndBreak on_break → returned，同时关闭顶岗记录
func (s *State) EndBreak(id string, at *time.Time) (Employee, error) {
	emp, err := s.mutate(id, "", "", func(e *Employee) error {
		if e.BreakStatus != BreakOnBreak {
			return fmt.Errorf("%w: break_status=%s", ErrInvalidTransition, e.BreakStatus)
		}
		ended := s.stamp(at)
		if e.BreakStartedAt != nil && ended.Before(*e.BreakStartedAt) {
			return ErrTimeOrder
		}
		e.BreakStatus = BreakReturned
		e.BreakEndedAt = ended
		return nil
	})
	if err != nil {
		return Employee{}, err
	}
	s.EndCoverage(id)
	return emp, nil
}

// ────────────────────── 带顶岗的离岗 ──────────────────────

// Cover 顶岗安排
type Cover struct {
	CoveredByID string
	CoverRole   string // 为空时沿用离岗员工当前岗位
}

// StartLunchCovered 开始午餐并同时开启顶岗记录，两者原子生效
func (s *State) StartLunchCovered(id string, at *time.Time, cover Cover) (Employee, CoverageRecord, error) {
	return s.startCovered(id, ReasonLunch, cover, UndoStartLunch, "Lunch started: ", func(e *Employee) error {
		return s.startLunch(e, at)
	})
}

// StartBreakCovered 开始小休并同时开启顶岗记录
func (s *State) StartBreakCovered(id string, at *time.Time, cover Cover) (Employee, CoverageRecord, error) {
	return s.startCovered(id, ReasonBreak, cover, UndoStartBreak, "Break started: ", func(e *Employee) error {
		return s.startBreak(e, at)
	})
}

func (s *State) startCovered(id string, reason CoverageReason, cover Cover, kind UndoKind, label string, fn func(e *Employee) error) (Employee, CoverageRecord, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return Employee{}, CoverageRecord{}, ErrEmployeeNotFound
	}
	rec, err := s.prepareCoverage(CoverageRecord{
		EmployeeID:   id,
		CoveredByID:  cover.CoveredByID,
		OriginalRole: s.employees[idx].CurrentAssignmentID,
		CoverRole:    cover.CoverRole,
		Reason:       reason,
	})
	if err != nil {
		return Employee{}, CoverageRecord{}, err
	}

	prior := s.employees[idx]
	next := prior
	if err := fn(&next); err != nil {
		return Employee{}, CoverageRecord{}, err
	}

	s.employees[idx] = next
	s.coverage = append(s.coverage, rec)
	s.pushUndo(UndoEntry{
		Kind:       kind,
		Label:      label + next.Name,
		EmployeeID: id,
		Prior:      &prior,
		CoverageID: rec.ID,
	})
	return next, rec, nil
}

// ────────────────────── 其他状态 ──────────────────────

// ClockOut active → clocked_out，ActualEnd 记为当前 24 小时制时间
func (s *State) ClockOut(id string) (Employee, error) {
	return s.mutate(id, UndoClockOut, "Clocked out: ", func(e *Employee) error {
		if e.Status != StatusActive {
			return fmt.Errorf("%w: status=%s", ErrInvalidTransition, e.Status)
		}
		e.Status = StatusClockedOut
		e.ActualEnd = s.now().Format(WallClockLayout)
		return nil
	})
}

// MarkAbsent 任意状态 → absent，当日终态
func (s *State) MarkAbsent(id string) (Employee, error) {
	return s.mutate(id, "", "", func(e *Employee) error {
		e.Status = StatusAbsent
		return nil
	})
}

// ChangeAssignment 仅修改当前岗位，不迁移顶岗记录
func (s *State) ChangeAssignment(id, positionID string) (Employee, error) {
	if strings.TrimSpace(positionID) == "" {
		return Employee{}, fmt.Errorf("%w: position_id 不能为空", ErrInvalidInput)
	}
	return s.mutate(id, UndoChangeAssignment, "Reassigned ", func(e *Employee) error {
		e.CurrentAssignmentID = positionID
		return nil
	})
}

// TimeCorrection 手工补录/更正时间，nil 字段保持不变
type TimeCorrection struct {
	ActualStart    *string
	ActualEnd      *string
	LunchStartedAt *time.Time
	LunchEndedAt   *time.Time
	BreakStartedAt *time.Time
	BreakEndedAt   *time.Time
}

// CorrectTimes 手工更正时间。设置开始时间会把子状态推进到进行中，
// 设置结束时间会推进到已返回；结束不得早于开始。
func (s *State) CorrectTimes(id string, c TimeCorrection) (Employee, error) {
	return s.mutate(id, "", "", func(e *Employee) error {
		if c.ActualStart != nil {
			if err := ValidateWallClock(*c.ActualStart); err != nil {
				return err
			}
			e.ActualStart = *c.ActualStart
		}
		if c.ActualEnd != nil {
			if *c.ActualEnd != "" {
				if err := ValidateWallClock(*c.ActualEnd); err != nil {
					return err
				}
			}
			e.ActualEnd = *c.ActualEnd
		}

		if c.LunchStartedAt != nil {
			e.LunchStartedAt = s.stamp(c.LunchStartedAt)
			if !e.LunchStatus.Taken() {
				e.LunchStatus = LunchOnLunch
			}
		}
		if c.LunchEndedAt != nil {
			if e.LunchStartedAt == nil {
				return fmt.Errorf("%w: 缺少午餐开始时间", ErrInvalidTransition)
			}
			e.LunchEndedAt = s.stamp(c.LunchEndedAt)
			e.LunchStatus = LunchReturned
		}
		if e.LunchStartedAt != nil && e.LunchEndedAt != nil && e.LunchEndedAt.Before(*e.LunchStartedAt) {
			return ErrTimeOrder
		}

		if c.BreakStartedAt != nil {
			e.BreakStartedAt = s.stamp(c.BreakStartedAt)
			if e.BreakStatus == BreakNotStarted {
				e.BreakStatus = BreakOnBreak
			}
		}
		if c.BreakEndedAt != nil {
			if e.BreakStartedAt == nil {
				return fmt.Errorf("%w: 缺少小休开始时间", ErrInvalidTransition)
			}
			e.BreakEndedAt = s.stamp(c.BreakEndedAt)
			e.BreakStatus = BreakReturned
		}
		if e.BreakStartedAt != nil && e.BreakEndedAt != nil && e.BreakEndedAt.Before(*e.BreakStartedAt) {
			return ErrTimeOrder
		}
		return nil
	})
}

// ────────────────────── 顶岗记录 ──────────────────────

// AddCoverage 开启顶岗记录，StartedAt 取当前时间。
// 同一离岗员工、同一顶岗人各自最多只能有一条未结束记录。
func (s *State) AddCoverage(rec CoverageRecord) (CoverageRecord, error) {
	rec, err := s.prepareCoverage(rec)
	if err != nil {
		return CoverageRecord{}, err
	}
	s.coverage = append(s.coverage, rec)
	return rec, nil
}

func (s *State) prepareCoverage(rec CoverageRecord) (CoverageRecord, error) {
	if rec.Reason != ReasonLunch && rec.Reason != ReasonBreak {
		return CoverageRecord{}, fmt.Errorf("%w: reason=%q", ErrInvalidInput, rec.Reason)
	}
	if rec.EmployeeID == rec.CoveredByID {
		return CoverageRecord{}, fmt.Errorf("%w: 不能为自己顶岗", ErrCoverageConflict)
	}
	for _, id := range []string{rec.EmployeeID, rec.CoveredByID} {
		if s.indexOf(id) < 0 {
			return CoverageRecord{}, ErrEmployeeNotFound
		}
	}
	if _, ok := s.CoverageFor(rec.EmployeeID); ok {
		return CoverageRecord{}, fmt.Errorf("%w: %s 已有顶岗记录", ErrCoverageConflict, rec.EmployeeID)
	}
	if _, ok := s.CoveringBy(rec.CoveredByID); ok {
		return CoverageRecord{}, fmt.Errorf("%w: %s 正在为他人顶岗", ErrCoverageConflict, rec.CoveredByID)
	}

	if rec.ID == "" {
		rec.ID = s.newID()
	}
	if rec.OriginalRole == "" {
		rec.OriginalRole = s.employees[s.indexOf(rec.EmployeeID)].CurrentAssignmentID
	}
	if rec.CoverRole == "" {
		rec.CoverRole = rec.OriginalRole
	}
	rec.StartedAt = s.now()
	rec.EndedAt = nil
	return rec, nil
}

// EndCoverage 关闭该员工的未结束顶岗记录，返回是否存在
func (s *State) EndCoverage(employeeID string) bool {
	for i := range s.coverage {
		if s.coverage[i].EmployeeID == employeeID && s.coverage[i].Open() {
			s.coverage[i].EndedAt = s.stamp(nil)
			return true
		}
	}
	return false
}

// CoverageFor 谁在为该员工顶岗
func (s *State) CoverageFor(employeeID string) (CoverageRecord, bool) {
	for _, r := range s.coverage {
		if r.Open() && r.EmployeeID == employeeID {
			return r, true
		}
	}
	return CoverageRecord{}, false
}

// CoveringBy 该员工正在为谁顶岗
func (s *State) CoveringBy(employeeID string) (CoverageRecord, bool) {
	for _, r := range s.coverage {
		if r.Open() && r.CoveredByID == employeeID {
			return r, true
		}
	}
	return CoverageRecord{}, false
}

func (s *State) removeCoverage(id string) {
	for i := range s.coverage {
		if s.coverage[i].ID == id {
			s.coverage = append(s.coverage[:i:i], s.coverage[i+1:]...)
			return
		}
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shift-guard/internal/dto"
	"shift-guard/internal/model"
	"shift-guard/internal/repository"
	"shift-guard/internal/shift"
)

// ── 班次模块业务错误 ──

var (
	ErrAlreadyOnShift = errors.New("该员工已在当日班次中")
)

const (
	coverageModeLunch = "lunch"
	coverageModeCover = "cover"
)

// ShiftService 当日班次业务接口
//
// 所有变更按营业日串行：加锁 → 装载 → 执行一次核心变更 → 整体落库。
// 查询接口只读且不加锁。
type ShiftService interface {
	// ── 查询 ──
	Board(ctx context.Context, date string) (*dto.BoardResponse, error)
	Queue(ctx context.Context, date string) ([]dto.ShiftEmployeeResponse, error)
	Coverage(ctx context.Context, date string) ([]dto.PositionCoverageResponse, error)
	CheckCoverage(ctx context.Context, date, employeeID, mode string) (*dto.CoverageCheckResponse, error)
	EligibleCovers(ctx context.Context, date, employeeID string) ([]dto.CoverCandidateResponse, error)

	// ── 名单 ──
	AddEmployee(ctx context.Context, date string, req *dto.AddShiftEmployeeRequest) (*dto.MutationResponse, error)
	RemoveEmployee(ctx context.Context, date, employeeID string) (*dto.MutationResponse, error)

	// ── 午餐 / 小休 ──
	AssignLunch(ctx context.Context, date, employeeID string) (*dto.MutationResponse, error)
	StartLunch(ctx context.Context, date, employeeID string, req *dto.StartAwayRequest) (*dto.MutationResponse, error)
	EndLunch(ctx context.Context, date, employeeID string, req *dto.EndAwayRequest) (*dto.MutationResponse, error)
	StartBreak(ctx context.Context, date, employeeID string, req *dto.StartAwayRequest) (*dto.MutationResponse, error)
	EndBreak(ctx context.Context, date, employeeID string, req *dto.EndAwayRequest) (*dto.MutationResponse, error)

	// ── 状态 / 岗位 / 时间 ──
	ClockOut(ctx context.Context, date, employeeID string) (*dto.MutationResponse, error)
	MarkAbsent(ctx context.Context, date, employeeID string) (*dto.MutationResponse, error)
	ChangeAssignment(ctx context.Context, date, employeeID string, req *dto.ChangeAssignmentRequest) (*dto.MutationResponse, error)
	CorrectTimes(ctx context.Context, date, employeeID string, req *dto.CorrectTimesRequest) (*dto.MutationResponse, error)

	// ── 撤销 ──
	Undo(ctx context.Context, date string) (*dto.UndoEntryResponse, error)
	UndoLog(ctx context.Context, date string) ([]dto.UndoEntryResponse, error)
	ClearUndo(ctx context.Context, date string) error
}

type shiftService struct {
	repo       *repository.Repository
	store      *dayStore
	timeFormat shift.TimeFormat
	logger     *zap.Logger
}

// NewShiftService 创建 ShiftService 实例
func NewShiftService(repo *repository.Repository, store *dayStore, timeFormat shift.TimeFormat, logger *zap.Logger) ShiftService {
	if timeFormat == "" {
		timeFormat = shift.TimeFormat12h
	}
	return &shiftService{repo: repo, store: store, timeFormat: timeFormat, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// 查询
// ═══════════════════════════════════════════════════════════

func (s *shiftService) Board(ctx context.Context, date string) (*dto.BoardResponse, error) {
	day, err := s.store.view(ctx, date)
	if err != nil {
		return nil, err
	}

	onFloor, inactive := shift.GroupByActivity(day.State.Employees())
	ranked, err := shift.SortByCompliancePriority(onFloor, day.Policy, day.Now)
	if err != nil {
		return nil, err
	}

	board := &dto.BoardResponse{
		Date:       day.Date,
		Now:        shift.FormatClock(day.Now, s.timeFormat),
		TimeFormat: string(s.timeFormat),
		OnFloor:    make([]dto.ShiftEmployeeResponse, 0, len(ranked)),
		Inactive:   make([]dto.ShiftEmployeeResponse, 0, len(inactive)),
		Coverage:   s.positionCoverage(day),
	}
	for _, r := range ranked {
		board.OnFloor = append(board.OnFloor, s.withCompliance(day, r.Employee, r.Compliance))
	}
	for _, e := range inactive {
		resp, err := s.employeeResponse(day, e)
		if err != nil {
			return nil, err
		}
		board.Inactive = append(board.Inactive, resp)
	}
	if head, ok := day.State.UndoHead(); ok {
		board.UndoHead = toUndoEntryResponse(head)
	}
	return board, nil
}

func (s *shiftService) Queue(ctx context.Context, date string) ([]dto.ShiftEmployeeResponse, error) {
	day, err := s.store.view(ctx, date)
	if err != nil {
		return nil, err
	}

	queue, err := shift.PriorityQueue(day.State.Employees(), day.Policy, day.Now)
	if err != nil {
		return nil, err
	}
	result := make([]dto.ShiftEmployeeResponse, 0, len(queue))
	for _, e := range queue {
		resp, err := s.employeeResponse(day, e)
		if err != nil {
			return nil, err
		}
		result = append(result, resp)
	}
	return result, nil
}

func (s *shiftService) Coverage(ctx context.Context, date string) ([]dto.PositionCoverageResponse, error) {
	day, err := s.store.view(ctx, date)
	if err != nil {
		return nil, err
	}
	return s.positionCoverage(day), nil
}

func (s *shiftService) CheckCoverage(ctx context.Context, date, employeeID, mode string) (*dto.CoverageCheckResponse, error) {
	day, err := s.store.view(ctx, date)
	if err != nil {
		return nil, err
	}

	var check shift.CoverageCheck
	switch mode {
	case "", coverageModeLunch:
		mode = coverageModeLunch
		check, err = shift.CheckCoverageForLunch(day.State.Employees(), employeeID, day.Positions)
	case coverageModeCover:
		check, err = shift.CheckCoverageForCover(day.State.Employees(), employeeID, day.Positions)
	default:
		return nil, fmt.Errorf("%w: mode=%q", shift.ErrInvalidInput, mode)
	}
	if err != nil {
		return nil, err
	}

	return &dto.CoverageCheckResponse{
		EmployeeID: employeeID,
		Mode:       mode,
		Safe:       check.Safe,
		Warnings:   check.Warnings,
	}, nil
}

func (s *shiftService) EligibleCovers(ctx context.Context, date, employeeID string) ([]dto.CoverCandidateResponse, error) {
	day, err := s.store.view(ctx, date)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.EmployeeRecord.List(ctx, false)
	if err != nil {
		s.logger.Error("读取员工档案失败", zap.Error(err))
		return nil, err
	}

	emps := day.State.Employees()
	covers, err := shift.EligibleCovers(emps, employeeID, model.RecordsToShift(records), day.Positions)
	if err != nil {
		return nil, err
	}

	result := make([]dto.CoverCandidateResponse, 0, len(covers))
	for _, c := range covers {
		check, err := shift.CheckCoverageForCover(emps, c.ID, day.Positions)
		if err != nil {
			return nil, err
		}
		result = append(result, dto.CoverCandidateResponse{
			ID:                  c.ID,
			Name:                c.Name,
			CurrentAssignmentID: c.CurrentAssignmentID,
			Safe:                check.Safe,
			Warnings:            check.Warnings,
		})
	}
	return result, nil
}

// ═══════════════════════════════════════════════════════════
// 名单
// ═══════════════════════════════════════════════════════════

func (s *shiftService) AddEmployee(ctx context.Context, date string, req *dto.AddShiftEmployeeRequest) (*dto.MutationResponse, error) {
	in := shift.NewEmployee{
		EmployeeRecordID:    req.EmployeeRecordID,
		Name:                req.Name,
		PrimaryRoleID:       req.PrimaryRoleID,
		CurrentAssignmentID: req.CurrentAssignmentID,
		ScheduledStart:      req.ScheduledStart,
		ScheduledEnd:        req.ScheduledEnd,
		ScheduledLunch:      req.ScheduledLunch,
		ActualStart:         req.ActualStart,
	}

	var record *shift.EmployeeRecord
	if req.EmployeeRecordID != "" {
		rec, err := s.repo.EmployeeRecord.GetByID(ctx, req.EmployeeRecordID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrEmployeeRecordNotFound
			}
			s.logger.Error("查询员工档案失败", zap.String("record_id", req.EmployeeRecordID), zap.Error(err))
			return nil, err
		}
		r := rec.ToShift()
		record = &r
		if in.Name == "" {
			in.Name = r.Name
		}
		if in.PrimaryRoleID == "" {
			in.PrimaryRoleID = r.PrimaryRoleID
		}
	}

	var added shift.Employee
	day, err := s.store.mutate(ctx, date, func(day *shiftDay) error {
		if record != nil && onShift(day.State.Employees(), record.ID) {
			return fmt.Errorf("%w: %s", ErrAlreadyOnShift, record.Name)
		}
		if in.CurrentAssignmentID == "" && record != nil {
			if qualified := shift.QualifiedPositions(*record, day.Positions); len(qualified) > 0 {
				in.CurrentAssignmentID = qualified[0].ID
			}
		}
		if in.CurrentAssignmentID != "" {
			if _, ok := day.position(in.CurrentAssignmentID); !ok {
				return fmt.Errorf("%w: %s", ErrPositionNotFound, in.CurrentAssignmentID)
			}
		}

		var err error
		added, err = day.State.AddEmployee(in)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("员工加入班次", zap.String("date", day.Date), zap.String("employee_id", added.ID), zap.String("name", added.Name))
	return s.mutationResponse(day, added, nil, nil)
}

func (s *shiftService) RemoveEmployee(ctx context.Context, date, employeeID string) (*dto.MutationResponse, error) {
	day, err := s.store.mutate(ctx, date, func(day *shiftDay) error {
		return day.State.RemoveEmployee(employeeID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("员工移出班次", zap.String("date", day.Date), zap.String("employee_id", employeeID))
	resp := &dto.MutationResponse{}
	if head, ok := day.State.UndoHead(); ok {
		resp.UndoHead = toUndoEntryResponse(head)
	}
	return resp, nil
}

// ═══════════════════════════════════════════════════════════
// 午餐 / 小休
// ═══════════════════════════════════════════════════════════

func (s *shiftService) AssignLunch(ctx context.Context, date, employeeID string) (*dto.MutationResponse, error) {
	var (
		emp      shift.Employee
		warnings []string
	)
	day, err := s.store.mutate(ctx, date, func(day *shiftDay) error {
		check, err := shift.CheckCoverageForLunch(day.State.Employees(), employeeID, day.Positions)
		if err != nil {
			return err
		}
		warnings = check.Warnings

		emp, err = day.State.AssignLunch(employeeID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logMutation(day, "已安排午餐", employeeID)
	return s.mutationResponse(day, emp, nil, warnings)
}

func (s *shiftService) StartLunch(ctx context.Context, date, employeeID string, req *dto.StartAwayRequest) (*dto.MutationResponse, error) {
	return s.startAway(ctx, date, employeeID, req, shift.ReasonLunch)
}

func (s *shiftService) StartBreak(ctx context.Context, date, employeeID string, req *dto.StartAwayRequest) (*dto.MutationResponse, error) {
	return s.startAway(ctx, date, employeeID, req, shift.ReasonBreak)
}

// startAway 开始午餐/小休；指定顶岗人时同时开启顶岗记录
func (s *shiftService) startAway(ctx context.Context, date, employeeID string, req *dto.StartAwayRequest, reason shift.CoverageReason) (*dto.MutationResponse, error) {
	if req == nil {
		req = &dto.StartAwayRequest{}
	}

	var (
		emp      shift.Employee
		rec      *shift.CoverageRecord
		warnings []string
	)
	day, err := s.store.mutate(ctx, date, func(day *shiftDay) error {
		at, err := parseAt(req.At, day)
		if err != nil {
			return err
		}
		emps := day.State.Employees()

		if req.CoveredByID == "" {
			// 午餐腾空岗位，小休不影响在岗人数
			if reason == shift.ReasonBreak {
				emp, err = day.State.StartBreak(employeeID, at)
				return err
			}
			check, err := shift.CheckCoverageForLunch(emps, employeeID, day.Positions)
			if err != nil {
				return err
			}
			warnings = check.Warnings
			emp, err = day.State.StartLunch(employeeID, at)
			return err
		}

		if req.CoverRole != "" {
			if _, ok := day.position(req.CoverRole); !ok {
				return fmt.Errorf("%w: %s", ErrPositionNotFound, req.CoverRole)
			}
		}
		check, err := shift.CheckCoverageForCover(emps, req.CoveredByID, day.Positions)
		if err != nil {
			return err
		}
		warnings = check.Warnings

		cover := shift.Cover{CoveredByID: req.CoveredByID, CoverRole: req.CoverRole}
		var r shift.CoverageRecord
		if reason == shift.ReasonLunch {
			emp, r, err = day.State.StartLunchCovered(employeeID, at, cover)
		} else {
			emp, r, err = day.State.StartBreakCovered(employeeID, at, cover)
		}
		if err != nil {
			return err
		}
		rec = &r
		return nil
	})
	if err != nil {
		return nil, err
	}

	if reason == shift.ReasonLunch {
		s.logMutation(day, "开始午餐", employeeID)
	} else {
		s.logMutation(day, "开始小休", employeeID)
	}
	return s.mutationResponse(day, emp, rec, warnings)
}

func (s *shiftService) EndLunch(ctx context.Context, date, employeeID string, req *dto.EndAwayRequest) (*dto.MutationResponse, error) {
	return s.endAway(ctx, date, employeeID, req, shift.ReasonLunch)
}

func (s *shiftService) EndBreak(ctx context.Context, date, employeeID string, req *dto.EndAwayRequest) (*dto.MutationResponse, error) {
	return s.endAway(ctx, date, employeeID, req, shift.ReasonBreak)
}

func (s *shiftService) endAway(ctx context.Context, date, employeeID string, req *dto.EndAwayRequest, reason shift.CoverageReason) (*dto.MutationResponse, error) {
	if req == nil {
		req = &dto.EndAwayRequest{}
	}

	var emp shift.Employee
	day, err := s.store.mutate(ctx, date, func(day *shiftDay) error {
		at, err := parseAt(req.At, day)
		if err != nil {
			return err
		}
		if reason == shift.ReasonLunch {
			emp, err = day.State.EndLunch(employeeID, at)
		} else {
			emp, err = day.State.EndBreak(employeeID, at)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	if reason == shift.ReasonLunch {
		s.logMutation(day, "午餐结束", employeeID)
	} else {
		s.logMutation(day, "小休结束", employeeID)
	}
	return s.mutationResponse(day, emp, nil, nil)
}

// ═══════════════════════════════════════════════════════════
// 状态 / 岗位 / 时间
// ═══════════════════════════════════════════════════════════

func (s *shiftService) ClockOut(ctx context.Context, date, employeeID string) (*dto.MutationResponse, error) {
	return s.simple(ctx, date, employeeID, "已下班", func(st *shift.State) (shift.Employee, error) {
		return st.ClockOut(employeeID)
	})
}

func (s *shiftService) MarkAbsent(ctx context.Context, date, employeeID string) (*dto.MutationResponse, error) {
	return s.simple(ctx, date, employeeID, "标记缺勤", func(st *shift.State) (shift.Employee, error) {
		return st.MarkAbsent(employeeID)
	})
}

func (s *shiftService) ChangeAssignment(ctx context.Context, date, employeeID string, req *dto.ChangeAssignmentRequest) (*dto.MutationResponse, error) {
	var emp shift.Employee
	day, err := s.store.mutate(ctx, date, func(day *shiftDay) error {
		if _, ok := day.position(req.PositionID); !ok {
			return fmt.Errorf("%w: %s", ErrPositionNotFound, req.PositionID)
		}
		var err error
		emp, err = day.State.ChangeAssignment(employeeID, req.PositionID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logMutation(day, "调岗", employeeID)
	return s.mutationResponse(day, emp, nil, nil)
}

func (s *shiftService) CorrectTimes(ctx context.Context, date, employeeID string, req *dto.CorrectTimesRequest) (*dto.MutationResponse, error) {
	var emp shift.Employee
	day, err := s.store.mutate(ctx, date, func(day *shiftDay) error {
		c := shift.TimeCorrection{
			ActualStart: req.ActualStart,
			ActualEnd:   req.ActualEnd,
		}
		var err error
		if c.LunchStartedAt, err = parseOptionalClock(req.LunchStartedAt, day); err != nil {
			return err
		}
		if c.LunchEndedAt, err = parseOptionalClock(req.LunchEndedAt, day); err != nil {
			return err
		}
		if c.BreakStartedAt, err = parseOptionalClock(req.BreakStartedAt, day); err != nil {
			return err
		}
		if c.BreakEndedAt, err = parseOptionalClock(req.BreakEndedAt, day); err != nil {
			return err
		}

		emp, err = day.State.CorrectTimes(employeeID, c)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logMutation(day, "更正时间", employeeID)
	return s.mutationResponse(day, emp, nil, nil)
}

// simple 无额外校验的单员工变更
func (s *shiftService) simple(ctx context.Context, date, employeeID, action string, fn func(st *shift.State) (shift.Employee, error)) (*dto.MutationResponse, error) {
	var emp shift.Employee
	day, err := s.store.mutate(ctx, date, func(day *shiftDay) error {
		var err error
		emp, err = fn(day.State)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logMutation(day, action, employeeID)
	return s.mutationResponse(day, emp, nil, nil)
}

// ═══════════════════════════════════════════════════════════
// 撤销
// ═══════════════════════════════════════════════════════════

func (s *shiftService) Undo(ctx context.Context, date string) (*dto.UndoEntryResponse, error) {
	var (
		entry    shift.UndoEntry
		applyErr error
	)
	day, err := s.store.mutate(ctx, date, func(day *shiftDay) error {
		var err error
		entry, err = day.State.Undo()
		if errors.Is(err, shift.ErrNothingToUndo) {
			return err
		}
		// 无法应用的记录同样出栈，出栈结果需要落库
		applyErr = err
		return nil
	})
	if err != nil {
		return nil, err
	}
	if applyErr != nil {
		s.logger.Warn("撤销记录已失效", zap.String("date", day.Date), zap.String("label", entry.Label), zap.Error(applyErr))
		return nil, applyErr
	}

	s.logger.Info("已撤销", zap.String("date", day.Date), zap.String("label", entry.Label))
	return toUndoEntryResponse(entry), nil
}

func (s *shiftService) UndoLog(ctx context.Context, date string) ([]dto.UndoEntryResponse, error) {
	day, err := s.store.view(ctx, date)
	if err != nil {
		return nil, err
	}

	log := day.State.UndoLog()
	result := make([]dto.UndoEntryResponse, 0, len(log))
	for _, e := range log {
		result = append(result, *toUndoEntryResponse(e))
	}
	return result, nil
}

func (s *shiftService) ClearUndo(ctx context.Context, date string) error {
	_, err := s.store.mutate(ctx, date, func(day *shiftDay) error {
		day.State.ClearUndo()
		return nil
	})
	return err
}

// ── 辅助函数 ──

func (s *shiftService) logMutation(day *shiftDay, action, employeeID string) {
	fields := []zap.Field{zap.String("date", day.Date), zap.String("employee_id", employeeID)}
	if head, ok := day.State.UndoHead(); ok {
		fields = append(fields, zap.String("undo", head.Label))
	}
	s.logger.Info(action, fields...)
}

func (s *shiftService) mutationResponse(day *shiftDay, emp shift.Employee, rec *shift.CoverageRecord, warnings []string) (*dto.MutationResponse, error) {
	er, err := s.employeeResponse(day, emp)
	if err != nil {
		return nil, err
	}
	resp := &dto.MutationResponse{Employee: &er, Coverage: rec, Warnings: warnings}
	if head, ok := day.State.UndoHead(); ok {
		resp.UndoHead = toUndoEntryResponse(head)
	}
	return resp, nil
}

func (s *shiftService) employeeResponse(day *shiftDay, e shift.Employee) (dto.ShiftEmployeeResponse, error) {
	info, err := shift.Evaluate(e, day.Policy, day.Now)
	if err != nil {
		return dto.ShiftEmployeeResponse{}, err
	}
	return s.withCompliance(day, e, info), nil
}

func (s *shiftService) withCompliance(day *shiftDay, e shift.Employee, info shift.ComplianceInfo) dto.ShiftEmployeeResponse {
	resp := dto.ShiftEmployeeResponse{
		Employee:   e,
		Compliance: s.complianceResponse(day, e, info),
	}
	if pos, ok := day.position(e.CurrentAssignmentID); ok {
		resp.AssignmentName = pos.Name
	}
	if r, ok := day.State.CoverageFor(e.ID); ok {
		resp.CoveredBy = s.coverageRef(day, r, r.CoveredByID)
	}
	if r, ok := day.State.CoveringBy(e.ID); ok {
		resp.Covering = s.coverageRef(day, r, r.EmployeeID)
	}
	return resp
}

func (s *shiftService) complianceResponse(day *shiftDay, e shift.Employee, info shift.ComplianceInfo) dto.ComplianceResponse {
	resp := dto.ComplianceResponse{
		Level:       string(info.Level),
		Label:       info.Label,
		HoursWorked: math.Round(info.HoursWorked*100) / 100,
		Remaining:   shift.FormatDuration(info.MinutesToDeadline),
	}
	if !math.IsInf(info.MinutesToDeadline, 0) {
		m := math.Round(info.MinutesToDeadline*10) / 10
		resp.MinutesToDeadline = &m
		if start, err := shift.ParseWallClock(e.ActualStart, day.Day); err == nil {
			deadline := start.Add(time.Duration(day.Policy.DeadlineMinutes() * float64(time.Minute)))
			resp.Deadline = shift.FormatClock(deadline, s.timeFormat)
		}
	}
	return resp
}

// coverageRef other 为关系中的另一方
func (s *shiftService) coverageRef(day *shiftDay, r shift.CoverageRecord, other string) *dto.CoverageRef {
	ref := &dto.CoverageRef{
		CoverageID: r.ID,
		EmployeeID: other,
		Role:       r.CoverRole,
		Reason:     string(r.Reason),
		Since:      shift.FormatClock(r.StartedAt.In(day.Day.Location()), s.timeFormat),
	}
	if e, ok := day.State.Employee(other); ok {
		ref.Name = e.Name
	}
	return ref
}

func (s *shiftService) positionCoverage(day *shiftDay) []dto.PositionCoverageResponse {
	emps := day.State.Employees()
	result := make([]dto.PositionCoverageResponse, 0, len(day.Positions))
	for _, p := range day.Positions {
		count := shift.ActiveCountForPosition(emps, p.ID)
		result = append(result, dto.PositionCoverageResponse{
			PositionID:         p.ID,
			Name:               p.Name,
			ActiveCount:        count,
			MinCoverage:        p.MinCoverage,
			CoverageProtection: p.CoverageProtection,
			BelowMinimum:       p.CoverageProtection && count < p.MinCoverage,
		})
	}
	return result
}

func toUndoEntryResponse(e shift.UndoEntry) *dto.UndoEntryResponse {
	return &dto.UndoEntryResponse{
		ID:         e.ID,
		Kind:       string(e.Kind),
		Label:      e.Label,
		EmployeeID: e.EmployeeID,
		CreatedAt:  e.CreatedAt.Format(time.RFC3339),
	}
}

// onShift 该档案在当日是否已有在岗记录
func onShift(emps []shift.Employee, recordID string) bool {
	for _, e := range emps {
		if e.EmployeeRecordID == recordID && e.Status == shift.StatusActive {
			return true
		}
	}
	return false
}

// parseAt 解析可选的 HH:mm，空串表示使用当前时间
func parseAt(at string, day *shiftDay) (*time.Time, error) {
	if at == "" {
		return nil, nil
	}
	t, err := shift.ParseWallClock(at, day.Day)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseOptionalClock(v *string, day *shiftDay) (*time.Time, error) {
	if v == nil {
		return nil, nil
	}
	return parseAt(*v, day)
}

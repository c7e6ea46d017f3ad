package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"shift-guard/internal/dto"
	"shift-guard/internal/model"
	"shift-guard/internal/repository"
	"shift-guard/internal/shift"
)

// ── 导入模块业务错误 ──

var (
	ErrImportFormat = errors.New("排班文件格式解析失败")
	ErrImportEmpty  = errors.New("未解析到任何排班行")
	ErrImportSource = errors.New("请上传文件，或提供 url / text")
)

const (
	defaultImportStart = "09:00"
	defaultImportEnd   = "17:00"

	skipNoRecord = "未匹配到员工档案"
	skipOnShift  = "已在当日班次中"
	skipBadTime  = "时间格式无效"
)

// ImportService 排班导入业务接口
//
// 解析出的每一行按姓名匹配花名册（精确 → 包含 → 单词重合度），
// 未匹配或已在岗的行跳过；岗位取档案第一个可胜任岗位。
type ImportService interface {
	// ImportICS 从上传的 iCalendar 文件导入
	ImportICS(ctx context.Context, date string, reader io.Reader, req *dto.ImportScheduleRequest) (*dto.ImportResponse, error)
	// ImportURL 从订阅地址拉取 iCalendar 导入
	ImportURL(ctx context.Context, date string, req *dto.ImportScheduleRequest) (*dto.ImportResponse, error)
	// ImportText 从粘贴的纯文本导入
	ImportText(ctx context.Context, date string, req *dto.ImportScheduleRequest) (*dto.ImportResponse, error)
}

type importService struct {
	repo   *repository.Repository
	store  *dayStore
	logger *zap.Logger
}

// NewImportService 创建 ImportService 实例
func NewImportService(repo *repository.Repository, store *dayStore, logger *zap.Logger) ImportService {
	return &importService{repo: repo, store: store, logger: logger}
}

// ────────────────────── ICS ──────────────────────

func (s *importService) ImportICS(ctx context.Context, date string, reader io.Reader, req *dto.ImportScheduleRequest) (*dto.ImportResponse, error) {
	_, day, _, err := s.store.resolve(date)
	if err != nil {
		return nil, err
	}
	rows, err := ParseICS(io.LimitReader(reader, icsMaxFileSize), day)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, date, rows, req)
}

func (s *importService) ImportURL(ctx context.Context, date string, req *dto.ImportScheduleRequest) (*dto.ImportResponse, error) {
	if req == nil || req.URL == "" {
		return nil, ErrImportSource
	}
	body, err := FetchICSContent(ctx, req.URL)
	if err != nil {
		s.logger.Warn("拉取 ICS 失败", zap.String("url", req.URL), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrImportFormat, err)
	}
	defer body.Close()
	return s.ImportICS(ctx, date, body, req)
}

// ────────────────────── 纯文本 ──────────────────────

func (s *importService) ImportText(ctx context.Context, date string, req *dto.ImportScheduleRequest) (*dto.ImportResponse, error) {
	if req == nil || strings.TrimSpace(req.Text) == "" {
		return nil, ErrImportSource
	}
	if _, _, _, err := s.store.resolve(date); err != nil {
		return nil, err
	}
	return s.apply(ctx, date, ParseScheduleText(req.Text), req)
}

// ────────────────────── 应用到班次 ──────────────────────

func (s *importService) apply(ctx context.Context, date string, rows []dto.ScheduleRow, req *dto.ImportScheduleRequest) (*dto.ImportResponse, error) {
	if len(rows) == 0 {
		return nil, ErrImportEmpty
	}

	defStart, defEnd := defaultImportStart, defaultImportEnd
	if req != nil && req.DefaultStart != "" {
		defStart = req.DefaultStart
	}
	if req != nil && req.DefaultEnd != "" {
		defEnd = req.DefaultEnd
	}
	for _, v := range []string{defStart, defEnd} {
		if err := shift.ValidateWallClock(v); err != nil {
			return nil, err
		}
	}

	list, err := s.repo.EmployeeRecord.List(ctx, false)
	if err != nil {
		s.logger.Error("读取员工档案失败", zap.Error(err))
		return nil, err
	}
	records := model.RecordsToShift(list)

	resp := &dto.ImportResponse{
		Parsed:   len(rows),
		Imported: []dto.ImportedRow{},
		Skipped:  []dto.SkippedRow{},
	}
	day, err := s.store.mutate(ctx, date, func(day *shiftDay) error {
		for _, row := range rows {
			rec, ok := matchRecordByName(row.Name, records)
			if !ok {
				resp.Skipped = append(resp.Skipped, dto.SkippedRow{Name: row.Name, Reason: skipNoRecord})
				continue
			}
			if onShift(day.State.Employees(), rec.ID) {
				resp.Skipped = append(resp.Skipped, dto.SkippedRow{Name: row.Name, Reason: skipOnShift})
				continue
			}

			start, end := orDefault(row.Start, defStart), orDefault(row.End, defEnd)
			assignment := ""
			if qualified := shift.QualifiedPositions(rec, day.Positions); len(qualified) > 0 {
				assignment = qualified[0].ID
			}

			emp, err := day.State.AddEmployee(shift.NewEmployee{
				EmployeeRecordID:    rec.ID,
				Name:                rec.Name,
				PrimaryRoleID:       rec.PrimaryRoleID,
				CurrentAssignmentID: assignment,
				ScheduledStart:      start,
				ScheduledEnd:        end,
				ScheduledLunch:      row.Lunch,
				ActualStart:         start,
			})
			if errors.Is(err, shift.ErrInvalidWallClock) {
				resp.Skipped = append(resp.Skipped, dto.SkippedRow{Name: row.Name, Reason: skipBadTime})
				continue
			}
			if err != nil {
				return err
			}

			resp.Imported = append(resp.Imported, dto.ImportedRow{
				Name:             emp.Name,
				EmployeeRecordID: rec.ID,
				ShiftEmployeeID:  emp.ID,
				AssignmentID:     assignment,
				ScheduledStart:   start,
				ScheduledEnd:     end,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("排班导入完成",
		zap.String("date", day.Date),
		zap.Int("parsed", resp.Parsed),
		zap.Int("imported", len(resp.Imported)),
		zap.Int("skipped", len(resp.Skipped)),
	)
	return resp, nil
}

// ── 姓名匹配 ──

// normalizeName 小写、去标点、压缩空白
func normalizeName(v string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case unicode.IsSpace(r):
			return ' '
		default:
			return -1
		}
	}, strings.ToLower(v))
	return strings.Join(strings.Fields(mapped), " ")
}

// matchRecordByName 精确 → 互相包含 → 单词重合最多者
func matchRecordByName(name string, records []shift.EmployeeRecord) (shift.EmployeeRecord, bool) {
	target := normalizeName(name)
	if target == "" {
		return shift.EmployeeRecord{}, false
	}

	for _, r := range records {
		if normalizeName(r.Name) == target {
			return r, true
		}
	}
	for _, r := range records {
		n := normalizeName(r.Name)
		if n != "" && (strings.Contains(n, target) || strings.Contains(target, n)) {
			return r, true
		}
	}

	targetTokens := strings.Fields(target)
	var (
		best      shift.EmployeeRecord
		bestScore int
	)
	for _, r := range records {
		tokens := make(map[string]bool)
		for _, t := range strings.Fields(normalizeName(r.Name)) {
			tokens[t] = true
		}
		score := 0
		for _, t := range targetTokens {
			if tokens[t] {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = r, score
		}
	}
	return best, bestScore > 0
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

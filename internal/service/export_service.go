package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"shift-guard/internal/dto"
	"shift-guard/internal/shift"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response。
// Sheet "合规看板" 与看板接口同序；Sheet "岗位覆盖" 为各岗位在岗人数。
type ExportService interface {
	// ExportBoard 导出某营业日的合规看板为 Excel
	ExportBoard(ctx context.Context, date string) (*bytes.Buffer, string, error)
}

type exportService struct {
	shifts ShiftService
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(shifts ShiftService, logger *zap.Logger) ExportService {
	return &exportService{shifts: shifts, logger: logger}
}

const (
	boardSheet    = "合规看板"
	coverageSheet = "岗位覆盖"
)

var boardHeaders = []string{"姓名", "岗位", "状态", "排班", "实际上班", "午餐", "小休", "已工作(小时)", "剩余", "截止", "合规"}

// levelColors 合规等级底色
var levelColors = map[shift.Level]string{
	shift.LevelViolation: "#F8696B",
	shift.LevelCritical:  "#FFA35C",
	shift.LevelUrgent:    "#FFD966",
	shift.LevelWarning:   "#FFF2CC",
	shift.LevelSafe:      "#C6EFCE",
}

// ═══════════════════════════════════════════════════════════
// ExportBoard — 导出合规看板为 Excel
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportBoard(ctx context.Context, date string) (*bytes.Buffer, string, error) {
	board, err := s.shifts.Board(ctx, date)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, _ := f.NewSheet(boardSheet)
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	if err := s.writeBoardSheet(f, board); err != nil {
		s.logger.Error("写入合规看板失败", zap.String("date", board.Date), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	if err := s.writeCoverageSheet(f, board); err != nil {
		s.logger.Error("写入岗位覆盖失败", zap.String("date", board.Date), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("合规看板_%s.xlsx", board.Date)
	return buf, filename, nil
}

func (s *exportService) writeBoardSheet(f *excelize.File, board *dto.BoardResponse) error {
	f.SetColWidth(boardSheet, "A", "A", 22)
	f.SetColWidth(boardSheet, "B", "C", 16)
	f.SetColWidth(boardSheet, "D", "E", 14)
	f.SetColWidth(boardSheet, "F", "G", 12)
	f.SetColWidth(boardSheet, "H", "J", 12)
	f.SetColWidth(boardSheet, "K", "K", 16)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	levelStyles := make(map[shift.Level]int, len(levelColors))
	for level, color := range levelColors {
		st, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return err
		}
		levelStyles[level] = st
	}

	// 标题行
	f.SetCellValue(boardSheet, "A1", fmt.Sprintf("%s 合规看板（截至 %s）", board.Date, board.Now))
	f.MergeCell(boardSheet, "A1", cell(colName(len(boardHeaders)-1), 1))
	f.SetCellStyle(boardSheet, "A1", "A1", headerStyle)

	// 表头
	for i, h := range boardHeaders {
		f.SetCellValue(boardSheet, cell(colName(i), 2), h)
	}
	f.SetCellStyle(boardSheet, "A2", cell(colName(len(boardHeaders)-1), 2), headerStyle)

	row := 3
	for _, group := range [][]dto.ShiftEmployeeResponse{board.OnFloor, board.Inactive} {
		for _, e := range group {
			values := []interface{}{
				e.Name,
				orDash(e.AssignmentName),
				string(e.Status),
				fmt.Sprintf("%s-%s", e.ScheduledStart, e.ScheduledEnd),
				orDash(e.ActualStart),
				string(e.LunchStatus),
				string(e.BreakStatus),
				e.Compliance.HoursWorked,
				e.Compliance.Remaining,
				orDash(e.Compliance.Deadline),
				e.Compliance.Label,
			}
			for i, v := range values {
				f.SetCellValue(boardSheet, cell(colName(i), row), v)
			}
			if st, ok := levelStyles[shift.Level(e.Compliance.Level)]; ok {
				last := cell(colName(len(boardHeaders)-1), row)
				f.SetCellStyle(boardSheet, last, last, st)
			}
			row++
		}
	}
	return nil
}

func (s *exportService) writeCoverageSheet(f *excelize.File, board *dto.BoardResponse) error {
	if _, err := f.NewSheet(coverageSheet); err != nil {
		return err
	}
	f.SetColWidth(coverageSheet, "A", "A", 20)
	f.SetColWidth(coverageSheet, "B", "E", 12)

	headers := []string{"岗位", "在岗人数", "最低人数", "受保护", "低于最低"}
	for i, h := range headers {
		f.SetCellValue(coverageSheet, cell(colName(i), 1), h)
	}

	for i, p := range board.Coverage {
		row := i + 2
		f.SetCellValue(coverageSheet, cell("A", row), p.Name)
		f.SetCellValue(coverageSheet, cell("B", row), p.ActiveCount)
		f.SetCellValue(coverageSheet, cell("C", row), p.MinCoverage)
		f.SetCellValue(coverageSheet, cell("D", row), yesNo(p.CoverageProtection))
		f.SetCellValue(coverageSheet, cell("E", row), yesNo(p.BelowMinimum))
	}
	return nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func orDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}

func yesNo(b bool) string {
	if b {
		return "是"
	}
	return "否"
}

package shift

import (
	"math"
	"time"
)

// Level 合规等级
type Level string

const (
	LevelSafe      Level = "safe"
	LevelWarning   Level = "warning"
	LevelUrgent    Level = "urgent"
	LevelCritical  Level = "critical"
	LevelViolation Level = "violation"
)

// Rank 严重程度排序值，越小越紧急
func (l Level) Rank() int {
	switch l {
	case LevelViolation:
		return 0
	case LevelCritical:
		return 1
	case LevelUrgent:
		return 2
	case LevelWarning:
		return 3
	default:
		return 4
	}
}

// 等级标签
const (
	LabelNotStarted = "Not started"
	LabelLunchTaken = "Lunch taken"
	LabelViolation  = "VIOLATION"
	LabelCritical   = "Critical risk!"
	LabelUrgent     = "Must send soon"
	LabelWarning    = "Plan lunch now"
	LabelOnTrack    = "On track"
)

// ComplianceInfo 派生结果，不持久化。MinutesToDeadline 可能为 +Inf。
type ComplianceInfo struct {
	Level             Level
	HoursWorked       float64
	MinutesToDeadline float64
	Label             string
}

// Evaluate 计算单个员工在 now 时刻的合规状态。
// 纯函数：调用方需按轮询节奏反复调用。
func Evaluate(emp Employee, p Policy, now time.Time) (ComplianceInfo, error) {
	if emp.ActualStart == "" || emp.Status != StatusActive {
		return ComplianceInfo{
			Level:             LevelSafe,
			MinutesToDeadline: math.Inf(1),
			Label:             LabelNotStarted,
		}, nil
	}

	if emp.LunchStatus.Taken() {
		hw, err := HoursWorked(emp, now)
		if err != nil {
			return ComplianceInfo{}, err
		}
		return ComplianceInfo{
			Level:             LevelSafe,
			HoursWorked:       hw,
			MinutesToDeadline: math.Inf(1),
			Label:             LabelLunchTaken,
		}, nil
	}

	start, err := ParseWallClock(emp.ActualStart, now)
	if err != nil {
		return ComplianceInfo{}, err
	}
	elapsed := now.Sub(start).Minutes()
	remaining := p.DeadlineMinutes() - elapsed
	level, label := classify(remaining, p)

	return ComplianceInfo{
		Level:             level,
		HoursWorked:       elapsed / 60,
		MinutesToDeadline: remaining,
		Label:             label,
	}, nil
}

// classify 以"距截止剩余分钟"判定等级，阈值均为闭区间
func classify(remaining float64, p Policy) (Level, string) {
	switch {
	case remaining <= 0:
		return LevelViolation, LabelViolation
	case remaining <= p.CriticalMinutes:
		return LevelCritical, LabelCritical
	case remaining <= p.UrgentMinutes:
		return LevelUrgent, LabelUrgent
	case remaining <= p.WarningMinutes:
		return LevelWarning, LabelWarning
	default:
		return LevelSafe, LabelOnTrack
	}
}

// MinutesToDeadline 距用餐截止的剩余分钟，不考虑午餐豁免。
// 未开工或非在岗返回 +Inf。
func MinutesToDeadline(emp Employee, p Policy, now time.Time) (float64, error) {
	if emp.ActualStart == "" || emp.Status != StatusActive {
		return math.Inf(1), nil
	}
	start, err := ParseWallClock(emp.ActualStart, now)
	if err != nil {
		return 0, err
	}
	return p.DeadlineMinutes() - now.Sub(start).Minutes(), nil
}

// HoursWorked 已工作小时数：
//   - 在岗时截止到 now，已下班时截止到 ActualEnd
//   - 仅当午餐完整结束（returned 且两个时间戳齐全）才扣除午餐时长
//   - 结果不小于 0
func HoursWorked(emp Employee, now time.Time) (float64, error) {
	if emp.ActualStart == "" {
		return 0, nil
	}

	var end time.Time
	switch emp.Status {
	case StatusActive:
		end = now
	case StatusClockedOut:
		if emp.ActualEnd == "" {
			return 0, nil
		}
		t, err := ParseWallClock(emp.ActualEnd, now)
		if err != nil {
			return 0, err
		}
		end = t
	default:
		return 0, nil
	}

	start, err := ParseWallClock(emp.ActualStart, now)
	if err != nil {
		return 0, err
	}

	minutes := end.Sub(start).Minutes()
	if emp.LunchStatus == LunchReturned && emp.LunchStartedAt != nil && emp.LunchEndedAt != nil {
		minutes -= emp.LunchEndedAt.Sub(*emp.LunchStartedAt).Minutes()
	}
	return math.Max(0, minutes/60), nil
}

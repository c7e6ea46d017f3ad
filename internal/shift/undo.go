package shift

import (
	"fmt"
	"time"
)

// UndoKind 可撤销操作类型
type UndoKind string

const (
	UndoAddEmployee      UndoKind = "add_employee"
	UndoRemoveEmployee   UndoKind = "remove_employee"
	UndoAssignLunch      UndoKind = "assign_lunch"
	UndoStartLunch       UndoKind = "start_lunch"
	UndoStartBreak       UndoKind = "start_break"
	UndoClockOut         UndoKind = "clock_out"
	UndoChangeAssignment UndoKind = "change_assignment"
)

// UndoEntry 撤销记录。
// 保存变更前的员工快照而不是闭包，可直接序列化存储。
type UndoEntry struct {
	ID                string    `json:"id"`
	Kind              UndoKind  `json:"kind"`
	Label             string    `json:"label"`
	EmployeeID        string    `json:"employee_id"`
	Index             int       `json:"index,omitempty"` // remove_employee: 原名单位置
	Prior             *Employee `json:"prior,omitempty"`
	CoverageID        string    `json:"coverage_id,omitempty"`         // 随操作一起开启的顶岗记录
	ClosedCoverageIDs []string  `json:"closed_coverage_ids,omitempty"` // remove_employee: 随删除一起关闭的顶岗记录
	CreatedAt         time.Time `json:"created_at"`
}

func (s *State) pushUndo(e UndoEntry) {
	if e.ID == "" {
		e.ID = s.newID()
	}
	e.CreatedAt = s.now()
	s.undo = append([]UndoEntry{e}, s.undo...)
	if len(s.undo) > s.undoLimit {
		s.undo = s.undo[:s.undoLimit]
	}
}

// UndoLog 撤销栈副本，最新在前
func (s *State) UndoLog() []UndoEntry {
	return append([]UndoEntry(nil), s.undo...)
}

// UndoHead 栈顶记录，用于提示条
func (s *State) UndoHead() (UndoEntry, bool) {
	if len(s.undo) == 0 {
		return UndoEntry{}, false
	}
	return s.undo[0], true
}

// ClearUndo 清空撤销栈
func (s *State) ClearUndo() {
	s.undo = nil
}

// Undo 弹出最新记录并恢复其捕获的原值。
// 记录无法应用（例如员工已被删除）时同样出栈，并返回错误。
func (s *State) Undo() (UndoEntry, error) {
	if len(s.undo) == 0 {
		return UndoEntry{}, ErrNothingToUndo
	}
	entry := s.undo[0]
	s.undo = s.undo[1:]
	if err := s.applyUndo(entry); err != nil {
		return entry, err
	}
	return entry, nil
}

// applyUndo 按类型分派恢复逻辑，只回写该操作触及的字段
func (s *State) applyUndo(entry UndoEntry) error {
	if entry.Kind == UndoAddEmployee {
		idx := s.indexOf(entry.EmployeeID)
		if idx < 0 {
			return ErrEmployeeNotFound
		}
		s.employees = append(s.employees[:idx:idx], s.employees[idx+1:]...)
		return nil
	}

	if entry.Prior == nil {
		return fmt.Errorf("%w: 撤销记录缺少快照 (%s)", ErrInvalidInput, entry.Kind)
	}
	prior := *entry.Prior

	if entry.Kind == UndoRemoveEmployee {
		if s.indexOf(prior.ID) >= 0 {
			return fmt.Errorf("%w: 员工 %s 已在班次中", ErrInvalidInput, prior.ID)
		}
		idx := entry.Index
		if idx < 0 || idx > len(s.employees) {
			idx = len(s.employees)
		}
		emps := make([]Employee, 0, len(s.employees)+1)
		emps = append(emps, s.employees[:idx]...)
		emps = append(emps, prior)
		emps = append(emps, s.employees[idx:]...)
		s.employees = emps
		s.reopenCoverage(entry.ClosedCoverageIDs)
		return nil
	}

	idx := s.indexOf(entry.EmployeeID)
	if idx < 0 {
		return ErrEmployeeNotFound
	}
	e := &s.employees[idx]

	switch entry.Kind {
	case UndoAssignLunch:
		e.LunchStatus = prior.LunchStatus
		e.LunchAssignedAt = prior.LunchAssignedAt
	case UndoStartLunch:
		// 其后的结束午餐不入栈，结束时间一并回退
		e.LunchStatus = prior.LunchStatus
		e.LunchAssignedAt = prior.LunchAssignedAt
		e.LunchStartedAt = prior.LunchStartedAt
		e.LunchEndedAt = prior.LunchEndedAt
	case UndoStartBreak:
		e.BreakStatus = prior.BreakStatus
		e.BreakStartedAt = prior.BreakStartedAt
		e.BreakEndedAt = prior.BreakEndedAt
	case UndoClockOut:
		e.Status = prior.Status
		e.ActualEnd = prior.ActualEnd
	case UndoChangeAssignment:
		e.CurrentAssignmentID = prior.CurrentAssignmentID
	default:
		return fmt.Errorf("%w: 未知撤销类型 %q", ErrInvalidInput, entry.Kind)
	}

	if entry.CoverageID != "" {
		s.removeCoverage(entry.CoverageID)
	}
	return nil
}

// reopenCoverage 重新打开删除员工时关闭的顶岗记录。
// 双方任一已有其他未结束记录时跳过，保持一人一条的约束。
func (s *State) reopenCoverage(ids []string) {
	for _, id := range ids {
		i := -1
		for j := range s.coverage {
			if s.coverage[j].ID == id {
				i = j
				break
			}
		}
		if i < 0 || s.coverage[i].Open() {
			continue
		}
		rec := s.coverage[i]
		if _, busy := s.CoverageFor(rec.EmployeeID); busy {
			continue
		}
		if _, busy := s.CoveringBy(rec.CoveredByID); busy {
			continue
		}
		s.coverage[i].EndedAt = nil
	}
}

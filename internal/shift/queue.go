package shift

import (
	"sort"
	"time"
)

// PriorityQueue 午餐派发队列：在岗、已开工、尚未安排午餐的员工，
// 按距截止剩余分钟升序；并列时保持输入顺序。
func PriorityQueue(emps []Employee, p Policy, now time.Time) ([]Employee, error) {
	type entry struct {
		emp       Employee
		remaining float64
	}

	entries := make([]entry, 0, len(emps))
	for _, e := range emps {
		if e.Status != StatusActive || e.ActualStart == "" || e.LunchStatus != LunchNotStarted {
			continue
		}
		remaining, err := MinutesToDeadline(e, p, now)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry{emp: e, remaining: remaining})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].remaining < entries[j].remaining
	})

	result := make([]Employee, len(entries))
	for i, en := range entries {
		result[i] = en.emp
	}
	return result, nil
}

// Ranked 带合规结果的员工
type Ranked struct {
	Employee   Employee
	Compliance ComplianceInfo
}

// SortByCompliancePriority 全员展示排序：在岗优先，其次按严重程度，其余保持原顺序
func SortByCompliancePriority(emps []Employee, p Policy, now time.Time) ([]Ranked, error) {
	ranked := make([]Ranked, 0, len(emps))
	for _, e := range emps {
		info, err := Evaluate(e, p, now)
		if err != nil {
			return nil, err
		}
		ranked = append(ranked, Ranked{Employee: e, Compliance: info})
	}

	statusKey := func(r Ranked) int {
		if r.Employee.Status == StatusActive {
			return 0
		}
		return 1
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := statusKey(ranked[i]), statusKey(ranked[j])
		if si != sj {
			return si < sj
		}
		return ranked[i].Compliance.Level.Rank() < ranked[j].Compliance.Level.Rank()
	})
	return ranked, nil
}

// GroupByActivity 拆分为在场组与离场组（缺勤、已下班）
func GroupByActivity(emps []Employee) (onFloor, inactive []Employee) {
	for _, e := range emps {
		if e.Status == StatusAbsent || e.Status == StatusClockedOut {
			inactive = append(inactive, e)
			continue
		}
		onFloor = append(onFloor, e)
	}
	return onFloor, inactive
}

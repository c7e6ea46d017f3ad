package shift

import "fmt"

// CoverageCheck 覆盖人数检查结果，仅供提示，不阻断操作
type CoverageCheck struct {
	Safe     bool     `json:"safe"`
	Warnings []string `json:"warnings"`
}

// ActiveCountForPosition 统计在岗且未在午餐中的该岗位人数。
// 小休不腾空岗位，仍计入。
func ActiveCountForPosition(emps []Employee, positionID string) int {
	n := 0
	for _, e := range emps {
		if e.Status == StatusActive && e.LunchStatus != LunchOnLunch && e.CurrentAssignmentID == positionID {
			n++
		}
	}
	return n
}

// CheckCoverageForLunch 假设该员工离岗用餐，检查其当前岗位是否跌破最低覆盖
func CheckCoverageForLunch(emps []Employee, employeeID string, positions []Position) (CoverageCheck, error) {
	return checkRemoval(emps, employeeID, positions, "Sending %s to lunch will drop %s below minimum coverage (%d).")
}

// CheckCoverageForCover 假设该员工被调去顶岗，检查其原岗位是否跌破最低覆盖
func CheckCoverageForCover(emps []Employee, covererID string, positions []Position) (CoverageCheck, error) {
	return checkRemoval(emps, covererID, positions, "Moving %s will drop %s below minimum coverage (%d).")
}

func checkRemoval(emps []Employee, employeeID string, positions []Position, format string) (CoverageCheck, error) {
	emp, ok := findEmployee(emps, employeeID)
	if !ok {
		return CoverageCheck{}, ErrEmployeeNotFound
	}

	check := CoverageCheck{Safe: true, Warnings: []string{}}

	// 岗位不在目录中视为未受保护
	pos, ok := findPosition(positions, emp.CurrentAssignmentID)
	if !ok || !pos.CoverageProtection {
		return check, nil
	}

	count := ActiveCountForPosition(emps, pos.ID)
	if count-1 < pos.MinCoverage {
		check.Warnings = append(check.Warnings, fmt.Sprintf(format, emp.Name, pos.Name, pos.MinCoverage))
	}
	check.Safe = len(check.Warnings) == 0
	return check, nil
}

// QualifiedPositions 档案可胜任的岗位；无收银权限时排除需要收银权限的岗位
func QualifiedPositions(record EmployeeRecord, positions []Position) []Position {
	result := make([]Position, 0, len(record.Qualifications))
	for _, q := range record.Qualifications {
		pos, ok := findPosition(positions, q.SubRoleID)
		if !ok {
			continue
		}
		if pos.RequiresRegisterAccess && !record.HasRegisterAccess {
			continue
		}
		result = append(result, pos)
	}
	return result
}

// EligibleCovers 可为 employeeID 顶岗的人选：
// 在岗、不在午餐/小休中，且档案具备目标岗位资格。
func EligibleCovers(emps []Employee, employeeID string, records []EmployeeRecord, positions []Position) ([]Employee, error) {
	target, ok := findEmployee(emps, employeeID)
	if !ok {
		return nil, ErrEmployeeNotFound
	}

	byID := make(map[string]EmployeeRecord, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}

	result := make([]Employee, 0)
	for _, e := range emps {
		if e.ID == target.ID {
			continue
		}
		if e.Status != StatusActive || e.LunchStatus == LunchOnLunch || e.BreakStatus == BreakOnBreak {
			continue
		}
		rec, ok := byID[e.EmployeeRecordID]
		if !ok {
			continue
		}
		for _, p := range QualifiedPositions(rec, positions) {
			if p.ID == target.CurrentAssignmentID {
				result = append(result, e)
				break
			}
		}
	}
	return result, nil
}

func findEmployee(emps []Employee, id string) (Employee, bool) {
	for _, e := range emps {
		if e.ID == id {
			return e, true
		}
	}
	return Employee{}, false
}

func findPosition(positions []Position, id string) (Position, bool) {
	for _, p := range positions {
		if p.ID == id {
			return p, true
		}
	}
	return Position{}, false
}

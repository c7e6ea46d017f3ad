package dto

// ── 排班导入 DTO ──

// ImportScheduleRequest 导入请求（JSON/表单方式；文件走 multipart 的 file 字段）
type ImportScheduleRequest struct {
	URL          string `json:"url"           form:"url"           binding:"omitempty,url"`
	Text         string `json:"text"          form:"text"          binding:"omitempty,max=20000"`
	DefaultStart string `json:"default_start" form:"default_start"`
	DefaultEnd   string `json:"default_end"   form:"default_end"`
}

// ScheduleRow 解析出的一行排班，时间为 HH:mm，可缺省
type ScheduleRow struct {
	Name  string `json:"name"`
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
	Lunch string `json:"lunch,omitempty"`
}

// ImportedRow 成功加入班次的行
type ImportedRow struct {
	Name             string `json:"name"`
	EmployeeRecordID string `json:"employee_record_id"`
	ShiftEmployeeID  string `json:"shift_employee_id"`
	AssignmentID     string `json:"assignment_id,omitempty"`
	ScheduledStart   string `json:"scheduled_start"`
	ScheduledEnd     string `json:"scheduled_end"`
}

// SkippedRow 跳过的行及原因
type SkippedRow struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// ImportResponse 导入结果
type ImportResponse struct {
	Parsed   int           `json:"parsed"`
	Imported []ImportedRow `json:"imported"`
	Skipped  []SkippedRow  `json:"skipped"`
}

package dto

// ── 合规策略 DTO ──

// UpdatePolicyRequest 更新合规策略，未传字段保持原值
type UpdatePolicyRequest struct {
	MealDeadlineHours *float64 `json:"meal_deadline_hours" binding:"omitempty,gt=0,max=24"`
	WarningMinutes    *float64 `json:"warning_minutes"     binding:"omitempty,min=0"`
	UrgentMinutes     *float64 `json:"urgent_minutes"      binding:"omitempty,min=0"`
	CriticalMinutes   *float64 `json:"critical_minutes"    binding:"omitempty,min=0"`
}

// PolicyResponse 合规策略响应
type PolicyResponse struct {
	MealDeadlineHours float64 `json:"meal_deadline_hours"`
	WarningMinutes    float64 `json:"warning_minutes"`
	UrgentMinutes     float64 `json:"urgent_minutes"`
	CriticalMinutes   float64 `json:"critical_minutes"`
	Source            string  `json:"source"` // database | config
}

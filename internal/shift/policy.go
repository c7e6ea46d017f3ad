package shift

import (
	"fmt"
	"math"
)

// Policy 用餐合规策略
//
// 三个预警阈值均为"距离截止还剩多少分钟"，必须满足
// 0 ≤ Critical ≤ Urgent ≤ Warning ≤ MealDeadlineHours*60，
// 否则等级判定会静默错乱，因此在构造时校验。
type Policy struct {
	MealDeadlineHours float64 `json:"meal_deadline_hours"`
	WarningMinutes    float64 `json:"warning_minutes_before_deadline"`
	UrgentMinutes     float64 `json:"urgent_minutes_before_deadline"`
	CriticalMinutes   float64 `json:"critical_minutes_before_deadline"`
}

// DefaultPolicy 默认策略：5 小时内必须开始用餐，提前 60/30/15 分钟预警
func DefaultPolicy() Policy {
	return Policy{
		MealDeadlineHours: 5,
		WarningMinutes:    60,
		UrgentMinutes:     30,
		CriticalMinutes:   15,
	}
}

// NewPolicy 构造并校验策略
func NewPolicy(deadlineHours, warning, urgent, critical float64) (Policy, error) {
	p := Policy{
		MealDeadlineHours: deadlineHours,
		WarningMinutes:    warning,
		UrgentMinutes:     urgent,
		CriticalMinutes:   critical,
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// Validate 校验阈值顺序
func (p Policy) Validate() error {
	for _, v := range []float64{p.MealDeadlineHours, p.WarningMinutes, p.UrgentMinutes, p.CriticalMinutes} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: 数值必须有限", ErrInvalidPolicy)
		}
	}
	if p.MealDeadlineHours <= 0 {
		return fmt.Errorf("%w: meal_deadline_hours 必须大于 0", ErrInvalidPolicy)
	}
	if p.CriticalMinutes < 0 {
		return fmt.Errorf("%w: critical 阈值不能为负", ErrInvalidPolicy)
	}
	if p.CriticalMinutes > p.UrgentMinutes || p.UrgentMinutes > p.WarningMinutes {
		return fmt.Errorf("%w: 需满足 critical(%g) ≤ urgent(%g) ≤ warning(%g)",
			ErrInvalidPolicy, p.CriticalMinutes, p.UrgentMinutes, p.WarningMinutes)
	}
	if p.WarningMinutes > p.DeadlineMinutes() {
		return fmt.Errorf("%w: warning 阈值不能超过截止时长", ErrInvalidPolicy)
	}
	return nil
}

// DeadlineMinutes 截止时长（分钟）
func (p Policy) DeadlineMinutes() float64 {
	return p.MealDeadlineHours * 60
}

package shift

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// TimeFormat 显示用时钟格式
type TimeFormat string

const (
	TimeFormat12h TimeFormat = "12h"
	TimeFormat24h TimeFormat = "24h"
)

// WallClockLayout 排班时间统一使用 24 小时制 HH:mm
const WallClockLayout = "15:04"

// ParseWallClock 将 "HH:mm" 锚定到 day 所在日历日（沿用 day 的时区），秒与纳秒归零。
// 格式错误时返回 ErrInvalidWallClock，调用方不得用零值继续计算。
func ParseWallClock(s string, day time.Time) (time.Time, error) {
	t, err := time.Parse(WallClockLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidWallClock, s)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}

// ValidateWallClock 仅校验 "HH:mm" 格式
func ValidateWallClock(s string) error {
	_, err := ParseWallClock(s, time.Time{})
	return err
}

// FormatDuration 将分钟数格式化为 "Xh Ym"，小时为 0 时省略小时部分。
// 分钟四舍五入到整数；+Inf 显示为 "—"。
func FormatDuration(minutes float64) string {
	if math.IsInf(minutes, 0) || math.IsNaN(minutes) {
		return "—"
	}
	sign := ""
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}

	h := math.Floor(minutes / 60)
	m := math.Round(math.Mod(minutes, 60))
	if m == 60 {
		h++
		m = 0
	}
	if h == 0 && m == 0 {
		return "0m"
	}
	if h == 0 {
		return fmt.Sprintf("%s%dm", sign, int(m))
	}
	return fmt.Sprintf("%s%dh %dm", sign, int(h), int(m))
}

// FormatClock 按 12h/24h 设置格式化时刻
func FormatClock(t time.Time, format TimeFormat) string {
	if format == TimeFormat24h {
		return t.Format(WallClockLayout)
	}
	return t.Format("03:04 PM")
}

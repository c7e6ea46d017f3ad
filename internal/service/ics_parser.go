package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"shift-guard/internal/dto"
	"shift-guard/internal/shift"
)

// ── ICS 解析器 ──────────────────────────────────────────────
//
// 职责：从排班系统导出的 iCalendar (RFC 5545) 中取出某营业日的排班行。
//
//   - SUMMARY 为员工姓名
//   - DTSTART/DTEND 换算到门店时区后取 HH:mm
//   - 仅保留开始日期落在目标营业日的事件
//   - DESCRIPTION 中的 "Lunch 12:30" 作为计划午餐时间
//   - 同名同时段的重复事件只保留一条
// ─────────────────────────────────────────────────────────────

const (
	icsMaxFileSize  = 5 * 1024 * 1024 // 5MB
	icsFetchTimeout = 30 * time.Second
)

var lunchHintPattern = regexp.MustCompile(`(?i)lunch\s*[:=@-]?\s*(\d{1,2}:\d{2})`)

// FetchICSContent 从 URL 获取 ICS 内容
func FetchICSContent(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	// webcal:// → https://
	u := rawURL
	if strings.HasPrefix(u, "webcal://") {
		u = "https://" + strings.TrimPrefix(u, "webcal://")
	}

	ctx, cancel := context.WithTimeout(ctx, icsFetchTimeout)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("获取 ICS 失败: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("获取 ICS 失败: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("获取 ICS 失败: HTTP %d", resp.StatusCode)
	}
	// 限制响应体大小，防止恶意 URL 返回超大内容导致 OOM
	return struct {
		io.Reader
		io.Closer
	}{
		Reader: io.LimitReader(resp.Body, icsMaxFileSize),
		Closer: closerFunc(func() error {
			defer cancel()
			return resp.Body.Close()
		}),
	}, nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// ParseICS 解析 ICS 内容，返回 day 当日的排班行（按出现顺序）
func ParseICS(reader io.Reader, day time.Time) ([]dto.ScheduleRow, error) {
	cal, err := ics.ParseCalendar(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportFormat, err)
	}

	loc := day.Location()
	target := day.Format(dateLayout)
	seen := make(map[string]bool)

	var rows []dto.ScheduleRow
	for _, evt := range cal.Events() {
		row, start, ok := parseShiftEvent(evt, loc)
		if !ok || start.Format(dateLayout) != target {
			continue
		}
		key := strings.ToLower(row.Name) + "|" + row.Start + "|" + row.End
		if seen[key] {
			continue
		}
		seen[key] = true
		rows = append(rows, row)
	}
	return rows, nil
}

// parseShiftEvent 解析单个 VEVENT
func parseShiftEvent(evt *ics.VEvent, loc *time.Location) (dto.ScheduleRow, time.Time, bool) {
	summary := evt.GetProperty(ics.ComponentPropertySummary)
	if summary == nil || strings.TrimSpace(summary.Value) == "" {
		return dto.ScheduleRow{}, time.Time{}, false
	}

	dtStart, err := parseICSDateTime(evt, ics.ComponentPropertyDtStart, loc)
	if err != nil {
		return dto.ScheduleRow{}, time.Time{}, false
	}

	row := dto.ScheduleRow{
		Name:  normalizeWhitespace(summary.Value),
		Start: dtStart.Format(shift.WallClockLayout),
	}
	if dtEnd, err := parseICSDateTime(evt, ics.ComponentPropertyDtEnd, loc); err == nil {
		row.End = dtEnd.Format(shift.WallClockLayout)
	}
	if desc := evt.GetProperty(ics.ComponentPropertyDescription); desc != nil {
		if m := lunchHintPattern.FindStringSubmatch(desc.Value); m != nil {
			if t, ok := to24h(m[1]); ok {
				row.Lunch = t
			}
		}
	}
	return row, dtStart, true
}

// parseICSDateTime 从 VEVENT 中解析日期时间属性
func parseICSDateTime(evt *ics.VEvent, propName ics.ComponentProperty, loc *time.Location) (time.Time, error) {
	prop := evt.GetProperty(propName)
	if prop == nil {
		return time.Time{}, fmt.Errorf("missing property %s", propName)
	}
	val := prop.Value

	// 尝试多种 ICS 日期格式
	formats := []string{
		"20060102T150405Z",
		"20060102T150405",
		"20060102",
	}

	// 检查 TZID 参数
	tzid := ""
	for k, v := range prop.ICalParameters {
		if strings.ToUpper(k) == "TZID" && len(v) > 0 {
			tzid = v[0]
		}
	}

	for _, layout := range formats {
		t, err := time.Parse(layout, val)
		if err != nil {
			continue
		}
		if strings.HasSuffix(layout, "Z") {
			return t.In(loc), nil
		}
		if tzid != "" {
			if tzLoc, err := time.LoadLocation(tzid); err == nil {
				return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, tzLoc).In(loc), nil
			}
		}
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
	}

	return time.Time{}, fmt.Errorf("无法解析日期: %s", val)
}

package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"shift-guard/internal/dto"
)

// ── 纯文本排班解析 ──────────────────────────────────────────
//
// 适配从排班系统复制出来的文本，常见形态：
//
//	Jane Doe 9am - 5:30pm
//
//	Jane Doe
//	Cashier
//	09:00 - 17:30
//
// 时间段向上最多回看 3 行寻找姓名；姓名至少两个纯字母单词。
// ─────────────────────────────────────────────────────────────

const timePart = `\d{1,2}(?::\d{2})?\s*(?:am|pm|a\.m\.|p\.m\.)?`

var (
	rangePattern      = regexp.MustCompile(`(?i)(` + timePart + `)\s*-\s*(` + timePart + `)`)
	rangeTailPattern  = regexp.MustCompile(`(?i)(` + timePart + `)\s*-\s*(` + timePart + `).*`)
	clockPattern      = regexp.MustCompile(`^(\d{1,2})(?::?(\d{2}))?(am|pm)?$`)
	nameTokenPattern  = regexp.MustCompile(`^[A-Za-z][A-Za-z'’-]*$`)
	dashReplacer      = strings.NewReplacer("–", "-", "—", "-")
	roleLineSignals   = []string{"team lead", "team associate", "associate", "host", "services", "cashier", "do not disturb", "clock", "lunch", "break", "shift"}
	nameLookbackLines = 3
)

// ParseScheduleText 解析纯文本排班，同名同时段去重
func ParseScheduleText(input string) []dto.ScheduleRow {
	var lines []string
	for _, l := range strings.Split(input, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}

	var rows []dto.ScheduleRow
	seen := make(map[string]bool)
	add := func(name, start, end string) {
		key := strings.ToLower(name) + "|" + start + "|" + end
		if seen[key] {
			return
		}
		seen[key] = true
		rows = append(rows, dto.ScheduleRow{Name: name, Start: start, End: end})
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if start, end, ok := parseRange(line); ok {
			if name, found := findNameNearTime(lines, i); found {
				add(name, start, end)
			}
			continue
		}

		// 姓名行后紧跟时间行，中间可能夹一行岗位
		if !isLikelyName(line) {
			continue
		}
		if i+1 < len(lines) {
			if start, end, ok := parseRange(lines[i+1]); ok {
				add(normalizeWhitespace(line), start, end)
				i++
				continue
			}
		}
		if i+2 < len(lines) && looksLikeRoleLine(lines[i+1]) {
			if start, end, ok := parseRange(lines[i+2]); ok {
				add(normalizeWhitespace(line), start, end)
				i += 2
			}
		}
	}
	return rows
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// to24h 将 "9am" / "5:30 pm" / "17:30" 规整为 HH:mm
func to24h(s string) (string, bool) {
	raw := strings.ToLower(s)
	raw = strings.ReplaceAll(raw, ".", "")
	raw = strings.Join(strings.Fields(raw), "")

	m := clockPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if minute > 59 {
		return "", false
	}
	switch m[3] {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	if hour > 23 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), true
}

func parseRange(line string) (string, string, bool) {
	clean := normalizeWhitespace(dashReplacer.Replace(line))
	m := rangePattern.FindStringSubmatch(clean)
	if m == nil {
		return "", "", false
	}
	start, ok := to24h(m[1])
	if !ok {
		return "", "", false
	}
	end, ok := to24h(m[2])
	if !ok {
		return "", "", false
	}
	return start, end, true
}

func looksLikeRoleLine(line string) bool {
	lower := strings.ToLower(normalizeWhitespace(line))
	if lower == "" {
		return false
	}
	for _, token := range roleLineSignals {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}

func isLikelyName(line string) bool {
	clean := normalizeWhitespace(line)
	if clean == "" || looksLikeRoleLine(clean) {
		return false
	}
	if strings.IndexFunc(clean, unicode.IsDigit) >= 0 {
		return false
	}
	tokens := strings.Fields(clean)
	if len(tokens) < 2 {
		return false
	}
	for _, t := range tokens {
		if !nameTokenPattern.MatchString(t) {
			return false
		}
	}
	return true
}

// findNameNearTime 先看时间段所在行的前缀，再向上回看
func findNameNearTime(lines []string, idx int) (string, bool) {
	inline := normalizeWhitespace(rangeTailPattern.ReplaceAllString(dashReplacer.Replace(lines[idx]), ""))
	if isLikelyName(inline) {
		return inline, true
	}
	for offset := 1; offset <= nameLookbackLines && idx-offset >= 0; offset++ {
		candidate := normalizeWhitespace(lines[idx-offset])
		if isLikelyName(candidate) {
			return candidate, true
		}
	}
	return "", false
}

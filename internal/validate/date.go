// Package validate implements locale-aware validation and normalization of
// extracted invoice fields: Thai dates and digits, currency amounts, tax IDs,
// and cross-field amount consistency.
package validate

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// buddhistYearOffset converts Buddhist Era years to Common Era (BE = CE + 543).
const buddhistYearOffset = 543

var thaiDigits = strings.NewReplacer(
	"๐", "0", "๑", "1", "๒", "2", "๓", "3", "๔", "4",
	"๕", "5", "๖", "6", "๗", "7", "๘", "8", "๙", "9",
)

var thaiMonths = []struct {
	name  string
	month int
}{
	{"มกราคม", 1}, {"มค", 1},
	{"กุมภาพันธ์", 2}, {"กพ", 2},
	{"มีนาคม", 3}, {"มีค", 3},
	{"เมษายน", 4}, {"เมย", 4},
	{"พฤษภาคม", 5}, {"พค", 5},
	{"มิถุนายน", 6}, {"มิย", 6},
	{"กรกฎาคม", 7}, {"กค", 7},
	{"สิงหาคม", 8}, {"สค", 8},
	{"กันยายน", 9}, {"กย", 9},
	{"ตุลาคม", 10}, {"ตค", 10},
	{"พฤศจิกายน", 11}, {"พย", 11},
	{"ธันวาคม", 12}, {"ธค", 12},
}

// ConvertThaiDigits rewrites Thai digits (๐-๙) as Arabic digits.
func ConvertThaiDigits(text string) string {
	return thaiDigits.Replace(text)
}

// ReplaceThaiMonthNames rewrites Thai month names (full and abbreviated) as
// month numbers.
func ReplaceThaiMonthNames(text string) string {
	for _, m := range thaiMonths {
		text = strings.ReplaceAll(text, m.name, strconv.Itoa(m.month))
	}
	return text
}

// BuddhistToGregorian converts a Buddhist Era year to Common Era. Years in
// the BE range (above 2400) are shifted by 543; plausible CE years pass
// through unchanged.
func BuddhistToGregorian(year int) int {
	if year > 2400 {
		return year - buddhistYearOffset
	}
	return year
}

var dateFormats = []struct {
	re         *regexp.Regexp
	name       string
	confidence float64
}{
	{regexp.MustCompile(`(\d{1,2})[/\-\s]+(\d{1,2})[/\-\s]+(\d{4})`), "DD/MM/YYYY", 0.95},
	{regexp.MustCompile(`(\d{4})[/\-\s]+(\d{1,2})[/\-\s]+(\d{1,2})`), "YYYY/MM/DD", 0.85},
	{regexp.MustCompile(`(\d{1,2})[/\-\s]+(\d{1,2})[/\-\s]+(\d{2})`), "DD/MM/YY", 0.85},
}

// ParseDate parses a Thai or Western date string. It returns the parsed
// date, a confidence for the detected format, and the format name. ok is
// false when no format matched or the digits do not form a real date.
func ParseDate(text string) (parsed time.Time, conf float64, format string, ok bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, 0, "empty", false
	}

	text = ConvertThaiDigits(text)
	text = ReplaceThaiMonthNames(text)

	for _, f := range dateFormats {
		m := f.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		var day, month, year int
		switch f.name {
		case "DD/MM/YYYY":
			day, _ = strconv.Atoi(m[1])
			month, _ = strconv.Atoi(m[2])
			year, _ = strconv.Atoi(m[3])
		case "YYYY/MM/DD":
			year, _ = strconv.Atoi(m[1])
			month, _ = strconv.Atoi(m[2])
			day, _ = strconv.Atoi(m[3])
		default: // DD/MM/YY
			day, _ = strconv.Atoi(m[1])
			month, _ = strconv.Atoi(m[2])
			year, _ = strconv.Atoi(m[3])
			if year < 100 {
				year += 2000
			}
		}

		year = BuddhistToGregorian(year)

		if month < 1 || month > 12 || day < 1 || day > 31 || year < 1900 {
			continue
		}
		d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		// time.Date normalizes Feb 30 to Mar 1; reject such inputs.
		if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
			continue
		}
		return d, f.confidence, f.name, true
	}
	return time.Time{}, 0, "unrecognized", false
}

// NormalizeDate parses and renders a date in ISO form (YYYY-MM-DD).
func NormalizeDate(text string) (normalized string, parsed time.Time, conf float64, format string, ok bool) {
	parsed, conf, format, ok = ParseDate(text)
	if !ok {
		return "", time.Time{}, 0, "invalid", false
	}
	return parsed.Format("2006-01-02"), parsed, conf, format, true
}

// ValidateDate checks that a parsed date is plausible for an invoice: not in
// the future and not before 1900.
func ValidateDate(parsed time.Time, now time.Time) (bool, float64, string) {
	if parsed.IsZero() {
		return false, 0.0, "date could not be parsed"
	}
	if parsed.After(now) {
		return false, 0.3, "date " + parsed.Format("2006-01-02") + " is in the future"
	}
	if parsed.Year() < 1900 {
		return false, 0.1, "date " + parsed.Format("2006-01-02") + " is too old"
	}
	return true, 0.95, ""
}

package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Date-shaped patterns tried in order. Separators '/', '-' and '.' are
// interchangeable; day-first comes before ISO because Brazilian documents
// overwhelmingly print DD/MM.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(\d{2})[/.\-](\d{2})[/.\-](\d{2,4})\b`), // DD/MM/YY(YY)
	regexp.MustCompile(`\b(\d{4})[/.\-](\d{2})[/.\-](\d{2})\b`),   // YYYY-MM-DD
}

// FindIssuanceDate scans the text for the first date candidate that yields a
// plausible calendar date and returns it as ISO YYYY-MM-DD. Two-digit years
// below 50 map to the 2000s, the rest to the 1900s. When day and month are
// ambiguous (both <= 12) both orderings are tried; a candidate that produces
// no plausible date is skipped and the scan continues. Plausible means within
// [2000-01-01, now+1y]. No match yields nil.
func FindIssuanceDate(text string, now time.Time) *string {
	for i, pat := range datePatterns {
		for _, m := range pat.FindAllStringSubmatch(text, -1) {
			var day, month, year int
			if i == 1 { // YYYY-MM-DD
				year, _ = strconv.Atoi(m[1])
				month, _ = strconv.Atoi(m[2])
				day, _ = strconv.Atoi(m[3])
			} else {
				day, _ = strconv.Atoi(m[1])
				month, _ = strconv.Atoi(m[2])
				year = expandYear(m[3])
			}
			if iso, ok := plausibleDate(year, month, day, now); ok {
				return &iso
			}
			// ambiguous day/month: try the swapped ordering before giving up
			if day <= 12 && month <= 12 && day != month {
				if iso, ok := plausibleDate(year, day, month, now); ok {
					return &iso
				}
			}
		}
	}
	return nil
}

// expandYear century-disambiguates two-digit years: <50 -> 2000s, else 1900s.
func expandYear(s string) int {
	y, _ := strconv.Atoi(s)
	if len(s) == 4 {
		return y
	}
	if y < 50 {
		return 2000 + y
	}
	return 1900 + y
}

func plausibleDate(year, month, day int, now time.Time) (string, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// reject normalization (e.g. Feb 30 -> Mar 2)
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return "", false
	}
	if year < 2000 || d.After(now.AddDate(1, 0, 0)) {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}

package model

import (
	"strings"
	"time"
)

// DayPattern is a short code naming the weekdays a meeting recurs on,
// e.g. "MJ" (Tuesday/Thursday) or "LWV" (Monday/Wednesday/Friday).
// Codes are compared as plain strings unless the overlap policy is enabled.
type DayPattern string

var weekdayLetters = map[rune]time.Weekday{
	'L': time.Monday,
	'M': time.Tuesday,
	'W': time.Wednesday,
	'J': time.Thursday,
	'V': time.Friday,
	'S': time.Saturday,
	'D': time.Sunday,
}

// dayPatternAliases resolves codes whose letters do not follow the table above.
// "LMV" is used by meeting creation for the Monday/Wednesday/Friday group.
var dayPatternAliases = map[DayPattern]DayPattern{
	"LMV": "LWV",
}

// Weekdays returns the set of weekdays named by the code. Unknown letters are ignored.
func (p DayPattern) Weekdays() map[time.Weekday]bool {
	code := p
	if alias, ok := dayPatternAliases[code]; ok {
		code = alias
	}
	days := make(map[time.Weekday]bool, len(code))
	for _, r := range strings.ToUpper(string(code)) {
		if d, ok := weekdayLetters[r]; ok {
			days[d] = true
		}
	}
	return days
}

// SharesWeekday reports whether two patterns have at least one weekday in common.
func (p DayPattern) SharesWeekday(other DayPattern) bool {
	mine := p.Weekdays()
	for d := range other.Weekdays() {
		if mine[d] {
			return true
		}
	}
	return false
}

// In reports whether the code is one of allowed, by exact match.
func (p DayPattern) In(allowed []string) bool {
	for _, a := range allowed {
		if string(p) == a {
			return true
		}
	}
	return false
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/alejandrobg101/Syllabus-Chatbot/internal/dto"
	"github.com/alejandrobg101/Syllabus-Chatbot/internal/model"
)

// ── Calendar export ──────────────────────────────────────────
//
// Renders a term's sections as iCalendar (RFC 5545):
//   - one VEVENT per section, recurring weekly on the meeting's weekdays
//   - DTSTART is the first matching weekday on or after From
//   - UNTIL is the end of the Until day
//   - sections whose meeting names no known weekday are skipped
// ─────────────────────────────────────────────────────────────

const (
	calendarDateLayout = "2006-01-02"
	calendarProductID  = "-//Syllabus Chatbot//Timetable//EN"
	icsUTCLayout       = "20060102T150405Z"
)

// ErrCalendarRange is returned when Until is before From.
var ErrCalendarRange = errors.New("calendar range must end on or after its start")

// icsWeekdays in RFC 5545 BYDAY order.
var icsWeekdays = []struct {
	day  time.Weekday
	code string
}{
	{time.Monday, "MO"},
	{time.Tuesday, "TU"},
	{time.Wednesday, "WE"},
	{time.Thursday, "TH"},
	{time.Friday, "FR"},
	{time.Saturday, "SA"},
	{time.Sunday, "SU"},
}

func (s *exportService) ExportCalendar(ctx context.Context, req *dto.CalendarExportRequest) ([]byte, string, error) {
	from, err := time.ParseInLocation(calendarDateLayout, req.From, s.loc)
	if err != nil {
		return nil, "", fmt.Errorf("%w: from %q", ErrCalendarRange, req.From)
	}
	until, err := time.ParseInLocation(calendarDateLayout, req.Until, s.loc)
	if err != nil {
		return nil, "", fmt.Errorf("%w: until %q", ErrCalendarRange, req.Until)
	}
	if until.Before(from) {
		return nil, "", ErrCalendarRange
	}
	last := until.Add(24*time.Hour - time.Second)

	semester := model.NormalizeSemester(req.Semester)
	sections, err := s.repo.Section.ListByTerm(ctx, semester, req.Year)
	if err != nil {
		s.logger.Error("list term sections failed", zap.Error(err))
		return nil, "", err
	}
	if len(sections) == 0 {
		return nil, "", ErrExportNoSections
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)

	stamp := time.Now()
	written := 0
	for i := range sections {
		sec := &sections[i]
		if sec.Meeting == nil {
			continue
		}
		days := sec.Meeting.Days.Weekdays()
		first, ok := firstOccurrence(from, last, days)
		if !ok {
			continue
		}
		start, err := atTimeOfDay(first, sec.Meeting.StartTime)
		if err != nil {
			s.logger.Warn("skip section with bad start time", zap.Int64("sid", sec.SectionID), zap.Error(err))
			continue
		}
		end, err := atTimeOfDay(first, sec.Meeting.EndTime)
		if err != nil {
			s.logger.Warn("skip section with bad end time", zap.Int64("sid", sec.SectionID), zap.Error(err))
			continue
		}

		evt := cal.AddEvent(fmt.Sprintf("section-%d-%s-%s@syllabus-chatbot", sec.SectionID, semester, req.Year))
		evt.SetDtStampTime(stamp)
		evt.SetStartAt(start)
		evt.SetEndAt(end)
		evt.SetSummary(sectionSummary(sec))
		if sec.Room != nil {
			evt.SetLocation(sec.Room.Building + " " + sec.Room.RoomNumber)
		}
		evt.SetDescription(fmt.Sprintf("Section %d, %s %s, capacity %d", sec.SectionID, semester, req.Year, sec.Capacity))
		evt.AddProperty(ics.ComponentPropertyRrule, weeklyRule(days, last))
		written++
	}
	if written == 0 {
		return nil, "", ErrExportNoSections
	}

	filename := fmt.Sprintf("timetable_%s_%s.ics", semester, req.Year)
	return []byte(cal.Serialize()), filename, nil
}

// firstOccurrence returns the first day in [from, last] whose weekday is in days.
func firstOccurrence(from, last time.Time, days map[time.Weekday]bool) (time.Time, bool) {
	if len(days) == 0 {
		return time.Time{}, false
	}
	for d := from; !d.After(last) && d.Sub(from) < 7*24*time.Hour; d = d.AddDate(0, 0, 1) {
		if days[d.Weekday()] {
			return d, true
		}
	}
	return time.Time{}, false
}

// atTimeOfDay combines the date of day with an HH:MM:SS time of day.
func atTimeOfDay(day time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04:05", clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), t.Second(), 0, day.Location()), nil
}

func weeklyRule(days map[time.Weekday]bool, last time.Time) string {
	codes := make([]string, 0, len(days))
	for _, wd := range icsWeekdays {
		if days[wd.day] {
			codes = append(codes, wd.code)
		}
	}
	return "FREQ=WEEKLY;BYDAY=" + strings.Join(codes, ",") + ";UNTIL=" + last.UTC().Format(icsUTCLayout)
}

func sectionSummary(sec *model.Section) string {
	if sec.Course == nil {
		return fmt.Sprintf("Section %d", sec.SectionID)
	}
	return sec.Course.Code + " " + sec.Course.Name
}

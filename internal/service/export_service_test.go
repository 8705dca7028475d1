package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/alejandrobg101/Syllabus-Chatbot/internal/dto"
)

func setupTestExportService() (ExportService, *memDB) {
	db, _ := placementFixture()
	return NewExportService(newMockRepository(db), time.UTC, zap.NewNop()), db
}

func TestExportService_ExportTimetable_NoSections(t *testing.T) {
	svc, _ := setupTestExportService()

	_, _, err := svc.ExportTimetable(context.Background(), "Spring", "2030")
	if !errors.Is(err, ErrExportNoSections) {
		t.Errorf("expected ErrExportNoSections, got %v", err)
	}
}

func TestExportService_ExportTimetable_Success(t *testing.T) {
	svc, db := setupTestExportService()
	db.addSection(501, 2, 10, 21, "Fall", "2025", 15)

	buf, filename, err := svc.ExportTimetable(context.Background(), "fall", "2025")
	if err != nil {
		t.Fatalf("ExportTimetable should succeed: %v", err)
	}
	if filename != "timetable_Fall_2025.xlsx" {
		t.Errorf("unexpected filename %s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Timetable")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected title, header and 2 rows, got %d rows", len(rows))
	}
	if !strings.Contains(rows[0][0], "Fall 2025") {
		t.Errorf("unexpected title %q", rows[0][0])
	}
	// LWV sorts before MJ in the same room
	if rows[2][0] != "501" || rows[2][4] != "LWV" || rows[3][0] != "500" {
		t.Errorf("unexpected row order: %v / %v", rows[2], rows[3])
	}
}

// ── calendar ──

func calendarRequest(from, until string) *dto.CalendarExportRequest {
	return &dto.CalendarExportRequest{Semester: "Fall", Year: "2025", From: from, Until: until}
}

func unescape(v string) string {
	return strings.ReplaceAll(v, `\`, "")
}

func TestExportService_ExportCalendar_Success(t *testing.T) {
	svc, db := setupTestExportService()
	db.addSection(501, 2, 11, 23, "Fall", "2025", 15)

	// 2025-08-18 is a Monday
	data, filename, err := svc.ExportCalendar(context.Background(), calendarRequest("2025-08-18", "2025-12-12"))
	if err != nil {
		t.Fatalf("ExportCalendar should succeed: %v", err)
	}
	if filename != "timetable_Fall_2025.ics" {
		t.Errorf("unexpected filename %s", filename)
	}

	cal, err := ics.ParseCalendar(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("parse calendar: %v", err)
	}
	events := cal.Events()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	byID := map[string]*ics.VEvent{}
	for _, e := range events {
		byID[e.GetProperty(ics.ComponentPropertyUniqueId).Value] = e
	}

	mj := byID["section-500-Fall-2025@syllabus-chatbot"]
	if mj == nil {
		t.Fatalf("missing event for section 500: %v", byID)
	}
	if got := mj.GetProperty(ics.ComponentPropertyDtStart).Value; got != "20250819T090000Z" {
		t.Errorf("MJ should start on Tuesday 19 Aug at 09:00, got %s", got)
	}
	if got := mj.GetProperty(ics.ComponentPropertyDtEnd).Value; got != "20250819T102000Z" {
		t.Errorf("unexpected DTEND %s", got)
	}
	if got := unescape(mj.GetProperty(ics.ComponentPropertyRrule).Value); got != "FREQ=WEEKLY;BYDAY=TU,TH;UNTIL=20251212T235959Z" {
		t.Errorf("unexpected RRULE %s", got)
	}

	// LMV resolves to Monday, Wednesday and Friday
	lmv := byID["section-501-Fall-2025@syllabus-chatbot"]
	if lmv == nil {
		t.Fatal("missing event for section 501")
	}
	if got := lmv.GetProperty(ics.ComponentPropertyDtStart).Value; got != "20250818T093000Z" {
		t.Errorf("LMV should start on Monday 18 Aug at 09:30, got %s", got)
	}
	if got := unescape(lmv.GetProperty(ics.ComponentPropertyRrule).Value); !strings.Contains(got, "BYDAY=MO,WE,FR") {
		t.Errorf("unexpected RRULE %s", got)
	}
}

func TestExportService_ExportCalendar_BadRange(t *testing.T) {
	svc, _ := setupTestExportService()

	_, _, err := svc.ExportCalendar(context.Background(), calendarRequest("2025-12-12", "2025-08-18"))
	if !errors.Is(err, ErrCalendarRange) {
		t.Errorf("expected ErrCalendarRange, got %v", err)
	}
}

func TestExportService_ExportCalendar_NoSections(t *testing.T) {
	svc, _ := setupTestExportService()

	req := calendarRequest("2025-08-18", "2025-12-12")
	req.Year = "2031"
	_, _, err := svc.ExportCalendar(context.Background(), req)
	if !errors.Is(err, ErrExportNoSections) {
		t.Errorf("expected ErrExportNoSections, got %v", err)
	}
}

func TestFirstOccurrence(t *testing.T) {
	monday := time.Date(2025, 8, 18, 0, 0, 0, 0, time.UTC)
	days := map[time.Weekday]bool{time.Friday: true}

	got, ok := firstOccurrence(monday, monday.AddDate(0, 0, 2), days)
	if ok {
		t.Errorf("Friday is outside a Monday to Wednesday range, got %s", got)
	}
	got, ok = firstOccurrence(monday, monday.AddDate(0, 1, 0), days)
	if !ok || got.Weekday() != time.Friday || got.Day() != 22 {
		t.Errorf("expected Friday 22 Aug, got %s (ok=%v)", got, ok)
	}
	if _, ok := firstOccurrence(monday, monday.AddDate(0, 1, 0), nil); ok {
		t.Error("an empty weekday set has no occurrence")
	}
}
